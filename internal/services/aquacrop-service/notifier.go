package aquacrop_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/LeonardoBeccarini/labmet/internal/model/messages"
)

// Notifier delivers alerts to the farmer.
type Notifier interface {
	Notify(ctx context.Context, evt messages.AlertEvent) error
}

// NopNotifier drops every alert. Used when no push endpoint is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, messages.AlertEvent) error { return nil }

type PushConfig struct {
	BaseURL string // push API root, POST {BaseURL}/push/notifications
	Token   string // bearer token
	Profile string // security profile of the push app
	Tokens  []string

	Timeout    time.Duration
	MaxRetries uint64

	BreakerFailures int
	BreakerOpenFor  time.Duration
}

// PushNotifier posts alerts to a push notification API. Each call is retried
// with exponential backoff and the whole delivery runs behind a breaker.
type PushNotifier struct {
	cfg     PushConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewPushNotifier(cfg PushConfig) *PushNotifier {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BreakerFailures < 1 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerOpenFor <= 0 {
		cfg.BreakerOpenFor = 30 * time.Second
	}
	fails := uint32(cfg.BreakerFailures)
	return &PushNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "push-notifications",
			Timeout: cfg.BreakerOpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= fails
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("notifier: breaker %s %s -> %s", name, from, to)
			},
		}),
	}
}

type pushRequest struct {
	Tokens       []string `json:"tokens"`
	Profile      string   `json:"profile"`
	Notification struct {
		Message string `json:"message"`
	} `json:"notification"`
}

func (n *PushNotifier) Notify(ctx context.Context, evt messages.AlertEvent) error {
	var body pushRequest
	body.Tokens = n.cfg.Tokens
	if body.Tokens == nil {
		body.Tokens = []string{}
	}
	body.Profile = n.cfg.Profile
	body.Notification.Message = evt.Message
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	_, err = n.breaker.Execute(func() (interface{}, error) {
		b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), n.cfg.MaxRetries), ctx)
		return nil, backoff.Retry(func() error { return n.post(ctx, payload) }, b)
	})
	if err != nil {
		return fmt.Errorf("push %s alert for %s: %w", evt.Kind, evt.PlotID, err)
	}
	return nil
}

func (n *PushNotifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.BaseURL+"/push/notifications", bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.cfg.Token)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("push API status %d", resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("push API status %d", resp.StatusCode))
	}
}

// State exposes the breaker state for health reporting.
func (n *PushNotifier) State() gobreaker.State { return n.breaker.State() }
