package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Upstream is an HTTP JSON dependency behind a circuit breaker.
type Upstream struct {
	base    string
	path    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	name    string
}

func NewUpstream(name, base, path string, timeout time.Duration, breaker *gobreaker.CircuitBreaker) *Upstream {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	return &Upstream{
		base:    base,
		path:    path,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		name:    name,
	}
}

// Configured reports whether a base URL was given.
func (u *Upstream) Configured() bool { return u != nil && u.base != "" }

// GetJSON performs the GET with query and decodes the body into out.
func (u *Upstream) GetJSON(ctx context.Context, query url.Values, out any) error {
	if !u.Configured() {
		return fmt.Errorf("%s not configured", u.name)
	}
	_, err := u.breaker.Execute(func() (any, error) {
		target := u.base + u.path
		if len(query) > 0 {
			target += "?" + query.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		resp, err := u.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request error: %w", u.name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%s upstream status %d", u.name, resp.StatusCode)
		}
		if h := resp.Header.Get("X-Error"); h != "" {
			return nil, fmt.Errorf("%s upstream degraded: %s", u.name, h)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%s decode error: %w", u.name, err)
		}
		return nil, nil
	})
	return err
}

func (u *Upstream) State() gobreaker.State { return u.breaker.State() }
