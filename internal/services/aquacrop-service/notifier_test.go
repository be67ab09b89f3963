package aquacrop_service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/LeonardoBeccarini/labmet/internal/model/messages"
)

func TestPushNotifierSendsBearerAndBody(t *testing.T) {
	var got pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/push/notifications" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := NewPushNotifier(PushConfig{BaseURL: srv.URL + "/", Token: "secret", Profile: "prod", Tokens: []string{"dev1"}})
	err := n.Notify(context.Background(), messages.AlertEvent{PlotID: "p1", Kind: messages.AlertDrySoil, Message: "Dry soil on p1"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Profile != "prod" || len(got.Tokens) != 1 || got.Notification.Message != "Dry soil on p1" {
		t.Fatalf("body %+v", got)
	}
}

func TestPushNotifierRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewPushNotifier(PushConfig{BaseURL: srv.URL, MaxRetries: 2})
	if err := n.Notify(context.Background(), messages.AlertEvent{Message: "x"}); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestPushNotifierBreakerOpens(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewPushNotifier(PushConfig{BaseURL: srv.URL, MaxRetries: 3, BreakerFailures: 2, BreakerOpenFor: time.Minute})
	for i := 0; i < 2; i++ {
		if err := n.Notify(context.Background(), messages.AlertEvent{Message: "x"}); err == nil {
			t.Fatal("client error accepted")
		}
	}
	// 4xx are not retried
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if n.State() != gobreaker.StateOpen {
		t.Fatalf("breaker %s, want open", n.State())
	}
	err := n.Notify(context.Background(), messages.AlertEvent{Message: "x"})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want open state", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatal("request sent while breaker open")
	}
}
