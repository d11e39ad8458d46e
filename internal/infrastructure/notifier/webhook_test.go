package notifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cuetrack/pool-league/internal/platform/logging"
	"github.com/cuetrack/pool-league/internal/platform/notify"
	"github.com/cuetrack/pool-league/internal/platform/resilience"
)

func testEvent(kind string) notify.Event {
	return notify.Event{
		Kind:       kind,
		OccurredAt: time.Date(2026, time.March, 2, 19, 0, 0, 0, time.UTC),
		Fields:     map[string]any{"season_id": "spring-2026"},
	}
}

func TestWebhookDeliversEventPayload(t *testing.T) {
	t.Parallel()

	var gotBody atomic.Value
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hook := NewWebhook(WebhookConfig{
		URL:   server.URL,
		Token: "hook-secret",
	}, logging.NewNop())

	if err := hook.deliver(context.Background(), testEvent(notify.KindMatchCompleted)); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	body, _ := gotBody.Load().(string)
	if !strings.Contains(body, notify.KindMatchCompleted) {
		t.Fatalf("body %q does not carry the event kind", body)
	}
	if !strings.Contains(body, "spring-2026") {
		t.Fatalf("body %q does not carry the event fields", body)
	}
	if auth, _ := gotAuth.Load().(string); auth != "Bearer hook-secret" {
		t.Fatalf("authorization = %q, want bearer token", auth)
	}
}

func TestWebhookRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hook := NewWebhook(WebhookConfig{
		URL:     server.URL,
		Retries: 3,
	}, logging.NewNop())

	if err := hook.deliver(context.Background(), testEvent(notify.KindLineupLocked)); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

func TestWebhookDoesNotRetryRejection(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	hook := NewWebhook(WebhookConfig{
		URL:     server.URL,
		Retries: 3,
	}, logging.NewNop())

	err := hook.deliver(context.Background(), testEvent(notify.KindMatchVerified))
	if err == nil {
		t.Fatal("expected an error for a 4xx response")
	}
	if errors.Is(err, errWebhookTransient) {
		t.Fatalf("4xx should not be transient: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestWebhookCircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	hook := NewWebhook(WebhookConfig{
		URL: server.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := hook.deliver(ctx, testEvent(notify.KindScheduleGenerated)); err == nil {
			t.Fatal("expected delivery failure")
		}
	}

	before := calls.Load()
	err := hook.deliver(ctx, testEvent(notify.KindScheduleGenerated))
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("err = %v, want circuit open", err)
	}
	if calls.Load() != before {
		t.Fatal("open circuit should not reach the endpoint")
	}
}
