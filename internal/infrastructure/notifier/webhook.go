package notifier

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/cuetrack/pool-league/internal/platform/logging"
	"github.com/cuetrack/pool-league/internal/platform/notify"
	"github.com/cuetrack/pool-league/internal/platform/resilience"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	Retries        int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Webhook pushes broker events to an external endpoint as JSON. Transient
// failures are retried a bounded number of times; a run of failures opens
// the circuit and later events are dropped with a warning until the
// endpoint recovers. Delivery is best effort.
type Webhook struct {
	client         *fasthttp.Client
	url            string
	token          string
	timeout        time.Duration
	retries        int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhook(cfg WebhookConfig, logger *logging.Logger) *Webhook {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Webhook{
		client:         &fasthttp.Client{},
		url:            strings.TrimSpace(cfg.URL),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		retries:        cfg.Retries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Handle is the broker subscription entry point.
func (w *Webhook) Handle(ctx context.Context, event notify.Event) {
	if err := w.deliver(ctx, event); err != nil {
		w.logger.WarnContext(ctx, "webhook delivery failed",
			"event_kind", event.Kind,
			"error", err,
		)
	}
}

func (w *Webhook) deliver(ctx context.Context, event notify.Event) error {
	if w.url == "" {
		return crerr.New("webhook url is not configured")
	}
	if w.circuitEnabled {
		if err := w.breaker.Allow(); err != nil {
			return crerr.Wrapf(err, "webhook circuit %s", w.breaker.State())
		}
	}

	body, err := sonic.Marshal(struct {
		Kind       string         `json:"kind"`
		OccurredAt time.Time      `json:"occurred_at"`
		Fields     map[string]any `json:"fields,omitempty"`
	}{
		Kind:       event.Kind,
		OccurredAt: event.OccurredAt,
		Fields:     event.Fields,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal webhook payload")
	}

	attempts := w.retries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		lastErr = w.post(body)
		if lastErr == nil {
			w.recordResult(nil)
			return nil
		}
		if !crerr.Is(lastErr, errWebhookTransient) {
			break
		}
	}

	w.recordResult(lastErr)
	return lastErr
}

func (w *Webhook) post(body []byte) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.Set(body)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(w.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}
	req.SetBody(buf.B)

	if err := w.client.DoTimeout(req, resp, w.timeout); err != nil {
		return crerr.Wrapf(errWebhookTransient, "post webhook: %v", err)
	}

	status := resp.StatusCode()
	switch {
	case status/100 == 2:
		return nil
	case isRetryableStatus(status):
		return crerr.Wrapf(errWebhookTransient, "webhook status %d", status)
	default:
		return crerr.Newf("webhook rejected with status %d", status)
	}
}

func (w *Webhook) recordResult(err error) {
	if !w.circuitEnabled {
		return
	}
	if err != nil && crerr.Is(err, errWebhookTransient) {
		w.breaker.RecordFailure()
		return
	}
	w.breaker.RecordSuccess()
}

func isRetryableStatus(status int) bool {
	if status == fasthttp.StatusTooManyRequests || status == fasthttp.StatusRequestTimeout {
		return true
	}
	return status >= 500
}
