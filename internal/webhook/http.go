package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/janhq/commerce-api/internal/domain/retry"
	"github.com/janhq/commerce-api/internal/domain/status"
	"github.com/janhq/commerce-api/internal/domain/tool"
)

// HTTPNotifier posts escalation notices to a support webhook.
type HTTPNotifier struct {
	client *resty.Client
	url    string
	policy retry.Policy
	log    zerolog.Logger
}

// NewHTTPNotifier creates a notifier for url. An empty url disables delivery.
func NewHTTPNotifier(url string, log zerolog.Logger) *HTTPNotifier {
	n := &HTTPNotifier{
		client: resty.New().
			SetTimeout(10*time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("User-Agent", "commerce-api/1.0"),
		url: url,
		policy: retry.Policy{
			MaxAttempts:     3,
			InitialDelay:    2 * time.Second,
			MaxDelay:        10 * time.Second,
			BackoffStrategy: retry.BackoffFixed,
			Classify:        classify,
		},
		log: log.With().Str("component", "webhook").Logger(),
	}
	n.policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		n.log.Warn().Err(err).Str("url", n.url).Int("attempt", attempt).Msg("webhook delivery failed")
	}
	return n
}

// NotifyEscalation implements tool.EscalationNotifier.
func (n *HTTPNotifier) NotifyEscalation(ctx context.Context, e tool.Escalation) error {
	if n.url == "" {
		n.log.Debug().Str("conversation_id", e.ConversationID).Msg("no escalation webhook configured, skipping notification")
		return nil
	}

	payload := Payload{
		Event:          EventEscalationRequested,
		TenantID:       e.TenantID,
		ConversationID: e.ConversationID,
		CustomerID:     e.CustomerID,
		Reason:         e.Reason,
		Priority:       e.Priority,
		RequestedAt:    formatTime(e.RequestedAt),
	}

	attempts, err := retry.Execute(ctx, n.policy, func(ctx context.Context, attempt int) error {
		resp, err := n.client.R().
			SetContext(ctx).
			SetHeader("X-Commerce-Event", payload.Event).
			SetHeader("X-Commerce-Tenant", payload.TenantID).
			SetBody(payload).
			Post(n.url)
		if err != nil {
			return fmt.Errorf("send webhook: %w", err)
		}
		if resp.IsError() {
			return &statusError{code: resp.StatusCode()}
		}
		return nil
	})
	if err != nil {
		return err
	}

	n.log.Info().
		Str("conversation_id", e.ConversationID).
		Str("priority", e.Priority).
		Int("attempts", attempts).
		Msg("escalation webhook delivered")
	return nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.code)
}

// classify gives up on client errors other than throttling.
func classify(err error) status.ErrorSeverity {
	var se *statusError
	if errors.As(err, &se) && se.code >= 400 && se.code < 500 && se.code != http.StatusTooManyRequests {
		return status.ErrorSeverityFatal
	}
	return status.ErrorSeverityRetryable
}

var _ tool.EscalationNotifier = (*HTTPNotifier)(nil)
