package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/commerce-api/internal/domain/retry"
)

var tracer = otel.Tracer("github.com/janhq/commerce-api/internal/domain/llm")

// Recorder receives one observation per Send call.
type Recorder interface {
	RecordModelCall(model, outcome string, attempts int, durationSec float64)
}

// Model call outcomes reported to the Recorder.
const (
	OutcomeSuccess   = "success"
	OutcomeAuth      = "auth_error"
	OutcomeExhausted = "exhausted"
	OutcomeInvalid   = "invalid_request"
	OutcomeCancelled = "cancelled"
)

// Gateway sends requests to the model, retrying transient failures.
type Gateway struct {
	provider Provider
	policy   retry.Policy
	recorder Recorder
	log      zerolog.Logger
}

// NewGateway wraps provider with policy. Classification of failures is fixed: credential
// rejections fail immediately, everything else is retried.
func NewGateway(provider Provider, policy retry.Policy, recorder Recorder, log zerolog.Logger) *Gateway {
	g := &Gateway{
		provider: provider,
		recorder: recorder,
		log:      log.With().Str("component", "model-gateway").Logger(),
	}
	policy.Classify = Classify
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		g.log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", delay).Msg("model call failed, retrying")
	}
	g.policy = policy
	return g
}

// Send returns a fully decoded response or one of *AuthError, *ExhaustedRetriesError,
// ErrInvalidHistory or the context error.
func (g *Gateway) Send(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "llm.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.model", req.Model),
			attribute.Int("llm.messages", len(req.Messages)),
			attribute.Int("llm.tools", len(req.Tools)),
		),
	)
	defer span.End()

	if err := ValidateHistory(req.Messages); err != nil {
		g.record(req.Model, OutcomeInvalid, 0, start)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp, attempts, err := retry.ExecuteWithResult(ctx, g.policy, func(ctx context.Context, attempt int) (*Response, error) {
		if attempt > 1 {
			span.AddEvent("retry", trace.WithAttributes(attribute.Int("retry.attempt", attempt)))
		}
		return g.provider.CreateMessage(ctx, req)
	})
	if err == nil {
		if attempts > 1 {
			g.log.Info().Int("attempts", attempts).Str("model", req.Model).Msg("model call recovered after retries")
		}
		g.record(req.Model, OutcomeSuccess, attempts, start)
		return resp, nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var exhausted *retry.ExhaustedError
	switch {
	case errors.As(err, &exhausted):
		g.record(req.Model, OutcomeExhausted, attempts, start)
		return nil, &ExhaustedRetriesError{Attempts: exhausted.Attempts, Last: exhausted.Err}
	case ctx.Err() != nil:
		g.record(req.Model, OutcomeCancelled, attempts, start)
		return nil, err
	default:
		var providerErr *ProviderError
		if errors.As(err, &providerErr) && providerErr.IsAuth() {
			g.record(req.Model, OutcomeAuth, attempts, start)
			return nil, &AuthError{Err: err}
		}
		g.record(req.Model, OutcomeInvalid, attempts, start)
		return nil, err
	}
}

func (g *Gateway) record(model, outcome string, attempts int, start time.Time) {
	if g.recorder != nil {
		g.recorder.RecordModelCall(model, outcome, attempts, time.Since(start).Seconds())
	}
}

// ValidateHistory checks that messages start with the user and alternate roles.
func ValidateHistory(messages []Message) error {
	if len(messages) == 0 || messages[0].Role != RoleUser {
		return ErrInvalidHistory
	}
	for i, msg := range messages {
		if len(msg.Content) == 0 {
			return ErrInvalidHistory
		}
		if i > 0 && msg.Role == messages[i-1].Role {
			return ErrInvalidHistory
		}
		if msg.Role != RoleUser && msg.Role != RoleAssistant {
			return ErrInvalidHistory
		}
	}
	return nil
}
