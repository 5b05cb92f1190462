// Package retry defines retry policies and backoff strategies.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/janhq/commerce-api/internal/domain/status"
)

// Policy defines a retry strategy. MaxAttempts counts the first call.
type Policy struct {
	MaxAttempts     int           `json:"max_attempts"`
	InitialDelay    time.Duration `json:"initial_delay"`
	MaxDelay        time.Duration `json:"max_delay"`
	BackoffStrategy BackoffType   `json:"backoff_strategy"`
	JitterFactor    float64       `json:"jitter_factor"` // 0.0-1.0

	// Classify decides whether a failed attempt may be retried. Nil retries everything.
	Classify func(err error) status.ErrorSeverity `json:"-"`
	// OnRetry runs before sleeping ahead of the next attempt.
	OnRetry func(attempt int, delay time.Duration, err error) `json:"-"`
}

// BackoffType identifies the backoff strategy.
type BackoffType string

const (
	BackoffFixed       BackoffType = "fixed"       // Same delay each time
	BackoffLinear      BackoffType = "linear"      // Delay increases linearly
	BackoffExponential BackoffType = "exponential" // Delay doubles each time
)

// DefaultPolicy returns three attempts with exact exponential backoff from one second.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialDelay:    1 * time.Second,
		MaxDelay:        30 * time.Second,
		BackoffStrategy: BackoffExponential,
	}
}

// NoRetryPolicy returns a policy that never retries.
func NoRetryPolicy() Policy {
	return Policy{MaxAttempts: 1}
}

// ExhaustedError reports that every attempt allowed by the policy failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// CalculateDelay returns the wait before retry number attempt (1-based).
func (p *Policy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	var delay time.Duration

	switch p.BackoffStrategy {
	case BackoffFixed:
		delay = p.InitialDelay
	case BackoffLinear:
		delay = p.InitialDelay * time.Duration(attempt)
	case BackoffExponential:
		delay = p.InitialDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	default:
		delay = p.InitialDelay
	}

	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.JitterFactor > 0 {
		jitter := float64(delay) * p.JitterFactor * (rand.Float64()*2 - 1) // -jitter to +jitter
		delay = time.Duration(float64(delay) + jitter)
		if delay < 0 {
			delay = 0
		}
	}

	return delay
}

// ShouldRetry determines if another attempt may follow attempt (1-based).
func (p *Policy) ShouldRetry(attempt int, severity status.ErrorSeverity) bool {
	if attempt >= p.maxAttempts() {
		return false
	}
	return severity.IsRetryable()
}

func (p *Policy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

func (p *Policy) classify(err error) status.ErrorSeverity {
	if p.Classify == nil {
		return status.ErrorSeverityRetryable
	}
	return p.Classify(err)
}

// ExecuteWithResult runs fn until it succeeds, fails with a non-retryable error, or uses
// every attempt. It returns the number of attempts made. Exhaustion is reported as
// *ExhaustedError wrapping the last failure; a non-retryable failure is returned unchanged.
func ExecuteWithResult[T any](ctx context.Context, policy Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, int, error) {
	var zero T

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, attempt - 1, err
		}

		result, err := fn(ctx, attempt)
		if err == nil {
			return result, attempt, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, attempt, ctxErr
		}

		severity := policy.classify(err)
		if !severity.IsRetryable() {
			return zero, attempt, err
		}
		if !policy.ShouldRetry(attempt, severity) {
			return zero, attempt, &ExhaustedError{Attempts: attempt, Err: err}
		}

		delay := policy.CalculateDelay(attempt)
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, delay, err)
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, attempt, ctx.Err()
			case <-timer.C:
			}
		}
	}
}

// Execute runs fn with the same semantics as ExecuteWithResult.
func Execute(ctx context.Context, policy Policy, fn func(ctx context.Context, attempt int) error) (int, error) {
	_, attempts, err := ExecuteWithResult(ctx, policy, func(ctx context.Context, attempt int) (struct{}, error) {
		return struct{}{}, fn(ctx, attempt)
	})
	return attempts, err
}
