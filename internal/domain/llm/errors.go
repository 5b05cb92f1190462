package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/janhq/commerce-api/internal/domain/status"
)

// ErrInvalidHistory is returned when a request does not start with a user message or
// does not alternate roles.
var ErrInvalidHistory = errors.New("message history must be non-empty, start with user and alternate roles")

// ProviderError is a failed attempt reported by a Provider. StatusCode is zero for
// transport and decoding failures.
type ProviderError struct {
	StatusCode int
	Type       string
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("llm provider: %v", e.Err)
	case e.Type != "":
		return fmt.Sprintf("llm provider: status %d (%s): %s", e.StatusCode, e.Type, e.Message)
	default:
		return fmt.Sprintf("llm provider: status %d: %s", e.StatusCode, e.Message)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether the provider rejected the credentials.
func (e *ProviderError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// AuthError is returned when the credentials were rejected. It is never retried.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("llm authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ExhaustedRetriesError is returned once every allowed attempt failed.
type ExhaustedRetriesError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("llm call failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.Last
}

// Classify maps a provider failure to a retry severity. Credential rejection and
// malformed requests built by this service are fatal; everything else is retried.
func Classify(err error) status.ErrorSeverity {
	if errors.Is(err, ErrInvalidHistory) {
		return status.ErrorSeverityFatal
	}
	var providerErr *ProviderError
	if errors.As(err, &providerErr) && providerErr.IsAuth() {
		return status.ErrorSeverityFatal
	}
	return status.ErrorSeverityRetryable
}
