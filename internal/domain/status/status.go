// Package status defines shared status types for conversations and error classification.
package status

import "errors"

// Status represents the lifecycle status of a conversation.
type Status string

const (
	StatusActive    Status = "active"    // Assistant answers the shopper
	StatusEscalated Status = "escalated" // Handed over to a human agent
	StatusClosed    Status = "closed"    // No further turns expected
)

// ErrInvalidTransition is returned when a status transition is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusClosed
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := ValidTransitions[s]
	return ok
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ValidTransitions defines allowed status transitions.
var ValidTransitions = map[Status][]Status{
	StatusActive:    {StatusEscalated, StatusClosed},
	StatusEscalated: {StatusActive, StatusClosed},
	StatusClosed:    {},
}

// CanTransitionTo checks if a transition from current status to target status is valid.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range ValidTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts to transition to the target status and returns error if invalid.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}

// ErrorSeverity indicates how an error should be handled.
type ErrorSeverity string

const (
	ErrorSeverityRetryable ErrorSeverity = "retryable" // Retry with backoff
	ErrorSeverityFatal     ErrorSeverity = "fatal"     // Fail the whole turn
)

// String returns the string representation of the error severity.
func (e ErrorSeverity) String() string {
	return string(e)
}

// IsRetryable returns true if the error can be retried.
func (e ErrorSeverity) IsRetryable() bool {
	return e == ErrorSeverityRetryable
}

// IsFatal returns true if the error should fail the turn.
func (e ErrorSeverity) IsFatal() bool {
	return e == ErrorSeverityFatal
}
