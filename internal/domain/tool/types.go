package tool

import (
	"context"
	"encoding/json"
	"time"
)

// Scope identifies who a tool call acts for. CustomerID is empty until the shopper is identified.
type Scope struct {
	ConversationID string
	TenantID       string
	CustomerID     string
}

// Result is the envelope returned for every tool call and serialized back to the model.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`

	// CustomerID is set by identify_customer so later calls in the turn run for that customer.
	CustomerID string `json:"-"`
}

// JSON serializes the result for a tool_result block.
func (r Result) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"error":"result could not be encoded"}`
	}
	return string(b)
}

func failure(msg string) Result {
	return Result{Success: false, Error: msg}
}

func success(data any) Result {
	return Result{Success: true, Data: data}
}

// rejected is a completed execution whose request broke a business rule.
func rejected(reason string) Result {
	return Result{Success: true, Error: reason}
}

// Action is a client-side rendering instruction derived from a tool result.
type Action struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Execution outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeInvalid  = "invalid_arguments"
	OutcomeUnknown  = "unknown_tool"
)

// Execution is the audit record of one tool call.
type Execution struct {
	ID             string
	TenantID       string
	ConversationID string
	MessageID      string
	CallID         string
	ToolName       string
	Arguments      json.RawMessage
	Result         Result
	Outcome        string
	ExecutionOrder int
	Duration       time.Duration
	CreatedAt      time.Time
}

// ExecutionRepository stores tool execution audit records.
type ExecutionRepository interface {
	SaveExecutions(ctx context.Context, executions []Execution) error
}

// Escalation is a request for a human to take over a conversation.
type Escalation struct {
	TenantID       string
	ConversationID string
	CustomerID     string
	Reason         string
	Priority       string
	RequestedAt    time.Time
}

// EscalationNotifier delivers escalation notices to the support team.
type EscalationNotifier interface {
	NotifyEscalation(ctx context.Context, escalation Escalation) error
}

// Recorder observes tool executions.
type Recorder interface {
	RecordToolCall(tool, outcome string, durationSec float64)
}
