package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/llm"
)

const (
	msgUnknownTool     = "unknown tool"
	msgInternalFailure = "No fue posible completar la operación en este momento"
	msgCancelled       = "La operación fue cancelada"
)

var tracer = otel.Tracer("github.com/janhq/commerce-api/internal/domain/tool")

// ArgumentSanitizer strips customer data from raw tool arguments before they reach traces
// and logs.
type ArgumentSanitizer interface {
	SanitizeArguments(tenantID, arguments string) string
}

// Dependencies are the collaborators tool handlers act on.
type Dependencies struct {
	Store         commerce.Store
	Carts         *commerce.CartService
	Conversations conversation.Repository
	Notifier      EscalationNotifier
	Recorder      Recorder
	// Timeout bounds a single handler. Zero means no bound beyond the caller's context.
	Timeout time.Duration
	// NotifyTimeout bounds the background escalation notice.
	NotifyTimeout time.Duration
	// Sanitizer renders arguments for traces and debug logs. Nil keeps them out entirely.
	Sanitizer ArgumentSanitizer
}

// Executor validates tool arguments and runs the matching handler.
type Executor struct {
	registry      *Registry
	store         commerce.Store
	carts         *commerce.CartService
	conversations conversation.Repository
	notifier      EscalationNotifier
	recorder      Recorder
	timeout       time.Duration
	notifyTimeout time.Duration
	sanitizer     ArgumentSanitizer
	log           zerolog.Logger
	now           func() time.Time
	background    sync.WaitGroup
}

// NewExecutor creates an executor over registry.
func NewExecutor(registry *Registry, deps Dependencies, log zerolog.Logger) *Executor {
	notifyTimeout := deps.NotifyTimeout
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &Executor{
		registry:      registry,
		store:         deps.Store,
		carts:         deps.Carts,
		conversations: deps.Conversations,
		notifier:      deps.Notifier,
		recorder:      deps.Recorder,
		timeout:       deps.Timeout,
		notifyTimeout: notifyTimeout,
		sanitizer:     deps.Sanitizer,
		log:           log.With().Str("component", "tool-executor").Logger(),
		now:           time.Now,
	}
}

// Registry returns the catalog the executor dispatches on.
func (x *Executor) Registry() *Registry {
	return x.registry
}

// Execute runs tool name with raw JSON arguments on behalf of scope.
func (x *Executor) Execute(ctx context.Context, name string, raw json.RawMessage, scope Scope) Result {
	return x.Run(ctx, llm.ToolCall{Name: name, Input: raw}, scope, 0).Result
}

// Run executes a model tool call and returns its audit record.
func (x *Executor) Run(ctx context.Context, call llm.ToolCall, scope Scope, order int) Execution {
	start := x.now()
	ctx, span := tracer.Start(ctx, "tool.execute."+call.Name,
		trace.WithAttributes(
			attribute.String("tool.name", call.Name),
			attribute.String("tool.call_id", call.ID),
		),
	)
	defer span.End()
	var arguments string
	if x.sanitizer != nil {
		arguments = x.sanitizer.SanitizeArguments(scope.TenantID, string(call.Input))
		span.SetAttributes(attribute.String("tool.arguments", arguments))
	}

	result, outcome := x.dispatch(ctx, call, scope)
	elapsed := time.Since(start)

	if x.recorder != nil {
		x.recorder.RecordToolCall(call.Name, outcome, elapsed.Seconds())
	}
	if outcome != OutcomeSuccess && outcome != OutcomeRejected {
		span.RecordError(errors.New(result.Error))
		span.SetStatus(codes.Error, outcome)
	}
	x.log.Debug().
		Str("tool", call.Name).
		Str("call_id", call.ID).
		Str("conversation_id", scope.ConversationID).
		Str("arguments", arguments).
		Str("outcome", outcome).
		Dur("duration", elapsed).
		Msg("tool executed")

	return Execution{
		ID:             uuid.NewString(),
		TenantID:       scope.TenantID,
		ConversationID: scope.ConversationID,
		CallID:         call.ID,
		ToolName:       call.Name,
		Arguments:      call.Input,
		Result:         result,
		Outcome:        outcome,
		ExecutionOrder: order,
		Duration:       elapsed,
		CreatedAt:      start,
	}
}

func (x *Executor) dispatch(ctx context.Context, call llm.ToolCall, scope Scope) (result Result, outcome string) {
	e, ok := x.registry.entries[call.Name]
	if !ok {
		return failure(msgUnknownTool), OutcomeUnknown
	}

	args, err := e.decode(call.Input, x.registry.defaults)
	if err != nil {
		return failure(fmt.Sprintf("invalid arguments for %s: %v", call.Name, err)), OutcomeInvalid
	}

	if x.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.timeout)
		defer cancel()
	}
	defer func() {
		if rec := recover(); rec != nil {
			x.log.Error().Str("tool", call.Name).Interface("panic", rec).Msg("tool handler panicked")
			result, outcome = failure(msgInternalFailure), OutcomeFailed
		}
	}()

	result = e.handle(ctx, x, scope, args)
	switch {
	case !result.Success:
		outcome = OutcomeFailed
	case result.Error != "":
		outcome = OutcomeRejected
	default:
		outcome = OutcomeSuccess
	}
	return result, outcome
}

// Wait blocks until background escalation notices have finished.
func (x *Executor) Wait() {
	x.background.Wait()
}

// fromError maps a handler error to a result: rule violations are relayed, missing products
// are reported as not found, anything else is logged and hidden.
func (x *Executor) fromError(ctx context.Context, tool string, err error) Result {
	if errors.Is(err, commerce.ErrProductNotFound) {
		return failure(commerce.MsgProductNotFound)
	}
	if reason, ok := commerce.AsViolation(err); ok {
		return rejected(reason)
	}
	if ctx.Err() != nil {
		return failure(msgCancelled)
	}
	x.log.Error().Err(err).Str("tool", tool).Msg("tool handler failed")
	return failure(msgInternalFailure)
}

// ActionFor returns the client action for a result of tool name, if any.
func (x *Executor) ActionFor(name string, result Result) (Action, bool) {
	return x.registry.ActionFor(name, result)
}
