package assistant

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/commerce-api/internal/domain/llm"
	"github.com/janhq/commerce-api/internal/domain/tool"
)

// State is a state of the orchestration loop.
type State string

const (
	StateAwaitingModel  State = "AWAITING_MODEL"
	StateExecutingTools State = "EXECUTING_TOOLS"
	StateDone           State = "DONE"
)

// DefaultMaxIterations caps the model calls of one turn.
const DefaultMaxIterations = 5

// ModelSender sends a request to the model. *llm.Gateway implements it.
type ModelSender interface {
	Send(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// ToolRunner executes tool calls. *tool.Executor implements it.
type ToolRunner interface {
	Run(ctx context.Context, call llm.ToolCall, scope tool.Scope, order int) tool.Execution
	ActionFor(name string, result tool.Result) (tool.Action, bool)
}

// LoopConfig holds the model parameters of every request.
type LoopConfig struct {
	Model         string
	MaxTokens     int
	MaxIterations int
}

// Loop alternates model calls and tool execution until the model answers without tools or
// the iteration ceiling is reached.
type Loop struct {
	gateway ModelSender
	tools   ToolRunner
	cfg     LoopConfig
	log     zerolog.Logger
}

// NewLoop creates a loop. A non-positive MaxIterations falls back to DefaultMaxIterations.
func NewLoop(gateway ModelSender, tools ToolRunner, cfg LoopConfig, log zerolog.Logger) *Loop {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &Loop{
		gateway: gateway,
		tools:   tools,
		cfg:     cfg,
		log:     log.With().Str("component", "assistant-loop").Logger(),
	}
}

// Turn is the input of one loop run.
type Turn struct {
	System  string
	History []llm.Message
	Tools   []llm.ToolDefinition
	Scope   tool.Scope
}

// Outcome is what a completed loop run produced.
type Outcome struct {
	// Text holds the non-empty text blocks of every model response, trimmed and joined with
	// a blank line, in the order they were produced.
	Text       string
	Actions    []tool.Action
	Executions []tool.Execution
	ToolsUsed  []string
	Iterations int
	Model      string
	// CustomerID is set when a tool identified the shopper during the turn.
	CustomerID string
	// CeilingReached reports that the last model call still requested tools. Those calls were
	// executed but the model never saw their results.
	CeilingReached bool
}

// Run drives one turn. Errors from the model gateway and cancellation abort the run; tool
// failures never do, they are fed back to the model as results.
func (l *Loop) Run(ctx context.Context, turn Turn) (*Outcome, error) {
	span := trace.SpanFromContext(ctx)
	messages := append([]llm.Message(nil), turn.History...)
	scope := turn.Scope
	out := &Outcome{Model: l.cfg.Model}

	var texts []string
	var pending []llm.ToolCall
	used := make(map[string]bool)

	state := StateAwaitingModel
	for state != StateDone {
		span.AddEvent("loop.iteration", trace.WithAttributes(
			attribute.Int("loop.iteration", out.Iterations),
			attribute.String("loop.state", string(state)),
		))

		switch state {
		case StateAwaitingModel:
			out.Iterations++
			resp, err := l.gateway.Send(ctx, llm.Request{
				Model:     l.cfg.Model,
				MaxTokens: l.cfg.MaxTokens,
				System:    turn.System,
				Messages:  messages,
				Tools:     turn.Tools,
			})
			if err != nil {
				return nil, err
			}
			if resp.Model != "" {
				out.Model = resp.Model
			}
			for _, text := range resp.Texts() {
				if text = strings.TrimSpace(text); text != "" {
					texts = append(texts, text)
				}
			}

			pending = resp.ToolCalls()
			if len(pending) == 0 {
				state = StateDone
				continue
			}
			messages = append(messages, resp.AssistantMessage())
			state = StateExecutingTools

		case StateExecutingTools:
			results := make([]llm.ContentBlock, 0, len(pending))
			for _, call := range pending {
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				exec := l.tools.Run(ctx, call, scope, len(out.Executions)+1)
				out.Executions = append(out.Executions, exec)
				if !used[call.Name] {
					used[call.Name] = true
					out.ToolsUsed = append(out.ToolsUsed, call.Name)
				}
				if exec.Result.CustomerID != "" {
					scope.CustomerID = exec.Result.CustomerID
					out.CustomerID = exec.Result.CustomerID
				}
				if action, ok := l.tools.ActionFor(call.Name, exec.Result); ok {
					out.Actions = append(out.Actions, action)
				}
				results = append(results, llm.ToolResultBlock(call.ID, exec.Result.JSON(), !exec.Result.Success))
			}
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: results})
			pending = nil

			if out.Iterations >= l.cfg.MaxIterations {
				out.CeilingReached = true
				l.log.Warn().
					Str("conversation_id", scope.ConversationID).
					Int("iterations", out.Iterations).
					Msg("iteration ceiling reached")
				state = StateDone
				continue
			}
			state = StateAwaitingModel
		}
	}

	out.Text = strings.Join(texts, "\n\n")
	return out, nil
}
