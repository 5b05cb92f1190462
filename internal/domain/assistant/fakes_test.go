package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/janhq/commerce-api/internal/domain/agent"
	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/commerce/commercetest"
	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/llm"
	"github.com/janhq/commerce-api/internal/domain/status"
	"github.com/janhq/commerce-api/internal/domain/tool"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// scriptedModel replays responses in order and records every request.
type scriptedModel struct {
	mu        sync.Mutex
	responses []*llm.Response
	err       error
	requests  []llm.Request
}

func (m *scriptedModel) Send(ctx context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return nil, errors.New("script exhausted")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func textResponse(text string) *llm.Response {
	return &llm.Response{
		Model:      "test-model",
		Role:       llm.RoleAssistant,
		StopReason: "end_turn",
		Content:    []llm.ContentBlock{{Type: llm.BlockText, Text: text}},
	}
}

func toolResponse(text string, calls ...llm.ToolCall) *llm.Response {
	resp := &llm.Response{Model: "test-model", Role: llm.RoleAssistant, StopReason: "tool_use"}
	if text != "" {
		resp.Content = append(resp.Content, llm.ContentBlock{Type: llm.BlockText, Text: text})
	}
	for _, call := range calls {
		resp.Content = append(resp.Content, llm.ContentBlock{Type: llm.BlockToolUse, ID: call.ID, Name: call.Name, Input: call.Input})
	}
	return resp
}

func call(id, name, input string) llm.ToolCall {
	return llm.ToolCall{ID: id, Name: name, Input: json.RawMessage(input)}
}

type fakeAgents struct {
	agents map[string]agent.Agent
}

func (f *fakeAgents) FindByID(ctx context.Context, tenantID, id string) (*agent.Agent, error) {
	a, ok := f.agents[id]
	if !ok || a.TenantID != tenantID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "agent not found", nil, "")
	}
	return &a, nil
}

type fakeConversations struct {
	mu    sync.Mutex
	convs map[string]conversation.Conversation
}

func (f *fakeConversations) Create(ctx context.Context, c *conversation.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.convs[c.ID] = *c
	return nil
}

func (f *fakeConversations) FindByID(ctx context.Context, tenantID, id string) (*conversation.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[id]
	if !ok || c.TenantID != tenantID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
	}
	return &c, nil
}

func (f *fakeConversations) UpdateStatus(ctx context.Context, tenantID, id string, update conversation.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.convs[id]
	c.Status = update.Status
	c.EscalationReason = update.EscalationReason
	f.convs[id] = c
	return nil
}

func (f *fakeConversations) SetCustomer(ctx context.Context, tenantID, id, customerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.convs[id]
	c.CustomerID = &customerID
	f.convs[id] = c
	return nil
}

type fakeMessages struct {
	mu        sync.Mutex
	messages  []conversation.Message
	appendErr error
}

func (f *fakeMessages) Append(ctx context.Context, msg *conversation.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	m := *msg
	m.CreatedAt = time.Now()
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeMessages) ListRecent(ctx context.Context, tenantID, conversationID string, limit int) ([]conversation.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []conversation.Message
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		m := f.messages[i]
		if m.ConversationID == conversationID && m.TenantID == tenantID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessages) byRole(role conversation.Role) []conversation.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []conversation.Message
	for _, m := range f.messages {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

type fakeExecutions struct {
	mu    sync.Mutex
	saved []tool.Execution
	err   error
}

func (f *fakeExecutions) SaveExecutions(ctx context.Context, executions []tool.Execution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, executions...)
	return nil
}

type turnRecord struct {
	outcome    string
	iterations int
}

type fakeRecorder struct {
	mu    sync.Mutex
	turns []turnRecord
}

func (r *fakeRecorder) RecordTurn(outcome string, iterations int, durationSec float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = append(r.turns, turnRecord{outcome: outcome, iterations: iterations})
}

type testEnv struct {
	service       *Service
	model         *scriptedModel
	store         *commercetest.Store
	conversations *fakeConversations
	messages      *fakeMessages
	executions    *fakeExecutions
	recorder      *fakeRecorder
}

func newTestEnv(t *testing.T, model ModelSender) *testEnv {
	t.Helper()
	store := commercetest.New()
	store.Organizations["t1"] = commerce.Organization{ID: "t1", Name: "Tienda Sol", Currency: "COP"}
	store.Products["p1"] = commerce.Product{
		ID: "p1", TenantID: "t1", Name: "Camiseta", Price: decimal.NewFromInt(50000), Stock: 10, Active: true,
		Variants: []commerce.Variant{{ID: "v-s", ProductID: "p1", Name: "S", Stock: 4}, {ID: "v-m", ProductID: "p1", Name: "M", Stock: 6}},
	}
	store.Products["p2"] = commerce.Product{
		ID: "p2", TenantID: "t1", Name: "Gorra", Price: decimal.NewFromInt(30000), Stock: 5, Active: true,
	}

	conversations := &fakeConversations{convs: map[string]conversation.Conversation{
		"conv-1": {ID: "conv-1", TenantID: "t1", AgentID: "a1", Status: status.StatusActive, Channel: "web"},
	}}
	messages := &fakeMessages{}
	executions := &fakeExecutions{}
	recorder := &fakeRecorder{}
	carts := commerce.NewCartService(store, &commercetest.PaymentLinks{})

	executor := tool.NewExecutor(tool.NewRegistry(tool.Defaults{DocumentType: "CC", PaymentMethod: "wompi"}), tool.Dependencies{
		Store:         store,
		Carts:         carts,
		Conversations: conversations,
		Timeout:       time.Second,
	}, zerolog.Nop())

	scripted, _ := model.(*scriptedModel)
	service := NewService(Dependencies{
		Agents: &fakeAgents{agents: map[string]agent.Agent{
			"a1": {ID: "a1", TenantID: "t1", Name: "Sofía", Tone: agent.ToneFriendly, Language: "es", Active: true},
		}},
		Conversations: conversations,
		Messages:      messages,
		Store:         store,
		Carts:         carts,
		Executions:    executions,
		Gateway:       model,
		Tools:         executor,
		Recorder:      recorder,
	}, Config{Model: "test-model", MaxTokens: 512, MaxIterations: 5}, zerolog.Nop())

	return &testEnv{
		service:       service,
		model:         scripted,
		store:         store,
		conversations: conversations,
		messages:      messages,
		executions:    executions,
		recorder:      recorder,
	}
}

func params(message string) ProcessParams {
	return ProcessParams{Message: message, ConversationID: "conv-1", TenantID: "t1", AgentID: "a1"}
}

func actionTypes(actions []tool.Action) []string {
	types := make([]string, 0, len(actions))
	for _, a := range actions {
		types = append(types, a.Type)
	}
	return types
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
