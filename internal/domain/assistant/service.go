package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/commerce-api/internal/domain/agent"
	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/llm"
	"github.com/janhq/commerce-api/internal/domain/prompt"
	"github.com/janhq/commerce-api/internal/domain/status"
	"github.com/janhq/commerce-api/internal/domain/tool"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

var tracer = otel.Tracer("github.com/janhq/commerce-api/internal/domain/assistant")

// FallbackMessage is the only text a shopper sees when a turn cannot be completed.
const FallbackMessage = "Lo siento, tuve un problema procesando tu mensaje. Por favor intenta de nuevo en unos minutos."

// Turn outcomes reported to the Recorder.
const (
	TurnCompleted = "completed"
	TurnCeiling   = "ceiling_reached"
	TurnFallback  = "fallback"
	TurnRejected  = "rejected"
)

// Defaults for the context read at the start of a turn.
const (
	DefaultHistoryLimit      = 10
	DefaultRecentOrdersLimit = 5
)

// ProcessParams is one inbound message to answer.
type ProcessParams struct {
	Message          string
	ConversationID   string
	TenantID         string
	AgentID          string
	CustomerID       string
	CurrentProductID string
}

// Reply is the answer to an inbound message.
type Reply struct {
	Response string        `json:"response"`
	Actions  []tool.Action `json:"actions"`
	Metadata Metadata      `json:"metadata"`
}

// Metadata describes how a reply was produced.
type Metadata struct {
	Model      string   `json:"model"`
	LatencyMS  int64    `json:"latency_ms"`
	ToolsUsed  []string `json:"tools_used"`
	Iterations int      `json:"iterations"`
}

// TurnLocker serializes turns of the same conversation.
type TurnLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Recorder observes completed turns.
type Recorder interface {
	RecordTurn(outcome string, iterations int, durationSec float64)
}

// Config tunes the service.
type Config struct {
	Model             string
	MaxTokens         int
	MaxIterations     int
	HistoryLimit      int
	RecentOrdersLimit int
}

// Dependencies are the collaborators of the service.
type Dependencies struct {
	Agents        agent.Repository
	Conversations conversation.Repository
	Messages      conversation.MessageRepository
	Store         commerce.Store
	Carts         *commerce.CartService
	Executions    tool.ExecutionRepository
	Gateway       ModelSender
	Tools         *tool.Executor
	Locker        TurnLocker
	Recorder      Recorder
}

// Service answers shopper messages.
type Service struct {
	deps Dependencies
	cfg  Config
	loop *Loop
	log  zerolog.Logger
}

// NewService wires the loop over the gateway and the tool executor.
func NewService(deps Dependencies, cfg Config, log zerolog.Logger) *Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.RecentOrdersLimit <= 0 {
		cfg.RecentOrdersLimit = DefaultRecentOrdersLimit
	}
	return &Service{
		deps: deps,
		cfg:  cfg,
		loop: NewLoop(deps.Gateway, deps.Tools, LoopConfig{
			Model:         cfg.Model,
			MaxTokens:     cfg.MaxTokens,
			MaxIterations: cfg.MaxIterations,
		}, log),
		log: log.With().Str("component", "assistant-service").Logger(),
	}
}

// ProcessMessage answers params.Message, which the caller has already stored. It persists
// exactly one assistant message. A missing agent or conversation is an error; every other
// failure yields the fallback reply.
func (s *Service) ProcessMessage(ctx context.Context, params ProcessParams) (*Reply, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "assistant.turn",
		trace.WithAttributes(
			attribute.String("tenant.id", params.TenantID),
			attribute.String("conversation.id", params.ConversationID),
			attribute.String("agent.id", params.AgentID),
		),
	)
	defer span.End()

	if strings.TrimSpace(params.Message) == "" {
		s.record(TurnRejected, 0, start)
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"message must not be empty", nil, "assistant-empty-message")
	}

	turnCtx, err := s.loadContext(ctx, params)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			s.record(TurnRejected, 0, start)
			return nil, err
		}
		s.log.Error().Err(err).Str("conversation_id", params.ConversationID).Msg("failed to load turn context")
		failSpan(span, err)
		return s.fallback(start), nil
	}

	outcome, err := s.loop.Run(ctx, Turn{
		System:  turnCtx.system,
		History: turnCtx.history,
		Tools:   s.deps.Tools.Registry().ToolDefinitions(),
		Scope: tool.Scope{
			ConversationID: params.ConversationID,
			TenantID:       params.TenantID,
			CustomerID:     turnCtx.customerID,
		},
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("conversation_id", params.ConversationID).
			Str("tenant_id", params.TenantID).
			Msg("turn aborted")
		failSpan(span, err)
		return s.fallback(start), nil
	}

	actions := outcome.Actions
	if turnCtx.currentProduct != nil {
		actions = withCurrentProduct(actions, turnCtx.currentProduct)
	}

	s.persist(ctx, params, outcome, len(actions))

	turnOutcome := TurnCompleted
	if outcome.CeilingReached {
		turnOutcome = TurnCeiling
	}
	s.record(turnOutcome, outcome.Iterations, start)

	if actions == nil {
		actions = []tool.Action{}
	}
	toolsUsed := outcome.ToolsUsed
	if toolsUsed == nil {
		toolsUsed = []string{}
	}
	return &Reply{
		Response: outcome.Text,
		Actions:  actions,
		Metadata: Metadata{
			Model:      outcome.Model,
			LatencyMS:  time.Since(start).Milliseconds(),
			ToolsUsed:  toolsUsed,
			Iterations: outcome.Iterations,
		},
	}, nil
}

type turnContext struct {
	system         string
	history        []llm.Message
	customerID     string
	currentProduct *commerce.Product
}

func (s *Service) loadContext(ctx context.Context, params ProcessParams) (*turnContext, error) {
	ag, err := s.deps.Agents.FindByID(ctx, params.TenantID, params.AgentID)
	if err != nil {
		return nil, err
	}
	if !ag.Active {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"agent not found: "+params.AgentID, nil, "assistant-agent-inactive")
	}

	conv, err := s.deps.Conversations.FindByID(ctx, params.TenantID, params.ConversationID)
	if err != nil {
		return nil, err
	}

	org, err := s.deps.Store.GetOrganization(ctx, params.TenantID)
	if err != nil {
		// a tenant without organization is a data problem, not a missing resource
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"load organization", err, "assistant-organization")
	}
	productCount, err := s.deps.Store.CountActiveProducts(ctx, params.TenantID)
	if err != nil {
		return nil, err
	}

	var currentProduct *commerce.Product
	if params.CurrentProductID != "" {
		currentProduct, err = s.deps.Carts.Product(ctx, params.TenantID, params.CurrentProductID)
		if err != nil {
			if !commerce.IsNotFound(err) {
				return nil, err
			}
			currentProduct = nil
		}
	}

	recent, err := s.deps.Messages.ListRecent(ctx, params.TenantID, params.ConversationID, s.cfg.HistoryLimit)
	if err != nil {
		return nil, err
	}
	stored := make([]conversation.Message, 0, len(recent)+1)
	for i := len(recent) - 1; i >= 0; i-- {
		stored = append(stored, recent[i])
	}
	if !endsWithUserMessage(stored, params.Message) {
		stored = append(stored, conversation.Message{Role: conversation.RoleUser, Content: params.Message})
	}

	customerID := params.CustomerID
	if customerID == "" && conv.CustomerID != nil {
		customerID = *conv.CustomerID
	}
	var customer *commerce.Customer
	var orders []commerce.Order
	if customerID != "" {
		customer, err = s.deps.Store.FindCustomer(ctx, params.TenantID, customerID)
		switch {
		case err == nil:
			orders, err = s.deps.Store.ListRecentOrders(ctx, params.TenantID, customerID, s.cfg.RecentOrdersLimit)
			if err != nil {
				return nil, err
			}
		case commerce.IsNotFound(err):
			customer, customerID = nil, ""
		default:
			return nil, err
		}
	}

	cart, err := s.deps.Carts.ActiveCart(ctx, params.TenantID, params.ConversationID)
	if err != nil {
		return nil, err
	}

	return &turnContext{
		system: prompt.Compose(prompt.Input{
			Agent:          ag,
			TenantName:     org.Name,
			ProductCount:   productCount,
			Customer:       customer,
			Orders:         orders,
			Cart:           cart,
			CurrentProduct: currentProduct,
		}),
		history:        prompt.BuildConversationHistory(stored),
		customerID:     customerID,
		currentProduct: currentProduct,
	}, nil
}

func endsWithUserMessage(messages []conversation.Message, text string) bool {
	if len(messages) == 0 {
		return false
	}
	last := messages[len(messages)-1]
	return last.Role == conversation.RoleUser && strings.TrimSpace(last.Content) == strings.TrimSpace(text)
}

// withCurrentProduct makes sure the product on screen is rendered exactly once.
func withCurrentProduct(actions []tool.Action, product *commerce.Product) []tool.Action {
	for _, action := range actions {
		if action.Type != tool.ShowProduct {
			continue
		}
		if card, ok := action.Data.(tool.ProductCard); ok && card.ID == product.ID {
			return actions
		}
	}
	current := tool.Action{Type: tool.ShowProduct, Data: tool.NewProductCard(product, true)}
	return append([]tool.Action{current}, actions...)
}

func (s *Service) persist(ctx context.Context, params ProcessParams, outcome *Outcome, actionCount int) {
	msg := &conversation.Message{
		ID:             uuid.NewString(),
		ConversationID: params.ConversationID,
		TenantID:       params.TenantID,
		Role:           conversation.RoleAssistant,
		Content:        outcome.Text,
		Metadata: map[string]any{
			"model":      outcome.Model,
			"tools_used": outcome.ToolsUsed,
			"iterations": outcome.Iterations,
			"actions":    actionCount,
		},
	}
	if err := s.deps.Messages.Append(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("conversation_id", params.ConversationID).Msg("failed to persist assistant message")
		msg.ID = ""
	}

	if len(outcome.Executions) == 0 || s.deps.Executions == nil {
		return
	}
	for i := range outcome.Executions {
		outcome.Executions[i].MessageID = msg.ID
	}
	if err := s.deps.Executions.SaveExecutions(ctx, outcome.Executions); err != nil {
		s.log.Error().Err(err).Str("conversation_id", params.ConversationID).Msg("failed to persist tool executions")
	}
}

func (s *Service) fallback(start time.Time) *Reply {
	s.record(TurnFallback, 0, start)
	return &Reply{
		Response: FallbackMessage,
		Actions:  []tool.Action{},
		Metadata: Metadata{
			Model:     s.cfg.Model,
			LatencyMS: time.Since(start).Milliseconds(),
			ToolsUsed: []string{},
		},
	}
}

func (s *Service) record(outcome string, iterations int, start time.Time) {
	if s.deps.Recorder != nil {
		s.deps.Recorder.RecordTurn(outcome, iterations, time.Since(start).Seconds())
	}
}

// SubmitMessage stores the shopper's message and answers it. Turns of one conversation run
// one at a time.
func (s *Service) SubmitMessage(ctx context.Context, params ProcessParams) (*Reply, error) {
	if strings.TrimSpace(params.Message) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"message must not be empty", nil, "assistant-empty-message")
	}

	if s.deps.Locker != nil {
		unlock, err := s.deps.Locker.Lock(ctx, "conversation-turn:"+params.ConversationID)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
				"another message of this conversation is being processed", err, "assistant-turn-locked")
		}
		defer unlock()
	}

	conv, err := s.deps.Conversations.FindByID(ctx, params.TenantID, params.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv.Status.IsTerminal() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"conversation is closed", nil, "assistant-conversation-closed")
	}
	if params.AgentID == "" {
		params.AgentID = conv.AgentID
	}

	if err := s.deps.Messages.Append(ctx, &conversation.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		TenantID:       params.TenantID,
		Role:           conversation.RoleUser,
		Content:        strings.TrimSpace(params.Message),
	}); err != nil {
		return nil, err
	}

	return s.ProcessMessage(ctx, params)
}

// CreateConversationParams opens a conversation.
type CreateConversationParams struct {
	TenantID   string
	AgentID    string
	CustomerID string
	Channel    string
}

// CreateConversation opens an active conversation with an active agent of the tenant.
func (s *Service) CreateConversation(ctx context.Context, params CreateConversationParams) (*conversation.Conversation, error) {
	ag, err := s.deps.Agents.FindByID(ctx, params.TenantID, params.AgentID)
	if err != nil {
		return nil, err
	}
	if !ag.Active {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"agent not found: "+params.AgentID, nil, "assistant-agent-inactive")
	}

	channel := params.Channel
	if channel == "" {
		channel = "web"
	}
	conv := &conversation.Conversation{
		ID:       uuid.NewString(),
		TenantID: params.TenantID,
		AgentID:  ag.ID,
		Status:   status.StatusActive,
		Channel:  channel,
	}
	if params.CustomerID != "" {
		customerID := params.CustomerID
		conv.CustomerID = &customerID
	}
	if err := s.deps.Conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// GetConversation returns a conversation of the tenant.
func (s *Service) GetConversation(ctx context.Context, tenantID, id string) (*conversation.Conversation, error) {
	return s.deps.Conversations.FindByID(ctx, tenantID, id)
}

// ListMessages returns up to limit of the latest messages, oldest first.
func (s *Service) ListMessages(ctx context.Context, tenantID, conversationID string, limit int) ([]conversation.Message, error) {
	if _, err := s.deps.Conversations.FindByID(ctx, tenantID, conversationID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	recent, err := s.deps.Messages.ListRecent(ctx, tenantID, conversationID, limit)
	if err != nil {
		return nil, err
	}
	messages := make([]conversation.Message, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		messages = append(messages, recent[i])
	}
	return messages, nil
}

// AddCartItem applies an advisory add_to_cart action to the conversation's cart. A broken
// business rule is reported as a validation error carrying the reason.
func (s *Service) AddCartItem(ctx context.Context, tenantID, conversationID, productID, variant string, quantity int) (*commerce.Cart, error) {
	if _, err := s.deps.Conversations.FindByID(ctx, tenantID, conversationID); err != nil {
		return nil, err
	}
	cart, err := s.deps.Carts.AddItem(ctx, tenantID, conversationID, productID, variant, quantity)
	if err != nil {
		if reason, ok := commerce.AsViolation(err); ok {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, reason, err, "cart-rule-violation")
		}
		if commerce.IsNotFound(err) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, commerce.MsgProductNotFound, err, "cart-product-not-found")
		}
		return nil, err
	}
	return cart, nil
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
