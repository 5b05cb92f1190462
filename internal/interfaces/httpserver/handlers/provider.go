package handlers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/commerce-api/internal/domain/assistant"
	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/llm"
)

// AssistantService is the part of the assistant the HTTP API exposes.
type AssistantService interface {
	CreateConversation(ctx context.Context, params assistant.CreateConversationParams) (*conversation.Conversation, error)
	GetConversation(ctx context.Context, tenantID, id string) (*conversation.Conversation, error)
	ListMessages(ctx context.Context, tenantID, conversationID string, limit int) ([]conversation.Message, error)
	SubmitMessage(ctx context.Context, params assistant.ProcessParams) (*assistant.Reply, error)
	ProcessMessage(ctx context.Context, params assistant.ProcessParams) (*assistant.Reply, error)
	AddCartItem(ctx context.Context, tenantID, conversationID, productID, variant string, quantity int) (*commerce.Cart, error)
}

// ToolCatalog lists the tools offered to the model.
type ToolCatalog interface {
	ToolDefinitions() []llm.ToolDefinition
}

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Conversation *ConversationHandler
	Message      *MessageHandler
	Tool         *ToolHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(service AssistantService, catalog ToolCatalog, log zerolog.Logger) *Provider {
	return &Provider{
		Conversation: NewConversationHandler(service, log),
		Message:      NewMessageHandler(service, log),
		Tool:         NewToolHandler(catalog),
	}
}
