package conversation

import (
	"time"

	"github.com/janhq/commerce-api/internal/domain/status"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is a shopper's chat with one agent of a tenant.
type Conversation struct {
	ID               string
	TenantID         string
	AgentID          string
	CustomerID       *string
	Status           status.Status
	Channel          string
	EscalationReason *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Message is an entry of a conversation. Messages are never updated.
type Message struct {
	ID             string
	ConversationID string
	TenantID       string
	Role           Role
	Content        string
	Metadata       map[string]any
	CreatedAt      time.Time
}

// StatusUpdate carries an optional escalation reason with a status change.
type StatusUpdate struct {
	Status           status.Status
	EscalationReason *string
}
