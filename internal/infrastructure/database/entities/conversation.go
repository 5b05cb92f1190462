package entities

import (
	"time"

	"gorm.io/datatypes"

	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/status"
)

// Conversation represents the database schema for conversations.
type Conversation struct {
	ID               string    `gorm:"type:varchar(36);primaryKey"`
	TenantID         string    `gorm:"type:varchar(64);index:idx_conversation_tenant_status;not null"`
	AgentID          string    `gorm:"type:varchar(36);index;not null"`
	CustomerID       *string   `gorm:"type:varchar(36);index"`
	Status           string    `gorm:"type:varchar(20);index:idx_conversation_tenant_status;not null;default:'active'"`
	Channel          string    `gorm:"type:varchar(32);not null;default:'web'"`
	EscalationReason *string   `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// EtoD converts database entity to domain model.
func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:               c.ID,
		TenantID:         c.TenantID,
		AgentID:          c.AgentID,
		CustomerID:       c.CustomerID,
		Status:           status.Status(c.Status),
		Channel:          c.Channel,
		EscalationReason: c.EscalationReason,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from domain model.
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:               c.ID,
		TenantID:         c.TenantID,
		AgentID:          c.AgentID,
		CustomerID:       c.CustomerID,
		Status:           string(c.Status),
		Channel:          c.Channel,
		EscalationReason: c.EscalationReason,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// Message is an append-only conversation entry. Seq orders messages created within the same instant.
type Message struct {
	Seq            uint              `gorm:"primaryKey;autoIncrement"`
	ID             string            `gorm:"type:varchar(36);uniqueIndex;not null"`
	ConversationID string            `gorm:"type:varchar(36);index:idx_message_conversation_seq;not null"`
	TenantID       string            `gorm:"type:varchar(64);index;not null"`
	Role           string            `gorm:"type:varchar(16);not null"`
	Content        string            `gorm:"type:text;not null"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"autoCreateTime"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts database entity to domain model.
func (m *Message) EtoD() conversation.Message {
	var metadata map[string]any
	if len(m.Metadata) > 0 {
		metadata = map[string]any(m.Metadata)
	}
	return conversation.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		TenantID:       m.TenantID,
		Role:           conversation.Role(m.Role),
		Content:        m.Content,
		Metadata:       metadata,
		CreatedAt:      m.CreatedAt,
	}
}

// NewSchemaMessage creates a database entity from domain model.
func NewSchemaMessage(m *conversation.Message) *Message {
	var metadata datatypes.JSONMap
	if len(m.Metadata) > 0 {
		metadata = datatypes.JSONMap(m.Metadata)
	}
	return &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		TenantID:       m.TenantID,
		Role:           string(m.Role),
		Content:        m.Content,
		Metadata:       metadata,
		CreatedAt:      m.CreatedAt,
	}
}
