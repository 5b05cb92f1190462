package conversation

import "context"

// Repository persists conversation metadata. Every lookup is scoped by tenant.
type Repository interface {
	Create(ctx context.Context, conversation *Conversation) error
	FindByID(ctx context.Context, tenantID, id string) (*Conversation, error)
	UpdateStatus(ctx context.Context, tenantID, id string, update StatusUpdate) error
	SetCustomer(ctx context.Context, tenantID, id, customerID string) error
}

// MessageRepository appends and reads conversation messages.
type MessageRepository interface {
	Append(ctx context.Context, message *Message) error
	// ListRecent returns at most limit messages, newest first.
	ListRecent(ctx context.Context, tenantID, conversationID string, limit int) ([]Message, error)
}
