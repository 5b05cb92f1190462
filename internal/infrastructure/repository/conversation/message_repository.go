package conversation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/infrastructure/database/entities"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// MessageRepository appends and reads conversation messages.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository builds a message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append inserts a message. Messages are never updated afterwards.
func (r *MessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	entity := entities.NewSchemaMessage(msg)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to append message", err, "message-append-db-error")
	}
	msg.CreatedAt = entity.CreatedAt
	return nil
}

// ListRecent returns at most limit messages of the conversation, newest first.
func (r *MessageRepository) ListRecent(ctx context.Context, tenantID, conversationID string, limit int) ([]domain.Message, error) {
	var rows []entities.Message
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND conversation_id = ?", tenantID, conversationID).
		Order("seq DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list messages", err, "message-list-db-error")
	}

	messages := make([]domain.Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, rows[i].EtoD())
	}
	return messages, nil
}
