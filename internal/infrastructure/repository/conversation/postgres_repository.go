package conversation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/infrastructure/database/entities"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// Repository persists conversation metadata.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the conversation record.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation", err, "conversation-create-db-error")
	}
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByID fetches a conversation of the tenant.
func (r *Repository) FindByID(ctx context.Context, tenantID, id string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(ctx, id)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation", err, "conversation-find-db-error")
	}
	return entity.EtoD(), nil
}

// UpdateStatus changes the status and escalation reason of a conversation.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id string, update domain.StatusUpdate) error {
	return r.update(ctx, tenantID, id, map[string]any{
		"status":            string(update.Status),
		"escalation_reason": update.EscalationReason,
	})
}

// SetCustomer links the conversation to an identified customer.
func (r *Repository) SetCustomer(ctx context.Context, tenantID, id, customerID string) error {
	return r.update(ctx, tenantID, id, map[string]any{"customer_id": customerID})
}

func (r *Repository) update(ctx context.Context, tenantID, id string, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(fields)
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation", result.Error, "conversation-update-db-error")
	}
	if result.RowsAffected == 0 {
		return notFound(ctx, id)
	}
	return nil
}

func notFound(ctx context.Context, id string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		fmt.Sprintf("conversation not found: %s", id), nil, "conversation-not-found")
}
