package toolexecution

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/janhq/commerce-api/internal/domain/tool"
	"github.com/janhq/commerce-api/internal/infrastructure/database/entities"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// Repository stores tool execution audit records.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a tool execution repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveExecutions inserts the executions of one turn in a single statement.
func (r *Repository) SaveExecutions(ctx context.Context, executions []tool.Execution) error {
	if len(executions) == 0 {
		return nil
	}
	rows := make([]*entities.ToolExecution, 0, len(executions))
	for i := range executions {
		if executions[i].ID == "" {
			executions[i].ID = uuid.NewString()
		}
		rows = append(rows, entities.NewSchemaToolExecution(&executions[i]))
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to save tool executions", err, "tool-execution-save-db-error")
	}
	return nil
}

// ListByConversation returns the executions of a conversation in execution order.
func (r *Repository) ListByConversation(ctx context.Context, tenantID, conversationID string) ([]entities.ToolExecution, error) {
	var rows []entities.ToolExecution
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND conversation_id = ?", tenantID, conversationID).
		Order("created_at ASC, execution_order ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list tool executions", err, "tool-execution-list-db-error")
	}
	return rows, nil
}
