package agent

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/janhq/commerce-api/internal/domain/agent"
	"github.com/janhq/commerce-api/internal/infrastructure/database/entities"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// Repository reads agents.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an agent repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID fetches an agent of the tenant.
func (r *Repository) FindByID(ctx context.Context, tenantID, id string) (*domain.Agent, error) {
	var entity entities.Agent
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("agent not found: %s", id), nil, "agent-not-found")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to fetch agent", err, "agent-find-db-error")
	}
	return entity.EtoD(), nil
}

// Save upserts an agent.
func (r *Repository) Save(ctx context.Context, a *domain.Agent) error {
	if err := r.db.WithContext(ctx).Save(entities.NewSchemaAgent(a)).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to save agent", err, "agent-save-db-error")
	}
	return nil
}
