// Package commerce implements the commerce store on PostgreSQL.
package commerce

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	domain "github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/infrastructure/database/entities"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// Store reads and writes the commerce tables. Every lookup is scoped by tenant.
type Store struct {
	db *gorm.DB
}

var _ domain.Store = (*Store)(nil)

// NewStore builds a commerce store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetOrganization fetches the store profile of a tenant.
func (s *Store) GetOrganization(ctx context.Context, tenantID string) (*domain.Organization, error) {
	var row entities.Organization
	if err := s.db.WithContext(ctx).Where("id = ?", tenantID).First(&row).Error; err != nil {
		return nil, fetchError(ctx, err, "organization", tenantID)
	}
	return row.EtoD(), nil
}

// SaveOrganization upserts a store profile.
func (s *Store) SaveOrganization(ctx context.Context, org *domain.Organization) error {
	row := entities.Organization{
		ID:            org.ID,
		Name:          org.Name,
		Description:   org.Description,
		Email:         org.Email,
		Phone:         org.Phone,
		WhatsApp:      org.WhatsApp,
		Address:       org.Address,
		City:          org.City,
		BusinessHours: org.BusinessHours,
		Currency:      org.Currency,
		Website:       org.Website,
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return writeError(ctx, err, "organization")
	}
	return nil
}

func fetchError(ctx context.Context, err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError(ctx, what, id)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		"failed to fetch "+what, err, errorCode(what, "fetch-db-error"))
}

func notFoundError(ctx context.Context, what, id string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		fmt.Sprintf("%s not found: %s", what, id), nil, errorCode(what, "not-found"))
}

func writeError(ctx context.Context, err error, what string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		"failed to save "+what, err, errorCode(what, "save-db-error"))
}

func errorCode(what, suffix string) string {
	return strings.ReplaceAll(what, " ", "-") + "-" + suffix
}
