package commerce

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	domain "github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/infrastructure/database/entities"
)

// FindCustomer fetches a customer of the tenant.
func (s *Store) FindCustomer(ctx context.Context, tenantID, customerID string) (*domain.Customer, error) {
	var row entities.Customer
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, customerID).
		First(&row).Error; err != nil {
		return nil, fetchError(ctx, err, "customer", customerID)
	}
	return row.EtoD(), nil
}

// FindCustomerByContact matches on email first, then phone, then identity document.
func (s *Store) FindCustomerByContact(ctx context.Context, tenantID string, lookup domain.CustomerLookup) (*domain.Customer, error) {
	type criterion struct {
		ok    bool
		where string
		args  []any
	}
	criteria := []criterion{
		{lookup.Email != "", "LOWER(email) = ?", []any{strings.ToLower(lookup.Email)}},
		{lookup.Phone != "", "phone = ?", []any{lookup.Phone}},
		{lookup.DocumentNumber != "", "document_type = ? AND document_number = ?", []any{lookup.DocumentType, lookup.DocumentNumber}},
	}

	for _, c := range criteria {
		if !c.ok {
			continue
		}
		var rows []entities.Customer
		if err := s.db.WithContext(ctx).
			Where("tenant_id = ?", tenantID).
			Where(c.where, c.args...).
			Order("created_at ASC").
			Limit(1).
			Find(&rows).Error; err != nil {
			return nil, fetchError(ctx, err, "customer", "")
		}
		if len(rows) > 0 {
			return rows[0].EtoD(), nil
		}
	}
	return nil, notFoundError(ctx, "customer", lookup.Email+lookup.Phone+lookup.DocumentNumber)
}

// SaveCustomer upserts a customer.
func (s *Store) SaveCustomer(ctx context.Context, customer *domain.Customer) error {
	row := entities.NewSchemaCustomer(customer)
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
		return writeError(ctx, err, "customer")
	}
	customer.CreatedAt = row.CreatedAt
	customer.UpdatedAt = row.UpdatedAt
	return nil
}
