package commerce

import (
	"context"
	"strings"

	domain "github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/infrastructure/database/entities"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// ListRecentOrders returns the latest orders of a customer, newest first.
func (s *Store) ListRecentOrders(ctx context.Context, tenantID, customerID string, limit int) ([]domain.Order, error) {
	q := s.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []entities.Order
	if err := q.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list orders", err, "order-list-db-error")
	}
	orders := make([]domain.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].EtoD())
	}
	return orders, nil
}

// FindOrder fetches an order by number. Orders of other customers are reported as missing.
func (s *Store) FindOrder(ctx context.Context, tenantID, customerID, orderNumber string) (*domain.Order, error) {
	var row entities.Order
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND customer_id = ? AND UPPER(order_number) = ?", tenantID, customerID, strings.ToUpper(orderNumber)).
		First(&row).Error; err != nil {
		return nil, fetchError(ctx, err, "order", orderNumber)
	}
	return row.EtoD(), nil
}

// SaveOrder inserts an order with its lines.
func (s *Store) SaveOrder(ctx context.Context, order *domain.Order) error {
	if err := s.db.WithContext(ctx).Create(entities.NewSchemaOrder(order)).Error; err != nil {
		return writeError(ctx, err, "order")
	}
	return nil
}

// ListShippingOptions returns the shipping options of a tenant, cheapest first.
func (s *Store) ListShippingOptions(ctx context.Context, tenantID string) ([]domain.ShippingOption, error) {
	var rows []entities.ShippingOption
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("cost ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list shipping options", err, "shipping-option-list-db-error")
	}
	options := make([]domain.ShippingOption, 0, len(rows))
	for i := range rows {
		options = append(options, rows[i].EtoD())
	}
	return options, nil
}

// SaveShippingOption upserts a shipping option.
func (s *Store) SaveShippingOption(ctx context.Context, option *domain.ShippingOption) error {
	if err := s.db.WithContext(ctx).Save(entities.NewSchemaShippingOption(option)).Error; err != nil {
		return writeError(ctx, err, "shipping option")
	}
	return nil
}

// FindDiscount fetches a discount code of the tenant, ignoring case.
func (s *Store) FindDiscount(ctx context.Context, tenantID, code string) (*domain.DiscountCode, error) {
	var row entities.DiscountCode
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&row).Error; err != nil {
		return nil, fetchError(ctx, err, "discount", code)
	}
	return row.EtoD(), nil
}

// SaveDiscount upserts a discount code.
func (s *Store) SaveDiscount(ctx context.Context, discount *domain.DiscountCode) error {
	row := entities.NewSchemaDiscountCode(discount)
	row.Code = strings.ToUpper(strings.TrimSpace(row.Code))
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return writeError(ctx, err, "discount")
	}
	return nil
}
