package commerce

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/infrastructure/database/entities"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// FindActiveCart fetches the active cart of a conversation with its lines.
func (s *Store) FindActiveCart(ctx context.Context, tenantID, conversationID string) (*domain.Cart, error) {
	var row entities.Cart
	if err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("tenant_id = ? AND conversation_id = ? AND status = ?", tenantID, conversationID, string(domain.CartStatusActive)).
		Order("created_at DESC").
		First(&row).Error; err != nil {
		return nil, fetchError(ctx, err, "cart", conversationID)
	}
	return row.EtoD(), nil
}

// SaveCart upserts the cart header. Lines are written with SaveCartItem.
func (s *Store) SaveCart(ctx context.Context, cart *domain.Cart) error {
	row := entities.NewSchemaCart(cart)
	row.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error; err != nil {
		return writeError(ctx, err, "cart")
	}
	cart.CreatedAt = row.CreatedAt
	cart.UpdatedAt = row.UpdatedAt
	return nil
}

// SaveCartItem upserts a cart line.
func (s *Store) SaveCartItem(ctx context.Context, item *domain.CartItem) error {
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(entities.NewSchemaCartItem(item)).Error; err != nil {
		return writeError(ctx, err, "cart item")
	}
	return nil
}

// DeleteCartItem removes a cart line.
func (s *Store) DeleteCartItem(ctx context.Context, cartID, itemID string) error {
	if err := s.db.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&entities.CartItem{}).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete cart item", err, "cart-item-delete-db-error")
	}
	return nil
}

// AbandonStaleCarts marks active carts untouched since updatedBefore as abandoned.
func (s *Store) AbandonStaleCarts(ctx context.Context, updatedBefore time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&entities.Cart{}).
		Where("status = ? AND updated_at < ?", string(domain.CartStatusActive), updatedBefore.UTC()).
		Update("status", string(domain.CartStatusAbandoned))
	if result.Error != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to abandon carts", result.Error, "cart-abandon-db-error")
	}
	return result.RowsAffected, nil
}
