package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/janhq/commerce-api/internal/infrastructure/database/entities"
)

// Models lists every table owned by the service.
func Models() []any {
	return []any{
		&entities.Organization{},
		&entities.Agent{},
		&entities.Conversation{},
		&entities.Message{},
		&entities.Product{},
		&entities.ProductVariant{},
		&entities.Customer{},
		&entities.Cart{},
		&entities.CartItem{},
		&entities.Order{},
		&entities.OrderItem{},
		&entities.ShippingOption{},
		&entities.DiscountCode{},
		&entities.ToolExecution{},
	}
}

// AutoMigrate brings the commerce schema up to date.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return err
	}
	log.Info().Int("tables", len(Models())).Msg("database schema up to date")
	return nil
}
