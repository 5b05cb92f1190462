package commerce

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/infrastructure/database/entities"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// CountActiveProducts counts the sellable products of a tenant.
func (s *Store) CountActiveProducts(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&entities.Product{}).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to count products", err, "product-count-db-error")
	}
	return count, nil
}

// FindActiveProduct fetches an active product of the tenant with its variants.
func (s *Store) FindActiveProduct(ctx context.Context, tenantID, productID string) (*domain.Product, error) {
	var row entities.Product
	if err := s.db.WithContext(ctx).
		Preload("Variants", orderedVariants).
		Where("tenant_id = ? AND id = ? AND active = ?", tenantID, productID, true).
		First(&row).Error; err != nil {
		return nil, fetchError(ctx, err, "product", productID)
	}
	return row.EtoD(), nil
}

// SearchProducts matches the text against name, description and category of active products.
func (s *Store) SearchProducts(ctx context.Context, tenantID string, query domain.ProductQuery) ([]domain.Product, error) {
	q := s.db.WithContext(ctx).
		Preload("Variants", orderedVariants).
		Where("tenant_id = ? AND active = ?", tenantID, true)

	if text := strings.ToLower(strings.TrimSpace(query.Text)); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(category) LIKE ? ESCAPE '\\')",
			pattern, pattern, pattern)
	}
	if category := strings.TrimSpace(query.Category); category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	if query.MinPrice != nil {
		q = q.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		q = q.Where("price <= ?", *query.MaxPrice)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	var rows []entities.Product
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to search products", err, "product-search-db-error")
	}

	products := make([]domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, *rows[i].EtoD())
	}
	return products, nil
}

// SaveProduct upserts a product and replaces its variants.
func (s *Store) SaveProduct(ctx context.Context, product *domain.Product) error {
	row := entities.NewSchemaProduct(product)
	variants := row.Variants
	row.Variants = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", row.ID).Delete(&entities.ProductVariant{}).Error; err != nil {
			return err
		}
		if len(variants) == 0 {
			return nil
		}
		return tx.Create(&variants).Error
	})
	if err != nil {
		return writeError(ctx, err, "product")
	}
	return nil
}

func orderedVariants(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
