package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/janhq/commerce-api/internal/domain/commerce"
)

// Organization is the store profile of a tenant.
type Organization struct {
	ID            string    `gorm:"type:varchar(64);primaryKey"`
	Name          string    `gorm:"type:varchar(256);not null"`
	Description   string    `gorm:"type:text"`
	Email         string    `gorm:"type:varchar(256)"`
	Phone         string    `gorm:"type:varchar(32)"`
	WhatsApp      string    `gorm:"type:varchar(32)"`
	Address       string    `gorm:"type:varchar(256)"`
	City          string    `gorm:"type:varchar(128)"`
	BusinessHours string    `gorm:"type:varchar(256)"`
	Currency      string    `gorm:"type:varchar(3);not null;default:'COP'"`
	Website       string    `gorm:"type:varchar(256)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Organization.
func (Organization) TableName() string {
	return "organizations"
}

// EtoD converts the row to the domain model.
func (o *Organization) EtoD() *commerce.Organization {
	return &commerce.Organization{
		ID:            o.ID,
		Name:          o.Name,
		Description:   o.Description,
		Email:         o.Email,
		Phone:         o.Phone,
		WhatsApp:      o.WhatsApp,
		Address:       o.Address,
		City:          o.City,
		BusinessHours: o.BusinessHours,
		Currency:      o.Currency,
		Website:       o.Website,
	}
}

// Product is a catalog row.
type Product struct {
	ID          string           `gorm:"type:varchar(36);primaryKey"`
	TenantID    string           `gorm:"type:varchar(64);index:idx_product_tenant_active;not null"`
	Name        string           `gorm:"type:varchar(256);not null"`
	Description string           `gorm:"type:text"`
	Category    string           `gorm:"type:varchar(128);index"`
	Price       decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	Stock       int              `gorm:"not null;default:0"`
	Active      bool             `gorm:"index:idx_product_tenant_active;not null;default:true"`
	ImageURL    string           `gorm:"type:text"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Product.
func (Product) TableName() string {
	return "products"
}

// ProductVariant is a purchasable option of a product.
type ProductVariant struct {
	ID        string           `gorm:"type:varchar(36);primaryKey"`
	ProductID string           `gorm:"type:varchar(36);index;not null"`
	Name      string           `gorm:"type:varchar(128);not null"`
	Price     *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Stock     int              `gorm:"not null;default:0"`
	Position  int              `gorm:"not null;default:0"`
}

// TableName specifies the table name for ProductVariant.
func (ProductVariant) TableName() string {
	return "product_variants"
}

// EtoD converts the row and its preloaded variants to the domain model.
func (p *Product) EtoD() *commerce.Product {
	product := &commerce.Product{
		ID:          p.ID,
		TenantID:    p.TenantID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Active:      p.Active,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, v := range p.Variants {
		product.Variants = append(product.Variants, commerce.Variant{
			ID:        v.ID,
			ProductID: v.ProductID,
			Name:      v.Name,
			Price:     v.Price,
			Stock:     v.Stock,
		})
	}
	return product
}

// NewSchemaProduct creates a row with its variants from the domain model.
func NewSchemaProduct(p *commerce.Product) *Product {
	row := &Product{
		ID:          p.ID,
		TenantID:    p.TenantID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Active:      p.Active,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for i, v := range p.Variants {
		row.Variants = append(row.Variants, ProductVariant{
			ID:        v.ID,
			ProductID: p.ID,
			Name:      v.Name,
			Price:     v.Price,
			Stock:     v.Stock,
			Position:  i,
		})
	}
	return row
}

// Customer is a shopper known to a tenant.
type Customer struct {
	ID             string    `gorm:"type:varchar(36);primaryKey"`
	TenantID       string    `gorm:"type:varchar(64);index:idx_customer_tenant_email;index:idx_customer_tenant_phone;index:idx_customer_tenant_document;not null"`
	Name           string    `gorm:"type:varchar(256)"`
	Email          string    `gorm:"type:varchar(256);index:idx_customer_tenant_email"`
	Phone          string    `gorm:"type:varchar(32);index:idx_customer_tenant_phone"`
	DocumentType   string    `gorm:"type:varchar(8);index:idx_customer_tenant_document"`
	DocumentNumber string    `gorm:"type:varchar(32);index:idx_customer_tenant_document"`
	Address        string    `gorm:"type:varchar(256)"`
	City           string    `gorm:"type:varchar(128)"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Customer.
func (Customer) TableName() string {
	return "customers"
}

// EtoD converts the row to the domain model.
func (c *Customer) EtoD() *commerce.Customer {
	return &commerce.Customer{
		ID:             c.ID,
		TenantID:       c.TenantID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		Address:        c.Address,
		City:           c.City,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// NewSchemaCustomer creates a row from the domain model.
func NewSchemaCustomer(c *commerce.Customer) *Customer {
	return &Customer{
		ID:             c.ID,
		TenantID:       c.TenantID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		Address:        c.Address,
		City:           c.City,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
