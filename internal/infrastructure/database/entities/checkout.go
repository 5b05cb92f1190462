package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/janhq/commerce-api/internal/domain/commerce"
)

// Cart is the shopping cart of a conversation.
type Cart struct {
	ID               string          `gorm:"type:varchar(36);primaryKey"`
	TenantID         string          `gorm:"type:varchar(64);index:idx_cart_conversation;not null"`
	ConversationID   string          `gorm:"type:varchar(36);index:idx_cart_conversation;not null"`
	CustomerID       *string         `gorm:"type:varchar(36);index"`
	Status           string          `gorm:"type:varchar(20);index:idx_cart_conversation;index:idx_cart_status_updated;not null;default:'active'"`
	CheckoutStep     string          `gorm:"type:varchar(32);not null;default:''"`
	DiscountCode     string          `gorm:"type:varchar(64)"`
	DiscountAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ShippingOptionID *string         `gorm:"type:varchar(36)"`
	ShippingCost     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Shipping         datatypes.JSON  `gorm:"type:jsonb"`
	PaymentURL       string          `gorm:"type:text"`
	Items            []CartItem      `gorm:"foreignKey:CartID"`
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime;index:idx_cart_status_updated"`
}

// TableName specifies the table name for Cart.
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a line of a cart.
type CartItem struct {
	ID          string          `gorm:"type:varchar(36);primaryKey"`
	CartID      string          `gorm:"type:varchar(36);index;not null"`
	ProductID   string          `gorm:"type:varchar(36);not null"`
	ProductName string          `gorm:"type:varchar(256);not null"`
	Variant     string          `gorm:"type:varchar(128)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

// TableName specifies the table name for CartItem.
func (CartItem) TableName() string {
	return "cart_items"
}

// EtoD converts the row and its preloaded items to the domain model.
func (c *Cart) EtoD() *commerce.Cart {
	cart := &commerce.Cart{
		ID:               c.ID,
		TenantID:         c.TenantID,
		ConversationID:   c.ConversationID,
		CustomerID:       c.CustomerID,
		Status:           commerce.CartStatus(c.Status),
		CheckoutStep:     commerce.CheckoutStep(c.CheckoutStep),
		DiscountCode:     c.DiscountCode,
		DiscountAmount:   c.DiscountAmount,
		ShippingOptionID: c.ShippingOptionID,
		ShippingCost:     c.ShippingCost,
		PaymentURL:       c.PaymentURL,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if len(c.Shipping) > 0 && string(c.Shipping) != "null" {
		var details commerce.ShippingDetails
		if err := json.Unmarshal(c.Shipping, &details); err == nil {
			cart.Shipping = &details
		}
	}
	for _, item := range c.Items {
		cart.Items = append(cart.Items, *item.EtoD())
	}
	return cart
}

// NewSchemaCart creates a cart row without its items.
func NewSchemaCart(c *commerce.Cart) *Cart {
	row := &Cart{
		ID:               c.ID,
		TenantID:         c.TenantID,
		ConversationID:   c.ConversationID,
		CustomerID:       c.CustomerID,
		Status:           string(c.Status),
		CheckoutStep:     string(c.CheckoutStep),
		DiscountCode:     c.DiscountCode,
		DiscountAmount:   c.DiscountAmount,
		ShippingOptionID: c.ShippingOptionID,
		ShippingCost:     c.ShippingCost,
		PaymentURL:       c.PaymentURL,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.Shipping != nil {
		if raw, err := json.Marshal(c.Shipping); err == nil {
			row.Shipping = datatypes.JSON(raw)
		}
	}
	return row
}

// EtoD converts the row to the domain model.
func (i *CartItem) EtoD() *commerce.CartItem {
	return &commerce.CartItem{
		ID:          i.ID,
		CartID:      i.CartID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Variant:     i.Variant,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
	}
}

// NewSchemaCartItem creates a row from the domain model.
func NewSchemaCartItem(i *commerce.CartItem) *CartItem {
	return &CartItem{
		ID:          i.ID,
		CartID:      i.CartID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Variant:     i.Variant,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
	}
}

// ShippingOption is a delivery method offered by a tenant. Empty Cities covers every city.
type ShippingOption struct {
	ID            string                      `gorm:"type:varchar(36);primaryKey"`
	TenantID      string                      `gorm:"type:varchar(64);index;not null"`
	Name          string                      `gorm:"type:varchar(128);not null"`
	Cost          decimal.Decimal             `gorm:"type:numeric(14,2);not null"`
	EstimatedDays string                      `gorm:"type:varchar(64)"`
	Cities        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Active        bool                        `gorm:"not null;default:true"`
}

// TableName specifies the table name for ShippingOption.
func (ShippingOption) TableName() string {
	return "shipping_options"
}

// EtoD converts the row to the domain model.
func (s *ShippingOption) EtoD() commerce.ShippingOption {
	return commerce.ShippingOption{
		ID:            s.ID,
		TenantID:      s.TenantID,
		Name:          s.Name,
		Cost:          s.Cost,
		EstimatedDays: s.EstimatedDays,
		Cities:        []string(s.Cities),
		Active:        s.Active,
	}
}

// NewSchemaShippingOption creates a row from the domain model.
func NewSchemaShippingOption(s *commerce.ShippingOption) *ShippingOption {
	return &ShippingOption{
		ID:            s.ID,
		TenantID:      s.TenantID,
		Name:          s.Name,
		Cost:          s.Cost,
		EstimatedDays: s.EstimatedDays,
		Cities:        datatypes.JSONSlice[string](s.Cities),
		Active:        s.Active,
	}
}

// DiscountCode is a promotional code of a tenant. Codes are stored upper-cased.
type DiscountCode struct {
	ID          string          `gorm:"type:varchar(36);primaryKey"`
	TenantID    string          `gorm:"type:varchar(64);uniqueIndex:idx_discount_tenant_code;not null"`
	Code        string          `gorm:"type:varchar(64);uniqueIndex:idx_discount_tenant_code;not null"`
	Type        string          `gorm:"type:varchar(16);not null"`
	Value       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	MinPurchase decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	MaxUses     int             `gorm:"not null;default:0"`
	UsedCount   int             `gorm:"not null;default:0"`
	ExpiresAt   *time.Time
	Active      bool `gorm:"not null;default:true"`
}

// TableName specifies the table name for DiscountCode.
func (DiscountCode) TableName() string {
	return "discount_codes"
}

// EtoD converts the row to the domain model.
func (d *DiscountCode) EtoD() *commerce.DiscountCode {
	return &commerce.DiscountCode{
		ID:          d.ID,
		TenantID:    d.TenantID,
		Code:        d.Code,
		Type:        commerce.DiscountType(d.Type),
		Value:       d.Value,
		MinPurchase: d.MinPurchase,
		MaxUses:     d.MaxUses,
		UsedCount:   d.UsedCount,
		ExpiresAt:   d.ExpiresAt,
		Active:      d.Active,
	}
}

// NewSchemaDiscountCode creates a row from the domain model.
func NewSchemaDiscountCode(d *commerce.DiscountCode) *DiscountCode {
	return &DiscountCode{
		ID:          d.ID,
		TenantID:    d.TenantID,
		Code:        d.Code,
		Type:        string(d.Type),
		Value:       d.Value,
		MinPurchase: d.MinPurchase,
		MaxUses:     d.MaxUses,
		UsedCount:   d.UsedCount,
		ExpiresAt:   d.ExpiresAt,
		Active:      d.Active,
	}
}
