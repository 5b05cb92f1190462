package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/janhq/commerce-api/internal/domain/commerce"
)

// Order is a placed order. Orders are written by the storefront and only read here.
type Order struct {
	ID             string          `gorm:"type:varchar(36);primaryKey"`
	TenantID       string          `gorm:"type:varchar(64);index:idx_order_tenant_customer;uniqueIndex:idx_order_tenant_number;not null"`
	CustomerID     string          `gorm:"type:varchar(36);index:idx_order_tenant_customer;not null"`
	OrderNumber    string          `gorm:"type:varchar(32);uniqueIndex:idx_order_tenant_number;not null"`
	Status         string          `gorm:"type:varchar(32);not null"`
	PaymentStatus  string          `gorm:"type:varchar(32)"`
	Total          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ShippingCost   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TrackingNumber string          `gorm:"type:varchar(64)"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Order.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line of an order.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     string          `gorm:"type:varchar(36);index;not null"`
	ProductID   string          `gorm:"type:varchar(36);not null"`
	ProductName string          `gorm:"type:varchar(256);not null"`
	Variant     string          `gorm:"type:varchar(128)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName specifies the table name for OrderItem.
func (OrderItem) TableName() string {
	return "order_items"
}

// EtoD converts the row and its preloaded items to the domain model.
func (o *Order) EtoD() *commerce.Order {
	order := &commerce.Order{
		ID:             o.ID,
		TenantID:       o.TenantID,
		CustomerID:     o.CustomerID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		Total:          o.Total,
		ShippingCost:   o.ShippingCost,
		TrackingNumber: o.TrackingNumber,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	for _, item := range o.Items {
		order.Items = append(order.Items, commerce.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Variant:     item.Variant,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return order
}

// NewSchemaOrder creates a row with its items from the domain model.
func NewSchemaOrder(o *commerce.Order) *Order {
	row := &Order{
		ID:             o.ID,
		TenantID:       o.TenantID,
		CustomerID:     o.CustomerID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		Total:          o.Total,
		ShippingCost:   o.ShippingCost,
		TrackingNumber: o.TrackingNumber,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	for _, item := range o.Items {
		row.Items = append(row.Items, OrderItem{
			OrderID:     o.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Variant:     item.Variant,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return row
}
