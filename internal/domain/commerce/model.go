package commerce

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Organization is the tenant that owns a store.
type Organization struct {
	ID            string
	Name          string
	Description   string
	Email         string
	Phone         string
	WhatsApp      string
	Address       string
	City          string
	BusinessHours string
	Currency      string
	Website       string
}

// Product is a catalog entry. Price applies to variants without their own price.
type Product struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Active      bool
	ImageURL    string
	Variants    []Variant
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant is a purchasable option of a product such as a size or a color.
type Variant struct {
	ID        string
	ProductID string
	Name      string
	Price     *decimal.Decimal
	Stock     int
}

// HasVariants reports whether a variant must be chosen before adding the product to a cart.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// FindVariant matches a variant by id or case-insensitive name.
func (p *Product) FindVariant(key string) (*Variant, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.ID == key || strings.EqualFold(v.Name, key) {
			return v, true
		}
	}
	return nil, false
}

// VariantNames lists the variant names in catalog order.
func (p *Product) VariantNames() []string {
	names := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		names = append(names, v.Name)
	}
	return names
}

// UnitPrice returns the price of the product or of the given variant.
func (p *Product) UnitPrice(v *Variant) decimal.Decimal {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// AvailableStock returns the stock of the variant, or of the product when v is nil.
func (p *Product) AvailableStock(v *Variant) int {
	if v != nil {
		return v.Stock
	}
	return p.Stock
}

// ProductQuery filters a catalog search.
type ProductQuery struct {
	Text     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Limit    int
}

// Customer is a shopper known to the tenant.
type Customer struct {
	ID             string
	TenantID       string
	Name           string
	Email          string
	Phone          string
	DocumentType   string
	DocumentNumber string
	Address        string
	City           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CustomerLookup holds the contact data used to find an existing customer.
type CustomerLookup struct {
	Email          string
	Phone          string
	DocumentType   string
	DocumentNumber string
}

// CartStatus is the lifecycle state of a cart.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
	CartStatusAbandoned CartStatus = "abandoned"
)

// CheckoutStep tracks how far a cart has gone through checkout.
type CheckoutStep string

const (
	CheckoutStepNone              CheckoutStep = ""
	CheckoutStepStarted           CheckoutStep = "started"
	CheckoutStepShippingConfirmed CheckoutStep = "shipping_confirmed"
	CheckoutStepPaymentPending    CheckoutStep = "payment_pending"
)

// Cart is the shopping cart attached to a conversation.
type Cart struct {
	ID               string
	TenantID         string
	ConversationID   string
	CustomerID       *string
	Status           CartStatus
	CheckoutStep     CheckoutStep
	Items            []CartItem
	DiscountCode     string
	DiscountAmount   decimal.Decimal
	ShippingOptionID *string
	ShippingCost     decimal.Decimal
	Shipping         *ShippingDetails
	PaymentURL       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CartItem is one product line of a cart.
type CartItem struct {
	ID          string
	CartID      string
	ProductID   string
	ProductName string
	Variant     string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// LineTotal returns quantity times unit price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ShippingDetails is the delivery data confirmed during checkout.
type ShippingDetails struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Department    string `json:"department,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal returns the sum of line totals before discount and shipping.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Total returns subtotal minus discount plus shipping, never below zero.
func (c *Cart) Total() decimal.Decimal {
	total := c.Subtotal().Sub(c.DiscountAmount).Add(c.ShippingCost)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// FindItem returns the index of the line for productID and variant, or -1.
func (c *Cart) FindItem(productID, variant string) int {
	for i, item := range c.Items {
		if item.ProductID == productID && strings.EqualFold(item.Variant, variant) {
			return i
		}
	}
	return -1
}

// Order is a placed order.
type Order struct {
	ID             string
	TenantID       string
	CustomerID     string
	OrderNumber    string
	Status         string
	PaymentStatus  string
	Total          decimal.Decimal
	ShippingCost   decimal.Decimal
	TrackingNumber string
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ProductID   string
	ProductName string
	Variant     string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// ShippingOption is a delivery method offered by the tenant. Empty Cities means every city.
type ShippingOption struct {
	ID            string
	TenantID      string
	Name          string
	Cost          decimal.Decimal
	EstimatedDays string
	Cities        []string
	Active        bool
}

// CoversCity reports whether the option delivers to city.
func (o ShippingOption) CoversCity(city string) bool {
	city = strings.TrimSpace(city)
	if city == "" || len(o.Cities) == 0 {
		return true
	}
	for _, c := range o.Cities {
		if strings.EqualFold(c, city) {
			return true
		}
	}
	return false
}

// DiscountType selects how a discount value is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// DiscountCode is a coupon redeemable against a cart.
type DiscountCode struct {
	ID          string
	TenantID    string
	Code        string
	Type        DiscountType
	Value       decimal.Decimal
	MinPurchase decimal.Decimal
	MaxUses     int
	UsedCount   int
	ExpiresAt   *time.Time
	Active      bool
}

// PaymentLinkRequest asks the payment collaborator for a checkout link.
type PaymentLinkRequest struct {
	TenantID       string
	CartID         string
	ConversationID string
	CustomerID     string
	Method         string
	Amount         decimal.Decimal
	Currency       string
	Description    string
}

// PaymentLink is a hosted payment page for a cart.
type PaymentLink struct {
	URL       string
	Reference string
	Method    string
	ExpiresAt *time.Time
}
