package tool

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/janhq/commerce-api/internal/domain/commerce"
)

// ProductCard is the data of a product as rendered by the client.
type ProductCard struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	PriceLabel  string          `json:"price_label"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url,omitempty"`
	Variants    []VariantView   `json:"variants,omitempty"`
}

// VariantView is a variant with its own stock and price.
type VariantView struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// NewProductCard builds the card of p. withDetails adds the description.
func NewProductCard(p *commerce.Product, withDetails bool) ProductCard {
	card := ProductCard{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Price:      p.Price,
		PriceLabel: commerce.FormatMoney(p.Price),
		Stock:      p.Stock,
		ImageURL:   p.ImageURL,
	}
	if withDetails {
		card.Description = p.Description
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		card.Variants = append(card.Variants, VariantView{
			ID:    v.ID,
			Name:  v.Name,
			Price: p.UnitPrice(v),
			Stock: v.Stock,
		})
	}
	return card
}

// SearchResults is the data of search_products.
type SearchResults struct {
	Query    string        `json:"query"`
	Count    int           `json:"count"`
	Products []ProductCard `json:"products"`
}

// Availability is the data of get_product_availability.
type Availability struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	Variant   string        `json:"variant,omitempty"`
	Stock     int           `json:"stock"`
	Available bool          `json:"available"`
	Variants  []VariantView `json:"variants,omitempty"`
}

// AddToCartInstruction is the advisory add_to_cart data the client applies to its cart.
type AddToCartInstruction struct {
	Type      string `json:"type"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant,omitempty"`
}

// CartView is the data of the cart tools.
type CartView struct {
	CartID       string          `json:"cart_id,omitempty"`
	Items        []CartLine      `json:"items"`
	ItemCount    int             `json:"item_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DiscountCode string          `json:"discount_code,omitempty"`
	Discount     decimal.Decimal `json:"discount"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
	TotalLabel   string          `json:"total_label"`
	CheckoutStep string          `json:"checkout_step,omitempty"`
}

// CartLine is a line of a CartView.
type CartLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Variant     string          `json:"variant,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NewCartView renders cart. A nil cart renders as empty.
func NewCartView(cart *commerce.Cart) CartView {
	view := CartView{Items: []CartLine{}}
	if cart == nil {
		view.TotalLabel = commerce.FormatMoney(decimal.Zero)
		return view
	}
	view.CartID = cart.ID
	for _, item := range cart.Items {
		view.Items = append(view.Items, CartLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Variant:     item.Variant,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		})
	}
	view.ItemCount = cart.ItemCount()
	view.Subtotal = cart.Subtotal()
	view.DiscountCode = cart.DiscountCode
	view.Discount = cart.DiscountAmount
	view.ShippingCost = cart.ShippingCost
	view.Total = cart.Total()
	view.TotalLabel = commerce.FormatMoney(view.Total)
	view.CheckoutStep = string(cart.CheckoutStep)
	return view
}

// CheckoutState is the data of start_checkout and confirm_shipping_details.
type CheckoutState struct {
	CartID             string                    `json:"cart_id"`
	Step               string                    `json:"step"`
	Total              decimal.Decimal           `json:"total"`
	CustomerIdentified bool                      `json:"customer_identified"`
	Shipping           *commerce.ShippingDetails `json:"shipping,omitempty"`
	ShippingCost       decimal.Decimal           `json:"shipping_cost"`
	NextStep           string                    `json:"next_step"`
}

// CheckoutSummary is the data of render_checkout_summary.
type CheckoutSummary struct {
	Cart     CartView                  `json:"cart"`
	Customer *CustomerView             `json:"customer,omitempty"`
	Shipping *commerce.ShippingDetails `json:"shipping,omitempty"`
}

// ShippingOptionView is a selectable shipping option.
type ShippingOptionView struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Cost          decimal.Decimal `json:"cost"`
	CostLabel     string          `json:"cost_label"`
	EstimatedDays string          `json:"estimated_days,omitempty"`
}

// ShippingOptions is the data of get_shipping_options.
type ShippingOptions struct {
	City    string               `json:"city,omitempty"`
	Options []ShippingOptionView `json:"options"`
}

// PaymentLinkView is the data of create_payment_link.
type PaymentLinkView struct {
	URL       string          `json:"url"`
	Reference string          `json:"reference,omitempty"`
	Method    string          `json:"payment_method"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// CustomerView is the data of identify_customer.
type CustomerView struct {
	ID             string `json:"id"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	DocumentType   string `json:"document_type,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
	IsNew          bool   `json:"is_new"`
}

func newCustomerView(c *commerce.Customer, isNew bool) *CustomerView {
	return &CustomerView{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		IsNew:          isNew,
	}
}

// StoreInfo is the data of get_store_info.
type StoreInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	WhatsApp      string `json:"whatsapp,omitempty"`
	Address       string `json:"address,omitempty"`
	City          string `json:"city,omitempty"`
	BusinessHours string `json:"business_hours,omitempty"`
	Website       string `json:"website,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// OrderView is an order as reported to the model.
type OrderView struct {
	OrderNumber    string          `json:"order_number"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"payment_status,omitempty"`
	Total          decimal.Decimal `json:"total"`
	TotalLabel     string          `json:"total_label"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []OrderLine     `json:"items,omitempty"`
}

// OrderLine is a line of an OrderView.
type OrderLine struct {
	ProductName string `json:"product_name"`
	Variant     string `json:"variant,omitempty"`
	Quantity    int    `json:"quantity"`
}

func newOrderView(o *commerce.Order, withItems bool) OrderView {
	view := OrderView{
		OrderNumber:    o.OrderNumber,
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		Total:          o.Total,
		TotalLabel:     commerce.FormatMoney(o.Total),
		TrackingNumber: o.TrackingNumber,
		CreatedAt:      o.CreatedAt,
	}
	if withItems {
		for _, item := range o.Items {
			view.Items = append(view.Items, OrderLine{ProductName: item.ProductName, Variant: item.Variant, Quantity: item.Quantity})
		}
	}
	return view
}

// CustomerHistory is the data of get_customer_history.
type CustomerHistory struct {
	CustomerID string      `json:"customer_id"`
	Orders     []OrderView `json:"orders"`
}

// EscalationView is the data of escalate_to_human.
type EscalationView struct {
	ConversationID   string `json:"conversation_id"`
	Status           string `json:"status"`
	Reason           string `json:"reason"`
	Priority         string `json:"priority"`
	AlreadyEscalated bool   `json:"already_escalated,omitempty"`
}
