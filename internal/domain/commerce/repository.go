package commerce

import (
	"context"
	"time"
)

// OrganizationRepository reads tenant profiles.
type OrganizationRepository interface {
	GetOrganization(ctx context.Context, tenantID string) (*Organization, error)
}

// CatalogRepository reads active products of a tenant.
type CatalogRepository interface {
	CountActiveProducts(ctx context.Context, tenantID string) (int64, error)
	FindActiveProduct(ctx context.Context, tenantID, productID string) (*Product, error)
	SearchProducts(ctx context.Context, tenantID string, query ProductQuery) ([]Product, error)
}

// CustomerRepository reads and writes customer records.
type CustomerRepository interface {
	FindCustomer(ctx context.Context, tenantID, customerID string) (*Customer, error)
	FindCustomerByContact(ctx context.Context, tenantID string, lookup CustomerLookup) (*Customer, error)
	SaveCustomer(ctx context.Context, customer *Customer) error
}

// CartRepository persists carts and their lines.
type CartRepository interface {
	FindActiveCart(ctx context.Context, tenantID, conversationID string) (*Cart, error)
	SaveCart(ctx context.Context, cart *Cart) error
	SaveCartItem(ctx context.Context, item *CartItem) error
	DeleteCartItem(ctx context.Context, cartID, itemID string) error
	AbandonStaleCarts(ctx context.Context, updatedBefore time.Time) (int64, error)
}

// OrderRepository reads orders. Lookups are scoped by tenant and customer.
type OrderRepository interface {
	ListRecentOrders(ctx context.Context, tenantID, customerID string, limit int) ([]Order, error)
	FindOrder(ctx context.Context, tenantID, customerID, orderNumber string) (*Order, error)
}

// CheckoutRepository reads shipping options and discount codes.
type CheckoutRepository interface {
	ListShippingOptions(ctx context.Context, tenantID string) ([]ShippingOption, error)
	FindDiscount(ctx context.Context, tenantID, code string) (*DiscountCode, error)
}

// Store is the commerce backend as seen by the assistant.
type Store interface {
	OrganizationRepository
	CatalogRepository
	CustomerRepository
	CartRepository
	OrderRepository
	CheckoutRepository
}

// PaymentLinkCreator creates hosted payment links.
type PaymentLinkCreator interface {
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error)
}
