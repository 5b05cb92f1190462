// Package commercetest provides an in-memory commerce.Store for tests.
package commercetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// Store is a commerce.Store backed by maps. Calls counts every method invocation.
type Store struct {
	mu sync.Mutex

	Organizations   map[string]commerce.Organization
	Products        map[string]commerce.Product
	Customers       map[string]commerce.Customer
	Carts           map[string]commerce.Cart
	Orders          []commerce.Order
	ShippingOptions []commerce.ShippingOption
	Discounts       []commerce.DiscountCode

	Calls int
}

var _ commerce.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		Organizations: map[string]commerce.Organization{},
		Products:      map[string]commerce.Product{},
		Customers:     map[string]commerce.Customer{},
		Carts:         map[string]commerce.Cart{},
	}
}

// CallCount returns the number of store calls made so far.
func (s *Store) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}

func (s *Store) enter() func() {
	s.mu.Lock()
	s.Calls++
	return s.mu.Unlock
}

func notFound(ctx context.Context, what string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, what+" not found", nil, "commercetest-not-found")
}

func (s *Store) GetOrganization(ctx context.Context, tenantID string) (*commerce.Organization, error) {
	defer s.enter()()
	org, ok := s.Organizations[tenantID]
	if !ok {
		return nil, notFound(ctx, "organization")
	}
	return &org, nil
}

func (s *Store) CountActiveProducts(ctx context.Context, tenantID string) (int64, error) {
	defer s.enter()()
	var n int64
	for _, p := range s.Products {
		if p.TenantID == tenantID && p.Active {
			n++
		}
	}
	return n, nil
}

func (s *Store) FindActiveProduct(ctx context.Context, tenantID, productID string) (*commerce.Product, error) {
	defer s.enter()()
	p, ok := s.Products[productID]
	if !ok || p.TenantID != tenantID || !p.Active {
		return nil, notFound(ctx, "product")
	}
	p.Variants = append([]commerce.Variant(nil), p.Variants...)
	return &p, nil
}

func (s *Store) SearchProducts(ctx context.Context, tenantID string, query commerce.ProductQuery) ([]commerce.Product, error) {
	defer s.enter()()
	text := strings.ToLower(query.Text)
	var result []commerce.Product
	for _, p := range s.Products {
		if p.TenantID != tenantID || !p.Active {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), text) {
			continue
		}
		if query.Category != "" && !strings.EqualFold(p.Category, query.Category) {
			continue
		}
		if query.MinPrice != nil && p.Price.LessThan(*query.MinPrice) {
			continue
		}
		if query.MaxPrice != nil && p.Price.GreaterThan(*query.MaxPrice) {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}
	return result, nil
}

func (s *Store) FindCustomer(ctx context.Context, tenantID, customerID string) (*commerce.Customer, error) {
	defer s.enter()()
	c, ok := s.Customers[customerID]
	if !ok || c.TenantID != tenantID {
		return nil, notFound(ctx, "customer")
	}
	return &c, nil
}

func (s *Store) FindCustomerByContact(ctx context.Context, tenantID string, lookup commerce.CustomerLookup) (*commerce.Customer, error) {
	defer s.enter()()
	for _, c := range s.Customers {
		if c.TenantID != tenantID {
			continue
		}
		if (lookup.Email != "" && strings.EqualFold(c.Email, lookup.Email)) ||
			(lookup.Phone != "" && c.Phone == lookup.Phone) ||
			(lookup.DocumentNumber != "" && c.DocumentType == lookup.DocumentType && c.DocumentNumber == lookup.DocumentNumber) {
			return &c, nil
		}
	}
	return nil, notFound(ctx, "customer")
}

func (s *Store) SaveCustomer(ctx context.Context, customer *commerce.Customer) error {
	defer s.enter()()
	s.Customers[customer.ID] = *customer
	return nil
}

func (s *Store) FindActiveCart(ctx context.Context, tenantID, conversationID string) (*commerce.Cart, error) {
	defer s.enter()()
	for _, c := range s.Carts {
		if c.TenantID == tenantID && c.ConversationID == conversationID && c.Status == commerce.CartStatusActive {
			c.Items = append([]commerce.CartItem(nil), c.Items...)
			return &c, nil
		}
	}
	return nil, notFound(ctx, "cart")
}

func (s *Store) SaveCart(ctx context.Context, cart *commerce.Cart) error {
	defer s.enter()()
	stored := *cart
	stored.Items = append([]commerce.CartItem(nil), cart.Items...)
	s.Carts[cart.ID] = stored
	return nil
}

func (s *Store) SaveCartItem(ctx context.Context, item *commerce.CartItem) error {
	defer s.enter()()
	cart := s.Carts[item.CartID]
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i] = *item
			s.Carts[item.CartID] = cart
			return nil
		}
	}
	cart.Items = append(cart.Items, *item)
	s.Carts[item.CartID] = cart
	return nil
}

func (s *Store) DeleteCartItem(ctx context.Context, cartID, itemID string) error {
	defer s.enter()()
	cart := s.Carts[cartID]
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	cart.Items = items
	s.Carts[cartID] = cart
	return nil
}

func (s *Store) AbandonStaleCarts(ctx context.Context, updatedBefore time.Time) (int64, error) {
	defer s.enter()()
	var n int64
	for id, c := range s.Carts {
		if c.Status == commerce.CartStatusActive && c.UpdatedAt.Before(updatedBefore) {
			c.Status = commerce.CartStatusAbandoned
			s.Carts[id] = c
			n++
		}
	}
	return n, nil
}

func (s *Store) ListRecentOrders(ctx context.Context, tenantID, customerID string, limit int) ([]commerce.Order, error) {
	defer s.enter()()
	var result []commerce.Order
	for _, o := range s.Orders {
		if o.TenantID == tenantID && o.CustomerID == customerID {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) FindOrder(ctx context.Context, tenantID, customerID, orderNumber string) (*commerce.Order, error) {
	defer s.enter()()
	for _, o := range s.Orders {
		if o.TenantID == tenantID && o.CustomerID == customerID && strings.EqualFold(o.OrderNumber, orderNumber) {
			return &o, nil
		}
	}
	return nil, notFound(ctx, "order")
}

func (s *Store) ListShippingOptions(ctx context.Context, tenantID string) ([]commerce.ShippingOption, error) {
	defer s.enter()()
	var result []commerce.ShippingOption
	for _, o := range s.ShippingOptions {
		if o.TenantID == tenantID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (s *Store) FindDiscount(ctx context.Context, tenantID, code string) (*commerce.DiscountCode, error) {
	defer s.enter()()
	for _, d := range s.Discounts {
		if d.TenantID == tenantID && strings.EqualFold(d.Code, code) {
			return &d, nil
		}
	}
	return nil, notFound(ctx, "discount")
}

// PaymentLinks records payment link requests and answers with a fixed URL.
type PaymentLinks struct {
	Requests []commerce.PaymentLinkRequest
	Err      error
}

func (p *PaymentLinks) CreatePaymentLink(ctx context.Context, req commerce.PaymentLinkRequest) (*commerce.PaymentLink, error) {
	p.Requests = append(p.Requests, req)
	if p.Err != nil {
		return nil, p.Err
	}
	return &commerce.PaymentLink{
		URL:       "https://pay.example.com/" + req.CartID,
		Reference: "ref-" + req.CartID,
		Method:    req.Method,
	}, nil
}
