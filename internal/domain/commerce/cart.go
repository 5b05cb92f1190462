package commerce

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartStore is the subset of Store used by CartService.
type CartStore interface {
	CatalogRepository
	CartRepository
	CheckoutRepository
}

// CartService applies cart and checkout rules on top of a CartStore.
type CartService struct {
	store    CartStore
	payments PaymentLinkCreator
	now      func() time.Time
}

// NewCartService creates a cart service. payments may be nil when payment links are not offered.
func NewCartService(store CartStore, payments PaymentLinkCreator) *CartService {
	return &CartService{store: store, payments: payments, now: time.Now}
}

// LineCheck is a validated request to put quantity units of a product in a cart.
type LineCheck struct {
	Product   *Product
	Variant   *Variant
	Quantity  int
	UnitPrice decimal.Decimal
}

// VariantName returns the canonical variant name or an empty string.
func (l *LineCheck) VariantName() string {
	return variantName(l.Variant)
}

// ActiveCart returns the active cart of a conversation, or nil when there is none.
func (s *CartService) ActiveCart(ctx context.Context, tenantID, conversationID string) (*Cart, error) {
	cart, err := s.store.FindActiveCart(ctx, tenantID, conversationID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return cart, nil
}

// Product returns an active product of the tenant or ErrProductNotFound.
func (s *CartService) Product(ctx context.Context, tenantID, productID string) (*Product, error) {
	product, err := s.store.FindActiveProduct(ctx, tenantID, productID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.Active || product.TenantID != tenantID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// CheckAddition validates adding quantity units without writing anything. Units already in
// the conversation's cart count against the available stock.
func (s *CartService) CheckAddition(ctx context.Context, tenantID, conversationID, productID, variant string, quantity int) (*LineCheck, error) {
	if quantity <= 0 {
		return nil, errInvalidQuantity
	}
	product, err := s.Product(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	var v *Variant
	switch {
	case strings.TrimSpace(variant) != "":
		found, ok := product.FindVariant(variant)
		if !ok {
			return nil, variantUnknown(product, variant)
		}
		v = found
	case product.HasVariants():
		return nil, variantRequired(product)
	}

	inCart := 0
	cart, err := s.ActiveCart(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		if idx := cart.FindItem(product.ID, variantName(v)); idx >= 0 {
			inCart = cart.Items[idx].Quantity
		}
	}

	available := product.AvailableStock(v)
	if inCart+quantity > available {
		return nil, insufficientStock(available - inCart)
	}

	return &LineCheck{
		Product:   product,
		Variant:   v,
		Quantity:  quantity,
		UnitPrice: product.UnitPrice(v),
	}, nil
}

// AddItem validates and applies an addition, merging it into an existing line.
func (s *CartService) AddItem(ctx context.Context, tenantID, conversationID, productID, variant string, quantity int) (*Cart, error) {
	check, err := s.CheckAddition(ctx, tenantID, conversationID, productID, variant, quantity)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartForWrite(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}

	var item CartItem
	if idx := cart.FindItem(check.Product.ID, check.VariantName()); idx >= 0 {
		item = cart.Items[idx]
		item.Quantity += check.Quantity
		item.UnitPrice = check.UnitPrice
		cart.Items[idx] = item
	} else {
		item = CartItem{
			ID:          uuid.NewString(),
			CartID:      cart.ID,
			ProductID:   check.Product.ID,
			ProductName: check.Product.Name,
			Variant:     check.VariantName(),
			Quantity:    check.Quantity,
			UnitPrice:   check.UnitPrice,
		}
		cart.Items = append(cart.Items, item)
	}

	if err := s.store.SaveCartItem(ctx, &item); err != nil {
		return nil, err
	}
	return cart, s.refresh(ctx, cart)
}

// RemoveItem deletes the line for productID and variant.
func (s *CartService) RemoveItem(ctx context.Context, tenantID, conversationID, productID, variant string) (*Cart, error) {
	cart, idx, err := s.findLine(ctx, tenantID, conversationID, productID, variant)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteCartItem(ctx, cart.ID, cart.Items[idx].ID); err != nil {
		return nil, err
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	return cart, s.refresh(ctx, cart)
}

// UpdateQuantity sets the quantity of an existing line. Zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, tenantID, conversationID, productID, variant string, quantity int) (*Cart, error) {
	if quantity < 0 {
		return nil, errInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, tenantID, conversationID, productID, variant)
	}

	cart, idx, err := s.findLine(ctx, tenantID, conversationID, productID, variant)
	if err != nil {
		return nil, err
	}

	item := cart.Items[idx]
	product, err := s.Product(ctx, tenantID, item.ProductID)
	if err != nil {
		return nil, err
	}
	var v *Variant
	if item.Variant != "" {
		v, _ = product.FindVariant(item.Variant)
	}
	if available := product.AvailableStock(v); quantity > available {
		return nil, insufficientStock(available)
	}

	item.Quantity = quantity
	item.UnitPrice = product.UnitPrice(v)
	cart.Items[idx] = item
	if err := s.store.SaveCartItem(ctx, &item); err != nil {
		return nil, err
	}
	return cart, s.refresh(ctx, cart)
}

// ApplyDiscount validates code against the cart subtotal and stores it on the cart.
func (s *CartService) ApplyDiscount(ctx context.Context, tenantID, conversationID, code string) (*Cart, error) {
	cart, err := s.nonEmptyCart(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}

	discount, err := s.store.FindDiscount(ctx, tenantID, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if IsNotFound(err) {
			return nil, errInvalidDiscount
		}
		return nil, err
	}
	amount, err := discount.Evaluate(cart.Subtotal(), s.now())
	if err != nil {
		return nil, err
	}

	cart.DiscountCode = discount.Code
	cart.DiscountAmount = amount
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// StartCheckout moves a non-empty cart into checkout and attaches the customer when known.
func (s *CartService) StartCheckout(ctx context.Context, tenantID, conversationID string, customerID *string) (*Cart, error) {
	cart, err := s.nonEmptyCart(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}
	if customerID != nil && *customerID != "" {
		cart.CustomerID = customerID
	}
	if cart.CheckoutStep == CheckoutStepNone {
		cart.CheckoutStep = CheckoutStepStarted
	}
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ShippingOptions lists the active options that deliver to city. An empty city lists all.
func (s *CartService) ShippingOptions(ctx context.Context, tenantID, city string) ([]ShippingOption, error) {
	options, err := s.store.ListShippingOptions(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	result := make([]ShippingOption, 0, len(options))
	for _, opt := range options {
		if opt.Active && opt.CoversCity(city) {
			result = append(result, opt)
		}
	}
	return result, nil
}

// ConfirmShipping stores delivery details and the selected shipping option. Without an
// explicit option the cheapest one covering the city is used.
func (s *CartService) ConfirmShipping(ctx context.Context, tenantID, conversationID string, details ShippingDetails, optionID string) (*Cart, error) {
	cart, err := s.nonEmptyCart(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}
	if cart.CheckoutStep == CheckoutStepNone {
		return nil, errCheckoutNotReady
	}

	options, err := s.ShippingOptions(ctx, tenantID, details.City)
	if err != nil {
		return nil, err
	}
	var selected *ShippingOption
	for i := range options {
		opt := &options[i]
		if optionID != "" {
			if opt.ID == optionID {
				selected = opt
				break
			}
			continue
		}
		if selected == nil || opt.Cost.LessThan(selected.Cost) {
			selected = opt
		}
	}
	if optionID != "" && selected == nil {
		return nil, errUnknownShipping
	}
	if selected == nil {
		return nil, violation("No hay opciones de envío disponibles para %s", details.City)
	}

	cart.Shipping = &details
	cart.ShippingOptionID = &selected.ID
	cart.ShippingCost = selected.Cost
	cart.CheckoutStep = CheckoutStepShippingConfirmed
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// CreatePaymentLink requests a payment link for a cart whose checkout is complete.
func (s *CartService) CreatePaymentLink(ctx context.Context, tenantID, conversationID string, customerID *string, method, currency string) (*Cart, *PaymentLink, error) {
	if s.payments == nil {
		return nil, nil, violation("Los pagos en línea no están disponibles en esta tienda")
	}
	cart, err := s.nonEmptyCart(ctx, tenantID, conversationID)
	if err != nil {
		return nil, nil, err
	}
	if cart.CustomerID == nil && customerID != nil && *customerID != "" {
		cart.CustomerID = customerID
	}
	switch {
	case cart.CheckoutStep == CheckoutStepNone:
		return nil, nil, errCheckoutNotReady
	case cart.CustomerID == nil || *cart.CustomerID == "":
		return nil, nil, errNeedsCustomer
	case cart.Shipping == nil:
		return nil, nil, errNeedsShipping
	}

	link, err := s.payments.CreatePaymentLink(ctx, PaymentLinkRequest{
		TenantID:       tenantID,
		CartID:         cart.ID,
		ConversationID: conversationID,
		CustomerID:     *cart.CustomerID,
		Method:         method,
		Amount:         cart.Total(),
		Currency:       currency,
		Description:    fmt.Sprintf("Pedido de %d productos", cart.ItemCount()),
	})
	if err != nil {
		return nil, nil, err
	}

	cart.PaymentURL = link.URL
	cart.CheckoutStep = CheckoutStepPaymentPending
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, nil, err
	}
	return cart, link, nil
}

// AbandonStale marks active carts untouched for longer than maxIdle as abandoned.
func (s *CartService) AbandonStale(ctx context.Context, maxIdle time.Duration) (int64, error) {
	return s.store.AbandonStaleCarts(ctx, s.now().Add(-maxIdle))
}

func (s *CartService) cartForWrite(ctx context.Context, tenantID, conversationID string) (*Cart, error) {
	cart, err := s.ActiveCart(ctx, tenantID, conversationID)
	if err != nil || cart != nil {
		return cart, err
	}
	cart = &Cart{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		ConversationID: conversationID,
		Status:         CartStatusActive,
	}
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) nonEmptyCart(ctx context.Context, tenantID, conversationID string) (*Cart, error) {
	cart, err := s.ActiveCart(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, errEmptyCart
	}
	return cart, nil
}

func (s *CartService) findLine(ctx context.Context, tenantID, conversationID, productID, variant string) (*Cart, int, error) {
	cart, err := s.nonEmptyCart(ctx, tenantID, conversationID)
	if err != nil {
		return nil, -1, err
	}
	idx := cart.FindItem(productID, variant)
	if idx < 0 && variant == "" {
		// a single line of the product can be addressed without its variant
		for i, item := range cart.Items {
			if item.ProductID != productID {
				continue
			}
			if idx >= 0 {
				return nil, -1, violation("Indica la variante del producto que quieres modificar")
			}
			idx = i
		}
	}
	if idx < 0 {
		return nil, -1, errItemNotInCart
	}
	return cart, idx, nil
}

// refresh recomputes the discount after the lines changed and saves the cart.
func (s *CartService) refresh(ctx context.Context, cart *Cart) error {
	if cart.DiscountCode != "" {
		amount := decimal.Zero
		discount, err := s.store.FindDiscount(ctx, cart.TenantID, cart.DiscountCode)
		if err == nil {
			amount, err = discount.Evaluate(cart.Subtotal(), s.now())
		}
		if err != nil {
			if _, ok := AsViolation(err); !ok && !IsNotFound(err) {
				return err
			}
			cart.DiscountCode = ""
			amount = decimal.Zero
		}
		cart.DiscountAmount = amount
	}
	return s.store.SaveCart(ctx, cart)
}

func variantName(v *Variant) string {
	if v == nil {
		return ""
	}
	return v.Name
}
