package tool

import (
	"context"
	"strings"

	"github.com/janhq/commerce-api/internal/domain/commerce"
)

const defaultCurrency = "COP"

func customerRef(scope Scope) *string {
	if scope.CustomerID == "" {
		return nil
	}
	id := scope.CustomerID
	return &id
}

func (x *Executor) startCheckout(ctx context.Context, scope Scope, _ *noArgs) Result {
	cart, err := x.carts.StartCheckout(ctx, scope.TenantID, scope.ConversationID, customerRef(scope))
	if err != nil {
		return x.fromError(ctx, StartCheckout, err)
	}
	return success(checkoutState(cart))
}

func (x *Executor) shippingOptions(ctx context.Context, scope Scope, args *shippingOptionsArgs) Result {
	city := strings.TrimSpace(args.City)
	options, err := x.carts.ShippingOptions(ctx, scope.TenantID, city)
	if err != nil {
		return x.fromError(ctx, GetShippingOptions, err)
	}
	if len(options) == 0 {
		if city == "" {
			return rejected("La tienda no tiene opciones de envío configuradas")
		}
		return rejected("No hay opciones de envío disponibles para " + city)
	}

	views := make([]ShippingOptionView, 0, len(options))
	for _, opt := range options {
		views = append(views, ShippingOptionView{
			ID:            opt.ID,
			Name:          opt.Name,
			Cost:          opt.Cost,
			CostLabel:     commerce.FormatMoney(opt.Cost),
			EstimatedDays: opt.EstimatedDays,
		})
	}
	return success(ShippingOptions{City: city, Options: views})
}

func (x *Executor) applyDiscount(ctx context.Context, scope Scope, args *applyDiscountArgs) Result {
	cart, err := x.carts.ApplyDiscount(ctx, scope.TenantID, scope.ConversationID, args.Code)
	if err != nil {
		return x.fromError(ctx, ApplyDiscount, err)
	}
	return success(NewCartView(cart))
}

func (x *Executor) checkoutSummary(ctx context.Context, scope Scope, _ *noArgs) Result {
	cart, err := x.carts.ActiveCart(ctx, scope.TenantID, scope.ConversationID)
	if err != nil {
		return x.fromError(ctx, RenderCheckoutSummary, err)
	}
	if cart.IsEmpty() {
		return rejected("El carrito está vacío")
	}

	summary := CheckoutSummary{Cart: NewCartView(cart), Shipping: cart.Shipping}
	customerID := scope.CustomerID
	if cart.CustomerID != nil {
		customerID = *cart.CustomerID
	}
	if customerID != "" {
		customer, err := x.store.FindCustomer(ctx, scope.TenantID, customerID)
		switch {
		case err == nil:
			summary.Customer = newCustomerView(customer, false)
		case !commerce.IsNotFound(err):
			return x.fromError(ctx, RenderCheckoutSummary, err)
		}
	}
	return success(summary)
}

func (x *Executor) confirmShipping(ctx context.Context, scope Scope, args *confirmShippingArgs) Result {
	details := commerce.ShippingDetails{
		RecipientName: strings.TrimSpace(args.RecipientName),
		Phone:         normalizePhone(args.Phone),
		Address:       strings.TrimSpace(args.Address),
		City:          strings.TrimSpace(args.City),
		Department:    strings.TrimSpace(args.Department),
		Notes:         strings.TrimSpace(args.Notes),
	}
	cart, err := x.carts.ConfirmShipping(ctx, scope.TenantID, scope.ConversationID, details, args.ShippingOptionID)
	if err != nil {
		return x.fromError(ctx, ConfirmShippingDetails, err)
	}
	return success(checkoutState(cart))
}

func (x *Executor) createPaymentLink(ctx context.Context, scope Scope, args *paymentLinkArgs) Result {
	currency := defaultCurrency
	org, err := x.store.GetOrganization(ctx, scope.TenantID)
	switch {
	case err == nil && org.Currency != "":
		currency = org.Currency
	case err != nil && !commerce.IsNotFound(err):
		return x.fromError(ctx, CreatePaymentLink, err)
	}

	cart, link, err := x.carts.CreatePaymentLink(ctx, scope.TenantID, scope.ConversationID, customerRef(scope), args.PaymentMethod, currency)
	if err != nil {
		return x.fromError(ctx, CreatePaymentLink, err)
	}
	return success(PaymentLinkView{
		URL:       link.URL,
		Reference: link.Reference,
		Method:    args.PaymentMethod,
		Amount:    cart.Total(),
		Currency:  currency,
		ExpiresAt: link.ExpiresAt,
	})
}

func checkoutState(cart *commerce.Cart) CheckoutState {
	state := CheckoutState{
		CartID:             cart.ID,
		Step:               string(cart.CheckoutStep),
		Total:              cart.Total(),
		CustomerIdentified: cart.CustomerID != nil && *cart.CustomerID != "",
		Shipping:           cart.Shipping,
		ShippingCost:       cart.ShippingCost,
	}
	switch {
	case !state.CustomerIdentified:
		state.NextStep = IdentifyCustomer
	case cart.Shipping == nil:
		state.NextStep = ConfirmShippingDetails
	default:
		state.NextStep = CreatePaymentLink
	}
	return state
}
