package tool

import "context"

// addToCart validates the request and returns an instruction for the client, which owns the
// actual cart mutation for this tool.
func (x *Executor) addToCart(ctx context.Context, scope Scope, args *addToCartArgs) Result {
	check, err := x.carts.CheckAddition(ctx, scope.TenantID, scope.ConversationID, args.ProductID, args.Variant, *args.Quantity)
	if err != nil {
		return x.fromError(ctx, AddToCart, err)
	}
	return success(AddToCartInstruction{
		Type:      AddToCart,
		ProductID: check.Product.ID,
		Quantity:  check.Quantity,
		Variant:   check.VariantName(),
	})
}

func (x *Executor) getCart(ctx context.Context, scope Scope, _ *noArgs) Result {
	cart, err := x.carts.ActiveCart(ctx, scope.TenantID, scope.ConversationID)
	if err != nil {
		return x.fromError(ctx, GetCart, err)
	}
	return success(NewCartView(cart))
}

func (x *Executor) removeFromCart(ctx context.Context, scope Scope, args *productVariantArgs) Result {
	cart, err := x.carts.RemoveItem(ctx, scope.TenantID, scope.ConversationID, args.ProductID, args.Variant)
	if err != nil {
		return x.fromError(ctx, RemoveFromCart, err)
	}
	return success(NewCartView(cart))
}

func (x *Executor) updateCartQuantity(ctx context.Context, scope Scope, args *updateCartQuantityArgs) Result {
	cart, err := x.carts.UpdateQuantity(ctx, scope.TenantID, scope.ConversationID, args.ProductID, args.Variant, *args.Quantity)
	if err != nil {
		return x.fromError(ctx, UpdateCartQuantity, err)
	}
	return success(NewCartView(cart))
}
