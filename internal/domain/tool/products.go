package tool

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/janhq/commerce-api/internal/domain/commerce"
)

func (x *Executor) searchProducts(ctx context.Context, scope Scope, args *searchProductsArgs) Result {
	query := commerce.ProductQuery{
		Text:     strings.TrimSpace(args.Query),
		Category: strings.TrimSpace(args.Category),
		Limit:    *args.Limit,
	}
	if args.MinPrice != nil {
		v := decimal.NewFromFloat(*args.MinPrice)
		query.MinPrice = &v
	}
	if args.MaxPrice != nil {
		v := decimal.NewFromFloat(*args.MaxPrice)
		query.MaxPrice = &v
	}

	products, err := x.store.SearchProducts(ctx, scope.TenantID, query)
	if err != nil {
		return x.fromError(ctx, SearchProducts, err)
	}
	if len(products) == 0 {
		return rejected("No se encontraron productos para \"" + query.Text + "\"")
	}

	cards := make([]ProductCard, 0, len(products))
	for i := range products {
		cards = append(cards, NewProductCard(&products[i], false))
	}
	return success(SearchResults{Query: query.Text, Count: len(cards), Products: cards})
}

func (x *Executor) showProduct(ctx context.Context, scope Scope, args *productArgs) Result {
	product, err := x.carts.Product(ctx, scope.TenantID, args.ProductID)
	if err != nil {
		return x.fromError(ctx, ShowProduct, err)
	}
	return success(NewProductCard(product, true))
}

func (x *Executor) productAvailability(ctx context.Context, scope Scope, args *productVariantArgs) Result {
	product, err := x.carts.Product(ctx, scope.TenantID, args.ProductID)
	if err != nil {
		return x.fromError(ctx, GetProductAvailability, err)
	}

	availability := Availability{
		ProductID: product.ID,
		Name:      product.Name,
		Stock:     product.Stock,
		Available: product.Stock > 0,
	}
	if args.Variant != "" {
		v, ok := product.FindVariant(args.Variant)
		if !ok {
			names := product.VariantNames()
			if len(names) == 0 {
				return rejected("El producto " + product.Name + " no tiene variantes")
			}
			return rejected("La variante \"" + args.Variant + "\" no existe. Opciones disponibles: " + strings.Join(names, ", "))
		}
		availability.Variant = v.Name
		availability.Stock = v.Stock
		availability.Available = v.Stock > 0
		return success(availability)
	}

	if product.HasVariants() {
		total := 0
		for i := range product.Variants {
			v := &product.Variants[i]
			total += v.Stock
			availability.Variants = append(availability.Variants, VariantView{
				ID: v.ID, Name: v.Name, Price: product.UnitPrice(v), Stock: v.Stock,
			})
		}
		availability.Stock = total
		availability.Available = total > 0
	}
	return success(availability)
}
