package commerce

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Evaluate returns the amount the code takes off subtotal at instant now.
func (d *DiscountCode) Evaluate(subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if d == nil || !d.Active {
		return decimal.Zero, errInvalidDiscount
	}
	if d.ExpiresAt != nil && now.After(*d.ExpiresAt) {
		return decimal.Zero, errExpiredDiscount
	}
	if d.MaxUses > 0 && d.UsedCount >= d.MaxUses {
		return decimal.Zero, errDiscountUsedUp
	}
	if d.MinPurchase.IsPositive() && subtotal.LessThan(d.MinPurchase) {
		return decimal.Zero, violation("El pedido mínimo para este código es %s", d.MinPurchase.StringFixed(2))
	}

	var amount decimal.Decimal
	switch d.Type {
	case DiscountPercentage:
		amount = subtotal.Mul(d.Value).Div(hundred).Round(2)
	case DiscountFixed:
		amount = d.Value
	default:
		return decimal.Zero, errInvalidDiscount
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return amount, nil
}
