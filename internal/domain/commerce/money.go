package commerce

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as "$1.234.567" or "$1.234,50" when it has cents.
func FormatMoney(amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	whole := amount.Truncate(0)
	digits := whole.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := sign + "$" + b.String()
	if cents := amount.Sub(whole); !cents.IsZero() {
		out += fmt.Sprintf(",%02d", cents.Shift(2).IntPart())
	}
	return out
}
