package pricing

import (
	"github.com/shopspring/decimal"
)

// DiscountResult bundles the amounts of a discounted charge.
// Invariant: Total = max(0, Subtotal - DiscountAmount), never negative.
type DiscountResult struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
}

// ApplyDiscount applies a percentage (of the subtotal) or absolute discount.
// A discount <= 0 is ignored rather than treated as a surcharge, and a
// discount larger than the subtotal clamps the total at zero.
func ApplyDiscount(subtotal, discount decimal.Decimal, isPercentage bool) DiscountResult {
	discountAmount := decimal.Zero

	if discount.IsPositive() {
		if isPercentage {
			discountAmount = subtotal.Mul(discount).Div(hundred)
		} else {
			discountAmount = discount
		}
	}

	total := subtotal.Sub(discountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return DiscountResult{
		Subtotal:       subtotal.Round(2),
		DiscountAmount: discountAmount.Round(2),
		Total:          total.Round(2),
	}
}
