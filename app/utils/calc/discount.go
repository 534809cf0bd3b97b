package calc

import "github.com/shopspring/decimal"

func CalculateDiscount(price, discountPercent decimal.Decimal) decimal.Decimal {
	return price.Mul(discountPercent).Div(decimal.NewFromInt(100))
}

// FinalPrice applies a percentage discount to a unit price. Rounding to
// 2 decimal places happens only at formatting boundaries, not here.
func FinalPrice(price, discountPercent decimal.Decimal) decimal.Decimal {
	if discountPercent.IsZero() {
		return price
	}
	return price.Sub(CalculateDiscount(price, discountPercent))
}

func Subtotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}
