package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ApplyDiscount subtracts a coupon's discount from price. The result never
// drops below zero, for either kind.
func ApplyDiscount(kind DiscountType, value int64, price decimal.Decimal) (decimal.Decimal, error) {
	var discounted decimal.Decimal
	switch kind {
	case DiscountFixed:
		discounted = price.Sub(decimal.NewFromInt(value))
	case DiscountPercent:
		discounted = price.Sub(price.Mul(decimal.NewFromInt(value)).Div(hundred))
	default:
		return decimal.Decimal{}, InvalidDiscountType(string(kind))
	}

	if discounted.IsNegative() {
		return decimal.Zero, nil
	}
	return discounted, nil
}

// ApplyTax adds percent of price on top of price. Zero or negative percents
// leave the price untouched.
func ApplyTax(price decimal.Decimal, percent int) decimal.Decimal {
	if percent <= 0 {
		return price
	}
	return price.Add(price.Mul(decimal.NewFromInt(int64(percent))).Div(hundred))
}

// RoundPrice rounds to cents, half away from zero.
func RoundPrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(2)
}
