// Package domain holds the pricing core: tax-number matching, discount and
// tax application, and the entities they operate on.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType is the closed set of coupon discount kinds.
type DiscountType string

const (
	DiscountFixed   DiscountType = "fixed"
	DiscountPercent DiscountType = "percent"
)

// ParseDiscountType converts a stored or submitted value into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	switch DiscountType(strings.TrimSpace(value)) {
	case DiscountFixed:
		return DiscountFixed, nil
	case DiscountPercent:
		return DiscountPercent, nil
	default:
		return "", InvalidDiscountType(value)
	}
}

// Product is a purchasable item. Price is in whole currency units.
type Product struct {
	ID    int64
	Name  string
	Price int64
}

// Coupon is a named discount.
type Coupon struct {
	ID            int64
	Name          string
	DiscountType  DiscountType
	DiscountValue int64
	Active        bool
}

// TaxRule maps tax numbers of one country to its tax percent.
// Pattern uses X for a digit and Y for an uppercase letter.
type TaxRule struct {
	ID      int64
	Country string
	Percent int
	Prefix  string
	Pattern string
}

// Quote is the priced result before any payment.
type Quote struct {
	ProductName string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	TaxPercent  int             `json:"tax"`
}

// PurchaseResult is a Quote whose payment went through.
type PurchaseResult struct {
	Quote
	Processor string `json:"processor"`
	Paid      bool   `json:"paid"`
}
