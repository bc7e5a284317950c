package service

import (
	"context"
	"fmt"

	"checkout_backend/internal/pricing/domain"
	"checkout_backend/platform/apperr"

	"github.com/shopspring/decimal"
)

// CalculateParams identifies what to price.
type CalculateParams struct {
	ProductID  int64  `json:"product"`
	TaxNumber  string `json:"taxNumber"`
	CouponCode string `json:"couponCode,omitempty"`
}

// Calculator prices a product for a tax number and optional coupon.
type Calculator struct {
	products ProductStore
	coupons  CouponStore
	taxRules TaxRuleStore

	requireActiveCoupon bool
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// RequireActiveCoupon makes inactive coupons behave as if they did not exist.
// Off by default: coupons are looked up by name only.
func RequireActiveCoupon(enabled bool) CalculatorOption {
	return func(c *Calculator) { c.requireActiveCoupon = enabled }
}

// NewCalculator creates a Calculator over the given stores.
func NewCalculator(products ProductStore, coupons CouponStore, taxRules TaxRuleStore, opts ...CalculatorOption) *Calculator {
	c := &Calculator{products: products, coupons: coupons, taxRules: taxRules}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate runs product lookup, coupon discount, tax rule resolution and
// tax application in that order. The tax rule is resolved even without a
// coupon, so an unknown tax number always fails.
func (c *Calculator) Calculate(ctx context.Context, params CalculateParams) (domain.Quote, error) {
	product, err := c.products.FindProduct(ctx, params.ProductID)
	if err != nil {
		return domain.Quote{}, lookupError("find product", err)
	}

	price := decimal.NewFromInt(product.Price)

	if params.CouponCode != "" {
		coupon, err := c.coupons.FindCouponByName(ctx, params.CouponCode)
		if err != nil {
			return domain.Quote{}, lookupError("find coupon", err)
		}
		if c.requireActiveCoupon && !coupon.Active {
			return domain.Quote{}, domain.CouponNotFound()
		}

		price, err = domain.ApplyDiscount(coupon.DiscountType, coupon.DiscountValue, price)
		if err != nil {
			return domain.Quote{}, err
		}
	}

	rules, err := c.taxRules.ListTaxRules(ctx)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("list tax rules: %w", err)
	}

	rule, err := domain.MatchTaxRule(params.TaxNumber, rules)
	if err != nil {
		return domain.Quote{}, err
	}

	return domain.Quote{
		ProductName: product.Name,
		Price:       domain.RoundPrice(domain.ApplyTax(price, rule.Percent)),
		TaxPercent:  rule.Percent,
	}, nil
}

// lookupError passes domain errors through and wraps infrastructure ones.
func lookupError(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
