package service

import (
	"context"

	"checkout_backend/internal/pricing/domain"
)

// ProductStore loads products. Absent products yield domain.ErrProductNotFound.
type ProductStore interface {
	FindProduct(ctx context.Context, id int64) (domain.Product, error)
}

// CouponStore loads coupons by their unique name. Absent coupons yield
// domain.ErrCouponNotFound.
type CouponStore interface {
	FindCouponByName(ctx context.Context, name string) (domain.Coupon, error)
}

// TaxRuleStore lists every known tax rule in no particular order.
type TaxRuleStore interface {
	ListTaxRules(ctx context.Context) ([]domain.TaxRule, error)
}

// QuoteCache stores computed quotes by request key.
type QuoteCache interface {
	Get(ctx context.Context, key string) (domain.Quote, bool, error)
	Set(ctx context.Context, key string, quote domain.Quote) error
}
