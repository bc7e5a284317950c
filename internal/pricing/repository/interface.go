package repository

import (
	"context"

	"checkout_backend/internal/pricing/domain"
	"checkout_backend/internal/pricing/seed"
)

// CreateTaxRuleParams contains data for creating a tax rule.
type CreateTaxRuleParams struct {
	Country string
	Percent int
	Prefix  string
	Pattern string
}

// SeedResult counts rows written by Seed.
type SeedResult struct {
	Products int `json:"products"`
	Coupons  int `json:"coupons"`
	TaxRules int `json:"taxRules"`
}

// Repository is the full persistence surface of the pricing module.
type Repository interface {
	FindProduct(ctx context.Context, id int64) (domain.Product, error)
	FindCouponByName(ctx context.Context, name string) (domain.Coupon, error)
	ListTaxRules(ctx context.Context) ([]domain.TaxRule, error)

	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	CreateTaxRule(ctx context.Context, params CreateTaxRuleParams) (domain.TaxRule, error)
	Seed(ctx context.Context, fixtures seed.Fixtures) (SeedResult, error)
}
