package service

import (
	"context"

	"checkout_backend/internal/pricing/domain"
	"checkout_backend/internal/pricing/repository"
	"checkout_backend/internal/pricing/seed"
	"checkout_backend/platform/apperr"
	"checkout_backend/platform/logger"
	"checkout_backend/platform/sanitize"
)

const (
	msgInvalidPattern = "pattern may only contain X, Y, letters and digits"
	msgEmptyCountry   = "country is required"
)

// CatalogRepository is the subset of the repository used for administration.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	ListTaxRules(ctx context.Context) ([]domain.TaxRule, error)
	CreateTaxRule(ctx context.Context, params repository.CreateTaxRuleParams) (domain.TaxRule, error)
	Seed(ctx context.Context, fixtures seed.Fixtures) (repository.SeedResult, error)
}

// Catalog manages products, coupons and tax rules.
type Catalog struct {
	repo CatalogRepository
	log  *logger.Logger
}

// NewCatalog creates a Catalog.
func NewCatalog(repo CatalogRepository, log *logger.Logger) *Catalog {
	return &Catalog{repo: repo, log: log}
}

func (c *Catalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.repo.ListProducts(ctx)
}

func (c *Catalog) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	return c.repo.ListCoupons(ctx)
}

func (c *Catalog) ListTaxRules(ctx context.Context) ([]domain.TaxRule, error) {
	return c.repo.ListTaxRules(ctx)
}

// CreateTaxRule validates the pattern before storing the rule.
func (c *Catalog) CreateTaxRule(ctx context.Context, params repository.CreateTaxRuleParams) (domain.TaxRule, error) {
	params.Country = sanitize.Text(params.Country)
	if params.Country == "" {
		return domain.TaxRule{}, apperr.Validation(msgEmptyCountry).WithDetails([]string{msgEmptyCountry})
	}
	if !domain.ValidPattern(params.Pattern) {
		return domain.TaxRule{}, apperr.Validation(msgInvalidPattern).WithDetails([]string{msgInvalidPattern})
	}

	rule, err := c.repo.CreateTaxRule(ctx, params)
	if err != nil {
		return domain.TaxRule{}, err
	}
	c.log.WithContext(ctx).Info("tax rule created", "id", rule.ID, "country", rule.Country, "percent", rule.Percent)
	return rule, nil
}

// SeedDefaults loads the built-in demo fixtures.
func (c *Catalog) SeedDefaults(ctx context.Context) (repository.SeedResult, error) {
	fixtures, err := seed.Default()
	if err != nil {
		return repository.SeedResult{}, err
	}
	return c.Seed(ctx, fixtures)
}

// Seed upserts the given fixtures.
func (c *Catalog) Seed(ctx context.Context, fixtures seed.Fixtures) (repository.SeedResult, error) {
	result, err := c.repo.Seed(ctx, fixtures)
	if err != nil {
		return repository.SeedResult{}, err
	}
	c.log.WithContext(ctx).Info("catalogue seeded",
		"products", result.Products, "coupons", result.Coupons, "taxRules", result.TaxRules)
	return result, nil
}
