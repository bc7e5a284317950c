package handler

import (
	"context"

	"checkout_backend/internal/pricing/domain"
	"checkout_backend/internal/pricing/repository"
	"checkout_backend/internal/pricing/transport"
	"checkout_backend/platform/httpkit"
	"checkout_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// CatalogAdmin is the catalogue management surface.
type CatalogAdmin interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	ListTaxRules(ctx context.Context) ([]domain.TaxRule, error)
	CreateTaxRule(ctx context.Context, params repository.CreateTaxRuleParams) (domain.TaxRule, error)
	SeedDefaults(ctx context.Context) (repository.SeedResult, error)
}

// AdminHandler serves the catalogue management endpoints.
type AdminHandler struct {
	catalog CatalogAdmin
	val     *validator.Validator
}

// NewAdmin creates an AdminHandler.
func NewAdmin(catalog CatalogAdmin, val *validator.Validator) *AdminHandler {
	return &AdminHandler{catalog: catalog, val: val}
}

// Seed loads the demo fixtures.
// POST /api/v1/admin/seed
func (h *AdminHandler) Seed(c *gin.Context) {
	result, err := h.catalog.SeedDefaults(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListProducts returns every product.
// GET /api/v1/admin/products
func (h *AdminHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	items := make([]transport.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, transport.NewProductResponse(p))
	}
	httpkit.OK(c, gin.H{"items": items})
}

// ListCoupons returns every coupon.
// GET /api/v1/admin/coupons
func (h *AdminHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.catalog.ListCoupons(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	items := make([]transport.CouponResponse, 0, len(coupons))
	for _, cp := range coupons {
		items = append(items, transport.NewCouponResponse(cp))
	}
	httpkit.OK(c, gin.H{"items": items})
}

// ListTaxRules returns every tax rule.
// GET /api/v1/admin/tax-rules
func (h *AdminHandler) ListTaxRules(c *gin.Context) {
	rules, err := h.catalog.ListTaxRules(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	items := make([]transport.TaxRuleResponse, 0, len(rules))
	for _, r := range rules {
		items = append(items, transport.NewTaxRuleResponse(r))
	}
	httpkit.OK(c, gin.H{"items": items})
}

// CreateTaxRule adds a tax rule.
// POST /api/v1/admin/tax-rules
func (h *AdminHandler) CreateTaxRule(c *gin.Context) {
	var req transport.CreateTaxRuleRequest
	if !bindAndValidate(c, h.val, &req) {
		return
	}

	rule, err := h.catalog.CreateTaxRule(c.Request.Context(), repository.CreateTaxRuleParams{
		Country: req.Country,
		Percent: *req.Percent,
		Prefix:  req.Prefix,
		Pattern: req.Pattern,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.NewTaxRuleResponse(rule))
}
