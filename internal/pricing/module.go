// Package pricing provides the price calculation and purchase bounded context.
package pricing

import (
	"checkout_backend/internal/adapters/payment"
	"checkout_backend/internal/events"
	apphttp "checkout_backend/internal/http"
	"checkout_backend/internal/pricing/handler"
	"checkout_backend/internal/pricing/repository"
	"checkout_backend/internal/pricing/service"
	"checkout_backend/platform/config"
	"checkout_backend/platform/logger"
	"checkout_backend/platform/metrics"
	"checkout_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the pricing bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	admin   *handler.AdminHandler
	service *service.Service
	catalog *service.Catalog
	repo    repository.Repository
}

// NewModule creates and initializes the pricing module.
func NewModule(
	pool *pgxpool.Pool,
	paypal payment.PayPalGateway,
	stripe payment.StripeGateway,
	m *metrics.Pricing,
	val *validator.Validator,
	cfg config.PricingConfig,
	log *logger.Logger,
) *Module {
	return newModule(repository.New(pool), paypal, stripe, m, val, cfg, log)
}

func newModule(
	repo repository.Repository,
	paypal payment.PayPalGateway,
	stripe payment.StripeGateway,
	m *metrics.Pricing,
	val *validator.Validator,
	cfg config.PricingConfig,
	log *logger.Logger,
) *Module {
	calc := service.NewCalculator(repo, repo, repo, service.RequireActiveCoupon(cfg.GetCouponRequireActive()))
	exec := service.NewExecutor(calc, paypal, stripe)
	svc := service.New(calc, exec, m, log)
	catalog := service.NewCatalog(repo, log)

	return &Module{
		handler: handler.New(svc, val),
		admin:   handler.NewAdmin(catalog, val),
		service: svc,
		catalog: catalog,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "pricing"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Catalog returns the catalogue management service.
func (m *Module) Catalog() *service.Catalog {
	return m.catalog
}

// SetQuoteCache enables caching of quotes.
func (m *Module) SetQuoteCache(cache service.QuoteCache) {
	m.service.SetCache(cache)
}

// SetEventBus sets the bus purchase outcomes are published on.
func (m *Module) SetEventBus(bus events.Bus) {
	m.service.SetEventBus(bus)
}

// RegisterRoutes mounts pricing routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	purchase := []gin.HandlerFunc{m.handler.Purchase}
	if ctx.PurchaseRateLimiter != nil {
		purchase = []gin.HandlerFunc{ctx.PurchaseRateLimiter.RateLimit(), m.handler.Purchase}
	}

	// Public endpoints, served at the root and under /api/v1
	for _, group := range []gin.IRoutes{ctx.Engine, ctx.V1} {
		group.POST("/calculate-price", m.handler.CalculatePrice)
		group.POST("/purchase", purchase...)
	}

	if ctx.Admin == nil {
		return
	}
	ctx.Admin.POST("/seed", m.admin.Seed)
	ctx.Admin.GET("/products", m.admin.ListProducts)
	ctx.Admin.GET("/coupons", m.admin.ListCoupons)
	ctx.Admin.GET("/tax-rules", m.admin.ListTaxRules)
	ctx.Admin.POST("/tax-rules", m.admin.CreateTaxRule)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
