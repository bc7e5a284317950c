// Package purchases provides the purchases ledger bounded context module.
package purchases

import (
	"context"

	"checkout_backend/internal/events"
	apphttp "checkout_backend/internal/http"
	"checkout_backend/internal/purchases/handler"
	"checkout_backend/internal/purchases/repository"
	"checkout_backend/internal/purchases/service"
	"checkout_backend/platform/logger"
	"checkout_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the purchases bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the purchases module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "purchases"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the admin ledger routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if ctx.Admin == nil {
		return
	}
	ctx.Admin.GET("/purchases", m.handler.List)
	ctx.Admin.GET("/purchases/:id/receipt", m.handler.Receipt)
}

// RegisterHandlers subscribes to pricing purchase outcomes.
func (m *Module) RegisterHandlers(bus events.Subscriber) {
	bus.Subscribe(events.PurchaseCompleted{}.EventName(), m)
	bus.Subscribe(events.PurchaseFailed{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	payload, ok := service.PayloadFromEvent(event)
	if !ok {
		return nil
	}
	return m.service.Dispatch(ctx, payload)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
