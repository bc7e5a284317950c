// Package service contains the pricing use cases: quoting and purchasing.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"checkout_backend/internal/events"
	"checkout_backend/internal/pricing/domain"
	"checkout_backend/platform/apperr"
	"checkout_backend/platform/logger"
	"checkout_backend/platform/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const quoteCacheKeyPrefix = "calculate_price:"

// Service is the entry point used by the HTTP layer.
type Service struct {
	calc    *Calculator
	exec    *Executor
	cache   QuoteCache
	bus     events.Bus
	metrics *metrics.Pricing
	log     *logger.Logger
	flight  singleflight.Group
}

// New creates a pricing service. The executor reports charge outcomes back
// to the service so they can be published as events.
func New(calc *Calculator, exec *Executor, m *metrics.Pricing, log *logger.Logger) *Service {
	s := &Service{
		calc:    calc,
		exec:    exec,
		metrics: m,
		log:     log,
	}
	exec.SetObserver(s)
	return s
}

// SetCache enables quote caching.
func (s *Service) SetCache(cache QuoteCache) {
	s.cache = cache
}

// SetEventBus sets the bus purchase events are published on.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// Quote prices a product, serving repeated identical requests from the cache
// when one is configured. Cache failures never fail the request.
func (s *Service) Quote(ctx context.Context, params CalculateParams) (domain.Quote, error) {
	if s.cache == nil {
		quote, err := s.calc.Calculate(ctx, params)
		s.observeQuote(err)
		return quote, err
	}

	key := quoteCacheKey(params)
	log := s.log.WithContext(ctx)

	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn("quote cache read failed", "error", err)
	} else if ok {
		s.metrics.CacheLookup.WithLabelValues("hit").Inc()
		s.observeQuote(nil)
		return cached, nil
	}
	s.metrics.CacheLookup.WithLabelValues("miss").Inc()

	// Shared work runs detached from the caller. Each caller stops waiting
	// only on its own cancellation.
	shared := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (interface{}, error) {
		if cached, ok, err := s.cache.Get(shared, key); err == nil && ok {
			return cached, nil
		}
		quote, err := s.calc.Calculate(shared, params)
		if err != nil {
			return domain.Quote{}, err
		}
		if err := s.cache.Set(shared, key, quote); err != nil {
			log.Warn("quote cache write failed", "error", err)
		}
		return quote, nil
	})

	select {
	case <-ctx.Done():
		s.observeQuote(ctx.Err())
		return domain.Quote{}, ctx.Err()
	case res := <-ch:
		s.observeQuote(res.Err)
		if res.Err != nil {
			return domain.Quote{}, res.Err
		}
		return res.Val.(domain.Quote), nil
	}
}

// Purchase prices and charges. Purchases are never cached.
func (s *Service) Purchase(ctx context.Context, params PurchaseParams) (domain.PurchaseResult, error) {
	result, err := s.exec.Execute(ctx, params)
	s.metrics.Purchases.WithLabelValues(params.Processor.String(), outcome(err)).Inc()
	if err != nil {
		s.log.WithContext(ctx).Info("purchase rejected",
			"product", params.ProductID, "processor", params.Processor.String(), "code", apperr.CodeOf(err), "error", err)
		return domain.PurchaseResult{}, err
	}
	return result, nil
}

// PaymentSucceeded implements PaymentObserver.
func (s *Service) PaymentSucceeded(ctx context.Context, params PurchaseParams, result domain.PurchaseResult) {
	s.log.WithContext(ctx).PaymentAttempt(params.Processor.String(), result.Price.StringFixed(2), true, "")
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.PurchaseCompleted{
		BaseEvent:   events.NewBaseEvent(),
		PurchaseID:  uuid.New(),
		ProductID:   params.ProductID,
		ProductName: result.ProductName,
		TaxNumber:   params.TaxNumber,
		CouponCode:  params.CouponCode,
		Processor:   params.Processor.String(),
		Price:       result.Price,
		TaxPercent:  result.TaxPercent,
	})
}

// PaymentFailed implements PaymentObserver.
func (s *Service) PaymentFailed(ctx context.Context, params PurchaseParams, quote domain.Quote, err error) {
	s.log.WithContext(ctx).PaymentAttempt(params.Processor.String(), quote.Price.StringFixed(2), false, err.Error())
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.PurchaseFailed{
		BaseEvent:   events.NewBaseEvent(),
		PurchaseID:  uuid.New(),
		ProductID:   params.ProductID,
		ProductName: quote.ProductName,
		TaxNumber:   params.TaxNumber,
		CouponCode:  params.CouponCode,
		Processor:   params.Processor.String(),
		Price:       quote.Price,
		TaxPercent:  quote.TaxPercent,
		Reason:      err.Error(),
	})
}

func (s *Service) observeQuote(err error) {
	s.metrics.Quotes.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := apperr.CodeOf(err); code != "" {
		return code
	}
	return "error"
}

// quoteCacheKey hashes the request so equal requests share a cache entry.
func quoteCacheKey(params CalculateParams) string {
	payload, _ := json.Marshal(params)
	sum := sha256.Sum256(payload)
	return quoteCacheKeyPrefix + hex.EncodeToString(sum[:])
}

var _ PaymentObserver = (*Service)(nil)
