package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"checkout_backend/internal/adapters/payment"
	"checkout_backend/internal/events"
	"checkout_backend/internal/pricing/domain"
	"checkout_backend/platform/logger"
	"checkout_backend/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestService(store *fakeStore) (*Service, *fakeStripe, *recordingBus, *metrics.Pricing) {
	stripe := &fakeStripe{accept: true}
	exec := NewExecutor(NewCalculator(store, store, store), &fakePayPal{}, stripe)
	m := metrics.NewPricing(nil)
	svc := New(NewCalculator(store, store, store), exec, m, logger.Nop())
	bus := &recordingBus{}
	svc.SetEventBus(bus)
	return svc, stripe, bus, m
}

func TestQuote_CachesResults(t *testing.T) {
	store := newFakeStore()
	svc, _, _, m := newTestService(store)
	cache := newFakeCache()
	svc.SetCache(cache)

	params := CalculateParams{ProductID: 1, TaxNumber: "DE123456789", CouponCode: "D15"}
	first, err := svc.Quote(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Quote(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Price.Equal(second.Price) || first.ProductName != second.ProductName {
		t.Fatalf("expected identical quotes, got %+v and %+v", first, second)
	}
	if store.productCalls != 1 {
		t.Fatalf("expected one product lookup, got %d", store.productCalls)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
	if got := testutil.ToFloat64(m.CacheLookup.WithLabelValues("hit")); got != 1 {
		t.Fatalf("expected one cache hit, got %v", got)
	}
}

func TestQuote_DoesNotCacheErrors(t *testing.T) {
	store := newFakeStore()
	svc, _, _, m := newTestService(store)
	cache := newFakeCache()
	svc.SetCache(cache)

	_, err := svc.Quote(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "ZZ1"})
	if !errors.Is(err, domain.ErrTaxNumberNotRecognized) {
		t.Fatalf("expected ErrTaxNumberNotRecognized, got %v", err)
	}
	if cache.sets != 0 {
		t.Fatalf("expected no cache write on error")
	}
	if got := testutil.ToFloat64(m.Quotes.WithLabelValues(domain.CodeTaxNumberNotRecognized)); got != 1 {
		t.Fatalf("expected one failed quote metric, got %v", got)
	}
}

func TestQuote_CacheReadFailureFallsBackToCalculation(t *testing.T) {
	store := newFakeStore()
	svc, _, _, _ := newTestService(store)
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	svc.SetCache(cache)

	quote, err := svc.Quote(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "DE123456789"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TaxPercent != 19 {
		t.Fatalf("expected tax 19, got %d", quote.TaxPercent)
	}
}

func TestQuoteCacheKey_DistinguishesRequests(t *testing.T) {
	a := quoteCacheKey(CalculateParams{ProductID: 1, TaxNumber: "DE123456789"})
	b := quoteCacheKey(CalculateParams{ProductID: 1, TaxNumber: "DE123456789", CouponCode: "D15"})
	c := quoteCacheKey(CalculateParams{ProductID: 1, TaxNumber: "DE123456789"})

	if a == b {
		t.Fatalf("expected different keys for different coupons")
	}
	if a != c {
		t.Fatalf("expected equal keys for equal requests")
	}
}

func TestPurchase_PublishesCompletedEvent(t *testing.T) {
	svc, _, bus, m := newTestService(newFakeStore())

	_, err := svc.Purchase(context.Background(), PurchaseParams{
		CalculateParams: CalculateParams{ProductID: 1, TaxNumber: "DE123456789", CouponCode: "D15"},
		Processor:       payment.Stripe,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.events))
	}
	completed, ok := bus.events[0].(events.PurchaseCompleted)
	if !ok {
		t.Fatalf("expected PurchaseCompleted, got %T", bus.events[0])
	}
	if completed.CouponCode != "D15" || completed.Processor != "stripe" || completed.Price.String() != "101.15" {
		t.Fatalf("unexpected event payload: %+v", completed)
	}
	if got := testutil.ToFloat64(m.Purchases.WithLabelValues("stripe", "ok")); got != 1 {
		t.Fatalf("expected one ok purchase metric, got %v", got)
	}
}

func TestPurchase_PublishesFailedEventOnDecline(t *testing.T) {
	svc, stripe, bus, _ := newTestService(newFakeStore())
	stripe.accept = false

	_, err := svc.Purchase(context.Background(), PurchaseParams{
		CalculateParams: CalculateParams{ProductID: 4, TaxNumber: "DE123456789"},
		Processor:       payment.Stripe,
	})
	if !errors.Is(err, domain.ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.events))
	}
	if _, ok := bus.events[0].(events.PurchaseFailed); !ok {
		t.Fatalf("expected PurchaseFailed, got %T", bus.events[0])
	}
}

func TestPurchase_IsNeverCached(t *testing.T) {
	store := newFakeStore()
	svc, stripe, _, _ := newTestService(store)
	svc.SetCache(newFakeCache())

	params := PurchaseParams{
		CalculateParams: CalculateParams{ProductID: 1, TaxNumber: "DE123456789"},
		Processor:       payment.Stripe,
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.Purchase(context.Background(), params); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if stripe.calls != 2 {
		t.Fatalf("expected each purchase to charge, got %d charges", stripe.calls)
	}
}

// gatedProducts blocks product lookups until released or until the lookup
// context is cancelled.
type gatedProducts struct {
	inner   *fakeStore
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func newGatedProducts(inner *fakeStore) *gatedProducts {
	return &gatedProducts{
		inner:   inner,
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (g *gatedProducts) FindProduct(ctx context.Context, id int64) (domain.Product, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	select {
	case g.entered <- struct{}{}:
	default:
	}

	select {
	case <-g.release:
	case <-ctx.Done():
		return domain.Product{}, ctx.Err()
	}
	p, ok := g.inner.products[id]
	if !ok {
		return domain.Product{}, domain.ProductNotFound()
	}
	return p, nil
}

func (g *gatedProducts) lookups() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newGatedService(products *gatedProducts) *Service {
	store := products.inner
	calc := NewCalculator(products, store, store)
	svc := New(calc, NewExecutor(calc, &fakePayPal{}, &fakeStripe{accept: true}), metrics.NewPricing(nil), logger.Nop())
	svc.SetCache(newFakeCache())
	return svc
}

type quoteResult struct {
	quote domain.Quote
	err   error
}

func TestQuote_CoalescesConcurrentIdenticalRequests(t *testing.T) {
	products := newGatedProducts(newFakeStore())
	svc := newGatedService(products)
	params := CalculateParams{ProductID: 1, TaxNumber: "DE123456789"}

	const callers = 8
	results := make(chan quoteResult, callers)
	for i := 0; i < callers; i++ {
		go func() {
			q, err := svc.Quote(context.Background(), params)
			results <- quoteResult{quote: q, err: err}
		}()
	}

	<-products.entered
	close(products.release)

	for i := 0; i < callers; i++ {
		res := <-results
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if res.quote.Price.String() != "119" {
			t.Fatalf("expected price 119, got %s", res.quote.Price)
		}
	}
	if got := products.lookups(); got != 1 {
		t.Fatalf("expected one product lookup for %d callers, got %d", callers, got)
	}
}

func TestQuote_CancelledCallerDoesNotFailOthers(t *testing.T) {
	products := newGatedProducts(newFakeStore())
	svc := newGatedService(products)
	params := CalculateParams{ProductID: 1, TaxNumber: "DE123456789"}

	firstCtx, cancel := context.WithCancel(context.Background())
	first := make(chan quoteResult, 1)
	go func() {
		q, err := svc.Quote(firstCtx, params)
		first <- quoteResult{quote: q, err: err}
	}()

	<-products.entered
	cancel()

	res := <-first
	if !errors.Is(res.err, context.Canceled) {
		t.Fatalf("expected cancelled caller to get context.Canceled, got %v", res.err)
	}

	second := make(chan quoteResult, 1)
	go func() {
		q, err := svc.Quote(context.Background(), params)
		second <- quoteResult{quote: q, err: err}
	}()
	close(products.release)

	select {
	case res = <-second:
	case <-time.After(5 * time.Second):
		t.Fatalf("caller with a live context never completed")
	}
	if res.err != nil {
		t.Fatalf("caller with a live context got err=%v", res.err)
	}
	if res.quote.Price.String() != "119" {
		t.Fatalf("expected price 119, got %s", res.quote.Price)
	}
	if got := products.lookups(); got != 1 {
		t.Fatalf("expected the shared lookup to be reused, got %d lookups", got)
	}
}
