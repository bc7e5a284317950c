package service

import (
	"context"
	"errors"
	"sync"

	"checkout_backend/internal/pricing/domain"
	"checkout_backend/platform/events"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	products map[int64]domain.Product
	coupons  map[string]domain.Coupon
	rules    []domain.TaxRule

	productCalls int
	couponCalls  int
	ruleCalls    int
	err          error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[int64]domain.Product{
			1: {ID: 1, Name: "Iphone", Price: 100},
			2: {ID: 2, Name: "Headphones", Price: 20},
			3: {ID: 3, Name: "Case", Price: 10},
			4: {ID: 4, Name: "Cable", Price: 50},
		},
		coupons: map[string]domain.Coupon{
			"D15":   {ID: 1, Name: "D15", DiscountType: domain.DiscountPercent, DiscountValue: 15, Active: true},
			"P1000": {ID: 2, Name: "P1000", DiscountType: domain.DiscountFixed, DiscountValue: 1000, Active: true},
			"S10":   {ID: 3, Name: "S10", DiscountType: domain.DiscountPercent, DiscountValue: 10, Active: false},
			"BAD":   {ID: 4, Name: "BAD", DiscountType: domain.DiscountType("bogus"), DiscountValue: 1, Active: true},
		},
		rules: []domain.TaxRule{
			{ID: 1, Country: "Germany", Percent: 19, Prefix: "DE", Pattern: "XXXXXXXXX"},
			{ID: 2, Country: "Italy", Percent: 22, Prefix: "IT", Pattern: "XXXXXXXXXXX"},
			{ID: 3, Country: "France", Percent: 20, Prefix: "FR", Pattern: "YYXXXXXXXXX"},
		},
	}
}

func (f *fakeStore) FindProduct(_ context.Context, id int64) (domain.Product, error) {
	f.productCalls++
	if f.err != nil {
		return domain.Product{}, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, domain.ProductNotFound()
	}
	return p, nil
}

func (f *fakeStore) FindCouponByName(_ context.Context, name string) (domain.Coupon, error) {
	f.couponCalls++
	c, ok := f.coupons[name]
	if !ok {
		return domain.Coupon{}, domain.CouponNotFound()
	}
	return c, nil
}

func (f *fakeStore) ListTaxRules(context.Context) ([]domain.TaxRule, error) {
	f.ruleCalls++
	return f.rules, nil
}

type fakePayPal struct {
	calls   int
	charged decimal.Decimal
	err     error
}

func (p *fakePayPal) Pay(_ context.Context, amount decimal.Decimal) error {
	p.calls++
	p.charged = amount
	return p.err
}

type fakeStripe struct {
	calls  int
	accept bool
	err    error
}

func (s *fakeStripe) ProcessPayment(context.Context, decimal.Decimal) (bool, error) {
	s.calls++
	return s.accept, s.err
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]domain.Quote
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]domain.Quote{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (domain.Quote, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return domain.Quote{}, false, c.getErr
	}
	q, ok := c.entries[key]
	return q, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, quote domain.Quote) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = quote
	return nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

var errStoreDown = errors.New("connection refused")
