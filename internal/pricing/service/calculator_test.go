package service

import (
	"context"
	"errors"
	"testing"

	"checkout_backend/internal/pricing/domain"
	"checkout_backend/platform/apperr"

	"github.com/shopspring/decimal"
)

func TestCalculate_PercentCouponAndGermanTax(t *testing.T) {
	store := newFakeStore()
	calc := NewCalculator(store, store, store)

	quote, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "DE123456789", CouponCode: "D15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.ProductName != "Iphone" {
		t.Fatalf("expected Iphone, got %s", quote.ProductName)
	}
	if !quote.Price.Equal(decimal.RequireFromString("101.15")) {
		t.Fatalf("expected price 101.15, got %s", quote.Price)
	}
	if quote.TaxPercent != 19 {
		t.Fatalf("expected tax 19, got %d", quote.TaxPercent)
	}
}

func TestCalculate_NoCoupon(t *testing.T) {
	store := newFakeStore()
	calc := NewCalculator(store, store, store)

	quote, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "DE123456789"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Price.Equal(decimal.NewFromInt(119)) {
		t.Fatalf("expected price 119, got %s", quote.Price)
	}
	if store.couponCalls != 0 {
		t.Fatalf("expected no coupon lookup, got %d", store.couponCalls)
	}
}

func TestCalculate_FixedCouponFloorsAtZeroBeforeTax(t *testing.T) {
	store := newFakeStore()
	calc := NewCalculator(store, store, store)

	quote, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "IT12345678900", CouponCode: "P1000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Price.IsZero() {
		t.Fatalf("expected price 0, got %s", quote.Price)
	}
	if quote.TaxPercent != 22 {
		t.Fatalf("expected tax 22, got %d", quote.TaxPercent)
	}
}

func TestCalculate_RoundsFinalPriceToCents(t *testing.T) {
	store := newFakeStore()
	store.coupons["D15"] = domain.Coupon{Name: "D15", DiscountType: domain.DiscountPercent, DiscountValue: 15, Active: true}
	calc := NewCalculator(store, store, store)

	// 10 * 0.85 = 8.5, 8.5 * 1.19 = 10.115
	quote, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 3, TaxNumber: "DE123456789", CouponCode: "D15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Price.Equal(decimal.RequireFromString("10.12")) {
		t.Fatalf("expected 10.12, got %s", quote.Price)
	}
}

func TestCalculate_ProductNotFound(t *testing.T) {
	store := newFakeStore()
	calc := NewCalculator(store, store, store)

	_, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 99, TaxNumber: "DE123456789", CouponCode: "D15"})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if store.couponCalls != 0 || store.ruleCalls != 0 {
		t.Fatalf("expected fail-fast before coupon and tax lookups")
	}
}

func TestCalculate_CouponNotFound(t *testing.T) {
	store := newFakeStore()
	calc := NewCalculator(store, store, store)

	_, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "DE123456789", CouponCode: "NOPE"})
	if !errors.Is(err, domain.ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
	if store.ruleCalls != 0 {
		t.Fatalf("expected tax rules not to be loaded")
	}
}

func TestCalculate_InactiveCouponAppliesByDefault(t *testing.T) {
	store := newFakeStore()
	calc := NewCalculator(store, store, store)

	quote, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "DE123456789", CouponCode: "S10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100 * 0.9 * 1.19
	if !quote.Price.Equal(decimal.RequireFromString("107.1")) {
		t.Fatalf("expected 107.1, got %s", quote.Price)
	}
}

func TestCalculate_InactiveCouponRejectedWhenRequired(t *testing.T) {
	store := newFakeStore()
	calc := NewCalculator(store, store, store, RequireActiveCoupon(true))

	_, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "DE123456789", CouponCode: "S10"})
	if !errors.Is(err, domain.ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
}

func TestCalculate_InvalidDiscountTypePropagates(t *testing.T) {
	store := newFakeStore()
	calc := NewCalculator(store, store, store)

	_, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "DE123456789", CouponCode: "BAD"})
	if !errors.Is(err, domain.ErrInvalidDiscountType) {
		t.Fatalf("expected ErrInvalidDiscountType, got %v", err)
	}
}

func TestCalculate_UnrecognizedTaxNumberFailsWithOrWithoutCoupon(t *testing.T) {
	store := newFakeStore()
	calc := NewCalculator(store, store, store)

	for _, coupon := range []string{"", "D15"} {
		_, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "IT12345678900+-", CouponCode: coupon})
		if !errors.Is(err, domain.ErrTaxNumberNotRecognized) {
			t.Fatalf("coupon %q: expected ErrTaxNumberNotRecognized, got %v", coupon, err)
		}
	}
}

func TestCalculate_ZeroPercentRuleLeavesPrice(t *testing.T) {
	store := newFakeStore()
	store.rules = append(store.rules, domain.TaxRule{ID: 9, Country: "Freeland", Percent: 0, Prefix: "FL", Pattern: "XXX"})
	calc := NewCalculator(store, store, store)

	quote, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "FL123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Price.Equal(decimal.NewFromInt(100)) || quote.TaxPercent != 0 {
		t.Fatalf("expected 100 at 0%%, got %s at %d%%", quote.Price, quote.TaxPercent)
	}
}

func TestCalculate_StoreFailureIsWrapped(t *testing.T) {
	store := newFakeStore()
	store.err = errStoreDown
	calc := NewCalculator(store, store, store)

	_, err := calc.Calculate(context.Background(), CalculateParams{ProductID: 1, TaxNumber: "DE123456789"})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if apperr.CodeOf(err) != "" {
		t.Fatalf("expected no domain code on infrastructure error, got %q", apperr.CodeOf(err))
	}
}
