package payment

import (
	"context"
	"errors"
	"testing"

	"checkout_backend/internal/pricing/domain"
	"checkout_backend/platform/logger"

	"github.com/shopspring/decimal"
)

func TestParseProcessor(t *testing.T) {
	for _, p := range Processors {
		got, err := ParseProcessor(string(p))
		if err != nil || got != p {
			t.Fatalf("expected %s, got %q (%v)", p, got, err)
		}
	}

	for _, raw := range []string{"", "PayPal", "bitcoin", "stripe2"} {
		if _, err := ParseProcessor(raw); !errors.Is(err, domain.ErrUnknownPaymentProcessor) {
			t.Fatalf("%q: expected ErrUnknownPaymentProcessor, got %v", raw, err)
		}
	}
}

func TestSandboxStripe_DeclinesBelowMinimum(t *testing.T) {
	stripe := NewSandboxStripe(logger.Nop())

	ok, err := stripe.ProcessPayment(context.Background(), decimal.RequireFromString("59.5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected decline below minimum")
	}

	ok, err = stripe.ProcessPayment(context.Background(), decimal.NewFromInt(100))
	if err != nil || !ok {
		t.Fatalf("expected acceptance at minimum, got %v (%v)", ok, err)
	}
}

func TestSandboxPayPal_AcceptsAndHonoursCancellation(t *testing.T) {
	paypal := NewSandboxPayPal(logger.Nop())

	if err := paypal.Pay(context.Background(), decimal.NewFromInt(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := paypal.Pay(ctx, decimal.NewFromInt(1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
