package payment

import (
	"context"

	"checkout_backend/platform/logger"

	"github.com/shopspring/decimal"
)

// stripeMinimumCharge mirrors the vendor test processor, which declines any
// amount below 100.
var stripeMinimumCharge = decimal.NewFromInt(100)

// SandboxPayPal accepts every charge.
type SandboxPayPal struct {
	log *logger.Logger
}

// NewSandboxPayPal creates a PayPal gateway for non-production use.
func NewSandboxPayPal(log *logger.Logger) *SandboxPayPal {
	return &SandboxPayPal{log: log}
}

// Pay implements PayPalGateway.
func (p *SandboxPayPal) Pay(ctx context.Context, amount decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.log.WithContext(ctx).Debug("sandbox paypal charge", "amount", amount.StringFixed(2))
	return nil
}

// SandboxStripe declines amounts under the vendor minimum.
type SandboxStripe struct {
	log *logger.Logger
}

// NewSandboxStripe creates a Stripe gateway for non-production use.
func NewSandboxStripe(log *logger.Logger) *SandboxStripe {
	return &SandboxStripe{log: log}
}

// ProcessPayment implements StripeGateway.
func (s *SandboxStripe) ProcessPayment(ctx context.Context, amount decimal.Decimal) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	accepted := !amount.LessThan(stripeMinimumCharge)
	s.log.WithContext(ctx).Debug("sandbox stripe charge", "amount", amount.StringFixed(2), "accepted", accepted)
	return accepted, nil
}

var (
	_ PayPalGateway = (*SandboxPayPal)(nil)
	_ StripeGateway = (*SandboxStripe)(nil)
)
