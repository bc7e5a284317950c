// Package payment provides the two supported payment processors behind
// narrow gateway interfaces.
package payment

import (
	"context"
	"strings"

	"checkout_backend/internal/pricing/domain"

	"github.com/shopspring/decimal"
)

// Processor is the closed set of supported payment processors.
type Processor string

const (
	PayPal Processor = "paypal"
	Stripe Processor = "stripe"
)

// Processors lists every supported processor.
var Processors = []Processor{PayPal, Stripe}

// ParseProcessor is the only way to build a Processor from user input.
func ParseProcessor(value string) (Processor, error) {
	switch Processor(strings.TrimSpace(value)) {
	case PayPal:
		return PayPal, nil
	case Stripe:
		return Stripe, nil
	default:
		return "", domain.UnknownPaymentProcessor(value)
	}
}

func (p Processor) String() string { return string(p) }

// PayPalGateway charges through PayPal. A nil error means the charge went through.
type PayPalGateway interface {
	Pay(ctx context.Context, amount decimal.Decimal) error
}

// StripeGateway charges through Stripe and reports the outcome as a bool.
type StripeGateway interface {
	ProcessPayment(ctx context.Context, amount decimal.Decimal) (bool, error)
}
