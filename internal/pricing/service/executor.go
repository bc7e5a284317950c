package service

import (
	"context"
	"errors"

	"checkout_backend/internal/adapters/payment"
	"checkout_backend/internal/pricing/domain"
)

// PurchaseParams is a CalculateParams plus the processor to charge.
type PurchaseParams struct {
	CalculateParams
	Processor payment.Processor
}

// PaymentObserver is told about every charge attempt.
type PaymentObserver interface {
	PaymentSucceeded(ctx context.Context, params PurchaseParams, result domain.PurchaseResult)
	PaymentFailed(ctx context.Context, params PurchaseParams, quote domain.Quote, err error)
}

// Executor prices a purchase and charges the selected processor.
type Executor struct {
	calc     *Calculator
	paypal   payment.PayPalGateway
	stripe   payment.StripeGateway
	observer PaymentObserver
}

// NewExecutor creates an Executor.
func NewExecutor(calc *Calculator, paypal payment.PayPalGateway, stripe payment.StripeGateway) *Executor {
	return &Executor{calc: calc, paypal: paypal, stripe: stripe}
}

// SetObserver registers an observer for charge outcomes.
func (e *Executor) SetObserver(observer PaymentObserver) {
	e.observer = observer
}

// Execute quotes the purchase, then charges the quoted price. Nothing is
// charged when quoting fails, and no result is returned when the charge fails.
func (e *Executor) Execute(ctx context.Context, params PurchaseParams) (domain.PurchaseResult, error) {
	quote, err := e.calc.Calculate(ctx, params.CalculateParams)
	if err != nil {
		return domain.PurchaseResult{}, err
	}

	if err := e.charge(ctx, params.Processor, quote); err != nil {
		if e.observer != nil && errors.Is(err, domain.ErrPaymentFailed) {
			e.observer.PaymentFailed(ctx, params, quote, err)
		}
		return domain.PurchaseResult{}, err
	}

	result := domain.PurchaseResult{
		Quote:     quote,
		Processor: params.Processor.String(),
		Paid:      true,
	}
	if e.observer != nil {
		e.observer.PaymentSucceeded(ctx, params, result)
	}
	return result, nil
}

func (e *Executor) charge(ctx context.Context, processor payment.Processor, quote domain.Quote) error {
	switch processor {
	case payment.PayPal:
		if err := e.paypal.Pay(ctx, quote.Price); err != nil {
			return domain.PaymentFailed(processor.String(), err)
		}
		return nil
	case payment.Stripe:
		ok, err := e.stripe.ProcessPayment(ctx, quote.Price)
		if err != nil {
			return domain.PaymentFailed(processor.String(), err)
		}
		if !ok {
			return domain.PaymentFailed(processor.String(), nil)
		}
		return nil
	default:
		return domain.UnknownPaymentProcessor(processor.String())
	}
}
