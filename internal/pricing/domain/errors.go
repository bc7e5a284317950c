package domain

import "checkout_backend/platform/apperr"

// Stable error codes exposed to callers.
const (
	CodeProductNotFound         = "product_not_found"
	CodeCouponNotFound          = "coupon_not_found"
	CodeInvalidDiscountType     = "invalid_discount_type"
	CodeTaxNumberNotRecognized  = "tax_number_not_recognized"
	CodeUnknownPaymentProcessor = "unknown_payment_processor"
	CodePaymentFailed           = "payment_failed"
)

// Sentinels for errors.Is. Never return these directly; use the constructors.
var (
	ErrProductNotFound         = apperr.Coded(apperr.KindBadRequest, CodeProductNotFound, "product not found")
	ErrCouponNotFound          = apperr.Coded(apperr.KindBadRequest, CodeCouponNotFound, "coupon not found")
	ErrInvalidDiscountType     = apperr.Coded(apperr.KindBadRequest, CodeInvalidDiscountType, "invalid discount type")
	ErrTaxNumberNotRecognized  = apperr.Coded(apperr.KindBadRequest, CodeTaxNumberNotRecognized, "tax number does not match any known format")
	ErrUnknownPaymentProcessor = apperr.Coded(apperr.KindBadRequest, CodeUnknownPaymentProcessor, "unknown payment processor")
	ErrPaymentFailed           = apperr.Coded(apperr.KindBadRequest, CodePaymentFailed, "payment failed")
)

func ProductNotFound() *apperr.Error {
	return ErrProductNotFound.Clone()
}

func CouponNotFound() *apperr.Error {
	return ErrCouponNotFound.Clone()
}

// InvalidDiscountType reports the offending value in the error details.
func InvalidDiscountType(value string) *apperr.Error {
	return ErrInvalidDiscountType.Clone().WithDetails(map[string]string{"discountType": value})
}

func TaxNumberNotRecognized() *apperr.Error {
	return ErrTaxNumberNotRecognized.Clone()
}

func UnknownPaymentProcessor(value string) *apperr.Error {
	return ErrUnknownPaymentProcessor.Clone().WithDetails(map[string]string{"paymentProcessor": value})
}

// PaymentFailed names the processor in the message and keeps the cause.
func PaymentFailed(processor string, cause error) *apperr.Error {
	e := ErrPaymentFailed.Clone()
	e.Message = "payment via " + processor + " failed"
	if cause != nil {
		e.WithCause(cause)
	}
	return e
}
