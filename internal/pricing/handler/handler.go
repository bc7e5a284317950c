package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"checkout_backend/internal/adapters/payment"
	"checkout_backend/internal/pricing/domain"
	"checkout_backend/internal/pricing/service"
	"checkout_backend/internal/pricing/transport"
	"checkout_backend/platform/httpkit"
	"checkout_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "invalid request"
)

// Pricer is the pricing use case surface the handler needs.
type Pricer interface {
	Quote(ctx context.Context, params service.CalculateParams) (domain.Quote, error)
	Purchase(ctx context.Context, params service.PurchaseParams) (domain.PurchaseResult, error)
}

// Handler handles the public pricing endpoints.
type Handler struct {
	svc Pricer
	val *validator.Validator
}

// New creates a new pricing handler.
func New(svc Pricer, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CalculatePrice quotes the final price.
// POST /calculate-price
func (h *Handler) CalculatePrice(c *gin.Context) {
	var req transport.CalculatePriceRequest
	if !bindAndValidate(c, h.val, &req) {
		return
	}

	quote, err := h.svc.Quote(c.Request.Context(), service.CalculateParams{
		ProductID:  req.Product,
		TaxNumber:  req.TaxNumber,
		CouponCode: req.CouponCode,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewQuoteResponse(quote))
}

// Purchase quotes and charges the chosen processor.
// POST /purchase
func (h *Handler) Purchase(c *gin.Context) {
	var req transport.PurchaseRequest
	if !bindAndValidate(c, h.val, &req) {
		return
	}

	processor, err := payment.ParseProcessor(req.PaymentProcessor)
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.Purchase(c.Request.Context(), service.PurchaseParams{
		CalculateParams: service.CalculateParams{
			ProductID:  req.Product,
			TaxNumber:  req.TaxNumber,
			CouponCode: req.CouponCode,
		},
		Processor: processor,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewPurchaseResponse(result))
}

// bindAndValidate decodes the JSON body into req. A field of the wrong JSON
// type is a validation failure like any other; an unreadable body is a 400.
func bindAndValidate(c *gin.Context, val *validator.Validator, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			httpkit.ValidationError(c, []string{fmt.Sprintf("%s has an invalid type, expected %s", typeErr.Field, jsonKind(typeErr.Type.Kind().String()))})
			return false
		}
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := val.Struct(req); err != nil {
		httpkit.ValidationError(c, validator.Messages(err))
		return false
	}
	return true
}

func jsonKind(goKind string) string {
	switch goKind {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return "integer"
	case "float32", "float64":
		return "number"
	case "bool":
		return "boolean"
	default:
		return goKind
	}
}
