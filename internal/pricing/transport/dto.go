package transport

import (
	"encoding/json"

	"checkout_backend/internal/pricing/domain"
)

// PaymentSucceededMessage is returned in the pay field of a successful purchase.
const PaymentSucceededMessage = "payment succeeded"

// CalculatePriceRequest is the body of POST /calculate-price.
type CalculatePriceRequest struct {
	Product    int64  `json:"product" validate:"required,gt=0"`
	TaxNumber  string `json:"taxNumber" validate:"required,alphanum,max=64"`
	CouponCode string `json:"couponCode" validate:"omitempty,alphanum,max=64"`
}

// PurchaseRequest is the body of POST /purchase.
type PurchaseRequest struct {
	Product          int64  `json:"product" validate:"required,gt=0"`
	TaxNumber        string `json:"taxNumber" validate:"required,alphanum,max=64"`
	CouponCode       string `json:"couponCode" validate:"omitempty,alphanum,max=64"`
	PaymentProcessor string `json:"paymentProcessor" validate:"required,oneof=paypal stripe"`
}

// QuoteResponse is the priced result.
type QuoteResponse struct {
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
	Tax   int         `json:"tax"`
}

// PurchaseResponse is a QuoteResponse plus the payment marker.
type PurchaseResponse struct {
	QuoteResponse
	Pay string `json:"pay"`
}

// NewQuoteResponse renders the price as a plain JSON number.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		Name:  q.ProductName,
		Price: json.Number(q.Price.String()),
		Tax:   q.TaxPercent,
	}
}

// NewPurchaseResponse renders a paid purchase.
func NewPurchaseResponse(r domain.PurchaseResult) PurchaseResponse {
	return PurchaseResponse{
		QuoteResponse: NewQuoteResponse(r.Quote),
		Pay:           PaymentSucceededMessage,
	}
}

// CreateTaxRuleRequest is the body of POST /admin/tax-rules.
type CreateTaxRuleRequest struct {
	Country string `json:"country" validate:"required,max=100"`
	Percent *int   `json:"percent" validate:"required,gte=0,lte=100"`
	Prefix  string `json:"prefix" validate:"required,alphanum,max=8"`
	Pattern string `json:"pattern" validate:"required,max=64"`
}

type ProductResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type CouponResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	DiscountType  string `json:"discountType"`
	DiscountValue int64  `json:"discountValue"`
	Active        bool   `json:"active"`
}

type TaxRuleResponse struct {
	ID      int64  `json:"id"`
	Country string `json:"country"`
	Percent int    `json:"percent"`
	Prefix  string `json:"prefix"`
	Pattern string `json:"pattern"`
}

func NewProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, Price: p.Price}
}

func NewCouponResponse(c domain.Coupon) CouponResponse {
	return CouponResponse{
		ID:            c.ID,
		Name:          c.Name,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
		Active:        c.Active,
	}
}

func NewTaxRuleResponse(r domain.TaxRule) TaxRuleResponse {
	return TaxRuleResponse{ID: r.ID, Country: r.Country, Percent: r.Percent, Prefix: r.Prefix, Pattern: r.Pattern}
}
