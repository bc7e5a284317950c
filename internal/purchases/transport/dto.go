package transport

import (
	"encoding/json"
	"time"

	"checkout_backend/internal/purchases/repository"

	"github.com/google/uuid"
)

// ListPurchasesRequest is the query of GET /admin/purchases.
type ListPurchasesRequest struct {
	Limit  int `json:"limit" form:"limit" validate:"omitempty,gte=1,lte=100"`
	Offset int `json:"offset" form:"offset" validate:"omitempty,gte=0"`
}

type PurchaseResponse struct {
	ID            uuid.UUID   `json:"id"`
	ProductID     int64       `json:"productId"`
	ProductName   string      `json:"productName"`
	TaxNumber     string      `json:"taxNumber"`
	CouponCode    *string     `json:"couponCode,omitempty"`
	Processor     string      `json:"processor"`
	Price         json.Number `json:"price"`
	TaxPercent    int         `json:"taxPercent"`
	Status        string      `json:"status"`
	FailureReason *string     `json:"failureReason,omitempty"`
	HasReceipt    bool        `json:"hasReceipt"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type ListPurchasesResponse struct {
	Items  []PurchaseResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

func NewPurchaseResponse(p repository.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:            p.ID,
		ProductID:     p.ProductID,
		ProductName:   p.ProductName,
		TaxNumber:     p.TaxNumber,
		CouponCode:    p.CouponCode,
		Processor:     p.Processor,
		Price:         json.Number(p.Price.StringFixed(2)),
		TaxPercent:    p.TaxPercent,
		Status:        string(p.Status),
		FailureReason: p.FailureReason,
		HasReceipt:    p.ReceiptKey != nil,
		CreatedAt:     p.CreatedAt,
	}
}
