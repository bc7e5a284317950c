package handler

import (
	"context"
	"net/http"

	"checkout_backend/internal/adapters/storage"
	"checkout_backend/internal/purchases/service"
	"checkout_backend/internal/purchases/transport"
	"checkout_backend/platform/httpkit"
	"checkout_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid purchase id"
)

// Ledger is the read side of the purchases service.
type Ledger interface {
	List(ctx context.Context, limit, offset int) (service.ListResult, error)
	ReceiptURL(ctx context.Context, id uuid.UUID) (*storage.PresignedURL, error)
}

// Handler handles HTTP requests for the purchases ledger.
type Handler struct {
	svc Ledger
	val *validator.Validator
}

// New creates a new purchases handler.
func New(svc Ledger, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns recorded purchases, newest first.
// GET /api/v1/admin/purchases
func (h *Handler) List(c *gin.Context) {
	var req transport.ListPurchasesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, validator.Messages(err))
		return
	}

	result, err := h.svc.List(c.Request.Context(), req.Limit, req.Offset)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.PurchaseResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, transport.NewPurchaseResponse(p))
	}
	httpkit.OK(c, transport.ListPurchasesResponse{
		Items:  items,
		Total:  result.Total,
		Limit:  result.Limit,
		Offset: result.Offset,
	})
}

// Receipt returns a presigned download link for a purchase receipt.
// GET /api/v1/admin/purchases/:id/receipt
func (h *Handler) Receipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	url, err := h.svc.ReceiptURL(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, url)
}
