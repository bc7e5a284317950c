// Package service records purchase outcomes in the ledger and archives
// receipts for completed purchases.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"checkout_backend/internal/adapters/storage"
	"checkout_backend/internal/events"
	"checkout_backend/internal/purchases/repository"
	"checkout_backend/internal/scheduler"
	"checkout_backend/platform/apperr"
	"checkout_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	receiptFolder      = "receipts"
	receiptContentType = "application/json"

	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ReceiptStore is the object storage used for receipts.
type ReceiptStore interface {
	PutObject(ctx context.Context, bucket, key, contentType string, reader io.Reader, size int64) error
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
}

// Receipt is the JSON document archived for a completed purchase.
type Receipt struct {
	PurchaseID  uuid.UUID `json:"purchaseId"`
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"productName"`
	TaxNumber   string    `json:"taxNumber"`
	CouponCode  string    `json:"couponCode,omitempty"`
	Processor   string    `json:"processor"`
	Price       string    `json:"price"`
	TaxPercent  int       `json:"taxPercent"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// ListResult is a page of purchases.
type ListResult struct {
	Items  []repository.Purchase
	Total  int
	Limit  int
	Offset int
}

// Service records and lists purchases.
type Service struct {
	repo     repository.Repository
	receipts ReceiptStore
	bucket   string
	enqueuer scheduler.PurchaseEnqueuer
	log      *logger.Logger
}

// New creates a purchases service that records inline and keeps no receipts.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetReceiptStore enables receipt archiving into bucket.
func (s *Service) SetReceiptStore(store ReceiptStore, bucket string) {
	s.receipts = store
	s.bucket = bucket
}

// SetEnqueuer moves recording to the background worker.
func (s *Service) SetEnqueuer(enqueuer scheduler.PurchaseEnqueuer) {
	s.enqueuer = enqueuer
}

// Dispatch records the outcome, through the worker queue when one is set.
func (s *Service) Dispatch(ctx context.Context, payload scheduler.RecordPurchasePayload) error {
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueRecordPurchase(ctx, payload); err != nil {
			return fmt.Errorf("enqueue purchase %s: %w", payload.PurchaseID, err)
		}
		return nil
	}
	return s.RecordPurchase(ctx, payload)
}

// RecordPurchase implements scheduler.PurchaseRecorder.
func (s *Service) RecordPurchase(ctx context.Context, payload scheduler.RecordPurchasePayload) error {
	purchase, err := purchaseFromPayload(payload)
	if err != nil {
		return err
	}
	_, err = s.Record(ctx, purchase)
	return err
}

// Record stores a purchase. Recording the same ID twice is a no-op. A newly
// recorded completed purchase gets a receipt when a receipt store is
// configured; an upload failure is logged and the purchase keeps no receipt.
func (s *Service) Record(ctx context.Context, purchase repository.Purchase) (repository.Purchase, error) {
	log := s.log.WithContext(ctx)

	inserted, err := s.repo.Insert(ctx, purchase)
	if err != nil {
		log.DatabaseError("insert purchase", err)
		return repository.Purchase{}, err
	}
	if !inserted {
		log.Debug("purchase already recorded", "purchaseId", purchase.ID)
		return purchase, nil
	}

	log.Info("purchase recorded",
		"purchaseId", purchase.ID, "status", purchase.Status, "processor", purchase.Processor, "price", purchase.Price.StringFixed(2))

	if purchase.Status != repository.StatusCompleted || s.receipts == nil {
		return purchase, nil
	}

	key, err := s.archiveReceipt(ctx, purchase)
	if err != nil {
		log.Warn("receipt upload failed", "purchaseId", purchase.ID, "error", err)
		return purchase, nil
	}
	if err := s.repo.SetReceiptKey(ctx, purchase.ID, key); err != nil {
		log.Warn("receipt key not saved", "purchaseId", purchase.ID, "key", key, "error", err)
		return purchase, nil
	}
	purchase.ReceiptKey = &key
	return purchase, nil
}

// List returns a page of purchases. Limit is clamped to 1..MaxListLimit.
func (s *Service) List(ctx context.Context, limit, offset int) (ListResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// ReceiptURL returns a short-lived download link for a purchase's receipt.
func (s *Service) ReceiptURL(ctx context.Context, id uuid.UUID) (*storage.PresignedURL, error) {
	if s.receipts == nil {
		return nil, apperr.Unavailable("receipt storage is not configured")
	}

	purchase, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase.ReceiptKey == nil {
		return nil, apperr.NotFound("purchase has no receipt")
	}
	return s.receipts.GenerateDownloadURL(ctx, s.bucket, *purchase.ReceiptKey)
}

func (s *Service) archiveReceipt(ctx context.Context, p repository.Purchase) (string, error) {
	receipt := Receipt{
		PurchaseID:  p.ID,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		TaxNumber:   p.TaxNumber,
		Processor:   p.Processor,
		Price:       p.Price.StringFixed(2),
		TaxPercent:  p.TaxPercent,
		IssuedAt:    p.CreatedAt,
	}
	if p.CouponCode != nil {
		receipt.CouponCode = *p.CouponCode
	}

	body, err := json.Marshal(receipt)
	if err != nil {
		return "", err
	}

	key := ReceiptKey(p.ID)
	if err := s.receipts.PutObject(ctx, s.bucket, key, receiptContentType, bytes.NewReader(body), int64(len(body))); err != nil {
		return "", err
	}
	return key, nil
}

// ReceiptKey is the object key of a purchase's receipt.
func ReceiptKey(id uuid.UUID) string {
	return receiptFolder + "/" + id.String() + ".json"
}

// PayloadFromEvent converts a pricing purchase event. It reports false for
// any other event.
func PayloadFromEvent(event events.Event) (scheduler.RecordPurchasePayload, bool) {
	switch e := event.(type) {
	case events.PurchaseCompleted:
		return scheduler.RecordPurchasePayload{
			PurchaseID:  e.PurchaseID.String(),
			ProductID:   e.ProductID,
			ProductName: e.ProductName,
			TaxNumber:   e.TaxNumber,
			CouponCode:  e.CouponCode,
			Processor:   e.Processor,
			Price:       e.Price.String(),
			TaxPercent:  e.TaxPercent,
			Status:      string(repository.StatusCompleted),
			OccurredAt:  e.OccurredAt(),
		}, true
	case events.PurchaseFailed:
		return scheduler.RecordPurchasePayload{
			PurchaseID:  e.PurchaseID.String(),
			ProductID:   e.ProductID,
			ProductName: e.ProductName,
			TaxNumber:   e.TaxNumber,
			CouponCode:  e.CouponCode,
			Processor:   e.Processor,
			Price:       e.Price.String(),
			TaxPercent:  e.TaxPercent,
			Status:      string(repository.StatusFailed),
			Reason:      e.Reason,
			OccurredAt:  e.OccurredAt(),
		}, true
	default:
		return scheduler.RecordPurchasePayload{}, false
	}
}

func purchaseFromPayload(payload scheduler.RecordPurchasePayload) (repository.Purchase, error) {
	id, err := uuid.Parse(payload.PurchaseID)
	if err != nil {
		return repository.Purchase{}, apperr.Validation("invalid purchase id").WithCause(err)
	}
	price, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return repository.Purchase{}, apperr.Validation("invalid purchase price").WithCause(err)
	}

	status := repository.Status(payload.Status)
	if status != repository.StatusCompleted && status != repository.StatusFailed {
		return repository.Purchase{}, apperr.Validation("invalid purchase status")
	}

	createdAt := payload.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return repository.Purchase{
		ID:            id,
		ProductID:     payload.ProductID,
		ProductName:   payload.ProductName,
		TaxNumber:     payload.TaxNumber,
		CouponCode:    optional(payload.CouponCode),
		Processor:     payload.Processor,
		Price:         price,
		TaxPercent:    payload.TaxPercent,
		Status:        status,
		FailureReason: optional(payload.Reason),
		CreatedAt:     createdAt,
	}, nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

var _ scheduler.PurchaseRecorder = (*Service)(nil)
