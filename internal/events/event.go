// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"checkout_backend/platform/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Publisher   = events.Publisher
	Subscriber  = events.Subscriber
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Pricing Domain Events
// =============================================================================

// PurchaseCompleted is published after a processor accepted the charge.
type PurchaseCompleted struct {
	BaseEvent
	PurchaseID  uuid.UUID       `json:"purchaseId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	TaxNumber   string          `json:"taxNumber"`
	CouponCode  string          `json:"couponCode,omitempty"`
	Processor   string          `json:"processor"`
	Price       decimal.Decimal `json:"price"`
	TaxPercent  int             `json:"taxPercent"`
}

func (e PurchaseCompleted) EventName() string { return "pricing.purchase.completed" }

// PurchaseFailed is published when a processor declined or errored.
type PurchaseFailed struct {
	BaseEvent
	PurchaseID  uuid.UUID       `json:"purchaseId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	TaxNumber   string          `json:"taxNumber"`
	CouponCode  string          `json:"couponCode,omitempty"`
	Processor   string          `json:"processor"`
	Price       decimal.Decimal `json:"price"`
	TaxPercent  int             `json:"taxPercent"`
	Reason      string          `json:"reason"`
}

func (e PurchaseFailed) EventName() string { return "pricing.purchase.failed" }
