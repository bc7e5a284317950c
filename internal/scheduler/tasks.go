package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TaskRecordPurchase = "purchases.record"

// RecordPurchasePayload is a purchase outcome waiting to be written to the ledger.
type RecordPurchasePayload struct {
	PurchaseID  string    `json:"purchaseId"`
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"productName"`
	TaxNumber   string    `json:"taxNumber"`
	CouponCode  string    `json:"couponCode,omitempty"`
	Processor   string    `json:"processor"`
	Price       string    `json:"price"`
	TaxPercent  int       `json:"taxPercent"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func NewRecordPurchaseTask(payload RecordPurchasePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecordPurchase, data), nil
}

func ParseRecordPurchasePayload(task *asynq.Task) (RecordPurchasePayload, error) {
	var payload RecordPurchasePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RecordPurchasePayload{}, fmt.Errorf("decode %s payload: %v: %w", TaskRecordPurchase, err, asynq.SkipRetry)
	}
	return payload, nil
}
