package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"checkout_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubRow struct {
	values []interface{}
	err    error
}

func (r stubRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: want %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if r.values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

type stubDB struct {
	row     stubRow
	tag     pgconn.CommandTag
	execErr error
	sql     string
	args    []interface{}
}

func (s *stubDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	s.sql, s.args = sql, args
	return s.tag, s.execErr
}

func (s *stubDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("query not expected")
}

func (s *stubDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return s.row
}

func TestInsert_ReportsWhetherRowWasWritten(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want bool
	}{
		{name: "new purchase", tag: "INSERT 0 1", want: true},
		{name: "already recorded", tag: "INSERT 0 0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &stubDB{tag: pgconn.NewCommandTag(tt.tag)}
			got, err := NewWithDB(db).Insert(context.Background(), Purchase{ID: uuid.New(), Status: StatusCompleted})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected inserted=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestSetReceiptKey_UnknownPurchaseIsNotFound(t *testing.T) {
	db := &stubDB{tag: pgconn.NewCommandTag("UPDATE 0")}

	err := NewWithDB(db).SetReceiptKey(context.Background(), uuid.New(), "receipts/x.json")
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetReceiptKey_PassesKey(t *testing.T) {
	db := &stubDB{tag: pgconn.NewCommandTag("UPDATE 1")}
	id := uuid.New()

	if err := NewWithDB(db).SetReceiptKey(context.Background(), id, "receipts/x.json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.args) != 2 || db.args[0] != id || db.args[1] != "receipts/x.json" {
		t.Fatalf("unexpected args: %#v", db.args)
	}
}

func TestGet_MissingRowIsNotFound(t *testing.T) {
	db := &stubDB{row: stubRow{err: pgx.ErrNoRows}}

	_, err := NewWithDB(db).Get(context.Background(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGet_ScansPurchase(t *testing.T) {
	id := uuid.New()
	coupon := "S10"
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	db := &stubDB{row: stubRow{values: []interface{}{
		id, int64(1), "Iphone", "DE123456789", &coupon, "paypal",
		"107.10", 19, "completed", nil, nil, created,
	}}}

	p, err := NewWithDB(db).Get(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != id || p.Status != StatusCompleted || p.Price.StringFixed(2) != "107.10" {
		t.Fatalf("unexpected purchase: %+v", p)
	}
	if p.CouponCode == nil || *p.CouponCode != "S10" || p.ReceiptKey != nil {
		t.Fatalf("unexpected optional fields: coupon=%v receipt=%v", p.CouponCode, p.ReceiptKey)
	}
}

func TestGet_BadStoredPriceFails(t *testing.T) {
	db := &stubDB{row: stubRow{values: []interface{}{
		uuid.New(), int64(1), "Iphone", "DE123456789", nil, "paypal",
		"n/a", 19, "completed", nil, nil, time.Now(),
	}}}

	if _, err := NewWithDB(db).Get(context.Background(), uuid.New()); err == nil {
		t.Fatalf("expected price parse error")
	}
}
