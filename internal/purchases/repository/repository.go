// Package repository persists the purchases ledger in Postgres.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Status is the outcome of a purchase attempt.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var errPurchaseNotFound = apperr.NotFound("purchase not found")

// Purchase is one ledger row.
type Purchase struct {
	ID            uuid.UUID
	ProductID     int64
	ProductName   string
	TaxNumber     string
	CouponCode    *string
	Processor     string
	Price         decimal.Decimal
	TaxPercent    int
	Status        Status
	FailureReason *string
	ReceiptKey    *string
	CreatedAt     time.Time
}

// Repository is the persistence surface of the purchases module.
type Repository interface {
	// Insert stores p. It reports false, without error, when a purchase with
	// the same ID was already recorded.
	Insert(ctx context.Context, p Purchase) (bool, error)
	SetReceiptKey(ctx context.Context, id uuid.UUID, key string) error
	Get(ctx context.Context, id uuid.UUID) (Purchase, error)
	List(ctx context.Context, limit, offset int) ([]Purchase, int, error)
}

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Repo implements Repository on a pgx pool.
type Repo struct {
	db DBTX
}

// New creates a Repo.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{db: pool}
}

// NewWithDB creates a Repo over any DBTX.
func NewWithDB(db DBTX) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Insert(ctx context.Context, p Purchase) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO purchases (
			id, product_id, product_name, tax_number, coupon_code, processor,
			price, tax_percent, status, failure_reason, receipt_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.ProductID, p.ProductName, p.TaxNumber, p.CouponCode, p.Processor,
		p.Price.StringFixed(2), p.TaxPercent, string(p.Status), p.FailureReason, p.ReceiptKey, p.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert purchase: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetReceiptKey attaches an archived receipt to an existing purchase.
func (r *Repo) SetReceiptKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.db.Exec(ctx, `UPDATE purchases SET receipt_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("set receipt key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errPurchaseNotFound.Clone()
	}
	return nil
}

const selectPurchase = `
	SELECT id, product_id, product_name, tax_number, coupon_code, processor,
		price::text, tax_percent, status, failure_reason, receipt_key, created_at
	FROM purchases`

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (Purchase, error) {
	p, err := scanPurchase(r.db.QueryRow(ctx, selectPurchase+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Purchase{}, errPurchaseNotFound.Clone()
		}
		return Purchase{}, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// List returns a page of purchases, newest first, and the total count.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]Purchase, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	rows, err := r.db.Query(ctx, selectPurchase+` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	items := make([]Purchase, 0, limit)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate purchases: %w", err)
	}
	return items, total, nil
}

func scanPurchase(row pgx.Row) (Purchase, error) {
	var (
		p      Purchase
		price  string
		status string
	)
	err := row.Scan(
		&p.ID, &p.ProductID, &p.ProductName, &p.TaxNumber, &p.CouponCode, &p.Processor,
		&price, &p.TaxPercent, &status, &p.FailureReason, &p.ReceiptKey, &p.CreatedAt,
	)
	if err != nil {
		return Purchase{}, err
	}

	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return Purchase{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Status = Status(status)
	return p, nil
}

var _ Repository = (*Repo)(nil)
