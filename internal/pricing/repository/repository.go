// Package repository persists the pricing catalogue in Postgres.
package repository

import (
	"context"
	"errors"
	"fmt"

	"checkout_backend/internal/pricing/domain"
	"checkout_backend/internal/pricing/seed"
	"checkout_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"

	taxRuleExistsMessage = "a tax rule for this country already exists"
)

// DBTX is the subset of pgxpool.Pool the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
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

// FindProduct retrieves a product by ID.
func (r *Repo) FindProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx, `SELECT id, name, price FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ProductNotFound()
		}
		return domain.Product{}, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// FindCouponByName retrieves a coupon by its unique name, regardless of
// whether it is active.
func (r *Repo) FindCouponByName(ctx context.Context, name string) (domain.Coupon, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, discount_type, discount_value, is_active
		FROM coupons
		WHERE name = $1`, name)

	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Coupon{}, domain.CouponNotFound()
		}
		if apperr.CodeOf(err) != "" {
			return domain.Coupon{}, err
		}
		return domain.Coupon{}, fmt.Errorf("find coupon: %w", err)
	}
	return c, nil
}

// ListTaxRules returns every tax rule. Callers must not rely on the order.
func (r *Repo) ListTaxRules(ctx context.Context) ([]domain.TaxRule, error) {
	rows, err := r.db.Query(ctx, `SELECT id, country, percent, prefix, pattern FROM tax_rules`)
	if err != nil {
		return nil, fmt.Errorf("list tax rules: %w", err)
	}
	defer rows.Close()

	rules := make([]domain.TaxRule, 0)
	for rows.Next() {
		var rule domain.TaxRule
		if err := rows.Scan(&rule.ID, &rule.Country, &rule.Percent, &rule.Prefix, &rule.Pattern); err != nil {
			return nil, fmt.Errorf("scan tax rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tax rules: %w", err)
	}
	return rules, nil
}

// ListProducts lists products by name.
func (r *Repo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, price FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListCoupons lists coupons by name.
func (r *Repo) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, discount_type, discount_value, is_active
		FROM coupons
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := make([]domain.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

// CreateTaxRule inserts a tax rule. Duplicate countries are a conflict.
func (r *Repo) CreateTaxRule(ctx context.Context, params CreateTaxRuleParams) (domain.TaxRule, error) {
	var rule domain.TaxRule
	err := r.db.QueryRow(ctx, `
		INSERT INTO tax_rules (country, percent, prefix, pattern)
		VALUES ($1, $2, $3, $4)
		RETURNING id, country, percent, prefix, pattern`,
		params.Country, params.Percent, params.Prefix, params.Pattern,
	).Scan(&rule.ID, &rule.Country, &rule.Percent, &rule.Prefix, &rule.Pattern)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.TaxRule{}, apperr.Conflict(taxRuleExistsMessage)
		}
		return domain.TaxRule{}, fmt.Errorf("create tax rule: %w", err)
	}
	return rule, nil
}

// Seed upserts fixtures by their natural keys in one transaction.
func (r *Repo) Seed(ctx context.Context, fixtures seed.Fixtures) (SeedResult, error) {
	var result SeedResult

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, p := range fixtures.Products {
		if _, err := tx.Exec(ctx, `
			INSERT INTO products (name, price) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET price = EXCLUDED.price`,
			p.Name, p.Price); err != nil {
			return result, fmt.Errorf("seed product %s: %w", p.Name, err)
		}
		result.Products++
	}

	for _, c := range fixtures.Coupons {
		if _, err := tx.Exec(ctx, `
			INSERT INTO coupons (name, discount_type, discount_value, is_active) VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE SET
				discount_type = EXCLUDED.discount_type,
				discount_value = EXCLUDED.discount_value,
				is_active = EXCLUDED.is_active`,
			c.Name, c.DiscountType, c.DiscountValue, c.Active); err != nil {
			return result, fmt.Errorf("seed coupon %s: %w", c.Name, err)
		}
		result.Coupons++
	}

	for _, t := range fixtures.TaxRules {
		if _, err := tx.Exec(ctx, `
			INSERT INTO tax_rules (country, percent, prefix, pattern) VALUES ($1, $2, $3, $4)
			ON CONFLICT (country) DO UPDATE SET
				percent = EXCLUDED.percent,
				prefix = EXCLUDED.prefix,
				pattern = EXCLUDED.pattern`,
			t.Country, t.Percent, t.Prefix, t.Pattern); err != nil {
			return result, fmt.Errorf("seed tax rule %s: %w", t.Country, err)
		}
		result.TaxRules++
	}

	if err := tx.Commit(ctx); err != nil {
		return SeedResult{}, fmt.Errorf("commit seed: %w", err)
	}
	return result, nil
}

func scanCoupon(row pgx.Row) (domain.Coupon, error) {
	var (
		c       domain.Coupon
		rawType string
	)
	if err := row.Scan(&c.ID, &c.Name, &rawType, &c.DiscountValue, &c.Active); err != nil {
		return domain.Coupon{}, err
	}

	kind, err := domain.ParseDiscountType(rawType)
	if err != nil {
		return domain.Coupon{}, err
	}
	c.DiscountType = kind
	return c, nil
}

var _ Repository = (*Repo)(nil)
