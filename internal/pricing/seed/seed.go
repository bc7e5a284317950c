// Package seed loads demo catalogue data (products, coupons, tax rules).
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"checkout_backend/internal/pricing/domain"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the on-disk seed format.
type Fixtures struct {
	Products []ProductFixture `yaml:"products"`
	Coupons  []CouponFixture  `yaml:"coupons"`
	TaxRules []TaxRuleFixture `yaml:"taxRules"`
}

type ProductFixture struct {
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
}

type CouponFixture struct {
	Name          string `yaml:"name"`
	DiscountType  string `yaml:"discountType"`
	DiscountValue int64  `yaml:"discountValue"`
	Active        bool   `yaml:"active"`
}

type TaxRuleFixture struct {
	Country string `yaml:"country"`
	Percent int    `yaml:"percent"`
	Prefix  string `yaml:"prefix"`
	Pattern string `yaml:"pattern"`
}

// Default returns the built-in demo fixtures.
func Default() (Fixtures, error) {
	return Parse(bytes.NewReader(defaultFixtures))
}

// Parse decodes and validates fixtures from r.
func Parse(r io.Reader) (Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := f.validate(); err != nil {
		return Fixtures{}, err
	}
	return f, nil
}

func (f Fixtures) validate() error {
	for _, p := range f.Products {
		if p.Name == "" || p.Price < 0 {
			return fmt.Errorf("product %q: name required and price must be non-negative", p.Name)
		}
	}
	for _, c := range f.Coupons {
		if c.Name == "" || c.DiscountValue < 0 {
			return fmt.Errorf("coupon %q: name required and value must be non-negative", c.Name)
		}
		if _, err := domain.ParseDiscountType(c.DiscountType); err != nil {
			return fmt.Errorf("coupon %q: %w", c.Name, err)
		}
	}
	for _, r := range f.TaxRules {
		if r.Country == "" || r.Percent < 0 || r.Percent > 100 {
			return fmt.Errorf("tax rule %q: country required and percent must be within 0..100", r.Country)
		}
		if !domain.ValidPattern(r.Pattern) {
			return fmt.Errorf("tax rule %q: invalid pattern %q", r.Country, r.Pattern)
		}
	}
	return nil
}
