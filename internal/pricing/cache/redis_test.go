package cache

import (
	"context"
	"testing"
	"time"

	"checkout_backend/internal/pricing/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisQuoteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl), mr
}

func TestRedisQuoteCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	quote := domain.Quote{ProductName: "Iphone", Price: decimal.RequireFromString("101.15"), TaxPercent: 19}
	if err := c.Set(ctx, "k", quote); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected cached quote, got ok=%v err=%v", ok, err)
	}
	if got.ProductName != "Iphone" || !got.Price.Equal(quote.Price) || got.TaxPercent != 19 {
		t.Fatalf("unexpected quote: %+v", got)
	}
}

func TestRedisQuoteCache_Miss(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)

	_, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss")
	}
}

func TestRedisQuoteCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	if err := c.Set(ctx, "k", domain.Quote{ProductName: "Case", Price: decimal.NewFromInt(12), TaxPercent: 20}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != time.Hour {
		t.Fatalf("expected ttl 1h, got %s", ttl)
	}

	mr.FastForward(time.Hour + time.Second)

	_, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected the quote to expire")
	}
}

func TestRedisQuoteCache_DefaultTTL(t *testing.T) {
	c, mr := newTestCache(t, 0)

	if err := c.Set(context.Background(), "k", domain.Quote{ProductName: "Case"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != DefaultTTL {
		t.Fatalf("expected default ttl %s, got %s", DefaultTTL, ttl)
	}
}

func TestRedisQuoteCache_CorruptValue(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	if err := mr.Set("k", "not-json"); err != nil {
		t.Fatalf("seed value: %v", err)
	}

	_, ok, err := c.Get(context.Background(), "k")
	if err == nil || ok {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}
}

func TestRedisQuoteCache_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	c := New(client, time.Hour)
	mr.Close()

	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected error with server down")
	}
}
