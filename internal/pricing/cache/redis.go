// Package cache stores computed quotes in Redis.
package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"checkout_backend/internal/pricing/domain"
	"checkout_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a quote stays valid when no TTL is configured.
const DefaultTTL = time.Hour

// RedisQuoteCache keeps quotes as JSON values with a fixed TTL.
type RedisQuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps an existing client.
func New(client *redis.Client, ttl time.Duration) *RedisQuoteCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisQuoteCache{client: client, ttl: ttl}
}

// NewFromConfig dials Redis using REDIS_URL.
func NewFromConfig(cfg config.CacheConfig) (*RedisQuoteCache, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}
	return New(redis.NewClient(opt), cfg.GetQuoteCacheTTL()), nil
}

// Get returns the cached quote, or ok=false when absent.
func (c *RedisQuoteCache) Get(ctx context.Context, key string) (domain.Quote, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Quote{}, false, nil
	}
	if err != nil {
		return domain.Quote{}, false, fmt.Errorf("get cached quote: %w", err)
	}

	var quote domain.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return domain.Quote{}, false, fmt.Errorf("decode cached quote: %w", err)
	}
	return quote, true, nil
}

// Set stores quote under key for the configured TTL.
func (c *RedisQuoteCache) Set(ctx context.Context, key string, quote domain.Quote) error {
	raw, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("encode quote: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached quote: %w", err)
	}
	return nil
}

// Ping checks Redis is reachable.
func (c *RedisQuoteCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *RedisQuoteCache) Close() error {
	return c.client.Close()
}
