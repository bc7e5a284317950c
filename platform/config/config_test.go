package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is empty")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/checkout")
	t.Setenv("REDIS_URL", "")
	t.Setenv("QUOTE_CACHE_TTL", "")
	t.Setenv("COUPON_REQUIRE_ACTIVE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetHTTPAddr() != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.GetHTTPAddr())
	}
	if cfg.GetCouponRequireActive() {
		t.Fatalf("expected coupon active check to be off by default")
	}
	if cfg.IsQuoteCacheEnabled() {
		t.Fatalf("expected quote cache disabled without REDIS_URL")
	}
	if cfg.IsMinIOEnabled() {
		t.Fatalf("expected MinIO disabled without endpoint")
	}
}

func TestLoad_QuoteCacheEnabledWithRedis(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/checkout")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("QUOTE_CACHE_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsQuoteCacheEnabled() {
		t.Fatalf("expected quote cache enabled")
	}
	if cfg.GetQuoteCacheTTL() != 30*time.Minute {
		t.Fatalf("expected ttl 30m, got %s", cfg.GetQuoteCacheTTL())
	}
}

func TestLoad_RejectsWildcardCORSWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/checkout")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for wildcard CORS with credentials")
	}
}

func TestLoad_MinIORequiresCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/checkout")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "")
	t.Setenv("MINIO_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for MinIO without credentials")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b ,c")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected split result: %#v", got)
	}
}
