package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/iho/goremit/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "HTTP_PORT", "LOCK_WAIT_TIMEOUT", "LOCK_LEASE_TIME", "LOCK_KEY_PREFIX", "MIGRATIONS_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.LockWaitTimeout != time.Second || cfg.LockLeaseTime != 5*time.Second {
		t.Fatalf("unexpected lock policy: wait=%s lease=%s", cfg.LockWaitTimeout, cfg.LockLeaseTime)
	}

	if cfg.LockKeyPrefix != "ACCOUNTLOCK:" {
		t.Fatalf("unexpected lock prefix %q", cfg.LockKeyPrefix)
	}

	if cfg.MigrationsPath != "migrations" {
		t.Fatalf("unexpected migrations path %q", cfg.MigrationsPath)
	}

	if !errors.Is(cfg.Validate(), config.ErrMissingJWTSecret) {
		t.Fatalf("expected missing secret to fail validation")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("LOCK_WAIT_TIMEOUT", "250ms")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("FRIEND_CACHE_TTL", "30s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.LockWaitTimeout != 250*time.Millisecond {
		t.Fatalf("expected lock wait override, got %s", cfg.LockWaitTimeout)
	}

	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}

	if cfg.FriendCacheTTL != 30*time.Second {
		t.Fatalf("expected friend cache ttl override, got %s", cfg.FriendCacheTTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateLockPolicy(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s", LockWaitTimeout: 5 * time.Second, LockLeaseTime: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected lease shorter than wait to be rejected")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
