package config

import (
	"testing"
	"time"
)

func TestLoadDevDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsDev() {
		t.Fatal("expected dev environment")
	}
	if cfg.JWTSecret != "dev-secret" {
		t.Fatalf("expected dev secret fallback, got %q", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("unexpected token ttl %s", cfg.TokenTTL)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoadProductionRequiresBackends(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/bank")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without REDIS_URL")
	}

	t.Setenv("REDIS_URL", "redis://localhost:6379")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IsDev() {
		t.Fatal("production config reported as dev")
	}
}

func TestLoadProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/bank")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadTokenTTLOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("TOKEN_TTL_SECONDS", "600")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL != 10*time.Minute {
		t.Fatalf("expected 10m token ttl, got %s", cfg.TokenTTL)
	}

	t.Setenv("TOKEN_TTL_SECONDS", "")
	t.Setenv("TOKEN_TTL", "30m")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m token ttl, got %s", cfg.TokenTTL)
	}

	t.Setenv("TOKEN_TTL", "bogus")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed TOKEN_TTL")
	}
}
