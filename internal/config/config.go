package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName      = "BankSystem"
	defaultAppEnv       = "development"
	defaultPort         = "8080"
	defaultLogLevel     = "info"
	defaultShutdown     = 10 * time.Second
	defaultTokenTTL     = 15 * time.Minute
	defaultLockTimeout  = 3 * time.Second
	defaultIdemTTL      = 24 * time.Hour
	defaultDevJWTSecret = "dev-secret"

	tokenTTLSecondsEnvVar  = "TOKEN_TTL_SECONDS"
	tokenTTLDurEnvVar      = "TOKEN_TTL"
	lockTimeoutEnvVar      = "MUTATE_LOCK_TIMEOUT"
	idemTTLEnvVar          = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	MigrationsPath string
	JWTSecret      string
	TokenTTL       time.Duration
	LockTimeout    time.Duration
	IdempotencyTTL time.Duration
	ShutdownPeriod time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
// Outside of development DATABASE_URL, REDIS_URL and JWT_SECRET are mandatory; in
// development the server can fall back to in-memory backends and a fixed dev secret.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       defaultTokenTTL,
		LockTimeout:    defaultLockTimeout,
		IdempotencyTTL: defaultIdemTTL,
		ShutdownPeriod: defaultShutdown,
	}

	if v := os.Getenv(tokenTTLSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", tokenTTLSecondsEnvVar, err)
		}
		cfg.TokenTTL = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(tokenTTLDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", tokenTTLDurEnvVar, err)
		}
		cfg.TokenTTL = d
	}

	if v := os.Getenv(lockTimeoutEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", lockTimeoutEnvVar, err)
		}
		cfg.LockTimeout = d
	}

	if v := os.Getenv(idemTTLEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", idemTTLEnvVar, err)
		}
		cfg.IdempotencyTTL = d
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", cfg.AppEnv)
		}
		cfg.JWTSecret = defaultDevJWTSecret
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the application runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
