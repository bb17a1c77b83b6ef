package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Env       string
	LogLevel  string
	Port      uint16
	JWTSecret string
	TokenTTL  time.Duration
	StoreName string
	Currency  string

	// CORSOrigins lists browser origins allowed to call the API
	CORSOrigins []string

	// SessionMaxIdle is how long an untouched register session survives
	SessionMaxIdle time.Duration

	// JanitorInterval is how often background maintenance jobs run
	JanitorInterval time.Duration

	NATS      NATSConfig
	Seed      SeedConfig
	Sentry    SentryConfig
	RateLimit RateLimitConfig
}

// NATSConfig configures sale event publishing.
// Publishing is disabled when URL is empty.
type NATSConfig struct {
	URL     string
	Subject string
}

// SeedConfig holds the initial passwords of the demo accounts created at
// startup. State is in memory, so these are applied on every boot.
type SeedConfig struct {
	AdminPassword   string
	ManagerPassword string
	CashierPassword string
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

// RateLimitConfig configures the per-IP limiters
type RateLimitConfig struct {
	RequestsPerSecond      float64
	Burst                  int
	LoginRequestsPerSecond float64
	LoginBurst             int
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		// Walk up directories to find .env (max 2 parent directories)
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	return loadConfig()
}

// loadConfig reads the process environment into a validated Config
func loadConfig() (*Config, error) {
	cfg := &Config{
		Env:             getEnv("ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnvInt("PORT", 3000),
		JWTSecret:       getEnv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:        getEnvDuration("TOKEN_TTL", 12*time.Hour),
		StoreName:       getEnv("STORE_NAME", "MegaPDV"),
		Currency:        getEnv("CURRENCY", "BRL"),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		SessionMaxIdle:  getEnvDuration("SESSION_MAX_IDLE", 8*time.Hour),
		JanitorInterval: getEnvDuration("JANITOR_INTERVAL", 5*time.Minute),
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", ""), // Empty disables event publishing
			Subject: getEnv("NATS_SUBJECT", "pdv.sale.completed"),
		},
		Seed: SeedConfig{
			AdminPassword:   getEnv("SEED_ADMIN_PASSWORD", "admin123"),
			ManagerPassword: getEnv("SEED_MANAGER_PASSWORD", "gerente123"),
			CashierPassword: getEnv("SEED_CASHIER_PASSWORD", "caixa123"),
		},
		Sentry: SentryConfig{
			DSN:              getEnv("SENTRY_DSN", ""),
			Enabled:          getEnvBool("SENTRY_ENABLED", false), // Disabled by default for development
			Environment:      getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:          getEnv("SENTRY_RELEASE", ""),
			SampleRate:       getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			TracesSampleRate: getEnvFloat("SENTRY_TRACES_SAMPLE_RATE", 0.0), // Disabled by default
			Debug:            getEnvBool("SENTRY_DEBUG", false),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond:      getEnvFloat("RATE_LIMIT_RPS", 20),
			Burst:                  int(getEnvInt("RATE_LIMIT_BURST", 40)),
			LoginRequestsPerSecond: getEnvFloat("RATE_LIMIT_LOGIN_RPS", 0.2),
			LoginBurst:             int(getEnvInt("RATE_LIMIT_LOGIN_BURST", 5)),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	// Validate JWT secret in production
	if cfg.Env == "prod" && cfg.JWTSecret == DefaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	if cfg.Sentry.Enabled && cfg.Sentry.DSN == "" {
		return nil, fmt.Errorf("SENTRY_DSN required when SENTRY_ENABLED is true")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
