package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	KafkaBrokers   []string
	NatsURL        string
	JaegerEndpoint string
	LogLevel       string

	SessionTTL   time.Duration
	CookieSecure bool

	// Detection rule thresholds
	AmountThreshold decimal.Decimal
	FlaggedMethods  []string
}

const (
	DefaultPort            = "8083"
	DefaultLogLevel        = "info"
	DefaultSessionTTL      = 24 * time.Hour
	DefaultAmountThreshold = "1000"
	DefaultFlaggedMethods  = "cryptocurrency"
)

// Load reads configuration from the environment, loading .env first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           valueOrDefault("PORT", DefaultPort),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		NatsURL:        os.Getenv("NATS_URL"),
		JaegerEndpoint: os.Getenv("JAEGER_ENDPOINT"),
		LogLevel:       valueOrDefault("LOG_LEVEL", DefaultLogLevel),
		SessionTTL:     DefaultSessionTTL,
		FlaggedMethods: splitList(valueOrDefault("FRAUD_FLAGGED_METHODS", DefaultFlaggedMethods)),
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", d)
		}
		cfg.SessionTTL = d
	}

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}

	threshold, err := decimal.NewFromString(valueOrDefault("FRAUD_AMOUNT_THRESHOLD", DefaultAmountThreshold))
	if err != nil {
		return nil, fmt.Errorf("invalid FRAUD_AMOUNT_THRESHOLD: %w", err)
	}
	if threshold.IsNegative() {
		return nil, fmt.Errorf("FRAUD_AMOUNT_THRESHOLD must not be negative, got %s", threshold)
	}
	cfg.AmountThreshold = threshold

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
