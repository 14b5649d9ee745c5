package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required")

// Config is centralized process configuration, read once at startup.
type Config struct {
	ServiceName string
	HTTPPort    string
	LogLevel    string

	JWTSecret string
	TokenTTL  time.Duration

	IdempotencyPolicy string
	RedisAddr         string
	OrderJournalPath  string

	RabbitMQURL      string
	RabbitMQExchange string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	GRPCHealthAddr string
	OTLPEndpoint   string
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront-api"),
		HTTPPort:    getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		IdempotencyPolicy: getEnv("IDEMPOTENCY_POLICY", "consume-first"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		OrderJournalPath:  os.Getenv("ORDER_JOURNAL_PATH"),

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "storefront.events"),

		GRPCHealthAddr: os.Getenv("GRPC_HEALTH_ADDR"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, ErrMissingJWTSecret
	}

	var err error
	if cfg.TokenTTL, err = envDuration("TOKEN_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitWindow, err = envDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRequests, err = envInt("RATE_LIMIT_REQUESTS", 100); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HTTPAddr is the listen address for the API server.
func (c Config) HTTPAddr() string {
	return ":" + strings.TrimPrefix(c.HTTPPort, ":")
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", name, raw)
	}
	return n, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive duration, got %q", name, raw)
	}
	return d, nil
}
