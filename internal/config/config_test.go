package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	for _, key := range []string{"PORT", "TOKEN_TTL", "IDEMPOTENCY_POLICY", "REDIS_ADDR", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "RABBITMQ_EXCHANGE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "consume-first", cfg.IdempotencyPolicy)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "storefront.events", cfg.RabbitMQExchange)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("IDEMPOTENCY_POLICY", "validate-first")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr())
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "validate-first", cfg.IdempotencyPolicy)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, 10*time.Second, cfg.RateLimitWindow)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "   ")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_RejectsBadNumbers(t *testing.T) {
	tests := map[string]string{
		"TOKEN_TTL":           "forever",
		"RATE_LIMIT_WINDOW":   "-1s",
		"RATE_LIMIT_REQUESTS": "zero",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
