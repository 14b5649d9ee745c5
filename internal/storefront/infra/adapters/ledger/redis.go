// Package ledger holds the shared idempotency ledger backed by Redis.
package ledger

import (
	"context"
	"fmt"

	"github.com/jcmexdev/ecommerce-api/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
)

const operation = "idempotency"

var _ ports.IdempotencyLedger = (*RedisLedger)(nil)

// RedisLedger stores one key per idempotency key, without TTL, so every
// process pointed at the same Redis shares one ledger.
type RedisLedger struct {
	cache cache.Cache
}

func NewRedisLedger(c cache.Cache) *RedisLedger {
	return &RedisLedger{cache: c}
}

func (l *RedisLedger) HasSeen(ctx context.Context, key string) (bool, error) {
	ok, err := l.cache.Exists(ctx, l.cache.GenerateKey(operation, key))
	if err != nil {
		return false, fmt.Errorf("ledger: has seen: %w", err)
	}
	return ok, nil
}

func (l *RedisLedger) MarkSeen(ctx context.Context, key string) error {
	if err := l.cache.Set(ctx, l.cache.GenerateKey(operation, key), 1, 0); err != nil {
		return fmt.Errorf("ledger: mark seen: %w", err)
	}
	return nil
}

// CheckAndMark relies on SET NX being atomic on the server.
func (l *RedisLedger) CheckAndMark(ctx context.Context, key string) (bool, error) {
	first, err := l.cache.SetIfAbsent(ctx, l.cache.GenerateKey(operation, key), 1, 0)
	if err != nil {
		return false, fmt.Errorf("ledger: check and mark: %w", err)
	}
	return first, nil
}
