package memory

import (
	"context"
	"sync"

	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
)

var _ ports.IdempotencyLedger = (*Ledger)(nil)

// Ledger is a process-local set of idempotency keys. Keys are never
// evicted.
type Ledger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

func (l *Ledger) HasSeen(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.seen[key]
	return ok, nil
}

func (l *Ledger) MarkSeen(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seen[key] = struct{}{}
	return nil
}

// CheckAndMark tests and inserts under one lock acquisition.
func (l *Ledger) CheckAndMark(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[key]; ok {
		return false, nil
	}
	l.seen[key] = struct{}{}
	return true, nil
}
