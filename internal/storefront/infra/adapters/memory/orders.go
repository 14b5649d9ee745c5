package memory

import (
	"context"
	"sync"

	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
)

var _ ports.OrderRepository = (*OrderStore)(nil)

type OrderStore struct {
	mu     sync.RWMutex
	orders []entity.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

func (s *OrderStore) Save(ctx context.Context, o entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, o)
	return nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// Len reports how many orders are stored.
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
