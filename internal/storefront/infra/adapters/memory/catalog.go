package memory

import (
	"context"
	"sync"

	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
)

var _ ports.Catalog = (*CatalogStore)(nil)

// CatalogStore keeps products in insertion order.
type CatalogStore struct {
	mu       sync.RWMutex
	products []entity.Product
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{}
}

func (s *CatalogStore) Append(ctx context.Context, p entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append(s.products, p)
	return nil
}

func (s *CatalogStore) List(ctx context.Context) ([]entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}
