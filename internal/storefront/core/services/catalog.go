package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/apperrors"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
)

type CatalogService struct {
	catalog ports.Catalog
	newID   func() string
}

func NewCatalogService(catalog ports.Catalog) *CatalogService {
	return &CatalogService{catalog: catalog, newID: uuid.NewString}
}

func (s *CatalogService) List(ctx context.Context) ([]entity.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Create(ctx context.Context, name string, price float64) (entity.Product, error) {
	if strings.TrimSpace(name) == "" {
		return entity.Product{}, fmt.Errorf("%w: name is required", apperrors.ErrInvalidProduct)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return entity.Product{}, fmt.Errorf("%w: price must be positive", apperrors.ErrInvalidProduct)
	}

	p := entity.Product{ID: s.newID(), Name: name, Price: price}
	if err := s.catalog.Append(ctx, p); err != nil {
		return entity.Product{}, fmt.Errorf("append product: %w", err)
	}
	return p, nil
}
