package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/apperror"
)

// CatalogService exposes read-only product lookups to the till
type CatalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

// GetProduct returns an active product with its variants
func (s *CatalogService) GetProduct(ctx context.Context, code string) (*entity.Product, error) {
	code = strings.TrimSpace(code)
	product, err := s.catalogRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", code, err)
	}
	if product == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", code))
	}
	return product, nil
}
