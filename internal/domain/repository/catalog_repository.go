package repository

import (
	"context"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
)

// CatalogRepository is the read-only product catalog
type CatalogRepository interface {
	// GetByCode returns the product with its variants, or nil when it does not exist
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetByCodes retrieves multiple products in a single query; unknown codes are skipped
	GetByCodes(ctx context.Context, codes []string) ([]entity.Product, error)
}
