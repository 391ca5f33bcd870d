// Package memory holds in-process implementations of the repository interfaces.
// They back the memory database driver and the test suites.
package memory

import (
	"context"
	"sync"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
)

// CatalogRepository is a read-only catalog kept in a map.
type CatalogRepository struct {
	mu       sync.RWMutex
	products map[string]entity.Product
}

// NewCatalogRepository creates a catalog holding the given products.
func NewCatalogRepository(products ...entity.Product) *CatalogRepository {
	r := &CatalogRepository{products: make(map[string]entity.Product, len(products))}
	for _, p := range products {
		r.products[p.Code] = p
	}
	return r
}

// Put adds or replaces a product.
func (r *CatalogRepository) Put(p entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.Code] = p
}

func (r *CatalogRepository) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[code]
	if !ok || !p.Active {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r *CatalogRepository) GetByCodes(_ context.Context, codes []string) ([]entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Product, 0, len(codes))
	for _, code := range codes {
		if p, ok := r.products[code]; ok {
			out = append(out, *cloneProduct(p))
		}
	}
	return out, nil
}

func cloneProduct(p entity.Product) *entity.Product {
	p.Variants = append([]entity.ProductVariant(nil), p.Variants...)
	return &p
}
