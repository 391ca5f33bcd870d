package promotion

import (
	"strings"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CatalogEntry is what the evaluator needs to know about a product.
type CatalogEntry struct {
	Name     string
	Category string
	Price    decimal.Decimal
}

// Catalog resolves product codes for category scoping and reward naming.
type Catalog interface {
	Lookup(productCode string) (CatalogEntry, bool)
}

// CatalogSnapshot is an immutable in-memory Catalog.
type CatalogSnapshot map[string]CatalogEntry

// NewCatalogSnapshot indexes products by code.
func NewCatalogSnapshot(products []entity.Product) CatalogSnapshot {
	snap := make(CatalogSnapshot, len(products))
	for _, p := range products {
		snap[p.Code] = CatalogEntry{Name: p.Name, Category: p.Category, Price: p.Price}
	}
	return snap
}

// Lookup implements Catalog.
func (s CatalogSnapshot) Lookup(productCode string) (CatalogEntry, bool) {
	e, ok := s[productCode]
	return e, ok
}

func inCategory(catalog Catalog, productCode, category string) bool {
	if catalog == nil {
		return false
	}
	e, ok := catalog.Lookup(productCode)
	return ok && strings.EqualFold(strings.TrimSpace(e.Category), category)
}
