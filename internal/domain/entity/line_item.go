package entity

import (
	"github.com/shopspring/decimal"
)

// BaseVariant is the identity suffix used for products sold without a variant.
const BaseVariant = "base"

// IdentityKey returns the cart identity of a product+variant pair.
func IdentityKey(productCode, variantID string) string {
	if variantID == "" {
		variantID = BaseVariant
	}
	return productCode + ":" + variantID
}

// LineItem is one priced product+variant entry in a cart or invoice.
// UnitPrice is captured when the item is added and never re-derived from the catalog.
type LineItem struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	VariantID   string          `json:"variant_id,omitempty"`
	VariantName string          `json:"variant_name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Free        bool            `json:"free,omitempty"`
}

// Key returns the identity key of the line.
func (l LineItem) Key() string {
	return IdentityKey(l.ProductCode, l.VariantID)
}

// Total returns quantity times unit price.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DisplayName renders "name (variant)" the way receipts and tickets print it.
func (l LineItem) DisplayName() string {
	if l.VariantName == "" {
		return l.ProductName
	}
	return l.ProductName + " (" + l.VariantName + ")"
}
