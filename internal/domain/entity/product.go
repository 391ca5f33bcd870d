package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The catalog is read-only to this service.
type Product struct {
	Code      string           `gorm:"size:50;primary_key" json:"code"`
	Name      string           `gorm:"size:255;not null" json:"name"`
	Category  string           `gorm:"size:100;index" json:"category"`
	Price     decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	Active    bool             `gorm:"not null" json:"active"`
	Variants  []ProductVariant `gorm:"foreignKey:ProductCode;references:Code" json:"variants,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Variant returns the variant with the given id.
func (p *Product) Variant(id string) (*ProductVariant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// ProductVariant is a priced variation of a product (size, portion).
type ProductVariant struct {
	ID          string          `gorm:"size:50;primary_key" json:"id"`
	ProductCode string          `gorm:"size:50;primary_key" json:"-"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}
