package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoundOffThreshold is the smallest round-off magnitude worth printing.
var RoundOffThreshold = decimal.New(1, -2)

// Invoice is a finalized sale. Only the cancellation fields change after creation.
type Invoice struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo      string             `gorm:"size:50;uniqueIndex;not null" json:"invoice_no"`
	TerminalID     string             `gorm:"size:64;index" json:"terminal_id,omitempty"`
	IssuedAt       time.Time          `gorm:"not null;index" json:"issued_at"`
	SubTotal       decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"sub_total"`
	DiscountTotal  decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"discount_total"`
	PromoCode      string             `gorm:"size:50" json:"promo_code,omitempty"`
	PromoBreakdown []BreakdownLine    `gorm:"serializer:json;type:jsonb" json:"promo_breakdown,omitempty"`
	TaxTotal       decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"tax_total"`
	RoundOff       decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"round_off"`
	GrandTotal     decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"grand_total"`
	PaymentMode    string             `gorm:"size:30;not null" json:"payment_mode"`
	Status         enum.InvoiceStatus `gorm:"default:0;index" json:"status"`
	CancelReason   string             `gorm:"size:255" json:"cancel_reason,omitempty"`
	CancelledAt    *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// LineItems returns the frozen invoice lines in their original order.
func (i *Invoice) LineItems() []LineItem {
	items := make([]LineItem, len(i.Items))
	for idx, it := range i.Items {
		items[idx] = it.LineItem()
	}
	return items
}

// ShowRoundOff reports whether the round-off is large enough to print.
func (i *Invoice) ShowRoundOff() bool {
	return i.RoundOff.Abs().GreaterThanOrEqual(RoundOffThreshold)
}

// InvoiceItem is a frozen copy of a cart line, or a free reward line at price 0.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position    int             `gorm:"not null" json:"position"`
	ProductCode string          `gorm:"size:50;not null" json:"product_code"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	VariantID   string          `gorm:"size:50" json:"variant_id,omitempty"`
	VariantName string          `gorm:"size:100" json:"variant_name,omitempty"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_total"`
	Free        bool            `gorm:"default:false" json:"free"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// LineItem converts the stored row back into a LineItem.
func (it InvoiceItem) LineItem() LineItem {
	return LineItem{
		ProductCode: it.ProductCode,
		ProductName: it.ProductName,
		VariantID:   it.VariantID,
		VariantName: it.VariantName,
		UnitPrice:   it.UnitPrice,
		Quantity:    it.Quantity,
		Free:        it.Free,
	}
}

// NewInvoiceItem freezes a line item at the given position.
func NewInvoiceItem(position int, l LineItem) InvoiceItem {
	return InvoiceItem{
		Position:    position,
		ProductCode: l.ProductCode,
		ProductName: l.ProductName,
		VariantID:   l.VariantID,
		VariantName: l.VariantName,
		UnitPrice:   l.UnitPrice,
		Quantity:    l.Quantity,
		LineTotal:   l.Total(),
		Free:        l.Free,
	}
}

// InvoiceSequence holds the last number issued for an invoice prefix.
type InvoiceSequence struct {
	Prefix    string    `gorm:"size:20;primary_key"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
