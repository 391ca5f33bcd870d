package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Free      bool            `json:"free,omitempty"`
}

// Receipt is a printable view of an invoice, composed at print time.
type Receipt struct {
	Header         ReceiptHeader    `json:"header"`
	InvoiceNo      string           `json:"invoice_no"`
	Date           string           `json:"date"`
	PaymentType    string           `json:"payment_type,omitempty"`
	Status         string           `json:"status"`
	CancelReason   string           `json:"cancel_reason,omitempty"`
	Items          []ReceiptItem    `json:"items"`
	SubTotal       decimal.Decimal  `json:"sub_total"`
	Discount       decimal.Decimal  `json:"discount"`
	PromoCode      string           `json:"promo_code,omitempty"`
	PromoBreakdown []BreakdownLine  `json:"promo_breakdown,omitempty"`
	Tax            decimal.Decimal  `json:"tax"`
	RoundOff       *decimal.Decimal `json:"round_off,omitempty"`
	Total          decimal.Decimal  `json:"total"`
}
