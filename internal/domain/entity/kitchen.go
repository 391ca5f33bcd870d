package entity

import "time"

// KitchenLine is a price-free, quantity-merged line on a kitchen order ticket.
type KitchenLine struct {
	Key         string `json:"key"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	VariantID   string `json:"variant_id,omitempty"`
	VariantName string `json:"variant_name,omitempty"`
	Quantity    int    `json:"quantity"`
}

// KitchenTicket is the KOT sent to the kitchen printer or display.
type KitchenTicket struct {
	InvoiceNo string        `json:"invoice_no,omitempty"`
	IssuedAt  time.Time     `json:"issued_at"`
	Lines     []KitchenLine `json:"lines"`
}

// TotalQuantity sums the quantities of all lines.
func (t *KitchenTicket) TotalQuantity() int {
	total := 0
	for _, l := range t.Lines {
		total += l.Quantity
	}
	return total
}
