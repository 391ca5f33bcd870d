// Package kitchen derives kitchen order tickets from cart or invoice lines.
package kitchen

import (
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
)

// Project merges lines by identity key, sums their quantities and drops prices.
// Lines keep the order in which each key was first seen.
func Project(items []entity.LineItem) []entity.KitchenLine {
	lines := make([]entity.KitchenLine, 0, len(items))
	index := make(map[string]int, len(items))

	for _, it := range items {
		key := it.Key()
		if i, ok := index[key]; ok {
			lines[i].Quantity += it.Quantity
			continue
		}
		index[key] = len(lines)
		lines = append(lines, entity.KitchenLine{
			Key:         key,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			VariantID:   it.VariantID,
			VariantName: it.VariantName,
			Quantity:    it.Quantity,
		})
	}
	return lines
}

// Ticket builds a kitchen ticket for the given lines.
func Ticket(invoiceNo string, issuedAt time.Time, items []entity.LineItem) *entity.KitchenTicket {
	return &entity.KitchenTicket{
		InvoiceNo: invoiceNo,
		IssuedAt:  issuedAt,
		Lines:     Project(items),
	}
}

// ForInvoice builds the kitchen ticket of a finalized invoice.
func ForInvoice(inv *entity.Invoice) *entity.KitchenTicket {
	return Ticket(inv.InvoiceNo, inv.IssuedAt, inv.LineItems())
}
