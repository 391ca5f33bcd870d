// Package invoice turns a cart and its promotion result into a priced invoice.
package invoice

import (
	"errors"
	"strings"
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DefaultPaymentMode is used when the cashier does not pick one.
const DefaultPaymentMode = "Cash"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrAlreadyCancelled   = errors.New("invoice already cancelled")
	ErrCancelReasonNeeded = errors.New("cancel reason is required")
)

// Assemble prices the items and returns an invoice ready to be numbered and stored.
// A nil or invalid promotion result contributes no discount and no free items.
func Assemble(items []entity.LineItem, promo *entity.PromotionResult, paymentMode string, tax TaxPolicy) (*entity.Invoice, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if tax == nil {
		tax = ZeroTax{}
	}

	lines := make([]entity.LineItem, 0, len(items))
	lines = append(lines, items...)

	subTotal := decimal.Zero
	for _, l := range lines {
		subTotal = subTotal.Add(l.Total())
	}

	discount := decimal.Zero
	inv := &entity.Invoice{}
	if promo != nil && promo.Valid {
		discount = promo.DiscountAmount
		inv.PromoCode = promo.Code
		inv.PromoBreakdown = append([]entity.BreakdownLine(nil), promo.Breakdown...)
		for _, f := range promo.FreeItems {
			lines = append(lines, entity.LineItem{
				ProductCode: f.ProductCode,
				ProductName: f.Name,
				UnitPrice:   decimal.Zero,
				Quantity:    f.Quantity,
				Free:        true,
			})
		}
	}

	taxTotal := tax.Tax(subTotal, discount)
	raw := subTotal.Sub(discount).Add(taxTotal)
	grand := decimal.Max(decimal.Zero, raw).Round(2)

	inv.SubTotal = subTotal
	inv.DiscountTotal = discount
	inv.TaxTotal = taxTotal
	inv.GrandTotal = grand
	inv.RoundOff = grand.Sub(raw)
	inv.PaymentMode = normalizePaymentMode(paymentMode)
	inv.Status = enum.InvoiceStatusCreated
	inv.Items = make([]entity.InvoiceItem, len(lines))
	for i, l := range lines {
		inv.Items[i] = entity.NewInvoiceItem(i, l)
	}
	return inv, nil
}

// Cancel moves a created invoice to Cancelled and records the reason.
func Cancel(inv *entity.Invoice, reason string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancelReasonNeeded
	}
	if !inv.Status.CanTransition(enum.InvoiceStatusCancelled) {
		return ErrAlreadyCancelled
	}
	inv.Status = enum.InvoiceStatusCancelled
	inv.CancelReason = reason
	inv.CancelledAt = &at
	return nil
}

func normalizePaymentMode(mode string) string {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return DefaultPaymentMode
	}
	return mode
}
