// Package event defines the sale events sent to kitchen displays and reporting.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	TypeSaleCreated   = "SaleCreated"
	TypeSaleCancelled = "SaleCancelled"

	Version = 1
)

// Envelope wraps every event payload.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // invoice number
	Payload       json.RawMessage `json:"payload"`
}

// SaleCreatedPayload carries the totals and the kitchen ticket of a new sale.
type SaleCreatedPayload struct {
	InvoiceNo     string               `json:"invoice_no"`
	TerminalID    string               `json:"terminal_id,omitempty"`
	PaymentMode   string               `json:"payment_mode"`
	PromoCode     string               `json:"promo_code,omitempty"`
	SubTotal      decimal.Decimal      `json:"sub_total"`
	DiscountTotal decimal.Decimal      `json:"discount_total"`
	TaxTotal      decimal.Decimal      `json:"tax_total"`
	GrandTotal    decimal.Decimal      `json:"grand_total"`
	Kitchen       entity.KitchenTicket `json:"kitchen"`
}

// SaleCancelledPayload tells consumers to void a sale.
type SaleCancelledPayload struct {
	InvoiceNo   string    `json:"invoice_no"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// Publisher delivers sale events. Publishing is best effort and must not fail a sale.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// New wraps payload in an envelope.
func New(eventType, producer, correlationID string, payload any, at time.Time) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		EventVersion:  Version,
		OccurredAt:    at.UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

// UnwrapPayload decodes an envelope payload into T.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

// SaleCreated builds the SaleCreated event of an invoice.
func SaleCreated(producer string, inv *entity.Invoice, ticket *entity.KitchenTicket) (Envelope, error) {
	return New(TypeSaleCreated, producer, inv.InvoiceNo, SaleCreatedPayload{
		InvoiceNo:     inv.InvoiceNo,
		TerminalID:    inv.TerminalID,
		PaymentMode:   inv.PaymentMode,
		PromoCode:     inv.PromoCode,
		SubTotal:      inv.SubTotal,
		DiscountTotal: inv.DiscountTotal,
		TaxTotal:      inv.TaxTotal,
		GrandTotal:    inv.GrandTotal,
		Kitchen:       *ticket,
	}, inv.IssuedAt)
}

// SaleCancelled builds the SaleCancelled event of a cancelled invoice.
func SaleCancelled(producer string, inv *entity.Invoice) (Envelope, error) {
	at := time.Now()
	if inv.CancelledAt != nil {
		at = *inv.CancelledAt
	}
	return New(TypeSaleCancelled, producer, inv.InvoiceNo, SaleCancelledPayload{
		InvoiceNo:   inv.InvoiceNo,
		Reason:      inv.CancelReason,
		CancelledAt: at,
	}, at)
}
