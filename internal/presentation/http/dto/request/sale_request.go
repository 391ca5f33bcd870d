package request

import "github.com/sangkips/tablepos-api/internal/application/service"

// SaleItemRequest is one ordered product in a stateless request
type SaleItemRequest struct {
	ProductCode string `json:"product_code" binding:"required,max=50"`
	VariantID   string `json:"variant_id" binding:"omitempty,max=50"`
	Quantity    int    `json:"quantity" binding:"omitempty,min=1,max=999"`
}

// CreateSaleRequest represents a stateless sale request
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" binding:"dive"`
	PromoCode     string            `json:"promo_code" binding:"omitempty,max=50"`
	PaymentMode   string            `json:"payment_mode" binding:"omitempty,max=30"`
	InvoicePrefix string            `json:"invoice_prefix" binding:"omitempty,max=20"`
}

// EvaluatePromotionRequest represents a stateless promotion check
type EvaluatePromotionRequest struct {
	Code  string            `json:"code" binding:"required,max=50"`
	Items []SaleItemRequest `json:"items" binding:"dive"`
}

// CancelSaleRequest represents a cancellation request.
// An empty reason is rejected by the service with a field error.
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// SaleFilterRequest represents the sale listing query
type SaleFilterRequest struct {
	Status     string `form:"status"`
	TerminalID string `form:"terminal_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// ToItemInputs converts request items for the services
func ToItemInputs(items []SaleItemRequest) []service.ItemInput {
	inputs := make([]service.ItemInput, len(items))
	for i, it := range items {
		inputs[i] = service.ItemInput{
			ProductCode: it.ProductCode,
			VariantID:   it.VariantID,
			Quantity:    it.Quantity,
		}
	}
	return inputs
}
