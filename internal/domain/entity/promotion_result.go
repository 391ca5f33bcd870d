package entity

import "github.com/shopspring/decimal"

// BreakdownLine is one human-readable line explaining a promotion result.
type BreakdownLine struct {
	Label  string           `json:"label"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// FreeItem is a reward line granted by an ITEM_FREE promotion.
type FreeItem struct {
	ProductCode string `json:"product_code"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
}

// PromotionResult is the outcome of evaluating a code against a cart. It is never persisted.
type PromotionResult struct {
	Valid          bool            `json:"valid"`
	Message        string          `json:"message,omitempty"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Breakdown      []BreakdownLine `json:"breakdown"`
	FreeItems      []FreeItem      `json:"free_items"`
}
