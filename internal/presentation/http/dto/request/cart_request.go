package request

// AddCartItemRequest represents an add-to-cart request.
// Quantity defaults to 1 when omitted.
type AddCartItemRequest struct {
	ProductCode string `json:"product_code" binding:"required,max=50"`
	VariantID   string `json:"variant_id" binding:"omitempty,max=50"`
	Quantity    int    `json:"quantity" binding:"omitempty,min=1,max=999"`
}

// ApplyPromotionRequest represents a promotion code entered at the till
type ApplyPromotionRequest struct {
	Code string `json:"code" binding:"required,max=50"`
}

// CheckoutRequest represents a cart checkout request
type CheckoutRequest struct {
	PaymentMode   string `json:"payment_mode" binding:"omitempty,max=30"`
	InvoicePrefix string `json:"invoice_prefix" binding:"omitempty,max=20"`
}
