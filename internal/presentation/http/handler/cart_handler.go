package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/response"
)

// CartHandler handles the open cart of the calling terminal
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get handles getting the current cart
func (h *CartHandler) Get(c *gin.Context) {
	view, err := h.cartService.Get(c.Request.Context(), GetTerminalID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", view)
}

// AddItem handles adding a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), GetTerminalID(c), &service.AddItemInput{
		ProductCode: req.ProductCode,
		VariantID:   req.VariantID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", view)
}

// Increment handles adding one unit to a cart line
func (h *CartHandler) Increment(c *gin.Context) {
	view, err := h.cartService.Increment(c.Request.Context(), GetTerminalID(c), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated", view)
}

// Decrement handles removing one unit from a cart line
func (h *CartHandler) Decrement(c *gin.Context) {
	view, err := h.cartService.Decrement(c.Request.Context(), GetTerminalID(c), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated", view)
}

// RemoveItem handles deleting a cart line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.cartService.Remove(c.Request.Context(), GetTerminalID(c), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart", view)
}

// Clear handles emptying the cart
func (h *CartHandler) Clear(c *gin.Context) {
	view, err := h.cartService.Clear(c.Request.Context(), GetTerminalID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart cleared", view)
}

// ApplyPromotion handles applying a promotion code to the cart.
// An invalid code is not an error: the result says why it did not apply.
func (h *CartHandler) ApplyPromotion(c *gin.Context) {
	var req request.ApplyPromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, view, err := h.cartService.ApplyPromotion(c.Request.Context(), GetTerminalID(c), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Promotion applied"
	if !result.Valid {
		message = "Promotion not applied"
	}
	response.OK(c, message, gin.H{
		"promotion": result,
		"cart":      view,
	})
}

// ClearPromotion handles dropping the applied promotion
func (h *CartHandler) ClearPromotion(c *gin.Context) {
	view, err := h.cartService.ClearPromotion(c.Request.Context(), GetTerminalID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion removed", view)
}

// KitchenTicket handles the pre-payment kitchen ticket preview
func (h *CartHandler) KitchenTicket(c *gin.Context) {
	ticket, err := h.cartService.KitchenPreview(c.Request.Context(), GetTerminalID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Kitchen ticket preview", ticket)
}

// Checkout handles finalizing the cart into a sale
func (h *CartHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request: "+err.Error())
			return
		}
	}

	inv, err := h.cartService.Checkout(c.Request.Context(), GetTerminalID(c), &service.CheckoutInput{
		PaymentMode:   req.PaymentMode,
		InvoicePrefix: req.InvoicePrefix,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", inv)
}
