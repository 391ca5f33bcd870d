package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/domain/promotion"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/response"
)

// PromotionHandler handles promotion rules and stateless evaluation
type PromotionHandler struct {
	promotionService *service.PromotionService
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(promotionService *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// List handles listing all promotion rules
func (h *PromotionHandler) List(c *gin.Context) {
	rules, err := h.promotionService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	defs := make([]promotion.Definition, len(rules))
	for i := range rules {
		defs[i] = promotion.FromRule(&rules[i])
	}
	response.OK(c, "Promotions retrieved successfully", defs)
}

// Save handles creating or replacing a promotion rule.
// Fields that do not belong to the rule's type are dropped.
func (h *PromotionHandler) Save(c *gin.Context) {
	var def promotion.Definition
	if err := c.ShouldBindJSON(&def); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	rule, err := h.promotionService.Save(c.Request.Context(), def)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion saved successfully", promotion.FromRule(rule))
}

// Get handles getting a promotion rule by code
func (h *PromotionHandler) Get(c *gin.Context) {
	rule, err := h.promotionService.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion retrieved successfully", promotion.FromRule(rule))
}

// Delete handles deleting a promotion rule
func (h *PromotionHandler) Delete(c *gin.Context) {
	if err := h.promotionService.Delete(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion deleted successfully", nil)
}

// Apply handles evaluating a code against a list of items without touching any cart
func (h *PromotionHandler) Apply(c *gin.Context) {
	var req request.EvaluatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.promotionService.Apply(c.Request.Context(), req.Code, request.ToItemInputs(req.Items))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Promotion applied"
	if !result.Valid {
		message = "Promotion not applied"
	}
	response.OK(c, message, result)
}
