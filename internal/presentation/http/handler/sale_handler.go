package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tablepos-api/pkg/pagination"
)

// statusAll lists sales of every status
const statusAll = "all"

// SaleHandler handles finalized sales
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles a stateless sale: items are priced from the catalog and finalized at once
func (h *SaleHandler) Create(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	inv, err := h.saleService.CreateSale(c.Request.Context(), &service.CreateSaleInput{
		TerminalID:    GetTerminalID(c),
		Items:         request.ToItemInputs(req.Items),
		PromoCode:     req.PromoCode,
		PaymentMode:   req.PaymentMode,
		InvoicePrefix: req.InvoicePrefix,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", inv)
}

// List handles listing sales. Without a status only open sales are returned.
func (h *SaleHandler) List(c *gin.Context) {
	var req request.SaleFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query: "+err.Error())
		return
	}

	filter := &service.SaleFilter{
		TerminalID: req.TerminalID,
		StartDate:  parseDate(req.StartDate),
		EndDate:    endOfDay(parseDate(req.EndDate)),
		Pagination: &pagination.PaginationParams{
			Page:    req.Page,
			PerPage: req.PerPage,
		},
	}

	switch status := strings.TrimSpace(req.Status); {
	case status == "":
	case strings.EqualFold(status, statusAll):
		filter.AllStatus = true
	default:
		parsed, err := enum.ParseInvoiceStatus(status)
		if err != nil {
			response.BadRequest(c, "Invalid status. Use Created, Cancelled or all")
			return
		}
		filter.Status = &parsed
	}

	invoices, page, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully",
		pagination.NewPaginatedResult[entity.Invoice](invoices, page))
}

// Get handles retrieving a sale by invoice number, whatever its status
func (h *SaleHandler) Get(c *gin.Context) {
	inv, err := h.saleService.GetSale(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", inv)
}

// Cancel handles cancelling a sale with a reason
func (h *SaleHandler) Cancel(c *gin.Context) {
	var req request.CancelSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	inv, err := h.saleService.CancelSale(c.Request.Context(), c.Param("invoiceNo"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale cancelled successfully", inv)
}

// KitchenTicket handles the kitchen projection of a sale
func (h *SaleHandler) KitchenTicket(c *gin.Context) {
	ticket, err := h.saleService.KitchenTicket(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Kitchen ticket retrieved successfully", ticket)
}
