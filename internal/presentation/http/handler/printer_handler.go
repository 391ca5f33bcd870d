package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the connection status of the receipt and kitchen printers.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// TestPrint sends a test page to the receipt printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint()
	if err != nil {
		// The receipt is still useful when the printer is disabled
		response.OKWithWarning(c, "Test print completed (printer may be disabled)", gin.H{"receipt": receipt}, err)
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{"receipt": receipt})
}

// PrintReceipt prints the customer receipt of a sale.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	receipt, err := h.printerService.PrintReceipt(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		if receipt != nil {
			response.OKWithWarning(c, "Receipt generated but printing failed", gin.H{"receipt": receipt}, err)
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}

// PrintKitchenTicket prints the KOT of a sale on the kitchen printer.
func (h *PrinterHandler) PrintKitchenTicket(c *gin.Context) {
	ticket, err := h.printerService.PrintKitchenTicket(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		if ticket != nil {
			response.OKWithWarning(c, "Kitchen ticket generated but printing failed", gin.H{"ticket": ticket}, err)
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Kitchen ticket printed successfully", gin.H{"ticket": ticket})
}
