package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotelpos-api/internal/application/service"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer and receipt HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		printFailed(c, err, receipt)
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{"receipt": receipt})
}

// PrintInvoice prints the receipt of a saved invoice.
func (h *PrinterHandler) PrintInvoice(c *gin.Context) {
	receipt, err := h.printerService.PrintInvoice(c.Request.Context(), c.Param("usin"))
	if err != nil {
		printFailed(c, err, receipt)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}

// ReceiptPDF downloads the receipt of a saved invoice as a PDF.
func (h *PrinterHandler) ReceiptPDF(c *gin.Context) {
	usin := c.Param("usin")
	data, err := h.printerService.ReceiptPDF(c.Request.Context(), usin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, "receipt-"+usin+".pdf", "application/pdf", data)
}

// printFailed still hands back the built receipt so the POS can show it.
func printFailed(c *gin.Context, err error, receipt *entity.Receipt) {
	if receipt == nil {
		response.Error(c, err)
		return
	}
	response.ErrorWithData(c, err, gin.H{"receipt": receipt})
}
