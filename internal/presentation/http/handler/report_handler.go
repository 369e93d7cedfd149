package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotelpos-api/internal/application/service"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles sales report requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Sales returns the total sales in ?from..?to
func (h *ReportHandler) Sales(c *gin.Context) {
	var req request.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	total, err := h.reportService.TotalSales(c.Request.Context(), req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales total retrieved successfully", total)
}

// ExportSales downloads the invoices in ?from..?to as a workbook
func (h *ReportHandler) ExportSales(c *gin.Context) {
	var req request.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	data, err := h.reportService.ExportSales(c.Request.Context(), req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, "sales.xlsx", xlsxContentType, data)
}
