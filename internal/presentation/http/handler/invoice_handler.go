package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotelpos-api/internal/application/service"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotelpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotelpos-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	loc            *time.Location
}

// NewInvoiceHandler creates a new invoice handler. loc is the business
// time zone used to read dates without an offset.
func NewInvoiceHandler(invoiceService *service.InvoiceService, loc *time.Location) *InvoiceHandler {
	if loc == nil {
		loc = time.Local
	}
	return &InvoiceHandler{invoiceService: invoiceService, loc: loc}
}

// Quote prices a cart without saving it
func (h *InvoiceHandler) Quote(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	input, err := h.invoiceInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	quote, err := h.invoiceService.Quote(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice priced successfully", quote)
}

// Create saves a new invoice. On failure after pricing, the computed
// totals are still returned so the POS can show them.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	input, err := h.invoiceInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.invoiceService.Create(c.Request.Context(), input)
	if err != nil {
		invoiceError(c, err, result)
		return
	}

	response.Created(c, "Invoice saved successfully", result)
}

// CreditUpdate edits a saved invoice as a credit note
func (h *InvoiceHandler) CreditUpdate(c *gin.Context) {
	var req request.CreditInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	input, err := h.creditInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.invoiceService.CreditUpdate(c.Request.Context(), c.Param("usin"), input)
	if err != nil {
		invoiceError(c, err, result)
		return
	}

	response.OK(c, "Invoice updated successfully", result)
}

// List lists invoices in a date range
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.invoiceService.List(c.Request.Context(), &service.ListInvoicesInput{
		From:      filter.From,
		To:        filter.To,
		Search:    filter.Search,
		WithItems: filter.WithItems,
		Params: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Lookup finds an invoice by USIN, or the latest one for a buyer name
func (h *InvoiceHandler) Lookup(c *gin.Context) {
	var req request.InvoiceLookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	invoice, err := h.invoiceService.Lookup(c.Request.Context(), req.USIN, req.BuyerName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// NextUSIN returns the number the next saved invoice will get
func (h *InvoiceHandler) NextUSIN(c *gin.Context) {
	usin, err := h.invoiceService.PeekUSIN(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next USIN retrieved successfully", gin.H{"usin": usin})
}

// BookedRooms lists room codes occupied on ?date
func (h *InvoiceHandler) BookedRooms(c *gin.Context) {
	codes, err := h.invoiceService.BookedRooms(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Booked rooms retrieved successfully", gin.H{"rooms": codes})
}

// Delete removes an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice deleted successfully", nil)
}

func (h *InvoiceHandler) invoiceInput(req *request.CreateInvoiceRequest) (*service.InvoiceInput, error) {
	dateTime, err := parseDateTime(req.DateTime, h.loc)
	if err != nil {
		return nil, err
	}
	stay, err := h.stayInput(req.Stay)
	if err != nil {
		return nil, err
	}

	return &service.InvoiceInput{
		USIN:        req.USIN,
		DateTime:    dateTime,
		Buyer:       buyerInput(req.Buyer),
		PaymentMode: req.PaymentMode,
		Discount:    req.Discount,
		Settlement:  req.Settlement,
		Items:       lineInputs(req.Items),
		Stay:        stay,
	}, nil
}

func (h *InvoiceHandler) creditInput(req *request.CreditInvoiceRequest) (*service.CreditEditInput, error) {
	dateTime, err := parseDateTime(req.DateTime, h.loc)
	if err != nil {
		return nil, err
	}
	stay, err := h.stayInput(req.Stay)
	if err != nil {
		return nil, err
	}

	input := &service.CreditEditInput{
		DateTime:    dateTime,
		PaymentMode: req.PaymentMode,
		Discount:    req.Discount,
		Settlement:  req.Settlement,
		Stay:        stay,
	}
	if req.Buyer != nil {
		buyer := buyerInput(*req.Buyer)
		input.Buyer = &buyer
	}
	if req.Items != nil {
		items := lineInputs(*req.Items)
		input.Items = &items
	}
	return input, nil
}

func (h *InvoiceHandler) stayInput(req *request.StayRequest) (*service.StayInput, error) {
	if req == nil {
		return nil, nil
	}
	checkIn, err := parseDate("check_in_date", req.CheckInDate, h.loc)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseDate("check_out_date", req.CheckOutDate, h.loc)
	if err != nil {
		return nil, err
	}
	return &service.StayInput{
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		TimeIn:           req.TimeIn,
		TimeOut:          req.TimeOut,
		EmergencyContact: req.EmergencyContact,
		Nationality:      req.Nationality,
	}, nil
}

func buyerInput(req request.BuyerRequest) service.BuyerInput {
	return service.BuyerInput{
		Name:    req.Name,
		PNTN:    req.PNTN,
		CNIC:    req.CNIC,
		Phone:   req.Phone,
		Address: req.Address,
	}
}

func lineInputs(lines []request.InvoiceLineRequest) []service.InvoiceLineInput {
	items := make([]service.InvoiceLineInput, 0, len(lines))
	for _, l := range lines {
		items = append(items, service.InvoiceLineInput{
			ItemCode:  l.ItemCode,
			ItemName:  l.ItemName,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			IsRoom:    l.IsRoom,
		})
	}
	return items
}

func invoiceError(c *gin.Context, err error, result *service.InvoiceResult) {
	if result == nil {
		response.Error(c, err)
		return
	}
	response.ErrorWithData(c, err, result)
}
