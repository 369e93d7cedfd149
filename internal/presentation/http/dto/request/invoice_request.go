package request

import (
	"github.com/sangkips/hotelpos-api/internal/domain/billing"
	"github.com/sangkips/hotelpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// InvoiceLineRequest is one line of the POS cart
type InvoiceLineRequest struct {
	ItemCode  string          `json:"item_code" binding:"required"`
	ItemName  string          `json:"item_name" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity" binding:"min=1"`
	IsRoom    *bool           `json:"is_room"`
}

// StayRequest carries hotel stay details. Dates are YYYY-MM-DD.
type StayRequest struct {
	CheckInDate      string  `json:"check_in_date" binding:"required"`
	CheckOutDate     string  `json:"check_out_date" binding:"required"`
	TimeIn           *string `json:"time_in"`
	TimeOut          *string `json:"time_out"`
	EmergencyContact *string `json:"emergency_contact"`
	Nationality      *string `json:"nationality"`
}

// BuyerRequest identifies the customer
type BuyerRequest struct {
	Name    string `json:"buyer_name"`
	PNTN    string `json:"buyer_pntn"`
	CNIC    string `json:"buyer_cnic"`
	Phone   string `json:"buyer_phone"`
	Address string `json:"address"`
}

// CreateInvoiceRequest represents a quote or a new invoice. DateTime is
// RFC 3339 or "YYYY-MM-DD HH:MM:SS" in the business time zone.
type CreateInvoiceRequest struct {
	USIN        string               `json:"usin"`
	DateTime    string               `json:"datetime"`
	Buyer       BuyerRequest         `json:"buyer"`
	PaymentMode enum.PaymentMode     `json:"payment_mode"`
	Discount    decimal.Decimal      `json:"discount"`
	Settlement  billing.Settlement   `json:"settlement"`
	Items       []InvoiceLineRequest `json:"items" binding:"dive"`
	Stay        *StayRequest         `json:"stay"`
}

// CreditInvoiceRequest edits a saved invoice. Omitted fields keep their
// stored values.
type CreditInvoiceRequest struct {
	DateTime    string                `json:"datetime"`
	Buyer       *BuyerRequest         `json:"buyer"`
	PaymentMode *enum.PaymentMode     `json:"payment_mode"`
	Discount    *decimal.Decimal      `json:"discount"`
	Settlement  *billing.Settlement   `json:"settlement"`
	Items       *[]InvoiceLineRequest `json:"items"`
	Stay        *StayRequest          `json:"stay"`
}

// InvoiceFilterRequest represents invoice list parameters. Dates are YYYY-MM-DD.
type InvoiceFilterRequest struct {
	From      string `form:"from"`
	To        string `form:"to"`
	Search    string `form:"search"`
	WithItems bool   `form:"with_items"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// InvoiceLookupRequest finds one invoice by USIN or buyer name
type InvoiceLookupRequest struct {
	USIN      string `form:"usin"`
	BuyerName string `form:"buyer_name"`
}
