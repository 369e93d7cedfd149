package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
	LogoURL   string `json:"logo_url,omitempty"`
}

// ReceiptItem is a single printed line.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is composed from a saved invoice at print time; it is not stored.
type Receipt struct {
	Header        ReceiptHeader   `json:"header"`
	InvoiceNo     string          `json:"invoice_no"`
	USIN          string          `json:"usin"`
	PRALinked     bool            `json:"pra_linked"`
	Date          string          `json:"date"`
	Customer      string          `json:"customer,omitempty"`
	PaymentMode   string          `json:"payment_mode,omitempty"`
	Stay          string          `json:"stay,omitempty"`
	Items         []ReceiptItem   `json:"items"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	GST           decimal.Decimal `json:"gst"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	POSCharge     decimal.Decimal `json:"pos_charge"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Balance       decimal.Decimal `json:"balance"`
	ShowPaid      bool            `json:"-"`
	ShowBalance   bool            `json:"-"`
}
