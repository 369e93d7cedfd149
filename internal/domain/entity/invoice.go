package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a saved sale. USIN is the business's own sequential number;
// PRAInvoiceNumber is the number assigned by the tax authority, or the USIN
// when the business is not linked to PRA.
type Invoice struct {
	ID               uuid.UUID        `gorm:"type:varchar(36);primaryKey" json:"id"`
	BusinessID       uuid.UUID        `gorm:"type:varchar(36);not null;uniqueIndex:idx_invoice_business_usin" json:"business_id"`
	USIN             string           `gorm:"column:usin;size:100;not null;uniqueIndex:idx_invoice_business_usin" json:"usin"`
	PRAInvoiceNumber string           `gorm:"column:pra_invoice_number;size:100" json:"pra_invoice_number"`
	RefUSIN          *string          `gorm:"column:ref_usin;size:100" json:"ref_usin,omitempty"`
	DateTime         time.Time        `gorm:"column:datetime;not null;index" json:"datetime"`
	BuyerName        string           `gorm:"size:255" json:"buyer_name"`
	BuyerPNTN        string           `gorm:"column:buyer_pntn;size:50" json:"buyer_pntn"`
	BuyerCNIC        string           `gorm:"column:buyer_cnic;size:50" json:"buyer_cnic"`
	BuyerPhone       string           `gorm:"size:50" json:"buyer_phone"`
	Address          string           `gorm:"type:text" json:"address"`
	TotalSaleValue   decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"total_sale_value"`
	TotalTaxCharged  decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"total_tax_charged"`
	Discount         decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"discount"`
	FurtherTax       decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"further_tax"`
	TotalBillAmount  decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"total_bill_amount"`
	TotalQuantity    int              `gorm:"default:0" json:"total_quantity"`
	PaymentMode      enum.PaymentMode `gorm:"default:1" json:"payment_mode"`
	InvoiceType      enum.InvoiceType `gorm:"default:1" json:"invoice_type"`
	POSCharges       decimal.Decimal  `gorm:"column:pos_charges;type:decimal(20,4);default:0" json:"pos_charges"`
	ServiceCharges   decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"service_charges"`
	Balance          decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"balance"`
	Paid             decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"paid"`

	// Hotel stays
	CheckInDate      *time.Time `gorm:"type:date;index" json:"check_in_date,omitempty"`
	CheckOutDate     *time.Time `gorm:"type:date;index" json:"check_out_date,omitempty"`
	TimeIn           *string    `gorm:"size:10" json:"time_in,omitempty"`
	TimeOut          *string    `gorm:"size:10" json:"time_out,omitempty"`
	EmergencyContact *string    `gorm:"size:100" json:"emergency_contact,omitempty"`
	Nationality      *string    `gorm:"size:100" json:"nationality,omitempty"`

	CreatedBy *uuid.UUID `gorm:"type:varchar(36)" json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Business Business      `gorm:"foreignKey:BusinessID" json:"-"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceNumber is the number printed on the receipt.
func (i *Invoice) InvoiceNumber() string {
	if i.PRAInvoiceNumber != "" {
		return i.PRAInvoiceNumber
	}
	return i.USIN
}

// InvoiceItem is one line of a saved invoice.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:varchar(36);primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"invoice_id"`
	BusinessID  uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"business_id"`
	Position    int             `gorm:"not null;default:0" json:"-"`
	ItemCode    string          `gorm:"size:100;not null;index" json:"item_code"`
	ItemName    string          `gorm:"size:255;not null" json:"item_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"tax_rate"`
	SaleValue   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sale_value"`
	TaxCharged  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_charged"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	IsRoom      bool            `gorm:"default:false" json:"is_room"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// UsinCounter hands out sequential invoice numbers per business.
type UsinCounter struct {
	BusinessID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"business_id"`
	LastValue  int64     `gorm:"not null;default:0" json:"last_value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the table name for the UsinCounter model
func (UsinCounter) TableName() string {
	return "usin_counters"
}
