package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	"github.com/sangkips/hotelpos-api/pkg/apperror"
	"github.com/sangkips/hotelpos-api/pkg/printer"
	"github.com/sangkips/hotelpos-api/pkg/receipt"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	invoiceRepo repository.InvoiceRepository
	settings    SettingsProvider
	width       int
}

// NewPrinterService creates a new printer service. width is the paper
// width in characters.
func NewPrinterService(
	p printer.Printer,
	invoiceRepo repository.InvoiceRepository,
	settings SettingsProvider,
	width int,
) *PrinterService {
	if width <= 0 {
		width = printer.Width80mm
	}
	return &PrinterService{
		printer:     p,
		invoiceRepo: invoiceRepo,
		settings:    settings,
		width:       width,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != printer.KindNone,
		Connected:  s.printer.IsConnected(),
		Type:       string(kind),
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	r := &entity.Receipt{
		Header:    receiptHeader(settings),
		InvoiceNo: "TEST-001",
		USIN:      "TEST-001",
		Date:      "Printer test",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Total: decimal.NewFromInt(10)},
		},
		SubTotal: decimal.NewFromInt(20),
		Total:    decimal.NewFromInt(20),
	}
	if r.Header.StoreName == "" {
		r.Header.StoreName = "PRINTER TEST"
	}

	if err := s.printer.Print(ctx, FormatReceipt(r, s.width)); err != nil {
		return r, apperror.NewUpstreamError("Test print failed", err)
	}
	return r, nil
}

// PrintInvoice prints the receipt of the invoice with the given USIN.
func (s *PrinterService) PrintInvoice(ctx context.Context, usin string) (*entity.Receipt, error) {
	r, err := s.Receipt(ctx, usin)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(r, s.width)); err != nil {
		log.Printf("Printer error (invoice %s): %v", usin, err)
		return r, apperror.NewUpstreamError("Failed to print receipt", err)
	}
	return r, nil
}

// ReceiptPDF renders the receipt of the invoice with the given USIN as PDF.
func (s *PrinterService) ReceiptPDF(ctx context.Context, usin string) ([]byte, error) {
	r, err := s.Receipt(ctx, usin)
	if err != nil {
		return nil, err
	}
	data, err := receipt.RenderPDF(r)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to render receipt", err)
	}
	return data, nil
}

// Receipt composes the receipt of a saved invoice with the current header.
func (s *PrinterService) Receipt(ctx context.Context, usin string) (*entity.Receipt, error) {
	invoice, err := s.invoiceRepo.GetByUSIN(ctx, strings.TrimSpace(usin))
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReceipt(invoice, settings), nil
}

// BuildReceipt turns a saved invoice into its printable form.
func BuildReceipt(invoice *entity.Invoice, settings entity.Settings) *entity.Receipt {
	r := &entity.Receipt{
		Header:        receiptHeader(settings),
		InvoiceNo:     invoice.InvoiceNumber(),
		USIN:          invoice.USIN,
		PRALinked:     bool(settings.PRALinked),
		Date:          invoice.DateTime.Format("2006-01-02 15:04"),
		Customer:      invoice.BuyerName,
		PaymentMode:   invoice.PaymentMode.String(),
		SubTotal:      invoice.TotalSaleValue,
		GST:           invoice.TotalTaxCharged,
		ServiceCharge: invoice.ServiceCharges,
		POSCharge:     invoice.POSCharges,
		Discount:      invoice.Discount,
		Total:         invoice.TotalBillAmount,
		Paid:          invoice.Paid,
		Balance:       invoice.Balance,
		ShowPaid:      bool(settings.ShowPaid),
		ShowBalance:   bool(settings.ShowBalance),
	}

	if invoice.CheckInDate != nil && invoice.CheckOutDate != nil {
		r.Stay = fmt.Sprintf("%s to %s", invoice.CheckInDate.Format("2006-01-02"), invoice.CheckOutDate.Format("2006-01-02"))
	}

	for _, it := range invoice.Items {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      it.ItemName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2),
		})
	}
	return r
}

func receiptHeader(settings entity.Settings) entity.ReceiptHeader {
	return entity.ReceiptHeader{
		StoreName: settings.RestaurantName,
		Address:   settings.RestaurantAddress,
		Phone:     settings.PhoneNo,
		TaxID:     settings.NTNNumber,
		LogoURL:   settings.LogoPath,
	}
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.Text("NTN: " + r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Invoice info
	doc.KeyValue("Invoice:", r.InvoiceNo)
	if r.PRALinked && r.USIN != r.InvoiceNo {
		doc.KeyValue("USIN:", r.USIN)
	}
	doc.KeyValue("Date:", r.Date)

	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.Stay != "" {
		doc.KeyValue("Stay:", r.Stay)
	}
	if r.PaymentMode != "" {
		doc.KeyValue("Payment:", r.PaymentMode)
	}

	doc.Separator('-')

	// Items
	doc.Row("Item", "Qty", "Amount")
	for _, item := range r.Items {
		doc.Row(item.Name, fmt.Sprintf("%d", item.Quantity), item.Total.StringFixed(2))
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", r.SubTotal.StringFixed(2))
	if r.GST.IsPositive() {
		doc.KeyValue("GST:", r.GST.StringFixed(2))
	}
	if r.ServiceCharge.IsPositive() {
		doc.KeyValue("Service:", r.ServiceCharge.StringFixed(2))
	}
	if r.POSCharge.IsPositive() {
		doc.KeyValue("POS charges:", r.POSCharge.StringFixed(2))
	}
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", "-"+r.Discount.StringFixed(2))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", r.Total.StringFixed(2)).
		SetBold(false)

	if r.ShowPaid {
		doc.KeyValue("Paid:", r.Paid.StringFixed(2))
	}
	if r.ShowBalance {
		doc.KeyValue("Balance:", r.Balance.StringFixed(2))
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for your visit!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
