// Package receipt renders invoice receipts as PDF documents.
package receipt

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
)

// Paper is 80mm thermal roll width; height grows with the item count.
const (
	paperWidth  = 80.0
	margin      = 4.0
	lineHeight  = 4.5
	baseHeight  = 110.0
	contentWide = paperWidth - 2*margin
)

// RenderPDF lays out r on a single receipt-width page.
func RenderPDF(r *entity.Receipt) ([]byte, error) {
	height := baseHeight + float64(len(r.Items))*lineHeight*1.6
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: paperWidth, Ht: height},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 12)
	pdf.MultiCell(contentWide, 6, tr(r.Header.StoreName), "", "C", false)
	pdf.SetFont("Arial", "", 8)
	for _, line := range []string{r.Header.Address, r.Header.Phone} {
		if line != "" {
			pdf.MultiCell(contentWide, lineHeight, tr(line), "", "C", false)
		}
	}
	if r.Header.TaxID != "" {
		pdf.MultiCell(contentWide, lineHeight, tr("NTN: "+r.Header.TaxID), "", "C", false)
	}
	rule(pdf)

	keyValue(pdf, tr, "Invoice #", r.InvoiceNo)
	if r.PRALinked && r.USIN != r.InvoiceNo {
		keyValue(pdf, tr, "USIN", r.USIN)
	}
	keyValue(pdf, tr, "Date", r.Date)
	if r.Customer != "" {
		keyValue(pdf, tr, "Customer", r.Customer)
	}
	if r.Stay != "" {
		keyValue(pdf, tr, "Stay", r.Stay)
	}
	if r.PaymentMode != "" {
		keyValue(pdf, tr, "Payment", r.PaymentMode)
	}
	rule(pdf)

	// Items
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(contentWide-32, lineHeight, "Item", "", 0, "L", false, 0, "")
	pdf.CellFormat(10, lineHeight, "Qty", "", 0, "R", false, 0, "")
	pdf.CellFormat(22, lineHeight, "Amount", "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	for _, it := range r.Items {
		pdf.CellFormat(contentWide-32, lineHeight, tr(fit(pdf, it.Name, contentWide-33)), "", 0, "L", false, 0, "")
		pdf.CellFormat(10, lineHeight, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(22, lineHeight, money(it.Total), "", 1, "R", false, 0, "")
		if it.Quantity > 1 {
			pdf.SetFont("Arial", "I", 7)
			pdf.CellFormat(contentWide, lineHeight*0.8, "  @ "+money(it.UnitPrice), "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "", 8)
		}
	}
	rule(pdf)

	keyValue(pdf, tr, "Subtotal", money(r.SubTotal))
	keyValue(pdf, tr, "GST", money(r.GST))
	if !r.ServiceCharge.IsZero() {
		keyValue(pdf, tr, "Service Charges", money(r.ServiceCharge))
	}
	if !r.POSCharge.IsZero() {
		keyValue(pdf, tr, "POS Charges", money(r.POSCharge))
	}
	if !r.Discount.IsZero() {
		keyValue(pdf, tr, "Discount", "-"+money(r.Discount))
	}
	pdf.SetFont("Arial", "B", 10)
	keyValue(pdf, tr, "TOTAL", money(r.Total))
	pdf.SetFont("Arial", "", 8)
	if r.ShowPaid {
		keyValue(pdf, tr, "Paid", money(r.Paid))
	}
	if r.ShowBalance {
		keyValue(pdf, tr, "Balance", money(r.Balance))
	}
	rule(pdf)

	pdf.Ln(2)
	pdf.MultiCell(contentWide, lineHeight, "Thank you for your visit!", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func keyValue(pdf *gofpdf.Fpdf, tr func(string) string, key, value string) {
	half := contentWide / 2
	pdf.CellFormat(half, lineHeight, tr(key), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, lineHeight, tr(value), "", 1, "R", false, 0, "")
}

func rule(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1
	pdf.Line(margin, y, paperWidth-margin, y)
	pdf.SetY(y + 1)
}

// fit shortens s with an ellipsis until it fits in width mm.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 1 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
