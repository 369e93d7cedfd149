package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	"github.com/sangkips/hotelpos-api/pkg/apperror"
)

// ReportService summarises sales over date ranges.
type ReportService struct {
	invoiceRepo repository.InvoiceRepository
	loc         *time.Location
	now         func() time.Time
}

// NewReportService creates a new report service
func NewReportService(invoiceRepo repository.InvoiceRepository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{invoiceRepo: invoiceRepo, loc: loc, now: time.Now}
}

// SalesTotal is the summed bill amount over a period.
type SalesTotal struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalSales   decimal.Decimal `json:"total_sales"`
}

// TotalSales sums the invoices dated within [from, to], both days included.
// Missing bounds default to today.
func (s *ReportService) TotalSales(ctx context.Context, from, to string) (*SalesTotal, error) {
	from, to = s.defaultRange(from, to)
	start, end, err := dayRange(from, to, s.loc)
	if err != nil {
		return nil, err
	}

	total, count, err := s.invoiceRepo.SumTotal(ctx, *start, *end)
	if err != nil {
		return nil, err
	}
	return &SalesTotal{From: from, To: to, InvoiceCount: count, TotalSales: total}, nil
}

var salesHeader = []interface{}{
	"USIN", "PRA Invoice No", "Date", "Customer", "Payment Mode", "Type",
	"Sale Value", "GST", "Service Charges", "POS Charges", "Discount", "Total", "Paid", "Balance",
}

// ExportSales renders the invoices within [from, to] as an .xlsx workbook
// with one row per invoice and a totals row.
func (s *ReportService) ExportSales(ctx context.Context, from, to string) ([]byte, error) {
	from, to = s.defaultRange(from, to)
	start, end, err := dayRange(from, to, s.loc)
	if err != nil {
		return nil, err
	}

	invoices, _, err := s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		From:         start,
		To:           end,
		SkipPaginate: true,
	})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sales"
	f.SetSheetName(f.GetSheetName(0), sheet)

	if err := f.SetSheetRow(sheet, "A1", &salesHeader); err != nil {
		return nil, apperror.NewInternalError("Failed to build report", err)
	}

	var sale, gst, service, pos, discount, total, paid, balance decimal.Decimal
	for i, inv := range invoices {
		row := []interface{}{
			inv.USIN,
			inv.PRAInvoiceNumber,
			inv.DateTime.In(s.loc).Format("2006-01-02 15:04"),
			inv.BuyerName,
			inv.PaymentMode.String(),
			inv.InvoiceType.String(),
			inv.TotalSaleValue.InexactFloat64(),
			inv.TotalTaxCharged.InexactFloat64(),
			inv.ServiceCharges.InexactFloat64(),
			inv.POSCharges.InexactFloat64(),
			inv.Discount.InexactFloat64(),
			inv.TotalBillAmount.InexactFloat64(),
			inv.Paid.InexactFloat64(),
			inv.Balance.InexactFloat64(),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return nil, apperror.NewInternalError("Failed to build report", err)
		}

		sale = sale.Add(inv.TotalSaleValue)
		gst = gst.Add(inv.TotalTaxCharged)
		service = service.Add(inv.ServiceCharges)
		pos = pos.Add(inv.POSCharges)
		discount = discount.Add(inv.Discount)
		total = total.Add(inv.TotalBillAmount)
		paid = paid.Add(inv.Paid)
		balance = balance.Add(inv.Balance)
	}

	totals := []interface{}{
		"TOTAL", fmt.Sprintf("%d invoices", len(invoices)), "", "", "", "",
		sale.InexactFloat64(), gst.InexactFloat64(), service.InexactFloat64(), pos.InexactFloat64(),
		discount.InexactFloat64(), total.InexactFloat64(), paid.InexactFloat64(), balance.InexactFloat64(),
	}
	totalsRef, _ := excelize.CoordinatesToCellName(1, len(invoices)+2)
	if err := f.SetSheetRow(sheet, totalsRef, &totals); err != nil {
		return nil, apperror.NewInternalError("Failed to build report", err)
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(salesHeader))
		_ = f.SetCellStyle(sheet, "A1", lastCol+"1", style)
		_ = f.SetCellStyle(sheet, totalsRef, fmt.Sprintf("%s%d", lastCol, len(invoices)+2), style)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.NewInternalError("Failed to write report", err)
	}
	return buf.Bytes(), nil
}

func (s *ReportService) defaultRange(from, to string) (string, string) {
	today := s.now().In(s.loc).Format("2006-01-02")
	if from == "" {
		from = to
	}
	if from == "" {
		from = today
	}
	if to == "" {
		to = from
	}
	return from, to
}
