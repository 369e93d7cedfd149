package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/enum"
	infraRepo "github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
	"github.com/sangkips/hotelpos-api/pkg/printer"
)

type fakePrinter struct {
	printed [][]byte
	err     error
}

func (p *fakePrinter) Print(_ context.Context, data []byte) error {
	p.printed = append(p.printed, data)
	return p.err
}
func (p *fakePrinter) IsConnected() bool  { return p.err == nil }
func (p *fakePrinter) Kind() printer.Kind { return printer.KindNetwork }

func receiptSettings() entity.Settings {
	s := entity.DefaultSettings()
	s.RestaurantName = "Karahi House"
	s.NTNNumber = "1234567-8"
	s.PRALinked = true
	return s
}

func savedInvoice() *entity.Invoice {
	in := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, 2)
	return &entity.Invoice{
		USIN:             "42",
		PRAInvoiceNumber: "PRA-9",
		DateTime:         time.Date(2026, 3, 3, 11, 30, 0, 0, time.UTC),
		BuyerName:        "Ali",
		PaymentMode:      enum.PaymentModeCash,
		TotalSaleValue:   dec("10200"),
		TotalTaxCharged:  dec("1632"),
		ServiceCharges:   dec("50"),
		TotalBillAmount:  dec("11882"),
		Paid:             dec("10000"),
		Balance:          dec("1882"),
		CheckInDate:      &in,
		CheckOutDate:     &out,
		Items: []entity.InvoiceItem{
			{ItemName: "Room 101", Quantity: 2, UnitPrice: dec("5000")},
			{ItemName: "Tea", Quantity: 2, UnitPrice: dec("100")},
		},
	}
}

func TestBuildReceipt(t *testing.T) {
	r := BuildReceipt(savedInvoice(), receiptSettings())

	assert.Equal(t, "PRA-9", r.InvoiceNo)
	assert.Equal(t, "42", r.USIN)
	assert.Equal(t, "2026-03-01 to 2026-03-03", r.Stay)
	require.Len(t, r.Items, 2)
	assert.True(t, dec("10000").Equal(r.Items[0].Total))
	assert.True(t, r.ShowPaid)
}

func TestFormatReceipt(t *testing.T) {
	out := string(FormatReceipt(BuildReceipt(savedInvoice(), receiptSettings()), printer.Width58mm))

	for _, want := range []string{"Karahi House", "NTN: 1234567-8", "PRA-9", "USIN:", "Room 101", "11882.00", "Balance:", "1882.00"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Discount:")
}

func TestPrinterService_PrintInvoice(t *testing.T) {
	ctx := infraRepo.WithBusiness(context.Background(), uuid.New())
	repo := new(mockInvoiceRepo)
	repo.On("GetByUSIN", ctx, "42").Return(savedInvoice(), nil)
	repo.On("GetByUSIN", ctx, "99").Return(nil, nil)
	settings := &stubSettings{settings: receiptSettings()}

	t.Run("prints", func(t *testing.T) {
		p := &fakePrinter{}
		r, err := NewPrinterService(p, repo, settings, 0).PrintInvoice(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "PRA-9", r.InvoiceNo)
		assert.Len(t, p.printed, 1)
	})

	t.Run("printer failure returns the receipt", func(t *testing.T) {
		p := &fakePrinter{err: errors.New("offline")}
		r, err := NewPrinterService(p, repo, settings, 0).PrintInvoice(ctx, "42")
		assert.Equal(t, http.StatusBadGateway, appCode(t, err))
		assert.NotNil(t, r)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		_, err := NewPrinterService(&fakePrinter{}, repo, settings, 0).PrintInvoice(ctx, "99")
		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})
}

func TestPrinterService_ReceiptPDF(t *testing.T) {
	ctx := infraRepo.WithBusiness(context.Background(), uuid.New())
	repo := new(mockInvoiceRepo)
	repo.On("GetByUSIN", ctx, "42").Return(savedInvoice(), nil)

	data, err := NewPrinterService(printer.NewNullPrinter(), repo, &stubSettings{settings: receiptSettings()}, 0).ReceiptPDF(ctx, "42")

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPrinterService_GetStatus(t *testing.T) {
	status := NewPrinterService(printer.NewNullPrinter(), nil, nil, 0).GetStatus()
	assert.False(t, status.Configured)
	assert.Equal(t, "none", status.Type)
}
