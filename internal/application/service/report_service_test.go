package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	infraRepo "github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
)

func TestReportService_TotalSales(t *testing.T) {
	ctx := infraRepo.WithBusiness(context.Background(), uuid.New())
	loc := time.FixedZone("PKT", 5*3600)
	repo := new(mockInvoiceRepo)
	repo.On("SumTotal", ctx,
		time.Date(2026, 3, 1, 0, 0, 0, 0, loc),
		time.Date(2026, 3, 1, 23, 59, 59, 0, loc),
	).Return(dec("1500.50"), int64(3), nil).Once()

	svc := NewReportService(repo, loc)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, loc) }

	got, err := svc.TotalSales(ctx, "", "")

	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", got.From)
	assert.Equal(t, "2026-03-01", got.To)
	assert.Equal(t, int64(3), got.InvoiceCount)
	assert.True(t, dec("1500.50").Equal(got.TotalSales))
	repo.AssertExpectations(t)
}

func TestReportService_ExportSales(t *testing.T) {
	ctx := infraRepo.WithBusiness(context.Background(), uuid.New())
	repo := new(mockInvoiceRepo)
	repo.On("List", ctx, mock.MatchedBy(func(p *repository.InvoiceFilterParams) bool {
		return p.SkipPaginate && p.From != nil && p.To != nil
	})).Return([]entity.Invoice{
		{USIN: "1", BuyerName: "Ali", TotalBillAmount: dec("100"), DateTime: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{USIN: "2", BuyerName: "Sara", TotalBillAmount: dec("250.5"), DateTime: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)},
	}, int64(2), nil).Once()

	data, err := NewReportService(repo, time.UTC).ExportSales(ctx, "2026-03-01", "2026-03-01")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "USIN", rows[0][0])
	assert.Equal(t, "Sara", rows[2][3])
	assert.Equal(t, "TOTAL", rows[3][0])
	assert.Equal(t, "350.5", rows[3][11])
}
