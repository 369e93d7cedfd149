package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/hotelpos-api/internal/domain/billing"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "pos.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Business{},
		&entity.MenuItem{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.UsinCounter{},
	))
	return db
}

func newBusiness(t *testing.T, db *gorm.DB) context.Context {
	t.Helper()
	b := entity.Business{Name: "Karahi House"}
	require.NoError(t, db.Create(&b).Error)
	return WithBusiness(context.Background(), b.ID)
}

func intPtr(n int) *int { return &n }

func stockOf(t *testing.T, db *gorm.DB, ctx context.Context, code string) *int {
	t.Helper()
	item, err := NewMenuRepository(db).GetByCode(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.StockQty
}

func TestMenuRepository_ApplyStockDeltas(t *testing.T) {
	db := newTestDB(t)
	ctx := newBusiness(t, db)
	other := newBusiness(t, db)
	repo := NewMenuRepository(db)

	require.NoError(t, repo.CreateBatch(ctx, []entity.MenuItem{
		{ItemCode: "F1", ItemName: "Tea", ItemCategory: "Drinks", ItemPrice: decimal.NewFromInt(100), StockQty: intPtr(10)},
		{ItemCode: "F2", ItemName: "Naan", ItemCategory: "Bread", ItemPrice: decimal.NewFromInt(30), StockQty: intPtr(5)},
		{ItemCode: "R1", ItemName: "Room 1", ItemCategory: "Rooms", ItemPrice: decimal.NewFromInt(5000)},
	}))
	require.NoError(t, repo.Create(other, &entity.MenuItem{
		ItemCode: "F1", ItemName: "Tea", ItemCategory: "Drinks", ItemPrice: decimal.NewFromInt(90), StockQty: intPtr(10),
	}))

	require.NoError(t, repo.ApplyStockDeltas(ctx, []billing.StockDelta{
		{Code: "F1", SignedQuantity: 3},
		{Code: "F2", SignedQuantity: -2},
		{Code: "R1", SignedQuantity: 2},
	}))

	assert.Equal(t, 7, *stockOf(t, db, ctx, "F1"), "positive delta takes stock")
	assert.Equal(t, 7, *stockOf(t, db, ctx, "F2"), "negative delta returns stock")
	assert.Nil(t, stockOf(t, db, ctx, "R1"), "untracked stock stays untracked")
	assert.Equal(t, 10, *stockOf(t, db, other, "F1"), "other business untouched")

	// Stock may go below zero.
	require.NoError(t, repo.ApplyStockDeltas(ctx, []billing.StockDelta{{Code: "F2", SignedQuantity: 9}}))
	assert.Equal(t, -2, *stockOf(t, db, ctx, "F2"))
}

func TestUsinRepository_PeekAndNext(t *testing.T) {
	db := newTestDB(t)
	ctx := newBusiness(t, db)
	other := newBusiness(t, db)
	repo := NewUsinRepository(db)

	peek, err := repo.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), peek)

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	peek, err = repo.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), peek)

	got, err := repo.Next(other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "counters are per business")

	_, err = repo.Next(context.Background())
	assert.Error(t, err)
}

func TestInvoiceRepository_BookedRoomCodes(t *testing.T) {
	db := newTestDB(t)
	ctx := newBusiness(t, db)
	other := newBusiness(t, db)
	repo := NewInvoiceRepository(db)

	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}
	stay := func(usin, in, out string, items ...entity.InvoiceItem) *entity.Invoice {
		ci, co := day(in), day(out)
		return &entity.Invoice{
			USIN:         usin,
			DateTime:     ci,
			CheckInDate:  &ci,
			CheckOutDate: &co,
			Items:        items,
		}
	}

	require.NoError(t, repo.Create(ctx, stay("1", "2024-01-01", "2024-01-04",
		entity.InvoiceItem{ItemCode: "R1", ItemName: "Room 1", Quantity: 3, IsRoom: true},
		entity.InvoiceItem{ItemCode: "F1", ItemName: "Tea", Quantity: 2},
	), nil))
	require.NoError(t, repo.Create(ctx, stay("2", "2024-01-01", "2024-01-03",
		entity.InvoiceItem{ItemCode: "S2", ItemName: "Deluxe Room", Quantity: 1},
	), nil))
	require.NoError(t, repo.Create(other, stay("1", "2024-01-01", "2024-01-04",
		entity.InvoiceItem{ItemCode: "R7", ItemName: "Room 7", Quantity: 3, IsRoom: true},
	), nil))

	codes, err := repo.BookedRoomCodes(ctx, day("2024-01-02"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"R1", "S2"}, codes)

	codes, err = repo.BookedRoomCodes(ctx, day("2024-01-06"))
	require.NoError(t, err)
	assert.Empty(t, codes)

	codes, err = repo.BookedRoomCodes(ctx, day("2023-12-31"))
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestInvoiceRepository_CreateAppliesStock(t *testing.T) {
	db := newTestDB(t)
	ctx := newBusiness(t, db)
	require.NoError(t, NewMenuRepository(db).Create(ctx, &entity.MenuItem{
		ItemCode: "F1", ItemName: "Tea", ItemCategory: "Drinks", ItemPrice: decimal.NewFromInt(100), StockQty: intPtr(10),
	}))
	repo := NewInvoiceRepository(db)

	invoice := &entity.Invoice{
		USIN:     "1",
		DateTime: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Items:    []entity.InvoiceItem{{ItemCode: "F1", ItemName: "Tea", Quantity: 4}},
	}
	require.NoError(t, repo.Create(ctx, invoice, []billing.StockDelta{{Code: "F1", SignedQuantity: 4}}))
	assert.Equal(t, 6, *stockOf(t, db, ctx, "F1"))

	saved, err := repo.GetByUSIN(ctx, "1")
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, saved.ID, saved.Items[0].InvoiceID)

	// A credit edit that drops a line returns its stock.
	edited := &entity.Invoice{USIN: "1", DateTime: saved.DateTime}
	require.NoError(t, repo.Replace(ctx, edited, []billing.StockDelta{{Code: "F1", SignedQuantity: -4}}))
	assert.Equal(t, 10, *stockOf(t, db, ctx, "F1"))

	saved, err = repo.GetByUSIN(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, saved.Items)
}
