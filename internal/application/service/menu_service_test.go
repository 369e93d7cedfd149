package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	infraRepo "github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
)

func workbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestMenuService_Create(t *testing.T) {
	businessID := uuid.New()
	ctx := infraRepo.WithBusiness(context.Background(), businessID)

	t.Run("creates", func(t *testing.T) {
		repo := new(mockMenuRepo)
		repo.On("GetByCode", ctx, "K1").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(m *entity.MenuItem) bool {
			return m.BusinessID == businessID && m.ItemName == "Karahi" && m.StockQty == nil
		})).Return(nil).Once()

		item, err := NewMenuService(repo).Create(ctx, &MenuItemInput{
			ItemCode: " K1 ", ItemName: "Karahi", ItemCategory: "Mains", ItemPrice: dec("1200"),
		})

		require.NoError(t, err)
		assert.Equal(t, "K1", item.ItemCode)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(mockMenuRepo)
		repo.On("GetByCode", ctx, "K1").Return(&entity.MenuItem{ItemCode: "K1"}, nil).Once()

		_, err := NewMenuService(repo).Create(ctx, &MenuItemInput{
			ItemCode: "K1", ItemName: "Karahi", ItemCategory: "Mains", ItemPrice: dec("1200"),
		})

		assert.Equal(t, http.StatusConflict, appCode(t, err))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := NewMenuService(new(mockMenuRepo)).Create(ctx, &MenuItemInput{ItemCode: "K1", ItemPrice: dec("-5")})
		assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
	})
}

func TestMenuService_UpdateRenamesCode(t *testing.T) {
	ctx := infraRepo.WithBusiness(context.Background(), uuid.New())
	repo := new(mockMenuRepo)
	stock := 4
	repo.On("GetByCode", ctx, "K1").Return(&entity.MenuItem{ItemCode: "K1", ItemName: "Karahi"}, nil).Once()
	repo.On("GetByCode", ctx, "K2").Return(nil, nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(m *entity.MenuItem) bool {
		return m.ItemCode == "K2" && *m.StockQty == 4
	})).Return(nil).Once()

	_, err := NewMenuService(repo).Update(ctx, "K1", &MenuItemInput{
		ItemCode: "K2", ItemName: "Karahi", ItemCategory: "Mains", ItemPrice: dec("1300"), StockQty: &stock,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestMenuService_Import(t *testing.T) {
	businessID := uuid.New()
	ctx := infraRepo.WithBusiness(context.Background(), businessID)
	repo := new(mockMenuRepo)
	repo.On("GetByCode", ctx, "K1").Return(nil, nil).Once()
	repo.On("GetByCode", ctx, "R1").Return(nil, nil).Once()
	repo.On("GetByCode", ctx, "OLD").Return(&entity.MenuItem{ItemCode: "OLD"}, nil).Once()
	repo.On("CreateBatch", ctx, mock.MatchedBy(func(items []entity.MenuItem) bool {
		return len(items) == 2 &&
			items[0].ItemCode == "K1" && items[0].StockQty != nil && *items[0].StockQty == 10 &&
			items[1].ItemCode == "R1" && items[1].StockQty == nil
	})).Return(nil).Once()

	data := workbook(t, [][]interface{}{
		{"Item Code", "Item Name", "Item Category", "Item Price", "Stock Qty"},
		{"K1", "Karahi", "Mains", "1200", "10"},
		{"R1", "Room 1", "Rooms", "5000", ""},
		{"K1", "Karahi again", "Mains", "1200", ""},
		{"X1", "Bad price", "Mains", "abc", ""},
		{"OLD", "Existing", "Mains", "10", ""},
		{"", "", "", "", ""},
		{"S1", "", "Mains", "10", ""},
	})

	res, err := NewMenuService(repo).Import(ctx, data)

	require.NoError(t, err)
	assert.Equal(t, 6, res.TotalRows)
	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 4, res.Failed)

	rows := make([]int, 0, len(res.Errors))
	for _, e := range res.Errors {
		rows = append(rows, e.Row)
	}
	assert.Equal(t, []int{4, 5, 6, 8}, rows)
	assert.Contains(t, res.Errors[0].Message, "same as row 2")
	repo.AssertExpectations(t)
}

func TestMenuService_ImportMissingColumn(t *testing.T) {
	ctx := infraRepo.WithBusiness(context.Background(), uuid.New())
	data := workbook(t, [][]interface{}{{"code", "name"}, {"K1", "Karahi"}})

	_, err := NewMenuService(new(mockMenuRepo)).Import(ctx, data)

	assert.Equal(t, http.StatusBadRequest, appCode(t, err))
}
