package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/repository"
	infraRepo "github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
	"github.com/sangkips/hotelpos-api/pkg/apperror"
	"github.com/sangkips/hotelpos-api/pkg/pagination"
)

// MenuService manages the catalog of dishes, drinks and rooms.
type MenuService struct {
	menuRepo repository.MenuRepository
	validate *validator.Validate
}

// NewMenuService creates a new menu service
func NewMenuService(menuRepo repository.MenuRepository) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
		validate: NewValidator(),
	}
}

// MenuItemInput represents the create and update menu item input
type MenuItemInput struct {
	ItemCode     string          `validate:"required,max=100"`
	ItemName     string          `validate:"required,max=255"`
	ItemCategory string          `validate:"required,max=100"`
	ItemPrice    decimal.Decimal `validate:"gte=0"`
	StockQty     *int
}

func (in *MenuItemInput) normalize() {
	in.ItemCode = strings.TrimSpace(in.ItemCode)
	in.ItemName = strings.TrimSpace(in.ItemName)
	in.ItemCategory = strings.TrimSpace(in.ItemCategory)
}

// Create adds an item to the menu
func (s *MenuService) Create(ctx context.Context, input *MenuItemInput) (*entity.MenuItem, error) {
	businessID, ok := infraRepo.GetBusinessID(ctx)
	if !ok {
		return nil, apperror.NewForbiddenError("Business context required")
	}

	input.normalize()
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.FromValidator(err)
	}

	existing, err := s.menuRepo.GetByCode(ctx, input.ItemCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError(fmt.Sprintf("Item code '%s' already exists", input.ItemCode))
	}

	item := &entity.MenuItem{
		BusinessID:   businessID,
		ItemCode:     input.ItemCode,
		ItemName:     input.ItemName,
		ItemCategory: input.ItemCategory,
		ItemPrice:    input.ItemPrice,
		StockQty:     input.StockQty,
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update changes the menu item with the given code. The code itself may be
// changed as long as the new one is free.
func (s *MenuService) Update(ctx context.Context, code string, input *MenuItemInput) (*entity.MenuItem, error) {
	input.normalize()
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.FromValidator(err)
	}

	item, err := s.menuRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}

	if input.ItemCode != item.ItemCode {
		taken, err := s.menuRepo.GetByCode(ctx, input.ItemCode)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, apperror.NewConflictError(fmt.Sprintf("Item code '%s' already exists", input.ItemCode))
		}
	}

	item.ItemCode = input.ItemCode
	item.ItemName = input.ItemName
	item.ItemCategory = input.ItemCategory
	item.ItemPrice = input.ItemPrice
	item.StockQty = input.StockQty

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the menu item with the given code
func (s *MenuService) Delete(ctx context.Context, code string) error {
	item, err := s.menuRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Menu item")
	}
	err = s.menuRepo.Delete(ctx, item.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFoundError("Menu item")
	}
	return err
}

// Get retrieves a menu item by code
func (s *MenuService) Get(ctx context.Context, code string) (*entity.MenuItem, error) {
	item, err := s.menuRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	return item, nil
}

// List lists menu items, optionally by category or search term
func (s *MenuService) List(ctx context.Context, params *repository.MenuFilterParams) (*pagination.PaginatedResult[entity.MenuItem], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	items, total, err := s.menuRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// Categories returns the distinct categories in use
func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.menuRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// ImportResult contains the result of a menu import
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific sheet row
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// menuColumns maps accepted header names to fields.
var menuColumns = map[string]string{
	"item_code":     "code",
	"code":          "code",
	"item_name":     "name",
	"name":          "name",
	"item_category": "category",
	"category":      "category",
	"item_price":    "price",
	"price":         "price",
	"stock_qty":     "stock",
	"stock":         "stock",
}

// Import reads the first sheet of an .xlsx workbook and creates one menu
// item per data row. The first row must be a header naming the columns.
// Bad rows are reported by their sheet row number and skipped.
func (s *MenuService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	businessID, ok := infraRepo.GetBusinessID(ctx)
	if !ok {
		return nil, apperror.NewForbiddenError("Business context required")
	}

	rows, err := readFirstSheet(data)
	if err != nil {
		return nil, apperror.NewBadRequestError("Could not read workbook: " + err.Error())
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if field, ok := menuColumns[key]; ok {
			columns[field] = i
		}
	}
	for _, required := range []string{"code", "name", "category", "price"} {
		if _, ok := columns[required]; !ok {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Missing column '%s' in header row", required))
		}
	}

	result := &ImportResult{}
	var rowErrors []ImportRowError
	seenCodes := make(map[string]int)
	var valid []entity.MenuItem

	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(field string) string {
			idx, ok := columns[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if isBlankRow(row) {
			continue
		}
		result.TotalRows++

		input := &MenuItemInput{
			ItemCode:     cell("code"),
			ItemName:     cell("name"),
			ItemCategory: cell("category"),
		}

		price, err := decimal.NewFromString(cell("price"))
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "item_price", Message: "Price must be a number"})
			continue
		}
		input.ItemPrice = price

		if raw := cell("stock"); raw != "" {
			qty, err := strconv.Atoi(raw)
			if err != nil {
				rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "stock_qty", Message: "Stock must be a whole number"})
				continue
			}
			input.StockQty = &qty
		}

		if err := s.validate.Struct(input); err != nil {
			appErr := apperror.FromValidator(err)
			for _, fe := range appErr.Errors {
				rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: fe.Field, Message: fe.Message})
			}
			continue
		}

		if prevRow, exists := seenCodes[input.ItemCode]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "item_code",
				Message: fmt.Sprintf("Duplicate code '%s' (same as row %d)", input.ItemCode, prevRow),
			})
			continue
		}

		existing, err := s.menuRepo.GetByCode(ctx, input.ItemCode)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "item_code", Message: "Error checking code: " + err.Error()})
			continue
		}
		if existing != nil {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "item_code",
				Message: fmt.Sprintf("Item code '%s' already exists", input.ItemCode),
			})
			continue
		}

		seenCodes[input.ItemCode] = rowNum
		valid = append(valid, entity.MenuItem{
			BusinessID:   businessID,
			ItemCode:     input.ItemCode,
			ItemName:     input.ItemName,
			ItemCategory: input.ItemCategory,
			ItemPrice:    input.ItemPrice,
			StockQty:     input.StockQty,
		})
	}

	if len(valid) > 0 {
		if err := s.menuRepo.CreateBatch(ctx, valid); err != nil {
			return nil, apperror.NewInternalError("Failed to import menu", err)
		}
	}

	result.Successful = len(valid)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors
	return result, nil
}

func readFirstSheet(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet is empty")
	}
	return rows, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
