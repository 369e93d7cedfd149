package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/domain/billing"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotelpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) domainRepo.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuRepository) CreateBatch(ctx context.Context, items []entity.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 100).Error
}

func (r *menuRepository) GetByCode(ctx context.Context, code string) (*entity.MenuItem, error) {
	var item entity.MenuItem
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).First(&item, "item_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

// GetByCodes retrieves multiple items by code in a single query
func (r *menuRepository) GetByCodes(ctx context.Context, codes []string) (map[string]entity.MenuItem, error) {
	out := make(map[string]entity.MenuItem, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	var items []entity.MenuItem
	err := r.db.WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		Where("item_code IN ?", codes).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ItemCode] = item
	}
	return out, nil
}

func (r *menuRepository) Update(ctx context.Context, item *entity.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *menuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).Delete(&entity.MenuItem{}, "id = ?", id).Error
}

func (r *menuRepository) List(ctx context.Context, params *domainRepo.MenuFilterParams) ([]entity.MenuItem, int64, error) {
	var items []entity.MenuItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MenuItem{}).Scopes(BusinessScope(ctx))

	if params.Search != "" {
		pattern := containsPattern(params.Search)
		query = query.Where("LOWER(item_name) LIKE ? OR LOWER(item_code) LIKE ?", pattern, pattern)
	}
	if params.Category != "" {
		query = query.Where("item_category = ?", params.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("item_category ASC, item_name ASC")
	if params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}

	err := query.Find(&items).Error
	return items, total, err
}

func (r *menuRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&entity.MenuItem{}).
		Scopes(BusinessScope(ctx)).
		Distinct("item_category").
		Order("item_category ASC").
		Pluck("item_category", &categories).Error
	return categories, err
}

// ApplyStockDeltas applies all deltas in one transaction.
func (r *menuRepository) ApplyStockDeltas(ctx context.Context, deltas []billing.StockDelta) error {
	businessID, ok := GetBusinessID(ctx)
	if !ok {
		return errors.New("business context required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyStockDeltas(tx, businessID, deltas)
	})
}

// applyStockDeltas runs UPDATE menu SET stock_qty = stock_qty - n for each
// delta. Stock may go negative: the POS never refuses a sale for stock, and
// a later credit edit must be able to return exactly what was taken.
func applyStockDeltas(tx *gorm.DB, businessID uuid.UUID, deltas []billing.StockDelta) error {
	for _, d := range deltas {
		if d.SignedQuantity == 0 {
			continue
		}
		err := tx.Model(&entity.MenuItem{}).
			Where("business_id = ? AND item_code = ? AND stock_qty IS NOT NULL", businessID, d.Code).
			Update("stock_qty", gorm.Expr("stock_qty - ?", d.SignedQuantity)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
