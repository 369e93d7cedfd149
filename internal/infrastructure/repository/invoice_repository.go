package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/domain/billing"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotelpos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice, deltas []billing.StockDelta) error {
	businessID, ok := GetBusinessID(ctx)
	if !ok {
		return errors.New("business context required")
	}
	invoice.BusinessID = businessID
	stampItems(invoice)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		return applyStockDeltas(tx, businessID, deltas)
	})
}

func (r *invoiceRepository) Replace(ctx context.Context, invoice *entity.Invoice, deltas []billing.StockDelta) error {
	businessID, ok := GetBusinessID(ctx)
	if !ok {
		return errors.New("business context required")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.Invoice
		err := tx.Scopes(BusinessScope(ctx)).First(&existing, "usin = ?", invoice.USIN).Error
		if err != nil {
			return err
		}

		invoice.ID = existing.ID
		invoice.BusinessID = businessID
		invoice.CreatedAt = existing.CreatedAt
		invoice.CreatedBy = existing.CreatedBy
		stampItems(invoice)

		if err := tx.Omit("Items").Save(invoice).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", existing.ID).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		if len(invoice.Items) > 0 {
			if err := tx.Create(&invoice.Items).Error; err != nil {
				return err
			}
		}
		return applyStockDeltas(tx, businessID, deltas)
	})
}

// stampItems sets ownership and ordering on every item before a write.
func stampItems(invoice *entity.Invoice) {
	for i := range invoice.Items {
		invoice.Items[i].ID = uuid.Nil
		invoice.Items[i].InvoiceID = invoice.ID
		invoice.Items[i].BusinessID = invoice.BusinessID
		invoice.Items[i].Position = i
	}
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		Preload("Items", orderedItems).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByUSIN(ctx context.Context, usin string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		Preload("Items", orderedItems).
		First(&invoice, "usin = ?", usin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetLatestByBuyerName(ctx context.Context, name string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		Preload("Items", orderedItems).
		Where("LOWER(buyer_name) LIKE ?", containsPattern(name)).
		Order("datetime DESC").
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(BusinessScope(ctx))

	if params.From != nil {
		query = query.Where("datetime >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("datetime <= ?", *params.To)
	}
	if params.Search != "" {
		pattern := containsPattern(params.Search)
		query = query.Where("LOWER(usin) LIKE ? OR LOWER(buyer_name) LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("datetime DESC")
	if params.WithItems {
		query = query.Preload("Items", orderedItems)
	}
	if !params.SkipPaginate && params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}

	err := query.Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepository) SumTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Scopes(BusinessScope(ctx)).
		Select("COALESCE(SUM(total_bill_amount), 0) AS total, COUNT(*) AS count").
		Where("datetime >= ? AND datetime <= ?", from, to).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Count, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(BusinessScope(ctx)).Where("invoice_id = ?", id).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		result := tx.Scopes(BusinessScope(ctx)).Delete(&entity.Invoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *invoiceRepository) BookedRoomCodes(ctx context.Context, date time.Time) ([]string, error) {
	day := date.Format("2006-01-02")
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&entity.InvoiceItem{}).
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Scopes(businessScopeOn(ctx, "invoices.business_id")).
		Where("invoices.check_in_date <= ? AND invoices.check_out_date >= ?", day, day).
		Where("invoice_items.is_room = ? OR LOWER(invoice_items.item_name) LIKE ?", true, "%room%").
		Distinct("invoice_items.item_code").
		Pluck("invoice_items.item_code", &codes).Error
	if err != nil {
		return nil, err
	}

	out := codes[:0]
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out, nil
}
