package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/domain/billing"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice data operations.
// All methods are scoped to the business in ctx.
type InvoiceRepository interface {
	// Create stores the invoice with its items and applies the stock deltas
	// in one transaction.
	Create(ctx context.Context, invoice *entity.Invoice, deltas []billing.StockDelta) error
	// Replace overwrites a stored invoice, swaps its items for invoice.Items
	// and applies the stock deltas in one transaction.
	Replace(ctx context.Context, invoice *entity.Invoice, deltas []billing.StockDelta) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByUSIN(ctx context.Context, usin string) (*entity.Invoice, error)
	// GetLatestByBuyerName returns the most recent invoice whose buyer name
	// contains name, ignoring case.
	GetLatestByBuyerName(ctx context.Context, name string) (*entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// SumTotal returns the summed bill amount and invoice count in [from, to].
	SumTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// BookedRoomCodes returns codes of room lines on invoices whose stay covers date.
	BookedRoomCodes(ctx context.Context, date time.Time) ([]string, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination   *pagination.PaginationParams
	From         *time.Time
	To           *time.Time
	Search       string
	WithItems    bool
	SkipPaginate bool
}

// UsinRepository hands out sequential invoice numbers.
type UsinRepository interface {
	// Peek returns the number the next Next call will return, without consuming it.
	Peek(ctx context.Context) (int64, error)
	// Next consumes and returns the next number.
	Next(ctx context.Context) (int64, error)
}
