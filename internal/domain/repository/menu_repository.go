package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/hotelpos-api/internal/domain/billing"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/pkg/pagination"
)

// MenuRepository defines the interface for catalog data operations
type MenuRepository interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	CreateBatch(ctx context.Context, items []entity.MenuItem) error
	GetByCode(ctx context.Context, code string) (*entity.MenuItem, error)
	// GetByCodes retrieves several items in one query, keyed by code.
	GetByCodes(ctx context.Context, codes []string) (map[string]entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *MenuFilterParams) ([]entity.MenuItem, int64, error)
	Categories(ctx context.Context) ([]string, error)
	// ApplyStockDeltas subtracts each signed quantity from the item's stock.
	// Items that do not track stock are left alone.
	ApplyStockDeltas(ctx context.Context, deltas []billing.StockDelta) error
}

// MenuFilterParams contains filtering parameters for menu queries
type MenuFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
}
