package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem is a catalog entry: a dish, a drink or a room.
// StockQty is nil for entries whose stock is not tracked.
type MenuItem struct {
	ID           uuid.UUID       `gorm:"type:varchar(36);primaryKey" json:"id"`
	BusinessID   uuid.UUID       `gorm:"type:varchar(36);not null;uniqueIndex:idx_menu_business_code" json:"business_id"`
	ItemCode     string          `gorm:"size:100;not null;uniqueIndex:idx_menu_business_code" json:"item_code"`
	ItemName     string          `gorm:"size:255;not null" json:"item_name"`
	ItemCategory string          `gorm:"size:100;not null;index" json:"item_category"`
	ItemPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"item_price"`
	StockQty     *int            `json:"stock_qty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new menu item
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu"
}

// TracksStock reports whether sales of this item change its stock.
func (m *MenuItem) TracksStock() bool {
	return m.StockQty != nil
}
