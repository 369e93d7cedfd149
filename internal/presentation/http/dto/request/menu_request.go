package request

import "github.com/shopspring/decimal"

// MenuItemRequest represents a menu item create or update request
type MenuItemRequest struct {
	ItemCode     string          `json:"item_code" binding:"required,max=100"`
	ItemName     string          `json:"item_name" binding:"required,max=255"`
	ItemCategory string          `json:"item_category" binding:"required,max=100"`
	ItemPrice    decimal.Decimal `json:"item_price"`
	StockQty     *int            `json:"stock_qty"`
}

// MenuFilterRequest represents menu list parameters
type MenuFilterRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
