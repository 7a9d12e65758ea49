package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request. Prices are
// checked by the service so that every rejected field is reported.
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	Brand         string          `json:"brand" binding:"omitempty,max=255"`
	Category      string          `json:"category" binding:"omitempty,max=100"`
	BuyingPrice   decimal.Decimal `json:"buying_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Pieces        int             `json:"pieces"`
	LowStockAlert int             `json:"low_stock_alert"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=255"`
	Brand         *string          `json:"brand" binding:"omitempty,max=255"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	BuyingPrice   *decimal.Decimal `json:"buying_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	Pieces        *int             `json:"pieces"`
	LowStockAlert *int             `json:"low_stock_alert"`
}

// UpdateStockRequest sets the pieces in stock
type UpdateStockRequest struct {
	Pieces *int `json:"pieces" binding:"required,min=0"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
