package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddToCartRequest adds one piece of a product to the cart
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// LineDiscountRequest sets a line's discount percentage
type LineDiscountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

// LineLoanRequest flags a line as partly on loan
type LineLoanRequest struct {
	UseLoan bool `json:"use_loan"`
}

// CheckoutRequest completes the sale in the cart
type CheckoutRequest struct {
	CashReceived decimal.Decimal `json:"cash_received"`
	CustomerID   *uuid.UUID      `json:"customer_id"`
	CustomerName *string         `json:"customer_name" binding:"omitempty,max=255"`
	Signature    *string         `json:"signature" binding:"omitempty,max=255"`
	Description  *string         `json:"description" binding:"omitempty,max=1000"`
}

// UpdateSaleDetailsRequest edits the receipt fields of a sale
type UpdateSaleDetailsRequest struct {
	CustomerName *string `json:"customer_name" binding:"omitempty,max=255"`
	Signature    *string `json:"signature" binding:"omitempty,max=255"`
	Description  *string `json:"description" binding:"omitempty,max=1000"`
}

// SaleFilterRequest represents sale filter parameters. Dates are
// YYYY-MM-DD and the end date is inclusive.
type SaleFilterRequest struct {
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// PrintReceiptRequest selects the sale to print
type PrintReceiptRequest struct {
	SaleID uuid.UUID `json:"sale_id" binding:"required"`
}
