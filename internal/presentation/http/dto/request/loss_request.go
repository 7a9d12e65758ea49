package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLossRequest records damaged or missing stock
type CreateLossRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	Quantity    int              `json:"quantity" binding:"required,min=1"`
	Reason      string           `json:"reason" binding:"required,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	LossValue   *decimal.Decimal `json:"loss_value"`
}

// UpdateLossRequest edits a recorded loss
type UpdateLossRequest struct {
	Quantity    *int             `json:"quantity" binding:"omitempty,min=1"`
	Reason      *string          `json:"reason" binding:"omitempty,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	LossValue   *decimal.Decimal `json:"loss_value"`
}

// LossFilterRequest represents loss filter parameters
type LossFilterRequest struct {
	Reason  string `form:"reason"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
