package request

import "github.com/shopspring/decimal"

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"omitempty,max=500"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// LedgerRequest is a loan or a payment posted to a customer
type LedgerRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description" binding:"omitempty,max=500"`
}

// LoyaltyPointsRequest adds points to a customer
type LoyaltyPointsRequest struct {
	Points int `json:"points" binding:"required,min=1"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	Search    string `form:"search"`
	WithLoans bool   `form:"with_loans"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
