package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a shop customer with loyalty points and store credit
type Customer struct {
	ID            uuid.UUID       `gorm:"type:char(36);primary_key" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Phone         string          `gorm:"size:50" json:"phone"`
	Email         string          `gorm:"size:255" json:"email"`
	Address       string          `gorm:"type:text" json:"address"`
	LoyaltyPoints int             `gorm:"not null;default:0" json:"loyalty_points"`
	LoanBalance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"loan_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relationships
	LoanHistory []LoanTransaction `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// GetID returns the primary key, used when merging realtime changes
func (c Customer) GetID() uuid.UUID {
	return c.ID
}

// HasLoan reports whether the customer owes the shop anything
func (c *Customer) HasLoan() bool {
	return c.LoanBalance.GreaterThan(decimal.Zero)
}

// LoanTransaction is an append-only entry in a customer's loan ledger
type LoanTransaction struct {
	ID          uuid.UUID                `gorm:"type:char(36);primary_key" json:"id"`
	CustomerID  uuid.UUID                `gorm:"type:char(36);not null;index" json:"customer_id"`
	Type        enum.LoanTransactionType `gorm:"size:20;not null" json:"type"`
	Amount      decimal.Decimal          `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description *string                  `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new loan transaction
func (t *LoanTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LoanTransaction model
func (LoanTransaction) TableName() string {
	return "customer_loan_history"
}

// GetID returns the primary key
func (t LoanTransaction) GetID() uuid.UUID {
	return t.ID
}
