package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is the persisted header of a completed checkout
type Sale struct {
	ID           uuid.UUID       `gorm:"type:char(36);primary_key" json:"id"`
	UserID       *uuid.UUID      `gorm:"type:char(36);index" json:"user_id,omitempty"`
	CustomerID   *uuid.UUID      `gorm:"type:char(36);index" json:"customer_id,omitempty"`
	Total        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	CashReceived decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"cash_received"`
	Change       decimal.Decimal `gorm:"column:change;type:numeric(14,2);not null" json:"change"`
	LoanAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"loan_amount"`
	CustomerName *string         `gorm:"size:255" json:"customer_name,omitempty"`
	Signature    *string         `gorm:"type:text" json:"signature,omitempty"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// GetID returns the primary key, used when merging realtime changes
func (s Sale) GetID() uuid.UUID {
	return s.ID
}

// Quantity returns the number of pieces sold across all items
func (s *Sale) Quantity() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// SaleItem is a line of a completed sale. Price is the unit price after
// discount at the moment of sale and never changes afterwards.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:char(36);primary_key" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:char(36);not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:char(36);not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`

	// Relationships
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// Subtotal returns price times quantity
func (i *SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
