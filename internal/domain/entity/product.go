package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a phone or accessory held in stock
type Product struct {
	ID            uuid.UUID       `gorm:"type:char(36);primary_key" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Brand         string          `gorm:"size:255" json:"brand"`
	Category      string          `gorm:"size:100;index" json:"category"`
	BuyingPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"buying_price"`
	SellingPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"selling_price"`
	Pieces        int             `gorm:"not null;default:0" json:"pieces"`
	LowStockAlert int             `gorm:"column:low_stock_alert;not null;default:0" json:"low_stock_alert"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetID returns the primary key, used when merging realtime changes
func (p Product) GetID() uuid.UUID {
	return p.ID
}

// IsLowStock reports whether stock has fallen to the alert threshold
func (p *Product) IsLowStock() bool {
	return p.Pieces <= p.LowStockAlert
}

// StockValue returns pieces valued at the selling price
func (p *Product) StockValue() decimal.Decimal {
	return p.SellingPrice.Mul(decimal.NewFromInt(int64(p.Pieces)))
}

// StockCost returns pieces valued at the buying price
func (p *Product) StockCost() decimal.Decimal {
	return p.BuyingPrice.Mul(decimal.NewFromInt(int64(p.Pieces)))
}
