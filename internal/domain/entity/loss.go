package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Loss records stock written off as damaged, stolen or otherwise unsellable
type Loss struct {
	ID          uuid.UUID       `gorm:"type:char(36);primary_key" json:"id"`
	ProductID   uuid.UUID       `gorm:"type:char(36);not null;index" json:"product_id"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Reason      string          `gorm:"size:100;not null;index" json:"reason"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	LossValue   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"loss_value"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new loss
func (l *Loss) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Loss model
func (Loss) TableName() string {
	return "losses"
}

// GetID returns the primary key, used when merging realtime changes
func (l Loss) GetID() uuid.UUID {
	return l.ID
}
