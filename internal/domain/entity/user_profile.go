package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultShopName is printed on receipts when no profile names the shop
const DefaultShopName = "Phone Shop POS"

// UserProfile holds the shop identity shown on receipts
type UserProfile struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex" json:"user_id"`
	Username  string    `gorm:"size:255" json:"username"`
	ShopName  string    `gorm:"size:255" json:"shop_name"`
	ShopLogo  *string   `gorm:"type:text" json:"shop_logo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new profile
func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the UserProfile model
func (UserProfile) TableName() string {
	return "user_profiles"
}

// DisplayShopName falls back to DefaultShopName when the shop is unnamed
func (p *UserProfile) DisplayShopName() string {
	if p == nil || p.ShopName == "" {
		return DefaultShopName
	}
	return p.ShopName
}
