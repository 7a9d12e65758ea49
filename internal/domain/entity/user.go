package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a shop account that can sign in and ring up sales
type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;unique;not null" json:"email"`
	Password  string    `gorm:"size:255" json:"-"`
	Role      string    `gorm:"size:50;not null;default:'cashier'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Profile *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// Roles returns the role list carried in access tokens
func (u *User) Roles() []string {
	if u.Role == "" {
		return nil
	}
	return []string{u.Role}
}

// HasRole checks if the user has a specific role
func (u *User) HasRole(role string) bool {
	return u.Role == role
}
