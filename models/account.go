package models

import (
	"time"

	"gorm.io/gorm"
)

// Account is a registered identity. Passwords are stored as bcrypt hashes only.
type Account struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	FirstName    string     `gorm:"size:150;not null" json:"first_name"`
	LastName     string     `gorm:"size:150;not null" json:"last_name"`
	Username     string     `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"size:254;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	IsStaff      bool       `gorm:"not null" json:"is_staff"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Posts        []Post     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	return nil
}
