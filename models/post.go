package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a blog entry owned by the account that created it.
type Post struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Image      string    `gorm:"size:512" json:"image"`
	AuthorID   uint      `gorm:"index;not null" json:"author"`
	CategoryID *string   `gorm:"size:36;index" json:"-"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CategoryName is the category the post is filed under, empty when none.
func (p Post) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// BeforeCreate assigns the opaque id.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
