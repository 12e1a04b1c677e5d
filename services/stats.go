package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/blogapi/models"
)

// Stats are live counts over persistence.
type Stats struct {
	TotalBlogs      int64 `json:"total_blogs"`
	TotalCategories int64 `json:"total_categories"`
}

// CountStats counts posts and categories.
func CountStats(ctx context.Context, db *gorm.DB) (Stats, error) {
	var s Stats
	if err := db.WithContext(ctx).Model(&models.Post{}).Count(&s.TotalBlogs).Error; err != nil {
		return Stats{}, fmt.Errorf("count posts: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Category{}).Count(&s.TotalCategories).Error; err != nil {
		return Stats{}, fmt.Errorf("count categories: %w", err)
	}
	return s, nil
}
