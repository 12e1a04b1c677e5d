// Package services holds business logic shared by the HTTP handlers.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/cache"
	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

const (
	CategoriesCacheKey = "categories"
	// DefaultCategoryTTL is the fixed expiry of the cached list.
	DefaultCategoryTTL = 3600 * time.Second
)

// CategoryReader serves the category list through a read-through cache.
type CategoryReader struct {
	db    *gorm.DB
	store cache.Store
	ttl   time.Duration
}

func NewCategoryReader(db *gorm.DB, store cache.Store, ttl time.Duration) *CategoryReader {
	if ttl <= 0 {
		ttl = DefaultCategoryTTL
	}
	return &CategoryReader{db: db, store: store, ttl: ttl}
}

// List returns the JSON encoded categories ordered by name.
// Cached bytes are returned verbatim; a cache error is treated as a miss.
func (r *CategoryReader) List(ctx context.Context) (json.RawMessage, error) {
	b, err := r.store.Get(ctx, CategoriesCacheKey)
	if err == nil {
		cacheLookups.WithLabelValues("hit").Inc()
		return b, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		utils.Logger.Warn("category cache get failed", zap.Error(err))
	}
	cacheLookups.WithLabelValues("miss").Inc()

	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	b, err = json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}
	if err := r.store.Set(ctx, CategoriesCacheKey, b, r.ttl); err != nil {
		utils.Logger.Warn("category cache set failed", zap.Error(err))
	}
	return b, nil
}

// Invalidate drops the cached list so the next List reads the database.
func (r *CategoryReader) Invalidate(ctx context.Context) error {
	if err := r.store.Delete(ctx, CategoriesCacheKey); err != nil {
		return fmt.Errorf("invalidate categories: %w", err)
	}
	return nil
}
