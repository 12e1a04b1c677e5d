package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/services"
	"github.com/cppla/blogapi/utils"
)

const msgStatsFetched = "Stats fetched successfully"

// StatsController reports live content counts.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns total_blogs and total_categories. Counts are never cached.
func (s *StatsController) GetStats(ctx *gin.Context) {
	stats, err := services.CountStats(ctx.Request.Context(), s.db)
	if err != nil {
		internalError(ctx, err)
		return
	}
	utils.Success(ctx, msgStatsFetched, stats)
}
