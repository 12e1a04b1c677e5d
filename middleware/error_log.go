package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

const msgInternalError = "Internal server error"

// ErrorLogger recovers panics and records errors attached with ctx.Error.
// Each failure is logged and stored as an ErrorLog row in the background.
// Unwritten responses get a 500 envelope; debug adds the error text as data.detail.
func ErrorLogger(db *gorm.DB, debug bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				recordError(db, err.Error(), fmt.Sprintf("%T", r), http.StatusInternalServerError)
				if !ctx.Writer.Written() {
					respondInternal(ctx, debug, err)
				}
				ctx.Abort()
			}
		}()

		ctx.Next()

		if len(ctx.Errors) == 0 {
			return
		}
		status := http.StatusInternalServerError
		if ctx.Writer.Written() {
			status = ctx.Writer.Status()
		}
		for _, e := range ctx.Errors {
			recordError(db, e.Err.Error(), fmt.Sprintf("%T", e.Err), status)
		}
		if !ctx.Writer.Written() {
			respondInternal(ctx, debug, ctx.Errors.Last().Err)
		}
	}
}

func respondInternal(ctx *gin.Context, debug bool, err error) {
	var data interface{}
	if debug {
		data = gin.H{"detail": err.Error()}
	}
	utils.Failure(ctx, http.StatusInternalServerError, msgInternalError, data)
}

// recordError never panics and never blocks the caller.
func recordError(db *gorm.DB, message, errType string, status int) {
	now := time.Now()
	utils.Logger.Error("request failed",
		zap.String("message", message),
		zap.String("type", errType),
		zap.Int("status_code", status),
		zap.Time("timestamp", now),
	)
	if db == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				utils.Logger.Error("error log persist panicked", zap.Any("panic", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		row := models.ErrorLog{
			ErrorMessage: message,
			ErrorType:    errType,
			StatusCode:   status,
			Timestamp:    now,
		}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			utils.Logger.Warn("error log persist failed", zap.Error(err))
		}
	}()
}
