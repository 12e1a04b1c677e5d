package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/permissions"
	"github.com/cppla/blogapi/services"
	"github.com/cppla/blogapi/utils"
)

const (
	msgCategoriesFetched     = "Categories fetched successfully"
	msgCategoryCreated       = "Category created successfully"
	msgCategoryCreateFailed  = "Category creation failed"
	msgCategoryNotAuthorized = "You are not authorized to create a category"
	msgCategoryDuplicate     = "Category with this name already exists."
)

// CategoryController serves categories through the cached reader.
type CategoryController struct {
	db     *gorm.DB
	reader *services.CategoryReader
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB, reader *services.CategoryReader) *CategoryController {
	return &CategoryController{db: db, reader: reader}
}

// ListCategories returns every category ordered by name.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	data, err := c.reader.List(ctx.Request.Context())
	if err != nil {
		internalError(ctx, err)
		return
	}
	utils.Success(ctx, msgCategoriesFetched, data)
}

type createCategoryRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=200"`
}

// CreateCategory is staff only. The cached list is dropped before the insert
// and again once it is committed.
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	acct, ok := requireAccount(ctx)
	if !ok {
		return
	}
	if err := permissions.Check(acct, permissions.StaffOnly()); err != nil {
		failWith(ctx, msgCategoryNotAuthorized, err)
		return
	}

	var req createCategoryRequest
	if err := ctx.ShouldBind(&req); err != nil {
		failValidation(ctx, msgCategoryCreateFailed, utils.BindingError(err))
		return
	}
	name := utils.SanitizeText(strings.TrimSpace(req.Name))
	if name == "" {
		failValidation(ctx, msgCategoryCreateFailed, utils.NewValidationError("name", "This field may not be blank."))
		return
	}

	db := c.db.WithContext(ctx.Request.Context())
	var n int64
	if err := db.Model(&models.Category{}).Where("name = ?", name).Count(&n).Error; err != nil {
		internalError(ctx, fmt.Errorf("check category name: %w", err))
		return
	}
	if n > 0 {
		failValidation(ctx, msgCategoryCreateFailed, utils.NewValidationError("name", msgCategoryDuplicate))
		return
	}

	if err := c.reader.Invalidate(ctx.Request.Context()); err != nil {
		internalError(ctx, err)
		return
	}

	cat := models.Category{Name: name}
	if err := db.Create(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			failValidation(ctx, msgCategoryCreateFailed, utils.NewValidationError("name", msgCategoryDuplicate))
			return
		}
		internalError(ctx, fmt.Errorf("create category: %w", err))
		return
	}

	// a concurrent List may have cached the pre-insert list in between
	if err := c.reader.Invalidate(ctx.Request.Context()); err != nil {
		utils.Logger.Warn("category cache invalidation after create failed", zap.Error(err))
	}

	utils.Created(ctx, msgCategoryCreated, cat)
}
