package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

const (
	msgRegisterOK     = "User created successfully"
	msgRegisterFailed = "User creation failed"
	msgLoginOK        = "Login successful"
	msgLoginFailed    = "Login failed"
	msgRefreshOK      = "Token refreshed successfully"
	msgRefreshFailed  = "Token refresh failed"
	msgRefreshInvalid = "Token is invalid or expired"
)

// AccountController handles registration and token issuance.
type AccountController struct {
	db     *gorm.DB
	tokens *utils.TokenManager
}

// NewAccountController creates a new AccountController instance.
func NewAccountController(db *gorm.DB, tokens *utils.TokenManager) *AccountController {
	return &AccountController{db: db, tokens: tokens}
}

type registerRequest struct {
	FirstName string `json:"first_name" form:"first_name" binding:"required,min=3,max=150"`
	LastName  string `json:"last_name" form:"last_name" binding:"required,min=3,max=150"`
	Username  string `json:"username" form:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" form:"email" binding:"required,email,max=254"`
	Password  string `json:"password" form:"password" binding:"required,min=6,max=128"`
}

// validateRegistration checks uniqueness, email first.
func (a *AccountController) validateRegistration(ctx *gin.Context, req *registerRequest) (*utils.ValidationError, error) {
	db := a.db.WithContext(ctx.Request.Context())

	var n int64
	if err := db.Model(&models.Account{}).Where("email = ?", req.Email).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return utils.NewValidationError("email", "Email is already taken"), nil
	}
	if err := db.Model(&models.Account{}).Where("username = ?", req.Username).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if n > 0 {
		return utils.NewValidationError("username", "Username is already taken"), nil
	}
	return nil, nil
}

// Register creates an active, non-staff account.
func (a *AccountController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBind(&req); err != nil {
		failValidation(ctx, msgRegisterFailed, utils.BindingError(err))
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	verr, err := a.validateRegistration(ctx, &req)
	if err != nil {
		internalError(ctx, err)
		return
	}
	if verr != nil {
		failValidation(ctx, msgRegisterFailed, verr)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		internalError(ctx, err)
		return
	}

	acct := models.Account{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := a.db.WithContext(ctx.Request.Context()).Create(&acct).Error; err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			failValidation(ctx, msgRegisterFailed, utils.NewValidationError("username", "Username or email is already taken"))
			return
		}
		internalError(ctx, err)
		return
	}

	utils.Created(ctx, msgRegisterOK, nil)
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login verifies credentials and issues an access/refresh token pair.
func (a *AccountController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		failValidation(ctx, msgLoginFailed, utils.BindingError(err))
		return
	}

	db := a.db.WithContext(ctx.Request.Context())
	var acct models.Account
	if err := db.Where("username = ?", strings.TrimSpace(req.Username)).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			failValidation(ctx, msgLoginFailed, utils.NewValidationError("username", "Account not found"))
			return
		}
		internalError(ctx, err)
		return
	}

	if !utils.CheckPassword(acct.PasswordHash, req.Password) || !acct.IsActive {
		failValidation(ctx, msgLoginFailed, nil)
		return
	}

	pair, err := a.tokens.IssuePair(acct.ID)
	if err != nil {
		internalError(ctx, err)
		return
	}

	now := time.Now()
	if err := db.Model(&acct).Update("last_login_at", now).Error; err != nil {
		internalError(ctx, err)
		return
	}

	utils.Success(ctx, msgLoginOK, pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh" form:"refresh" binding:"required"`
}

// RefreshToken exchanges a refresh token for a new access token.
func (a *AccountController) RefreshToken(ctx *gin.Context) {
	var req refreshRequest
	if err := ctx.ShouldBind(&req); err != nil {
		failValidation(ctx, msgRefreshFailed, utils.BindingError(err))
		return
	}

	access, err := a.tokens.Refresh(strings.TrimSpace(req.Refresh))
	if err != nil {
		failWith(ctx, msgRefreshInvalid, err)
		return
	}
	utils.Success(ctx, msgRefreshOK, gin.H{"access": access})
}
