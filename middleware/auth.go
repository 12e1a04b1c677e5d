package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

// ContextAccountKey is the key used to store the authenticated account in Gin context.
const ContextAccountKey = "account"

const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgInvalidToken  = "Given token not valid for any token type"
	msgUserNotFound  = "User not found"
	msgUserInactive  = "User is inactive"
)

// AuthRequired ensures the request carries a valid access token for an active account.
func AuthRequired(db *gorm.DB, tokens *utils.TokenManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := bearerToken(ctx.GetHeader("Authorization"))
		if !ok {
			utils.Failure(ctx, http.StatusUnauthorized, msgNoCredentials, nil)
			return
		}

		accountID, err := tokens.Parse(tokenString, utils.TokenTypeAccess)
		if err != nil {
			utils.Failure(ctx, http.StatusUnauthorized, msgInvalidToken, nil)
			return
		}

		var acct models.Account
		if err := db.WithContext(ctx.Request.Context()).First(&acct, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Failure(ctx, http.StatusUnauthorized, msgUserNotFound, nil)
				return
			}
			_ = ctx.Error(err)
			ctx.Abort()
			return
		}
		if !acct.IsActive {
			utils.Failure(ctx, http.StatusUnauthorized, msgUserInactive, nil)
			return
		}

		ctx.Set(ContextAccountKey, &acct)
		ctx.Next()
	}
}

// CurrentAccount returns the account attached by AuthRequired.
func CurrentAccount(ctx *gin.Context) (*models.Account, bool) {
	v, ok := ctx.Get(ContextAccountKey)
	if !ok {
		return nil, false
	}
	acct, ok := v.(*models.Account)
	return acct, ok && acct != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
