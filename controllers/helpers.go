package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cppla/blogapi/middleware"
	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

const msgNoCredentials = "Authentication credentials were not provided."

// requireAccount returns the authenticated account or writes a 401.
func requireAccount(ctx *gin.Context) (*models.Account, bool) {
	acct, ok := middleware.CurrentAccount(ctx)
	if !ok {
		failWith(ctx, msgNoCredentials, utils.ErrUnauthenticated)
		return nil, false
	}
	return acct, true
}

// failWith writes the failure envelope for err with the status utils.StatusFor maps it to.
// Validation errors carry the violated rule per field as data.
func failWith(ctx *gin.Context, message string, err error) {
	var data interface{}
	var verr *utils.ValidationError
	if errors.As(err, &verr) && verr != nil && len(verr.Fields) > 0 {
		data = verr.Fields
	}
	utils.Failure(ctx, utils.StatusFor(err), message, data)
}

// failValidation writes a validation failure. A nil verr sends no data.
func failValidation(ctx *gin.Context, message string, verr *utils.ValidationError) {
	if verr == nil {
		failWith(ctx, message, utils.ErrValidation)
		return
	}
	failWith(ctx, message, verr)
}

// internalError hands err to the ErrorLogger middleware.
func internalError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}
