package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Envelope is the uniform body of every API response.
type Envelope struct {
	StatusCode int         `json:"status_code"`
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// NewEnvelope builds a response body. A zero statusCode becomes 200 for
// success and 400 for failure. Data is omitted only when nil.
func NewEnvelope(success bool, statusCode int, message string, data interface{}) Envelope {
	status := StatusFailure
	if success {
		status = StatusSuccess
	}
	if statusCode == 0 {
		if success {
			statusCode = http.StatusOK
		} else {
			statusCode = http.StatusBadRequest
		}
	}
	return Envelope{
		StatusCode: statusCode,
		Status:     status,
		Message:    message,
		Data:       data,
	}
}

// Respond writes the envelope with a transport status matching status_code.
func Respond(ctx *gin.Context, env Envelope) {
	ctx.JSON(env.StatusCode, env)
}

// Success returns a 200 success response.
func Success(ctx *gin.Context, message string, data interface{}) {
	Respond(ctx, NewEnvelope(true, http.StatusOK, message, data))
}

// Created returns a 201 success response.
func Created(ctx *gin.Context, message string, data interface{}) {
	Respond(ctx, NewEnvelope(true, http.StatusCreated, message, data))
}

// Failure writes a failure response and aborts the handler chain.
func Failure(ctx *gin.Context, statusCode int, message string, data interface{}) {
	env := NewEnvelope(false, statusCode, message, data)
	ctx.AbortWithStatusJSON(env.StatusCode, env)
}
