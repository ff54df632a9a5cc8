package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harshgurla/codeassess/internal/dto"
	"github.com/harshgurla/codeassess/internal/service"
)

// WriteError maps service error classes onto HTTP statuses with a structured
// payload. Unclassified errors become opaque 500s.
func WriteError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error(), Reason: "validation"})
	case errors.Is(err, service.ErrBadCredentials):
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid email or password", Reason: "bad_credentials"})
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Access denied", Reason: "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Resource not found", Reason: "not_found"})
	case errors.Is(err, service.ErrEmailTaken):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Email already registered", Reason: "email_taken"})
	case errors.Is(err, service.ErrTimeLimitExceeded):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Time limit exceeded; the session has been completed", Reason: "time_limit_exceeded"})
	case errors.Is(err, service.ErrStateConflict):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error(), Reason: "state_conflict"})
	case errors.Is(err, service.ErrEvaluatorUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "Evaluation service unavailable", Reason: "evaluator_unavailable"})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error", Reason: "internal"})
	}
}
