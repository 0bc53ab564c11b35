package handler

import (
	"errors"
	"net/http"

	"director-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes returned in ErrorResponse.Code.
const (
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeEmptyIdea         = "EMPTY_IDEA"
	ErrCodeSessionNotFound   = "SESSION_NOT_FOUND"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeNoResult          = "NO_RESULT"
	ErrCodeCutNotFound       = "CUT_NOT_FOUND"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *DirectorHandler) handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp ErrorResponse

	switch {
	case errors.Is(err, models.ErrEmptyIdea):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeEmptyIdea, Message: "Idea must not be empty"}
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrSessionClosed):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeSessionNotFound, Message: "Session not found"}
	case errors.Is(err, models.ErrInvalidTransition):
		statusCode = http.StatusConflict
		errResp = ErrorResponse{Code: ErrCodeInvalidTransition, Message: "Session already holds a result; reset it before submitting again"}
	case errors.Is(err, models.ErrNoResult):
		statusCode = http.StatusConflict
		errResp = ErrorResponse{Code: ErrCodeNoResult, Message: "Session has no generated cuts yet"}
	case errors.Is(err, models.ErrCutNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeCutNotFound, Message: "Cut not found"}
	default:
		h.logger.Error("Unhandled internal error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = ErrorResponse{Code: ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
