package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"loanflow/internal/pkg/models"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps the error taxonomy onto HTTP statuses without the
// handlers inspecting individual error values.
func respondError(c *gin.Context, err error) {
	var customErr *models.CustomError
	if !errors.As(err, &customErr) {
		c.JSON(http.StatusInternalServerError, errorResponse{
			Code:    "LOANFLOW_INTERNAL_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(statusForCode(customErr.ErrorCode()), errorResponse{
		Code:    customErr.ErrorCode(),
		Message: customErr.Error(),
	})
}

func statusForCode(code string) int {
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"), strings.HasSuffix(code, "_NO_ACTIVE_TEMPLATE"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_FORBIDDEN"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "_INVALID_TRANSITION"),
		strings.HasSuffix(code, "_ALREADY_TERMINAL"),
		strings.HasSuffix(code, "_CONCURRENT_MODIFICATION"),
		strings.HasSuffix(code, "_TEMPLATE_IN_USE"),
		strings.HasSuffix(code, "_REVIEW_IN_PROGRESS"):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
