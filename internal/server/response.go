package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"cashtrackr/internal/service"
)

// bindAndValidate decodes the JSON body into req and runs its validation
// rules. On failure it writes the 400 response and reports false.
func bindAndValidate(c *gin.Context, req interface{ Validate() error }) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": gin.H{"body": "invalid request body"},
		})
		return false
	}

	if err := req.Validate(); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			messages := make(gin.H, len(fields))
			for field, fieldErr := range fields {
				messages[field] = fieldErr.Error()
			}
			c.JSON(http.StatusBadRequest, gin.H{"errors": messages})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		}
		return false
	}

	return true
}

// respondError translates a service failure into its HTTP status.
// Anything outside the business taxonomy is logged and masked as a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotConfirmed):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrBadCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrBudgetNotFound), errors.Is(err, service.ErrExpenseNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotBudgetOwner):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		slog.Error("unexpected error", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
