package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/apperror"
)

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

// respondError maps a service error onto a JSON response.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verrs *apperror.ValidationError
	var appErr *apperror.Error

	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verrs.Fields})
	case errors.Is(err, apperror.ErrConflict) && errors.As(err, &appErr):
		c.JSON(http.StatusConflict, gin.H{"errors": gin.H{apperror.NonFieldErrors: []string{appErr.Message}}})
	case errors.As(err, &appErr):
		c.JSON(appErr.Status, gin.H{"error": appErr.Message})
	default:
		h.log.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
