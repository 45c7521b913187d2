package handlers

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// isValidID reports whether a path id has the shape of a stored primary key
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// respondServiceError maps service errors to status codes. Unexpected errors are reported and hidden behind message.
func respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logrus.Errorf("%s: %v", message, err)
		sentry.CaptureException(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
