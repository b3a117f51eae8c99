package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dencare/models"
	"dencare/services/scheduling"
)

// respondSchedulingError maps engine errors onto HTTP responses. Every
// booking failure a patient can recover from gets a 4xx with the reason;
// anything unexpected collapses to a 500 without leaking internals.
func respondSchedulingError(c *gin.Context, err error) {
	var cfgErr *models.ConfigurationError

	switch {
	case errors.Is(err, scheduling.ErrInvalidRequest),
		errors.Is(err, scheduling.ErrInvalidSlot),
		errors.Is(err, scheduling.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scheduling.ErrOutOfRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, scheduling.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "That slot was just taken. Please pick another time."})
	case errors.Is(err, scheduling.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
	case errors.Is(err, scheduling.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot modify this appointment"})
	case errors.Is(err, scheduling.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": cfgErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	}
}
