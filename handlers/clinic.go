package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dencare/models"
	"dencare/services/scheduling"
)

// ClinicHandler serves the public clinic information endpoints backing the
// site's status widget and booking form.
type ClinicHandler struct {
	Scheduling scheduling.SchedulingService
}

func NewClinicHandler(sched scheduling.SchedulingService) *ClinicHandler {
	return &ClinicHandler{Scheduling: sched}
}

// StatusHandler reports whether the clinic is currently open and when it
// opens next.
func (h *ClinicHandler) StatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Scheduling.ClinicStatus())
}

// HolidaysHandler lists upcoming closure dates.
func (h *ClinicHandler) HolidaysHandler(c *gin.Context) {
	holidays := h.Scheduling.Holidays()
	if holidays == nil {
		holidays = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"holidays": holidays})
}

// TreatmentsHandler lists the services offered on the booking form.
func (h *ClinicHandler) TreatmentsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"treatments": models.Treatments()})
}
