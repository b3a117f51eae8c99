package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appointmentRepo "dencare/database/repository/appointment"
	"dencare/models"
	"dencare/services/scheduling"
	"dencare/services/user"
)

// AdminHandler serves the back-office dashboard endpoints.
type AdminHandler struct {
	Scheduling scheduling.SchedulingService
	Users      user.UserService
	Repo       appointmentRepo.AppointmentRepository
}

func NewAdminHandler(sched scheduling.SchedulingService, users user.UserService, repo appointmentRepo.AppointmentRepository) *AdminHandler {
	return &AdminHandler{Scheduling: sched, Users: users, Repo: repo}
}

// ListAppointmentsHandler returns all appointments in a date range,
// defaulting to today when no range is given.
func (h *AdminHandler) ListAppointmentsHandler(c *gin.Context) {
	today := time.Now().Format(models.DateLayout)
	from := c.DefaultQuery("from", today)
	to := c.DefaultQuery("to", from)

	if _, err := time.Parse(models.DateLayout, from); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse(models.DateLayout, to); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
		return
	}

	appts, err := h.Repo.ListBetween(c.Request.Context(), from, to)
	if err != nil {
		getLogger(c).Error("Admin: failed to list appointments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list appointments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "appointments": appts})
}

// StatsHandler aggregates ledger totals per status.
func (h *AdminHandler) StatsHandler(c *gin.Context) {
	counts, err := h.Repo.CountByStatus(c.Request.Context())
	if err != nil {
		getLogger(c).Error("Admin: failed to aggregate stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate stats"})
		return
	}

	var total int64
	byStatus := make(map[string]int64, len(counts))
	for status, n := range counts {
		byStatus[string(status)] = n
		total += n
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "byStatus": byStatus})
}

// GetAllPatientsHandler lists registered patient accounts.
func (h *AdminHandler) GetAllPatientsHandler(c *gin.Context) {
	patients, err := h.Users.GetAllUsers(c.Request.Context())
	if err != nil {
		getLogger(c).Error("Admin: failed to list patients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list patients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

// UpdateAppointmentStatusHandler applies a staff status change: completed,
// no-show, or cancelled.
func (h *AdminHandler) UpdateAppointmentStatusHandler(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	status, err := models.ParseAppointmentStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	switch status {
	case models.StatusCompleted:
		appt, err := h.Scheduling.CompleteBooking(ctx, id)
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, appt)
	case models.StatusNoShow:
		appt, err := h.Scheduling.MarkNoShow(ctx, id)
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, appt)
	case models.StatusCancelled:
		if err := h.Scheduling.CancelBooking(ctx, id, scheduling.Requester{Admin: true}); err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be completed, no-show, or cancelled"})
	}
}

// GetCalendarHandler returns the active clinic calendar.
func (h *AdminHandler) GetCalendarHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Scheduling.Calendar())
}

// UpdateCalendarHandler replaces the clinic calendar. The new calendar is
// validated before it takes effect; existing appointments are untouched.
func (h *AdminHandler) UpdateCalendarHandler(c *gin.Context) {
	var cal models.ClinicCalendar
	if err := c.ShouldBindJSON(&cal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.Scheduling.UpdateCalendar(c.Request.Context(), cal); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Scheduling.Calendar())
}
