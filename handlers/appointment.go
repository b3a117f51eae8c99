package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dencare/models"
	"dencare/services/scheduling"
	"dencare/services/user"
)

// AppointmentHandler serves the patient-facing booking endpoints.
type AppointmentHandler struct {
	Scheduling scheduling.SchedulingService
	Users      user.UserService
}

func NewAppointmentHandler(sched scheduling.SchedulingService, users user.UserService) *AppointmentHandler {
	return &AppointmentHandler{Scheduling: sched, Users: users}
}

// GetAvailabilityHandler returns the free/taken breakdown of a date's slots.
func (h *AppointmentHandler) GetAvailabilityHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	slots, err := h.Scheduling.FreeSlotsFor(c.Request.Context(), date)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

type bookAppointmentRequest struct {
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
	Service string `json:"service" binding:"required"`
	Notes   string `json:"notes"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// BookAppointmentHandler creates a booking. Signed-in patients get their
// stored contact details filled in; guests must supply them in the body.
func (h *AppointmentHandler) BookAppointmentHandler(c *gin.Context) {
	logger := getLogger(c)

	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contact := models.PatientContact{Name: req.Name, Phone: req.Phone, Email: req.Email}

	patientID := c.GetString("userID")
	if patientID != "" {
		usr, err := h.Users.GetByID(c.Request.Context(), patientID)
		if err != nil {
			logger.Error("Booking: failed to load patient account",
				zap.String("userID", patientID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking failed, please try again"})
			return
		}
		stored := usr.Contact()
		if contact.Name == "" {
			contact.Name = stored.Name
		}
		if contact.Phone == "" {
			contact.Phone = stored.Phone
		}
		if contact.Email == "" {
			contact.Email = stored.Email
		}
	}

	appt, err := h.Scheduling.RequestBooking(c.Request.Context(), scheduling.BookingRequest{
		Date:      req.Date,
		Time:      req.Time,
		Service:   req.Service,
		Notes:     req.Notes,
		PatientID: patientID,
		Contact:   contact,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// MyAppointmentsHandler lists the signed-in patient's appointments.
func (h *AppointmentHandler) MyAppointmentsHandler(c *gin.Context) {
	patientID := c.GetString("userID")
	if patientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	appts, err := h.Scheduling.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		getLogger(c).Error("Failed to list appointments", zap.String("userID", patientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load your appointments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// CancelAppointmentHandler cancels a scheduled appointment, freeing its slot.
func (h *AppointmentHandler) CancelAppointmentHandler(c *gin.Context) {
	id := c.Param("id")
	by := scheduling.Requester{PatientID: c.GetString("userID")}

	if err := h.Scheduling.CancelBooking(c.Request.Context(), id, by); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

type rescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// RescheduleAppointmentHandler moves an appointment to a new slot. The old
// slot is released and the new one claimed in a single transaction.
func (h *AppointmentHandler) RescheduleAppointmentHandler(c *gin.Context) {
	id := c.Param("id")

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	by := scheduling.Requester{PatientID: c.GetString("userID")}
	appt, err := h.Scheduling.RescheduleBooking(c.Request.Context(), id, by, req.Date, req.Time)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
