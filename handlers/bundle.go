package handlers

import (
	"github.com/gin-gonic/gin"

	userRepo "dencare/database/repository/user"
)

// HandlerBundle groups every HTTP handler plus the repositories the route
// middleware needs, so route registration takes a single argument.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	// Auth endpoints.
	RegisterUserHandler        gin.HandlerFunc
	AuthenticateUserHandler    gin.HandlerFunc
	RevokeUserAuthTokenHandler gin.HandlerFunc

	// Appointment endpoints.
	GetAvailabilityHandler       gin.HandlerFunc
	BookAppointmentHandler       gin.HandlerFunc
	MyAppointmentsHandler        gin.HandlerFunc
	CancelAppointmentHandler     gin.HandlerFunc
	RescheduleAppointmentHandler gin.HandlerFunc

	// Clinic info endpoints.
	ClinicStatusHandler     gin.HandlerFunc
	ClinicHolidaysHandler   gin.HandlerFunc
	ClinicTreatmentsHandler gin.HandlerFunc

	// Admin endpoints.
	AdminHandler *AdminHandler
}
