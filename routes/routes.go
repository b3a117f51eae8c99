package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dencare/handlers"
	"dencare/middleware"
	"dencare/utils"
)

// RegisterAuthRoutes registers patient account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)

		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo, false))
		api.POST("/logout", hb.RevokeUserAuthTokenHandler)
	}
}

// RegisterAppointmentRoutes registers the booking endpoints. Availability
// and booking itself are public so guests can book; bookings made with a
// valid token are attached to the account.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.GET("/availability", hb.GetAvailabilityHandler)
		api.POST("", middleware.JWTAuthUserMiddleware(hb.UserRepo, true), hb.BookAppointmentHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo, false))
		protected.GET("/me", hb.MyAppointmentsHandler)
		protected.DELETE("/:id", hb.CancelAppointmentHandler)
		protected.POST("/:id/reschedule", hb.RescheduleAppointmentHandler)
	}
}

// RegisterClinicRoutes registers the public clinic info endpoints.
func RegisterClinicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/clinic")
	{
		api.GET("/status", hb.ClinicStatusHandler)
		api.GET("/holidays", hb.ClinicHolidaysHandler)
		api.GET("/treatments", hb.ClinicTreatmentsHandler)
	}
}

// RegisterAdminRoutes registers the back-office dashboard endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.AdminAuthMiddleware())
		api.GET("/appointments", hb.AdminHandler.ListAppointmentsHandler)
		api.PATCH("/appointments/:id/status", hb.AdminHandler.UpdateAppointmentStatusHandler)
		api.GET("/stats", hb.AdminHandler.StatsHandler)
		api.GET("/patients", hb.AdminHandler.GetAllPatientsHandler)
		api.GET("/calendar", hb.AdminHandler.GetCalendarHandler)
		api.PUT("/calendar", hb.AdminHandler.UpdateCalendarHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterClinicRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
