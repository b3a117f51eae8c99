package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"dencare/config"
	"dencare/cron"
	"dencare/database"
	appointmentRepoPkg "dencare/database/repository/appointment"
	calendarRepoPkg "dencare/database/repository/calendar"
	userRepoPkg "dencare/database/repository/user"
	"dencare/handlers"
	"dencare/middleware"
	"dencare/routes"
	"dencare/services/notification"
	"dencare/services/scheduling"
	"dencare/services/user"
	"dencare/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// Repositories.
	apptRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	calRepo := calendarRepoPkg.NewMongoCalendarRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := apptRepo.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure user indexes: %v", err)
	}

	cal, err := calRepo.Load(ctx)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load clinic calendar: %v", err)
	}
	cancel()

	// Reminder queue client; the worker consumes from the same Redis DB.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()

	notificationService := notification.NewDefaultNotificationService(
		asynqClient,
		time.Duration(config.AppConfig.ReminderLeadHours)*time.Hour,
		cal.Location(),
	)

	schedulingService, err := scheduling.NewSchedulingService(apptRepo, calRepo, notificationService, cal)
	if err != nil {
		logger.Sugar().Fatalf("main: refusing to start with invalid clinic calendar: %v", err)
	}

	userService := &user.DefaultUserService{Repo: userRepo}
	handlers.SetUserService(userService)

	cron.InitReminderWorker(apptRepo)
	utils.StartHealthMonitor([]*redis.Client{utils.GetAuthCacheClient()}, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	appointmentHandler := handlers.NewAppointmentHandler(schedulingService, userService)
	clinicHandler := handlers.NewClinicHandler(schedulingService)
	adminHandler := handlers.NewAdminHandler(schedulingService, userService, apptRepo)

	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		RegisterUserHandler:        handlers.RegisterUserHandler,
		AuthenticateUserHandler:    handlers.AuthenticateUserHandler,
		RevokeUserAuthTokenHandler: handlers.RevokeUserAuthTokenHandler,

		GetAvailabilityHandler:       appointmentHandler.GetAvailabilityHandler,
		BookAppointmentHandler:       appointmentHandler.BookAppointmentHandler,
		MyAppointmentsHandler:        appointmentHandler.MyAppointmentsHandler,
		CancelAppointmentHandler:     appointmentHandler.CancelAppointmentHandler,
		RescheduleAppointmentHandler: appointmentHandler.RescheduleAppointmentHandler,

		ClinicStatusHandler:     clinicHandler.StatusHandler,
		ClinicHolidaysHandler:   clinicHandler.HolidaysHandler,
		ClinicTreatmentsHandler: clinicHandler.TreatmentsHandler,

		AdminHandler: adminHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
