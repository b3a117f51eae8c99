package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"dencare/config"
	appointmentRepo "dencare/database/repository/appointment"
	"dencare/models"
	"dencare/services/tasks"
	"dencare/utils"
)

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(repo appointmentRepo.AppointmentRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReminderSend, handleReminderTask(repo))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleReminderTask fires when a visit reminder comes due. The
// appointment is re-read first: reminders for visits that were cancelled
// or rescheduled after enqueueing are dropped silently.
func handleReminderTask(repo appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("reminder: invalid payload", zap.Error(err))
			return err
		}

		appt, err := repo.GetByID(ctx, p.AppointmentID)
		if err != nil {
			logger.Warn("reminder: appointment lookup failed",
				zap.String("appointmentId", p.AppointmentID), zap.Error(err))
			return err
		}
		if appt.Status != models.StatusScheduled {
			logger.Info("reminder: skipping, appointment no longer scheduled",
				zap.String("appointmentId", p.AppointmentID),
				zap.String("status", string(appt.Status)))
			return nil
		}

		// Delivery itself (email/SMS) is owned by the messaging
		// collaborator; this worker records the dispatch.
		logger.Info("reminder: dispatching",
			zap.String("appointmentId", p.AppointmentID),
			zap.String("date", p.Date),
			zap.String("time", p.Time),
			zap.String("name", p.Name),
			zap.String("email", p.Email))
		return nil
	}
}
