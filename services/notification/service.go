package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"dencare/models"
	"dencare/services/tasks"
	"dencare/utils"
)

func NewDefaultNotificationService(client *asynq.Client, reminderLead time.Duration, loc *time.Location) *DefaultNotificationService {
	return &DefaultNotificationService{
		Client:       client,
		ReminderLead: reminderLead,
		Location:     loc,
	}
}

// AppointmentBooked enqueues a visit reminder to fire ReminderLead before
// the appointment. Visits closer than the lead time get no reminder.
func (s *DefaultNotificationService) AppointmentBooked(ctx context.Context, evt models.AppointmentBookedEvent) error {
	logger := utils.GetLogger()
	logger.Info("appointment booked",
		zap.String("appointmentId", evt.ID),
		zap.String("date", evt.Date),
		zap.String("time", evt.Time),
		zap.String("service", evt.Service))

	if s.Client == nil {
		return nil
	}

	startsAt, err := time.ParseInLocation(models.DateLayout+" "+models.ClockLayout, evt.Date+" "+evt.Time, s.Location)
	if err != nil {
		return fmt.Errorf("parse appointment start: %w", err)
	}
	fireAt := startsAt.Add(-s.ReminderLead)
	if !fireAt.After(time.Now()) {
		return nil
	}

	payload := models.ReminderPayload{
		AppointmentID: evt.ID,
		Date:          evt.Date,
		Time:          evt.Time,
		Service:       evt.Service,
		Name:          evt.Contact.Name,
		Email:         evt.Contact.Email,
		Phone:         evt.Contact.Phone,
	}
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	return nil
}

// AppointmentCancelled only logs; any already-queued reminder re-checks
// the appointment status at fire time and skips cancelled visits.
func (s *DefaultNotificationService) AppointmentCancelled(ctx context.Context, evt models.AppointmentCancelledEvent) error {
	utils.GetLogger().Info("appointment cancelled", zap.String("appointmentId", evt.ID))
	return nil
}
