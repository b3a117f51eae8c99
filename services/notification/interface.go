package notification

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"dencare/models"
)

// NotificationService consumes the booking engine's domain events. It is
// fire-and-forget by contract: a failure here must never roll back the
// booking that produced the event.
type NotificationService interface {
	AppointmentBooked(ctx context.Context, evt models.AppointmentBookedEvent) error
	AppointmentCancelled(ctx context.Context, evt models.AppointmentCancelledEvent) error
}

// DefaultNotificationService logs confirmations and schedules visit
// reminders on the asynq queue. Actual email/SMS delivery belongs to an
// external collaborator reading the same queue.
type DefaultNotificationService struct {
	Client       *asynq.Client
	ReminderLead time.Duration
	Location     *time.Location
}
