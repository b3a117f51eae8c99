package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"dencare/models"
)

const TypeReminderSend = "reminder:send"

// NewReminderTask builds a delayed asynq task that fires at the reminder
// time for a booked visit.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminderSend, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
