package appointmentRepo

import (
	"context"
	"errors"

	"dencare/models"
)

var (
	// ErrSlotConflict means an active appointment already holds the
	// requested (date, time) pair. Expected under concurrent booking
	// load; callers re-query availability and let the patient pick again.
	ErrSlotConflict = errors.New("slot already booked")
	// ErrNotFound means no appointment matched the lookup, or a
	// compare-and-set update lost its race.
	ErrNotFound = errors.New("appointment not found")
)

// AppointmentRepository is the booking ledger: the sole owner of durable
// appointment records and of status writes.
type AppointmentRepository interface {
	// Insert persists a new appointment. The check against existing
	// active appointments and the insert are indivisible: a racing
	// duplicate fails with ErrSlotConflict, never a silent overwrite.
	Insert(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// FindActiveByDateTime returns the scheduled appointment holding the
	// slot, or nil if the slot is free.
	FindActiveByDateTime(ctx context.Context, date, clock string) (*models.Appointment, error)
	// ListByDate returns the date's scheduled appointments ordered by time.
	ListByDate(ctx context.Context, date string) ([]models.Appointment, error)
	// ListByPatient returns a patient's appointments ordered by date, time.
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	// UpdateStatus transitions an appointment from -> to atomically.
	// ErrNotFound if the id is unknown or the record is no longer in
	// the from state.
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (*models.Appointment, error)
	// Reschedule marks the original appointment rescheduled and inserts
	// its replacement in one transaction; the replacement goes through
	// the same conflict check as a fresh insert.
	Reschedule(ctx context.Context, originalID string, replacement *models.Appointment) error
	// CountByStatus aggregates ledger totals for the admin dashboard.
	CountByStatus(ctx context.Context) (map[models.AppointmentStatus]int64, error)
	// ListBetween returns all appointments (any status) with fromDate <=
	// date <= toDate, ordered by date, time.
	ListBetween(ctx context.Context, fromDate, toDate string) ([]models.Appointment, error)
	EnsureIndexes(ctx context.Context) error
}
