package scheduling

import (
	"errors"

	appointmentRepo "dencare/database/repository/appointment"
)

// Booking errors are recoverable-by-caller conditions. Handlers translate
// them into HTTP responses; nothing here is process-fatal. The one fatal
// condition, a malformed calendar, surfaces as *models.ConfigurationError
// and prevents the server from starting.
var (
	// ErrInvalidSlot: the requested time does not correspond to a slot
	// the calendar generates for that date.
	ErrInvalidSlot = errors.New("requested time is not a bookable slot")
	// ErrOutOfRange: the requested date is in the past or beyond the
	// booking horizon.
	ErrOutOfRange = errors.New("date outside the booking window")
	// ErrInvalidDate: availability was queried for a past or malformed date.
	ErrInvalidDate = errors.New("invalid availability date")
	// ErrInvalidTransition: the requested status change is not allowed
	// from the appointment's current state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden: the requester does not own the appointment.
	ErrForbidden = errors.New("appointment belongs to another patient")
	// ErrInvalidRequest: malformed booking input (unknown service,
	// missing guest contact).
	ErrInvalidRequest = errors.New("invalid booking request")

	// Ledger conditions, re-exported so callers depend on one package.
	ErrSlotConflict = appointmentRepo.ErrSlotConflict
	ErrNotFound     = appointmentRepo.ErrNotFound
)
