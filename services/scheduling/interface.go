package scheduling

import (
	"context"
	"sync"
	"time"

	appointmentRepo "dencare/database/repository/appointment"
	calendarRepo "dencare/database/repository/calendar"
	"dencare/models"
)

// Requester identifies who is acting on an appointment.
type Requester struct {
	PatientID string
	Admin     bool
}

// BookingRequest is the input for a new booking.
type BookingRequest struct {
	Date      string // "2006-01-02"
	Time      string // "15:04"
	Service   string
	Notes     string
	PatientID string // empty for guest bookings
	Contact   models.PatientContact
}

// BookingEvents is the outbound notification boundary. Implementations
// must tolerate being called after the booking has committed; errors are
// logged by the engine, never propagated, and never roll anything back.
type BookingEvents interface {
	AppointmentBooked(ctx context.Context, evt models.AppointmentBookedEvent) error
	AppointmentCancelled(ctx context.Context, evt models.AppointmentCancelledEvent) error
}

// SchedulingService is the clinic's availability and booking engine.
type SchedulingService interface {
	// FreeSlotsFor answers "what is free on date D". Holiday dates yield
	// an empty sequence; past dates fail with ErrInvalidDate.
	FreeSlotsFor(ctx context.Context, date string) ([]models.SlotAvailability, error)
	// RequestBooking validates the slot and commits it atomically.
	// A lost race surfaces as ErrSlotConflict: the caller re-queries
	// availability and lets the patient pick again.
	RequestBooking(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	CancelBooking(ctx context.Context, id string, by Requester) error
	// RescheduleBooking cancels the original and books the replacement
	// slot as one transaction.
	RescheduleBooking(ctx context.Context, id string, by Requester, newDate, newTime string) (*models.Appointment, error)
	CompleteBooking(ctx context.Context, id string) (*models.Appointment, error)
	MarkNoShow(ctx context.Context, id string) (*models.Appointment, error)
	ListForPatient(ctx context.Context, patientID string) ([]models.Appointment, error)

	Calendar() models.ClinicCalendar
	UpdateCalendar(ctx context.Context, cal models.ClinicCalendar) error
	Holidays() []string
	ClinicStatus() models.ClinicStatus
}

// calendarState is an immutable snapshot of the active calendar plus its
// resolved timezone; swapped wholesale on admin updates.
type calendarState struct {
	cal models.ClinicCalendar
	loc *time.Location
}

func newCalendarState(cal models.ClinicCalendar) calendarState {
	return calendarState{cal: cal, loc: cal.Location()}
}

// DefaultSchedulingService is the production implementation.
type DefaultSchedulingService struct {
	Repo         appointmentRepo.AppointmentRepository
	CalendarRepo calendarRepo.CalendarRepository
	Events       BookingEvents

	mu    sync.RWMutex
	state calendarState

	now func() time.Time
}

// NewSchedulingService wires the engine with an already-validated
// calendar. A broken calendar is refused here so the server never serves
// booking traffic from one.
func NewSchedulingService(
	repo appointmentRepo.AppointmentRepository,
	calRepo calendarRepo.CalendarRepository,
	events BookingEvents,
	cal models.ClinicCalendar,
) (*DefaultSchedulingService, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return &DefaultSchedulingService{
		Repo:         repo,
		CalendarRepo: calRepo,
		Events:       events,
		state:        newCalendarState(cal),
		now:          time.Now,
	}, nil
}

func (s *DefaultSchedulingService) snapshot() calendarState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
