package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dencare/models"
	"dencare/utils"
)

// RequestBooking validates the requested slot against the active calendar
// and commits it through the ledger's conflict-checked insert. Exactly one
// of two concurrent requests for the same slot succeeds; the loser gets
// ErrSlotConflict and is expected to re-query availability — the engine
// never silently reassigns a different slot.
func (s *DefaultSchedulingService) RequestBooking(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	st := s.snapshot()

	if !models.ValidTreatment(req.Service) {
		return nil, fmt.Errorf("%w: unknown service %q", ErrInvalidRequest, req.Service)
	}
	if req.PatientID == "" && req.Contact.Name == "" {
		return nil, fmt.Errorf("%w: guest bookings need a contact name", ErrInvalidRequest)
	}

	startMinutes, day, err := s.validateSlot(st, req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	appt := &models.Appointment{
		ID:        uuid.New().String(),
		PatientID: req.PatientID,
		Contact:   req.Contact,
		Date:      day.Format(models.DateLayout),
		Time:      models.MinutesToClock(startMinutes),
		Service:   req.Service,
		Status:    models.StatusScheduled,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Insert(ctx, appt); err != nil {
		return nil, err
	}

	s.publishBooked(ctx, appt)
	return appt, nil
}

// validateSlot checks that (date, time) is a slot the calendar actually
// generates and lies inside the booking horizon. Returns the slot start in
// minutes from midnight and the parsed day.
func (s *DefaultSchedulingService) validateSlot(st calendarState, date, clock string) (int, time.Time, error) {
	day, err := time.ParseInLocation(models.DateLayout, date, st.loc)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: bad date %q", ErrOutOfRange, date)
	}
	now := s.now().In(st.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, st.loc)
	if day.Before(today) {
		return 0, time.Time{}, fmt.Errorf("%w: %s is in the past", ErrOutOfRange, date)
	}
	if day.After(today.AddDate(0, 0, st.cal.BookingHorizonDays)) {
		return 0, time.Time{}, fmt.Errorf("%w: %s is more than %d days out", ErrOutOfRange, date, st.cal.BookingHorizonDays)
	}

	startMinutes, err := models.ClockToMinutes(clock)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	if _, ok := slotStartsFor(st.cal, day)[startMinutes]; !ok {
		return 0, time.Time{}, fmt.Errorf("%w: %s %s", ErrInvalidSlot, date, clock)
	}
	if day.Equal(today) && startMinutes <= now.Hour()*60+now.Minute() {
		return 0, time.Time{}, fmt.Errorf("%w: slot %s has already started", ErrOutOfRange, clock)
	}
	return startMinutes, day, nil
}

// CancelBooking transitions a scheduled appointment to cancelled, which
// immediately frees its slot (the record stays for audit but falls out of
// the active-slot index). Only the owner or an admin may cancel, and only
// before the visit starts.
func (s *DefaultSchedulingService) CancelBooking(ctx context.Context, id string, by Requester) error {
	st := s.snapshot()

	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !by.Admin && !appt.OwnedBy(by.PatientID) {
		return ErrForbidden
	}
	if !models.CanTransition(appt.Status, models.StatusCancelled) {
		return fmt.Errorf("%w: %s -> cancelled", ErrInvalidTransition, appt.Status)
	}
	start, err := appt.StartsAt(st.loc)
	if err != nil {
		return fmt.Errorf("parse appointment start: %w", err)
	}
	if !s.now().In(st.loc).Before(start) {
		return fmt.Errorf("%w: appointment has already started", ErrInvalidTransition)
	}

	if _, err := s.Repo.UpdateStatus(ctx, id, models.StatusScheduled, models.StatusCancelled); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Lost a race with another transition.
			return fmt.Errorf("%w: appointment no longer scheduled", ErrInvalidTransition)
		}
		return err
	}

	s.publishCancelled(ctx, id)
	return nil
}

// RescheduleBooking atomically retires the original appointment and books
// the replacement slot; the replacement goes through the same conflict-
// checked insert as a fresh booking, so losing the race for the new slot
// leaves the original untouched.
func (s *DefaultSchedulingService) RescheduleBooking(ctx context.Context, id string, by Requester, newDate, newTime string) (*models.Appointment, error) {
	st := s.snapshot()

	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !by.Admin && !appt.OwnedBy(by.PatientID) {
		return nil, ErrForbidden
	}
	if !models.CanTransition(appt.Status, models.StatusRescheduled) {
		return nil, fmt.Errorf("%w: %s -> rescheduled", ErrInvalidTransition, appt.Status)
	}
	start, err := appt.StartsAt(st.loc)
	if err != nil {
		return nil, fmt.Errorf("parse appointment start: %w", err)
	}
	if !s.now().In(st.loc).Before(start) {
		return nil, fmt.Errorf("%w: appointment has already started", ErrInvalidTransition)
	}

	startMinutes, day, err := s.validateSlot(st, newDate, newTime)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	replacement := &models.Appointment{
		ID:        uuid.New().String(),
		PatientID: appt.PatientID,
		Contact:   appt.Contact,
		Date:      day.Format(models.DateLayout),
		Time:      models.MinutesToClock(startMinutes),
		Service:   appt.Service,
		Status:    models.StatusScheduled,
		Notes:     appt.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Reschedule(ctx, id, replacement); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: appointment no longer scheduled", ErrInvalidTransition)
		}
		return nil, err
	}

	s.publishCancelled(ctx, id)
	s.publishBooked(ctx, replacement)
	return replacement, nil
}

// CompleteBooking marks a visit as honored. A future appointment cannot
// be completed.
func (s *DefaultSchedulingService) CompleteBooking(ctx context.Context, id string) (*models.Appointment, error) {
	return s.closeOut(ctx, id, models.StatusCompleted, func(start, now time.Time) bool {
		return !start.After(now) // at or before now
	})
}

// MarkNoShow records that the patient never arrived. Only allowed once
// the scheduled time has passed.
func (s *DefaultSchedulingService) MarkNoShow(ctx context.Context, id string) (*models.Appointment, error) {
	return s.closeOut(ctx, id, models.StatusNoShow, func(start, now time.Time) bool {
		return now.After(start)
	})
}

func (s *DefaultSchedulingService) closeOut(ctx context.Context, id string, to models.AppointmentStatus, timingOK func(start, now time.Time) bool) (*models.Appointment, error) {
	st := s.snapshot()

	appt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(appt.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, to)
	}
	start, err := appt.StartsAt(st.loc)
	if err != nil {
		return nil, fmt.Errorf("parse appointment start: %w", err)
	}
	if !timingOK(start, s.now().In(st.loc)) {
		return nil, fmt.Errorf("%w: too early to mark %s", ErrInvalidTransition, to)
	}

	updated, err := s.Repo.UpdateStatus(ctx, id, models.StatusScheduled, to)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: appointment no longer scheduled", ErrInvalidTransition)
		}
		return nil, err
	}
	return updated, nil
}

// ListForPatient returns the patient's bookings ordered by date and time.
func (s *DefaultSchedulingService) ListForPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.Repo.ListByPatient(ctx, patientID)
}

func (s *DefaultSchedulingService) publishBooked(ctx context.Context, appt *models.Appointment) {
	if s.Events == nil {
		return
	}
	evt := models.AppointmentBookedEvent{
		ID:        appt.ID,
		Date:      appt.Date,
		Time:      appt.Time,
		Service:   appt.Service,
		PatientID: appt.PatientID,
		Contact:   appt.Contact,
	}
	if err := s.Events.AppointmentBooked(ctx, evt); err != nil {
		utils.GetLogger().Warn("booked event delivery failed",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

func (s *DefaultSchedulingService) publishCancelled(ctx context.Context, id string) {
	if s.Events == nil {
		return
	}
	if err := s.Events.AppointmentCancelled(ctx, models.AppointmentCancelledEvent{ID: id}); err != nil {
		utils.GetLogger().Warn("cancelled event delivery failed",
			zap.String("appointmentId", id), zap.Error(err))
	}
}
