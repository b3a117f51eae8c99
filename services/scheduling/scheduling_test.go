package scheduling

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	appointmentRepo "dencare/database/repository/appointment"
	"dencare/models"
)

// baseNow is a Monday morning before opening; most tests book relative to
// it. 2026-03-03 is a Tuesday, 2026-03-08 a Sunday.
var baseNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// fakeLedger is an in-memory AppointmentRepository enforcing the same
// one-active-appointment-per-slot rule as the Mongo partial unique index.
type fakeLedger struct {
	mu    sync.Mutex
	appts map[string]models.Appointment
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{appts: make(map[string]models.Appointment)}
}

func (f *fakeLedger) slotTakenLocked(date, clock, excludeID string) bool {
	for _, a := range f.appts {
		if a.ID != excludeID && a.Status == models.StatusScheduled && a.Date == date && a.Time == clock {
			return true
		}
	}
	return false
}

func (f *fakeLedger) Insert(ctx context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slotTakenLocked(appt.Date, appt.Time, "") {
		return appointmentRepo.ErrSlotConflict
	}
	f.appts[appt.ID] = *appt
	return nil
}

func (f *fakeLedger) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	return &a, nil
}

func (f *fakeLedger) FindActiveByDateTime(ctx context.Context, date, clock string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.appts {
		if a.Status == models.StatusScheduled && a.Date == date && a.Time == clock {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Status == models.StatusScheduled && a.Date == date {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (f *fakeLedger) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (f *fakeLedger) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok || a.Status != from {
		return nil, appointmentRepo.ErrNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now().UTC()
	f.appts[id] = a
	out := a
	return &out, nil
}

func (f *fakeLedger) Reschedule(ctx context.Context, originalID string, replacement *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	orig, ok := f.appts[originalID]
	if !ok || orig.Status != models.StatusScheduled {
		return appointmentRepo.ErrNotFound
	}
	if f.slotTakenLocked(replacement.Date, replacement.Time, originalID) {
		return appointmentRepo.ErrSlotConflict
	}
	orig.Status = models.StatusRescheduled
	f.appts[originalID] = orig
	f.appts[replacement.ID] = *replacement
	return nil
}

func (f *fakeLedger) CountByStatus(ctx context.Context) (map[models.AppointmentStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[models.AppointmentStatus]int64)
	for _, a := range f.appts {
		out[a.Status]++
	}
	return out, nil
}

func (f *fakeLedger) ListBetween(ctx context.Context, fromDate, toDate string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Date >= fromDate && a.Date <= toDate {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (f *fakeLedger) EnsureIndexes(ctx context.Context) error { return nil }

// fakeCalendarStore records saves; Load is never hit by the engine after
// construction.
type fakeCalendarStore struct {
	mu    sync.Mutex
	saved []models.ClinicCalendar
}

func (f *fakeCalendarStore) Load(ctx context.Context) (models.ClinicCalendar, error) {
	return models.DefaultClinicCalendar(), nil
}

func (f *fakeCalendarStore) Save(ctx context.Context, cal models.ClinicCalendar) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, cal)
	return nil
}

// eventRecorder captures published booking events.
type eventRecorder struct {
	mu        sync.Mutex
	booked    []models.AppointmentBookedEvent
	cancelled []models.AppointmentCancelledEvent
}

func (r *eventRecorder) AppointmentBooked(ctx context.Context, evt models.AppointmentBookedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.booked = append(r.booked, evt)
	return nil
}

func (r *eventRecorder) AppointmentCancelled(ctx context.Context, evt models.AppointmentCancelledEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, evt)
	return nil
}

func newTestService(t *testing.T) (*DefaultSchedulingService, *fakeLedger, *eventRecorder) {
	t.Helper()
	ledger := newFakeLedger()
	events := &eventRecorder{}
	svc, err := NewSchedulingService(ledger, &fakeCalendarStore{}, events, models.DefaultClinicCalendar())
	if err != nil {
		t.Fatalf("NewSchedulingService: %v", err)
	}
	svc.now = func() time.Time { return baseNow }
	return svc, ledger, events
}
