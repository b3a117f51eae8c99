package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dencare/models"
)

func bookTuesday(t *testing.T, svc *DefaultSchedulingService, clock, patientID string) *models.Appointment {
	t.Helper()
	appt, err := svc.RequestBooking(context.Background(), BookingRequest{
		Date:      "2026-03-03",
		Time:      clock,
		Service:   "general-checkup",
		PatientID: patientID,
		Contact:   models.PatientContact{Name: "Asha", Phone: "0712345678"},
	})
	if err != nil {
		t.Fatalf("RequestBooking(%s): %v", clock, err)
	}
	return appt
}

func TestRequestBooking(t *testing.T) {
	svc, _, events := newTestService(t)

	appt := bookTuesday(t, svc, "10:30", "p1")
	if appt.Status != models.StatusScheduled {
		t.Fatalf("status = %s, want scheduled", appt.Status)
	}
	if appt.Date != "2026-03-03" || appt.Time != "10:30" {
		t.Fatalf("slot = %s %s, want 2026-03-03 10:30", appt.Date, appt.Time)
	}
	if appt.ID == "" {
		t.Fatal("appointment must get an ID")
	}
	if len(events.booked) != 1 || events.booked[0].ID != appt.ID {
		t.Fatalf("expected one booked event for %s, got %+v", appt.ID, events.booked)
	}
}

func TestRequestBookingValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	base := BookingRequest{
		Date:    "2026-03-03",
		Time:    "10:30",
		Service: "general-checkup",
		Contact: models.PatientContact{Name: "Asha"},
	}

	tests := []struct {
		name   string
		mutate func(*BookingRequest)
		want   error
	}{
		{
			name:   "unknown service",
			mutate: func(r *BookingRequest) { r.Service = "palm-reading" },
			want:   ErrInvalidRequest,
		},
		{
			name:   "guest without contact name",
			mutate: func(r *BookingRequest) { r.Contact = models.PatientContact{} },
			want:   ErrInvalidRequest,
		},
		{
			name:   "misaligned time",
			mutate: func(r *BookingRequest) { r.Time = "10:15" },
			want:   ErrInvalidSlot,
		},
		{
			name:   "time outside operating windows",
			mutate: func(r *BookingRequest) { r.Time = "16:00" },
			want:   ErrInvalidSlot,
		},
		{
			name:   "malformed time",
			mutate: func(r *BookingRequest) { r.Time = "10h30" },
			want:   ErrInvalidSlot,
		},
		{
			name:   "past date",
			mutate: func(r *BookingRequest) { r.Date = "2026-02-27" },
			want:   ErrOutOfRange,
		},
		{
			name:   "malformed date",
			mutate: func(r *BookingRequest) { r.Date = "03-03-2026" },
			want:   ErrOutOfRange,
		},
		{
			name:   "beyond booking horizon",
			mutate: func(r *BookingRequest) { r.Date = "2026-07-01" },
			want:   ErrOutOfRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			if _, err := svc.RequestBooking(ctx, req); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRequestBookingTodayElapsedSlot(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }

	// 12:00 has started, 10:30 has passed; 12:30 is still bookable.
	for _, clock := range []string{"10:30", "12:00"} {
		_, err := svc.RequestBooking(context.Background(), BookingRequest{
			Date:    "2026-03-02",
			Time:    clock,
			Service: "general-checkup",
			Contact: models.PatientContact{Name: "Asha"},
		})
		if !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("booking today at %s: got %v, want ErrOutOfRange", clock, err)
		}
	}

	if _, err := svc.RequestBooking(context.Background(), BookingRequest{
		Date:    "2026-03-02",
		Time:    "12:30",
		Service: "general-checkup",
		Contact: models.PatientContact{Name: "Asha"},
	}); err != nil {
		t.Fatalf("booking today at 12:30: %v", err)
	}
}

func TestRequestBookingConflict(t *testing.T) {
	svc, _, _ := newTestService(t)

	bookTuesday(t, svc, "10:30", "p1")

	_, err := svc.RequestBooking(context.Background(), BookingRequest{
		Date:    "2026-03-03",
		Time:    "10:30",
		Service: "teeth-cleaning",
		Contact: models.PatientContact{Name: "Brian"},
	})
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("got %v, want ErrSlotConflict", err)
	}
}

func TestRequestBookingConcurrent(t *testing.T) {
	svc, _, _ := newTestService(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RequestBooking(context.Background(), BookingRequest{
				Date:    "2026-03-03",
				Time:    "11:00",
				Service: "general-checkup",
				Contact: models.PatientContact{Name: "Racer"},
			})
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrSlotConflict):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 || lost != attempts-1 {
		t.Fatalf("got %d winners and %d conflicts, want exactly 1 winner", won, lost)
	}
}

func TestCancelBookingFreesSlot(t *testing.T) {
	svc, _, events := newTestService(t)
	ctx := context.Background()

	appt := bookTuesday(t, svc, "10:30", "p1")
	if err := svc.CancelBooking(ctx, appt.ID, Requester{PatientID: "p1"}); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if len(events.cancelled) != 1 || events.cancelled[0].ID != appt.ID {
		t.Fatalf("expected one cancelled event, got %+v", events.cancelled)
	}

	// The slot is free again for anyone.
	if _, err := svc.RequestBooking(ctx, BookingRequest{
		Date:    "2026-03-03",
		Time:    "10:30",
		Service: "teeth-cleaning",
		Contact: models.PatientContact{Name: "Brian"},
	}); err != nil {
		t.Fatalf("rebooking a cancelled slot: %v", err)
	}
}

func TestCancelBookingOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	appt := bookTuesday(t, svc, "10:30", "p1")
	if err := svc.CancelBooking(ctx, appt.ID, Requester{PatientID: "p2"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("another patient cancelling: got %v, want ErrForbidden", err)
	}

	// Guest bookings can only be cancelled by staff.
	guest := bookTuesday(t, svc, "11:30", "")
	if err := svc.CancelBooking(ctx, guest.ID, Requester{PatientID: "p1"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("patient cancelling a guest booking: got %v, want ErrForbidden", err)
	}
	if err := svc.CancelBooking(ctx, guest.ID, Requester{Admin: true}); err != nil {
		t.Fatalf("admin cancelling a guest booking: %v", err)
	}
}

func TestCancelBookingGuards(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.CancelBooking(ctx, "missing", Requester{Admin: true}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: got %v, want ErrNotFound", err)
	}

	appt := bookTuesday(t, svc, "10:30", "p1")
	if err := svc.CancelBooking(ctx, appt.ID, Requester{PatientID: "p1"}); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	// Already cancelled: terminal.
	if err := svc.CancelBooking(ctx, appt.ID, Requester{PatientID: "p1"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double cancel: got %v, want ErrInvalidTransition", err)
	}

	// Once the visit has started cancellation is refused.
	late := bookTuesday(t, svc, "11:00", "p1")
	svc.now = func() time.Time { return time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC) }
	if err := svc.CancelBooking(ctx, late.ID, Requester{PatientID: "p1"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel at start time: got %v, want ErrInvalidTransition", err)
	}
}

func TestRescheduleBooking(t *testing.T) {
	svc, ledger, events := newTestService(t)
	ctx := context.Background()

	appt := bookTuesday(t, svc, "10:30", "p1")
	moved, err := svc.RescheduleBooking(ctx, appt.ID, Requester{PatientID: "p1"}, "2026-03-03", "18:30")
	if err != nil {
		t.Fatalf("RescheduleBooking: %v", err)
	}
	if moved.Date != "2026-03-03" || moved.Time != "18:30" {
		t.Fatalf("replacement slot = %s %s, want 2026-03-03 18:30", moved.Date, moved.Time)
	}
	if moved.PatientID != "p1" || moved.Service != appt.Service {
		t.Fatal("replacement must carry over patient and service")
	}

	orig, err := ledger.GetByID(ctx, appt.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if orig.Status != models.StatusRescheduled {
		t.Fatalf("original status = %s, want rescheduled", orig.Status)
	}

	if len(events.cancelled) != 1 || len(events.booked) != 2 {
		t.Fatalf("expected cancelled+booked events, got %d cancelled %d booked", len(events.cancelled), len(events.booked))
	}

	// The old slot is free again.
	if _, err := svc.RequestBooking(ctx, BookingRequest{
		Date:    "2026-03-03",
		Time:    "10:30",
		Service: "teeth-cleaning",
		Contact: models.PatientContact{Name: "Brian"},
	}); err != nil {
		t.Fatalf("rebooking the vacated slot: %v", err)
	}
}

func TestRescheduleBookingConflictLeavesOriginal(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	ctx := context.Background()

	appt := bookTuesday(t, svc, "10:30", "p1")
	bookTuesday(t, svc, "18:30", "p2")

	_, err := svc.RescheduleBooking(ctx, appt.ID, Requester{PatientID: "p1"}, "2026-03-03", "18:30")
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("got %v, want ErrSlotConflict", err)
	}

	orig, err := ledger.GetByID(ctx, appt.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if orig.Status != models.StatusScheduled {
		t.Fatalf("original must stay scheduled after a lost race, got %s", orig.Status)
	}
}

func TestRescheduleBookingValidatesNewSlot(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	appt := bookTuesday(t, svc, "10:30", "p1")
	if _, err := svc.RescheduleBooking(ctx, appt.ID, Requester{PatientID: "p1"}, "2026-03-03", "10:45"); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("misaligned target: got %v, want ErrInvalidSlot", err)
	}
	if _, err := svc.RescheduleBooking(ctx, appt.ID, Requester{PatientID: "p2"}, "2026-03-03", "18:30"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner: got %v, want ErrForbidden", err)
	}
}

func TestCompleteBookingTiming(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	appt := bookTuesday(t, svc, "10:30", "p1")

	// Too early: the visit has not started.
	if _, err := svc.CompleteBooking(ctx, appt.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("completing a future visit: got %v, want ErrInvalidTransition", err)
	}

	svc.now = func() time.Time { return time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC) }
	done, err := svc.CompleteBooking(ctx, appt.ID)
	if err != nil {
		t.Fatalf("CompleteBooking: %v", err)
	}
	if done.Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", done.Status)
	}

	// Terminal now.
	if _, err := svc.CompleteBooking(ctx, appt.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double complete: got %v, want ErrInvalidTransition", err)
	}
}

func TestMarkNoShowTiming(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	appt := bookTuesday(t, svc, "10:30", "p1")

	// Exactly at start is still too early; no-show needs the time to have passed.
	svc.now = func() time.Time { return time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC) }
	if _, err := svc.MarkNoShow(ctx, appt.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("no-show at start time: got %v, want ErrInvalidTransition", err)
	}

	svc.now = func() time.Time { return time.Date(2026, 3, 3, 10, 45, 0, 0, time.UTC) }
	marked, err := svc.MarkNoShow(ctx, appt.ID)
	if err != nil {
		t.Fatalf("MarkNoShow: %v", err)
	}
	if marked.Status != models.StatusNoShow {
		t.Fatalf("status = %s, want no-show", marked.Status)
	}
}

func TestListForPatient(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	bookTuesday(t, svc, "18:30", "p1")
	bookTuesday(t, svc, "10:30", "p1")
	bookTuesday(t, svc, "11:00", "p2")

	appts, err := svc.ListForPatient(ctx, "p1")
	if err != nil {
		t.Fatalf("ListForPatient: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 appointments for p1, got %d", len(appts))
	}
	if appts[0].Time != "10:30" || appts[1].Time != "18:30" {
		t.Fatalf("appointments not ordered by time: %s, %s", appts[0].Time, appts[1].Time)
	}
}
