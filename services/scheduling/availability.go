package scheduling

import (
	"context"
	"fmt"
	"time"

	"dencare/models"
)

// FreeSlotsFor combines the generated slot set with the ledger's taken
// slots. On the current day, slots whose start is not strictly after
// "now" are reported unavailable even when unbooked. Past dates are not a
// supported query; holidays yield an empty (non-error) result.
func (s *DefaultSchedulingService) FreeSlotsFor(ctx context.Context, date string) ([]models.SlotAvailability, error) {
	st := s.snapshot()

	day, err := time.ParseInLocation(models.DateLayout, date, st.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	now := s.now().In(st.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, st.loc)
	if day.Before(today) {
		return nil, fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date)
	}

	slots := GenerateSlots(st.cal, day)
	if len(slots) == 0 {
		return []models.SlotAvailability{}, nil
	}

	booked, err := s.Repo.ListByDate(ctx, day.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", date, err)
	}
	taken := make(map[string]struct{}, len(booked))
	for _, a := range booked {
		taken[a.Time] = struct{}{}
	}

	isToday := day.Equal(today)
	nowMinutes := now.Hour()*60 + now.Minute()

	out := make([]models.SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		_, isTaken := taken[slot.Time()]
		available := !isTaken && (!isToday || slot.Start > nowMinutes)
		out = append(out, models.SlotAvailability{Time: slot.Time(), Available: available})
	}
	return out, nil
}
