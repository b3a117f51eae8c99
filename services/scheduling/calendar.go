package scheduling

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"dencare/models"
)

// Calendar returns the active booking configuration.
func (s *DefaultSchedulingService) Calendar() models.ClinicCalendar {
	return s.snapshot().cal
}

// UpdateCalendar validates and persists a new calendar, then swaps it in
// for subsequent reads. In-flight requests keep the snapshot they started
// with.
func (s *DefaultSchedulingService) UpdateCalendar(ctx context.Context, cal models.ClinicCalendar) error {
	if err := cal.Validate(); err != nil {
		return err
	}
	if err := s.CalendarRepo.Save(ctx, cal); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = newCalendarState(cal)
	s.mu.Unlock()
	return nil
}

// Holidays returns the configured full-day exclusions.
func (s *DefaultSchedulingService) Holidays() []string {
	cal := s.snapshot().cal
	out := make([]string, len(cal.Holidays))
	copy(out, cal.Holidays)
	return out
}

// ClinicStatus reports whether the clinic is currently open and, when
// closed, when it next opens. Backs the site's status widget.
func (s *DefaultSchedulingService) ClinicStatus() models.ClinicStatus {
	st := s.snapshot()
	now := s.now().In(st.loc)
	nowMinutes := now.Hour()*60 + now.Minute()

	status := models.ClinicStatus{
		Schedule: models.ClinicSchedule{
			Weekdays: renderWindows(st.cal.WeeklyWindows[models.WeekdayKey(time.Monday)]),
			Sunday:   renderWindows(st.cal.WeeklyWindows[models.WeekdayKey(time.Sunday)]),
		},
	}

	for _, w := range st.cal.WindowsFor(now) {
		if nowMinutes >= w.Start && nowMinutes < w.End {
			status.IsOpen = true
			return status
		}
	}

	// Closed: scan forward (two weeks is enough to cross any holiday
	// stretch the clinic realistically configures) for the next opening.
	for offset := 0; offset < 14; offset++ {
		day := now.AddDate(0, 0, offset)
		for _, w := range st.cal.WindowsFor(day) {
			if offset == 0 && w.Start <= nowMinutes {
				continue
			}
			opening := time.Date(day.Year(), day.Month(), day.Day(), w.Start/60, w.Start%60, 0, 0, st.loc)
			status.NextOpeningTime = opening.Format("Mon 02 Jan 15:04")
			return status
		}
	}
	return status
}

func renderWindows(windows []models.TimeWindow) string {
	if len(windows) == 0 {
		return "Closed"
	}
	sorted := make([]models.TimeWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	parts := make([]string, 0, len(sorted))
	for _, w := range sorted {
		parts = append(parts, fmt.Sprintf("%s - %s", models.MinutesToClock(w.Start), models.MinutesToClock(w.End)))
	}
	return strings.Join(parts, ", ")
}
