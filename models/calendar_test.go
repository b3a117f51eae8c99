package models

import (
	"errors"
	"testing"
	"time"
)

func TestCalendarValidate(t *testing.T) {
	valid := DefaultClinicCalendar()
	if err := valid.Validate(); err != nil {
		t.Fatalf("default calendar should validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ClinicCalendar)
		field  string
	}{
		{
			name:   "zero slot duration",
			mutate: func(c *ClinicCalendar) { c.SlotDurationMinutes = 0 },
			field:  "slotDurationMinutes",
		},
		{
			name:   "slot duration longer than a day",
			mutate: func(c *ClinicCalendar) { c.SlotDurationMinutes = 1441 },
			field:  "slotDurationMinutes",
		},
		{
			name:   "zero horizon",
			mutate: func(c *ClinicCalendar) { c.BookingHorizonDays = 0 },
			field:  "bookingHorizonDays",
		},
		{
			name:   "unknown timezone",
			mutate: func(c *ClinicCalendar) { c.Timezone = "Mars/Olympus" },
			field:  "timezone",
		},
		{
			name: "unknown weekday key",
			mutate: func(c *ClinicCalendar) {
				c.WeeklyWindows["funday"] = []TimeWindow{{Start: 600, End: 900}}
			},
			field: "weeklyWindows",
		},
		{
			name: "window start after end",
			mutate: func(c *ClinicCalendar) {
				c.WeeklyWindows["monday"] = []TimeWindow{{Start: 900, End: 600}}
			},
			field: "monday",
		},
		{
			name: "window past midnight",
			mutate: func(c *ClinicCalendar) {
				c.WeeklyWindows["monday"] = []TimeWindow{{Start: 1380, End: 1500}}
			},
			field: "monday",
		},
		{
			name: "overlapping windows",
			mutate: func(c *ClinicCalendar) {
				c.WeeklyWindows["monday"] = []TimeWindow{{Start: 600, End: 900}, {Start: 870, End: 1000}}
			},
			field: "monday",
		},
		{
			name: "overlapping windows listed out of order",
			mutate: func(c *ClinicCalendar) {
				c.WeeklyWindows["monday"] = []TimeWindow{{Start: 870, End: 1000}, {Start: 600, End: 900}}
			},
			field: "monday",
		},
		{
			name:   "malformed holiday",
			mutate: func(c *ClinicCalendar) { c.Holidays = []string{"25-12-2026"} },
			field:  "holidays",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := DefaultClinicCalendar()
			tt.mutate(&cal)
			err := cal.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigurationError, got %T", err)
			}
			if cfgErr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestWindowsFor(t *testing.T) {
	cal := DefaultClinicCalendar()

	// 2026-03-03 is a Tuesday.
	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	windows := cal.WindowsFor(tuesday)
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows on a weekday, got %d", len(windows))
	}
	if windows[0].Start != 600 || windows[1].Start != 1110 {
		t.Fatalf("windows not in chronological order: %+v", windows)
	}

	// Sunday has mornings only.
	sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	if got := cal.WindowsFor(sunday); len(got) != 1 {
		t.Fatalf("expected 1 window on Sunday, got %d", len(got))
	}

	// Holidays close the whole day.
	cal.Holidays = []string{"2026-03-03"}
	if got := cal.WindowsFor(tuesday); got != nil {
		t.Fatalf("expected nil windows on a holiday, got %+v", got)
	}

	// Days without an entry are closed.
	delete(cal.WeeklyWindows, "sunday")
	if got := cal.WindowsFor(sunday); got != nil {
		t.Fatalf("expected nil windows on a closed day, got %+v", got)
	}
}

func TestWindowsForReturnsSortedCopy(t *testing.T) {
	cal := DefaultClinicCalendar()
	cal.WeeklyWindows["monday"] = []TimeWindow{{Start: 1110, End: 1290}, {Start: 600, End: 900}}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	windows := cal.WindowsFor(monday)
	if windows[0].Start != 600 {
		t.Fatalf("expected sorted windows, got %+v", windows)
	}

	windows[0].Start = 0
	if cal.WeeklyWindows["monday"][0].Start == 0 {
		t.Fatal("WindowsFor must not alias the calendar's slice")
	}
}

func TestIsHoliday(t *testing.T) {
	cal := DefaultClinicCalendar()
	cal.Holidays = []string{"2026-12-25"}

	if !cal.IsHoliday(time.Date(2026, 12, 25, 14, 30, 0, 0, time.UTC)) {
		t.Fatal("expected 2026-12-25 to be a holiday regardless of time of day")
	}
	if cal.IsHoliday(time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("2026-12-24 is not a holiday")
	}
}
