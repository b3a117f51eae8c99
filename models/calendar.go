package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimeWindow is a contiguous operating block within a day, expressed in
// minutes from midnight (e.g. 600 for 10:00, 1290 for 21:30).
type TimeWindow struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// ClinicCalendar is the clinic's booking configuration: recurring weekly
// operating windows, holiday exclusions and slot granularity. It is stored
// as a single configuration document and is read-only to booking logic;
// only the admin endpoint replaces it.
type ClinicCalendar struct {
	// WeeklyWindows maps lowercase weekday names ("sunday".."saturday")
	// to ordered operating windows for that day. Days without an entry
	// are closed.
	WeeklyWindows map[string][]TimeWindow `bson:"weeklyWindows" json:"weeklyWindows"`
	// Holidays are full-day exclusions in "2006-01-02" form.
	Holidays            []string  `bson:"holidays" json:"holidays"`
	SlotDurationMinutes int       `bson:"slotDurationMinutes" json:"slotDurationMinutes"`
	BookingHorizonDays  int       `bson:"bookingHorizonDays" json:"bookingHorizonDays"`
	Timezone            string    `bson:"timezone" json:"timezone"`
	UpdatedAt           time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ConfigurationError reports a malformed clinic calendar. It is fatal at
// load time: the server must not serve booking traffic from a broken
// calendar.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid clinic calendar: %s: %s", e.Field, e.Reason)
}

// DateLayout and ClockLayout are the wire formats for calendar dates and
// times of day used across the service and the HTTP boundary.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

const minutesPerDay = 24 * 60

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekdayKey returns the WeeklyWindows key for a weekday.
func WeekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// Validate checks the calendar invariants and returns a *ConfigurationError
// describing the first violation found.
func (c *ClinicCalendar) Validate() error {
	if c.SlotDurationMinutes <= 0 || c.SlotDurationMinutes > minutesPerDay {
		return &ConfigurationError{Field: "slotDurationMinutes", Reason: fmt.Sprintf("must be in (0, %d], got %d", minutesPerDay, c.SlotDurationMinutes)}
	}
	if c.BookingHorizonDays <= 0 {
		return &ConfigurationError{Field: "bookingHorizonDays", Reason: fmt.Sprintf("must be positive, got %d", c.BookingHorizonDays)}
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return &ConfigurationError{Field: "timezone", Reason: fmt.Sprintf("unknown timezone %q", c.Timezone)}
		}
	}
	for day, windows := range c.WeeklyWindows {
		if _, ok := weekdayNames[day]; !ok {
			return &ConfigurationError{Field: "weeklyWindows", Reason: fmt.Sprintf("unknown weekday %q", day)}
		}
		sorted := make([]TimeWindow, len(windows))
		copy(sorted, windows)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
		for i, w := range sorted {
			if w.Start < 0 || w.End > minutesPerDay {
				return &ConfigurationError{Field: day, Reason: fmt.Sprintf("window [%d, %d] outside the day", w.Start, w.End)}
			}
			if w.Start >= w.End {
				return &ConfigurationError{Field: day, Reason: fmt.Sprintf("window start %d not before end %d", w.Start, w.End)}
			}
			if i > 0 && w.Start < sorted[i-1].End {
				return &ConfigurationError{Field: day, Reason: fmt.Sprintf("window [%d, %d] overlaps [%d, %d]", w.Start, w.End, sorted[i-1].Start, sorted[i-1].End)}
			}
		}
	}
	for _, h := range c.Holidays {
		if _, err := time.Parse(DateLayout, h); err != nil {
			return &ConfigurationError{Field: "holidays", Reason: fmt.Sprintf("bad date %q, want %s", h, DateLayout)}
		}
	}
	return nil
}

// Location resolves the configured timezone. Validate must have accepted
// the calendar first; an empty timezone means UTC.
func (c *ClinicCalendar) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WindowsFor returns the day's operating windows in chronological order,
// or nil if the date is a holiday or the day has no configured windows.
func (c *ClinicCalendar) WindowsFor(date time.Time) []TimeWindow {
	if c.IsHoliday(date) {
		return nil
	}
	windows := c.WeeklyWindows[WeekdayKey(date.Weekday())]
	if len(windows) == 0 {
		return nil
	}
	out := make([]TimeWindow, len(windows))
	copy(out, windows)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// IsHoliday reports whether the date (by calendar day) is excluded.
func (c *ClinicCalendar) IsHoliday(date time.Time) bool {
	day := date.Format(DateLayout)
	for _, h := range c.Holidays {
		if h == day {
			return true
		}
	}
	return false
}

// DefaultClinicCalendar returns the clinic's stock schedule: Monday to
// Saturday 10:00-15:00 and 18:30-21:30, Sunday mornings only, 30-minute
// visits, bookable 90 days out. Used to seed the configuration document
// on first start.
func DefaultClinicCalendar() ClinicCalendar {
	weekday := []TimeWindow{{Start: 600, End: 900}, {Start: 1110, End: 1290}}
	return ClinicCalendar{
		WeeklyWindows: map[string][]TimeWindow{
			"monday":    weekday,
			"tuesday":   weekday,
			"wednesday": weekday,
			"thursday":  weekday,
			"friday":    weekday,
			"saturday":  weekday,
			"sunday":    {{Start: 600, End: 900}},
		},
		Holidays:            []string{},
		SlotDurationMinutes: 30,
		BookingHorizonDays:  90,
		Timezone:            "UTC",
		UpdatedAt:           time.Now().UTC(),
	}
}
