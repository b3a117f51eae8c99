package models

import (
	"fmt"
	"time"
)

// Slot is a derived bookable unit: one slot-duration stretch inside an
// operating window on a concrete date. Slots are recomputed from the
// calendar on demand and never persisted; identity is (Date, start time).
type Slot struct {
	Date            string `json:"date"`  // "2006-01-02"
	Start           int    `json:"start"` // minutes from midnight
	DurationMinutes int    `json:"durationMinutes"`
}

// Time renders the slot's start as the "15:04" wire format.
func (s Slot) Time() string {
	return MinutesToClock(s.Start)
}

// SlotAvailability is one entry of an availability response: a slot time
// and whether it can still be booked.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// MinutesToClock formats minutes from midnight as "15:04".
func MinutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ClockToMinutes parses a "15:04" time of day into minutes from midnight.
func ClockToMinutes(clock string) (int, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("bad time of day %q, want HH:MM", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}
