package scheduling

import (
	"time"

	"dencare/models"
)

// GenerateSlots derives the ordered set of bookable slots for a date:
// each operating window is walked front to back emitting consecutive
// slots of the calendar's duration, and a trailing remainder shorter than
// one slot is dropped, not rounded. The result is a pure function of the
// calendar and the date, so identical configuration always yields an
// identical sequence.
func GenerateSlots(cal models.ClinicCalendar, date time.Time) []models.Slot {
	day := date.Format(models.DateLayout)
	var slots []models.Slot
	for _, w := range cal.WindowsFor(date) {
		for start := w.Start; start+cal.SlotDurationMinutes <= w.End; start += cal.SlotDurationMinutes {
			slots = append(slots, models.Slot{
				Date:            day,
				Start:           start,
				DurationMinutes: cal.SlotDurationMinutes,
			})
		}
	}
	return slots
}

// slotStartsFor indexes a date's slot starts (minutes from midnight) for
// alignment checks.
func slotStartsFor(cal models.ClinicCalendar, date time.Time) map[int]struct{} {
	slots := GenerateSlots(cal, date)
	starts := make(map[int]struct{}, len(slots))
	for _, s := range slots {
		starts[s.Start] = struct{}{}
	}
	return starts
}
