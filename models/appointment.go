package models

import (
	"fmt"
	"time"
)

// AppointmentStatus is the closed set of appointment states. Both the
// engine and the HTTP boundary use exactly these values; legacy spellings
// are normalized in ParseAppointmentStatus.
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusNoShow      AppointmentStatus = "no-show"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// statusAliases maps accepted wire spellings to the canonical status.
var statusAliases = map[string]AppointmentStatus{
	"scheduled":   StatusScheduled,
	"completed":   StatusCompleted,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
	"no-show":     StatusNoShow,
	"noshow":      StatusNoShow,
	"rescheduled": StatusRescheduled,
}

// ParseAppointmentStatus normalizes a wire status string.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	if st, ok := statusAliases[s]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// transitions lists the allowed status changes. Everything not listed is
// terminal; time-of-day guards (e.g. no-show only after the visit time)
// are enforced by the scheduling service.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled},
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to AppointmentStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s AppointmentStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// PatientContact is the denormalized contact bundle carried on every
// appointment so guest bookings work without an account.
type PatientContact struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// Appointment is a booked clinic visit. The pair (Date, Time) identifies
// the slot; at most one scheduled appointment may hold it at a time.
// Records are never deleted: cancellation and reschedule are status
// transitions that keep the row for audit.
type Appointment struct {
	ID        string            `bson:"id" json:"id"`
	PatientID string            `bson:"patientId,omitempty" json:"patientId,omitempty"`
	Contact   PatientContact    `bson:"contact" json:"contact"`
	Date      string            `bson:"date" json:"date"` // "2006-01-02"
	Time      string            `bson:"time" json:"time"` // "15:04"
	Service   string            `bson:"service" json:"service"`
	Status    AppointmentStatus `bson:"status" json:"status"`
	Notes     string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// StartsAt resolves the appointment's wall-clock start in the clinic's
// timezone.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+ClockLayout, a.Date+" "+a.Time, loc)
}

// OwnedBy reports whether the appointment belongs to the given patient.
// Guest bookings (no PatientID) are owned by nobody and can only be
// managed through the admin surface.
func (a *Appointment) OwnedBy(patientID string) bool {
	return a.PatientID != "" && a.PatientID == patientID
}
