package models

// Domain events emitted by the booking workflow after a commit. The
// notification collaborator consumes them; a delivery failure never rolls
// back the booking.

// AppointmentBookedEvent is published when a booking commits.
type AppointmentBookedEvent struct {
	ID        string         `json:"id"`
	Date      string         `json:"date"`
	Time      string         `json:"time"`
	Service   string         `json:"service"`
	PatientID string         `json:"patientId,omitempty"`
	Contact   PatientContact `json:"contact"`
}

// AppointmentCancelledEvent is published when an appointment leaves the
// scheduled state without being honored (cancel or reschedule of the
// original record).
type AppointmentCancelledEvent struct {
	ID string `json:"id"`
}

// ReminderPayload is the asynq task body for a visit reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Service       string `json:"service"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}
