package models

// ClinicSchedule is the human-readable opening hours shown on the site.
type ClinicSchedule struct {
	Weekdays string `json:"weekdays"`
	Sunday   string `json:"sunday"`
}

// ClinicStatus is the live open/closed snapshot polled by the status
// widget.
type ClinicStatus struct {
	IsOpen          bool           `json:"isOpen"`
	NextOpeningTime string         `json:"nextOpeningTime,omitempty"`
	Schedule        ClinicSchedule `json:"schedule"`
}
