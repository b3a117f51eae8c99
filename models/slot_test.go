package models

import "testing"

func TestMinutesToClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{600, "10:00"},
		{870, "14:30"},
		{1110, "18:30"},
		{1290, "21:30"},
	}
	for _, tt := range tests {
		if got := MinutesToClock(tt.minutes); got != tt.want {
			t.Fatalf("MinutesToClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestClockToMinutes(t *testing.T) {
	got, err := ClockToMinutes("18:30")
	if err != nil {
		t.Fatalf("ClockToMinutes: %v", err)
	}
	if got != 1110 {
		t.Fatalf("ClockToMinutes(18:30) = %d, want 1110", got)
	}

	for _, bad := range []string{"", "25:00", "10:0a", "1030", "10:30:00"} {
		if _, err := ClockToMinutes(bad); err == nil {
			t.Fatalf("ClockToMinutes(%q) should fail", bad)
		}
	}
}
