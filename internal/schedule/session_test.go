package schedule

import (
	"errors"
	"slices"
	"testing"
)

func TestNormalize(t *testing.T) {
	defaults := DefaultFallback()

	t.Run("valid session", func(t *testing.T) {
		s := Session{ID: "1", CourseNumber: "CIS_180", StartTime: "9:00 AM", EndTime: "10:15 AM", MeetingDays: "MWF"}
		n, warnings, err := Normalize(s, defaults)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
		if n.Start != 540 || n.End != 615 {
			t.Errorf("got %d-%d, want 540-615", n.Start, n.End)
		}
		if !slices.Equal(n.Days, Days{Monday, Wednesday, Friday}) {
			t.Errorf("got days %v", n.Days)
		}
		if n.TimeRange() != "9:00 AM - 10:15 AM" {
			t.Errorf("TimeRange() = %q", n.TimeRange())
		}
		if n.Duration() != 75 {
			t.Errorf("Duration() = %d, want 75", n.Duration())
		}
	})

	t.Run("missing days default to monday", func(t *testing.T) {
		s := Session{ID: "2", StartTime: "9:00 AM", EndTime: "10:00 AM"}
		n, warnings, err := Normalize(s, defaults)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(n.Days, Days{Monday}) {
			t.Errorf("got days %v, want Monday", n.Days)
		}
		if len(warnings) != 1 || warnings[0].Kind != WarnMissingField || warnings[0].Field != "meetingDays" {
			t.Errorf("unexpected warnings: %v", warnings)
		}
	})

	t.Run("everything missing uses fallback", func(t *testing.T) {
		n, warnings, err := Normalize(Session{ID: "3"}, defaults)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.Start != 480 || n.End != 540 {
			t.Errorf("got %d-%d, want 480-540", n.Start, n.End)
		}
		if len(warnings) != 3 {
			t.Errorf("expected 3 warnings, got %v", warnings)
		}
	})

	t.Run("unknown day letters warn", func(t *testing.T) {
		s := Session{StartTime: "9:00 AM", EndTime: "10:00 AM", MeetingDays: "MXF"}
		n, warnings, err := Normalize(s, defaults)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(n.Days, Days{Monday, Friday}) {
			t.Errorf("got days %v", n.Days)
		}
		if len(warnings) != 1 || warnings[0].Kind != WarnUnknownDay {
			t.Errorf("unexpected warnings: %v", warnings)
		}
	})

	rejections := []struct {
		name string
		s    Session
		want error
	}{
		{name: "cancelled", s: Session{Status: "CNCL", StartTime: "9:00 AM", EndTime: "10:00 AM", MeetingDays: "M"}, want: ErrCancelled},
		{name: "cancelled long form", s: Session{Status: "Cancelled"}, want: ErrCancelled},
		{name: "malformed start", s: Session{StartTime: "nine", EndTime: "10:00 AM", MeetingDays: "M"}, want: ErrMalformedTime},
		{name: "malformed end", s: Session{StartTime: "9:00 AM", EndTime: "10:0 AM", MeetingDays: "M"}, want: ErrMalformedTime},
		{name: "no valid days", s: Session{StartTime: "9:00 AM", EndTime: "10:00 AM", MeetingDays: "SU"}, want: ErrMalformedDays},
		{name: "inverted range", s: Session{StartTime: "10:00 AM", EndTime: "9:00 AM", MeetingDays: "M"}, want: ErrInvalidRange},
		{name: "empty range", s: Session{StartTime: "10:00 AM", EndTime: "10:00 AM", MeetingDays: "M"}, want: ErrInvalidRange},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Normalize(tt.s, defaults)
			if !errors.Is(err, tt.want) {
				t.Errorf("Normalize() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIsCancelled(t *testing.T) {
	for _, s := range []string{"cncl", "CNCL", " Cancelled ", "canceled"} {
		if !IsCancelled(s) {
			t.Errorf("IsCancelled(%q) = false", s)
		}
	}
	for _, s := range []string{"", "Open", "Closed", "active"} {
		if IsCancelled(s) {
			t.Errorf("IsCancelled(%q) = true", s)
		}
	}
}

func TestLocation(t *testing.T) {
	if got := (Session{Building: "SCI", Room: "101"}).Location(); got != "SCI 101" {
		t.Errorf("Location() = %q", got)
	}
	if got := (Session{}).Location(); got != "N/A N/A" {
		t.Errorf("Location() = %q", got)
	}
}
