// Package schedule normalizes raw course sessions: wall-clock times,
// compact meeting-day patterns and the defaults applied to incomplete records.
package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Rejection reasons. A rejected session is skipped, never fatal to a render.
var (
	ErrMalformedTime = errors.New("malformed time")
	ErrMalformedDays = errors.New("meeting days decode to an empty set")
	ErrInvalidRange  = errors.New("start time must be before end time")
	ErrCancelled     = errors.New("session is cancelled")
)

// WarningKind classifies a non-fatal data quality issue.
type WarningKind string

const (
	WarnMissingField WarningKind = "missing_field"
	WarnUnknownDay   WarningKind = "unknown_day"
)

// Warning is a non-fatal data quality issue found while normalizing.
type Warning struct {
	Kind   WarningKind
	Field  string
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Kind, w.Field, w.Detail)
}

// Session is a single scheduled course meeting pattern as supplied by the store.
type Session struct {
	ID           string `json:"id"`
	CourseNumber string `json:"courseNumber"`
	Title        string `json:"title"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	MeetingDays  string `json:"meetingDays"`
	Building     string `json:"building,omitempty"`
	Room         string `json:"room,omitempty"`
	Status       string `json:"status,omitempty"`
}

var cancelledStatuses = map[string]bool{
	"cncl":      true,
	"canc":      true,
	"cancel":    true,
	"cancelled": true,
	"canceled":  true,
}

// IsCancelled reports whether the status marks the session as cancelled.
func IsCancelled(status string) bool {
	return cancelledStatuses[strings.ToLower(strings.TrimSpace(status))]
}

// IsCancelled reports whether the session is excluded from placement.
func (s Session) IsCancelled() bool {
	return IsCancelled(s.Status)
}

// Location renders building and room, using "N/A" for missing parts.
func (s Session) Location() string {
	building := strings.TrimSpace(s.Building)
	room := strings.TrimSpace(s.Room)
	if building == "" {
		building = "N/A"
	}
	if room == "" {
		room = "N/A"
	}
	return building + " " + room
}

// Defaults fills the fields of sessions that arrive without times or days.
type Defaults struct {
	StartTime   string
	EndTime     string
	MeetingDays string
}

// DefaultFallback is 08:00-09:00 on Monday.
func DefaultFallback() Defaults {
	return Defaults{
		StartTime:   "8:00 AM",
		EndTime:     "9:00 AM",
		MeetingDays: "M",
	}
}

// Normalized is a session with decoded times and days.
type Normalized struct {
	Session
	Start int // minutes since midnight
	End   int // minutes since midnight
	Days  Days
}

// TimeRange renders the exact start and end, e.g. "9:00 AM - 10:15 AM".
func (n Normalized) TimeRange() string {
	return FormatClock(n.Start) + " - " + FormatClock(n.End)
}

// Duration returns the session length in minutes.
func (n Normalized) Duration() int {
	return n.End - n.Start
}

// Normalize decodes a session's times and days. Missing fields are replaced
// by the defaults and reported as warnings; undecodable values and inverted
// ranges are returned as errors.
func Normalize(s Session, d Defaults) (Normalized, []Warning, error) {
	if s.IsCancelled() {
		return Normalized{}, nil, ErrCancelled
	}

	var warnings []Warning
	start, end, days := s.StartTime, s.EndTime, s.MeetingDays
	if strings.TrimSpace(start) == "" {
		start = d.StartTime
		warnings = append(warnings, Warning{Kind: WarnMissingField, Field: "startTime", Detail: "defaulted to " + d.StartTime})
	}
	if strings.TrimSpace(end) == "" {
		end = d.EndTime
		warnings = append(warnings, Warning{Kind: WarnMissingField, Field: "endTime", Detail: "defaulted to " + d.EndTime})
	}
	if strings.TrimSpace(days) == "" {
		days = d.MeetingDays
		warnings = append(warnings, Warning{Kind: WarnMissingField, Field: "meetingDays", Detail: "defaulted to " + d.MeetingDays})
	}

	startMin, err := ParseMinutes(start)
	if err != nil {
		return Normalized{}, warnings, fmt.Errorf("start time: %w", err)
	}
	endMin, err := ParseMinutes(end)
	if err != nil {
		return Normalized{}, warnings, fmt.Errorf("end time: %w", err)
	}

	decoded, unknown := DecodeDays(days)
	if len(unknown) > 0 {
		warnings = append(warnings, Warning{
			Kind:   WarnUnknownDay,
			Field:  "meetingDays",
			Detail: fmt.Sprintf("dropped %s from %q", strings.Join(unknown, ","), days),
		})
	}
	if len(decoded) == 0 {
		return Normalized{}, warnings, fmt.Errorf("%w: %q", ErrMalformedDays, days)
	}

	if startMin >= endMin {
		return Normalized{}, warnings, fmt.Errorf("%w: %s >= %s", ErrInvalidRange, start, end)
	}

	return Normalized{
		Session: s,
		Start:   startMin,
		End:     endMin,
		Days:    decoded,
	}, warnings, nil
}
