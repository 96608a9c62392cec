package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is 24 hours * 60 minutes.
const MinutesPerDay = 1440

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int // 0..23
	Minute int // 0..59
}

// Minutes returns the clock as minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// FromMinutes converts minutes since midnight to a Clock.
// Values outside a day are clamped.
func FromMinutes(m int) Clock {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return Clock{Hour: m / 60, Minute: m % 60}
}

// ParseTime parses "h:mm" or "hh:mm" optionally followed by AM/PM.
//
// With a marker the hour must be 1..12 (12 AM is midnight, 12 PM is noon).
// Without a marker the string is read as a 24-hour clock, so "9:00" is
// 09:00 and "13:30" is 13:30.
func ParseTime(s string) (Clock, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Clock{}, fmt.Errorf("%w: empty", ErrMalformedTime)
	}

	marker := ""
	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		marker = upper[len(upper)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}

	hourPart, minPart, ok := strings.Cut(s, ":")
	if !ok {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}
	if len(hourPart) < 1 || len(hourPart) > 2 || !isDigits(hourPart) {
		return Clock{}, fmt.Errorf("%w: bad hour in %q", ErrMalformedTime, raw)
	}
	if len(minPart) != 2 || !isDigits(minPart) {
		return Clock{}, fmt.Errorf("%w: bad minute in %q", ErrMalformedTime, raw)
	}

	hour, _ := strconv.Atoi(hourPart)
	minute, _ := strconv.Atoi(minPart)
	if minute > 59 {
		return Clock{}, fmt.Errorf("%w: minute out of range in %q", ErrMalformedTime, raw)
	}

	switch marker {
	case "":
		if hour > 23 {
			return Clock{}, fmt.Errorf("%w: hour out of range in %q", ErrMalformedTime, raw)
		}
	case "AM", "PM":
		if hour < 1 || hour > 12 {
			return Clock{}, fmt.Errorf("%w: hour out of range in %q", ErrMalformedTime, raw)
		}
		if hour == 12 {
			hour = 0
		}
		if marker == "PM" {
			hour += 12
		}
	}

	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseMinutes is ParseTime followed by Minutes.
func ParseMinutes(s string) (int, error) {
	c, err := ParseTime(s)
	if err != nil {
		return 0, err
	}
	return c.Minutes(), nil
}

// FormatSlot rounds totalMinutes down to the nearest grid boundary and
// renders it in 12-hour form, e.g. "9:30 AM".
func FormatSlot(totalMinutes, granularity int) string {
	return FormatClock(FloorToSlot(totalMinutes, granularity))
}

// FormatClock renders minutes since midnight in 12-hour form.
func FormatClock(totalMinutes int) string {
	c := FromMinutes(totalMinutes)
	marker := "AM"
	if c.Hour >= 12 {
		marker = "PM"
	}
	hour := c.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, c.Minute, marker)
}

// FloorToSlot rounds minutes down to a multiple of granularity.
func FloorToSlot(minutes, granularity int) int {
	if granularity <= 0 {
		return minutes
	}
	if minutes < 0 {
		return 0
	}
	return minutes - minutes%granularity
}

// Rowspan returns the number of grid slots covered by [start, end).
func Rowspan(start, end, granularity int) int {
	if end <= start || granularity <= 0 {
		return 0
	}
	return (end - start + granularity - 1) / granularity
}

// ValidGranularity reports whether g evenly divides an hour and is at least 5 minutes.
func ValidGranularity(g int) bool {
	return g >= 5 && g <= 60 && 60%g == 0
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
