package schedule

import (
	"fmt"
	"strings"
)

// Weekday is a teaching day of the week.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays lists the grid columns in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
var weekdayCodes = [...]string{"M", "T", "W", "TH", "F"}

// String returns the full day name.
func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(?)"
	}
	return weekdayNames[d]
}

// Code returns the compact meeting-day code.
func (d Weekday) Code() string {
	if !d.Valid() {
		return "?"
	}
	return weekdayCodes[d]
}

// Short returns a three-letter label for column headers.
func (d Weekday) Short() string {
	return d.String()[:3]
}

// Valid reports whether d is Monday..Friday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}

// MarshalText encodes the day by its full name.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseWeekday does.
func (d *Weekday) UnmarshalText(b []byte) error {
	w, ok := ParseWeekday(string(b))
	if !ok {
		return fmt.Errorf("unknown weekday %q", string(b))
	}
	*d = w
	return nil
}

// ParseWeekday accepts a full name, a three-letter abbreviation or a code.
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range weekdayNames {
		upper := strings.ToUpper(name)
		if s == upper || s == upper[:3] || s == weekdayCodes[i] {
			return Weekday(i), true
		}
	}
	return 0, false
}

// Days is an ordered, duplicate-free set of weekdays.
type Days []Weekday

// Contains reports whether d is in the set.
func (ds Days) Contains(d Weekday) bool {
	for _, x := range ds {
		if x == d {
			return true
		}
	}
	return false
}

// Pattern re-encodes the set in compact form, e.g. "MWF" or "TTH".
func (ds Days) Pattern() string {
	var b strings.Builder
	for _, d := range ds {
		b.WriteString(d.Code())
	}
	return b.String()
}

// Names returns the full day names.
func (ds Days) Names() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

// DecodeDays parses a compact meeting pattern such as "MWF" or "TTH" into an
// ordered set of weekdays. "TH" is always read as Thursday. Letters that are
// not day codes are dropped and returned so the caller can report them.
func DecodeDays(pattern string) (Days, []string) {
	p := strings.ToUpper(pattern)
	p = strings.ReplaceAll(p, "TTH", "T TH")

	var seen [len(weekdayNames)]bool
	var unknown []string

	runes := []rune(p)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case ' ', '\t', ',', '/', '-', '.', ';':
			continue
		case 'M':
			seen[Monday] = true
		case 'W':
			seen[Wednesday] = true
		case 'F':
			seen[Friday] = true
		case 'T':
			if i+1 < len(runes) && runes[i+1] == 'H' {
				seen[Thursday] = true
				i++
			} else {
				seen[Tuesday] = true
			}
		default:
			unknown = append(unknown, string(r))
		}
	}

	days := make(Days, 0, len(seen))
	for i, ok := range seen {
		if ok {
			days = append(days, Weekday(i))
		}
	}
	return days, unknown
}
