package view

import (
	"fmt"
	"strings"

	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/schedule"
)

// Agenda renders a frame as plain text, one line per placed entry grouped
// by day. Stacked cells are marked with "!".
func Agenda(f calendar.Frame) string {
	var b strings.Builder
	for d, column := range f.Days {
		day := schedule.Weekdays[d]
		wroteDay := false
		for r, cell := range column {
			if !cell.Filled {
				continue
			}
			if !wroteDay {
				if b.Len() > 0 {
					b.WriteString("\n")
				}
				b.WriteString(day.String() + "\n")
				wroteDay = true
			}
			slot := schedule.FormatClock(f.Layout.DayStart + r*f.Layout.Granularity)
			marker := " "
			if cell.Content.Conflict {
				marker = "!"
			}
			for _, e := range cell.Content.Entries {
				fmt.Fprintf(&b, "%s %8s  %-14s %s  %s  %s\n", marker, slot, e.CourseNumber, e.Title, e.TimeRange, e.Location)
			}
		}
	}
	return b.String()
}
