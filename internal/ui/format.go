package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/coursegrid/coursegrid/internal/course"
)

// courseLine renders a course on one line for listings.
func courseLine(c *course.Course) string {
	when := "TBA"
	if c.MeetingDays != "" || c.StartTime != "" {
		when = strings.TrimSpace(fmt.Sprintf("%s %s-%s", c.MeetingDays, c.StartTime, c.EndTime))
	}
	place := strings.TrimSpace(c.Building + " " + c.Room)
	if place == "" {
		place = "TBD"
	}
	line := fmt.Sprintf("#%-5s %s %s  %s  %s",
		c.ID,
		formatCourse(fmt.Sprintf("%-14s", c.CourseNumber)),
		fmt.Sprintf("%-24s", when),
		fmt.Sprintf("%-12s", place),
		c.Title,
	)
	if strings.EqualFold(c.Status, "cncl") {
		line += " " + formatConflict("(cancelled)")
	}
	return line
}

// printCourse writes every field of a course.
func printCourse(w io.Writer, c *course.Course) {
	fmt.Fprintf(w, "%s %s\n", formatHeader("Course #"+c.ID), formatCourse(c.CourseNumber))
	fields := []struct {
		label, value string
	}{
		{"Title", c.Title},
		{"Term", c.Term},
		{"Section", c.Section},
		{"Status", c.Status},
		{"Days", c.MeetingDays},
		{"Start", c.StartTime},
		{"End", c.EndTime},
		{"Building", c.Building},
		{"Room", c.Room},
		{"Instructor", c.Instructor},
		{"Level", c.AcademicLevel},
		{"Enrolled", fmt.Sprintf("%d / %d", c.NumberOfStudents, c.Capacity)},
		{"Credits", creditRange(c.MinCredits, c.MaxCredits)},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(w, "  %-11s %s\n", f.label+":", f.value)
	}
	if !c.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "  %s\n", formatMuted("updated "+c.UpdatedAt.Format("2006-01-02 15:04")))
	}
}

func creditRange(lo, hi int) string {
	switch {
	case lo == 0 && hi == 0:
		return ""
	case lo == hi || hi == 0:
		return fmt.Sprint(lo)
	default:
		return fmt.Sprintf("%d-%d", lo, hi)
	}
}
