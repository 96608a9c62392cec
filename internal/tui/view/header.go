package view

import (
	"strings"

	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/schedule"
)

// HeaderLabels builds the column labels: the time column, then one per
// teaching day.
func HeaderLabels() []string {
	labels := make([]string, 0, len(schedule.Weekdays)+1)
	labels = append(labels, "Time")
	for _, d := range schedule.Weekdays {
		labels = append(labels, d.Short())
	}
	return labels
}

// FilterLabel describes a query for the title bar.
func FilterLabel(q curriculum.Query) string {
	if q.IsZero() {
		return "All courses"
	}
	parts := []string{q.Program, q.Year, q.Semester}
	if q.Room != "" {
		parts = append(parts, "room "+q.Room)
	}
	return strings.Join(parts, " · ")
}
