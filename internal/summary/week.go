// Package summary aggregates the weekly teaching load of a calendar.
package summary

import (
	"context"
	"fmt"

	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/placement"
	"github.com/coursegrid/coursegrid/internal/schedule"
	"github.com/coursegrid/coursegrid/internal/service"
)

// DayStats holds the load of one weekday.
type DayStats struct {
	Meetings        int
	Minutes         int
	ConflictMinutes int
}

// WeekStats holds aggregated statistics for the week.
type WeekStats struct {
	Meetings        int
	Minutes         int
	ConflictMinutes int
	ConflictCells   int
	Rejected        int
	Courses         int
	CategoryMinutes map[calendar.Category]int
	DayStats        [5]DayStats
}

// ConflictPercent returns the share of class time spent in overlapping
// cells.
func (s WeekStats) ConflictPercent() int {
	if s.Minutes == 0 {
		return 0
	}
	return (s.ConflictMinutes * 100) / s.Minutes
}

// BusiestDay returns the weekday with the most class minutes. ok is false for
// an empty week.
func (s WeekStats) BusiestDay() (day schedule.Weekday, minutes int, ok bool) {
	for i, ds := range s.DayStats {
		if ds.Minutes > minutes {
			minutes = ds.Minutes
			day = schedule.Weekdays[i]
			ok = true
		}
	}
	return day, minutes, ok
}

// Hours renders minutes as "12h30".
func Hours(minutes int) string {
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}

// Summarize computes the week statistics of a placement plan.
func Summarize(plan *placement.Plan) WeekStats {
	stats := WeekStats{CategoryMinutes: make(map[calendar.Category]int)}
	if plan == nil {
		return stats
	}

	courses := make(map[string]bool)
	for _, p := range plan.Placements {
		minutes := p.Session.Duration()
		day := &stats.DayStats[dayIndex(p.Day)]
		day.Meetings++
		day.Minutes += minutes
		stats.Meetings++
		stats.Minutes += minutes
		if p.Conflict {
			day.ConflictMinutes += minutes
			stats.ConflictMinutes += minutes
		}
		stats.CategoryMinutes[calendar.ColorHint(p.Session.CourseNumber)] += minutes
		courses[p.Session.CourseNumber] = true
	}
	stats.Courses = len(courses)
	stats.ConflictCells = plan.ConflictCells()
	stats.Rejected = len(plan.Rejections)
	return stats
}

func dayIndex(d schedule.Weekday) int {
	for i, w := range schedule.Weekdays {
		if w == d {
			return i
		}
	}
	return 0
}

// Calendars renders the calendar of a filter.
type Calendars interface {
	Calendar(ctx context.Context, q curriculum.Query) (*service.CalendarView, error)
}

// WeekSummary holds the statistics of one filtered week.
type WeekSummary struct {
	Query curriculum.Query
	Rooms []string
	Stats WeekStats
}

// BuildWeekSummary renders the calendar for q and summarizes it.
func BuildWeekSummary(ctx context.Context, src Calendars, q curriculum.Query) (*WeekSummary, error) {
	v, err := src.Calendar(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("rendering calendar: %w", err)
	}
	return &WeekSummary{
		Query: q,
		Rooms: v.Rooms,
		Stats: Summarize(v.Plan),
	}, nil
}
