// Package scheduler finds open meeting times on a placed week.
package scheduler

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/placement"
	"github.com/coursegrid/coursegrid/internal/schedule"
)

// ErrOutsideWindow is returned for a time range that leaves the grid.
var ErrOutsideWindow = errors.New("time range is outside the calendar window")

// Scheduler answers availability questions against the calendar window.
type Scheduler struct {
	layout calendar.Layout
}

// New creates a Scheduler for the given window.
func New(layout calendar.Layout) *Scheduler {
	return &Scheduler{layout: layout}
}

// Slot is a free, grid aligned range on one weekday.
type Slot struct {
	Day   schedule.Weekday
	Start int // minutes since midnight
	End   int
}

// Minutes returns the slot length.
func (s Slot) Minutes() int {
	return s.End - s.Start
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s - %s", s.Day, schedule.FormatClock(s.Start), schedule.FormatClock(s.End))
}

type interval struct{ start, end int }

// busy collects the occupied rows per day. A non-empty room keeps only the
// placements in that room.
func (s *Scheduler) busy(plan *placement.Plan, room string) map[schedule.Weekday][]interval {
	out := make(map[schedule.Weekday][]interval)
	if plan == nil {
		return out
	}
	for _, p := range plan.Placements {
		if room != "" && !strings.EqualFold(strings.TrimSpace(p.Session.Room), room) {
			continue
		}
		end := p.SlotStart + p.Rowspan*plan.Granularity
		out[p.Day] = append(out[p.Day], interval{p.SlotStart, end})
	}
	for day := range out {
		slices.SortFunc(out[day], func(a, b interval) int { return a.start - b.start })
	}
	return out
}

// FreeSlots returns every gap of at least minutes in the window, day by day.
// A non-empty room ignores courses held elsewhere.
func (s *Scheduler) FreeSlots(plan *placement.Plan, room string, minutes int) []Slot {
	minutes = max(minutes, s.layout.Granularity)
	busy := s.busy(plan, room)

	var slots []Slot
	for _, day := range schedule.Weekdays {
		cursor := s.layout.DayStart
		for _, b := range busy[day] {
			if b.start-cursor >= minutes {
				slots = append(slots, Slot{Day: day, Start: cursor, End: min(b.start, s.layout.DayEnd)})
			}
			cursor = max(cursor, b.end)
		}
		if s.layout.DayEnd-cursor >= minutes {
			slots = append(slots, Slot{Day: day, Start: cursor, End: s.layout.DayEnd})
		}
	}
	return slots
}

// CanFit reports whether a meeting from start to end on day overlaps no
// placed course.
func (s *Scheduler) CanFit(plan *placement.Plan, room string, day schedule.Weekday, start, end int) (bool, error) {
	if err := s.ValidateRange(start, end); err != nil {
		return false, err
	}
	for _, b := range s.busy(plan, room)[day] {
		if start < b.end && b.start < end {
			return false, nil
		}
	}
	return true, nil
}

// ValidateRange checks that start and end form a range inside the window.
func (s *Scheduler) ValidateRange(start, end int) error {
	if start >= end {
		return schedule.ErrInvalidRange
	}
	if start < s.layout.DayStart || end > s.layout.DayEnd {
		return fmt.Errorf("%w: %s - %s", ErrOutsideWindow, schedule.FormatClock(start), schedule.FormatClock(end))
	}
	return nil
}
