package calendar

import (
	"errors"
	"fmt"

	"github.com/coursegrid/coursegrid/internal/placement"
	"github.com/coursegrid/coursegrid/internal/schedule"
)

// ErrInvalidLayout is returned when the visible window is empty or unaligned.
var ErrInvalidLayout = errors.New("invalid calendar layout")

// Layout is the visible part of the grid.
type Layout struct {
	DayStart    int `json:"dayStart"` // minutes since midnight, inclusive
	DayEnd      int `json:"dayEnd"`   // minutes since midnight, exclusive
	Granularity int `json:"granularity"`
}

// DefaultLayout shows 07:00 to 22:00 in 30 minute rows.
func DefaultLayout() Layout {
	return Layout{DayStart: 7 * 60, DayEnd: 22 * 60, Granularity: placement.DefaultGranularity}
}

// Validate checks the window is non-empty and aligned to the granularity.
func (l Layout) Validate() error {
	if !schedule.ValidGranularity(l.Granularity) {
		return fmt.Errorf("%w: granularity %d", ErrInvalidLayout, l.Granularity)
	}
	if l.DayStart < 0 || l.DayEnd > schedule.MinutesPerDay || l.DayStart >= l.DayEnd {
		return fmt.Errorf("%w: window %d-%d", ErrInvalidLayout, l.DayStart, l.DayEnd)
	}
	if l.DayStart%l.Granularity != 0 || l.DayEnd%l.Granularity != 0 {
		return fmt.Errorf("%w: window not aligned to %d minutes", ErrInvalidLayout, l.Granularity)
	}
	return nil
}

// Rows returns the number of visible time rows.
func (l Layout) Rows() int {
	return (l.DayEnd - l.DayStart) / l.Granularity
}

// Slots returns the start minute of every visible row.
func (l Layout) Slots() []int {
	slots := make([]int, 0, l.Rows())
	for s := l.DayStart; s < l.DayEnd; s += l.Granularity {
		slots = append(slots, s)
	}
	return slots
}

// Row returns the row index of a slot, or -1 when it is outside the window.
func (l Layout) Row(slot int) int {
	if slot < l.DayStart || slot >= l.DayEnd {
		return -1
	}
	return (slot - l.DayStart) / l.Granularity
}

// Block is one paint operation: a cell's content at its clipped position.
type Block struct {
	Day       schedule.Weekday `json:"day"`
	SlotStart int              `json:"slotStart"`
	Slot      string           `json:"slot"`
	Rowspan   int              `json:"rowspan"`
	HideBelow bool             `json:"hideBelow"`
	Content   Content          `json:"content"`
}

// Render turns a plan into paint operations, one per cell, in cell order.
// Blocks are clipped to the layout window; cells that fall entirely outside
// it are returned separately. The plan's granularity is authoritative.
func Render(plan *placement.Plan, layout Layout) (blocks []Block, outside []*placement.Cell) {
	g := plan.Granularity
	for _, c := range plan.Cells {
		start := max(c.SlotStart, layout.DayStart)
		end := min(c.SlotStart+c.Rowspan*g, layout.DayEnd)
		if start >= end {
			outside = append(outside, c)
			continue
		}

		rowspan := schedule.Rowspan(start, end, g)
		content := Content{Conflict: c.Conflict()}
		for _, m := range c.Members {
			content.Entries = append(content.Entries, NewEntry(m))
		}
		blocks = append(blocks, Block{
			Day:       c.Day,
			SlotStart: start,
			Slot:      schedule.FormatSlot(start, g),
			Rowspan:   rowspan,
			HideBelow: rowspan > 1,
			Content:   content,
		})
	}
	return blocks, outside
}
