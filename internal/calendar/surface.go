package calendar

import (
	"sync"

	"github.com/coursegrid/coursegrid/internal/schedule"
)

// Surface is the visible calendar a plan is painted onto.
type Surface interface {
	// Clear resets every cell to empty, unit rowspan and visible.
	Clear()
	// Paint writes content at (day, slotStart). With hideBelow the
	// rowspan-1 rows beneath the cell are suppressed.
	Paint(day schedule.Weekday, slotStart int, content Content, rowspan int, hideBelow bool)
}

// Committer is implemented by surfaces that publish a painted frame at once.
type Committer interface {
	Commit()
}

// GridCell is one addressable cell of a Frame.
type GridCell struct {
	Content Content
	Rowspan int
	Hidden  bool
	Filled  bool
}

// Frame is a complete day-by-row picture of the calendar.
type Frame struct {
	Layout Layout
	Days   [len(weekdayColumns)][]GridCell
}

var weekdayColumns = [...]schedule.Weekday{
	schedule.Monday, schedule.Tuesday, schedule.Wednesday, schedule.Thursday, schedule.Friday,
}

func newFrame(l Layout) Frame {
	f := Frame{Layout: l}
	for d := range f.Days {
		f.Days[d] = make([]GridCell, l.Rows())
		for r := range f.Days[d] {
			f.Days[d][r].Rowspan = 1
		}
	}
	return f
}

func (f Frame) clone() Frame {
	out := Frame{Layout: f.Layout}
	for d := range f.Days {
		out.Days[d] = make([]GridCell, len(f.Days[d]))
		copy(out.Days[d], f.Days[d])
	}
	return out
}

// At returns the cell at a day and slot. Slots outside the window read as
// an empty hidden cell.
func (f Frame) At(day schedule.Weekday, slot int) GridCell {
	row := f.Layout.Row(slot)
	if !day.Valid() || row < 0 || row >= len(f.Days[day]) {
		return GridCell{Hidden: true}
	}
	return f.Days[day][row]
}

// Filled returns the number of painted cells.
func (f Frame) Filled() int {
	n := 0
	for d := range f.Days {
		for _, c := range f.Days[d] {
			if c.Filled {
				n++
			}
		}
	}
	return n
}

// Grid is an in-memory Surface. Paints go to a staging frame that becomes
// visible to Snapshot only on Commit.
type Grid struct {
	layout Layout

	mu        sync.RWMutex
	staging   Frame
	committed Frame
}

// NewGrid returns an empty grid covering the layout.
func NewGrid(l Layout) *Grid {
	return &Grid{
		layout:    l,
		staging:   newFrame(l),
		committed: newFrame(l),
	}
}

func (g *Grid) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.staging = newFrame(g.layout)
}

func (g *Grid) Paint(day schedule.Weekday, slotStart int, content Content, rowspan int, hideBelow bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	row := g.layout.Row(slotStart)
	if !day.Valid() || row < 0 {
		return
	}
	col := g.staging.Days[day]
	rowspan = max(1, min(rowspan, len(col)-row))
	col[row] = GridCell{Content: content, Rowspan: rowspan, Filled: true}
	if hideBelow {
		for r := row + 1; r < row+rowspan; r++ {
			col[r].Hidden = true
		}
	}
}

func (g *Grid) Commit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.committed = g.staging.clone()
}

// Snapshot returns a copy of the last committed frame.
func (g *Grid) Snapshot() Frame {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.committed.clone()
}
