package placement

import (
	"github.com/coursegrid/coursegrid/internal/schedule"
)

// Cell is one anchored block on the grid. A cell with more than one member is
// a stacked conflict cell.
type Cell struct {
	Day       schedule.Weekday
	SlotStart int // minutes since midnight, grid aligned
	Rowspan   int
	Members   []schedule.Normalized
}

// Conflict reports whether more than one session shares the cell.
func (c *Cell) Conflict() bool {
	return len(c.Members) > 1
}

// Placement records where one session landed on one day.
type Placement struct {
	Day          schedule.Weekday
	SlotStart    int
	Rowspan      int
	Session      schedule.Normalized
	Cell         int // index into Plan.Cells
	Conflict     bool
	ConflictWith []schedule.Session

	member int
}

// Rejection is a session skipped during placement.
type Rejection struct {
	Session schedule.Session
	Err     error
}

// Notice is a data quality warning tied to the session that raised it.
type Notice struct {
	SessionID string
	Warning   schedule.Warning
}

// Plan is the complete result of a placement pass.
type Plan struct {
	Granularity int
	Placements  []Placement
	Cells       []*Cell
	Rooms       []string
	Rejections  []Rejection
	Notices     []Notice
	Occupancy   *Occupancy
}

// ConflictCells counts the stacked cells in the plan.
func (p *Plan) ConflictCells() int {
	n := 0
	for _, c := range p.Cells {
		if c.Conflict() {
			n++
		}
	}
	return n
}

// CellAt returns the cell anchored at the given day and slot.
func (p *Plan) CellAt(day schedule.Weekday, slot int) *Cell {
	for _, c := range p.Cells {
		if c.Day == day && c.SlotStart == slot {
			return c
		}
	}
	return nil
}

// PlacementsOf returns every placement of the session with the given ID.
func (p *Plan) PlacementsOf(id string) []Placement {
	var out []Placement
	for _, pl := range p.Placements {
		if pl.Session.ID == id {
			out = append(out, pl)
		}
	}
	return out
}
