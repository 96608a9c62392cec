package placement

import "github.com/coursegrid/coursegrid/internal/schedule"

type slotKey struct {
	day  schedule.Weekday
	slot int
}

// Occupancy maps (day, slot boundary) to the cell that owns it. It lives for
// exactly one placement pass.
type Occupancy struct {
	owners map[slotKey]*Cell
}

// NewOccupancy returns an empty occupancy map.
func NewOccupancy() *Occupancy {
	return &Occupancy{owners: make(map[slotKey]*Cell)}
}

// Reset clears every mark.
func (o *Occupancy) Reset() {
	clear(o.owners)
}

// Owner returns the cell owning the boundary, if any.
func (o *Occupancy) Owner(day schedule.Weekday, slot int) (*Cell, bool) {
	c, ok := o.owners[slotKey{day: day, slot: slot}]
	return c, ok
}

// Occupied reports whether the boundary is owned by a cell.
func (o *Occupancy) Occupied(day schedule.Weekday, slot int) bool {
	_, ok := o.owners[slotKey{day: day, slot: slot}]
	return ok
}

// Len returns the number of marked boundaries.
func (o *Occupancy) Len() int {
	return len(o.owners)
}

func (o *Occupancy) mark(day schedule.Weekday, slot int, c *Cell) {
	o.owners[slotKey{day: day, slot: slot}] = c
}
