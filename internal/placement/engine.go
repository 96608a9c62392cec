// Package placement assigns normalized sessions to grid cells and detects
// time-slot conflicts.
//
// A pass walks the sessions in input order. For every decoded day the session
// either opens a new cell anchored at its first grid boundary, or, when any of
// its boundaries is already owned, joins the owning cell. Earlier sessions
// always win the anchor; later ones stack into it.
package placement

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/schedule"
)

// DefaultGranularity is the slot length in minutes.
const DefaultGranularity = 30

// ErrInvalidGranularity is returned for slot lengths that do not divide an hour.
var ErrInvalidGranularity = errors.New("granularity must divide 60 and be between 5 and 60")

// Engine places sessions on the weekly grid. An Engine holds no pass state
// and may be shared; each pass owns its occupancy map.
type Engine struct {
	granularity int
	defaults    schedule.Defaults
	logger      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaults overrides the fallback applied to incomplete sessions.
func WithDefaults(d schedule.Defaults) Option {
	return func(e *Engine) { e.defaults = d }
}

// WithLogger sets the logger used for rejections and data quality warnings.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine for the given granularity in minutes.
func New(granularity int, opts ...Option) (*Engine, error) {
	if !schedule.ValidGranularity(granularity) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGranularity, granularity)
	}
	e := &Engine{
		granularity: granularity,
		defaults:    schedule.DefaultFallback(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Granularity returns the slot length in minutes.
func (e *Engine) Granularity() int {
	return e.granularity
}

// Place runs a pass with a fresh occupancy map.
func (e *Engine) Place(sessions []schedule.Session) *Plan {
	return e.PlaceWith(NewOccupancy(), sessions)
}

// PlaceWith runs a pass reusing occ. The map is reset before the first
// session is placed and is returned inside the plan.
func (e *Engine) PlaceWith(occ *Occupancy, sessions []schedule.Session) *Plan {
	if occ == nil {
		occ = NewOccupancy()
	}
	occ.Reset()

	plan := &Plan{
		Granularity: e.granularity,
		Occupancy:   occ,
	}
	cellIndex := make(map[*Cell]int)
	seenRooms := make(map[string]bool)

	for _, s := range sessions {
		n, warnings, err := schedule.Normalize(s, e.defaults)
		for _, w := range warnings {
			plan.Notices = append(plan.Notices, Notice{SessionID: s.ID, Warning: w})
			e.logger.Warn("session data quality",
				zap.String("session_id", s.ID),
				zap.String("course", s.CourseNumber),
				zap.String("kind", string(w.Kind)),
				zap.String("field", w.Field),
				zap.String("detail", w.Detail),
			)
		}
		if err != nil {
			plan.Rejections = append(plan.Rejections, Rejection{Session: s, Err: err})
			if errors.Is(err, schedule.ErrCancelled) {
				e.logger.Debug("session cancelled", zap.String("session_id", s.ID), zap.String("course", s.CourseNumber))
			} else {
				e.logger.Warn("session rejected",
					zap.String("session_id", s.ID),
					zap.String("course", s.CourseNumber),
					zap.Error(err),
				)
			}
			continue
		}

		rowspan := schedule.Rowspan(n.Start, n.End, e.granularity)
		anchor := schedule.FloorToSlot(n.Start, e.granularity)

		for _, day := range n.Days {
			cell := e.firstOwner(occ, day, anchor, n.End)
			if cell != nil {
				cell.Members = append(cell.Members, n)
				cell.Rowspan = min(cell.Rowspan, rowspan)
			} else {
				cell = &Cell{
					Day:       day,
					SlotStart: anchor,
					Rowspan:   rowspan,
					Members:   []schedule.Normalized{n},
				}
				for i := range rowspan {
					occ.mark(day, anchor+i*e.granularity, cell)
				}
				cellIndex[cell] = len(plan.Cells)
				plan.Cells = append(plan.Cells, cell)
			}
			plan.Placements = append(plan.Placements, Placement{
				Day:       day,
				SlotStart: cell.SlotStart,
				Rowspan:   rowspan,
				Session:   n,
				Cell:      cellIndex[cell],
				member:    len(cell.Members) - 1,
			})
		}

		if room := strings.TrimSpace(n.Room); room != "" && !seenRooms[room] {
			seenRooms[room] = true
			plan.Rooms = append(plan.Rooms, room)
		}
	}

	e.resolveConflicts(plan)
	return plan
}

// firstOwner scans the boundaries covered by [anchor, end) and returns the
// cell owning the first occupied one.
func (e *Engine) firstOwner(occ *Occupancy, day schedule.Weekday, anchor, end int) *Cell {
	for slot := anchor; slot < end; slot += e.granularity {
		if c, ok := occ.Owner(day, slot); ok {
			return c
		}
	}
	return nil
}

// resolveConflicts fills ConflictWith once every cell has its final members,
// so early members also see the sessions that joined after them.
func (e *Engine) resolveConflicts(plan *Plan) {
	for i := range plan.Placements {
		p := &plan.Placements[i]
		cell := plan.Cells[p.Cell]
		if !cell.Conflict() {
			continue
		}
		p.Conflict = true
		p.ConflictWith = make([]schedule.Session, 0, len(cell.Members)-1)
		for j, m := range cell.Members {
			if j != p.member {
				p.ConflictWith = append(p.ConflictWith, m.Session)
			}
		}
	}
	for _, c := range plan.Cells {
		if c.Conflict() {
			e.logger.Debug("conflict cell",
				zap.String("day", c.Day.String()),
				zap.String("slot", schedule.FormatSlot(c.SlotStart, e.granularity)),
				zap.Int("members", len(c.Members)),
			)
		}
	}
}
