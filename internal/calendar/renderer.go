package calendar

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/placement"
	"github.com/coursegrid/coursegrid/internal/schedule"
)

// ErrRenderInProgress is returned when a pass is started before the previous
// one returned to Idle.
var ErrRenderInProgress = errors.New("render already in progress")

// State is the renderer lifecycle phase.
type State int32

const (
	Idle State = iota
	Clearing
	Placing
	Painting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Clearing:
		return "clearing"
	case Placing:
		return "placing"
	case Painting:
		return "painting"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Result is what one render pass produced.
type Result struct {
	Plan    *placement.Plan
	Blocks  []Block
	Outside []*placement.Cell
}

// Renderer runs the full clear, place and paint cycle against a surface.
// The plan and every block are computed before the surface is touched.
type Renderer struct {
	engine *placement.Engine
	layout Layout
	logger *zap.Logger

	state  atomic.Int32
	staged []Block
}

// NewRenderer checks that the layout rows match the engine's slots.
func NewRenderer(engine *placement.Engine, layout Layout, logger *zap.Logger) (*Renderer, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if layout.Granularity != engine.Granularity() {
		return nil, fmt.Errorf("%w: layout granularity %d does not match engine granularity %d",
			ErrInvalidLayout, layout.Granularity, engine.Granularity())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{engine: engine, layout: layout, logger: logger}, nil
}

// Layout returns the visible window.
func (r *Renderer) Layout() Layout {
	return r.layout
}

// State returns the current lifecycle phase.
func (r *Renderer) State() State {
	return State(r.state.Load())
}

// Render places sessions and paints the result onto surface. A failure
// while placing leaves the surface untouched.
func (r *Renderer) Render(surface Surface, sessions []schedule.Session) (*Result, error) {
	if !r.state.CompareAndSwap(int32(Idle), int32(Clearing)) {
		return nil, ErrRenderInProgress
	}
	defer r.state.Store(int32(Idle))

	r.staged = r.staged[:0]

	r.state.Store(int32(Placing))
	res, err := r.place(sessions)
	if err != nil {
		return nil, err
	}
	r.staged = append(r.staged, res.Blocks...)
	for _, c := range res.Outside {
		r.logger.Warn("cell outside visible hours",
			zap.String("day", c.Day.String()),
			zap.String("slot", schedule.FormatSlot(c.SlotStart, res.Plan.Granularity)),
			zap.Int("members", len(c.Members)),
		)
	}

	r.state.Store(int32(Painting))
	if err := paint(surface, r.staged); err != nil {
		return nil, err
	}

	r.logger.Debug("calendar rendered",
		zap.Int("sessions", len(sessions)),
		zap.Int("blocks", len(res.Blocks)),
		zap.Int("conflicts", res.Plan.ConflictCells()),
		zap.Int("rejected", len(res.Plan.Rejections)),
	)
	return res, nil
}

func (r *Renderer) place(sessions []schedule.Session) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("placing sessions: %v", p)
		}
	}()
	plan := r.engine.Place(sessions)
	blocks, outside := Render(plan, r.layout)
	return &Result{Plan: plan, Blocks: blocks, Outside: outside}, nil
}

// paint publishes blocks. A surface without Commit shows paints as they land.
func paint(surface Surface, blocks []Block) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("painting calendar: %v", p)
		}
	}()
	surface.Clear()
	for _, b := range blocks {
		surface.Paint(b.Day, b.SlotStart, b.Content, b.Rowspan, b.HideBelow)
	}
	if c, ok := surface.(Committer); ok {
		c.Commit()
	}
	return nil
}
