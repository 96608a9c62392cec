// Package tui provides the interactive weekly calendar.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/events"
	"github.com/coursegrid/coursegrid/internal/service"
	"github.com/coursegrid/coursegrid/internal/tui/commands"
	"github.com/coursegrid/coursegrid/internal/tui/theme"
)

// field is a filter the user can cycle.
type field int

const (
	fieldProgram field = iota
	fieldYear
	fieldSemester
	fieldRoom
	fieldCount
)

func (f field) String() string {
	switch f {
	case fieldProgram:
		return "program"
	case fieldYear:
		return "year"
	case fieldSemester:
		return "semester"
	case fieldRoom:
		return "room"
	default:
		return "?"
	}
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	src     commands.Source
	changes <-chan events.Event
	log     *zap.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Filter state
	query curriculum.Query
	focus field
	rooms []string

	// Fetches are numbered so that a slow answer for an old filter never
	// replaces a newer one.
	latest  *calendar.Latest
	loading bool

	cal      *service.CalendarView
	viewport viewport.Model
	fullHelp bool
	status   string
	err      error

	// Terminal dimensions and layout
	width    int
	height   int
	colWidth int
}

// Options configures a Model.
type Options struct {
	Query   curriculum.Query
	Theme   *theme.Theme
	Changes <-chan events.Event
	Logger  *zap.Logger
}

// New creates a model reading calendars from src.
func New(src commands.Source, opts Options) Model {
	th := opts.Theme
	if th == nil {
		th, _ = theme.Load("")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		src:      src,
		changes:  opts.Changes,
		log:      log,
		theme:    th,
		styles:   NewStyles(th),
		query:    opts.Query,
		latest:   &calendar.Latest{},
		loading:  true,
		viewport: viewport.New(0, 0),
		colWidth: minColWidth,
	}
}

// Init loads the first calendar and starts watching for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reload(), commands.WaitForChange(m.changes))
}

// reload starts a calendar fetch for the current query, and a room list
// fetch when the query names a term.
func (m Model) reload() tea.Cmd {
	ticket := m.latest.Begin()
	m.log.Debug("loading calendar", zap.Uint64("ticket", ticket), zap.Stringer("query", m.query))
	cmds := []tea.Cmd{commands.LoadCalendar(m.src, m.query, ticket)}
	if !m.query.IsZero() {
		cmds = append(cmds, commands.LoadRooms(m.src, m.query))
	}
	return tea.Batch(cmds...)
}

// Run starts the TUI and blocks until it exits. Change events from bus
// refresh the calendar while it runs.
func Run(ctx context.Context, src commands.Source, bus events.Bus, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if bus != nil {
		ch, err := bus.Subscribe(ctx)
		if err != nil {
			return fmt.Errorf("subscribing to changes: %w", err)
		}
		opts.Changes = ch
	}

	p := tea.NewProgram(New(src, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running calendar: %w", err)
	}
	return nil
}
