package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/schedule"
	"github.com/coursegrid/coursegrid/internal/tui/commands"
	"github.com/coursegrid/coursegrid/internal/tui/view"
)

const (
	statusTimeout = 3 * time.Second
	minColWidth   = 12
	// Title and filter lines above the grid.
	headerHeight = 2
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case commands.CalendarLoadedMsg:
		if !m.latest.IsCurrent(msg.Ticket) {
			m.log.Debug("dropping stale calendar", zap.Uint64("ticket", msg.Ticket), zap.Stringer("query", msg.Query))
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.status = msg.Err.Error()
			return m, nil
		}
		m.err = nil
		m.cal = msg.View
		m.refreshContent()
		m.viewport.GotoTop()
		return m, nil

	case commands.RoomsLoadedMsg:
		current := m.query
		current.Room = ""
		if msg.Query == current {
			m.rooms = msg.Rooms
		}
		return m, nil

	case commands.ChangedMsg:
		m.status = fmt.Sprintf("Courses %s, refreshing", msg.Event.Kind)
		m.loading = true
		return m, tea.Batch(m.reload(), commands.WaitForChange(m.changes), commands.ClearStatusAfter(statusTimeout))

	case commands.ErrMsg:
		m.status = msg.Err.Error()
		return m, commands.ClearStatusAfter(statusTimeout)

	case commands.StatusMsgCmd:
		m.status = msg.Msg
		return m, commands.ClearStatusAfter(statusTimeout)

	case commands.ClearStatusMsg:
		if m.err == nil {
			m.status = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// resize fits the viewport between the header and the footer and spreads
// the width over the day columns.
func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	// Six columns, each with a border on its left, plus the outer right
	// border.
	days := len(schedule.Weekdays)
	m.colWidth = max(minColWidth, (m.width-timeColWidth-(days+2))/days)
	m.viewport.Width = m.width
	m.viewport.Height = max(0, m.height-headerHeight-m.footerHeight())
	m.refreshContent()
}

func (m Model) footerHeight() int {
	if m.fullHelp {
		return 4
	}
	return 2
}

// refreshContent renders the current calendar into the viewport.
func (m *Model) refreshContent() {
	if m.cal == nil {
		return
	}
	// Cells carry one column of padding on each side.
	content := view.BuildTable(m.cal.Frame, m.colWidth-2, m.styles.gridStyles(m.colWidth))
	m.viewport.SetContent(view.RenderTable(view.TableViewState{
		InnerW:       m.width,
		Headers:      view.HeaderLabels(),
		HeaderStyles: m.styles.headerStyles(m.colWidth),
		Content:      content,
		BorderStyle:  m.styles.BorderStyle,
		Bg:           m.styles.colorBg,
		Render:       true,
	}))
}
