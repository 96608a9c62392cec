package tui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/tui/commands"
	"github.com/coursegrid/coursegrid/internal/tui/view"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.Debug("key", zap.String("key", msg.String()))

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	// Filter focus
	case "tab":
		m.focus = (m.focus + 1) % fieldCount
	case "shift+tab":
		m.focus = (m.focus + fieldCount - 1) % fieldCount

	// Filter values
	case "l", "right":
		return m.cycle(1)
	case "h", "left":
		return m.cycle(-1)
	case "a":
		if m.query.IsZero() {
			return m, nil
		}
		m.query = curriculum.Query{}
		m.rooms = nil
		m.loading = true
		return m, m.reload()

	case "r":
		m.loading = true
		return m, m.reload()

	case "y":
		if m.cal == nil {
			return m, nil
		}
		return m, commands.CopyToClipboard(view.Agenda(m.cal.Frame))

	case "?":
		m.fullHelp = !m.fullHelp
		m.resize()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// cycle moves the focused filter to its next or previous value and refetches.
// The first change from "all courses" selects the first program, year and
// semester.
func (m Model) cycle(delta int) (tea.Model, tea.Cmd) {
	if m.query.IsZero() {
		if m.focus == fieldRoom {
			m.status = "Pick a program before filtering by room"
			return m, commands.ClearStatusAfter(statusTimeout)
		}
		m.query = curriculum.Query{
			Program:  curriculum.Programs[0],
			Year:     curriculum.Years[0],
			Semester: curriculum.Semesters[0],
		}
	} else {
		options := m.options(m.focus)
		if len(options) == 0 {
			return m, nil
		}
		m.setValue(m.focus, step(options, m.value(m.focus), delta))
		if m.focus != fieldRoom {
			m.query.Room = ""
			m.rooms = nil
		}
	}
	m.loading = true
	return m, m.reload()
}

// step returns the option delta places from current, wrapping around. An
// unknown current value steps from just outside the list.
func step(options []string, current string, delta int) string {
	n := len(options)
	i := slices.Index(options, current)
	if i < 0 {
		if delta > 0 {
			return options[0]
		}
		return options[n-1]
	}
	return options[((i+delta)%n+n)%n]
}

func (m Model) options(f field) []string {
	switch f {
	case fieldProgram:
		return curriculum.Programs
	case fieldYear:
		return curriculum.Years
	case fieldSemester:
		return curriculum.Semesters
	case fieldRoom:
		// "" selects every room.
		return append([]string{""}, m.rooms...)
	default:
		return nil
	}
}

func (m Model) value(f field) string {
	switch f {
	case fieldProgram:
		return m.query.Program
	case fieldYear:
		return m.query.Year
	case fieldSemester:
		return m.query.Semester
	case fieldRoom:
		return m.query.Room
	default:
		return ""
	}
}

func (m *Model) setValue(f field, v string) {
	switch f {
	case fieldProgram:
		m.query.Program = v
	case fieldYear:
		m.query.Year = v
	case fieldSemester:
		m.query.Semester = v
	case fieldRoom:
		m.query.Room = v
	}
}
