package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/coursegrid/coursegrid/internal/tui/theme"
	"github.com/coursegrid/coursegrid/internal/tui/view"
)

// Width of the time column, "12:30 PM" plus padding.
const timeColWidth = 10

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg     lipgloss.Color
	colorFg     lipgloss.Color
	colorMuted  lipgloss.Color
	colorAccent lipgloss.Color

	// Title bar
	TitleStyle       lipgloss.Style
	FilterStyle      lipgloss.Style
	FilterFocusStyle lipgloss.Style

	// Table
	HeaderStyle     lipgloss.Style
	TimeColumnStyle lipgloss.Style
	EmptyCellStyle  lipgloss.Style
	CellStyle       lipgloss.Style
	AnchorCellStyle lipgloss.Style
	BorderStyle     lipgloss.Style

	// Footer
	StatsStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	StatusStyle  lipgloss.Style
	HelpStyle    lipgloss.Style

	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	palette := theme.NewPalette(t)
	s := &Styles{
		palette:     palette,
		colorBg:     palette.Bg,
		colorFg:     palette.Fg,
		colorMuted:  palette.FgMuted,
		colorAccent: palette.Accent,
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.TextOnAccent).
		Background(palette.Accent).
		Padding(0, 1)

	s.FilterStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted).
		Background(palette.Bg).
		Padding(0, 1)

	s.FilterFocusStyle = s.FilterStyle.
		Foreground(palette.Fg).
		Background(palette.BgSelection).
		Bold(true)

	s.HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(palette.Accent).
		Background(palette.Bg)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted).
		Background(palette.BgHighlight).
		Align(lipgloss.Right).
		Width(timeColWidth)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Background(palette.Bg)

	s.CellStyle = lipgloss.NewStyle().
		Padding(0, 1)

	s.AnchorCellStyle = s.CellStyle.
		Bold(true)

	s.BorderStyle = lipgloss.NewStyle().
		Foreground(palette.BgSelection).
		Background(palette.Bg)

	s.StatsStyle = lipgloss.NewStyle().
		Foreground(palette.Fg).
		Background(palette.Bg)

	s.WarningStyle = lipgloss.NewStyle().
		Foreground(palette.Warning).
		Background(palette.Bg).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(palette.Accent).
		Background(palette.Bg)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted).
		Background(palette.Bg)

	s.AppStyle = lipgloss.NewStyle().
		Background(palette.Bg)

	return s
}

// gridStyles returns the table cell styles for a column width.
func (s *Styles) gridStyles(colWidth int) view.GridStyles {
	return view.GridStyles{
		Time:    s.TimeColumnStyle,
		Empty:   s.EmptyCellStyle.Width(colWidth),
		Cell:    s.CellStyle.Width(colWidth),
		Anchor:  s.AnchorCellStyle.Width(colWidth),
		Palette: s.palette,
	}
}

// headerStyles returns one header style per column.
func (s *Styles) headerStyles(colWidth int) []lipgloss.Style {
	labels := view.HeaderLabels()
	styles := make([]lipgloss.Style, len(labels))
	styles[0] = s.HeaderStyle.Width(timeColWidth)
	for i := 1; i < len(styles); i++ {
		styles[i] = s.HeaderStyle.Width(colWidth)
	}
	return styles
}
