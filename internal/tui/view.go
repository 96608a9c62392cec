package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/tui/view"
)

const (
	shortHelp = "tab filter · ←/→ change · a all · r reload · y copy · ? more · q quit"
	fullHelp  = "tab/shift+tab focus filter · h/l or ←/→ change value · a all courses · ↑/↓ pgup/pgdn scroll · r reload · y copy agenda · ? less · q quit"
)

// View renders the TUI.
func (m Model) View() string {
	return view.Render(view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		EmptyPlaceholder: "Loading...",
	})
}

func (m Model) renderAppContent() string {
	if m.width <= 0 || m.height <= headerHeight+m.footerHeight() {
		return "Terminal too small"
	}

	header := lipgloss.JoinVertical(lipgloss.Left, m.renderTitle(), m.renderFilters())
	footer := view.RenderFooter(view.FooterViewState{
		InnerW:      m.width,
		FooterH:     m.footerHeight(),
		FullFooter:  m.fullHelp,
		StatsLine:   m.statsLine(),
		LegendLine:  m.legendLine(),
		StatusLine:  m.statusLine(),
		HelpLine:    m.helpLine(),
		FooterStyle: m.styles.StatsStyle,
		StatusStyle: m.statusStyle(),
		HelpStyle:   m.styles.HelpStyle,
		VAlign:      lipgloss.Top,
		Bg:          m.styles.colorBg,
	})

	body := m.viewport.View()
	if m.cal == nil {
		body = view.PlaceBox(m.width, m.viewport.Height, lipgloss.Center, "", m.styles.colorBg)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	app := m.styles.AppStyle.Render(content)
	return view.PadLinesWithBackground(app, m.width, m.height, m.styles.colorBg)
}

func (m Model) renderTitle() string {
	title := m.styles.TitleStyle.Render("coursegrid")
	label := m.styles.FilterStyle.Render(view.FilterLabel(m.query))
	return view.PadLinesWithBackground(title+label, m.width, 1, m.styles.colorBg)
}

func (m Model) renderFilters() string {
	parts := make([]string, 0, fieldCount)
	for f := fieldProgram; f < fieldCount; f++ {
		value := m.value(f)
		if value == "" {
			value = "all"
		}
		style := m.styles.FilterStyle
		if f == m.focus {
			style = m.styles.FilterFocusStyle
		}
		parts = append(parts, style.Render(f.String()+": "+value))
	}
	return view.PadLinesWithBackground(strings.Join(parts, ""), m.width, 1, m.styles.colorBg)
}

func (m Model) statsLine() string {
	if m.cal == nil {
		return ""
	}
	return fmt.Sprintf("%d cells · %d conflicts · %d rejected · %d outside the window · rooms: %s",
		len(m.cal.Cells), m.cal.Conflicts(), len(m.cal.Rejections), m.cal.Outside, strings.Join(m.cal.Rooms, ", "))
}

func (m Model) legendLine() string {
	parts := make([]string, 0, len(calendar.Categories)+1)
	for _, c := range calendar.Categories {
		colors := m.styles.palette.CategoryColors(c)
		parts = append(parts, lipgloss.NewStyle().Background(colors.Bg).Foreground(colors.Text).Padding(0, 1).Render(string(c)))
	}
	parts = append(parts, lipgloss.NewStyle().
		Background(m.styles.palette.ConflictBg).
		Foreground(m.styles.palette.TextOnConflict).
		Padding(0, 1).
		Render("conflict"))
	return strings.Join(parts, " ")
}

func (m Model) statusLine() string {
	switch {
	case m.status != "":
		return m.status
	case m.loading:
		return "Loading..."
	case m.cal != nil && len(m.cal.Rejections) > 0:
		return fmt.Sprintf("%d sessions could not be placed", len(m.cal.Rejections))
	default:
		return ""
	}
}

func (m Model) statusStyle() lipgloss.Style {
	if m.err != nil || (m.status == "" && m.cal != nil && len(m.cal.Rejections) > 0) {
		return m.styles.WarningStyle
	}
	return m.styles.StatusStyle
}

func (m Model) helpLine() string {
	if m.fullHelp {
		return fullHelp
	}
	return shortHelp
}
