package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW      int
	FooterH     int
	FullFooter  bool
	StatsLine   string
	LegendLine  string
	StatusLine  string
	HelpLine    string
	FooterStyle lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	VAlign      lipgloss.Position
	Bg          lipgloss.Color
}

// RenderFooter renders stats, legend, status, and help lines.
func RenderFooter(state FooterViewState) string {
	if state.FooterH <= 0 {
		return ""
	}

	lines := make([]string, 0, 4)
	if state.FullFooter {
		lines = append(lines,
			footerLine(state.InnerW, state.FooterStyle, state.StatsLine),
			footerLine(state.InnerW, state.FooterStyle, state.LegendLine),
		)
	}
	lines = append(lines,
		footerLine(state.InnerW, state.StatusStyle, state.StatusLine),
		footerLine(state.InnerW, state.HelpStyle, state.HelpLine),
	)

	return PlaceBox(state.InnerW, state.FooterH, state.VAlign, strings.Join(lines, "\n"), state.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := width - frameW
	if contentWidth < 0 {
		contentWidth = 0
	}
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
