package view

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/schedule"
	"github.com/coursegrid/coursegrid/internal/tui/theme"
)

// GridCell is one terminal line of one day column.
type GridCell struct {
	Text string
	// Content is the painted cell this line belongs to, nil when empty.
	Content *calendar.Content
	Anchor  bool
}

// CellLines renders the lines a painted cell shows, top to bottom.
func CellLines(c calendar.Content) []string {
	if !c.Conflict {
		if len(c.Entries) == 0 {
			return nil
		}
		return c.Entries[0].Lines()
	}
	lines := []string{"! " + strconv.Itoa(len(c.Entries)) + " overlapping"}
	for _, e := range c.Entries {
		lines = append(lines, e.CourseNumber)
	}
	return lines
}

// FrameRows lays a frame out as [row][day] lines. A painted cell writes its
// first line on its own row and continues into the rows it hides.
func FrameRows(f calendar.Frame) [][]GridCell {
	rows := make([][]GridCell, f.Layout.Rows())
	for r := range rows {
		rows[r] = make([]GridCell, len(f.Days))
	}

	for d := range f.Days {
		var (
			owner *calendar.Content
			lines []string
			next  int
		)
		for r, cell := range f.Days[d] {
			switch {
			case cell.Filled:
				content := cell.Content
				owner, lines, next = &content, CellLines(content), 1
				rows[r][d] = GridCell{Content: owner, Anchor: true}
				if len(lines) > 0 {
					rows[r][d].Text = lines[0]
				}
			case cell.Hidden && owner != nil:
				rows[r][d] = GridCell{Content: owner}
				if next < len(lines) {
					rows[r][d].Text = lines[next]
				}
				next++
			default:
				owner = nil
			}
		}
	}
	return rows
}

// GridStyles holds the base styles of the calendar table. Painted cells take
// their colors from Palette.
type GridStyles struct {
	Time    lipgloss.Style
	Empty   lipgloss.Style
	Cell    lipgloss.Style
	Anchor  lipgloss.Style
	Palette *theme.Palette
}

// BuildTable turns a frame into table rows with a leading time column.
// Text wider than colWidth is truncated.
func BuildTable(f calendar.Frame, colWidth int, st GridStyles) TableContent {
	grid := FrameRows(f)
	slots := f.Layout.Slots()

	content := TableContent{
		Rows:       make([][]string, len(grid)),
		CellStyles: make([][]lipgloss.Style, len(grid)),
	}
	for r, line := range grid {
		row := make([]string, 0, len(line)+1)
		styles := make([]lipgloss.Style, 0, len(line)+1)

		row = append(row, schedule.FormatClock(slots[r]))
		styles = append(styles, st.Time)

		for _, cell := range line {
			row = append(row, fit(cell.Text, colWidth))
			styles = append(styles, cellStyle(cell, st))
		}
		content.Rows[r] = row
		content.CellStyles[r] = styles
	}
	return content
}

func cellStyle(cell GridCell, st GridStyles) lipgloss.Style {
	if cell.Content == nil || st.Palette == nil {
		return st.Empty
	}
	colors := st.Palette.Cell(*cell.Content)
	base := st.Cell
	if cell.Anchor {
		base = st.Anchor
	}
	return base.Background(colors.Bg).Foreground(colors.Text)
}

func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
