package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/coursegrid/coursegrid/internal/calendar"
)

// Color definitions for consistent styling across the UI.
var (
	categoryColors = map[calendar.Category]*color.Color{
		calendar.CategoryComputing:   color.New(color.FgCyan, color.Bold),
		calendar.CategoryMath:        color.New(color.FgGreen, color.Bold),
		calendar.CategoryPhysics:     color.New(color.FgYellow, color.Bold),
		calendar.CategoryEnglish:     color.New(color.FgMagenta, color.Bold),
		calendar.CategoryEngineering: color.New(color.FgBlue, color.Bold),
		calendar.CategoryJustice:     color.New(color.FgRed),
		calendar.CategoryOther:       color.New(color.FgWhite),
	}

	// Conflicts and rejections: bold red so they are hard to miss
	colorConflict = color.New(color.FgRed, color.Bold)

	// Warnings: yellow
	colorWarning = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for counts
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output, including lipgloss rendering.
func DisableColor() {
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

// formatCourse colors a course number by its subject.
func formatCourse(number string) string {
	c, ok := categoryColors[calendar.ColorHint(number)]
	if !ok {
		return number
	}
	return c.Sprint(number)
}

// formatConflict formats text that reports a conflict or rejection.
func formatConflict(s string) string {
	return colorConflict.Sprint(s)
}

// formatWarning formats a data quality warning.
func formatWarning(s string) string {
	return colorWarning.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
