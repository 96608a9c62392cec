// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"github.com/coursegrid/coursegrid/internal/calendar"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Empty cells, header
	BgSelection string `toml:"bg_selection"` // Cursor, time column
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Help line, muted elements
	Accent      string `toml:"accent"`       // Title, borders
	Warning     string `toml:"warning"`      // Rejected sessions
	Conflict    string `toml:"conflict"`     // Stacked cells

	// Categories maps a calendar.Category to its cell color.
	Categories map[string]string `toml:"categories"`
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = "mocha"
	}
	name = strings.ToLower(name)

	path := "embedded/" + name + ".toml"
	data, err := embeddedThemes.ReadFile(path)
	if err != nil {
		// Fallback to mocha
		if name != "mocha" {
			return Load("mocha")
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

// Category returns the cell color of a category.
func (t *Theme) Category(c calendar.Category) string {
	if hex, ok := t.Categories[string(c)]; ok {
		return hex
	}
	return t.Categories[string(calendar.CategoryOther)]
}

func (t *Theme) applyDefaults() {
	if t.Categories == nil {
		t.Categories = make(map[string]string)
	}
	if t.Categories[string(calendar.CategoryOther)] == "" {
		t.Categories[string(calendar.CategoryOther)] = coalesce(t.FgMuted, t.Fg)
	}
	if t.Conflict == "" {
		t.Conflict = coalesce(t.Warning, t.Accent)
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte", "light"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
