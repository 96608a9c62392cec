package calendar

import (
	"strings"

	"github.com/coursegrid/coursegrid/internal/schedule"
)

// Category is a coarse subject grouping used to pick a cell color.
type Category string

const (
	CategoryComputing   Category = "computing"
	CategoryMath        Category = "math"
	CategoryPhysics     Category = "physics"
	CategoryEnglish     Category = "english"
	CategoryEngineering Category = "engineering"
	CategoryJustice     Category = "justice"
	CategoryOther       Category = "other"
)

// Categories lists every category in palette order.
var Categories = []Category{
	CategoryComputing,
	CategoryMath,
	CategoryPhysics,
	CategoryEnglish,
	CategoryEngineering,
	CategoryJustice,
	CategoryOther,
}

// First match wins, so longer prefixes that contain shorter ones go first.
var subjectHints = []struct {
	subject  string
	category Category
}{
	{"CYSEC", CategoryComputing},
	{"CIS", CategoryComputing},
	{"CSC", CategoryComputing},
	{"SOFT", CategoryComputing},
	{"MATH", CategoryMath},
	{"PHYS", CategoryPhysics},
	{"ENG", CategoryEnglish},
	{"ECE", CategoryEngineering},
	{"CRJS", CategoryJustice},
}

// ColorHint maps a course number to its display category by substring match.
// The result is informational only.
func ColorHint(courseNumber string) Category {
	upper := strings.ToUpper(courseNumber)
	for _, h := range subjectHints {
		if strings.Contains(upper, h.subject) {
			return h.category
		}
	}
	return CategoryOther
}

// Entry is the rendered content of one session inside a cell.
type Entry struct {
	SessionID    string   `json:"sessionId"`
	CourseNumber string   `json:"courseNumber"`
	Title        string   `json:"title"`
	TimeRange    string   `json:"timeRange"`
	Location     string   `json:"location"`
	Category     Category `json:"category"`
}

// NewEntry renders a normalized session.
func NewEntry(n schedule.Normalized) Entry {
	return Entry{
		SessionID:    n.ID,
		CourseNumber: n.CourseNumber,
		Title:        n.Title,
		TimeRange:    n.TimeRange(),
		Location:     n.Location(),
		Category:     ColorHint(n.CourseNumber),
	}
}

// Lines renders the entry as display lines: course, title, time and place.
func (e Entry) Lines() []string {
	lines := []string{e.CourseNumber}
	if e.Title != "" {
		lines = append(lines, e.Title)
	}
	return append(lines, e.TimeRange, e.Location)
}

// Content is what a surface paints into one cell.
type Content struct {
	Entries  []Entry `json:"entries"`
	Conflict bool    `json:"conflict"`
}

// Category returns the category of a single-entry cell. Conflict cells are
// painted in their own style so they report CategoryOther.
func (c Content) Category() Category {
	if c.Conflict || len(c.Entries) == 0 {
		return CategoryOther
	}
	return c.Entries[0].Category
}
