package course

import (
	"context"
	"strings"
)

// Filter narrows a course listing. Zero-valued fields match everything.
type Filter struct {
	TermSuffix string   // e.g. "FA"; matches terms ending in "/FA"
	Room       string   // exact room
	Prefixes   []string // case-insensitive course number prefixes
}

// IsZero reports whether the filter matches every course.
func (f Filter) IsZero() bool {
	return f.TermSuffix == "" && f.Room == "" && len(f.Prefixes) == 0
}

// Matches applies the filter to a single course.
func (f Filter) Matches(c *Course) bool {
	if f.TermSuffix != "" && !strings.HasSuffix(strings.ToUpper(c.Term), "/"+strings.ToUpper(f.TermSuffix)) {
		return false
	}
	if f.Room != "" && c.Room != f.Room {
		return false
	}
	if len(f.Prefixes) == 0 {
		return true
	}
	number := strings.ToUpper(c.CourseNumber)
	for _, p := range f.Prefixes {
		if strings.HasPrefix(number, strings.ToUpper(p)) {
			return true
		}
	}
	return false
}

// Repository defines the storage interface for courses and catalogs.
type Repository interface {
	// CreateCourse adds a course and sets its ID and timestamps.
	CreateCourse(ctx context.Context, c *Course) error

	// GetCourse retrieves a course by ID.
	GetCourse(ctx context.Context, id string) (*Course, error)

	// UpdateCourse replaces every field of an existing course.
	UpdateCourse(ctx context.Context, c *Course) error

	// DeleteCourse removes a course and returns what was deleted.
	DeleteCourse(ctx context.Context, id string) (*Course, error)

	// ListCourses returns matching courses in insertion order.
	ListCourses(ctx context.Context, f Filter) ([]*Course, error)

	// UpsertCourses inserts or replaces courses keyed on course number and
	// term, returning how many rows were written.
	UpsertCourses(ctx context.Context, courses []*Course) (int, error)

	// ReplaceCatalog stores a catalog, dropping any previous one of the same
	// curriculum type.
	ReplaceCatalog(ctx context.Context, c *Catalog) error

	// GetCatalog retrieves the catalog of a curriculum type.
	GetCatalog(ctx context.Context, curriculumType string) (*Catalog, error)

	// Close releases any resources held by the repository.
	Close() error
}
