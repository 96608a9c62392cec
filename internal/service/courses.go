package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/events"
)

// ListCourses returns the courses matching q in arrival order.
func (s *Service) ListCourses(ctx context.Context, q curriculum.Query) ([]*course.Course, error) {
	f, err := curriculum.Resolve(q)
	if err != nil {
		return nil, err
	}
	courses, err := s.repo.ListCourses(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

func (s *Service) GetCourse(ctx context.Context, id string) (*course.Course, error) {
	return s.repo.GetCourse(ctx, id)
}

// CreateCourse normalizes and validates c before storing it.
func (s *Service) CreateCourse(ctx context.Context, c *course.Course) error {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return err
	}
	s.log.Info("course created", zap.String("id", c.ID), zap.String("course", c.CourseNumber))
	s.changed(ctx, events.Event{Kind: events.Created, CourseID: c.ID, Term: c.Term, Count: 1})
	return nil
}

// UpdateCourse replaces the stored course with the same ID.
func (s *Service) UpdateCourse(ctx context.Context, c *course.Course) error {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		return err
	}
	s.log.Info("course updated", zap.String("id", c.ID), zap.String("course", c.CourseNumber))
	s.changed(ctx, events.Event{Kind: events.Updated, CourseID: c.ID, Term: c.Term, Count: 1})
	return nil
}

func (s *Service) DeleteCourse(ctx context.Context, id string) (*course.Course, error) {
	c, err := s.repo.DeleteCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("course deleted", zap.String("id", c.ID), zap.String("course", c.CourseNumber))
	s.changed(ctx, events.Event{Kind: events.Deleted, CourseID: c.ID, Term: c.Term, Count: 1})
	return c, nil
}

// Catalog returns the degree plan for a curriculum type ("Computer
// Science") or program key ("computer-science").
func (s *Service) Catalog(ctx context.Context, name string) (*course.Catalog, error) {
	cfg, ok := curriculum.ConfigFor(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCatalog, name)
	}
	return s.repo.GetCatalog(ctx, cfg.CurriculumType)
}
