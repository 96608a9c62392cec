// Package service holds the application operations shared by the HTTP API,
// the CLI and the interactive calendar.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/archive"
	"github.com/coursegrid/coursegrid/internal/cache"
	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/events"
	"github.com/coursegrid/coursegrid/internal/ingest"
	"github.com/coursegrid/coursegrid/internal/placement"
)

// ErrUnknownCatalog is returned for a curriculum type with no document config.
var ErrUnknownCatalog = errors.New("unknown curriculum type")

// Service composes the course store with the placement engine and the
// optional cache, change feed and upload archive.
type Service struct {
	repo    course.Repository
	engine  *placement.Engine
	layout  calendar.Layout
	cache   cache.Cache
	bus     events.Bus
	archive archive.Store
	log     *zap.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithEvents(b events.Bus) Option {
	return func(s *Service) {
		if b != nil {
			s.bus = b
		}
	}
}

func WithArchive(a archive.Store) Option {
	return func(s *Service) {
		if a != nil {
			s.archive = a
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now for event and import timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New checks that layout fits the engine's grid.
func New(repo course.Repository, engine *placement.Engine, layout calendar.Layout, opts ...Option) (*Service, error) {
	if _, err := calendar.NewRenderer(engine, layout, nil); err != nil {
		return nil, err
	}
	s := &Service{
		repo:    repo,
		engine:  engine,
		layout:  layout,
		cache:   cache.Nop{},
		bus:     events.Nop{},
		archive: archive.Nop{},
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Layout returns the calendar window.
func (s *Service) Layout() calendar.Layout {
	return s.layout
}

// Events returns the change feed, for subscribers.
func (s *Service) Events() events.Bus {
	return s.bus
}

// changed invalidates cached reads and publishes e. Neither failure is
// returned: the store already holds the change.
func (s *Service) changed(ctx context.Context, e events.Event) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("cache invalidation failed", zap.Error(err))
	}
	e.At = s.now()
	if err := s.bus.Publish(ctx, e); err != nil {
		s.log.Warn("publishing change event failed",
			zap.String("kind", string(e.Kind)),
			zap.String("course_id", e.CourseID),
			zap.Error(err),
		)
	}
}

// IsBadRequest reports whether err comes from invalid caller input.
func IsBadRequest(err error) bool {
	return errors.Is(err, course.ErrInvalidCourse) ||
		errors.Is(err, curriculum.ErrUnknownProgram) ||
		errors.Is(err, curriculum.ErrUnknownYear) ||
		errors.Is(err, curriculum.ErrUnknownSemester) ||
		errors.Is(err, ErrUnknownCatalog) ||
		errors.Is(err, ingest.ErrUnsupportedFile) ||
		errors.Is(err, ingest.ErrEmptyUpload) ||
		errors.Is(err, ingest.ErrUnknownCurriculum) ||
		errors.Is(err, ingest.ErrMissingFooter)
}
