package service

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/coursegrid/coursegrid/internal/cache"
	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/events"
	"github.com/coursegrid/coursegrid/internal/ingest"
	"github.com/coursegrid/coursegrid/internal/placement"
	"github.com/coursegrid/coursegrid/internal/schedule"
)

// memRepo is an in-memory course.Repository.
type memRepo struct {
	mu       sync.Mutex
	next     int
	courses  []*course.Course
	catalogs map[string]*course.Catalog
	failList error
}

func newMemRepo() *memRepo {
	return &memRepo{catalogs: make(map[string]*course.Catalog)}
}

func (m *memRepo) index(id string) int {
	return slices.IndexFunc(m.courses, func(c *course.Course) bool { return c.ID == id })
}

func (m *memRepo) CreateCourse(_ context.Context, c *course.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.courses {
		if existing.CourseNumber == c.CourseNumber && existing.Term == c.Term {
			return course.ErrDuplicateCourse
		}
	}
	m.next++
	c.ID = strconv.Itoa(m.next)
	cp := *c
	m.courses = append(m.courses, &cp)
	return nil
}

func (m *memRepo) GetCourse(_ context.Context, id string) (*course.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return nil, course.ErrCourseNotFound
	}
	cp := *m.courses[i]
	return &cp, nil
}

func (m *memRepo) UpdateCourse(_ context.Context, c *course.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(c.ID)
	if i < 0 {
		return course.ErrCourseNotFound
	}
	cp := *c
	m.courses[i] = &cp
	return nil
}

func (m *memRepo) DeleteCourse(_ context.Context, id string) (*course.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return nil, course.ErrCourseNotFound
	}
	c := m.courses[i]
	m.courses = slices.Delete(m.courses, i, i+1)
	return c, nil
}

func (m *memRepo) ListCourses(_ context.Context, f course.Filter) ([]*course.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	var out []*course.Course
	for _, c := range m.courses {
		if f.Matches(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) UpsertCourses(ctx context.Context, courses []*course.Course) (int, error) {
	for _, c := range courses {
		m.mu.Lock()
		i := slices.IndexFunc(m.courses, func(e *course.Course) bool {
			return e.CourseNumber == c.CourseNumber && e.Term == c.Term
		})
		m.mu.Unlock()
		if i >= 0 {
			c.ID = m.courses[i].ID
			if err := m.UpdateCourse(ctx, c); err != nil {
				return 0, err
			}
			continue
		}
		if err := m.CreateCourse(ctx, c); err != nil {
			return 0, err
		}
	}
	return len(courses), nil
}

func (m *memRepo) ReplaceCatalog(_ context.Context, c *course.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogs[c.CurriculumType] = c
	return nil
}

func (m *memRepo) GetCatalog(_ context.Context, curriculumType string) (*course.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.catalogs[curriculumType]
	if !ok {
		return nil, course.ErrCatalogNotFound
	}
	return c, nil
}

func (m *memRepo) Close() error { return nil }

// recordingBus keeps published events; publishing fails when err is set.
type recordingBus struct {
	events.Nop
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, e)
	return nil
}

type countingCache struct {
	cache.Nop
	invalidations int
}

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	return nil
}

var fixedNow = time.Date(2024, 8, 20, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	repo  *memRepo
	bus   *recordingBus
	cache *countingCache
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	engine, err := placement.New(30)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{repo: newMemRepo(), bus: &recordingBus{}, cache: &countingCache{}, logs: logs}
	f.svc, err = New(f.repo, engine, calendar.DefaultLayout(),
		WithEvents(f.bus),
		WithCache(f.cache),
		WithLogger(zap.New(core)),
		WithClock(func() time.Time { return fixedNow }),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return f
}

func sampleCourse(number, start, end, days, room string) *course.Course {
	return &course.Course{
		CourseNumber: number,
		Title:        number + " title",
		StartTime:    start,
		EndTime:      end,
		MeetingDays:  days,
		Room:         room,
		Term:         "24/FA",
		Status:       "Open",
	}
}

func TestNew_LayoutMismatch(t *testing.T) {
	engine, _ := placement.New(15)
	if _, err := New(newMemRepo(), engine, calendar.DefaultLayout()); !errors.Is(err, calendar.ErrInvalidLayout) {
		t.Errorf("error = %v, want ErrInvalidLayout", err)
	}
}

func TestCreateCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := sampleCourse(" CIS_180 ", "9:00 AM", "10:15 AM", "tth", "101")
	if err := f.svc.CreateCourse(ctx, c); err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}
	if c.ID == "" || c.CourseNumber != "CIS_180" {
		t.Errorf("course not normalized or stored: %+v", c)
	}
	if f.cache.invalidations != 1 {
		t.Errorf("invalidations = %d, want 1", f.cache.invalidations)
	}
	if len(f.bus.events) != 1 {
		t.Fatalf("events = %+v", f.bus.events)
	}
	if e := f.bus.events[0]; e.Kind != events.Created || e.CourseID != c.ID || !e.At.Equal(fixedNow) {
		t.Errorf("event = %+v", e)
	}
}

func TestCreateCourse_Invalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		course *course.Course
	}{
		{name: "missing number", course: sampleCourse("", "9:00 AM", "10:00 AM", "M", "")},
		{name: "inverted range", course: sampleCourse("CIS_180", "10:00 AM", "9:00 AM", "M", "")},
		{name: "bad time", course: sampleCourse("CIS_180", "nine", "10:00 AM", "M", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.CreateCourse(ctx, tt.course)
			if !errors.Is(err, course.ErrInvalidCourse) {
				t.Errorf("error = %v, want ErrInvalidCourse", err)
			}
			if !IsBadRequest(err) {
				t.Error("validation errors should be bad requests")
			}
		})
	}

	if len(f.repo.courses) != 0 || len(f.bus.events) != 0 {
		t.Error("invalid courses must not be stored or announced")
	}
}

func TestUpdateAndDeleteCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := sampleCourse("CIS_180", "9:00 AM", "10:15 AM", "TTH", "101")
	if err := f.svc.CreateCourse(ctx, c); err != nil {
		t.Fatal(err)
	}

	c.Room = "305"
	if err := f.svc.UpdateCourse(ctx, c); err != nil {
		t.Fatalf("UpdateCourse failed: %v", err)
	}
	got, err := f.svc.GetCourse(ctx, c.ID)
	if err != nil || got.Room != "305" {
		t.Errorf("GetCourse = %+v, %v", got, err)
	}

	deleted, err := f.svc.DeleteCourse(ctx, c.ID)
	if err != nil || deleted.ID != c.ID {
		t.Fatalf("DeleteCourse = %+v, %v", deleted, err)
	}
	if _, err := f.svc.DeleteCourse(ctx, c.ID); !errors.Is(err, course.ErrCourseNotFound) {
		t.Errorf("second delete error = %v", err)
	}

	kinds := make([]events.Kind, len(f.bus.events))
	for i, e := range f.bus.events {
		kinds[i] = e.Kind
	}
	if !slices.Equal(kinds, []events.Kind{events.Created, events.Updated, events.Deleted}) {
		t.Errorf("event kinds = %v", kinds)
	}
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.bus.err = errors.New("broker down")

	if err := f.svc.CreateCourse(context.Background(), sampleCourse("CIS_180", "9:00 AM", "10:00 AM", "M", "")); err != nil {
		t.Fatalf("CreateCourse should succeed when publishing fails: %v", err)
	}
	if f.logs.FilterMessage("publishing change event failed").Len() != 1 {
		t.Error("expected the publish failure to be logged")
	}
}

func TestListCourses_Query(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, c := range []*course.Course{
		sampleCourse("CIS_180_01", "9:00 AM", "10:15 AM", "TTH", "101"),
		sampleCourse("MATH_140_02", "9:00 AM", "10:15 AM", "TTH", "202"),
		sampleCourse("CIS_182_01", "1:00 PM", "2:15 PM", "MW", "101"),
	} {
		if err := f.svc.CreateCourse(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	all, err := f.svc.ListCourses(ctx, curriculum.Query{})
	if err != nil || len(all) != 3 {
		t.Fatalf("ListCourses(all) = %d, %v", len(all), err)
	}

	got, err := f.svc.ListCourses(ctx, curriculum.Query{Program: "computer-science", Year: "freshman", Semester: "fall"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].CourseNumber != "CIS_180_01" || got[1].CourseNumber != "MATH_140_02" {
		t.Errorf("freshman fall = %+v", got)
	}

	_, err = f.svc.ListCourses(ctx, curriculum.Query{Program: "history", Year: "freshman", Semester: "fall"})
	if !errors.Is(err, curriculum.ErrUnknownProgram) || !IsBadRequest(err) {
		t.Errorf("unknown program error = %v", err)
	}
}

func TestCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, c := range []*course.Course{
		sampleCourse("CIS_180", "9:00 AM", "10:15 AM", "TTH", "101"),
		sampleCourse("MATH_140", "9:00 AM", "10:15 AM", "TTH", "202"),
		sampleCourse("CIS_182", "1:00 PM", "2:15 PM", "", ""),
	} {
		if err := f.repo.CreateCourse(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	cancelled := sampleCourse("CIS_290", "9:00 AM", "10:00 AM", "F", "")
	cancelled.Status = "CNCL"
	if err := f.repo.CreateCourse(ctx, cancelled); err != nil {
		t.Fatal(err)
	}

	view, err := f.svc.Calendar(ctx, curriculum.Query{})
	if err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}

	// Tuesday and Thursday conflict cells plus CIS_182 on Monday.
	if len(view.Cells) != 3 || view.Conflicts() != 2 {
		t.Fatalf("cells = %+v", view.Cells)
	}
	first := view.Cells[0]
	if first.Day != schedule.Tuesday || first.Slot != "9:00 AM" || first.Rowspan != 3 || !first.Conflict || len(first.Sessions) != 2 {
		t.Errorf("first cell = %+v", first)
	}
	if len(view.Rejections) != 1 || view.Rejections[0].Session.CourseNumber != "CIS_290" {
		t.Errorf("rejections = %+v", view.Rejections)
	}
	if len(view.Notices) != 1 || view.Notices[0].Field != "meetingDays" {
		t.Errorf("notices = %+v", view.Notices)
	}
	if !slices.Equal(view.Rooms, []string{"101", "202"}) {
		t.Errorf("rooms = %v", view.Rooms)
	}
	if view.Frame.Filled() == 0 {
		t.Error("frame should hold the painted cells")
	}
	cell := view.Frame.At(schedule.Tuesday, 9*60)
	if !cell.Filled || !cell.Content.Conflict || cell.Rowspan != 3 {
		t.Errorf("frame cell = %+v", cell)
	}
}

func TestCalendar_StoreError(t *testing.T) {
	f := newFixture(t)
	f.repo.failList = errors.New("disk on fire")
	if _, err := f.svc.Calendar(context.Background(), curriculum.Query{}); err == nil {
		t.Error("expected the store error to surface")
	}
}

func TestRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rooms, err := f.svc.Rooms(ctx, curriculum.Query{})
	if err != nil || rooms == nil || len(rooms) != 0 {
		t.Errorf("empty Rooms = %v, %v", rooms, err)
	}

	for _, c := range []*course.Course{
		sampleCourse("CIS_180", "9:00 AM", "10:15 AM", "TTH", " 305 "),
		sampleCourse("CIS_181", "11:00 AM", "12:15 PM", "TTH", "101"),
		sampleCourse("CIS_182", "1:00 PM", "2:15 PM", "MW", "305"),
		sampleCourse("CIS_183", "bad", "2:15 PM", "MW", "999"),
	} {
		if err := f.repo.CreateCourse(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	rooms, err = f.svc.Rooms(ctx, curriculum.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(rooms, []string{"305", "101"}) {
		t.Errorf("rooms = %v, want [305 101]", rooms)
	}
}

func TestCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Catalog(ctx, "underwater basket weaving"); !errors.Is(err, ErrUnknownCatalog) {
		t.Errorf("error = %v, want ErrUnknownCatalog", err)
	}
	if _, err := f.svc.Catalog(ctx, "cybersecurity"); !errors.Is(err, course.ErrCatalogNotFound) {
		t.Errorf("error = %v, want ErrCatalogNotFound", err)
	}

	_ = f.repo.ReplaceCatalog(ctx, &course.Catalog{CurriculumType: "Cybersecurity"})
	for _, name := range []string{"cybersecurity", "Cybersecurity"} {
		if cat, err := f.svc.Catalog(ctx, name); err != nil || cat.CurriculumType != "Cybersecurity" {
			t.Errorf("Catalog(%q) = %+v, %v", name, cat, err)
		}
	}
}

func TestImport_Unsupported(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Import(context.Background(), ingest.Upload{Name: "courses.csv", Semester: "fall", Data: []byte("a,b")})
	if !errors.Is(err, ingest.ErrUnsupportedFile) || !IsBadRequest(err) {
		t.Errorf("error = %v, want ErrUnsupportedFile", err)
	}
	if len(f.bus.events) != 0 {
		t.Error("failed imports must not publish events")
	}
}
