package integration

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/db"
	"github.com/coursegrid/coursegrid/internal/events"
	"github.com/coursegrid/coursegrid/internal/ingest"
	"github.com/coursegrid/coursegrid/internal/placement"
	"github.com/coursegrid/coursegrid/internal/service"
)

var now = time.Date(2024, 8, 20, 9, 0, 0, 0, time.UTC)

// recorder is an event bus that keeps what was published.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Subscribe(context.Context) (<-chan events.Event, error) {
	return nil, errors.New("not supported")
}

func (r *recorder) Close() error { return nil }

func (r *recorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// openService creates a fresh sqlite-backed service for each test with
// automatic cleanup.
func openService(t *testing.T) (*service.Service, *recorder) {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	engine, err := placement.New(30)
	if err != nil {
		t.Fatal(err)
	}
	bus := &recorder{}
	svc, err := service.New(repo, engine, calendar.DefaultLayout(),
		service.WithEvents(bus),
		service.WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatal(err)
	}
	return svc, bus
}

func sheet(t *testing.T, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	name := f.GetSheetName(0)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// docx writes a minimal Word document with one paragraph per line.
func docx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var doc strings.Builder
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		doc.WriteString(`<w:p>`)
		for i, part := range strings.Split(p, "\t") {
			if i > 0 {
				doc.WriteString(`<w:r><w:tab/></w:r>`)
			}
			if part != "" {
				doc.WriteString(`<w:r><w:t>` + part + `</w:t></w:r>`)
			}
		}
		doc.WriteString(`</w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(doc.String())); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var header = []any{"COURSE #", "TITLE/START DATE", "Start Time", "End Time", "Meeting Days", "Bldg", "Room", "Term", "STATUS"}

func fallSheet(t *testing.T) []byte {
	return sheet(t, header,
		[]any{"CIS_180_01", "Intro to Computing", "9:00 AM", "10:30 AM", "MW", "ENG", "101", "24/XX", "Open"},
		[]any{"MATH_140_01", "Calculus I", "9:00 AM", "10:00 AM", "MW", "SCI", "202", "24", "Open"},
		[]any{"ENG_102_02", "Composition", "1:00 PM", "2:15 PM", "TTH", "LIB", "12", "24", "Open"},
		[]any{"CIS_290_01", "Seminar", "", "", "", "", "", "24", "CNCL"},
		[]any{"CYSEC_301_01", "Security", "9:00 AM", "10:00 AM", "MW", "ENG", "101", "24", "Open"},
	)
}

func TestImportThenFilteredCalendar(t *testing.T) {
	ctx := context.Background()
	svc, bus := openService(t)

	report, err := svc.Import(ctx, ingest.Upload{Name: "Fall 2024.xlsx", Semester: "fall", Data: fallSheet(t)})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.Courses != 5 {
		t.Fatalf("imported %d courses, want 5", report.Courses)
	}

	q := curriculum.Query{Program: curriculum.ComputerScience, Year: "freshman", Semester: "fall"}
	courses, err := svc.ListCourses(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if len(courses) != 4 {
		t.Fatalf("freshman fall lists %d courses, want 4", len(courses))
	}
	for _, c := range courses {
		if c.Term != "24/FA" {
			t.Errorf("%s term = %q, want 24/FA", c.CourseNumber, c.Term)
		}
		if strings.HasPrefix(c.CourseNumber, "CYSEC") {
			t.Errorf("cybersecurity course %s leaked into computer science", c.CourseNumber)
		}
	}

	v, err := svc.Calendar(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if v.Conflicts() == 0 {
		t.Error("CIS_180 and MATH_140 overlap but no conflict was found")
	}
	if len(v.Rejections) != 1 || v.Rejections[0].Session.CourseNumber != "CIS_290_01" {
		t.Errorf("rejections = %+v", v.Rejections)
	}
	rooms := slices.Clone(v.Rooms)
	slices.Sort(rooms)
	if strings.Join(rooms, ",") != "101,12,202" {
		t.Errorf("rooms = %v", v.Rooms)
	}

	// Narrowing to a room drops the overlap.
	q.Room = "101"
	v, err = svc.Calendar(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if v.Conflicts() != 0 {
		t.Errorf("room 101 still has %d conflicts", v.Conflicts())
	}

	if got := bus.kinds(); len(got) != 1 || got[0] != events.Imported {
		t.Errorf("events = %v, want [imported]", got)
	}
}

func TestReimportUpserts(t *testing.T) {
	ctx := context.Background()
	svc, _ := openService(t)

	for range 2 {
		if _, err := svc.Import(ctx, ingest.Upload{Name: "fall.xlsx", Semester: "fall", Data: fallSheet(t)}); err != nil {
			t.Fatal(err)
		}
	}
	all, err := svc.ListCourses(ctx, curriculum.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("after two imports there are %d courses, want 5", len(all))
	}

	// The same sheet for spring is a different term.
	if _, err := svc.Import(ctx, ingest.Upload{Name: "spring.xlsx", Semester: "spring", Data: fallSheet(t)}); err != nil {
		t.Fatal(err)
	}
	all, _ = svc.ListCourses(ctx, curriculum.Query{})
	if len(all) != 10 {
		t.Errorf("after a spring import there are %d courses, want 10", len(all))
	}
}

func TestEditResolvesConflict(t *testing.T) {
	ctx := context.Background()
	svc, bus := openService(t)

	cis := &course.Course{CourseNumber: "CIS_180_01", StartTime: "9:00 AM", EndTime: "10:30 AM", MeetingDays: "MW", Room: "101", Term: "24/FA", Status: "Open"}
	math := &course.Course{CourseNumber: "MATH_140_01", StartTime: "9:00 AM", EndTime: "10:00 AM", MeetingDays: "MW", Room: "202", Term: "24/FA", Status: "Open"}
	for _, c := range []*course.Course{cis, math} {
		if err := svc.CreateCourse(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	v, err := svc.Calendar(ctx, curriculum.Query{})
	if err != nil {
		t.Fatal(err)
	}
	before := v.Conflicts()
	if before == 0 {
		t.Fatal("expected a conflict before the edit")
	}

	math.StartTime, math.EndTime = "11:00 AM", "12:00 PM"
	if err := svc.UpdateCourse(ctx, math); err != nil {
		t.Fatal(err)
	}
	v, err = svc.Calendar(ctx, curriculum.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if v.Conflicts() != 0 {
		t.Errorf("conflicts after moving MATH_140 = %d", v.Conflicts())
	}

	deleted, err := svc.DeleteCourse(ctx, cis.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deleted.CourseNumber != "CIS_180_01" {
		t.Errorf("deleted %s", deleted.CourseNumber)
	}
	if _, err := svc.GetCourse(ctx, cis.ID); !errors.Is(err, course.ErrCourseNotFound) {
		t.Errorf("get after delete: %v", err)
	}

	want := []events.Kind{events.Created, events.Created, events.Updated, events.Deleted}
	got := bus.kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCatalogImportReplaces(t *testing.T) {
	ctx := context.Background()
	svc, _ := openService(t)

	plan := func(credits string) []byte {
		return docx(t,
			"Computer Science Curriculum",
			"(Numerals in front of courses indicate credits)",
			"FRESHMAN YEAR",
			"Fall",
			credits+"\tCIS 180 Intro to Computing",
			"4\tMATH 140 Calculus I",
			"Total Credits: 129",
		)
	}

	if _, err := svc.Import(ctx, ingest.Upload{Name: "CS plan.docx", Data: plan("3")}); err != nil {
		t.Fatalf("catalog import failed: %v", err)
	}
	report, err := svc.Import(ctx, ingest.Upload{Name: "CS plan.docx", Data: plan("4")})
	if err != nil {
		t.Fatal(err)
	}
	if report.Entries != 2 {
		t.Errorf("entries = %d, want 2", report.Entries)
	}

	cat, err := svc.Catalog(ctx, curriculum.ComputerScience)
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Entries) != 2 || cat.TotalCredits() != 8 {
		t.Errorf("catalog = %+v", cat)
	}

	if _, err := svc.Catalog(ctx, curriculum.Cybersecurity); !errors.Is(err, course.ErrCatalogNotFound) {
		t.Errorf("cybersecurity catalog: %v", err)
	}
}
