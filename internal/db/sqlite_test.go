package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/coursegrid/coursegrid/internal/config"
	"github.com/coursegrid/coursegrid/internal/course"
)

func newCourse(number, term, room string) *course.Course {
	return &course.Course{
		CourseNumber: number,
		Title:        "Title of " + number,
		StartTime:    "9:00 AM",
		EndTime:      "10:00 AM",
		MeetingDays:  "MWF",
		Room:         room,
		Term:         term,
		Status:       "Open",
		Capacity:     30,
	}
}

func TestCreateCourse(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := newCourse("CIS_180", "24/FA", "101")
	if err := repo.CreateCourse(ctx, c); err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected ID to be set after insert")
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := repo.GetCourse(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if got.CourseNumber != "CIS_180" || got.Room != "101" || got.Capacity != 30 || got.Term != "24/FA" {
		t.Errorf("GetCourse returned %+v", got)
	}
}

func TestCreateCourse_Duplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateCourse(ctx, newCourse("CIS_180", "24/FA", "101")); err != nil {
		t.Fatal(err)
	}
	err := repo.CreateCourse(ctx, newCourse("CIS_180", "24/FA", "202"))
	if !errors.Is(err, course.ErrDuplicateCourse) {
		t.Errorf("expected ErrDuplicateCourse, got %v", err)
	}
	if err := repo.CreateCourse(ctx, newCourse("CIS_180", "24/SP", "101")); err != nil {
		t.Errorf("same number in another term should be allowed: %v", err)
	}
}

func TestGetCourse_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	for _, id := range []string{"42", "abc", "", "-1"} {
		if _, err := repo.GetCourse(context.Background(), id); !errors.Is(err, course.ErrCourseNotFound) {
			t.Errorf("GetCourse(%q) error = %v, want ErrCourseNotFound", id, err)
		}
	}
}

func TestUpdateCourse(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := newCourse("CIS_180", "24/FA", "101")
	if err := repo.CreateCourse(ctx, c); err != nil {
		t.Fatal(err)
	}

	c.Room = "305"
	c.StartTime = "1:00 PM"
	c.EndTime = "2:15 PM"
	if err := repo.UpdateCourse(ctx, c); err != nil {
		t.Fatalf("UpdateCourse failed: %v", err)
	}

	got, err := repo.GetCourse(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Room != "305" || got.StartTime != "1:00 PM" {
		t.Errorf("update not persisted: %+v", got)
	}

	missing := newCourse("X", "24/FA", "")
	missing.ID = "999"
	if err := repo.UpdateCourse(ctx, missing); !errors.Is(err, course.ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestDeleteCourse(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := newCourse("MATH_140", "24/FA", "")
	if err := repo.CreateCourse(ctx, c); err != nil {
		t.Fatal(err)
	}

	deleted, err := repo.DeleteCourse(ctx, c.ID)
	if err != nil {
		t.Fatalf("DeleteCourse failed: %v", err)
	}
	if deleted.CourseNumber != "MATH_140" {
		t.Errorf("DeleteCourse returned %+v", deleted)
	}
	if _, err := repo.GetCourse(ctx, c.ID); !errors.Is(err, course.ErrCourseNotFound) {
		t.Errorf("course still present after delete: %v", err)
	}
	if _, err := repo.DeleteCourse(ctx, c.ID); !errors.Is(err, course.ErrCourseNotFound) {
		t.Errorf("second delete error = %v, want ErrCourseNotFound", err)
	}
}

func TestListCourses_Filter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed := []*course.Course{
		newCourse("CIS_180", "24/FA", "101"),
		newCourse("MATH_140", "24/FA", "202"),
		newCourse("CIS_182", "25/SP", "101"),
		newCourse("CISX180", "24/FA", "101"),
		newCourse("cis_181", "24/FA", ""),
	}
	for _, c := range seed {
		if err := repo.CreateCourse(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		filter course.Filter
		want   []string
	}{
		{name: "all in insertion order", filter: course.Filter{}, want: []string{"CIS_180", "MATH_140", "CIS_182", "CISX180", "cis_181"}},
		{name: "term", filter: course.Filter{TermSuffix: "SP"}, want: []string{"CIS_182"}},
		{name: "room", filter: course.Filter{Room: "101"}, want: []string{"CIS_180", "CIS_182", "CISX180"}},
		{name: "underscore is literal", filter: course.Filter{Prefixes: []string{"CIS_18"}}, want: []string{"CIS_180", "CIS_182", "cis_181"}},
		{name: "prefixes and term", filter: course.Filter{TermSuffix: "fa", Prefixes: []string{"MATH_140", "CIS_181"}}, want: []string{"MATH_140", "cis_181"}},
		{name: "no match", filter: course.Filter{Room: "999"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListCourses(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListCourses failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d courses, want %d", len(got), len(tt.want))
			}
			for i, c := range got {
				if c.CourseNumber != tt.want[i] {
					t.Errorf("course %d = %s, want %s", i, c.CourseNumber, tt.want[i])
				}
				if !tt.filter.Matches(c) {
					t.Errorf("%s returned but Filter.Matches disagrees", c.CourseNumber)
				}
			}
		})
	}
}

func TestUpsertCourses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := []*course.Course{
		newCourse("CIS_180", "24/FA", "101"),
		newCourse("MATH_140", "24/FA", "202"),
	}
	n, err := repo.UpsertCourses(ctx, first)
	if err != nil {
		t.Fatalf("UpsertCourses failed: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d rows, want 2", n)
	}
	originalID := first[0].ID

	second := []*course.Course{
		newCourse("CIS_180", "24/FA", "305"),
		newCourse("CIS_180", "24/SP", "101"),
	}
	if _, err := repo.UpsertCourses(ctx, second); err != nil {
		t.Fatalf("second UpsertCourses failed: %v", err)
	}
	if second[0].ID != originalID {
		t.Errorf("upsert changed the ID: %s -> %s", originalID, second[0].ID)
	}

	all, err := repo.ListCourses(ctx, course.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 courses after upsert, got %d", len(all))
	}
	if all[0].Room != "305" {
		t.Errorf("upsert did not replace the room: %+v", all[0])
	}
}

func TestCatalog(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetCatalog(ctx, "Computer Science"); !errors.Is(err, course.ErrCatalogNotFound) {
		t.Fatalf("expected ErrCatalogNotFound, got %v", err)
	}

	cat := &course.Catalog{CurriculumType: "Computer Science", Entries: []course.CatalogEntry{
		{Year: "FRESHMAN", Semester: "Fall", Credits: 3, Course: "CIS 180"},
		{Year: "FRESHMAN", Semester: "Fall", Credits: 4, Course: "MATH 140"},
	}}
	if err := repo.ReplaceCatalog(ctx, cat); err != nil {
		t.Fatalf("ReplaceCatalog failed: %v", err)
	}

	replacement := &course.Catalog{CurriculumType: "Computer Science", Entries: []course.CatalogEntry{
		{Year: "SOPHOMORE", Semester: "Spring", Credits: 3, Course: "CSC 223"},
	}}
	if err := repo.ReplaceCatalog(ctx, replacement); err != nil {
		t.Fatalf("second ReplaceCatalog failed: %v", err)
	}

	got, err := repo.GetCatalog(ctx, "Computer Science")
	if err != nil {
		t.Fatalf("GetCatalog failed: %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0].Course != "CSC 223" {
		t.Errorf("catalog was not replaced: %+v", got.Entries)
	}
}

func TestNew_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	repo, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateCourse(context.Background(), newCourse("CIS_180", "24/FA", "")); err != nil {
		t.Fatal(err)
	}
	_ = repo.Close()

	again, err := New(path)
	if err != nil {
		t.Fatalf("reopening with existing schema failed: %v", err)
	}
	defer func() { _ = again.Close() }()

	all, err := again.ListCourses(context.Background(), course.Filter{})
	if err != nil || len(all) != 1 {
		t.Errorf("ListCourses after reopen = %d, %v", len(all), err)
	}
}

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "courses.db")
	repo, err := Open(context.Background(), config.StorageConfig{Driver: "sqlite", DBPath: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = repo.Close() }()

	if _, ok := repo.(*SQLite); !ok {
		t.Errorf("expected *SQLite, got %T", repo)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.StorageConfig{Driver: "csv"}); err == nil {
		t.Error("expected an error for an unknown driver")
	}
}
