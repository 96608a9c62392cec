// Package db provides SQLite and MongoDB storage implementations.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/coursegrid/coursegrid/internal/course"
)

// SQLite implements course.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const courseColumns = `
	id, course_number, title, academic_level, capacity, number_of_students,
	status, instructor, start_time, end_time, meeting_days, building, room,
	fee, min_credits, max_credits, section, term, seq_no, schools,
	academic_level_1, created_at, updated_at`

// courseValues returns every column except id, in courseColumns order.
func courseValues(c *course.Course) []any {
	return []any{
		c.CourseNumber, c.Title, c.AcademicLevel, c.Capacity, c.NumberOfStudents,
		c.Status, c.Instructor, c.StartTime, c.EndTime, c.MeetingDays, c.Building, c.Room,
		c.Fee, c.MinCredits, c.MaxCredits, c.Section, c.Term, c.SeqNo, c.Schools,
		c.AcademicLevel1, c.CreatedAt.UTC().Format(time.RFC3339), c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateCourse adds a new course.
// Returns ErrDuplicateCourse if the course number already exists for the term.
func (s *SQLite) CreateCourse(ctx context.Context, c *course.Course) error {
	stamp(c, true)

	query := `
		INSERT INTO courses (
			course_number, title, academic_level, capacity, number_of_students,
			status, instructor, start_time, end_time, meeting_days, building, room,
			fee, min_credits, max_credits, section, term, seq_no, schools,
			academic_level_1, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query, courseValues(c)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s", course.ErrDuplicateCourse, c.CourseNumber, c.Term)
		}
		return fmt.Errorf("inserting course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	c.ID = strconv.FormatInt(id, 10)

	return nil
}

// GetCourse retrieves a course by ID.
func (s *SQLite) GetCourse(ctx context.Context, id string) (*course.Course, error) {
	rowID, ok := parseID(id)
	if !ok {
		return nil, course.ErrCourseNotFound
	}

	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`
	c, err := scanCourse(s.db.QueryRowContext(ctx, query, rowID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, course.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying course: %w", err)
	}
	return c, nil
}

// UpdateCourse replaces an existing course.
func (s *SQLite) UpdateCourse(ctx context.Context, c *course.Course) error {
	rowID, ok := parseID(c.ID)
	if !ok {
		return course.ErrCourseNotFound
	}
	stamp(c, false)

	query := `
		UPDATE courses SET
			course_number = ?, title = ?, academic_level = ?, capacity = ?, number_of_students = ?,
			status = ?, instructor = ?, start_time = ?, end_time = ?, meeting_days = ?, building = ?, room = ?,
			fee = ?, min_credits = ?, max_credits = ?, section = ?, term = ?, seq_no = ?, schools = ?,
			academic_level_1 = ?, updated_at = ?
		WHERE id = ?
	`
	values := courseValues(c)
	// drop created_at, keep updated_at
	args := append(values[:len(values)-2:len(values)-2], values[len(values)-1], rowID)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s", course.ErrDuplicateCourse, c.CourseNumber, c.Term)
		}
		return fmt.Errorf("updating course: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return course.ErrCourseNotFound
	}
	return nil
}

// DeleteCourse removes a course and returns its last state.
func (s *SQLite) DeleteCourse(ctx context.Context, id string) (*course.Course, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rowID, ok := parseID(id)
	if !ok {
		return nil, course.ErrCourseNotFound
	}

	c, err := scanCourse(tx.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, rowID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, course.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying course: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, rowID); err != nil {
		return nil, fmt.Errorf("deleting course: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return c, nil
}

// ListCourses returns courses matching the filter in insertion order.
func (s *SQLite) ListCourses(ctx context.Context, f course.Filter) ([]*course.Course, error) {
	var (
		where []string
		args  []any
	)
	if f.TermSuffix != "" {
		where = append(where, `term LIKE ? ESCAPE '\'`)
		args = append(args, "%/"+escapeLike(f.TermSuffix))
	}
	if f.Room != "" {
		where = append(where, `room = ?`)
		args = append(args, f.Room)
	}
	if len(f.Prefixes) > 0 {
		ors := make([]string, len(f.Prefixes))
		for i, p := range f.Prefixes {
			ors[i] = `course_number LIKE ? ESCAPE '\'`
			args = append(args, escapeLike(p)+"%")
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}

	query := `SELECT ` + courseColumns + ` FROM courses`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var courses []*course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}
	return courses, nil
}

// UpsertCourses inserts or replaces courses keyed on course number and term
// in a single transaction.
func (s *SQLite) UpsertCourses(ctx context.Context, courses []*course.Course) (int, error) {
	if len(courses) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO courses (
			course_number, title, academic_level, capacity, number_of_students,
			status, instructor, start_time, end_time, meeting_days, building, room,
			fee, min_credits, max_credits, section, term, seq_no, schools,
			academic_level_1, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(course_number, term) DO UPDATE SET
			title = excluded.title,
			academic_level = excluded.academic_level,
			capacity = excluded.capacity,
			number_of_students = excluded.number_of_students,
			status = excluded.status,
			instructor = excluded.instructor,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			meeting_days = excluded.meeting_days,
			building = excluded.building,
			room = excluded.room,
			fee = excluded.fee,
			min_credits = excluded.min_credits,
			max_credits = excluded.max_credits,
			section = excluded.section,
			seq_no = excluded.seq_no,
			schools = excluded.schools,
			academic_level_1 = excluded.academic_level_1,
			updated_at = excluded.updated_at
		RETURNING id
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range courses {
		stamp(c, true)
		var id int64
		if err := stmt.QueryRowContext(ctx, courseValues(c)...).Scan(&id); err != nil {
			return 0, fmt.Errorf("upserting course %s: %w", c.CourseNumber, err)
		}
		c.ID = strconv.FormatInt(id, 10)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return len(courses), nil
}

// ReplaceCatalog stores a catalog, replacing any previous one of its type.
func (s *SQLite) ReplaceCatalog(ctx context.Context, cat *course.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_entries WHERE curriculum_type = ?`, cat.CurriculumType); err != nil {
		return fmt.Errorf("deleting catalog entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM catalogs WHERE curriculum_type = ?`, cat.CurriculumType); err != nil {
		return fmt.Errorf("deleting catalog: %w", err)
	}

	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalogs (curriculum_type, created_at) VALUES (?, ?)`,
		cat.CurriculumType, cat.CreatedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting catalog: %w", err)
	}

	for i := range cat.Entries {
		e := &cat.Entries[i]
		e.Position = i
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_entries (curriculum_type, position, year, semester, credits, course) VALUES (?, ?, ?, ?, ?, ?)`,
			cat.CurriculumType, e.Position, e.Year, e.Semester, e.Credits, e.Course,
		); err != nil {
			return fmt.Errorf("inserting catalog entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetCatalog retrieves the catalog of a curriculum type.
func (s *SQLite) GetCatalog(ctx context.Context, curriculumType string) (*course.Catalog, error) {
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM catalogs WHERE curriculum_type = ?`, curriculumType,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, course.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}

	cat := &course.Catalog{CurriculumType: curriculumType}
	if cat.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, year, semester, credits, course
		FROM catalog_entries
		WHERE curriculum_type = ?
		ORDER BY position
	`, curriculumType)
	if err != nil {
		return nil, fmt.Errorf("querying catalog entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var e course.CatalogEntry
		if err := rows.Scan(&e.Position, &e.Year, &e.Semester, &e.Credits, &e.Course); err != nil {
			return nil, fmt.Errorf("scanning catalog entry: %w", err)
		}
		cat.Entries = append(cat.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog entries: %w", err)
	}
	return cat, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*course.Course, error) {
	var (
		c                    course.Course
		id                   int64
		createdAt, updatedAt string
	)
	err := row.Scan(
		&id, &c.CourseNumber, &c.Title, &c.AcademicLevel, &c.Capacity, &c.NumberOfStudents,
		&c.Status, &c.Instructor, &c.StartTime, &c.EndTime, &c.MeetingDays, &c.Building, &c.Room,
		&c.Fee, &c.MinCredits, &c.MaxCredits, &c.Section, &c.Term, &c.SeqNo, &c.Schools,
		&c.AcademicLevel1, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ID = strconv.FormatInt(id, 10)

	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}
	return &c, nil
}

// parseTimestamp accepts RFC3339 and the CURRENT_TIMESTAMP default format.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateTime, s)
}

func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil && n > 0
}

func stamp(c *course.Course, created bool) {
	now := time.Now()
	if created && c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
