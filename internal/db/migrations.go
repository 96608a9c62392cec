package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS courses (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			course_number      TEXT NOT NULL,
			title              TEXT NOT NULL DEFAULT '',
			academic_level     TEXT NOT NULL DEFAULT '',
			capacity           INTEGER NOT NULL DEFAULT 0,
			number_of_students INTEGER NOT NULL DEFAULT 0,
			status             TEXT NOT NULL DEFAULT '',
			instructor         TEXT NOT NULL DEFAULT '',
			start_time         TEXT NOT NULL DEFAULT '',
			end_time           TEXT NOT NULL DEFAULT '',
			meeting_days       TEXT NOT NULL DEFAULT '',
			building           TEXT NOT NULL DEFAULT '',
			room               TEXT NOT NULL DEFAULT '',
			fee                TEXT NOT NULL DEFAULT '',
			min_credits        INTEGER NOT NULL DEFAULT 0,
			max_credits        INTEGER NOT NULL DEFAULT 0,
			section            TEXT NOT NULL DEFAULT '',
			term               TEXT NOT NULL DEFAULT '',
			seq_no             INTEGER NOT NULL DEFAULT 0,
			schools            TEXT NOT NULL DEFAULT '',
			academic_level_1   TEXT NOT NULL DEFAULT '',
			created_at         DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at         DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_courses_number_term ON courses(course_number, term);
		CREATE INDEX IF NOT EXISTS idx_courses_room ON courses(room);

		CREATE TABLE IF NOT EXISTS catalogs (
			curriculum_type TEXT PRIMARY KEY,
			created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS catalog_entries (
			curriculum_type TEXT NOT NULL REFERENCES catalogs(curriculum_type) ON DELETE CASCADE,
			position        INTEGER NOT NULL,
			year            TEXT NOT NULL,
			semester        TEXT NOT NULL,
			credits         INTEGER NOT NULL,
			course          TEXT NOT NULL,
			PRIMARY KEY (curriculum_type, position)
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating course tables: %w", err)
	}

	return nil
}
