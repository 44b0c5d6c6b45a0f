package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS teachers (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS courses (
			id     TEXT PRIMARY KEY,
			name   TEXT NOT NULL,
			level  TEXT NOT NULL DEFAULT 'beginner' CHECK(level IN ('beginner', 'intermediate', 'advanced')),
			status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'archived'))
		);

		CREATE TABLE IF NOT EXISTS rooms (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			capacity INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS entries (
			id            TEXT PRIMARY KEY,
			day           INTEGER NOT NULL CHECK(day BETWEEN 0 AND 6),
			start_time    TEXT NOT NULL,
			end_time      TEXT NOT NULL,
			course_id     TEXT NOT NULL REFERENCES courses(id),
			teacher_id    TEXT NOT NULL REFERENCES teachers(id),
			room_id       TEXT NOT NULL REFERENCES rooms(id),
			student_count INTEGER NOT NULL DEFAULT 0,
			recurring     INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_entries_day ON entries(day, start_time);
		CREATE INDEX IF NOT EXISTS idx_entries_teacher ON entries(teacher_id);
		CREATE INDEX IF NOT EXISTS idx_entries_room ON entries(room_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schedule tables: %w", err)
	}

	return nil
}
