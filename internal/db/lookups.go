package db

import (
	"context"
	"fmt"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// ListTeachers implements schedule.Backend.
func (s *SQLite) ListTeachers(ctx context.Context) ([]schedule.Ref, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM teachers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying teachers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schedule.Ref
	for rows.Next() {
		var r schedule.Ref
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scanning teacher: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListCourses implements schedule.Backend. Only active courses are returned.
func (s *SQLite) ListCourses(ctx context.Context) ([]schedule.Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, level FROM courses WHERE status = 'active' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schedule.Course
	for rows.Next() {
		var (
			c     schedule.Course
			level string
		)
		if err := rows.Scan(&c.ID, &c.Name, &level); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		c.Level = schedule.Level(level)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListRooms implements schedule.Backend.
func (s *SQLite) ListRooms(ctx context.Context) ([]schedule.Room, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, capacity FROM rooms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schedule.Room
	for rows.Next() {
		var r schedule.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Capacity); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertTeacher inserts or renames a teacher.
func (s *SQLite) UpsertTeacher(ctx context.Context, t schedule.Ref) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teachers (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, t.ID, t.Name)
	if err != nil {
		return fmt.Errorf("upserting teacher %s: %w", t.ID, err)
	}
	return nil
}

// UpsertCourse inserts or updates an active course.
func (s *SQLite) UpsertCourse(ctx context.Context, c schedule.Course) error {
	level := c.Level
	if level == "" {
		level = schedule.LevelBeginner
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (id, name, level, status) VALUES (?, ?, ?, 'active')
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, level = excluded.level, status = 'active'
	`, c.ID, c.Name, string(level))
	if err != nil {
		return fmt.Errorf("upserting course %s: %w", c.ID, err)
	}
	return nil
}

// ArchiveCourse hides a course from ListCourses without touching its entries.
func (s *SQLite) ArchiveCourse(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE courses SET status = 'archived' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("archiving course %s: %w", id, err)
	}
	return nil
}

// UpsertRoom inserts or updates a room.
func (s *SQLite) UpsertRoom(ctx context.Context, r schedule.Room) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, capacity) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, capacity = excluded.capacity
	`, r.ID, r.Name, r.Capacity)
	if err != nil {
		return fmt.Errorf("upserting room %s: %w", r.ID, err)
	}
	return nil
}
