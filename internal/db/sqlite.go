// Package db provides SQLite storage for the weekly schedule.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// SQLite implements schedule.Backend using SQLite.
// Create and update reject classes that overlap another class of the same
// teacher or in the same room.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ schedule.Backend = (*SQLite)(nil)

// New opens the database at path and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// modernc sqlite connections do not share PRAGMA state.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const entryColumns = `
	e.id, e.day, e.start_time, e.end_time,
	c.id, c.name, c.level,
	t.id, t.name,
	r.id, r.name,
	e.student_count, e.recurring`

const entryJoins = `
	FROM entries e
	JOIN courses c ON c.id = e.course_id
	JOIN teachers t ON t.id = e.teacher_id
	JOIN rooms r ON r.id = e.room_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (schedule.Entry, error) {
	var (
		e          schedule.Entry
		day        int
		start, end string
		level      string
	)
	err := row.Scan(
		&e.ID, &day, &start, &end,
		&e.Course.ID, &e.Course.Name, &level,
		&e.Teacher.ID, &e.Teacher.Name,
		&e.Room.ID, &e.Room.Name,
		&e.StudentCount, &e.Recurring,
	)
	if err != nil {
		return schedule.Entry{}, err
	}
	e.Day = schedule.Weekday(day)
	e.Course.Level = schedule.Level(level)
	if e.Start, err = schedule.ParseClock(start); err != nil {
		return schedule.Entry{}, fmt.Errorf("parsing start time: %w", err)
	}
	if e.End, err = schedule.ParseClock(end); err != nil {
		return schedule.Entry{}, fmt.Errorf("parsing end time: %w", err)
	}
	return e, nil
}

// ListEntries implements schedule.Backend. Entries are ordered by day and start time.
func (s *SQLite) ListEntries(ctx context.Context, f schedule.Filter) ([]schedule.Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.TeacherID != "" {
		where = append(where, "e.teacher_id = ?")
		args = append(args, f.TeacherID)
	}
	if f.Date != nil {
		where = append(where, "e.day = ?")
		args = append(args, int(schedule.WeekdayOf(*f.Date)))
	}

	query := "SELECT " + entryColumns + entryJoins
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY e.day, e.start_time, e.created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []schedule.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

// GetEntry returns the entry with the given id.
func (s *SQLite) GetEntry(ctx context.Context, id string) (schedule.Entry, error) {
	return getEntry(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getEntry(ctx context.Context, q querier, id string) (schedule.Entry, error) {
	row := q.QueryRowContext(ctx, "SELECT "+entryColumns+entryJoins+" WHERE e.id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return schedule.Entry{}, fmt.Errorf("%w: %s", schedule.ErrNotFound, id)
	}
	if err != nil {
		return schedule.Entry{}, fmt.Errorf("querying entry: %w", err)
	}
	return e, nil
}

// CreateEntry implements schedule.Backend.
func (s *SQLite) CreateEntry(ctx context.Context, form schedule.FormData) (schedule.Entry, error) {
	if err := form.Validate(); err != nil {
		return schedule.Entry{}, err
	}

	id := uuid.NewString()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkRefsTx(ctx, tx, form); err != nil {
			return err
		}
		if err := checkConflictTx(ctx, tx, form, ""); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entries (
				id, day, start_time, end_time, course_id, teacher_id, room_id,
				student_count, recurring, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id, int(form.Day), form.Start.String(), form.End.String(),
			form.CourseID, form.TeacherID, form.RoomID,
			form.StudentCount, form.Recurring, s.now().UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.Entry{}, err
	}
	return s.GetEntry(ctx, id)
}

// UpdateEntry implements schedule.Backend.
func (s *SQLite) UpdateEntry(ctx context.Context, id string, form schedule.FormData) (schedule.Entry, error) {
	if err := form.Validate(); err != nil {
		return schedule.Entry{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkRefsTx(ctx, tx, form); err != nil {
			return err
		}
		if err := checkConflictTx(ctx, tx, form, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE entries
			SET day = ?, start_time = ?, end_time = ?, course_id = ?, teacher_id = ?,
			    room_id = ?, student_count = ?, recurring = ?
			WHERE id = ?
		`,
			int(form.Day), form.Start.String(), form.End.String(),
			form.CourseID, form.TeacherID, form.RoomID,
			form.StudentCount, form.Recurring, id,
		)
		if err != nil {
			return fmt.Errorf("updating entry: %w", err)
		}
		return requireOneRow(result, id)
	})
	if err != nil {
		return schedule.Entry{}, err
	}
	return s.GetEntry(ctx, id)
}

// DeleteEntry implements schedule.Backend.
func (s *SQLite) DeleteEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return requireOneRow(result, id)
}

func requireOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", schedule.ErrNotFound, id)
	}
	return nil
}

func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func checkRefsTx(ctx context.Context, tx *sql.Tx, form schedule.FormData) error {
	checks := []struct {
		table, id string
	}{
		{"courses", form.CourseID},
		{"teachers", form.TeacherID},
		{"rooms", form.RoomID},
	}
	for _, c := range checks {
		var n int
		err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table+" WHERE id = ?", c.id).Scan(&n)
		if err != nil {
			return fmt.Errorf("checking %s: %w", c.table, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s %q", schedule.ErrUnknownRef, strings.TrimSuffix(c.table, "s"), c.id)
		}
	}
	return nil
}

// checkConflictTx finds an entry overlapping form on the same day that
// shares its teacher or room. Two ranges overlap if start1 < end2 AND start2 < end1.
func checkConflictTx(ctx context.Context, tx *sql.Tx, form schedule.FormData, excludeID string) error {
	query := "SELECT " + entryColumns + entryJoins + `
		WHERE e.day = ?
		  AND e.start_time < ?
		  AND e.end_time > ?
		  AND (e.teacher_id = ? OR e.room_id = ?)
		  AND e.id != ?
		ORDER BY e.start_time
		LIMIT 1
	`
	row := tx.QueryRowContext(ctx, query,
		int(form.Day), form.End.String(), form.Start.String(),
		form.TeacherID, form.RoomID, excludeID,
	)
	existing, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking conflicts: %w", err)
	}

	resource := "room"
	if existing.Teacher.ID == form.TeacherID {
		resource = "teacher"
	}
	return &schedule.ConflictError{Resource: resource, With: existing}
}
