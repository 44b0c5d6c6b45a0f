package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	for _, tc := range []schedule.Ref{{ID: "t1", Name: "Ana"}, {ID: "t2", Name: "Ben"}} {
		if err := store.UpsertTeacher(ctx, tc); err != nil {
			t.Fatalf("UpsertTeacher: %v", err)
		}
	}
	for _, c := range []schedule.Course{
		{ID: "c1", Name: "English A1", Level: schedule.LevelBeginner},
		{ID: "c2", Name: "English C1", Level: schedule.LevelAdvanced},
	} {
		if err := store.UpsertCourse(ctx, c); err != nil {
			t.Fatalf("UpsertCourse: %v", err)
		}
	}
	for _, r := range []schedule.Room{{ID: "r1", Name: "Room 1", Capacity: 12}, {ID: "r2", Name: "Room 2", Capacity: 20}} {
		if err := store.UpsertRoom(ctx, r); err != nil {
			t.Fatalf("UpsertRoom: %v", err)
		}
	}
	return store
}

func form(course, teacher, room string, day schedule.Weekday, start, end int) schedule.FormData {
	return schedule.FormData{
		CourseID:  course,
		TeacherID: teacher,
		RoomID:    room,
		Day:       day,
		Start:     schedule.At(start),
		End:       schedule.At(end),
		Recurring: true,
	}
}

func TestCreateEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e, err := store.CreateEntry(ctx, form("c1", "t1", "r1", schedule.Monday, 9, 11))
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if e.ID == "" {
		t.Error("expected ID to be set after insert")
	}
	if e.Course.Name != "English A1" || e.Teacher.Name != "Ana" || e.Room.Name != "Room 1" {
		t.Errorf("labels not resolved: %+v", e)
	}
	if e.Start != schedule.At(9) || e.End != schedule.At(11) || !e.Recurring {
		t.Errorf("entry = %+v", e)
	}
}

func TestCreateEntry_Invalid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateEntry(ctx, form("c1", "t1", "r1", schedule.Monday, 11, 9))
	if !errors.Is(err, schedule.ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}

	_, err = store.CreateEntry(ctx, form("nope", "t1", "r1", schedule.Monday, 9, 10))
	if !errors.Is(err, schedule.ErrUnknownRef) {
		t.Errorf("expected ErrUnknownRef, got %v", err)
	}
}

func TestCreateEntry_Conflicts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateEntry(ctx, form("c1", "t1", "r1", schedule.Tuesday, 10, 12)); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	tests := []struct {
		name         string
		form         schedule.FormData
		wantResource string
	}{
		{name: "same teacher", form: form("c2", "t1", "r2", schedule.Tuesday, 11, 13), wantResource: "teacher"},
		{name: "same room", form: form("c2", "t2", "r1", schedule.Tuesday, 9, 11), wantResource: "room"},
		{name: "adjacent ok", form: form("c2", "t1", "r1", schedule.Tuesday, 12, 13)},
		{name: "other day ok", form: form("c2", "t1", "r1", schedule.Wednesday, 10, 12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateEntry(ctx, tt.form)
			if tt.wantResource == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ce *schedule.ConflictError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConflictError, got %v", err)
			}
			if ce.Resource != tt.wantResource {
				t.Errorf("Resource = %q, want %q", ce.Resource, tt.wantResource)
			}
			if !errors.Is(err, schedule.ErrConflict) {
				t.Error("conflict should wrap ErrConflict")
			}
		})
	}
}

func TestListEntries_Filter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, store, form("c1", "t1", "r1", schedule.Wednesday, 14, 15))
	mustCreate(t, store, form("c1", "t1", "r1", schedule.Monday, 9, 10))
	mustCreate(t, store, form("c2", "t2", "r2", schedule.Monday, 9, 10))

	all, err := store.ListEntries(ctx, schedule.Filter{})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Day != schedule.Monday || all[2].Day != schedule.Wednesday {
		t.Errorf("entries not ordered by day: %v %v %v", all[0].Day, all[1].Day, all[2].Day)
	}

	byTeacher, _ := store.ListEntries(ctx, schedule.Filter{TeacherID: "t2"})
	if len(byTeacher) != 1 || byTeacher[0].Teacher.ID != "t2" {
		t.Errorf("teacher filter = %+v", byTeacher)
	}

	wed := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)
	byDate, _ := store.ListEntries(ctx, schedule.Filter{Date: &wed})
	if len(byDate) != 1 || byDate[0].Day != schedule.Wednesday {
		t.Errorf("date filter = %+v", byDate)
	}
}

func TestUpdateEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := mustCreate(t, store, form("c1", "t1", "r1", schedule.Monday, 9, 10))
	mustCreate(t, store, form("c2", "t2", "r2", schedule.Monday, 11, 12))

	// Growing into its own old range never conflicts with itself.
	updated, err := store.UpdateEntry(ctx, e.ID, form("c1", "t1", "r1", schedule.Monday, 9, 11))
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if updated.End != schedule.At(11) {
		t.Errorf("End = %s, want 11:00", updated.End)
	}

	_, err = store.UpdateEntry(ctx, e.ID, form("c1", "t1", "r2", schedule.Monday, 9, 12))
	if !errors.Is(err, schedule.ErrConflict) {
		t.Errorf("expected room conflict, got %v", err)
	}

	_, err = store.UpdateEntry(ctx, "missing", form("c1", "t1", "r1", schedule.Friday, 9, 10))
	if !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := mustCreate(t, store, form("c1", "t1", "r1", schedule.Monday, 9, 10))
	if err := store.DeleteEntry(ctx, e.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if _, err := store.GetEntry(ctx, e.ID); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteEntry(ctx, e.ID); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestLookups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	teachers, err := store.ListTeachers(ctx)
	if err != nil || len(teachers) != 2 {
		t.Fatalf("ListTeachers = %v, %v", teachers, err)
	}
	rooms, err := store.ListRooms(ctx)
	if err != nil || len(rooms) != 2 || rooms[1].Capacity != 20 {
		t.Fatalf("ListRooms = %v, %v", rooms, err)
	}

	if err := store.ArchiveCourse(ctx, "c2"); err != nil {
		t.Fatalf("ArchiveCourse: %v", err)
	}
	courses, err := store.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != "c1" {
		t.Errorf("active courses = %+v", courses)
	}
}

func mustCreate(t *testing.T, store *SQLite, f schedule.FormData) schedule.Entry {
	t.Helper()
	e, err := store.CreateEntry(context.Background(), f)
	if err != nil {
		t.Fatalf("CreateEntry(%+v): %v", f, err)
	}
	return e
}
