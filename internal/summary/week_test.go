package summary

import (
	"context"
	"strings"
	"testing"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

func class(id, teacher, room string, day schedule.Weekday, start, end, students int) schedule.Entry {
	return schedule.Entry{
		ID:           id,
		Day:          day,
		Start:        schedule.At(start),
		End:          schedule.At(end),
		Course:       schedule.Course{ID: "c-" + id, Name: "Course " + id, Level: schedule.LevelBeginner},
		Teacher:      schedule.Ref{ID: teacher, Name: strings.ToUpper(teacher)},
		Room:         schedule.Ref{ID: room, Name: "Room " + room},
		StudentCount: students,
	}
}

func TestSummarize(t *testing.T) {
	entries := []schedule.Entry{
		class("a", "ana", "r1", schedule.Monday, 9, 11, 10),
		class("b", "ana", "r2", schedule.Tuesday, 9, 10, 4),
		class("c", "ben", "r1", schedule.Tuesday, 10, 13, 20),
		class("d", "ben", "r2", schedule.Tuesday, 12, 14, 5), // overlaps c for ben
	}
	lookups := schedule.Lookups{Rooms: []schedule.Room{
		{ID: "r1", Name: "Room r1", Capacity: 12},
		{ID: "r2", Name: "Room r2", Capacity: 8},
	}}

	r := Summarize(entries, lookups)

	if r.Classes != 4 {
		t.Errorf("classes = %d, want 4", r.Classes)
	}
	if r.Minutes != 8*60 {
		t.Errorf("minutes = %d, want %d", r.Minutes, 8*60)
	}
	if r.BusiestDay != schedule.Tuesday {
		t.Errorf("busiest day = %s, want Tuesday", r.BusiestDay)
	}
	if r.ByDay[schedule.Tuesday] != 6*60 {
		t.Errorf("tuesday minutes = %d, want 360", r.ByDay[schedule.Tuesday])
	}

	if len(r.ByTeacher) != 2 || r.ByTeacher[0].Ref.ID != "ben" || r.ByTeacher[0].Hours() != 5 {
		t.Errorf("by teacher = %+v, want ben first with 5h", r.ByTeacher)
	}
	if r.ByTeacher[1].Classes != 2 {
		t.Errorf("ana classes = %d, want 2", r.ByTeacher[1].Classes)
	}

	if len(r.Clashes) != 1 {
		t.Fatalf("clashes = %d, want 1", len(r.Clashes))
	}
	if c := r.Clashes[0]; c.Resource != "teacher" || c.First.ID != "c" || c.Second.ID != "d" {
		t.Errorf("clash = %+v", c)
	}

	if len(r.OverCapacity) != 1 || r.OverCapacity[0].Entry.ID != "c" || r.OverCapacity[0].Capacity != 12 {
		t.Errorf("over capacity = %+v, want class c in a 12 seat room", r.OverCapacity)
	}
}

func TestFormatWeek(t *testing.T) {
	entries := []schedule.Entry{
		class("b", "ana", "r1", schedule.Wednesday, 14, 15, 3),
		class("a", "ana", "r1", schedule.Monday, 9, 11, 10),
	}
	lookups := schedule.Lookups{Rooms: []schedule.Room{{ID: "r1", Capacity: 12}}}

	got := FormatWeek(entries, lookups)
	mon := strings.Index(got, "Monday")
	wed := strings.Index(got, "Wednesday")
	if mon == -1 || wed == -1 || mon > wed {
		t.Fatalf("days out of order:\n%s", got)
	}
	if !strings.Contains(got, "09:00-11:00  Course a (beginner)") {
		t.Errorf("missing class line:\n%s", got)
	}
	if !strings.Contains(got, "students: 10/12") {
		t.Errorf("missing capacity:\n%s", got)
	}
}

type listOnly struct {
	schedule.Backend
	entries []schedule.Entry
}

func (l listOnly) ListEntries(context.Context, schedule.Filter) ([]schedule.Entry, error) {
	return l.entries, nil
}
func (listOnly) ListTeachers(context.Context) ([]schedule.Ref, error) { return nil, nil }
func (listOnly) ListCourses(context.Context) ([]schedule.Course, error) { return nil, nil }
func (listOnly) ListRooms(context.Context) ([]schedule.Room, error) { return nil, nil }

func TestBuildWithoutInsight(t *testing.T) {
	b := listOnly{entries: []schedule.Entry{class("a", "ana", "r1", schedule.Friday, 18, 20, 6)}}
	r, err := Build(context.Background(), b, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.Classes != 1 || r.BusiestDay != schedule.Friday || r.Insight != nil {
		t.Errorf("report = %+v", r)
	}

	if _, err := Build(context.Background(), b, Options{IncludeInsight: true}); err == nil {
		t.Error("expected error when insight is requested without a provider")
	}
}
