package seed

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CenJi03/school-system-sub001/internal/db"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

func newStore(t *testing.T) *db.SQLite {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestDefaultFixture(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(f.Teachers) == 0 || len(f.Courses) == 0 || len(f.Rooms) == 0 || len(f.Classes) == 0 {
		t.Fatalf("default fixture is incomplete: %+v", f)
	}
	first := f.Classes[0]
	if first.Day != schedule.Monday || first.Start != schedule.At(9) || first.End != schedule.At(11) {
		t.Errorf("first class = %s %s-%s, want Monday 09:00-11:00", first.Day, first.Start, first.End)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "bad time",
			yaml: `classes: [{course_id: c, teacher_id: t, room_id: r, day: Monday, start_time: "9am", end_time: "10:00"}]`,
			want: "parsing fixture",
		},
		{
			name: "bad day",
			yaml: `classes: [{course_id: c, teacher_id: t, room_id: r, day: Someday, start_time: "09:00", end_time: "10:00"}]`,
			want: "parsing fixture",
		},
		{
			name: "duplicate teacher",
			yaml: "teachers: [{id: t, name: A}, {id: t, name: B}]",
			want: "duplicate teacher",
		},
		{
			name: "unknown room",
			yaml: `
teachers: [{id: t, name: A}]
courses: [{id: c, name: C}]
classes: [{course_id: c, teacher_id: t, room_id: r, day: Monday, start_time: "09:00", end_time: "10:00"}]`,
			want: "room",
		},
		{
			name: "end before start",
			yaml: `
teachers: [{id: t, name: A}]
courses: [{id: c, name: C}]
rooms: [{id: r, name: R}]
classes: [{course_id: c, teacher_id: t, room_id: r, day: Monday, start_time: "10:00", end_time: "09:00"}]`,
			want: "class 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestApplyAndDump(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	f, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	res, err := Apply(ctx, store, f, false)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Classes != len(f.Classes) || res.Skipped != 0 {
		t.Errorf("result = %s", res)
	}

	entries, err := store.ListEntries(ctx, schedule.Filter{})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != len(f.Classes) {
		t.Fatalf("stored %d entries, want %d", len(entries), len(f.Classes))
	}

	dumped, err := Dump(ctx, store)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	data, err := dumped.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "09:00") {
		t.Errorf("dump does not carry clock text:\n%s", data)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("dump does not parse back: %v", err)
	}
	if len(again.Classes) != len(f.Classes) {
		t.Errorf("round trip classes = %d, want %d", len(again.Classes), len(f.Classes))
	}
}

func TestApplyConflicts(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	f, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if _, err := Apply(ctx, store, f, false); err != nil {
		t.Fatalf("first Apply: %v", err)
	}

	_, err = Apply(ctx, store, f, false)
	if !errors.Is(err, schedule.ErrConflict) {
		t.Fatalf("second Apply error = %v, want ErrConflict", err)
	}

	res, err := Apply(ctx, store, f, true)
	if err != nil {
		t.Fatalf("Apply with skip: %v", err)
	}
	if res.Classes != 0 || res.Skipped != len(f.Classes) {
		t.Errorf("result = %s, want all skipped", res)
	}
}
