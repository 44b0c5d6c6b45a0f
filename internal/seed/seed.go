// Package seed loads YAML fixtures of teachers, courses, rooms and classes
// into a store, and dumps a store back to the same format.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

//go:embed default.yaml
var defaultFixture []byte

// Fixture is the on-disk seed format.
type Fixture struct {
	Teachers []schedule.Ref      `yaml:"teachers"`
	Courses  []schedule.Course   `yaml:"courses"`
	Rooms    []schedule.Room     `yaml:"rooms"`
	Classes  []schedule.FormData `yaml:"classes"`
}

// Store is what Apply writes to.
type Store interface {
	UpsertTeacher(ctx context.Context, t schedule.Ref) error
	UpsertCourse(ctx context.Context, c schedule.Course) error
	UpsertRoom(ctx context.Context, r schedule.Room) error
	CreateEntry(ctx context.Context, form schedule.FormData) (schedule.Entry, error)
}

// Result counts what Apply did.
type Result struct {
	Teachers int
	Courses  int
	Rooms    int
	Classes  int
	Skipped  int
}

func (r Result) String() string {
	return fmt.Sprintf("%d teachers, %d courses, %d rooms, %d classes (%d skipped)",
		r.Teachers, r.Courses, r.Rooms, r.Classes, r.Skipped)
}

// Default returns the built-in demo fixture.
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

// Load reads a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a fixture.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks ids are present and unique, and that every class
// references a known teacher, course and room.
func (f *Fixture) Validate() error {
	teachers, err := idSet("teacher", len(f.Teachers), func(i int) string { return f.Teachers[i].ID })
	if err != nil {
		return err
	}
	courses, err := idSet("course", len(f.Courses), func(i int) string { return f.Courses[i].ID })
	if err != nil {
		return err
	}
	rooms, err := idSet("room", len(f.Rooms), func(i int) string { return f.Rooms[i].ID })
	if err != nil {
		return err
	}

	for i, c := range f.Classes {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("class %d: %w", i+1, err)
		}
		switch {
		case !teachers[c.TeacherID]:
			return fmt.Errorf("class %d: teacher %q: %w", i+1, c.TeacherID, schedule.ErrUnknownRef)
		case !courses[c.CourseID]:
			return fmt.Errorf("class %d: course %q: %w", i+1, c.CourseID, schedule.ErrUnknownRef)
		case !rooms[c.RoomID]:
			return fmt.Errorf("class %d: room %q: %w", i+1, c.RoomID, schedule.ErrUnknownRef)
		}
	}
	return nil
}

func idSet(kind string, n int, id func(int) string) (map[string]bool, error) {
	set := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			return nil, fmt.Errorf("%s %d: missing id", kind, i+1)
		}
		if set[v] {
			return nil, fmt.Errorf("duplicate %s id %q", kind, v)
		}
		set[v] = true
	}
	return set, nil
}

// Apply writes the fixture to store. Lookups are upserted. Classes that
// clash with an existing class are skipped when skipConflicts is set,
// otherwise the first clash stops the run.
func Apply(ctx context.Context, store Store, f *Fixture, skipConflicts bool) (Result, error) {
	var res Result
	for _, t := range f.Teachers {
		if err := store.UpsertTeacher(ctx, t); err != nil {
			return res, err
		}
		res.Teachers++
	}
	for _, c := range f.Courses {
		if err := store.UpsertCourse(ctx, c); err != nil {
			return res, err
		}
		res.Courses++
	}
	for _, r := range f.Rooms {
		if err := store.UpsertRoom(ctx, r); err != nil {
			return res, err
		}
		res.Rooms++
	}
	for i, c := range f.Classes {
		if _, err := store.CreateEntry(ctx, c); err != nil {
			if skipConflicts && errors.Is(err, schedule.ErrConflict) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("class %d: %w", i+1, err)
		}
		res.Classes++
	}
	return res, nil
}

// Dump reads everything visible through b into a fixture.
func Dump(ctx context.Context, b schedule.Backend) (*Fixture, error) {
	lookups, err := schedule.LoadLookups(ctx, b)
	if err != nil {
		return nil, err
	}
	entries, err := b.ListEntries(ctx, schedule.Filter{})
	if err != nil {
		return nil, err
	}
	f := &Fixture{
		Teachers: lookups.Teachers,
		Courses:  lookups.Courses,
		Rooms:    lookups.Rooms,
		Classes:  make([]schedule.FormData, 0, len(entries)),
	}
	for _, e := range entries {
		f.Classes = append(f.Classes, e.Form())
	}
	return f, nil
}

// Marshal encodes f as YAML.
func (f *Fixture) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding fixture: %w", err)
	}
	return data, nil
}
