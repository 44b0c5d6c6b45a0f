package schedsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

type fakeBackend struct {
	mu        sync.Mutex
	entries   []schedule.Entry
	nextID    int
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	lookupErr error

	// failTeacher makes ListEntries fail for filters on this teacher id.
	failTeacher string
	calls     map[string]int

	// listHook runs before ListEntries returns and may block.
	listHook func(f schedule.Filter)
}

func newFakeBackend(entries ...schedule.Entry) *fakeBackend {
	return &fakeBackend{entries: entries, calls: map[string]int{}}
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) ListEntries(ctx context.Context, filter schedule.Filter) ([]schedule.Entry, error) {
	f.mu.Lock()
	f.calls["list"]++
	hook := f.listHook
	err := f.listErr
	if f.failTeacher != "" && filter.TeacherID == f.failTeacher {
		err = fmt.Errorf("listing entries for %s: backend unavailable", filter.TeacherID)
	}
	out := filter.Apply(append([]schedule.Entry(nil), f.entries...))
	f.mu.Unlock()

	if hook != nil {
		hook(filter)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeBackend) CreateEntry(ctx context.Context, form schedule.FormData) (schedule.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if f.createErr != nil {
		return schedule.Entry{}, f.createErr
	}
	f.nextID++
	e := entryFromForm(fmt.Sprintf("n%d", f.nextID), form)
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeBackend) UpdateEntry(ctx context.Context, id string, form schedule.FormData) (schedule.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if f.updateErr != nil {
		return schedule.Entry{}, f.updateErr
	}
	for i, e := range f.entries {
		if e.ID == id {
			f.entries[i] = entryFromForm(id, form)
			return f.entries[i], nil
		}
	}
	return schedule.Entry{}, schedule.ErrNotFound
}

func (f *fakeBackend) DeleteEntry(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return schedule.ErrNotFound
}

func (f *fakeBackend) ListTeachers(ctx context.Context) ([]schedule.Ref, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return []schedule.Ref{{ID: "t1", Name: "Ana"}}, nil
}

func (f *fakeBackend) ListCourses(ctx context.Context) ([]schedule.Course, error) {
	return []schedule.Course{{ID: "c1", Name: "English A1", Level: schedule.LevelBeginner}}, nil
}

func (f *fakeBackend) ListRooms(ctx context.Context) ([]schedule.Room, error) {
	return []schedule.Room{{ID: "r1", Name: "Room 1", Capacity: 12}}, nil
}

func entryFromForm(id string, form schedule.FormData) schedule.Entry {
	return schedule.Entry{
		ID:           id,
		Day:          form.Day,
		Start:        form.Start,
		End:          form.End,
		Course:       schedule.Course{ID: form.CourseID},
		Teacher:      schedule.Ref{ID: form.TeacherID},
		Room:         schedule.Ref{ID: form.RoomID},
		StudentCount: form.StudentCount,
		Recurring:    form.Recurring,
	}
}

func validForm(day schedule.Weekday, start, end int) schedule.FormData {
	return schedule.FormData{
		CourseID:  "c1",
		TeacherID: "t1",
		RoomID:    "r1",
		Day:       day,
		Start:     schedule.At(start),
		End:       schedule.At(end),
		Recurring: true,
	}
}
