package schedule

import "context"

// Backend is the remote collaborator holding the authoritative schedule.
type Backend interface {
	// ListEntries returns all entries passing the filter.
	ListEntries(ctx context.Context, f Filter) ([]Entry, error)

	// CreateEntry stores a new entry and returns it with its assigned id.
	CreateEntry(ctx context.Context, form FormData) (Entry, error)

	// UpdateEntry replaces the entry with the given id.
	// Returns ErrNotFound if it does not exist.
	UpdateEntry(ctx context.Context, id string, form FormData) (Entry, error)

	// DeleteEntry removes the entry with the given id.
	// Returns ErrNotFound if it does not exist.
	DeleteEntry(ctx context.Context, id string) error

	// ListTeachers returns the teachers available for scheduling.
	ListTeachers(ctx context.Context) ([]Ref, error)

	// ListCourses returns the active courses.
	ListCourses(ctx context.Context) ([]Course, error)

	// ListRooms returns all rooms.
	ListRooms(ctx context.Context) ([]Room, error)
}

// LoadLookups fetches all three option lists from the backend.
func LoadLookups(ctx context.Context, b Backend) (Lookups, error) {
	var (
		l   Lookups
		err error
	)
	if l.Teachers, err = b.ListTeachers(ctx); err != nil {
		return Lookups{}, err
	}
	if l.Courses, err = b.ListCourses(ctx); err != nil {
		return Lookups{}, err
	}
	if l.Rooms, err = b.ListRooms(ctx); err != nil {
		return Lookups{}, err
	}
	return l, nil
}
