package schedule

import "fmt"

// ConflictError describes a clash between a candidate class and an existing entry
// sharing the same teacher or room.
type ConflictError struct {
	Resource string // "teacher" or "room"
	With     Entry
}

func (e *ConflictError) Error() string {
	name := e.With.Teacher.Name
	if e.Resource == "room" {
		name = e.With.Room.Name
	}
	return fmt.Sprintf("%s %s already booked for %q on %s (%s)",
		e.Resource, name, e.With.Course.Name, e.With.Day, e.With.TimeRange())
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// FindConflicts returns every entry that shares a teacher or a room with the
// candidate on the same day and overlaps it in time. The entry with id
// excludeID (the one being edited) is ignored.
func FindConflicts(entries []Entry, candidate FormData, excludeID string) []*ConflictError {
	var out []*ConflictError
	for _, e := range entries {
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if e.Day != candidate.Day || !Overlaps(e.Start, e.End, candidate.Start, candidate.End) {
			continue
		}
		if candidate.TeacherID != "" && e.Teacher.ID == candidate.TeacherID {
			out = append(out, &ConflictError{Resource: "teacher", With: e})
			continue
		}
		if candidate.RoomID != "" && e.Room.ID == candidate.RoomID {
			out = append(out, &ConflictError{Resource: "room", With: e})
		}
	}
	return out
}

// CheckConflicts returns the first conflict as an error, or nil.
func CheckConflicts(entries []Entry, candidate FormData, excludeID string) error {
	if conflicts := FindConflicts(entries, candidate, excludeID); len(conflicts) > 0 {
		return conflicts[0]
	}
	return nil
}
