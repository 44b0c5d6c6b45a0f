// Package schedule defines the domain types for the weekly class timetable.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidDay        = errors.New("day must be a weekday name")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrMissingCourse     = errors.New("course is required")
	ErrMissingTeacher    = errors.New("teacher is required")
	ErrMissingRoom       = errors.New("room is required")
	ErrNegativeStudents  = errors.New("student count cannot be negative")
)

// Domain errors.
var (
	ErrNotFound   = errors.New("schedule entry not found")
	ErrConflict   = errors.New("schedule entry conflicts with an existing class")
	ErrUnknownRef = errors.New("referenced course, teacher or room does not exist")
)

// Level is the course difficulty. Only used as a display accent.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Ref is an opaque id/name pair for a teacher or other labelled resource.
type Ref struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Course is a course label with its level.
type Course struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Level Level  `json:"level,omitempty" yaml:"level"`
}

// Room is a teaching room.
type Room struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Capacity int    `json:"capacity,omitempty" yaml:"capacity"`
}

// Ref returns the id/name pair of the room.
func (r Room) Ref() Ref {
	return Ref{ID: r.ID, Name: r.Name}
}

// Entry is one weekly class occurrence.
type Entry struct {
	ID           string  `json:"id"`
	Day          Weekday `json:"day"`
	Start        Clock   `json:"start_time"`
	End          Clock   `json:"end_time"`
	Course       Course  `json:"course"`
	Teacher      Ref     `json:"teacher"`
	Room         Ref     `json:"room"`
	StudentCount int     `json:"student_count"`
	Recurring    bool    `json:"recurring"`
}

// Contains returns true if the entry occupies slot on day, i.e. start <= slot < end.
func (e Entry) Contains(day Weekday, slot Clock) bool {
	return e.Day == day && e.Start <= slot && slot < e.End
}

// OverlapsWith returns true if both entries share a day and their time ranges intersect.
func (e Entry) OverlapsWith(other Entry) bool {
	return e.Day == other.Day && Overlaps(e.Start, e.End, other.Start, other.End)
}

// TimeRange formats the entry's hours, e.g. "09:00-11:00".
func (e Entry) TimeRange() string {
	return e.Start.String() + "-" + e.End.String()
}

// Form returns the form data that would recreate this entry.
func (e Entry) Form() FormData {
	return FormData{
		CourseID:     e.Course.ID,
		TeacherID:    e.Teacher.ID,
		RoomID:       e.Room.ID,
		Day:          e.Day,
		Start:        e.Start,
		End:          e.End,
		Recurring:    e.Recurring,
		StudentCount: e.StudentCount,
	}
}

// FormData holds the fields of a create or edit submission.
type FormData struct {
	CourseID     string  `json:"course_id" yaml:"course_id" validate:"required"`
	TeacherID    string  `json:"teacher_id" yaml:"teacher_id" validate:"required"`
	RoomID       string  `json:"room_id" yaml:"room_id" validate:"required"`
	Day          Weekday `json:"day" yaml:"day"`
	Start        Clock   `json:"start_time" yaml:"start_time"`
	End          Clock   `json:"end_time" yaml:"end_time"`
	Recurring    bool    `json:"recurring" yaml:"recurring"`
	StudentCount int     `json:"student_count" yaml:"student_count" validate:"gte=0"`
}

// DefaultForm returns the blank "add class" form: Monday 09:00-10:00, recurring.
func DefaultForm() FormData {
	return FormData{
		Day:       Monday,
		Start:     At(9),
		End:       At(10),
		Recurring: true,
	}
}

// Validate checks required fields and the time range.
func (f FormData) Validate() error {
	if f.CourseID == "" {
		return ErrMissingCourse
	}
	if f.TeacherID == "" {
		return ErrMissingTeacher
	}
	if f.RoomID == "" {
		return ErrMissingRoom
	}
	if !f.Day.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDay, int(f.Day))
	}
	if f.End <= f.Start {
		return fmt.Errorf("%w: %s-%s", ErrEndBeforeStart, f.Start, f.End)
	}
	if f.StudentCount < 0 {
		return ErrNegativeStudents
	}
	return nil
}

// Filter narrows an entry listing.
type Filter struct {
	TeacherID string
	Date      *time.Time // restricts to the weekday of this date
}

// IsZero returns true if the filter does not restrict anything.
func (f Filter) IsZero() bool {
	return f.TeacherID == "" && f.Date == nil
}

// Matches returns true if the entry passes the filter.
func (f Filter) Matches(e Entry) bool {
	if f.TeacherID != "" && e.Teacher.ID != f.TeacherID {
		return false
	}
	if f.Date != nil && e.Day != WeekdayOf(*f.Date) {
		return false
	}
	return true
}

// Apply returns the entries that pass the filter, preserving order.
func (f Filter) Apply(entries []Entry) []Entry {
	if f.IsZero() {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Lookups holds the option lists for the entry form.
type Lookups struct {
	Teachers []Ref
	Courses  []Course
	Rooms    []Room
}

// Teacher returns the teacher with the given id.
func (l Lookups) Teacher(id string) (Ref, bool) {
	for _, t := range l.Teachers {
		if t.ID == id {
			return t, true
		}
	}
	return Ref{}, false
}

// Course returns the course with the given id.
func (l Lookups) Course(id string) (Course, bool) {
	for _, c := range l.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

// Room returns the room with the given id.
func (l Lookups) Room(id string) (Room, bool) {
	for _, r := range l.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}
