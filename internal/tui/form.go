package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CenJi03/school-system-sub001/internal/schedsync"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/tui/view"
)

// Form fields in focus order.
const (
	fieldCourse = iota
	fieldTeacher
	fieldRoom
	fieldDay
	fieldStart
	fieldEnd
	fieldStudents
	fieldRecurring
	fieldCount
)

var errStudentCount = errors.New("students must be a whole number")

// classForm is the editable state of the create/edit modal. Choice fields
// hold ids so a form survives lookups that failed to load.
type classForm struct {
	mode    schedsync.FormMode
	focus   int
	course  string
	teacher string
	room    string
	day     schedule.Weekday

	start     textinput.Model
	end       textinput.Model
	students  textinput.Model
	recurring bool

	err string
}

func newTextInput(value, placeholder string, limit int, styles *Styles) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = limit + 1
	ti.SetValue(value)
	if styles != nil {
		ti.TextStyle = styles.ModalInputTextStyle
		ti.PlaceholderStyle = styles.ModalPlaceholderStyle
		ti.Cursor.Style = styles.ModalInputCursorStyle
	}
	return ti
}

// newClassForm builds the modal state from a pending sync form.
func newClassForm(f schedsync.Form, styles *Styles) classForm {
	d := f.Data
	students := ""
	if d.StudentCount > 0 {
		students = strconv.Itoa(d.StudentCount)
	}
	cf := classForm{
		mode:      f.Mode,
		course:    d.CourseID,
		teacher:   d.TeacherID,
		room:      d.RoomID,
		day:       d.Day,
		start:     newTextInput(d.Start.String(), "HH:MM", 5, styles),
		end:       newTextInput(d.End.String(), "HH:MM", 5, styles),
		students:  newTextInput(students, "0", 4, styles),
		recurring: d.Recurring,
	}
	if f.Err != nil {
		cf.err = f.Err.Error()
	}
	return cf
}

// data converts the form into submission data.
func (f classForm) data() (schedule.FormData, error) {
	start, err := schedule.ParseClock(strings.TrimSpace(f.start.Value()))
	if err != nil {
		return schedule.FormData{}, fmt.Errorf("start: %w", err)
	}
	end, err := schedule.ParseClock(strings.TrimSpace(f.end.Value()))
	if err != nil {
		return schedule.FormData{}, fmt.Errorf("end: %w", err)
	}
	students := 0
	if v := strings.TrimSpace(f.students.Value()); v != "" {
		if students, err = strconv.Atoi(v); err != nil {
			return schedule.FormData{}, errStudentCount
		}
	}
	return schedule.FormData{
		CourseID:     f.course,
		TeacherID:    f.teacher,
		RoomID:       f.room,
		Day:          f.day,
		Start:        start,
		End:          end,
		Recurring:    f.recurring,
		StudentCount: students,
	}, nil
}

// setFocus moves focus to field i, wrapping around.
func (f *classForm) setFocus(i int) tea.Cmd {
	f.focus = (i%fieldCount + fieldCount) % fieldCount
	f.start.Blur()
	f.end.Blur()
	f.students.Blur()
	if ti := f.input(); ti != nil {
		return ti.Focus()
	}
	return nil
}

// input returns the text input for the focused field, if it has one.
func (f *classForm) input() *textinput.Model {
	switch f.focus {
	case fieldStart:
		return &f.start
	case fieldEnd:
		return &f.end
	case fieldStudents:
		return &f.students
	}
	return nil
}

// isChoice reports whether the focused field cycles with left/right.
func (f classForm) isChoice() bool {
	return f.focus <= fieldDay || f.focus == fieldRecurring
}

// cycle moves the focused choice field by delta.
func (f *classForm) cycle(delta int, l schedule.Lookups) {
	switch f.focus {
	case fieldCourse:
		f.course = cycleID(f.course, delta, len(l.Courses), func(i int) string { return l.Courses[i].ID })
	case fieldTeacher:
		f.teacher = cycleID(f.teacher, delta, len(l.Teachers), func(i int) string { return l.Teachers[i].ID })
	case fieldRoom:
		f.room = cycleID(f.room, delta, len(l.Rooms), func(i int) string { return l.Rooms[i].ID })
	case fieldDay:
		if delta < 0 {
			f.day = f.day.Prev()
		} else {
			f.day = f.day.Next()
		}
	case fieldRecurring:
		f.recurring = !f.recurring
	}
}

// cycleID returns the id delta steps from current in a list of n ids.
// An id not in the list moves to the first or last option.
func cycleID(current string, delta, n int, id func(int) string) string {
	if n == 0 {
		return current
	}
	pos := -1
	for i := 0; i < n; i++ {
		if id(i) == current {
			pos = i
			break
		}
	}
	if pos < 0 {
		if delta < 0 {
			return id(n - 1)
		}
		return id(0)
	}
	return id(((pos+delta)%n + n) % n)
}

// update forwards msg to the focused text input.
func (f classForm) update(msg tea.Msg) (classForm, tea.Cmd) {
	ti := f.input()
	if ti == nil {
		return f, nil
	}
	var cmd tea.Cmd
	*ti, cmd = ti.Update(msg)
	return f, cmd
}

func (f classForm) title() string {
	if f.mode == schedsync.FormEdit {
		return "Edit class"
	}
	return "New class"
}

// fields returns the rendered form lines.
func (f classForm) fields(l schedule.Lookups) []view.FormField {
	courseName := "(none)"
	if c, ok := l.Course(f.course); ok {
		courseName = c.Name
		if c.Level != "" {
			courseName += " · " + string(c.Level)
		}
	} else if f.course != "" {
		courseName = f.course
	}
	recurring := "no, one-off"
	if f.recurring {
		recurring = "yes, weekly"
	}

	out := []view.FormField{
		{Label: "Course", Value: courseName, Choice: true},
		{Label: "Teacher", Value: refName(f.teacher, l.Teacher), Choice: true},
		{Label: "Room", Value: refName(f.room, func(id string) (schedule.Ref, bool) {
			r, ok := l.Room(id)
			return r.Ref(), ok
		}), Choice: true},
		{Label: "Day", Value: f.day.String(), Choice: true},
		{Label: "Start", Value: f.start.View()},
		{Label: "End", Value: f.end.View()},
		{Label: "Students", Value: f.students.View()},
		{Label: "Recurring", Value: recurring, Choice: true},
	}
	out[f.focus].Focused = true
	return out
}

func refName(id string, find func(string) (schedule.Ref, bool)) string {
	if r, ok := find(id); ok {
		return r.Name
	}
	if id == "" {
		return "(none)"
	}
	return id
}
