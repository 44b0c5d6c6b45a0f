package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CenJi03/school-system-sub001/internal/dateutil"
	"github.com/CenJi03/school-system-sub001/internal/schedsync"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/summary"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
	"github.com/CenJi03/school-system-sub001/internal/tui/commands"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = apply(t, m, key(k))
	}
	return m
}

func TestNormalKeysMoveCursor(t *testing.T) {
	m, _ := newTestModel(t)

	tests := []struct {
		key  string
		want Position
	}{
		{"l", Position{Col: 1, Row: 0}},
		{"j", Position{Col: 1, Row: 1}},
		{"h", Position{Col: 0, Row: 1}},
		{"h", Position{Col: 0, Row: 1}},
		{"k", Position{Col: 0, Row: 0}},
		{"k", Position{Col: 0, Row: 0}},
		{"G", Position{Col: 0, Row: 12}},
		{"j", Position{Col: 0, Row: 12}},
		{"g", Position{Col: 0, Row: 0}},
	}

	for _, tt := range tests {
		m = press(t, m, tt.key)
		if got := m.Cursor(); got != tt.want {
			t.Fatalf("after %q Cursor() = %+v, want %+v", tt.key, got, tt.want)
		}
	}
}

func TestEnterOnEmptyCellOpensCreateForm(t *testing.T) {
	m, _ := newTestModel(t)
	m.cursor = Position{Col: int(schedule.Sunday), Row: 0}

	m = press(t, m, "enter")
	if m.Mode() != ModeForm {
		t.Fatalf("Mode() = %v, want ModeForm", m.Mode())
	}
	f, ok := m.Sync().Form()
	if !ok || f.Mode != schedsync.FormCreate {
		t.Fatalf("Form() = %+v, %v, want an open create form", f, ok)
	}
	if f.Data.Day != schedule.Sunday || f.Data.Start != schedule.At(8) || f.Data.End != schedule.At(9) {
		t.Fatalf("Form().Data = %+v, want Sunday 08:00-09:00", f.Data)
	}
	if m.form.start.Value() != "08:00" {
		t.Fatalf("start input = %q, want 08:00", m.form.start.Value())
	}
}

func TestEnterOnAnchorOpensEditForm(t *testing.T) {
	m, _ := newTestModel(t)
	m.cursor = Position{Col: int(schedule.Monday), Row: 1}

	m = press(t, m, " ")
	if m.Mode() != ModeForm {
		t.Fatalf("Mode() = %v, want ModeForm", m.Mode())
	}
	f, _ := m.Sync().Form()
	if f.Mode != schedsync.FormEdit || f.EntryID == "" {
		t.Fatalf("Form() = %+v, want an edit form", f)
	}
	if m.form.course != "c-eng-a1" || m.form.teacher != "t-james" {
		t.Fatalf("form = %s/%s, want c-eng-a1/t-james", m.form.course, m.form.teacher)
	}
}

func TestEnterOnCoveredCellDoesNothing(t *testing.T) {
	m, _ := newTestModel(t)
	m.cursor = Position{Col: int(schedule.Monday), Row: 2}

	m = press(t, m, "enter")
	if m.Mode() != ModeNormal {
		t.Fatalf("Mode() = %v, want ModeNormal", m.Mode())
	}
	if _, ok := m.Sync().Form(); ok {
		t.Fatal("Form() open after clicking a covered cell")
	}
}

func TestNewKeyOpensDefaultForm(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "n")
	f, ok := m.Sync().Form()
	if !ok || f.Data != schedule.DefaultForm() {
		t.Fatalf("Form() = %+v, %v, want the default form", f, ok)
	}
	if m.form.title() != "New class" {
		t.Fatalf("title() = %q", m.form.title())
	}
}

func TestFormEscCloses(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "n", "esc")
	if m.Mode() != ModeNormal {
		t.Fatalf("Mode() = %v, want ModeNormal", m.Mode())
	}
	if _, ok := m.Sync().Form(); ok {
		t.Fatal("Form() still open after esc")
	}
}

func TestFormSubmitCreatesClass(t *testing.T) {
	m, _ := newTestModel(t)
	m.cursor = Position{Col: int(schedule.Sunday), Row: 0}

	m = press(t, m, "enter", "right", "tab", "right", "tab", "right")
	if m.form.course == "" || m.form.teacher == "" || m.form.room == "" {
		t.Fatalf("form = %+v, want course, teacher and room chosen", m.form)
	}

	m = run(t, m, key("enter"))
	if m.Mode() != ModeNormal {
		t.Fatalf("Mode() = %v, want ModeNormal (form err %q)", m.Mode(), m.form.err)
	}
	if m.submitting {
		t.Fatal("submitting still set")
	}
	if got := len(m.Sync().Snapshot()); got != 7 {
		t.Fatalf("Snapshot() len = %d, want 7", got)
	}
	if m.Status() != schedsync.MsgCreated {
		t.Fatalf("Status() = %q, want %q", m.Status(), schedsync.MsgCreated)
	}
	cell, _ := m.proj.At(schedule.Sunday, schedule.At(8))
	if cell.State != timetable.Anchor {
		t.Fatalf("Sunday 08:00 state = %v, want anchor", cell.State)
	}
}

func TestFormInvalidTimeStaysLocal(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "n")
	m.form.start.SetValue("later")
	next, cmd := m.Update(key("enter"))
	m = next.(Model)

	if cmd != nil {
		t.Fatal("invalid form produced a command")
	}
	if m.Mode() != ModeForm || !strings.HasPrefix(m.form.err, "start:") {
		t.Fatalf("mode = %v, err = %q, want form error on start", m.Mode(), m.form.err)
	}
}

func TestFormSubmitFailureKeepsFormOpen(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "n")
	m = run(t, m, key("enter"))

	if m.Mode() != ModeForm {
		t.Fatalf("Mode() = %v, want ModeForm", m.Mode())
	}
	if m.form.err == "" {
		t.Fatal("form error not shown")
	}
	if !m.statusErr || !strings.HasPrefix(m.Status(), schedsync.MsgSaveFailed) {
		t.Fatalf("Status() = %q (err %v), want save failure", m.Status(), m.statusErr)
	}
	if got := len(m.Sync().Snapshot()); got != 6 {
		t.Fatalf("Snapshot() len = %d, want 6", got)
	}
}

func TestFormSubmitConflictKeepsFormOpen(t *testing.T) {
	m, _ := newTestModel(t)
	m.cursor = Position{Col: int(schedule.Monday), Row: 1}

	// Move the Monday class in Room 101 onto Tuesday, where Room 101 is taken.
	m = press(t, m, "enter", "tab", "tab", "tab", "right")
	if m.form.day != schedule.Tuesday {
		t.Fatalf("form day = %v, want Tuesday", m.form.day)
	}
	m = run(t, m, key("enter"))

	if m.Mode() != ModeForm || m.form.err == "" {
		t.Fatalf("mode = %v, err = %q, want conflict error", m.Mode(), m.form.err)
	}
	if cell, _ := m.proj.At(schedule.Monday, schedule.At(9)); cell.Entry.Course.Name != "English A1" {
		t.Fatalf("Monday 09:00 = %+v, want unchanged", cell)
	}
}

func TestDeleteFlow(t *testing.T) {
	m, _ := newTestModel(t)
	m.cursor = Position{Col: int(schedule.Monday), Row: 1}

	m = press(t, m, "enter", "ctrl+d")
	if m.Mode() != ModeConfirmDelete {
		t.Fatalf("Mode() = %v, want ModeConfirmDelete", m.Mode())
	}

	m = press(t, m, "n")
	if m.Mode() != ModeForm {
		t.Fatalf("Mode() after n = %v, want ModeForm", m.Mode())
	}

	m = press(t, m, "ctrl+d")
	m = run(t, m, key("y"))
	if m.Mode() != ModeNormal {
		t.Fatalf("Mode() = %v, want ModeNormal", m.Mode())
	}
	if got := len(m.Sync().Snapshot()); got != 5 {
		t.Fatalf("Snapshot() len = %d, want 5", got)
	}
	if m.Status() != schedsync.MsgDeleted {
		t.Fatalf("Status() = %q, want %q", m.Status(), schedsync.MsgDeleted)
	}
}

func TestDeleteNotOfferedForNewClass(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "n", "ctrl+d")
	if m.Mode() != ModeForm {
		t.Fatalf("Mode() = %v, want ModeForm", m.Mode())
	}
}

func TestTeacherFilterCycles(t *testing.T) {
	m, _ := newTestModel(t)
	teachers := m.Sync().Lookups().Teachers

	for i := range teachers {
		m = run(t, m, key("t"))
		if got := m.Sync().Filter().TeacherID; got != teachers[i].ID {
			t.Fatalf("press %d: TeacherID = %q, want %q", i+1, got, teachers[i].ID)
		}
		for _, e := range m.Sync().Snapshot() {
			if e.Teacher.ID != teachers[i].ID {
				t.Fatalf("Snapshot() has %s's class under filter %s", e.Teacher.ID, teachers[i].ID)
			}
		}
	}

	m = run(t, m, key("t"))
	if got := m.Sync().Filter().TeacherID; got != "" {
		t.Fatalf("TeacherID = %q, want all teachers", got)
	}
	if got := len(m.Sync().Snapshot()); got != 6 {
		t.Fatalf("Snapshot() len = %d, want 6", got)
	}
}

func TestResetClearsFilter(t *testing.T) {
	m, _ := newTestModel(t)

	m = run(t, m, key("t"))
	m = run(t, m, key("r"))
	if f := m.Sync().Filter(); f.TeacherID != "" || f.Date != nil {
		t.Fatalf("Filter() = %+v, want empty", f)
	}
}

func TestDatePrompt(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "D")
	if m.Mode() != ModeDatePrompt {
		t.Fatalf("Mode() = %v, want ModeDatePrompt", m.Mode())
	}
	m.datePrompt.SetValue("2026-10-22")
	m = run(t, m, key("enter"))

	if m.Mode() != ModeNormal {
		t.Fatalf("Mode() = %v, want ModeNormal", m.Mode())
	}
	if m.Cursor().Col != int(schedule.Thursday) {
		t.Fatalf("Cursor().Col = %d, want Thursday", m.Cursor().Col)
	}
	d := m.Sync().Filter().Date
	if d == nil || d.Format(dateutil.Layout) != "2026-10-22" {
		t.Fatalf("Filter().Date = %v, want 2026-10-22", d)
	}

	// Reopening shows the current date; clearing it drops the filter.
	m = press(t, m, "D")
	if got := m.datePrompt.Value(); got != "2026-10-22" {
		t.Fatalf("prompt value = %q", got)
	}
	m.datePrompt.SetValue("")
	m = run(t, m, key("enter"))
	if m.Sync().Filter().Date != nil {
		t.Fatal("empty date did not clear the filter")
	}
}

func TestDatePromptRejectsBadDate(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "D")
	m.datePrompt.SetValue("22/10/2026")
	m = press(t, m, "enter")

	if m.Mode() != ModeDatePrompt {
		t.Fatalf("Mode() = %v, want ModeDatePrompt", m.Mode())
	}
	if !m.statusErr {
		t.Fatalf("Status() = %q, want an error", m.Status())
	}

	m = press(t, m, "esc")
	if m.Mode() != ModeNormal {
		t.Fatalf("Mode() = %v, want ModeNormal", m.Mode())
	}
}

func TestCopySelectedClass(t *testing.T) {
	m, clip := newTestModel(t)

	// A covered cell copies the class it belongs to.
	m.cursor = Position{Col: int(schedule.Monday), Row: 2}
	m = press(t, m, "y")
	if !strings.Contains(clip.text, "English A1") || !strings.HasPrefix(clip.text, "Monday 09:00-11:00") {
		t.Fatalf("clipboard = %q", clip.text)
	}
	if m.Status() != "Copied English A1" {
		t.Fatalf("Status() = %q", m.Status())
	}

	m.cursor = Position{Col: int(schedule.Sunday), Row: 0}
	m = press(t, m, "y")
	if !m.statusErr || m.Status() != errNothingSelected.Error() {
		t.Fatalf("Status() = %q, want %q", m.Status(), errNothingSelected)
	}

	clip.err = errors.New("no clipboard")
	m.cursor = Position{Col: int(schedule.Monday), Row: 1}
	m = press(t, m, "y")
	if !strings.HasPrefix(m.Status(), "Copy failed") {
		t.Fatalf("Status() = %q, want copy failure", m.Status())
	}
}

func TestSummaryModal(t *testing.T) {
	m, clip := newTestModel(t)

	m = apply(t, m, commands.Summary(m.backend, summary.Options{})())
	if m.Mode() != ModeSummary || len(m.summaryLines) == 0 {
		t.Fatalf("Mode() = %v with %d lines, want summary", m.Mode(), len(m.summaryLines))
	}

	m = press(t, m, "y")
	if !strings.Contains(clip.text, "6 classes") {
		t.Fatalf("clipboard = %q, want the summary", clip.text)
	}

	m = press(t, m, "esc")
	if m.Mode() != ModeNormal || m.summaryLines != nil {
		t.Fatalf("Mode() = %v, want ModeNormal", m.Mode())
	}
}

func TestCtrlCQuitsFromForm(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "n")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c did not quit")
	}
}

func TestDatePromptAcceptsRelativeDates(t *testing.T) {
	tests := []struct {
		input string
		want  string
		col   schedule.Weekday
	}{
		{"tomorrow", "2026-10-20", schedule.Tuesday},
		{"thu", "2026-10-22", schedule.Thursday},
		{"next-monday", "2026-10-26", schedule.Monday},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, _ := newTestModel(t)
			m = press(t, m, "D")
			m.datePrompt.SetValue(tt.input)
			m = run(t, m, key("enter"))

			d := m.Sync().Filter().Date
			if d == nil || d.Format(dateutil.Layout) != tt.want {
				t.Fatalf("Filter().Date = %v, want %s", d, tt.want)
			}
			if m.Cursor().Col != int(tt.col) {
				t.Errorf("Cursor().Col = %d, want %s", m.Cursor().Col, tt.col)
			}
		})
	}
}
