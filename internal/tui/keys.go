package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CenJi03/school-system-sub001/internal/dateutil"
	"github.com/CenJi03/school-system-sub001/internal/schedsync"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/summary"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
	"github.com/CenJi03/school-system-sub001/internal/tui/commands"
	"github.com/CenJi03/school-system-sub001/internal/tui/view"
)

var errNothingSelected = errors.New("no class selected")

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeForm:
		return m.handleFormKey(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKey(msg)
	case ModeSummary:
		return m.handleSummaryKey(msg)
	case ModeDatePrompt:
		return m.handleDatePromptKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "home", "g":
		m.cursor.Row = 0
		m.ensureVisible()
	case "end", "G":
		m.cursor.Row = m.grid.NumRows() - 1
		m.ensureVisible()

	case "enter", " ":
		return m.activate()

	case "n":
		m.sync.OpenNew()
		return m.openForm()

	case "t":
		f := m.sync.Filter()
		f.TeacherID = m.nextTeacher(f.TeacherID)
		return m.load(f)

	case "D":
		m.mode = ModeDatePrompt
		m.datePrompt.SetValue("")
		if d := m.sync.Filter().Date; d != nil {
			m.datePrompt.SetValue(d.Format(dateutil.Layout))
		}
		cmd := m.datePrompt.Focus()
		return m, cmd

	case "r":
		return m.load(schedule.Filter{})

	case "R", "ctrl+r":
		m.loading = true
		return m, tea.Batch(commands.ReloadSchedule(m.sync), commands.LoadLookups(m.sync))

	case "s":
		cfg := m.config.LLM
		opts := summary.Options{
			Filter:         m.sync.Filter(),
			IncludeInsight: cfg.Provider != "",
			Provider:       cfg.Provider,
			Model:          cfg.Model,
			BaseURL:        cfg.BaseURL,
		}
		cmd := tea.Batch(m.setStatus("Building summary...", false), commands.Summary(m.backend, opts))
		return m, cmd

	case "y":
		e, err := m.selectedEntry()
		if err != nil {
			cmd := m.setStatus(err.Error(), true)
			return m, cmd
		}
		cmd := m.copy(view.CopyText(e), "Copied "+e.Course.Name)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.sync.CloseForm()
		m.mode = ModeNormal
		return m, nil

	case "tab", "down":
		cmd := m.form.setFocus(m.form.focus + 1)
		return m, cmd

	case "shift+tab", "up":
		cmd := m.form.setFocus(m.form.focus - 1)
		return m, cmd

	case "left", "right":
		if m.form.isChoice() {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			m.form.cycle(delta, m.sync.Lookups())
			return m, nil
		}

	case " ":
		if m.form.focus == fieldRecurring {
			m.form.recurring = !m.form.recurring
			return m, nil
		}

	case "enter":
		return m.submitForm()

	case "ctrl+d":
		if m.form.mode == schedsync.FormEdit && !m.submitting {
			m.mode = ModeConfirmDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		m.log.Debug("deleting class")
		return m, commands.Delete(m.sync)
	case "n", "esc":
		m.mode = ModeForm
	}
	return m, nil
}

func (m Model) handleSummaryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "s", "enter":
		m.mode = ModeNormal
		m.summaryLines = nil
	case "y":
		cmd := m.copy(view.SummaryText(m.summaryLines), "Copied summary")
		return m, cmd
	}
	return m, nil
}

func (m Model) handleDatePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.datePrompt.Blur()
		m.mode = ModeNormal
		return m, nil

	case "enter":
		f := m.sync.Filter()
		value := strings.TrimSpace(m.datePrompt.Value())
		if value == "" {
			f.Date = nil
		} else {
			d, err := dateutil.ParseDate(value, m.now())
			if err != nil {
				cmd := m.setStatus("Date must be YYYY-MM-DD, today, tomorrow or a weekday", true)
				return m, cmd
			}
			f.Date = &d
			m.cursor.Col = int(schedule.WeekdayOf(d))
		}
		m.datePrompt.Blur()
		m.mode = ModeNormal
		return m.load(f)
	}

	var cmd tea.Cmd
	m.datePrompt, cmd = m.datePrompt.Update(msg)
	return m, cmd
}

func (m *Model) moveCursor(dc, dr int) {
	m.cursor.Col += dc
	m.cursor.Row += dr
	m.clampCursor()
	m.ensureVisible()
}

// activate routes the cell under the cursor: empty cells open a create
// form, anchors open an edit form, covered cells do nothing.
func (m Model) activate() (tea.Model, tea.Cmd) {
	cell, ok := m.proj.Cell(m.cursor.Row, m.cursor.Col)
	if !ok {
		return m, nil
	}
	router := timetable.Router{
		OnCreate: func(in timetable.CreateIntent) { m.sync.OpenCreate(in) },
		OnEdit:   func(in timetable.EditIntent) { m.sync.OpenEdit(in) },
	}
	if router.Click(m.proj, cell.Day, cell.Slot) == nil {
		m.log.Debug("click ignored", zap.Stringer("day", cell.Day), zap.Stringer("slot", cell.Slot), zap.Stringer("state", cell.State))
		return m, nil
	}
	return m.openForm()
}

// openForm shows the form the sync layer has open.
func (m Model) openForm() (tea.Model, tea.Cmd) {
	f, ok := m.sync.Form()
	if !ok {
		return m, nil
	}
	m.form = newClassForm(f, m.styles)
	m.mode = ModeForm
	cmd := m.form.setFocus(fieldCourse)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	data, err := m.form.data()
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	if err := m.sync.SetForm(data); err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.form.err = ""
	m.submitting = true
	m.log.Debug("submitting class", zap.Stringer("mode", m.form.mode), zap.Stringer("day", data.Day))
	return m, commands.Submit(m.sync)
}

func (m Model) load(f schedule.Filter) (tea.Model, tea.Cmd) {
	m.loading = true
	return m, commands.LoadSchedule(m.sync, f)
}

// nextTeacher cycles through "all teachers" and each loaded teacher.
func (m Model) nextTeacher(current string) string {
	teachers := m.sync.Lookups().Teachers
	if len(teachers) == 0 {
		return ""
	}
	if current == "" {
		return teachers[0].ID
	}
	for i, t := range teachers {
		if t.ID == current && i+1 < len(teachers) {
			return teachers[i+1].ID
		}
	}
	return ""
}

// selectedEntry returns the class under the cursor, anchor or covered.
func (m Model) selectedEntry() (schedule.Entry, error) {
	cell, ok := m.proj.Cell(m.cursor.Row, m.cursor.Col)
	if !ok || cell.IsEmpty() {
		return schedule.Entry{}, errNothingSelected
	}
	return cell.Entry, nil
}

func (m *Model) copy(text, okMsg string) tea.Cmd {
	if err := m.copyToClp(text); err != nil {
		return m.setStatus("Copy failed: "+err.Error(), true)
	}
	return m.setStatus(okMsg, false)
}
