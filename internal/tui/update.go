package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CenJi03/school-system-sub001/internal/schedsync"
	"github.com/CenJi03/school-system-sub001/internal/tui/commands"
	"github.com/CenJi03/school-system-sub001/internal/tui/view"
)

const statusDuration = 4 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout = computeLayout(m.width, m.height, m.grid.NumRows())
		m.ensureVisible()
		return m, nil

	case commands.ScheduleLoadedMsg:
		if msg.Stale {
			return m, nil
		}
		m.loading = false
		m.project()
		cmd := m.drainNotes()
		return m, cmd

	case commands.LookupsLoadedMsg:
		cmd := m.drainNotes()
		return m, cmd

	case commands.SubmittedMsg:
		return m.settleForm(msg.Err)

	case commands.DeletedMsg:
		return m.settleForm(msg.Err)

	case commands.SummaryMsg:
		m.summaryLines = view.BuildSummaryLines(msg.Report)
		m.mode = ModeSummary
		m.statusMsg = ""
		return m, nil

	case commands.ErrMsg:
		m.log.Warn("command failed", zap.Error(msg.Err))
		cmd := m.setStatus("Error: "+msg.Err.Error(), true)
		return m, cmd

	case commands.StatusMsgCmd:
		cmd := m.setStatus(msg.Msg, false)
		return m, cmd

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	// Cursor blink and other input messages.
	var cmd tea.Cmd
	switch m.mode {
	case ModeForm:
		m.form, cmd = m.form.update(msg)
	case ModeDatePrompt:
		m.datePrompt, cmd = m.datePrompt.Update(msg)
	}
	return m, cmd
}

// project rebuilds the projection from the current entry list.
func (m *Model) project() {
	m.proj = m.sync.Project(m.grid)
	m.clampCursor()
	m.ensureVisible()
}

// settleForm reacts to a finished submit or delete. The sync layer keeps
// the form open on failure and closes it on success.
func (m Model) settleForm(err error) (tea.Model, tea.Cmd) {
	m.submitting = false
	m.project()
	cmd := m.drainNotes()

	if f, open := m.sync.Form(); open {
		m.mode = ModeForm
		switch {
		case f.Err != nil:
			m.form.err = f.Err.Error()
		case err != nil:
			m.form.err = err.Error()
		}
		return m, cmd
	}
	m.mode = ModeNormal
	return m, cmd
}

// drainNotes shows the newest sync notification in the status line.
func (m *Model) drainNotes() tea.Cmd {
	notes := m.notes.Drain()
	if len(notes) == 0 {
		return nil
	}
	last := notes[len(notes)-1]
	return m.setStatus(last.Text(), last.Severity == schedsync.SeverityError)
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = isErr
	m.statusTime = m.now().Add(statusDuration)
	return commands.ClearStatusAfter(statusDuration)
}

func (m *Model) clampCursor() {
	m.cursor.Col = min(max(m.cursor.Col, 0), len(m.grid.Days())-1)
	m.cursor.Row = min(max(m.cursor.Row, 0), m.grid.NumRows()-1)
}

// ensureVisible scrolls so the cursor row is on screen.
func (m *Model) ensureVisible() {
	visible := m.layout.VisibleRows
	if visible <= 0 {
		m.scroll = 0
		return
	}
	if m.cursor.Row < m.scroll {
		m.scroll = m.cursor.Row
	}
	if m.cursor.Row >= m.scroll+visible {
		m.scroll = m.cursor.Row - visible + 1
	}
	m.scroll = min(max(m.scroll, 0), max(m.grid.NumRows()-visible, 0))
}
