package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleMouse moves the cursor to a clicked cell and routes the click the
// same way Enter does. The wheel moves the cursor one row.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(0, -1)
	case tea.MouseButtonWheelDown:
		m.moveCursor(0, 1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		col, row, ok := m.layout.Hit(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.cursor = Position{Col: col, Row: row + m.scroll}
		return m.activate()
	}
	return m, nil
}
