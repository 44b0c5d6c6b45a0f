package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
	"github.com/CenJi03/school-system-sub001/internal/tui/view"
)

// cellLines returns the text of one grid cell, RowLines lines tall.
// Covered cells continue the block text where the anchor row left off,
// which also works for blocks starting before the first grid row.
func (m Model) cellLines(cell timetable.Cell) string {
	width, lines := m.layout.ColWidth, m.layout.RowLines
	if cell.State == timetable.Empty {
		blank := make([]string, lines)
		for i := range blank {
			blank[i] = strings.Repeat(" ", width)
		}
		return strings.Join(blank, "\n")
	}

	offset := int(cell.Slot-cell.Entry.Start) / schedule.MinutesPerHour
	block := view.BlockLines(cell.Entry, width, (offset+1)*lines)
	return strings.Join(block[offset*lines:], "\n")
}

// cellStyle returns the style of one grid cell.
func (m Model) cellStyle(row, col int, cell timetable.Cell) lipgloss.Style {
	width := m.layout.ColWidth
	selected := row == m.cursor.Row && col == m.cursor.Col
	if cell.State == timetable.Empty {
		if selected {
			return m.styles.CursorStyle.Width(width)
		}
		return m.styles.EmptyCellStyle.Width(width)
	}
	if selected {
		return m.styles.SelectedBlockStyle.Width(width)
	}
	return m.styles.BlockStyle(cell.Entry, m.followsBlock(cell)).Width(width)
}

// followsBlock reports whether the block containing cell starts right where
// another block in the same column ends.
func (m Model) followsBlock(cell timetable.Cell) bool {
	if m.proj == nil {
		return false
	}
	above, ok := m.proj.At(cell.Day, cell.Entry.Start-schedule.MinutesPerHour)
	return ok && above.State != timetable.Empty && above.Entry.ID != cell.Entry.ID
}

// buildGridRows renders the visible rows as table cells.
func (m Model) buildGridRows() ([][]string, [][]lipgloss.Style) {
	visible := m.layout.VisibleRows
	rows := make([][]string, 0, visible)
	styles := make([][]lipgloss.Style, 0, visible)
	timeStyle := m.styles.TimeColumnStyle.Width(timeColWidth).Height(m.layout.RowLines)

	for r := m.scroll; r < m.scroll+visible; r++ {
		slot, ok := m.grid.SlotAt(r)
		if !ok {
			break
		}
		cells := []string{slot.String()}
		cellStyles := []lipgloss.Style{timeStyle}
		for c := 0; c < schedule.DaysPerWeek; c++ {
			cell, _ := m.proj.Cell(r, c)
			cells = append(cells, m.cellLines(cell))
			cellStyles = append(cellStyles, m.cellStyle(r, c, cell))
		}
		rows = append(rows, cells)
		styles = append(styles, cellStyles)
	}
	return rows, styles
}

// headerLabels returns the table header and its styles. Today is
// highlighted and the day of a date filter is starred.
func (m Model) headerLabels() ([]string, []lipgloss.Style) {
	today := schedule.WeekdayOf(m.now())
	headers := []string{""}
	styles := []lipgloss.Style{m.styles.TimeColumnStyle.Width(timeColWidth)}
	for _, d := range m.grid.Days() {
		label := d.Short()
		style := m.styles.DayHeaderStyle
		if d == today {
			style = m.styles.DayHeaderTodayStyle
		}
		if f := m.sync.Filter(); f.Date != nil && schedule.WeekdayOf(*f.Date) == d {
			label = "*" + label
		}
		headers = append(headers, label)
		styles = append(styles, style.Width(m.layout.ColWidth))
	}
	return headers, styles
}

func (m Model) tableViewState() view.TableViewState {
	if m.layout.GridH <= 0 || m.layout.VisibleRows <= 0 {
		return view.TableViewState{Render: false}
	}
	headers, headerStyles := m.headerLabels()
	rows, cellStyles := m.buildGridRows()
	return view.TableViewState{
		InnerW:       m.width,
		GridH:        m.layout.GridH,
		Headers:      headers,
		HeaderStyles: headerStyles,
		Content: view.TableContent{
			Rows:       rows,
			CellStyles: cellStyles,
		},
		BorderStyle: m.styles.BorderStyle,
		Bg:          m.styles.colorBg,
		Render:      true,
	}
}
