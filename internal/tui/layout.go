package tui

import (
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/tui/view"
)

const (
	titleHeight    = 1
	timeColWidth   = 5 // "08:00"
	minColWidth    = 8
	maxRowLines    = 4
	modalWidth     = 64
	formLabelWidth = 10
)

// Layout holds the screen geometry of the grid. It is recomputed on resize
// and used both for rendering and for mouse hit-testing.
type Layout struct {
	Width       int
	Height      int
	ColWidth    int
	RowLines    int // terminal lines per hour row
	VisibleRows int
	GridTop     int // screen line of the table's top border
	GridH       int
}

// computeLayout fits rows hour rows into a width x height terminal.
func computeLayout(width, height, rows int) Layout {
	l := Layout{Width: width, Height: height, GridTop: titleHeight, RowLines: 1}
	if width <= 0 || height <= 0 || rows <= 0 {
		return l
	}

	l.GridH = max(height-titleHeight-view.FooterHeight, 0)

	// Left border, time column, and one separator after every column.
	days := schedule.DaysPerWeek
	l.ColWidth = max((width-2*view.TableBorderCols-timeColWidth-days)/days, minColWidth)

	body := l.GridH - view.TableHeaderLines - view.TableBorderCols
	if body <= 0 {
		l.VisibleRows = 0
		return l
	}
	l.RowLines = min(max(body/rows, 1), maxRowLines)
	l.VisibleRows = min(rows, body/l.RowLines)
	return l
}

// firstColX returns the screen column where day column 0 starts.
func (l Layout) firstColX() int {
	return view.TableBorderCols + timeColWidth + 1
}

// firstRowY returns the screen line where the first visible row starts.
func (l Layout) firstRowY() int {
	return l.GridTop + view.TableHeaderLines
}

// Hit maps screen coordinates to a grid (col, row) relative to the first
// visible row. Borders, the time column, and the header yield false.
func (l Layout) Hit(x, y int) (col, row int, ok bool) {
	if l.VisibleRows <= 0 || l.RowLines <= 0 {
		return 0, 0, false
	}
	dy := y - l.firstRowY()
	if dy < 0 || dy/l.RowLines >= l.VisibleRows {
		return 0, 0, false
	}
	dx := x - l.firstColX()
	if dx < 0 {
		return 0, 0, false
	}
	stride := l.ColWidth + 1
	if dx%stride == l.ColWidth || dx/stride >= schedule.DaysPerWeek {
		return 0, 0, false
	}
	return dx / stride, dy / l.RowLines, true
}
