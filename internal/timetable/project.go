package timetable

import (
	"strings"
	"unicode"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// CellState classifies a grid cell.
type CellState int

const (
	Empty CellState = iota
	Anchor
	Covered
)

func (s CellState) String() string {
	switch s {
	case Anchor:
		return "anchor"
	case Covered:
		return "covered"
	default:
		return "empty"
	}
}

// Cell is the render-ready description of one (day, slot) position.
// Entry is the occupant for Anchor and Covered cells and zero for Empty.
type Cell struct {
	Day   schedule.Weekday
	Slot  schedule.Clock
	State CellState
	Entry schedule.Entry

	// Span is the entry's full duration in slots. Only set on anchors.
	Span int
	// VisibleSpan is Span clamped to the rows remaining below the anchor.
	VisibleSpan int
}

// IsEmpty returns true for cells with no occupant.
func (c Cell) IsEmpty() bool {
	return c.State == Empty
}

// Projection is the grid of cells derived from one entry list.
// It is never mutated after Project returns.
type Projection struct {
	grid  Grid
	cells [][]Cell // [row][column]
}

// Project classifies every cell of g against entries.
// Rows follow g.Slots() and columns follow g.Days().
func Project(g Grid, entries []schedule.Entry) *Projection {
	idx := NewIndex(entries)
	slots := g.Slots()
	days := g.Days()

	cells := make([][]Cell, len(slots))
	for row, slot := range slots {
		cells[row] = make([]Cell, len(days))
		for col, day := range days {
			cell := Cell{Day: day, Slot: slot}
			if e, ok := idx.Occupant(day, slot); ok {
				cell.Entry = e
				if e.Start == slot {
					cell.State = Anchor
					cell.Span = Duration(e)
					cell.VisibleSpan = min(cell.Span, len(slots)-row)
				} else {
					cell.State = Covered
				}
			}
			cells[row][col] = cell
		}
	}
	return &Projection{grid: g, cells: cells}
}

// Grid returns the grid the projection was built on.
func (p *Projection) Grid() Grid {
	return p.grid
}

// Rows returns the cells in row-major order. Callers must not modify them.
func (p *Projection) Rows() [][]Cell {
	return p.cells
}

// Cell returns the cell at a row and column index.
func (p *Projection) Cell(row, col int) (Cell, bool) {
	if row < 0 || row >= len(p.cells) || col < 0 || col >= len(p.cells[row]) {
		return Cell{}, false
	}
	return p.cells[row][col], true
}

// At returns the cell for (day, slot).
func (p *Projection) At(day schedule.Weekday, slot schedule.Clock) (Cell, bool) {
	row, ok := p.grid.RowOf(slot)
	if !ok || !day.Valid() {
		return Cell{}, false
	}
	return p.Cell(row, int(day))
}

// Anchors returns all anchor cells in row-major order.
func (p *Projection) Anchors() []Cell {
	var out []Cell
	for _, row := range p.cells {
		for _, c := range row {
			if c.State == Anchor {
				out = append(out, c)
			}
		}
	}
	return out
}

// AnchorOf returns the anchor cell of the block a cell belongs to.
// For empty cells it returns false.
func (p *Projection) AnchorOf(c Cell) (Cell, bool) {
	switch c.State {
	case Anchor:
		return c, true
	case Covered:
		anchor, ok := p.At(c.Day, c.Entry.Start)
		if ok && anchor.State == Anchor && anchor.Entry == c.Entry {
			return anchor, true
		}
	}
	return Cell{}, false
}

// PrintRow returns a compact string for one row: '-' for empty cells, the
// upper-cased first letter of the entry id for anchors and the lower-cased
// letter for covered cells.
func (p *Projection) PrintRow(row int) string {
	if row < 0 || row >= len(p.cells) {
		return ""
	}
	var sb strings.Builder
	for _, c := range p.cells[row] {
		sb.WriteRune(cellRune(c))
	}
	return sb.String()
}

// Print returns a multi-line dump with hour labels.
func (p *Projection) Print() string {
	var sb strings.Builder
	sb.WriteString("      ")
	for _, d := range p.grid.Days() {
		sb.WriteString(d.Short()[:1])
	}
	sb.WriteRune('\n')
	for row, slot := range p.grid.slots {
		sb.WriteString(slot.String())
		sb.WriteRune(' ')
		sb.WriteString(p.PrintRow(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// String returns all rows joined by "|".
func (p *Projection) String() string {
	parts := make([]string, len(p.cells))
	for row := range p.cells {
		parts[row] = p.PrintRow(row)
	}
	return strings.Join(parts, "|")
}

func cellRune(c Cell) rune {
	if c.State == Empty {
		return '-'
	}
	r := '?'
	for _, ch := range c.Entry.ID {
		r = ch
		break
	}
	if c.State == Anchor {
		return unicode.ToUpper(r)
	}
	return unicode.ToLower(r)
}
