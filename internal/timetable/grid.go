// Package timetable lays weekly class entries onto a day by hour grid and
// routes clicks on grid cells to create or edit intents.
package timetable

import (
	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

const (
	// DefaultStartHour is the first row of the default grid.
	DefaultStartHour = 8
	// DefaultEndHour is the last row and closing bound of the default grid.
	DefaultEndHour = 20
	// MaxHour is the latest hour a row can start at.
	MaxHour = 23
)

// Grid is the immutable pair of axes: seven day columns and hourly slot rows.
type Grid struct {
	slots []schedule.Clock
}

// NewGrid creates a grid with one row per hour from startHour to endHour inclusive.
// Hours are clamped to 0..23 and reversed bounds are swapped.
func NewGrid(startHour, endHour int) Grid {
	return Grid{slots: Slots(startHour, endHour)}
}

// DefaultGrid returns the 08:00..20:00 grid.
func DefaultGrid() Grid {
	return NewGrid(DefaultStartHour, DefaultEndHour)
}

// Slots returns [startHour, startHour+1, ..., endHour] as clock values.
func Slots(startHour, endHour int) []schedule.Clock {
	startHour = clampHour(startHour)
	endHour = clampHour(endHour)
	if endHour < startHour {
		startHour, endHour = endHour, startHour
	}
	slots := make([]schedule.Clock, 0, endHour-startHour+1)
	for h := startHour; h <= endHour; h++ {
		slots = append(slots, schedule.At(h))
	}
	return slots
}

// Days returns the fixed Monday..Sunday column order.
func Days() []schedule.Weekday {
	return schedule.Weekdays()
}

func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > MaxHour {
		return MaxHour
	}
	return h
}

// Days returns the grid's columns.
func (g Grid) Days() []schedule.Weekday {
	return Days()
}

// Slots returns a copy of the grid's rows.
func (g Grid) Slots() []schedule.Clock {
	out := make([]schedule.Clock, len(g.slots))
	copy(out, g.slots)
	return out
}

// NumRows returns the number of slot rows.
func (g Grid) NumRows() int {
	return len(g.slots)
}

// First returns the first slot.
func (g Grid) First() schedule.Clock {
	if len(g.slots) == 0 {
		return 0
	}
	return g.slots[0]
}

// Last returns the last slot, which is also the grid's closing bound.
func (g Grid) Last() schedule.Clock {
	if len(g.slots) == 0 {
		return 0
	}
	return g.slots[len(g.slots)-1]
}

// SlotAt returns the slot for a row index.
func (g Grid) SlotAt(row int) (schedule.Clock, bool) {
	if row < 0 || row >= len(g.slots) {
		return 0, false
	}
	return g.slots[row], true
}

// RowOf returns the row index of a slot, or false if the slot is not on the grid.
func (g Grid) RowOf(slot schedule.Clock) (int, bool) {
	if len(g.slots) == 0 || slot < g.First() || slot > g.Last() || slot.Minute() != 0 {
		return 0, false
	}
	return slot.Hour() - g.First().Hour(), true
}

// Contains returns true if (day, slot) is a cell of the grid.
func (g Grid) Contains(day schedule.Weekday, slot schedule.Clock) bool {
	_, ok := g.RowOf(slot)
	return ok && day.Valid()
}
