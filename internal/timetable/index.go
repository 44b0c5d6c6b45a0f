package timetable

import (
	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// Occupant returns the first entry in list order that occupies slot on day.
// Overlapping entries are resolved by that first match.
func Occupant(day schedule.Weekday, slot schedule.Clock, entries []schedule.Entry) (schedule.Entry, bool) {
	for _, e := range entries {
		if e.Contains(day, slot) {
			return e, true
		}
	}
	return schedule.Entry{}, false
}

// IsAnchor returns true if the occupant of (day, slot) starts at slot.
func IsAnchor(day schedule.Weekday, slot schedule.Clock, entries []schedule.Entry) bool {
	e, ok := Occupant(day, slot, entries)
	return ok && e.Start == slot
}

// Duration returns the number of hourly slots an entry spans, at least 1.
func Duration(e schedule.Entry) int {
	n := schedule.HoursBetween(e.Start, e.End)
	if n < 1 {
		return 1
	}
	return n
}

// Index buckets entries by day, keeping list order within each day.
// Lookups give the same answers as Occupant and IsAnchor over the full list.
type Index struct {
	byDay [schedule.DaysPerWeek][]schedule.Entry
}

// NewIndex builds an index over entries. The slice is not retained.
func NewIndex(entries []schedule.Entry) *Index {
	idx := &Index{}
	for _, e := range entries {
		if !e.Day.Valid() {
			continue
		}
		idx.byDay[e.Day] = append(idx.byDay[e.Day], e)
	}
	return idx
}

// Occupant returns the first entry occupying slot on day.
func (idx *Index) Occupant(day schedule.Weekday, slot schedule.Clock) (schedule.Entry, bool) {
	if !day.Valid() {
		return schedule.Entry{}, false
	}
	return Occupant(day, slot, idx.byDay[day])
}

// IsAnchor returns true if the occupant of (day, slot) starts at slot.
func (idx *Index) IsAnchor(day schedule.Weekday, slot schedule.Clock) bool {
	e, ok := idx.Occupant(day, slot)
	return ok && e.Start == slot
}

// OnDay returns the entries of one day in list order.
func (idx *Index) OnDay(day schedule.Weekday) []schedule.Entry {
	if !day.Valid() {
		return nil
	}
	return idx.byDay[day]
}
