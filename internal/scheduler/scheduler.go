// Package scheduler finds free time for a class in the weekly timetable.
package scheduler

import (
	"sort"
	"time"

	"github.com/CenJi03/school-system-sub001/internal/dateutil"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

// Step is the granularity of suggested start times, in minutes.
const Step = 15

// DefaultDuration is used when a request has no duration.
const DefaultDuration = schedule.MinutesPerHour

// Scheduler looks for free time within the hours of a grid.
type Scheduler struct {
	opens  schedule.Clock
	closes schedule.Clock
	days   map[schedule.Weekday]bool
}

// New creates a Scheduler bounded by g's first slot and closing bound.
// With no days given every day of the week is open.
func New(g timetable.Grid, days ...schedule.Weekday) *Scheduler {
	if len(days) == 0 {
		days = schedule.Weekdays()
	}
	open := make(map[schedule.Weekday]bool, len(days))
	for _, d := range days {
		open[d] = true
	}
	return &Scheduler{opens: g.First(), closes: g.Last(), days: open}
}

// Request describes the class looking for time. Only entries sharing its
// teacher or room block it.
type Request struct {
	TeacherID string
	RoomID    string
	Duration  int // minutes
}

func (r Request) duration() int {
	if r.Duration <= 0 {
		return DefaultDuration
	}
	return r.Duration
}

func (r Request) blockedBy(e schedule.Entry) bool {
	return (r.TeacherID != "" && e.Teacher.ID == r.TeacherID) ||
		(r.RoomID != "" && e.Room.ID == r.RoomID)
}

// Window is a free span of one day.
type Window struct {
	Day   schedule.Weekday
	Start schedule.Clock
	End   schedule.Clock
}

// Minutes returns the length of the window.
func (w Window) Minutes() int {
	return int(w.End - w.Start)
}

// Slot is a concrete dated suggestion.
type Slot struct {
	Date  time.Time
	Day   schedule.Weekday
	Start schedule.Clock
	End   schedule.Clock
}

// IsOpen returns true if classes can be held on day.
func (s *Scheduler) IsOpen(day schedule.Weekday) bool {
	return s.days[day]
}

// FreeWindows returns the spans, Monday first, where the request's teacher
// and room are both free for at least its duration.
func (s *Scheduler) FreeWindows(entries []schedule.Entry, req Request) []Window {
	var out []Window
	for _, day := range schedule.Weekdays() {
		for _, w := range s.dayWindows(entries, req, day) {
			if w.Minutes() >= req.duration() {
				out = append(out, w)
			}
		}
	}
	return out
}

// CanFit returns true if the request fits at start on day.
func (s *Scheduler) CanFit(entries []schedule.Entry, req Request, day schedule.Weekday, start schedule.Clock) bool {
	end := start + schedule.Clock(req.duration())
	for _, w := range s.dayWindows(entries, req, day) {
		if w.Start <= start && end <= w.End {
			return true
		}
	}
	return false
}

// NextAvailable returns the earliest slot from now on, looking one week
// ahead. Start times today are rounded up to the next Step.
func (s *Scheduler) NextAvailable(now time.Time, entries []schedule.Entry, req Request) (Slot, bool) {
	today := dateutil.TruncateToDay(now)
	from := roundUp(dateutil.ClockOf(now))
	dur := schedule.Clock(req.duration())

	for offset := range schedule.DaysPerWeek + 1 {
		date := today.AddDate(0, 0, offset)
		day := schedule.WeekdayOf(date)
		if !s.IsOpen(day) {
			continue
		}
		for _, w := range s.dayWindows(entries, req, day) {
			start := w.Start
			if offset == 0 {
				start = max(start, from)
			}
			if start+dur <= w.End {
				return Slot{Date: date, Day: day, Start: start, End: start + dur}, true
			}
		}
	}
	return Slot{}, false
}

// dayWindows returns every free gap of day within opening hours.
func (s *Scheduler) dayWindows(entries []schedule.Entry, req Request, day schedule.Weekday) []Window {
	if !s.IsOpen(day) || s.closes <= s.opens {
		return nil
	}

	var busy []schedule.Entry
	for _, e := range entries {
		if e.Day == day && req.blockedBy(e) {
			busy = append(busy, e)
		}
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start < busy[j].Start })

	var out []Window
	cursor := s.opens
	for _, e := range busy {
		if e.Start > cursor {
			out = append(out, Window{Day: day, Start: cursor, End: min(e.Start, s.closes)})
		}
		cursor = max(cursor, e.End)
		if cursor >= s.closes {
			break
		}
	}
	if cursor < s.closes {
		out = append(out, Window{Day: day, Start: cursor, End: s.closes})
	}
	return out
}

func roundUp(c schedule.Clock) schedule.Clock {
	if rem := int(c) % Step; rem != 0 {
		return c + schedule.Clock(Step-rem)
	}
	return c
}
