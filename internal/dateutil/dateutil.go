// Package dateutil provides date parsing and week arithmetic for the
// Monday-first timetable week.
package dateutil

import (
	"errors"
	"strings"
	"time"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// Layout is the date format accepted on the command line and in prompts.
const Layout = "2006-01-02"

// ErrInvalidDateFormat is returned for input ParseDate does not recognise.
var ErrInvalidDateFormat = errors.New("date must be YYYY-MM-DD, today, tomorrow, yesterday or a weekday name")

// ParseDate parses s relative to now, in now's location:
//   - "" or "today": the date of now
//   - "tomorrow", "yesterday"
//   - weekday names ("thursday", "thu"): that day of now's week
//   - "next-<weekday>": that day of the following week
//   - "next-week": the same weekday one week later
//   - absolute dates: "2025-01-15"
//
// Input is case-insensitive. Past dates are allowed.
func ParseDate(s string, now time.Time) (time.Time, error) {
	today := TruncateToDay(now)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "next-week":
		return today.AddDate(0, 0, schedule.DaysPerWeek), nil
	}

	if name, ok := strings.CutPrefix(input, "next-"); ok {
		day, err := schedule.ParseWeekday(name)
		if err != nil {
			return time.Time{}, ErrInvalidDateFormat
		}
		return DateOf(today.AddDate(0, 0, schedule.DaysPerWeek), day), nil
	}
	if day, err := schedule.ParseWeekday(input); err == nil {
		return DateOf(today, day), nil
	}

	d, err := time.ParseInLocation(Layout, input, now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return d, nil
}

// WeekStart returns midnight of the Monday of t's week in loc.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	d := TruncateToDay(t.In(loc))
	return d.AddDate(0, 0, -int(schedule.WeekdayOf(d)))
}

// WeekRange returns the Monday and Sunday of the week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	monday = WeekStart(t, nil)
	return monday, monday.AddDate(0, 0, schedule.DaysPerWeek-1)
}

// DateOf returns the date of day within t's week.
func DateOf(t time.Time, day schedule.Weekday) time.Time {
	return WeekStart(t, nil).AddDate(0, 0, int(day))
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ClockOf returns the time of day of t.
func ClockOf(t time.Time) schedule.Clock {
	return schedule.Clock(t.Hour()*schedule.MinutesPerHour + t.Minute())
}
