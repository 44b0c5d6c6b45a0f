package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a day of the school week, Monday = 0 through Sunday = 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the number of grid columns.
const DaysPerWeek = 7

var weekdayNames = [DaysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Weekdays returns Monday through Sunday in display order.
func Weekdays() []Weekday {
	days := make([]Weekday, DaysPerWeek)
	for i := range days {
		days[i] = Weekday(i)
	}
	return days
}

// Valid returns true if the weekday is in range.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the full English name, e.g. "Monday".
func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Short returns the three-letter name, e.g. "Mon".
func (d Weekday) Short() string {
	return d.String()[:3]
}

// Next returns the following day, wrapping Sunday to Monday.
func (d Weekday) Next() Weekday {
	return (d + 1) % DaysPerWeek
}

// Prev returns the previous day, wrapping Monday to Sunday.
func (d Weekday) Prev() Weekday {
	return (d + DaysPerWeek - 1) % DaysPerWeek
}

// ParseWeekday accepts full or three-letter names in any case.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range weekdayNames {
		lower := strings.ToLower(name)
		if s == lower || s == lower[:3] {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// WeekdayOf maps a calendar date onto the Monday-first weekday.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// MarshalText implements encoding.TextMarshaler.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDay, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Weekday) UnmarshalText(b []byte) error {
	v, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
