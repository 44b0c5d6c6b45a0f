package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a time of day in minutes since midnight.
// 24:00 is allowed as a closing bound.
type Clock int

const (
	// MinutesPerHour is the length of one grid slot.
	MinutesPerHour = 60
	// EndOfDay is the largest representable clock value (24:00).
	EndOfDay Clock = 24 * MinutesPerHour
)

// At returns the clock for the given whole hour.
func At(hour int) Clock {
	return Clock(hour * MinutesPerHour).Clamp()
}

// ParseClock parses "HH:MM" or "HH:MM:SS" (seconds are dropped).
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return Clock(h*MinutesPerHour + m), nil
}

// MustParseClock is like ParseClock but panics on error. Intended for tests and constants.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hour returns the hour component.
func (c Clock) Hour() int {
	return int(c) / MinutesPerHour
}

// Minute returns the minute component.
func (c Clock) Minute() int {
	return int(c) % MinutesPerHour
}

// Clamp bounds the clock to 00:00..24:00.
func (c Clock) Clamp() Clock {
	if c < 0 {
		return 0
	}
	if c > EndOfDay {
		return EndOfDay
	}
	return c
}

// AddHours returns c shifted by n hours, capped at limit.
func (c Clock) AddHours(n int, limit Clock) Clock {
	next := c + Clock(n*MinutesPerHour)
	if next > limit {
		return limit
	}
	return next.Clamp()
}

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	c = c.Clamp()
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// HoursBetween returns the number of whole hours from start to end.
func HoursBetween(start, end Clock) int {
	return end.Hour() - start.Hour()
}

// Overlaps reports whether [s1, e1) and [s2, e2) intersect.
func Overlaps(s1, e1, s2, e2 Clock) bool {
	return s1 < e2 && s2 < e1
}

// OverlapMinutes returns the length of the intersection of two ranges.
func OverlapMinutes(s1, e1, s2, e2 Clock) int {
	lo := max(s1, s2)
	hi := min(e1, e2)
	if hi <= lo {
		return 0
	}
	return int(hi - lo)
}
