package export

import (
	"errors"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/CenJi03/school-system-sub001/internal/dateutil"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// Occurrence is one dated class.
type Occurrence struct {
	Entry schedule.Entry
	Start time.Time
	End   time.Time
}

// Occurrences expands entries into dated classes within [from, to).
// Recurring entries repeat weekly from the week of from; one-off entries
// only occur in that first week.
func Occurrences(entries []schedule.Entry, from, to time.Time, loc *time.Location) ([]Occurrence, error) {
	if to.Before(from) {
		return nil, errors.New("agenda: range end is before range start")
	}
	if loc == nil {
		loc = time.Local
	}
	monday := dateutil.WeekStart(from, loc)

	var out []Occurrence
	for _, e := range entries {
		if !e.Day.Valid() {
			continue
		}
		start, end := OccurrenceStart(e, monday)
		length := end.Sub(start)

		if !e.Recurring {
			if !start.Before(from) && start.Before(to) {
				out = append(out, Occurrence{Entry: e, Start: start, End: end})
			}
			continue
		}

		r, err := WeeklyRule(e, start, time.Time{})
		if err != nil {
			return nil, err
		}
		set := rrule.Set{}
		set.RRule(r)
		for _, s := range set.Between(from, to, true) {
			if !s.Before(to) {
				continue
			}
			out = append(out, Occurrence{Entry: e, Start: s, End: s.Add(length)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}
