package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/CenJi03/school-system-sub001/internal/dateutil"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

const productID = "-//aula//weekly timetable//EN"

var rruleDays = [schedule.DaysPerWeek]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// CalendarOptions controls how weekly entries are anchored to real dates.
type CalendarOptions struct {
	// WeekOf is any date in the first week of the calendar.
	WeekOf time.Time
	// Until ends weekly recurrences. Zero means open ended.
	Until time.Time
	// Location for event times. Nil means time.Local.
	Location *time.Location
	// Now stamps DTSTAMP. Nil means time.Now.
	Now func() time.Time
}

func (o CalendarOptions) normalize() CalendarOptions {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.WeekOf.IsZero() {
		o.WeekOf = o.Now()
	}
	return o
}

// OccurrenceStart returns the first dated start of e in the week starting at monday.
func OccurrenceStart(e schedule.Entry, monday time.Time) (time.Time, time.Time) {
	day := monday.AddDate(0, 0, int(e.Day))
	start := day.Add(time.Duration(e.Start) * time.Minute)
	end := day.Add(time.Duration(e.End) * time.Minute)
	return start, end
}

// WeeklyRule returns the RRULE value for a recurring entry.
func WeeklyRule(e schedule.Entry, dtstart, until time.Time) (*rrule.RRule, error) {
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   dtstart,
		Byweekday: []rrule.Weekday{rruleDays[e.Day]},
	}
	if !until.IsZero() {
		opt.Until = until
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("building weekly rule for %s: %w", e.ID, err)
	}
	return r, nil
}

// BuildCalendar converts entries to an iCalendar document. Recurring entries
// repeat weekly, the rest become a single event in the first week.
func BuildCalendar(entries []schedule.Entry, opts CalendarOptions) (*ics.Calendar, error) {
	opts = opts.normalize()
	monday := dateutil.WeekStart(opts.WeekOf, opts.Location)
	stamp := opts.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, e := range entries {
		if !e.Day.Valid() {
			continue
		}
		start, end := OccurrenceStart(e, monday)

		ev := cal.AddEvent(eventUID(e))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(e.Course.Name)
		ev.SetLocation(e.Room.Name)
		ev.SetDescription(describe(e))

		if e.Recurring {
			r, err := WeeklyRule(e, start, opts.Until)
			if err != nil {
				return nil, err
			}
			ev.AddRrule(r.OrigOptions.RRuleString())
		}
	}
	return cal, nil
}

// WriteICS writes entries as an .ics document.
func WriteICS(w io.Writer, entries []schedule.Entry, opts CalendarOptions) error {
	cal, err := BuildCalendar(entries, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("%w: writing calendar: %w", ErrGenerate, err)
	}
	return nil
}

func eventUID(e schedule.Entry) string {
	return "entry-" + e.ID + "@aula"
}

func describe(e schedule.Entry) string {
	parts := []string{"Teacher: " + e.Teacher.Name}
	if e.Course.Level != "" {
		parts = append(parts, "Level: "+string(e.Course.Level))
	}
	if e.StudentCount > 0 {
		parts = append(parts, fmt.Sprintf("Students: %d", e.StudentCount))
	}
	return strings.Join(parts, "\n")
}
