// Package summary aggregates teaching load for a week of classes.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/CenJi03/school-system-sub001/internal/llm"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// Load is the time one teacher or room spends in class.
type Load struct {
	Ref     schedule.Ref
	Minutes int
	Classes int
}

// Hours returns Minutes as fractional hours.
func (l Load) Hours() float64 {
	return float64(l.Minutes) / schedule.MinutesPerHour
}

// Crowded is a class with more students than its room holds.
type Crowded struct {
	Entry    schedule.Entry
	Capacity int
}

// Clash is two classes that share a teacher or room at the same time.
type Clash struct {
	Resource string
	First    schedule.Entry
	Second   schedule.Entry
}

func (c Clash) String() string {
	return fmt.Sprintf("%s clash on %s: %s %s and %s %s", c.Resource, c.First.Day,
		c.First.Course.Name, c.First.TimeRange(), c.Second.Course.Name, c.Second.TimeRange())
}

// Report holds aggregated week data and optional insight.
type Report struct {
	Classes      int
	Minutes      int
	ByTeacher    []Load
	ByRoom       []Load
	ByDay        [schedule.DaysPerWeek]int
	BusiestDay   schedule.Weekday
	Clashes      []Clash
	OverCapacity []Crowded
	Insight      *llm.Review
}

// Options configures Build.
type Options struct {
	Filter         schedule.Filter
	IncludeInsight bool
	Provider       string
	Model          string
	BaseURL        string
}

// Summarize aggregates entries. Room capacities come from lookups when known.
func Summarize(entries []schedule.Entry, lookups schedule.Lookups) *Report {
	r := &Report{Classes: len(entries)}
	teachers := map[string]*Load{}
	rooms := map[string]*Load{}

	for _, e := range entries {
		minutes := int(e.End - e.Start)
		if minutes < 0 {
			minutes = 0
		}
		r.Minutes += minutes
		if e.Day.Valid() {
			r.ByDay[e.Day] += minutes
		}
		addLoad(teachers, e.Teacher, minutes)
		addLoad(rooms, e.Room, minutes)

		if room, ok := lookups.Room(e.Room.ID); ok && room.Capacity > 0 && e.StudentCount > room.Capacity {
			r.OverCapacity = append(r.OverCapacity, Crowded{Entry: e, Capacity: room.Capacity})
		}
	}

	r.ByTeacher = sortedLoads(teachers)
	r.ByRoom = sortedLoads(rooms)
	for _, d := range schedule.Weekdays() {
		if r.ByDay[d] > r.ByDay[r.BusiestDay] {
			r.BusiestDay = d
		}
	}
	r.Clashes = findClashes(entries)
	return r
}

func addLoad(m map[string]*Load, ref schedule.Ref, minutes int) {
	l, ok := m[ref.ID]
	if !ok {
		l = &Load{Ref: ref}
		m[ref.ID] = l
	}
	l.Minutes += minutes
	l.Classes++
}

func sortedLoads(m map[string]*Load) []Load {
	out := make([]Load, 0, len(m))
	for _, l := range m {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Ref.Name < out[j].Ref.Name
	})
	return out
}

// findClashes reports each clashing pair once, checking every entry
// against the ones before it.
func findClashes(entries []schedule.Entry) []Clash {
	var out []Clash
	for i := 1; i < len(entries); i++ {
		e := entries[i]
		for _, c := range schedule.FindConflicts(entries[:i], e.Form(), e.ID) {
			out = append(out, Clash{Resource: c.Resource, First: c.With, Second: e})
		}
	}
	return out
}

// FormatWeek renders entries day by day for a model prompt.
func FormatWeek(entries []schedule.Entry, lookups schedule.Lookups) string {
	sorted := make([]schedule.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].Start < sorted[j].Start
	})

	var sb strings.Builder
	current := schedule.Weekday(-1)
	for _, e := range sorted {
		if e.Day != current {
			if current >= 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(e.Day.String())
			sb.WriteString("\n")
			current = e.Day
		}
		capacity := ""
		if room, ok := lookups.Room(e.Room.ID); ok && room.Capacity > 0 {
			capacity = fmt.Sprintf("/%d", room.Capacity)
		}
		fmt.Fprintf(&sb, "  %s  %s (%s)  teacher: %s  room: %s  students: %d%s\n",
			e.TimeRange(), e.Course.Name, e.Course.Level, e.Teacher.Name, e.Room.Name, e.StudentCount, capacity)
	}
	return sb.String()
}

// Build loads the week from b and optionally asks a model for a review.
func Build(ctx context.Context, b schedule.Backend, opts Options) (*Report, error) {
	entries, err := b.ListEntries(ctx, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}
	lookups, err := schedule.LoadLookups(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("fetching lookups: %w", err)
	}

	report := Summarize(entries, lookups)

	if opts.IncludeInsight && len(entries) > 0 {
		client, err := llm.NewClient(opts.Provider, opts.Model, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("creating LLM client: %w", err)
		}
		review, err := llm.NewAdvisor(client).ReviewWeek(ctx, FormatWeek(entries, lookups))
		if err != nil {
			return nil, err
		}
		report.Insight = &review
	}
	return report, nil
}
