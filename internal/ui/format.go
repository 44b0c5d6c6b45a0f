package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/summary"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
	"github.com/CenJi03/school-system-sub001/internal/tui/view"
)

const (
	timeLabelWidth = 6 // "08:00 "
	minCellWidth   = 6
	ruleWidth      = 74
)

// weekCellWidth returns the day column width for a terminal width.
func weekCellWidth(width int) int {
	return max((width-timeLabelWidth-schedule.DaysPerWeek)/schedule.DaysPerWeek, minCellWidth)
}

// renderWeek prints the projection as a grid, one line per hour. Each
// block shows its course on the first row, then teacher, room, and time.
func renderWeek(w io.Writer, p *timetable.Projection, width int) {
	cw := weekCellWidth(width)

	header := strings.Repeat(" ", timeLabelWidth)
	for d := range schedule.DaysPerWeek {
		header += " " + center(schedule.Weekday(d).Short(), cw)
	}
	fmt.Fprintln(w, formatHeader(header))

	for _, row := range p.Rows() {
		if len(row) == 0 {
			continue
		}
		var line strings.Builder
		line.WriteString(formatMuted(row[0].Slot.String()) + " ")
		for _, cell := range row {
			line.WriteString(" ")
			line.WriteString(weekCell(cell, cw))
		}
		fmt.Fprintln(w, line.String())
	}
}

func weekCell(cell timetable.Cell, width int) string {
	if cell.IsEmpty() {
		return formatMuted(view.Fit("·", width))
	}
	offset := int(cell.Slot-cell.Entry.Start) / schedule.MinutesPerHour
	text := view.BlockLines(cell.Entry, width-1, offset+1)[offset]
	mark := "│"
	if cell.State == timetable.Anchor {
		mark = "┃"
	}
	return formatLevel(cell.Entry.Course.Level, mark+text)
}

func center(s string, width int) string {
	pad := width - ansi.StringWidth(s)
	if pad <= 0 {
		return view.Fit(s, width)
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// sortEntries orders entries by day, start, and course name.
func sortEntries(entries []schedule.Entry) []schedule.Entry {
	sorted := make([]schedule.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Course.Name < b.Course.Name
	})
	return sorted
}

// printEntryRow prints one class with its id.
func printEntryRow(w io.Writer, e schedule.Entry) {
	extra := ""
	if e.StudentCount > 0 {
		extra = fmt.Sprintf("  %d students", e.StudentCount)
	}
	if !e.Recurring {
		extra += "  " + formatMuted("one-off")
	}
	fmt.Fprintf(w, "  %s  %s  %s  %s, %s%s\n",
		formatMuted(e.ID),
		e.TimeRange(),
		formatLevel(e.Course.Level, e.Course.Name),
		e.Teacher.Name,
		e.Room.Name,
		extra,
	)
}

// printEntries prints entries grouped by day.
func printEntries(w io.Writer, entries []schedule.Entry) {
	current := schedule.Weekday(-1)
	for _, e := range sortEntries(entries) {
		if e.Day != current {
			if current >= 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "=== %s ===\n", e.Day)
			current = e.Day
		}
		printEntryRow(w, e)
	}
}

// printReport prints a week summary. Insight lines are wrapped to width.
func printReport(w io.Writer, r *summary.Report, width int) {
	fmt.Fprintf(w, "\n  %s\n", formatHeader("WEEK SUMMARY"))
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))

	insight := false
	for _, line := range view.BuildSummaryLines(r) {
		switch line.Style {
		case view.SummaryLineSection:
			insight = line.Text == "INSIGHT"
			fmt.Fprintf(w, "  %s\n", formatHeader(line.Text))
		case view.SummaryLineMeta:
			fmt.Fprintf(w, "  %s\n", line.Text)
		case view.SummaryLineWarning:
			fmt.Fprintf(w, "    %s\n", formatWarning(line.Text))
		default:
			switch {
			case line.Text == "":
				fmt.Fprintln(w)
			case insight:
				wrapAndPrint(w, strings.TrimSpace(line.Text), insightPrefix(line.Text), width-4)
			default:
				fmt.Fprintf(w, "    %s\n", line.Text)
			}
		}
	}
	fmt.Fprintln(w)
}

// insightPrefix keeps the markers of review risks and suggestions.
func insightPrefix(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "! "), strings.HasPrefix(trimmed, "> "):
		return "    "
	default:
		return "  "
	}
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := ""
	continuation := strings.Repeat(" ", len(prefix)+2)
	first := true

	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			printLine(w, prefix, continuation, line, first)
			first = false
			line = word
		}
	}

	if line != "" {
		printLine(w, prefix, continuation, line, first)
	}
}

func printLine(w io.Writer, prefix, continuation, line string, first bool) {
	if first {
		fmt.Fprintln(w, formatInsight(prefix+line))
	} else {
		fmt.Fprintln(w, formatInsight(continuation+line))
	}
}
