package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CenJi03/school-system-sub001/internal/summary"
)

// SummaryLineStyle selects how a summary line is drawn.
type SummaryLineStyle int

const (
	SummaryLineBody SummaryLineStyle = iota
	SummaryLineMeta
	SummaryLineSection
	SummaryLineWarning
)

// SummaryLine is one line of the week summary modal.
type SummaryLine struct {
	Text  string
	Style SummaryLineStyle
}

// SummaryStyles groups styles for the summary body.
type SummaryStyles struct {
	BodyStyle         lipgloss.Style
	MetaStyle         lipgloss.Style
	SectionTitleStyle lipgloss.Style
	WarningStyle      lipgloss.Style
}

// BuildSummaryLines builds the lines for the week summary modal.
func BuildSummaryLines(r *summary.Report) []SummaryLine {
	lines := make([]SummaryLine, 0, 24)
	if r == nil || r.Classes == 0 {
		return append(lines, SummaryLine{Text: "No classes scheduled this week."})
	}

	lines = append(lines,
		SummaryLine{Text: fmt.Sprintf("%d classes, %s of teaching", r.Classes, FormatMinutes(r.Minutes)), Style: SummaryLineMeta},
		SummaryLine{Text: fmt.Sprintf("Busiest day: %s (%s)", r.BusiestDay, FormatMinutes(r.ByDay[r.BusiestDay])), Style: SummaryLineMeta},
		SummaryLine{},
		SummaryLine{Text: "TEACHERS", Style: SummaryLineSection},
	)
	for _, l := range r.ByTeacher {
		lines = append(lines, SummaryLine{Text: fmt.Sprintf("%-18s %6s  %d classes", l.Ref.Name, FormatMinutes(l.Minutes), l.Classes)})
	}

	lines = append(lines, SummaryLine{}, SummaryLine{Text: "ROOMS", Style: SummaryLineSection})
	for _, l := range r.ByRoom {
		lines = append(lines, SummaryLine{Text: fmt.Sprintf("%-18s %6s  %d classes", l.Ref.Name, FormatMinutes(l.Minutes), l.Classes)})
	}

	if len(r.Clashes) > 0 || len(r.OverCapacity) > 0 {
		lines = append(lines, SummaryLine{}, SummaryLine{Text: "WARNINGS", Style: SummaryLineSection})
		for _, c := range r.Clashes {
			lines = append(lines, SummaryLine{Text: c.String(), Style: SummaryLineWarning})
		}
		for _, c := range r.OverCapacity {
			lines = append(lines, SummaryLine{
				Text:  fmt.Sprintf("%s %s in %s: %d students, capacity %d", c.Entry.Day, c.Entry.Course.Name, c.Entry.Room.Name, c.Entry.StudentCount, c.Capacity),
				Style: SummaryLineWarning,
			})
		}
	}

	if r.Insight != nil {
		lines = append(lines, SummaryLine{}, SummaryLine{Text: "INSIGHT", Style: SummaryLineSection})
		for _, line := range strings.Split(strings.TrimSpace(r.Insight.String()), "\n") {
			lines = append(lines, SummaryLine{Text: line})
		}
	}
	return lines
}

// RenderSummaryBody renders summary lines with their styles.
func RenderSummaryBody(lines []SummaryLine, styles SummaryStyles) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		style := styles.BodyStyle
		switch line.Style {
		case SummaryLineMeta:
			style = styles.MetaStyle
		case SummaryLineSection:
			style = styles.SectionTitleStyle
		case SummaryLineWarning:
			style = styles.WarningStyle
		}
		out[i] = style.Render(line.Text)
	}
	return strings.Join(out, "\n")
}

// SummaryText returns the plain text of lines, for copying.
func SummaryText(lines []SummaryLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.Text
	}
	return strings.Join(out, "\n")
}

// FormatMinutes formats minutes as "1h30m", "2h" or "45m".
func FormatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
