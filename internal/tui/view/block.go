package view

import (
	"fmt"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// BlockLines returns the text lines of a class block, top to bottom,
// each fitted to width. The block is lines tall; details that do not fit
// are dropped from the bottom.
func BlockLines(e schedule.Entry, width, lines int) []string {
	if lines <= 0 {
		return nil
	}
	details := []string{
		e.Course.Name,
		e.Teacher.Name,
		e.Room.Name,
		e.TimeRange(),
	}
	if e.StudentCount > 0 {
		details = append(details, fmt.Sprintf("%d students", e.StudentCount))
	}
	if !e.Recurring {
		details = append(details, "one-off")
	}

	out := make([]string, lines)
	for i := range out {
		text := ""
		if i < len(details) {
			text = details[i]
		}
		out[i] = Fit(text, width)
	}
	return out
}

// CopyText returns a one-line description of an entry for the clipboard.
func CopyText(e schedule.Entry) string {
	s := fmt.Sprintf("%s %s %s, %s, %s", e.Day, e.TimeRange(), e.Course.Name, e.Teacher.Name, e.Room.Name)
	if e.StudentCount > 0 {
		s += fmt.Sprintf(", %d students", e.StudentCount)
	}
	return s
}
