package timetable

import (
	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

func entry(id string, day schedule.Weekday, startHour, endHour int) schedule.Entry {
	return schedule.Entry{
		ID:      id,
		Day:     day,
		Start:   schedule.At(startHour),
		End:     schedule.At(endHour),
		Course:  schedule.Course{ID: "c-" + id, Name: "Course " + id},
		Teacher: schedule.Ref{ID: "t-" + id, Name: "Teacher " + id},
		Room:    schedule.Ref{ID: "r-" + id, Name: "Room " + id},
	}
}

// column returns one day of a projection as a string, top to bottom.
func column(p *Projection, day schedule.Weekday) string {
	var out []rune
	for row := 0; row < p.Grid().NumRows(); row++ {
		c, _ := p.Cell(row, int(day))
		out = append(out, cellRune(c))
	}
	return string(out)
}
