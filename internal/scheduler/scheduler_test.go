package scheduler

import (
	"testing"
	"time"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

func class(day schedule.Weekday, start, end int, teacher, room string) schedule.Entry {
	return schedule.Entry{
		Day:     day,
		Start:   schedule.At(start),
		End:     schedule.At(end),
		Teacher: schedule.Ref{ID: teacher},
		Room:    schedule.Ref{ID: room},
	}
}

func week() []schedule.Entry {
	return []schedule.Entry{
		class(schedule.Monday, 9, 11, "t-james", "r-101"),
		class(schedule.Tuesday, 10, 12, "t-maria", "r-101"),
		class(schedule.Thursday, 10, 12, "t-maria", "r-101"),
		class(schedule.Saturday, 10, 13, "t-yuki", "r-lab"),
	}
}

func clock(s string) schedule.Clock {
	return schedule.MustParseClock(s)
}

func TestFreeWindows_TeacherBusy(t *testing.T) {
	s := New(timetable.DefaultGrid())
	got := s.FreeWindows(week(), Request{TeacherID: "t-maria", RoomID: "r-102", Duration: 60})

	want := []Window{
		{schedule.Monday, clock("08:00"), clock("20:00")},
		{schedule.Tuesday, clock("08:00"), clock("10:00")},
		{schedule.Tuesday, clock("12:00"), clock("20:00")},
		{schedule.Wednesday, clock("08:00"), clock("20:00")},
		{schedule.Thursday, clock("08:00"), clock("10:00")},
		{schedule.Thursday, clock("12:00"), clock("20:00")},
		{schedule.Friday, clock("08:00"), clock("20:00")},
		{schedule.Saturday, clock("08:00"), clock("20:00")},
		{schedule.Sunday, clock("08:00"), clock("20:00")},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d windows, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("window %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFreeWindows_DropsShortGaps(t *testing.T) {
	s := New(timetable.DefaultGrid())
	got := s.FreeWindows(week(), Request{TeacherID: "t-yuki", RoomID: "r-101", Duration: 120})

	var monday []Window
	for _, w := range got {
		if w.Day == schedule.Monday {
			monday = append(monday, w)
		}
	}
	// 08:00-09:00 is free but too short.
	if len(monday) != 1 || monday[0].Start != clock("11:00") || monday[0].End != clock("20:00") {
		t.Errorf("Monday windows = %+v, want only 11:00-20:00", monday)
	}
}

func TestFreeWindows_MergesOverlappingClasses(t *testing.T) {
	entries := []schedule.Entry{
		class(schedule.Monday, 9, 11, "t-james", "r-101"),
		class(schedule.Monday, 10, 12, "t-maria", "r-102"),
		class(schedule.Monday, 19, 22, "t-james", "r-lab"),
	}
	s := New(timetable.DefaultGrid(), schedule.Monday)
	got := s.FreeWindows(entries, Request{TeacherID: "t-james", RoomID: "r-102", Duration: 30})

	want := []Window{
		{schedule.Monday, clock("08:00"), clock("09:00")},
		{schedule.Monday, clock("12:00"), clock("19:00")},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("window %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFreeWindows_ClosedDays(t *testing.T) {
	s := New(timetable.DefaultGrid(), schedule.Monday, schedule.Friday)
	for _, w := range s.FreeWindows(nil, Request{}) {
		if w.Day != schedule.Monday && w.Day != schedule.Friday {
			t.Errorf("window on closed day %s", w.Day)
		}
	}
	if s.IsOpen(schedule.Sunday) {
		t.Error("Sunday should be closed")
	}
}

func TestCanFit(t *testing.T) {
	s := New(timetable.DefaultGrid())
	req := Request{TeacherID: "t-maria", RoomID: "r-102"}

	tests := []struct {
		name     string
		day      schedule.Weekday
		start    string
		duration int
		want     bool
	}{
		{"right after a class", schedule.Tuesday, "12:00", 60, true},
		{"overlaps a class", schedule.Tuesday, "09:30", 60, false},
		{"ends at a class", schedule.Tuesday, "09:00", 60, true},
		{"past closing", schedule.Tuesday, "19:00", 120, false},
		{"ends at closing", schedule.Tuesday, "19:00", 60, true},
		{"before opening", schedule.Monday, "07:00", 60, false},
		{"default duration", schedule.Wednesday, "19:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Duration = tt.duration
			if got := s.CanFit(week(), req, tt.day, clock(tt.start)); got != tt.want {
				t.Errorf("CanFit(%s %s, %dm) = %v, want %v", tt.day, tt.start, tt.duration, got, tt.want)
			}
		})
	}
}

func TestNextAvailable(t *testing.T) {
	workweek := []schedule.Weekday{schedule.Monday, schedule.Tuesday, schedule.Wednesday, schedule.Thursday, schedule.Friday}
	req := Request{TeacherID: "t-maria", RoomID: "r-102", Duration: 60}

	tests := []struct {
		name      string
		days      []schedule.Weekday
		now       time.Time
		wantDate  string
		wantStart string
	}{
		{
			name:      "before opening",
			now:       time.Date(2026, 10, 20, 7, 10, 0, 0, time.UTC), // Tuesday
			wantDate:  "2026-10-20",
			wantStart: "08:00",
		},
		{
			name:      "during a class",
			now:       time.Date(2026, 10, 20, 10, 23, 0, 0, time.UTC),
			wantDate:  "2026-10-20",
			wantStart: "12:00",
		},
		{
			name:      "rounds up to the step",
			now:       time.Date(2026, 10, 20, 13, 1, 0, 0, time.UTC),
			wantDate:  "2026-10-20",
			wantStart: "13:15",
		},
		{
			name:      "too late today",
			now:       time.Date(2026, 10, 20, 19, 40, 0, 0, time.UTC),
			wantDate:  "2026-10-21",
			wantStart: "08:00",
		},
		{
			name:      "weekend skipped",
			days:      workweek,
			now:       time.Date(2026, 10, 24, 9, 0, 0, 0, time.UTC), // Saturday
			wantDate:  "2026-10-26",
			wantStart: "08:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(timetable.DefaultGrid(), tt.days...)
			slot, ok := s.NextAvailable(tt.now, week(), req)
			if !ok {
				t.Fatal("expected a slot")
			}
			if got := slot.Date.Format("2006-01-02"); got != tt.wantDate {
				t.Errorf("date = %s, want %s", got, tt.wantDate)
			}
			if slot.Start != clock(tt.wantStart) || slot.End != slot.Start+60 {
				t.Errorf("slot = %s-%s, want %s for 1h", slot.Start, slot.End, tt.wantStart)
			}
			if slot.Day != schedule.WeekdayOf(slot.Date) {
				t.Errorf("day %s does not match date %s", slot.Day, slot.Date)
			}
		})
	}
}

func TestNextAvailable_FullyBooked(t *testing.T) {
	entries := []schedule.Entry{class(schedule.Monday, 8, 20, "t-james", "r-101")}
	s := New(timetable.DefaultGrid(), schedule.Monday)
	now := time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC)
	if slot, ok := s.NextAvailable(now, entries, Request{TeacherID: "t-james"}); ok {
		t.Errorf("expected no slot, got %+v", slot)
	}
}

func TestRoundUp(t *testing.T) {
	tests := map[string]string{
		"10:23": "10:30",
		"10:30": "10:30",
		"10:46": "11:00",
		"23:59": "24:00",
	}
	for in, want := range tests {
		if got := roundUp(clock(in)); got != clock(want) {
			t.Errorf("roundUp(%s) = %s, want %s", in, got, want)
		}
	}
}
