package timetable

import (
	"testing"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

func TestSlots(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		wantFirst  int
		wantLast   int
		wantLen    int
	}{
		{name: "default", start: 8, end: 20, wantFirst: 8, wantLast: 20, wantLen: 13},
		{name: "single row", start: 9, end: 9, wantFirst: 9, wantLast: 9, wantLen: 1},
		{name: "reversed", start: 12, end: 10, wantFirst: 10, wantLast: 12, wantLen: 3},
		{name: "clamped", start: -3, end: 30, wantFirst: 0, wantLast: 23, wantLen: 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slots(tt.start, tt.end)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if got[0] != schedule.At(tt.wantFirst) || got[len(got)-1] != schedule.At(tt.wantLast) {
				t.Errorf("range = %s..%s, want %02d:00..%02d:00", got[0], got[len(got)-1], tt.wantFirst, tt.wantLast)
			}
			for i := 1; i < len(got); i++ {
				if got[i]-got[i-1] != schedule.MinutesPerHour {
					t.Errorf("slot %d not one hour after previous", i)
				}
			}
		})
	}
}

func TestSlotsDeterministic(t *testing.T) {
	a := Slots(8, 20)
	b := Slots(8, 20)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Slots not deterministic at %d", i)
		}
	}
}

func TestDays(t *testing.T) {
	days := Days()
	want := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if len(days) != len(want) {
		t.Fatalf("len = %d, want 7", len(days))
	}
	for i, d := range days {
		if d.String() != want[i] {
			t.Errorf("Days()[%d] = %s, want %s", i, d, want[i])
		}
	}
}

func TestGridRowOf(t *testing.T) {
	g := DefaultGrid()
	if g.Last() != schedule.At(20) || g.First() != schedule.At(8) {
		t.Fatalf("default grid = %s..%s", g.First(), g.Last())
	}
	tests := []struct {
		slot    schedule.Clock
		wantRow int
		wantOK  bool
	}{
		{schedule.At(8), 0, true},
		{schedule.At(20), 12, true},
		{schedule.At(7), 0, false},
		{schedule.At(21), 0, false},
		{schedule.MustParseClock("09:30"), 0, false},
	}
	for _, tt := range tests {
		row, ok := g.RowOf(tt.slot)
		if ok != tt.wantOK || (ok && row != tt.wantRow) {
			t.Errorf("RowOf(%s) = %d, %v; want %d, %v", tt.slot, row, ok, tt.wantRow, tt.wantOK)
		}
	}
}

func TestGridSlotsIsCopy(t *testing.T) {
	g := DefaultGrid()
	s := g.Slots()
	s[0] = schedule.At(0)
	if g.First() != schedule.At(8) {
		t.Error("modifying Slots() result changed the grid")
	}
}
