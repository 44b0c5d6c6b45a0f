package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/CenJi03/school-system-sub001/internal/dateutil"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/scheduler"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
	"github.com/CenJi03/school-system-sub001/internal/tui/view"
)

var errNoResource = errors.New("give --teacher, --room or both")

func (a *App) freeCmd() *cobra.Command {
	var (
		teacher  string
		room     string
		duration time.Duration
		days     []string
		next     bool
	)

	cmd := &cobra.Command{
		Use:   "free",
		Short: "Find free time for a teacher and room",
		Long: `List the spans of the week where a teacher and a room are both free
for at least --duration, within the grid hours from the config.

With --next only the earliest slot from now on is printed.`,
		Example: `  aula free --teacher=t-maria --room=r-102
  aula free --room=r-lab --duration=2h --day=mon --day=wed
  aula free --teacher=t-yuki --next`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if teacher == "" && room == "" {
				return errNoResource
			}
			if duration < time.Minute {
				return fmt.Errorf("duration must be at least a minute, got %s", duration)
			}
			open, err := parseDays(days)
			if err != nil {
				return err
			}

			backend, err := a.ensureBackend()
			if err != nil {
				return err
			}
			entries, err := backend.ListEntries(context.Background(), schedule.Filter{})
			if err != nil {
				return fmt.Errorf("listing classes: %w", err)
			}

			grid := timetable.NewGrid(a.config.Grid.StartHour, a.config.Grid.EndHour)
			s := scheduler.New(grid, open...)
			req := scheduler.Request{TeacherID: teacher, RoomID: room, Duration: int(duration / time.Minute)}

			if next {
				slot, ok := s.NextAvailable(time.Now(), entries, req)
				if !ok {
					fmt.Fprintln(a.out, "No free slot in the next week.")
					return nil
				}
				fmt.Fprintf(a.out, "Next free slot: %s %s %s-%s\n",
					slot.Day, slot.Date.Format(dateutil.Layout), slot.Start, slot.End)
				return nil
			}
			printWindows(a, s.FreeWindows(entries, req), req.Duration)
			return nil
		},
	}

	cmd.Flags().StringVar(&teacher, "teacher", "", "Teacher id")
	cmd.Flags().StringVar(&room, "room", "", "Room id")
	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "Class length")
	cmd.Flags().StringSliceVar(&days, "day", nil, "Only consider these weekdays (repeatable)")
	cmd.Flags().BoolVar(&next, "next", false, "Print only the earliest free slot from now")
	return cmd
}

func parseDays(names []string) ([]schedule.Weekday, error) {
	days := make([]schedule.Weekday, 0, len(names))
	for _, name := range names {
		d, err := schedule.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

func printWindows(a *App, windows []scheduler.Window, minutes int) {
	if len(windows) == 0 {
		fmt.Fprintf(a.out, "No free %s span this week.\n", view.FormatMinutes(minutes))
		return
	}
	current := schedule.Weekday(-1)
	for _, w := range windows {
		if w.Day != current {
			if current >= 0 {
				fmt.Fprintln(a.out)
			}
			fmt.Fprintf(a.out, "=== %s ===\n", w.Day)
			current = w.Day
		}
		fmt.Fprintf(a.out, "  %s-%s  %s\n", w.Start, w.End, formatMuted(view.FormatMinutes(w.Minutes())))
	}
}
