package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CenJi03/school-system-sub001/internal/schedsync"
	"github.com/CenJi03/school-system-sub001/internal/summary"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

func (a *App) weekCmd() *cobra.Command {
	var (
		teacher string
		date    string
		plain   bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the weekly timetable",
		Long: `Print the weekly timetable as a grid of days and hours.

Each class shows its course on its first hour, followed by teacher, room,
and time on the hours it continues through. Colours follow course level.
With --plain the week is printed as a list grouped by day instead.`,
		Example: `  aula week
  aula week --teacher=t-maria
  aula week --date=2025-01-15 --plain`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			filter, err := parseFilter(teacher, date)
			if err != nil {
				return err
			}
			s, err := a.newSync()
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := s.Load(ctx, filter); err != nil {
				return err
			}
			if len(s.Snapshot()) == 0 {
				fmt.Fprintln(a.out, "No classes scheduled for this week.")
				return nil
			}

			if plain {
				if err := s.LoadLookups(ctx); err != nil {
					return err
				}
				fmt.Fprint(a.out, summary.FormatWeek(s.Snapshot(), s.Lookups()))
				return nil
			}

			grid := timetable.NewGrid(a.config.Grid.StartHour, a.config.Grid.EndHour)
			width := termWidth()
			fmt.Fprintf(a.out, "\n  %s\n", formatHeader(weekTitle(teacher, date)))
			fmt.Fprintln(a.out, strings.Repeat("─", min(width, ruleWidth)))
			renderWeek(a.out, s.Project(grid), width)
			fmt.Fprintln(a.out)
			return nil
		},
	}

	cmd.Flags().StringVar(&teacher, "teacher", "", "Only show classes of this teacher id")
	cmd.Flags().StringVar(&date, "date", "", "Only show classes held on this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print a list instead of a grid")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func weekTitle(teacher, date string) string {
	title := "WEEK"
	if teacher != "" {
		title += " · teacher " + teacher
	}
	if date != "" {
		title += " · " + date
	}
	return title
}

// newSync returns a sync over the configured backend. Success
// notifications are printed; failures come back as the command's error.
func (a *App) newSync() (*schedsync.Sync, error) {
	backend, err := a.ensureBackend()
	if err != nil {
		return nil, err
	}
	notify := schedsync.NotifierFunc(func(n schedsync.Notification) {
		if n.Severity == schedsync.SeverityInfo {
			fmt.Fprintln(a.out, n.Text())
		}
	})
	return schedsync.New(backend, schedsync.Options{
		CheckConflicts: a.config.Schedule.CheckConflicts,
		Notifier:       notify,
		Logger:         a.log.Named("sync"),
	}), nil
}
