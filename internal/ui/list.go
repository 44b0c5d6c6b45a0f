package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CenJi03/school-system-sub001/internal/dateutil"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// parseFilter builds a filter from command flags.
func parseFilter(teacher, date string) (schedule.Filter, error) {
	f := schedule.Filter{TeacherID: strings.TrimSpace(teacher)}
	if date = strings.TrimSpace(date); date != "" {
		d, err := dateutil.ParseDate(date, time.Now())
		if err != nil {
			return schedule.Filter{}, fmt.Errorf("invalid date %q: %w", date, err)
		}
		f.Date = &d
	}
	return f, nil
}

func (a *App) listCmd() *cobra.Command {
	var (
		teacher string
		date    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classes with their ids",
		Long: `List all classes grouped by day, with the ids used by edit and rm.

--date lists the classes held on the weekday of that date. Besides
YYYY-MM-DD it accepts today, tomorrow, yesterday and weekday names.`,
		Example: `  aula list
  aula list --teacher=t-maria
  aula list --date=2025-01-15
  aula list --date=tomorrow`,
		RunE: func(_ *cobra.Command, _ []string) error {
			filter, err := parseFilter(teacher, date)
			if err != nil {
				return err
			}
			backend, err := a.ensureBackend()
			if err != nil {
				return err
			}

			entries, err := backend.ListEntries(context.Background(), filter)
			if err != nil {
				return fmt.Errorf("listing classes: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No classes found.")
				return nil
			}
			printEntries(a.out, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&teacher, "teacher", "", "Only list classes of this teacher id")
	cmd.Flags().StringVar(&date, "date", "", "Only list classes held on this date (YYYY-MM-DD)")
	return cmd
}
