package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CenJi03/school-system-sub001/internal/dateutil"
	"github.com/CenJi03/school-system-sub001/internal/export"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		output  string
		teacher string
		week    string
		until   string
	)

	cmd := &cobra.Command{
		Use:   "export [xlsx|ics]",
		Short: "Export the timetable to a spreadsheet or calendar",
		Long: `Export the weekly timetable.

xlsx writes the grid as a spreadsheet, one cell per hour.
ics writes a calendar; weekly classes repeat every week starting from the
week of --week (default: this week) until --until, one-off classes are
single events in that week.`,
		Example: `  aula export xlsx -o timetable.xlsx
  aula export ics -o classes.ics --teacher=t-maria --until=2025-06-30`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"xlsx", "ics"},
		RunE: func(_ *cobra.Command, args []string) error {
			format := strings.ToLower(args[0])
			if format != "xlsx" && format != "ics" {
				return fmt.Errorf("unknown export format %q, want xlsx or ics", args[0])
			}
			filter, err := parseFilter(teacher, "")
			if err != nil {
				return err
			}
			weekOf, err := parseOptionalDate(week)
			if err != nil {
				return err
			}
			untilDate, err := parseOptionalDate(until)
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

			if output == "" {
				output = "timetable." + format
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := a.writeExport(f, format, entries, weekOf, untilDate); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(a.out, "Exported %d classes to %s\n", len(entries), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default timetable.<format>)")
	cmd.Flags().StringVar(&teacher, "teacher", "", "Only export classes of this teacher id")
	cmd.Flags().StringVar(&week, "week", "", "Any date in the first exported week (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "Last date of weekly recurrences, ics only (YYYY-MM-DD)")
	return cmd
}

func (a *App) writeExport(w io.Writer, format string, entries []schedule.Entry, weekOf, until time.Time) error {
	if weekOf.IsZero() {
		weekOf = time.Now()
	}
	switch format {
	case "xlsx":
		grid := timetable.NewGrid(a.config.Grid.StartHour, a.config.Grid.EndHour)
		title := "Week of " + dateutil.WeekStart(weekOf, time.Local).Format(dateutil.Layout)
		return export.WriteXLSX(w, timetable.Project(grid, entries), title)
	default:
		return export.WriteICS(w, entries, export.CalendarOptions{WeekOf: weekOf, Until: until})
	}
}

func parseOptionalDate(s string) (time.Time, error) {
	f, err := parseFilter("", s)
	if err != nil || f.Date == nil {
		return time.Time{}, err
	}
	return *f.Date, nil
}
