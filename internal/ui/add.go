package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/CenJi03/school-system-sub001/internal/schedsync"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// classFlags are the class fields shared by add and edit.
type classFlags struct {
	course   string
	teacher  string
	room     string
	day      string
	start    string
	end      string
	students int
	oneOff   bool
}

func (f *classFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.course, "course", "", "Course id")
	fs.StringVar(&f.teacher, "teacher", "", "Teacher id")
	fs.StringVar(&f.room, "room", "", "Room id")
	fs.StringVar(&f.day, "day", "", "Weekday, e.g. Monday or mon")
	fs.StringVar(&f.start, "start", "", "Start time (HH:MM)")
	fs.StringVar(&f.end, "end", "", "End time (HH:MM)")
	fs.IntVar(&f.students, "students", 0, "Enrolled students")
	fs.BoolVar(&f.oneOff, "one-off", false, "Held once instead of every week")
}

// apply copies the flags set on the command line into form.
func (f *classFlags) apply(fs *pflag.FlagSet, form *schedule.FormData) error {
	if fs.Changed("course") {
		form.CourseID = f.course
	}
	if fs.Changed("teacher") {
		form.TeacherID = f.teacher
	}
	if fs.Changed("room") {
		form.RoomID = f.room
	}
	if fs.Changed("day") {
		d, err := schedule.ParseWeekday(f.day)
		if err != nil {
			return err
		}
		form.Day = d
	}
	if fs.Changed("start") {
		c, err := schedule.ParseClock(f.start)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		form.Start = c
	}
	if fs.Changed("end") {
		c, err := schedule.ParseClock(f.end)
		if err != nil {
			return fmt.Errorf("end: %w", err)
		}
		form.End = c
	}
	if fs.Changed("students") {
		form.StudentCount = f.students
	}
	if fs.Changed("one-off") {
		form.Recurring = !f.oneOff
	}
	return nil
}

func (a *App) addCmd() *cobra.Command {
	var flags classFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a new class",
		Long: `Schedule a new class.

Unless check_conflicts is disabled, the class is rejected when its teacher
or room is already busy at that time.`,
		Example: `  aula add --course=c-eng-a1 --teacher=t-james --room=r-101 --day=Monday --start=09:00 --end=11:00
  aula add --course=c-jpn-a1 --teacher=t-yuki --room=r-lab --day=fri --start=16:00 --end=17:00 --one-off`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := schedule.DefaultForm()
			if err := flags.apply(cmd.Flags(), &form); err != nil {
				return err
			}
			s, err := a.loadedSync()
			if err != nil {
				return err
			}
			return s.Create(context.Background(), form)
		},
	}

	flags.register(cmd.Flags())
	for _, name := range []string{"course", "teacher", "room", "day", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var flags classFlags

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Change a scheduled class",
		Long: `Change a scheduled class. Only the flags given are changed.

Use "aula list" to find class ids.`,
		Example: `  aula edit 3f2a --room=r-102
  aula edit 3f2a --day=Thursday --start=14:00 --end=16:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadedSync()
			if err != nil {
				return err
			}
			e, err := findEntry(s, args[0])
			if err != nil {
				return err
			}

			form := e.Form()
			if err := flags.apply(cmd.Flags(), &form); err != nil {
				return err
			}
			return s.Update(context.Background(), e.ID, form)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func (a *App) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"delete"},
		Short:   "Remove a scheduled class",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := a.loadedSync()
			if err != nil {
				return err
			}
			e, err := findEntry(s, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removing %s %s %s\n", e.Course.Name, e.Day, e.TimeRange())
			return s.Remove(context.Background(), e.ID)
		},
	}
}

// loadedSync returns a sync holding the full week, which conflict checks
// and id lookups run against.
func (a *App) loadedSync() (*schedsync.Sync, error) {
	s, err := a.newSync()
	if err != nil {
		return nil, err
	}
	if err := s.Load(context.Background(), schedule.Filter{}); err != nil {
		return nil, err
	}
	return s, nil
}

func findEntry(s *schedsync.Sync, id string) (schedule.Entry, error) {
	for _, e := range s.Snapshot() {
		if e.ID == id {
			return e, nil
		}
	}
	return schedule.Entry{}, fmt.Errorf("class %s: %w", id, schedule.ErrNotFound)
}
