package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CenJi03/school-system-sub001/internal/seed"
)

func (a *App) seedCmd() *cobra.Command {
	var (
		dump          bool
		skipConflicts bool
	)

	cmd := &cobra.Command{
		Use:   "seed [fixture.yaml]",
		Short: "Load teachers, courses, rooms and classes into the local database",
		Long: `Load a YAML fixture into the local SQLite database.

Without a file the built-in demo week is loaded. Teachers, courses and
rooms are upserted by id; classes are added. With --dump the current
timetable is printed in the same format instead, from the API unless
--local is given.`,
		Example: `  aula seed
  aula seed school.yaml --skip-conflicts
  aula seed --dump > school.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			if dump {
				return a.dumpFixture(ctx)
			}

			fixture, err := loadFixture(args)
			if err != nil {
				return err
			}
			log, err := a.logger()
			if err != nil {
				return err
			}
			store, err := a.ensureStore()
			if err != nil {
				return err
			}

			res, err := seed.Apply(ctx, store, fixture, skipConflicts)
			if err != nil {
				return fmt.Errorf("seeding after %s: %w", res, err)
			}
			log.Debug("seeded database", zap.String("path", a.config.Storage.DBPath), zap.Stringer("result", res))
			fmt.Fprintf(a.out, "Seeded %s into %s\n", res, a.config.Storage.DBPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Print the current timetable as a fixture")
	cmd.Flags().BoolVar(&skipConflicts, "skip-conflicts", false, "Skip classes that clash instead of stopping")
	return cmd
}

func loadFixture(args []string) (*seed.Fixture, error) {
	if len(args) == 0 {
		return seed.Default()
	}
	return seed.Load(args[0])
}

func (a *App) dumpFixture(ctx context.Context) error {
	backend, err := a.ensureBackend()
	if err != nil {
		return err
	}
	fixture, err := seed.Dump(ctx, backend)
	if err != nil {
		return fmt.Errorf("dumping timetable: %w", err)
	}
	data, err := fixture.Marshal()
	if err != nil {
		return err
	}
	_, err = a.out.Write(data)
	return err
}
