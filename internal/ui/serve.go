package ui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/CenJi03/school-system-sub001/internal/server"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

func (a *App) serveCmd() *cobra.Command {
	var (
		addr         string
		snapshotCron string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local database over the timetable API",
		Long: `Serve the local SQLite database over HTTP, speaking the same API the
client uses, so "aula" without --local can point at it.

With a snapshot schedule, the current week is also written to dated .xlsx
and .ics files in the snapshot directory.`,
		Example: `  aula serve
  aula serve --addr=:9000 --snapshot-cron="0 6 * * 1"`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			log, err := a.logger()
			if err != nil {
				return err
			}
			store, err := a.ensureStore()
			if err != nil {
				return err
			}

			cfg := a.config.Server
			if addr != "" {
				cfg.Address = addr
			}
			if snapshotCron != "" {
				cfg.SnapshotCron = snapshotCron
			}

			srv, err := server.New(server.Options{
				Address:      cfg.Address,
				Store:        store,
				Grid:         timetable.NewGrid(a.config.Grid.StartHour, a.config.Grid.EndHour),
				Logger:       log,
				SnapshotCron: cfg.SnapshotCron,
				SnapshotDir:  cfg.SnapshotDir,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&snapshotCron, "snapshot-cron", "", "Cron schedule for export snapshots (default from config)")
	return cmd
}
