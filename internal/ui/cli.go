// Package ui implements the aula command line.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CenJi03/school-system-sub001/internal/api"
	"github.com/CenJi03/school-system-sub001/internal/config"
	"github.com/CenJi03/school-system-sub001/internal/db"
	"github.com/CenJi03/school-system-sub001/internal/logging"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config  *config.Config
	root    *cobra.Command
	out     io.Writer
	log     *zap.Logger
	backend schedule.Backend
	store   *db.SQLite // set when the backend is local

	local bool // use the SQLite store instead of the REST API
	debug bool // enable debug logging
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, out: os.Stdout}

	a.root = &cobra.Command{
		Use:   "aula",
		Short: "Weekly class timetable for a language school",
		Long: `Aula shows the school's weekly timetable as a grid of days and hours.

Run without arguments to open the interactive timetable. Classes are read
from the school API, or from a local SQLite database with --local.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}

	a.root.PersistentFlags().BoolVar(&a.local, "local", false, "Use the local SQLite database instead of the API")
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.rmCmd())
	a.root.AddCommand(a.freeCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.seedCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.summaryCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "aula %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// SetArgs overrides the command line arguments, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Close releases the backend and flushes the logger.
func (a *App) Close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// logger builds the logger once. Command output goes to stdout, so logs go
// to stderr unless a log file is configured.
func (a *App) logger() (*zap.Logger, error) {
	if a.log != nil {
		return a.log, nil
	}
	cfg := a.config.Log
	if a.debug {
		cfg.Level = "debug"
	}
	log, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	a.log = log
	return log, nil
}

// ensureBackend opens the configured backend on first use.
func (a *App) ensureBackend() (schedule.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	log, err := a.logger()
	if err != nil {
		return nil, err
	}

	if a.local {
		store, err := a.ensureStore()
		if err != nil {
			return nil, err
		}
		a.backend = store
		return a.backend, nil
	}

	timeout, err := a.config.APITimeout()
	if err != nil {
		return nil, err
	}
	opts := []api.Option{api.WithTimeout(timeout), api.WithLogger(log)}
	if a.config.API.Token != "" {
		opts = append(opts, api.WithToken(a.config.API.Token))
	}
	a.backend = api.New(a.config.API.BaseURL, opts...)
	log.Debug("using api backend", zap.String("base_url", a.config.API.BaseURL))
	return a.backend, nil
}

// ensureStore opens the SQLite database. Seeding and serving always need it.
func (a *App) ensureStore() (*db.SQLite, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.store = store
	if a.log != nil {
		a.log.Debug("opened database", zap.String("path", a.config.Storage.DBPath))
	}
	return store, nil
}

// runTUI starts the interactive timetable. The TUI owns the terminal, so
// logs always go to a file.
func (a *App) runTUI() error {
	if a.config.Log.File == "" {
		a.config.Log.File = config.DefaultLogPath()
	}
	backend, err := a.ensureBackend()
	if err != nil {
		return err
	}
	return tui.Run(backend, a.config, a.log.Named("tui"))
}
