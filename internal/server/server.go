// Package server exposes a schedule store over the same HTTP API the
// client package speaks, plus timetable exports.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Address        string
	Store          Store
	Grid           timetable.Grid
	Logger         *zap.Logger
	Location       *time.Location
	DisableReqLogs bool

	// SnapshotCron, when set, writes exports to SnapshotDir on that schedule.
	SnapshotCron string
	SnapshotDir  string
}

// Server is the HTTP API.
type Server struct {
	opts Options
	app  *echo.Echo
	cron *cron.Cron
	log  *zap.Logger
}

// New builds a server. It does not start listening.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Grid.NumRows() == 0 {
		opts.Grid = timetable.DefaultGrid()
	}

	s := &Server{
		opts: opts,
		app:  echo.New(),
		log:  opts.Logger.Named("server"),
	}
	if opts.SnapshotCron != "" {
		if opts.SnapshotDir == "" {
			return nil, errors.New("server: snapshot_dir is required with snapshot_cron")
		}
		s.cron = cron.New(cron.WithLocation(opts.Location))
		snap := &Snapshotter{Store: opts.Store, Grid: opts.Grid, Dir: opts.SnapshotDir, Log: s.log}
		if _, err := s.cron.AddFunc(opts.SnapshotCron, func() {
			if _, err := snap.Run(context.Background()); err != nil {
				s.log.Error("snapshot failed", zap.Error(err))
			}
		}); err != nil {
			return nil, fmt.Errorf("server: snapshot_cron: %w", err)
		}
	}
	s.setup()
	return s, nil
}

func (s *Server) setup() {
	fv := newFormValidator()

	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Validator = fv
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.log, fv)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger(s.log))
	}
	s.app.Use(middleware.Recover())

	s.app.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := &scheduleAPI{store: s.opts.Store, grid: s.opts.Grid, loc: s.opts.Location}
	registerScheduleAPI(s.app.Group("/api"), api)
}

// ServeHTTP lets tests drive the server without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.opts.Address))
		if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if s.cron != nil {
		s.cron.Start()
		s.log.Info("snapshot job scheduled", zap.String("cron", s.opts.SnapshotCron), zap.String("dir", s.opts.SnapshotDir))
	}

	select {
	case err, ok := <-errCh:
		s.stopCron()
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	s.stopCron()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) stopCron() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
