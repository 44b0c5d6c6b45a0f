package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/CenJi03/school-system-sub001/internal/dateutil"
	"github.com/CenJi03/school-system-sub001/internal/export"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
)

// Snapshotter writes the current week to dated .xlsx and .ics files.
type Snapshotter struct {
	Store schedule.Backend
	Grid  timetable.Grid
	Dir   string
	Log   *zap.Logger
	Now   func() time.Time
}

// Run writes one snapshot pair and returns the file paths.
func (s *Snapshotter) Run(ctx context.Context) ([]string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}

	entries, err := s.Store.ListEntries(ctx, schedule.Filter{})
	if err != nil {
		return nil, fmt.Errorf("snapshot: listing entries: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: creating directory: %w", err)
	}

	stamp := now()
	base := filepath.Join(s.Dir, "timetable-"+stamp.Format("20060102-1504"))
	xlsxPath := base + ".xlsx"
	icsPath := base + ".ics"

	if err := writeFile(xlsxPath, func(f *os.File) error {
		title := "Week of " + dateutil.WeekStart(stamp, stamp.Location()).Format(dateutil.Layout)
		return export.WriteXLSX(f, timetable.Project(s.Grid, entries), title)
	}); err != nil {
		return nil, err
	}
	if err := writeFile(icsPath, func(f *os.File) error {
		return export.WriteICS(f, entries, export.CalendarOptions{WeekOf: stamp, Location: stamp.Location(), Now: now})
	}); err != nil {
		return nil, err
	}

	log.Info("snapshot written",
		zap.Int("entries", len(entries)),
		zap.String("xlsx", xlsxPath),
		zap.String("ics", icsPath),
	)
	return []string{xlsxPath, icsPath}, nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("snapshot: %w", err)
	}
	return f.Close()
}
