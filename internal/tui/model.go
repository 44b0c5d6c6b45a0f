// Package tui provides the terminal timetable view for aula.
package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/CenJi03/school-system-sub001/internal/config"
	"github.com/CenJi03/school-system-sub001/internal/schedsync"
	"github.com/CenJi03/school-system-sub001/internal/schedule"
	"github.com/CenJi03/school-system-sub001/internal/timetable"
	"github.com/CenJi03/school-system-sub001/internal/tui/commands"
	"github.com/CenJi03/school-system-sub001/internal/tui/theme"
	"github.com/CenJi03/school-system-sub001/internal/tui/view"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeForm        // create/edit modal open
	ModeConfirmDelete
	ModeSummary
	ModeDatePrompt
)

// Position is a cursor position in the grid.
type Position struct {
	Col int // 0=Monday, 6=Sunday
	Row int // hour row
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	sync    *schedsync.Sync
	backend schedule.Backend
	notes   *schedsync.Recorder
	config  *config.Config
	log     *zap.Logger

	styles *Styles
	grid   timetable.Grid
	proj   *timetable.Projection

	cursor Position
	scroll int // first visible row
	mode   Mode
	layout Layout

	form         classForm
	datePrompt   textinput.Model
	summaryLines []view.SummaryLine

	loading    bool
	submitting bool

	width  int
	height int

	// Messages
	statusMsg  string
	statusErr  bool
	statusTime time.Time

	now       func() time.Time
	copyToClp func(string) error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// WithClipboard overrides the clipboard writer.
func WithClipboard(write func(string) error) ModelOption {
	return func(m *Model) {
		m.copyToClp = write
	}
}

// New creates a new TUI model over backend.
func New(backend schedule.Backend, cfg *config.Config, log *zap.Logger, opts ...ModelOption) *Model {
	if log == nil {
		log = zap.NewNop()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	notes := &schedsync.Recorder{}
	s := schedsync.New(backend, schedsync.Options{
		CheckConflicts: cfg.Schedule.CheckConflicts,
		Notifier:       notes,
		Logger:         log.Named("sync"),
	})

	prompt := textinput.New()
	prompt.Prompt = "Date: "
	prompt.Placeholder = "YYYY-MM-DD (empty clears)"
	prompt.CharLimit = 10
	prompt.Width = 30
	prompt.TextStyle = styles.ModalInputTextStyle
	prompt.PlaceholderStyle = styles.ModalPlaceholderStyle

	grid := timetable.NewGrid(cfg.Grid.StartHour, cfg.Grid.EndHour)
	m := &Model{
		sync:       s,
		backend:    backend,
		notes:      notes,
		config:     cfg,
		log:        log,
		styles:     styles,
		grid:       grid,
		proj:       timetable.Project(grid, nil),
		mode:       ModeNormal,
		datePrompt: prompt,
		loading:    true,
		now:        time.Now,
		copyToClp:  clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cursor = Position{Col: int(schedule.WeekdayOf(m.now())), Row: 0}
	return m
}

// Init loads the form options and the schedule.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		commands.LoadLookups(m.sync),
		commands.LoadSchedule(m.sync, schedule.Filter{TeacherID: m.config.Schedule.DefaultTeacher}),
	)
}

// Sync returns the schedule state owner.
func (m Model) Sync() *schedsync.Sync {
	return m.sync
}

// Mode returns the current interaction mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Cursor returns the cursor position.
func (m Model) Cursor() Position {
	return m.cursor
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.statusMsg
}

// themeName returns the configured theme, or one matching the terminal
// background when none is configured.
func themeName(configured string, hasDarkBackground func() bool) string {
	if configured != "" {
		return configured
	}
	if hasDarkBackground() {
		return "mocha"
	}
	return "latte"
}

// Run starts the TUI. The logger must not write to the terminal.
func Run(backend schedule.Backend, cfg *config.Config, log *zap.Logger) error {
	cfg.UI.Theme = themeName(cfg.UI.Theme, termenv.HasDarkBackground)

	model := New(backend, cfg, log)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
