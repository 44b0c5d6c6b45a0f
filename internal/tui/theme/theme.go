// Package theme provides color themes for the timetable view.
package theme

import (
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

const defaultTheme = "mocha"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name         string `toml:"name"`
	Bg           string `toml:"bg"`           // Base background
	BgHighlight  string `toml:"bg_highlight"` // Grid lines, modal panel
	BgSelection  string `toml:"bg_selection"` // Cursor
	Fg           string `toml:"fg"`           // Primary foreground
	FgMuted      string `toml:"fg_muted"`     // Empty cells, hints
	Accent       string `toml:"accent"`       // Title, borders
	Beginner     string `toml:"beginner"`
	Intermediate string `toml:"intermediate"`
	Advanced     string `toml:"advanced"`
	Warning      string `toml:"warning"` // Busy and filter indicators
	Error        string `toml:"error"`   // Error toasts
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Unknown names fall back to mocha.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = defaultTheme
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != defaultTheme {
			return Load(defaultTheme)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()
	return &t, nil
}

// LevelColor returns the accent for a course level. Unknown levels use Accent.
func (t *Theme) LevelColor(level schedule.Level) string {
	switch level {
	case schedule.LevelBeginner:
		return coalesce(t.Beginner, t.Accent)
	case schedule.LevelIntermediate:
		return coalesce(t.Intermediate, t.Accent)
	case schedule.LevelAdvanced:
		return coalesce(t.Advanced, t.Accent)
	default:
		return t.Accent
	}
}

func (t *Theme) applyDefaults() {
	t.BgHighlight = coalesce(t.BgHighlight, t.Bg)
	t.BgSelection = coalesce(t.BgSelection, t.BgHighlight)
	t.FgMuted = coalesce(t.FgMuted, t.Fg)
	t.Warning = coalesce(t.Warning, t.Accent)
	t.Error = coalesce(t.Error, t.Warning)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
