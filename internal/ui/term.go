package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/CenJi03/school-system-sub001/internal/schedule"
)

// Color definitions for consistent styling across the UI.
var (
	// Levels follow the TUI: green, yellow, red
	colorBeginner     = color.New(color.FgGreen)
	colorIntermediate = color.New(color.FgYellow)
	colorAdvanced     = color.New(color.FgRed)

	// Insight/results: cyan to set it apart from the grid
	colorInsight = color.New(color.FgCyan)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Warnings: clashes and crowded rooms
	colorWarning = color.New(color.FgMagenta, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 100
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func levelColor(level schedule.Level) *color.Color {
	switch level {
	case schedule.LevelBeginner:
		return colorBeginner
	case schedule.LevelIntermediate:
		return colorIntermediate
	case schedule.LevelAdvanced:
		return colorAdvanced
	default:
		return colorHeader
	}
}

// formatLevel formats text in the colour of a course level.
func formatLevel(level schedule.Level, s string) string {
	return levelColor(level).Sprint(s)
}

func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatWarning(s string) string {
	return colorWarning.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
