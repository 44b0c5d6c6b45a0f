package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CenJi03/school-system-sub001/internal/config"
	"github.com/CenJi03/school-system-sub001/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  aula config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive(config.DefaultConfigPath(), os.Stdin, a.out)
		},
	}
}

func runConfigInteractive(configPath string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{reader: reader, out: out}
	cfg.Grid.StartHour = p.int("First hour of the grid", cfg.Grid.StartHour)
	cfg.Grid.EndHour = p.int("Last hour of the grid", cfg.Grid.EndHour)
	cfg.Schedule.CheckConflicts = p.bool("Check teacher/room conflicts", cfg.Schedule.CheckConflicts)
	cfg.Schedule.DefaultTeacher = p.value("Default teacher id (empty for all)", cfg.Schedule.DefaultTeacher)
	cfg.API.BaseURL = p.value("API base URL", cfg.API.BaseURL)
	cfg.API.Token = p.value("API token (empty for none)", cfg.API.Token)
	cfg.API.Timeout = p.value("API timeout", cfg.API.Timeout)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.Server.Address = p.value("Server address", cfg.Server.Address)
	cfg.Server.SnapshotCron = p.value("Snapshot cron (empty to disable)", cfg.Server.SnapshotCron)
	cfg.Server.SnapshotDir = p.value("Snapshot directory", cfg.Server.SnapshotDir)
	cfg.LLM.Provider = p.value("LLM provider (ollama, lmstudio, empty to disable)", cfg.LLM.Provider)
	cfg.LLM.Model = p.value("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = p.value("LLM base URL", cfg.LLM.BaseURL)
	cfg.Log.Level = p.value("Log level", cfg.Log.Level)
	cfg.UI.Theme = p.theme(cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	token := ""
	if cfg.API.Token != "" {
		token = "(set)"
	}
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[grid]")
	fmt.Fprintf(out, "  start_hour       = %d\n", cfg.Grid.StartHour)
	fmt.Fprintf(out, "  end_hour         = %d\n", cfg.Grid.EndHour)
	fmt.Fprintln(out, "\n[schedule]")
	fmt.Fprintf(out, "  check_conflicts  = %t\n", cfg.Schedule.CheckConflicts)
	if cfg.Schedule.DefaultTeacher != "" {
		fmt.Fprintf(out, "  default_teacher  = %s\n", cfg.Schedule.DefaultTeacher)
	}
	fmt.Fprintln(out, "\n[api]")
	fmt.Fprintf(out, "  base_url         = %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "  token            = %s\n", token)
	fmt.Fprintf(out, "  timeout          = %s\n", cfg.API.Timeout)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[server]")
	fmt.Fprintf(out, "  address          = %s\n", cfg.Server.Address)
	if cfg.Server.SnapshotCron != "" {
		fmt.Fprintf(out, "  snapshot_cron    = %s\n", cfg.Server.SnapshotCron)
	}
	fmt.Fprintf(out, "  snapshot_dir     = %s\n", cfg.Server.SnapshotDir)
	fmt.Fprintln(out, "\n[llm]")
	fmt.Fprintf(out, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "  model            = %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level            = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  format           = %s\n", cfg.Log.Format)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

// prompter asks for one value at a time, keeping the current value on
// empty input.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.out, "  %s: ", label)
	} else {
		fmt.Fprintf(p.out, "  %s [%s]: ", label, current)
	}
	input, _ := p.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) int(label string, current int) int {
	for {
		value := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(p.out, "  Invalid number %q\n", value)
	}
}

func (p prompter) bool(label string, current bool) bool {
	for {
		value := p.value(label, strconv.FormatBool(current))
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
		fmt.Fprintf(p.out, "  Invalid value %q, want true or false\n", value)
	}
}

func (p prompter) theme(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
