// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

// Config holds the application configuration.
type Config struct {
	Grid     GridConfig     `toml:"grid"`
	Schedule ScheduleConfig `toml:"schedule"`
	API      APIConfig      `toml:"api"`
	Storage  StorageConfig  `toml:"storage"`
	Server   ServerConfig   `toml:"server"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
	LLM      LLMConfig      `toml:"llm"`
}

// GridConfig holds the hour range of the timetable.
type GridConfig struct {
	StartHour int `toml:"start_hour"` // first row, e.g. 8
	EndHour   int `toml:"end_hour"`   // last row and closing bound, e.g. 20
}

// ScheduleConfig holds scheduling behaviour.
type ScheduleConfig struct {
	CheckConflicts bool   `toml:"check_conflicts"` // reject teacher/room overlaps before submitting
	DefaultTeacher string `toml:"default_teacher"` // teacher id filter applied on start (optional)
}

// APIConfig holds the remote REST API settings.
type APIConfig struct {
	BaseURL string `toml:"base_url"` // e.g. "http://localhost:8000/api"
	Token   string `toml:"token"`    // bearer token (optional)
	Timeout string `toml:"timeout"`  // e.g. "10s"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// ServerConfig holds settings for the built-in API server.
type ServerConfig struct {
	Address      string `toml:"address"`       // e.g. ":8000"
	SnapshotCron string `toml:"snapshot_cron"` // e.g. "0 6 * * 1" (optional)
	SnapshotDir  string `toml:"snapshot_dir"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "console" or "json"
	File   string `toml:"file"`   // empty means stderr; the TUI always logs to a file
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "lmstudio", "ollama", or "" to disable
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			StartHour: 8,
			EndHour:   20,
		},
		Schedule: ScheduleConfig{
			CheckConflicts: true,
		},
		API: APIConfig{
			BaseURL: "http://localhost:8000/api",
			Timeout: "10s",
		},
		Storage: StorageConfig{
			DBPath: defaultDataPath("aula.db"),
		},
		Server: ServerConfig{
			Address:     ":8000",
			SnapshotDir: defaultDataPath("snapshots"),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		LLM: LLMConfig{
			Provider: "",
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
	}
}

// defaultDataPath returns a path under the user's data directory.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "aula", name)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "aula", "config.toml")
}

// DefaultLogPath returns the log file used by the TUI.
func DefaultLogPath() string {
	return defaultDataPath("aula.log")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Server.SnapshotDir = expandPath(cfg.Server.SnapshotDir)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies AULA_* environment variables on top of the file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AULA_START_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Grid.StartHour = n
		}
	}
	if v := os.Getenv("AULA_END_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Grid.EndHour = n
		}
	}
	if v := os.Getenv("AULA_CHECK_CONFLICTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schedule.CheckConflicts = b
		}
	}
	if v := os.Getenv("AULA_TEACHER"); v != "" {
		cfg.Schedule.DefaultTeacher = v
	}

	if v := os.Getenv("AULA_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("AULA_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("AULA_API_TIMEOUT"); v != "" {
		cfg.API.Timeout = v
	}

	if v := os.Getenv("AULA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("AULA_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("AULA_SNAPSHOT_CRON"); v != "" {
		cfg.Server.SnapshotCron = v
	}

	if v := os.Getenv("AULA_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("AULA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("AULA_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv("AULA_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("AULA_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("AULA_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Grid.StartHour < 0 || c.Grid.StartHour > 23 {
		return fmt.Errorf("start_hour must be between 0 and 23, got %d", c.Grid.StartHour)
	}
	if c.Grid.EndHour < 0 || c.Grid.EndHour > 23 {
		return fmt.Errorf("end_hour must be between 0 and 23, got %d", c.Grid.EndHour)
	}
	if c.Grid.StartHour >= c.Grid.EndHour {
		return errors.New("start_hour must be before end_hour")
	}

	if _, err := c.APITimeout(); err != nil {
		return err
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}

	if c.Server.SnapshotCron != "" {
		if _, err := cron.ParseStandard(c.Server.SnapshotCron); err != nil {
			return fmt.Errorf("invalid snapshot_cron %q: %w", c.Server.SnapshotCron, err)
		}
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be 'console' or 'json', got %q", c.Log.Format)
	}

	switch c.LLM.Provider {
	case "", "lmstudio", "ollama":
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLM.Provider)
	}
	return nil
}

// APITimeout parses the API timeout.
func (c *Config) APITimeout() (time.Duration, error) {
	if c.API.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid api timeout %q: %w", c.API.Timeout, err)
	}
	return d, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
