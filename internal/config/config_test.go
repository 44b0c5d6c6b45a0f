package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.StartHour != 8 || cfg.Grid.EndHour != 20 {
		t.Errorf("expected grid 8..20, got %d..%d", cfg.Grid.StartHour, cfg.Grid.EndHour)
	}
	if !cfg.Schedule.CheckConflicts {
		t.Error("expected conflict checks enabled by default")
	}
	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Errorf("expected default api url, got %s", cfg.API.BaseURL)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("expected info/console logging, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.StartHour != 8 {
		t.Errorf("expected default start_hour, got %d", cfg.Grid.StartHour)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
start_hour = 7
end_hour = 21

[schedule]
check_conflicts = false
default_teacher = "12"

[api]
base_url = "https://school.example/api"
token = "abc"
timeout = "3s"

[storage]
db_path = "/tmp/aula-test.db"

[server]
snapshot_cron = "0 6 * * 1"

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.StartHour != 7 || cfg.Grid.EndHour != 21 {
		t.Errorf("expected grid 7..21, got %d..%d", cfg.Grid.StartHour, cfg.Grid.EndHour)
	}
	if cfg.Schedule.CheckConflicts {
		t.Error("expected check_conflicts false")
	}
	if cfg.Schedule.DefaultTeacher != "12" {
		t.Errorf("expected default_teacher 12, got %s", cfg.Schedule.DefaultTeacher)
	}
	if cfg.API.Token != "abc" {
		t.Errorf("expected token abc, got %s", cfg.API.Token)
	}
	if d, _ := cfg.APITimeout(); d != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", d)
	}
	if cfg.Storage.DBPath != "/tmp/aula-test.db" {
		t.Errorf("expected db_path /tmp/aula-test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json log format, got %s", cfg.Log.Format)
	}
	// Unset keys keep their defaults.
	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected default theme, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[grid\nstart_hour ="), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error for invalid toml")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AULA_START_HOUR", "9")
	t.Setenv("AULA_END_HOUR", "18")
	t.Setenv("AULA_CHECK_CONFLICTS", "false")
	t.Setenv("AULA_API_URL", "http://api.test")
	t.Setenv("AULA_API_TOKEN", "tok")
	t.Setenv("AULA_DB_PATH", "/tmp/env.db")
	t.Setenv("AULA_UI_THEME", "latte")
	t.Setenv("AULA_LOG_LEVEL", "warn")

	cfg, err := LoadFrom("/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.StartHour != 9 || cfg.Grid.EndHour != 18 {
		t.Errorf("expected grid 9..18, got %d..%d", cfg.Grid.StartHour, cfg.Grid.EndHour)
	}
	if cfg.Schedule.CheckConflicts {
		t.Error("expected check_conflicts overridden to false")
	}
	if cfg.API.BaseURL != "http://api.test" || cfg.API.Token != "tok" {
		t.Errorf("api overrides not applied: %+v", cfg.API)
	}
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected db_path /tmp/env.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.UI.Theme != "latte" || cfg.Log.Level != "warn" {
		t.Errorf("ui/log overrides not applied: %s %s", cfg.UI.Theme, cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "start after end", modify: func(c *Config) { c.Grid.StartHour = 20; c.Grid.EndHour = 8 }, wantErr: true},
		{name: "end out of range", modify: func(c *Config) { c.Grid.EndHour = 24 }, wantErr: true},
		{name: "bad timeout", modify: func(c *Config) { c.API.Timeout = "soon" }, wantErr: true},
		{name: "empty db path", modify: func(c *Config) { c.Storage.DBPath = "" }, wantErr: true},
		{name: "bad cron", modify: func(c *Config) { c.Server.SnapshotCron = "every monday" }, wantErr: true},
		{name: "good cron", modify: func(c *Config) { c.Server.SnapshotCron = "@weekly" }},
		{name: "bad log level", modify: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "bad log format", modify: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
		{name: "unknown provider", modify: func(c *Config) { c.LLM.Provider = "copilot" }, wantErr: true},
		{name: "ollama provider", modify: func(c *Config) { c.LLM.Provider = "ollama" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Grid.StartHour = 10
	cfg.API.Token = "saved"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Grid.StartHour != 10 || loaded.API.Token != "saved" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
