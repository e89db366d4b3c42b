package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"SINTA_BACKEND", "SINTA_DB", "SINTA_NOTES_DIR", "SINTA_API_URL", "SINTA_API_TOKEN",
	"SINTA_TIMEZONE", "SINTA_REFRESH", "SINTA_VIEW", "SINTA_SLOTS",
	"SINTA_CALDAV_URL", "SINTA_CALDAV_USER", "SINTA_CALDAV_PASSWORD", "SINTA_CALDAV_CALENDAR",
}

// isolate points HOME at a temp dir and clears every SINTA_ variable.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, v := range envVars {
		t.Setenv(v, "")
	}
	return home
}

func writeConfigFile(t *testing.T, home, body string) {
	t.Helper()
	path := filepath.Join(home, ".config", "sinta", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Default(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.Backend)
	}
	if want := filepath.Join(home, ".sinta", "sinta.db"); cfg.DatabasePath != want {
		t.Errorf("expected %q, got %q", want, cfg.DatabasePath)
	}
	if cfg.DefaultView != ViewWelcome {
		t.Errorf("expected default view 'welcome', got %q", cfg.DefaultView)
	}
	if cfg.Slots != 10 {
		t.Errorf("expected 10 slots, got %d", cfg.Slots)
	}
	if cfg.RefreshInterval != time.Minute {
		t.Errorf("expected 1m refresh, got %v", cfg.RefreshInterval)
	}
	if cfg.Timezone != time.Local {
		t.Errorf("expected local timezone, got %v", cfg.Timezone)
	}
	if Get() != cfg {
		t.Error("expected Get to return the loaded config")
	}
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	home := isolate(t)
	writeConfigFile(t, home, `{
  "backend": "files",
  "notes_dir": "~/from-file",
  "slots": 4,
  "refresh_interval": "30s",
  "default_view": "appointments",
  "caldav": {"url": "https://dav.example", "calendar": "/cal/"}
}`)

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendFiles || cfg.NotesDir != filepath.Join(home, "from-file") {
		t.Errorf("expected file settings, got %q %q", cfg.Backend, cfg.NotesDir)
	}
	if cfg.Slots != 4 || cfg.RefreshInterval != 30*time.Second {
		t.Errorf("unexpected slots/refresh %d %v", cfg.Slots, cfg.RefreshInterval)
	}
	if cfg.CalDAV.URL != "https://dav.example" {
		t.Errorf("expected caldav url from file, got %q", cfg.CalDAV.URL)
	}

	t.Setenv("SINTA_NOTES_DIR", "/tmp/env-notes")
	t.Setenv("SINTA_CALDAV_USER", "desk")
	cfg, err = Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.NotesDir != "/tmp/env-notes" {
		t.Errorf("expected env to override file, got %q", cfg.NotesDir)
	}
	if cfg.CalDAV.Username != "desk" || cfg.CalDAV.Calendar != "/cal/" {
		t.Errorf("expected caldav merged field by field, got %+v", cfg.CalDAV)
	}

	cfg, err = Load(CLIFlags{NotesDir: "/tmp/cli-notes", DefaultView: ViewWelcome})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.NotesDir != "/tmp/cli-notes" {
		t.Errorf("expected CLI to override env, got %q", cfg.NotesDir)
	}
	if cfg.DefaultView != ViewWelcome {
		t.Errorf("expected CLI view, got %q", cfg.DefaultView)
	}
}

func TestLoad_PathExpansion(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(CLIFlags{DatabasePath: "~/data/test.db"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := filepath.Join(home, "data", "test.db")
	if cfg.DatabasePath != expected {
		t.Errorf("expected %q, got %q", expected, cfg.DatabasePath)
	}
}

func TestLoad_Timezone(t *testing.T) {
	isolate(t)
	t.Setenv("SINTA_TIMEZONE", "Asia/Manila")

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	if cfg.Timezone.String() != "Asia/Manila" {
		t.Errorf("expected Asia/Manila, got %v", cfg.Timezone)
	}

	if _, err := Load(CLIFlags{Timezone: "Mars/Olympus"}); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		flags   CLIFlags
		wantErr string
	}{
		{"unknown backend", nil, CLIFlags{Backend: "mongo"}, "unknown backend"},
		{"http without url", map[string]string{"SINTA_BACKEND": "http"}, CLIFlags{}, "API URL"},
		{"bad slots", map[string]string{"SINTA_SLOTS": "zero"}, CLIFlags{}, "SINTA_SLOTS"},
		{"bad refresh", map[string]string{"SINTA_REFRESH": "soon"}, CLIFlags{}, "refresh interval"},
		{"bad view", nil, CLIFlags{DefaultView: "kanban"}, "default view"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.flags)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_HTTPBackend(t *testing.T) {
	isolate(t)
	t.Setenv("SINTA_BACKEND", "HTTP")
	t.Setenv("SINTA_API_URL", "https://api.example/v1")
	t.Setenv("SINTA_API_TOKEN", "tok")

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendHTTP || cfg.APIToken != "tok" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_BrokenConfigFile(t *testing.T) {
	home := isolate(t)
	writeConfigFile(t, home, `{not json`)

	if _, err := Load(CLIFlags{}); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestEnsureConfigFile(t *testing.T) {
	home := isolate(t)

	if err := EnsureConfigFile(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(home, ".config", "sinta", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if !strings.Contains(string(data), `"backend": "sqlite"`) {
		t.Errorf("unexpected defaults: %s", data)
	}

	// The written defaults must load cleanly.
	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("defaults do not load: %v", err)
	}
	if cfg.DatabasePath != filepath.Join(home, ".sinta", "sinta.db") {
		t.Errorf("unexpected database path %q", cfg.DatabasePath)
	}

	// A second call leaves an edited file alone.
	os.WriteFile(path, []byte(`{"backend":"files"}`), 0644)
	if err := EnsureConfigFile(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != `{"backend":"files"}` {
		t.Errorf("expected existing file untouched, got %s", data)
	}
}

func TestEnsureDirs(t *testing.T) {
	home := isolate(t)
	cfg, err := Load(CLIFlags{Backend: BackendFiles})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".sinta", "appointments")); err != nil {
		t.Errorf("expected notes dir created: %v", err)
	}
}
