package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	BackendSQLite = "sqlite"
	BackendFiles  = "files"
	BackendHTTP   = "http"

	ViewWelcome      = "welcome"
	ViewAppointments = "appointments"

	defaultSlots   = 10
	defaultRefresh = time.Minute
)

// Config holds the unified application configuration
type Config struct {
	Backend         string
	DataDir         string
	DatabasePath    string
	NotesDir        string
	APIURL          string
	APIToken        string
	Timezone        *time.Location
	Slots           int
	RefreshInterval time.Duration
	DefaultView     string
	CalDAV          CalDAV
}

// CalDAV is where booked appointments are mirrored. Empty URL disables it.
type CalDAV struct {
	URL      string `json:"url,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Calendar string `json:"calendar,omitempty"`
}

// Settings represents the config file structure
type Settings struct {
	Backend         string `json:"backend"`
	DatabasePath    string `json:"database_path,omitempty"`
	NotesDir        string `json:"notes_dir,omitempty"`
	APIURL          string `json:"api_url,omitempty"`
	APIToken        string `json:"api_token,omitempty"`
	Timezone        string `json:"timezone,omitempty"`
	Slots           int    `json:"slots,omitempty"`
	RefreshInterval string `json:"refresh_interval,omitempty"`
	DefaultView     string `json:"default_view,omitempty"`
	CalDAV          CalDAV `json:"caldav,omitempty"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	Backend      string
	DatabasePath string
	NotesDir     string
	APIURL       string
	Timezone     string
	DefaultView  string
}

var globalConfig *Config

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	dataDir, err := GetDefaultDir()
	if err != nil {
		return nil, err
	}

	s := Settings{
		Backend:      BackendSQLite,
		DatabasePath: filepath.Join(dataDir, "sinta.db"),
		NotesDir:     filepath.Join(dataDir, "appointments"),
		Slots:        defaultSlots,
		DefaultView:  ViewWelcome,
	}

	// Try loading config file first for base values
	configPath, err := getConfigPath()
	if err == nil {
		if fileConfig, err := loadConfigFile(configPath); err == nil {
			s.merge(*fileConfig)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", configPath, err)
		}
	}

	// Priority 2: Environment variables override config file
	env, err := fromEnv()
	if err != nil {
		return nil, err
	}
	s.merge(env)

	// Priority 1: CLI flags override everything
	s.merge(Settings{
		Backend:      flags.Backend,
		DatabasePath: flags.DatabasePath,
		NotesDir:     flags.NotesDir,
		APIURL:       flags.APIURL,
		Timezone:     flags.Timezone,
		DefaultView:  flags.DefaultView,
	})

	cfg := &Config{
		Backend:         strings.ToLower(s.Backend),
		DataDir:         dataDir,
		DatabasePath:    expandPath(s.DatabasePath),
		NotesDir:        expandPath(s.NotesDir),
		APIURL:          s.APIURL,
		APIToken:        s.APIToken,
		Timezone:        time.Local,
		Slots:           s.Slots,
		RefreshInterval: defaultRefresh,
		DefaultView:     s.DefaultView,
		CalDAV:          s.CalDAV,
	}

	if s.Timezone != "" {
		loc, err := time.LoadLocation(s.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
		}
		cfg.Timezone = loc
	}

	if s.RefreshInterval != "" {
		d, err := time.ParseDuration(s.RefreshInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid refresh interval %q: %w", s.RefreshInterval, err)
		}
		cfg.RefreshInterval = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = cfg
	return cfg, nil
}

// merge copies every non-empty field of o over s.
func (s *Settings) merge(o Settings) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.Backend, o.Backend)
	set(&s.DatabasePath, o.DatabasePath)
	set(&s.NotesDir, o.NotesDir)
	set(&s.APIURL, o.APIURL)
	set(&s.APIToken, o.APIToken)
	set(&s.Timezone, o.Timezone)
	set(&s.RefreshInterval, o.RefreshInterval)
	set(&s.DefaultView, o.DefaultView)
	set(&s.CalDAV.URL, o.CalDAV.URL)
	set(&s.CalDAV.Username, o.CalDAV.Username)
	set(&s.CalDAV.Password, o.CalDAV.Password)
	set(&s.CalDAV.Calendar, o.CalDAV.Calendar)
	if o.Slots > 0 {
		s.Slots = o.Slots
	}
}

func fromEnv() (Settings, error) {
	s := Settings{
		Backend:         os.Getenv("SINTA_BACKEND"),
		DatabasePath:    os.Getenv("SINTA_DB"),
		NotesDir:        os.Getenv("SINTA_NOTES_DIR"),
		APIURL:          os.Getenv("SINTA_API_URL"),
		APIToken:        os.Getenv("SINTA_API_TOKEN"),
		Timezone:        os.Getenv("SINTA_TIMEZONE"),
		RefreshInterval: os.Getenv("SINTA_REFRESH"),
		DefaultView:     os.Getenv("SINTA_VIEW"),
		CalDAV: CalDAV{
			URL:      os.Getenv("SINTA_CALDAV_URL"),
			Username: os.Getenv("SINTA_CALDAV_USER"),
			Password: os.Getenv("SINTA_CALDAV_PASSWORD"),
			Calendar: os.Getenv("SINTA_CALDAV_CALENDAR"),
		},
	}
	if v := os.Getenv("SINTA_SLOTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Settings{}, fmt.Errorf("SINTA_SLOTS must be a positive number, got %q", v)
		}
		s.Slots = n
	}
	return s, nil
}

// Validate checks that the selected backend can be built.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("sqlite backend needs a database path")
		}
	case BackendFiles:
		if c.NotesDir == "" {
			return fmt.Errorf("files backend needs a notes directory")
		}
	case BackendHTTP:
		if c.APIURL == "" {
			return fmt.Errorf("http backend needs an API URL (SINTA_API_URL)")
		}
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, files or http)", c.Backend)
	}

	switch c.DefaultView {
	case ViewWelcome, ViewAppointments:
	default:
		return fmt.Errorf("unknown default view %q", c.DefaultView)
	}

	if c.Slots <= 0 {
		return fmt.Errorf("slots must be positive, got %d", c.Slots)
	}
	return nil
}

// Get returns the loaded config
func Get() *Config {
	return globalConfig
}

// GetDefaultDir returns the directory holding the database, notes and logs
func GetDefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".sinta"), nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "sinta", "config.json"), nil
}

// loadConfigFile loads configuration from the settings file
func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// EnsureDirs ensures the data directories for the selected backend exist
func (c *Config) EnsureDirs() error {
	dirs := []string{c.DataDir}
	switch c.Backend {
	case BackendSQLite:
		dirs = append(dirs, filepath.Dir(c.DatabasePath))
	case BackendFiles:
		dirs = append(dirs, c.NotesDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	settings := Settings{
		Backend:         BackendSQLite,
		DatabasePath:    "~/.sinta/sinta.db",
		NotesDir:        "~/.sinta/appointments",
		Slots:           defaultSlots,
		RefreshInterval: defaultRefresh.String(),
		DefaultView:     ViewWelcome,
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
