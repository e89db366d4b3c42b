package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sinta/internal/booking"
	"sinta/internal/calsync"
	"sinta/internal/cli"
	"sinta/internal/config"
	"sinta/internal/logs"
	"sinta/internal/notes"
	"sinta/internal/notes/files"
	"sinta/internal/notes/httpapi"
	"sinta/internal/notes/sqlite"
	"sinta/internal/scheduler"
	"sinta/internal/tui"
)

func main() {
	// Parse CLI flags
	backendFlag := flag.String("backend", "", "Storage backend: sqlite, files, http")
	dbFlag := flag.String("db", "", "SQLite database path")
	notesFlag := flag.String("notes", "", "Directory for the files backend")
	apiFlag := flag.String("api", "", "Notes API base URL")
	tzFlag := flag.String("tz", "", "Timezone used for today, e.g. Asia/Manila")
	viewFlag := flag.String("view", "", "Initial view: welcome, appointments")
	flag.Parse()

	cliFlags := config.CLIFlags{
		Backend:      *backendFlag,
		DatabasePath: *dbFlag,
		NotesDir:     *notesFlag,
		APIURL:       *apiFlag,
		Timezone:     *tzFlag,
		DefaultView:  *viewFlag,
	}

	// Load configuration
	cfg, err := config.Load(cliFlags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure config file exists
	if err := config.EnsureConfigFile(); err != nil {
		log.Printf("Warning: could not create config file: %v", err)
	}

	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}

	// Reinitialize logger
	if err := logs.Initialize(cfg.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize logger: %v\n", err)
	}
	defer logs.Close()

	backend, err := openBackend(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	opts := []booking.Option{
		booking.WithLocation(cfg.Timezone),
		booking.WithSlots(cfg.Slots),
	}
	caldav := calsync.NewClient(cfg.CalDAV.URL, cfg.CalDAV.Username, cfg.CalDAV.Password, cfg.CalDAV.Calendar)
	if caldav.IsConfigured() {
		logs.Logger.Printf("Publishing appointments to %s", cfg.CalDAV.URL)
		opts = append(opts, booking.WithPublisher(caldav))
	}
	svc := booking.New(backend, opts...)

	// Check for CLI subcommands
	if args := flag.Args(); len(args) > 0 {
		code := cli.Run(context.Background(), args, svc, os.Stdout, os.Stderr)
		backend.Close()
		logs.Close()
		os.Exit(code)
	}

	// TUI mode
	logs.Logger.Printf("Starting app in TUI mode with %s backend", cfg.Backend)
	appModel := tui.NewAppModel(cfg, svc)
	p := tea.NewProgram(appModel, tea.WithAltScreen())

	sched := scheduler.New(cfg.Timezone, cfg.RefreshInterval, p.Send)
	if err := sched.Start(); err != nil {
		logs.Logger.Printf("Warning: could not start scheduler: %v", err)
	}
	defer sched.Stop()

	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}

func openBackend(cfg *config.Config) (notes.Backend, error) {
	switch cfg.Backend {
	case config.BackendFiles:
		return files.New(cfg.NotesDir)
	case config.BackendHTTP:
		client := httpapi.NewClient(cfg.APIURL, cfg.APIToken)
		if !client.IsConfigured() {
			return nil, fmt.Errorf("http backend needs an API URL")
		}
		return client, nil
	default:
		return sqlite.New(cfg.DatabasePath)
	}
}
