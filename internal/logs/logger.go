package logs

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	logFileName = "debug.log"
	logPrefix   = "[sinta] "
	logFlags    = log.LstdFlags | log.Lshortfile
)

var (
	Logger  *log.Logger
	logFile *os.File
	mu      sync.Mutex
)

// The TUI owns the terminal, so nothing is written until Initialize points the
// logger at a file.
func init() {
	Logger = log.New(io.Discard, logPrefix, logFlags)
}

// Initialize (re)opens the log file inside logDir.
func Initialize(logDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if logDir == "" {
		logDir = "."
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, logFileName)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		Logger.Printf("Failed to open log file at %s: %v", logPath, err)
		return err
	}

	if logFile != nil {
		logFile.Close()
	}

	logFile = f
	Logger = log.New(f, logPrefix, logFlags)

	Logger.Printf("Logger initialized at: %s", logPath)

	return nil
}

// Close closes the log file and falls back to discarding output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	Logger = log.New(io.Discard, logPrefix, logFlags)
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}
