// Package logging provides the process-wide structured logger. Records go
// to a log file through a slog text handler; until Init is called the
// logger discards everything, which keeps library code quiet in tests.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	root     *slog.Logger
	levelVar = new(slog.LevelVar)
	logFile  *os.File
	mu       sync.Mutex
)

// Init opens path for appending and routes all records there.
// Calling Init again replaces the previous sink.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	root = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	root.Debug("logger initialized", "path", path)
	return nil
}

// InitWriter routes records to w. Used as the fallback when the log file
// cannot be opened, and by tests.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	root = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
}

// SetLevel sets the minimum level from its name (debug, info, warn, error).
// Unknown names fall back to info.
func SetLevel(name string) {
	levelVar.Set(ParseLevel(name))
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the root logger.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if root == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return root
}

// WithComponent returns a logger tagged with the component name.
//
//	log := logging.WithComponent("watcher")
//	log.Info("manifest saved", "path", p)
//	// level=INFO msg="manifest saved" component=watcher path=/x/.BULK_RENAME.txt
func WithComponent(component string) *slog.Logger {
	return Get().With("component", component)
}

// WithSession returns a logger tagged with a session ID.
func WithSession(sessionID string) *slog.Logger {
	return Get().With("sessionID", sessionID)
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	root = nil
}

// Reset restores the initial state. Tests use it between cases.
func Reset() {
	Close()
	levelVar.Set(slog.LevelInfo)
}
