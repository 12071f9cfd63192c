// Package logging wraps a process-wide charmbracelet/log logger that writes to a file,
// so log output never corrupts the terminal UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	logger  = log.NewWithOptions(io.Discard, log.Options{})
	logFile *os.File
)

// Init opens path for appending and routes all logging there at the given level
// ("debug", "info", "warn", "error"). An empty path keeps logging disabled.
func Init(path, level string) error {
	if path == "" {
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})

	mu.Lock()
	old := logFile
	logger, logFile = l, f
	mu.Unlock()
	if old != nil {
		old.Close()
	}

	l.Info("walleria started", "pid", os.Getpid())
	return nil
}

// SetOutput routes logging to w, e.g. stderr for CLI subcommands run with --verbose.
func SetOutput(w io.Writer, level log.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.NewWithOptions(w, log.Options{ReportTimestamp: true, TimeFormat: time.Kitchen, Level: level})
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logger.Info("walleria shutting down")
		logFile.Close()
		logFile = nil
	}
	logger = log.NewWithOptions(io.Discard, log.Options{})
}

func current() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) { current().Info(msg, keyvals...) }

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) { current().Debug(msg, keyvals...) }

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) { current().Warn(msg, keyvals...) }

// Error logs an error message
func Error(msg string, keyvals ...interface{}) { current().Error(msg, keyvals...) }

// WithPrefix returns a logger with a prefix
func WithPrefix(prefix string) *log.Logger {
	return current().WithPrefix(prefix)
}
