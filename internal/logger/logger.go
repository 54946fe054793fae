package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// TODO: Allow configuration of log level (e.g., via env var or config file)

var defaultLogger *slog.Logger

// logFilePath determines the path for the application log file based on the
// XDG state directory spec.
func logFilePath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(stateDir, "pagewright", "app.log"), nil
}

// InitLogger initializes the default logger. In TUI mode logs go to the
// state file only, so they don't corrupt the rendered screen; in CLI mode
// they additionally go to stderr.
func InitLogger(isTUI bool) {
	var writers []io.Writer

	if path, err := logFilePath(); err == nil {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0750); mkErr == nil {
			if file, openErr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640); openErr == nil {
				writers = append(writers, file)
			} else {
				fmt.Fprintf(os.Stderr, "Error opening log file %s: %v. File logging disabled.\n", path, openErr)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error creating log directory for %s: %v. File logging disabled.\n", path, mkErr)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Error determining log file path: %v. File logging disabled.\n", err)
	}

	if !isTUI || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	var w io.Writer = writers[0]
	if len(writers) > 1 {
		w = io.MultiWriter(writers...)
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	defaultLogger = slog.New(handler)
}

// checkLogger ensures the logger is initialized before use, preventing nil panics.
func checkLogger() {
	if defaultLogger == nil {
		InitLogger(false)
	}
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	checkLogger()
	defaultLogger.Info(msg, args...)
}

// Infof logs a formatted informational message.
func Infof(format string, v ...interface{}) {
	checkLogger()
	defaultLogger.Info(fmt.Sprintf(format, v...))
}

// Error logs an error message.
func Error(msg string, args ...any) {
	checkLogger()
	defaultLogger.Error(msg, args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) {
	checkLogger()
	defaultLogger.Error(fmt.Sprintf(format, v...))
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	checkLogger()
	defaultLogger.Warn(msg, args...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, v ...interface{}) {
	checkLogger()
	defaultLogger.Warn(fmt.Sprintf(format, v...))
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	checkLogger()
	defaultLogger.Debug(msg, args...)
}
