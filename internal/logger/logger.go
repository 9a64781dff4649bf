// Package logger provides structured logging configuration for the console.
// Logs go to stderr as JSON so stdout stays clean for tables and exported
// files piped to other tools.
package logger

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output on stderr.
func Setup(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// ParseLevel converts a string log level to slog.Level.
// Valid values: "debug", "info", "warn", "error".
// Unrecognized values default to info level.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
