// Package logger builds the process-wide slog.Logger from the logging
// section of the config: a level string and an output format.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a logger writing to stderr. Unrecognized level or format
// strings fall back to info-level text output rather than erroring, so a
// bad config never leaves the process without logs.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter is New with an explicit destination, for tests and for
// commands that redirect their logs.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps "debug", "warn" and "error" to their slog levels;
// anything else, including the empty string, is info.
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
