// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// ParseLevel maps debug, warn and error to their slog level; anything else is info.
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

// New builds a logger writing to w. format "json" selects the JSON handler,
// anything else the colored tint handler.
func New(w io.Writer, level, format string) *slog.Logger {
	logLevel := ParseLevel(level)

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = tint.NewHandler(w, &tint.Options{Level: logLevel})
	}
	return slog.New(handler)
}

// Setup installs New(w, level, format) as the slog default and returns it.
func Setup(w io.Writer, level, format string) *slog.Logger {
	logger := New(w, level, format)
	slog.SetDefault(logger)
	return logger
}
