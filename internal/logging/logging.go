// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON slog handler at level as the default logger and
// tags every record with the given component.
func Setup(level slog.Level, component string) *slog.Logger {
	return SetupWriter(os.Stdout, level, component)
}

// SetupWriter is Setup writing to w. The terminal UI uses it to keep logs
// off the screen it draws.
func SetupWriter(w io.Writer, level slog.Level, component string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("component", component)

	slog.SetDefault(logger)

	return logger
}
