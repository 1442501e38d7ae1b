// Package logging builds the CLI logger.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w. Verbose output includes Info
// progress messages; otherwise only errors are logged.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
