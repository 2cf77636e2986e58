// Package logging provides structured logging setup for ckn.
package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the default slog logger. Logs go to stderr so they
// never mix with command output; verbose mode lowers the level to debug.
func Setup(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
