package logging

import (
	"log/slog"
	"os"
)

// Init configures the process-wide logger. Warnings and errors only by
// default; verbose enables debug output. Logs go to stderr so report
// output on stdout stays clean.
func Init(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
