package app

import (
	"log/slog"
	"os"
	"path/filepath"
)

// markerName is created in the per-user state directory after the
// first invocation so onboarding hints are only printed once.
const markerName = "first_run_completed"

// StateDir returns the per-user directory ccmon keeps its state in.
func StateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "ccmon"), nil
}

// FirstRun reports whether this is the first invocation on this
// machine, creating the marker as a side effect. Filesystem errors are
// logged and treated as "not first run" so a hint never blocks a scan.
func FirstRun() bool {
	dir, err := StateDir()
	if err != nil {
		slog.Debug("could not resolve state directory", slog.String("error", err.Error()))
		return false
	}

	marker := filepath.Join(dir, markerName)
	if _, err := os.Stat(marker); err == nil {
		return false
	} else if !os.IsNotExist(err) {
		slog.Debug("could not stat first-run marker", slog.String("error", err.Error()))
		return false
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Debug("could not create state directory", slog.String("error", err.Error()))
		return false
	}
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		slog.Debug("could not write first-run marker", slog.String("error", err.Error()))
		return false
	}
	return true
}
