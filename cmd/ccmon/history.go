package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/history"
	"github.com/loryanstrant/HA-CustomComponentMonitor/pkg/config"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var dbPath string
	var limit int
	var pruneStr string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded scan history",
		Long: `List recent scan results from the history database written by the
monitor command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return fmt.Errorf("--history-db is required")
			}
			return runHistory(dbPath, limit, pruneStr)
		},
	}

	cmd.Flags().StringVar(&dbPath, "history-db", "", "SQLite file for scan history")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to show (default 50, max 200)")
	cmd.Flags().StringVar(&pruneStr, "prune", "", "Delete entries older than this duration (e.g. 30d) before listing")

	return cmd
}

func runHistory(dbPath string, limit int, pruneStr string) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if pruneStr != "" {
		retention, err := parsePrune(pruneStr)
		if err != nil {
			return err
		}
		removed, err := store.Prune(ctx, retention)
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d entries older than %s\n", removed, retention)
	}

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No scan history recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tKIND\tTOTAL\tUSED\tUNUSED")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.Kind, entry.Total, entry.Used, entry.Unused)
	}
	return w.Flush()
}

func parsePrune(value string) (time.Duration, error) {
	retention, err := config.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --prune duration: %w", err)
	}
	if retention <= 0 {
		return 0, fmt.Errorf("invalid --prune duration: must be positive")
	}
	return retention, nil
}
