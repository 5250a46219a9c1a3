package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func reportAt(generated time.Time) *models.Report {
	return &models.Report{
		Metadata: models.Metadata{GeneratedAt: generated},
		Integrations: models.UsageReport{
			Kind: models.KindIntegration, Total: 3, Used: 2,
			UnusedItems: []models.UnusedItem{{Identifier: "foo_sensor"}},
		},
		Themes:   models.UsageReport{Kind: models.KindTheme, Total: 1, Used: 1},
		Frontend: models.UsageReport{Kind: models.KindFrontendResource, Total: 2, Used: 1, Acknowledged: 1},
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, reportAt(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries (one per kind), got %d", len(entries))
	}

	byKind := map[models.ArtifactKind]Entry{}
	for _, entry := range entries {
		byKind[entry.Kind] = entry
	}
	if entry := byKind[models.KindIntegration]; entry.Total != 3 || entry.Used != 2 || entry.Unused != 1 {
		t.Fatalf("unexpected integration entry: %+v", entry)
	}
	// Acknowledged findings still count as unused in the history trend.
	if entry := byKind[models.KindFrontendResource]; entry.Unused != 1 {
		t.Fatalf("expected acknowledged finding counted, got %+v", entry)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	older := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := store.Record(ctx, reportAt(older)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(ctx, reportAt(newer)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected limit respected, got %d entries", len(entries))
	}
	if !entries[0].CreatedAt.Equal(newer) {
		t.Fatalf("expected newest scan first, got %v", entries[0].CreatedAt)
	}
}

func TestPruneRemovesOldEntries(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, reportAt(time.Now().UTC().Add(-48*time.Hour))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(ctx, reportAt(time.Now().UTC())); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	removed, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 rows pruned, got %d", removed)
	}

	entries, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 remaining entries, got %d", len(entries))
	}
}
