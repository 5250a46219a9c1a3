package baseline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

func TestCollectFingerprintsDeterministic(t *testing.T) {
	reportA := &models.Report{
		Integrations: models.UsageReport{
			Kind:  models.KindIntegration,
			Total: 2,
			UnusedItems: []models.UnusedItem{
				{Identifier: "foo_sensor", Version: "1.0.0"},
				{Identifier: "bar_light"},
			},
		},
		Themes: models.UsageReport{
			Kind:        models.KindTheme,
			Total:       1,
			UnusedItems: []models.UnusedItem{{Identifier: "midnight"}},
		},
	}

	reportB := &models.Report{
		Integrations: models.UsageReport{
			Kind:  models.KindIntegration,
			Total: 2,
			UnusedItems: []models.UnusedItem{
				{Identifier: "bar_light", Name: "Bar Light"},
				{Identifier: "foo_sensor", Version: "9.9.9"},
			},
		},
		Themes: models.UsageReport{
			Kind:        models.KindTheme,
			Total:       1,
			UnusedItems: []models.UnusedItem{{Identifier: "midnight"}},
		},
	}

	fingerprintsA := CollectFingerprints(reportA)
	fingerprintsB := CollectFingerprints(reportB)
	if !reflect.DeepEqual(fingerprintsA, fingerprintsB) {
		t.Fatalf("expected deterministic fingerprints, got %v vs %v", fingerprintsA, fingerprintsB)
	}
	if len(fingerprintsA) != 3 {
		t.Fatalf("expected 3 fingerprints, got %d", len(fingerprintsA))
	}
}

func TestFingerprintDistinguishesKinds(t *testing.T) {
	if FingerprintUnused(models.KindTheme, "midnight") == FingerprintUnused(models.KindFrontendResource, "midnight") {
		t.Fatal("expected different fingerprints for the same identifier across kinds")
	}
}

func TestSuppressKnownMovesFindingsToAcknowledged(t *testing.T) {
	report := &models.Report{
		Integrations: models.UsageReport{
			Kind:  models.KindIntegration,
			Total: 3,
			Used:  1,
			UnusedItems: []models.UnusedItem{
				{Identifier: "bar_light"},
				{Identifier: "foo_sensor"},
			},
		},
		Frontend: models.UsageReport{
			Kind:        models.KindFrontendResource,
			Total:       1,
			UnusedItems: []models.UnusedItem{{Identifier: "old-card"}},
		},
	}

	known := Set{
		FingerprintUnused(models.KindIntegration, "foo_sensor"):    {},
		FingerprintUnused(models.KindFrontendResource, "old-card"): {},
	}

	suppressed, remaining := SuppressKnown(report, known)
	if suppressed != 2 {
		t.Fatalf("expected 2 suppressed findings, got %d", suppressed)
	}
	if remaining != 1 {
		t.Fatalf("expected 1 remaining finding, got %d", remaining)
	}

	if len(report.Integrations.UnusedItems) != 1 || report.Integrations.UnusedItems[0].Identifier != "bar_light" {
		t.Fatalf("unexpected unused integrations after suppression: %+v", report.Integrations.UnusedItems)
	}
	if report.Integrations.Acknowledged != 1 || report.Frontend.Acknowledged != 1 {
		t.Fatalf("expected acknowledged counts 1/1, got %d/%d",
			report.Integrations.Acknowledged, report.Frontend.Acknowledged)
	}
	// Totals still account for everything discovered.
	if report.Integrations.Total != report.Integrations.Used+len(report.Integrations.UnusedItems)+report.Integrations.Acknowledged {
		t.Fatalf("count invariant violated after suppression: %+v", report.Integrations)
	}
}

func TestSuppressKnownWithEmptySetIsNoop(t *testing.T) {
	report := &models.Report{
		Themes: models.UsageReport{
			Kind:        models.KindTheme,
			Total:       1,
			UnusedItems: []models.UnusedItem{{Identifier: "midnight"}},
		},
	}

	suppressed, remaining := SuppressKnown(report, Set{})
	if suppressed != 0 || remaining != 1 {
		t.Fatalf("expected suppressed=0 remaining=1, got %d/%d", suppressed, remaining)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "baseline.json")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("expected missing baseline file to be allowed, got %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty set for missing baseline, got %d", len(loaded))
	}

	set := Set{
		"b": {},
		"a": {},
	}
	if err := Save(path, set); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 fingerprints, got %d", len(loaded))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read baseline file: %v", err)
	}
	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		t.Fatalf("failed to unmarshal baseline file: %v", err)
	}
	if file.Version != fileVersion {
		t.Fatalf("expected version %d, got %d", fileVersion, file.Version)
	}
	if !reflect.DeepEqual(file.Fingerprints, []string{"a", "b"}) {
		t.Fatalf("expected sorted fingerprints [a b], got %+v", file.Fingerprints)
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	payload := `{"version":999,"fingerprints":[]}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("failed to write baseline file: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported baseline version") {
		t.Fatalf("expected unsupported version error, got %v", err)
	}
}
