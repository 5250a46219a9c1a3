package reporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
	"github.com/loryanstrant/HA-CustomComponentMonitor/pkg/config"
)

func sampleReport() *models.Report {
	return &models.Report{
		Tool:      "ccmon",
		Version:   "1.0.0",
		Timestamp: "2026-08-30T12:00:00Z",
		Metadata: models.Metadata{
			ConfigDir:     "/config",
			HomeAssistant: "http://homeassistant.local:8123",
			Version:       "1.0.0",
		},
		Integrations: models.UsageReport{
			Kind:  models.KindIntegration,
			Total: 2,
			Used:  1,
			UnusedItems: []models.UnusedItem{
				{Identifier: "foo_sensor", Name: "Foo Sensor", Version: "1.2.3",
					RepositoryURL: "https://github.com/foo/foo_sensor"},
			},
		},
		Themes: models.UsageReport{
			Kind:  models.KindTheme,
			Total: 1,
			Used:  1,
		},
		Frontend: models.UsageReport{
			Kind:         models.KindFrontendResource,
			Total:        3,
			Used:         2,
			Acknowledged: 1,
		},
		Skipped: []models.SkippedRecord{
			{Kind: models.KindIntegration, Source: "custom_components/broken", Reason: "artifact missing identifier"},
		},
	}
}

func TestWriteJSONProducesValidReport(t *testing.T) {
	cfg := &config.Config{OutputDir: t.TempDir(), Format: config.FormatJSON}
	if err := WriteJSON(sampleReport(), cfg); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "report.json"))
	if err != nil {
		t.Fatalf("failed to read report.json: %v", err)
	}

	var decoded models.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report.json is not valid JSON: %v", err)
	}
	if decoded.Tool != "ccmon" {
		t.Fatalf("expected tool ccmon, got %q", decoded.Tool)
	}
	if len(decoded.Integrations.UnusedItems) != 1 {
		t.Fatalf("expected 1 unused integration, got %d", len(decoded.Integrations.UnusedItems))
	}
}

func TestWriteTextRendersSummaryAndFindings(t *testing.T) {
	cfg := &config.Config{OutputDir: t.TempDir(), Format: config.FormatText}
	var out bytes.Buffer
	if err := writeText(sampleReport(), cfg, &out); err != nil {
		t.Fatalf("writeText failed: %v", err)
	}

	rendered := out.String()
	for _, want := range []string{
		"Custom Component Usage Report",
		"Summary",
		"Integrations",
		"Frontend Resources",
		"foo_sensor (Foo Sensor) v1.2.3",
		"https://github.com/foo/foo_sensor",
		"custom_components/broken: artifact missing identifier",
	} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("expected rendered report to contain %q, got:\n%s", want, rendered)
		}
	}

	// The same content lands in report.txt.
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "report.txt"))
	if err != nil {
		t.Fatalf("failed to read report.txt: %v", err)
	}
	if string(data) != rendered {
		t.Fatal("expected report.txt to match rendered output")
	}
}

func TestWriteTextCleanReport(t *testing.T) {
	report := &models.Report{
		Tool:      "ccmon",
		Timestamp: "2026-08-30T12:00:00Z",
	}
	cfg := &config.Config{OutputDir: t.TempDir()}

	var out bytes.Buffer
	if err := writeText(report, cfg, &out); err != nil {
		t.Fatalf("writeText failed: %v", err)
	}
	if !strings.Contains(out.String(), "No unused artifacts detected.") {
		t.Fatalf("expected clean-report message, got:\n%s", out.String())
	}
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	cfg := &config.Config{OutputDir: t.TempDir(), Format: "yaml"}
	err := New(cfg).Generate(sampleReport())
	if err == nil || !strings.Contains(err.Error(), "unsupported report format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestGenerateJSONByDefault(t *testing.T) {
	cfg := &config.Config{OutputDir: t.TempDir()}
	if err := New(cfg).Generate(sampleReport()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "report.json")); err != nil {
		t.Fatalf("expected report.json written: %v", err)
	}
}
