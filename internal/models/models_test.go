package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestArtifactJSONTags(t *testing.T) {
	cases := []struct {
		name        string
		artifact    Artifact
		mustContain []string
		mustAbsent  []string
	}{
		{
			name: "includes_expected_fields",
			artifact: Artifact{
				Kind:          KindIntegration,
				Identifier:    "foo_sensor",
				DisplayName:   "Foo Sensor",
				Version:       "1.2.3",
				RepositoryURL: "https://github.com/foo/foo_sensor",
				InstalledAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			},
			mustContain: []string{"\"kind\"", "\"identifier\"", "\"display_name\"", "\"repository_url\"", "\"installed_at\""},
		},
		{
			name: "omits_empty_metadata",
			artifact: Artifact{
				Kind:       KindTheme,
				Identifier: "midnight",
			},
			mustContain: []string{"\"identifier\""},
			mustAbsent:  []string{"\"display_name\"", "\"version\"", "\"repository_url\"", "\"installed_at\""},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := json.Marshal(tc.artifact)
			if err != nil {
				t.Fatalf("failed to marshal artifact: %v", err)
			}
			encoded := string(payload)
			for _, key := range tc.mustContain {
				if !strings.Contains(encoded, key) {
					t.Fatalf("expected JSON to contain %s, got %s", key, encoded)
				}
			}
			for _, key := range tc.mustAbsent {
				if strings.Contains(encoded, key) {
					t.Fatalf("expected JSON to not contain %s, got %s", key, encoded)
				}
			}
		})
	}
}

func TestReportJSONTags(t *testing.T) {
	report := Report{
		Metadata:     Metadata{Version: "test"},
		Integrations: UsageReport{Kind: KindIntegration, UnusedItems: []UnusedItem{}},
		Themes:       UsageReport{Kind: KindTheme, UnusedItems: []UnusedItem{}},
		Frontend:     UsageReport{Kind: KindFrontendResource, UnusedItems: []UnusedItem{}},
		Skipped:      []SkippedRecord{},
	}

	payload, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("failed to marshal report: %v", err)
	}
	encoded := string(payload)
	for _, key := range []string{"\"metadata\"", "\"integrations\"", "\"themes\"", "\"frontend_resources\"", "\"skipped\""} {
		if !strings.Contains(encoded, key) {
			t.Fatalf("expected JSON to contain %s, got %s", key, encoded)
		}
	}
}

func TestReportByKind(t *testing.T) {
	report := &Report{
		Integrations: UsageReport{Kind: KindIntegration, Total: 3},
		Themes:       UsageReport{Kind: KindTheme, Total: 2},
		Frontend:     UsageReport{Kind: KindFrontendResource, Total: 1},
	}

	for _, kind := range Kinds() {
		usage := report.ByKind(kind)
		if usage == nil {
			t.Fatalf("expected usage report for kind %s", kind)
		}
		if usage.Kind != kind {
			t.Fatalf("expected kind %s, got %s", kind, usage.Kind)
		}
	}

	if report.ByKind("bogus") != nil {
		t.Fatal("expected nil for unknown kind")
	}
}

func TestReportUnusedTotal(t *testing.T) {
	report := &Report{
		Integrations: UsageReport{UnusedItems: []UnusedItem{{Identifier: "a"}, {Identifier: "b"}}},
		Themes:       UsageReport{UnusedItems: []UnusedItem{{Identifier: "c"}}},
	}
	if got := report.UnusedTotal(); got != 3 {
		t.Fatalf("expected 3 unused, got %d", got)
	}

	var nilReport *Report
	if got := nilReport.UnusedTotal(); got != 0 {
		t.Fatalf("expected 0 for nil report, got %d", got)
	}
}
