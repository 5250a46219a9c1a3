package metrics

import (
	"testing"
	"time"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

func TestReportPoints(t *testing.T) {
	generated := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	report := &models.Report{
		Metadata: models.Metadata{GeneratedAt: generated},
		Integrations: models.UsageReport{
			Kind: models.KindIntegration, Total: 3, Used: 2,
			UnusedItems: []models.UnusedItem{{Identifier: "foo_sensor"}},
		},
		Themes:   models.UsageReport{Kind: models.KindTheme, Total: 1, Used: 1},
		Frontend: models.UsageReport{Kind: models.KindFrontendResource, Total: 2, Used: 1, Acknowledged: 1},
	}

	points := reportPoints(report)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	for _, point := range points {
		if point.Name() != "component_usage" {
			t.Fatalf("unexpected measurement: %q", point.Name())
		}
		if !point.Time().Equal(generated) {
			t.Fatalf("expected point timestamped with scan time, got %v", point.Time())
		}
	}

	fields := map[string]interface{}{}
	for _, field := range points[0].FieldList() {
		fields[field.Key] = field.Value
	}
	if fields["total"] != int64(3) || fields["used"] != int64(2) || fields["unused"] != int64(1) {
		t.Fatalf("unexpected integration fields: %+v", fields)
	}

	tags := points[0].TagList()
	if len(tags) != 1 || tags[0].Key != "kind" || tags[0].Value != string(models.KindIntegration) {
		t.Fatalf("unexpected tags: %+v", tags)
	}
}

func TestReportPointsDefaultsTimestamp(t *testing.T) {
	points := reportPoints(&models.Report{})
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Time().IsZero() {
		t.Fatal("expected non-zero timestamp when scan time is missing")
	}
}
