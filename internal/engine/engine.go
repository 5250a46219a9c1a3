package engine

import (
	"log/slog"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/catalog"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/matcher"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/refindex"
)

// Run executes one full usage-detection cycle over the given snapshot
// and returns the per-kind usage reports plus data-quality skips. The
// engine is synchronous, performs no I/O, and retains no state between
// invocations; the caller owns scheduling and result publication.
//
// A failure to classify one artifact never prevents classifying the
// rest: malformed records become skips, unavailable configuration
// sections become empty reference sets.
func Run(snapshot *models.Snapshot) *models.Report {
	report := &models.Report{Skipped: []models.SkippedRecord{}}
	index := refindex.Build(snapshot.Live)

	for _, kind := range models.Kinds() {
		// The catalog stamps the kind on every artifact it returns, so
		// everything here is matchable.
		artifacts, skipped := catalog.Normalize(kind, snapshot.RecordsFor(kind))
		report.Skipped = append(report.Skipped, skipped...)

		results := matcher.MatchAll(artifacts, index.ReferencesFor(kind))
		usage := BuildUsageReport(kind, results)
		*report.ByKind(kind) = usage

		slog.Debug("classified artifacts",
			slog.String("kind", string(kind)),
			slog.Int("total", usage.Total),
			slog.Int("used", usage.Used),
			slog.Int("unused", len(usage.UnusedItems)),
		)
	}

	return report
}
