package engine

import (
	"sort"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

// BuildUsageReport aggregates match verdicts for one kind into the
// outward-facing usage report. Unused items are ordered by identifier
// ascending so identical snapshots always produce identical output.
// Inputs are never mutated.
func BuildUsageReport(kind models.ArtifactKind, results []models.MatchResult) models.UsageReport {
	usage := models.UsageReport{
		Kind:        kind,
		Total:       len(results),
		UnusedItems: []models.UnusedItem{},
	}

	for _, result := range results {
		if result.Used {
			usage.Used++
			continue
		}
		artifact := result.Artifact
		usage.UnusedItems = append(usage.UnusedItems, models.UnusedItem{
			Identifier:    artifact.Identifier,
			Name:          displayName(artifact),
			Version:       artifact.Version,
			RepositoryURL: artifact.RepositoryURL,
			InstalledAt:   artifact.InstalledAt,
		})
	}

	sort.SliceStable(usage.UnusedItems, func(i, j int) bool {
		return usage.UnusedItems[i].Identifier < usage.UnusedItems[j].Identifier
	})

	return usage
}

func displayName(artifact *models.Artifact) string {
	if artifact.DisplayName != "" {
		return artifact.DisplayName
	}
	return artifact.Identifier
}
