package catalog

import (
	"log/slog"
	"path"
	"strings"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

// Normalize converts raw discovery records of one kind into a
// deduplicated sequence of artifacts. Identifier derivation is lossy on
// purpose: path prefixes and file extensions are stripped and the result
// is lower-cased, so different casings of the same artifact collapse to
// a single entry. Duplicates are merged last-write-wins on metadata.
//
// Records missing both identifier and display name are dropped and
// returned as data-quality skips; they never abort the cycle.
func Normalize(kind models.ArtifactKind, records []models.RawRecord) ([]models.Artifact, []models.SkippedRecord) {
	artifacts := make([]models.Artifact, 0, len(records))
	skipped := []models.SkippedRecord{}
	index := make(map[string]int, len(records))

	for _, record := range records {
		raw := record.Identifier
		if raw == "" {
			raw = record.DisplayName
		}
		if raw == "" {
			slog.Debug("skipping record without identifier",
				slog.String("kind", string(kind)),
				slog.String("source", record.Source),
			)
			skipped = append(skipped, models.SkippedRecord{
				Kind:   kind,
				Source: record.Source,
				Reason: "missing identifier and display name",
			})
			continue
		}

		artifact := models.Artifact{
			Kind:          kind,
			Identifier:    DeriveIdentifier(raw),
			DisplayName:   record.DisplayName,
			Version:       record.Version,
			RepositoryURL: record.RepositoryURL,
			InstalledAt:   record.InstalledAt,
		}
		if artifact.DisplayName == "" {
			artifact.DisplayName = record.Identifier
		}

		if pos, exists := index[artifact.Identifier]; exists {
			// Same artifact discovered twice (casing or extension drift).
			// Keep the original position, last write wins on metadata.
			artifacts[pos] = artifact
			continue
		}
		index[artifact.Identifier] = len(artifacts)
		artifacts = append(artifacts, artifact)
	}

	return artifacts, skipped
}

// DeriveIdentifier reduces a raw name to its canonical slug: the final
// path element, extension stripped, lower-cased.
func DeriveIdentifier(raw string) string {
	base := path.Base(strings.ReplaceAll(raw, "\\", "/"))
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.ToLower(strings.TrimSpace(base))
}
