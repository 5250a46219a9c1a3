package refindex

import (
	"log/slog"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

// Index answers "is X referenced by the live configuration". It holds
// raw reference keys exactly as the configuration supplied them; the
// matcher applies its own normalization per strategy without mutating
// the originals. Building the index is a pure transform with no side
// effects.
type Index struct {
	refs map[models.ArtifactKind][]models.ConfigReference
}

// Build constructs the reference index from a live-configuration
// snapshot. A section the collaborator could not fetch contributes an
// empty reference set, which makes every artifact of that kind unused
// rather than aborting the cycle.
func Build(live models.LiveConfiguration) *Index {
	ix := &Index{refs: make(map[models.ArtifactKind][]models.ConfigReference, 3)}

	for _, component := range live.Components {
		ix.add(models.KindIntegration, component)
	}
	for _, entry := range live.ActiveEntries {
		ix.add(models.KindIntegration, entry.Domain)
	}

	if live.ActiveTheme != "" {
		ix.add(models.KindTheme, live.ActiveTheme)
	}
	for _, theme := range live.ConfiguredThemes {
		ix.add(models.KindTheme, theme)
	}

	for _, url := range live.FrontendResources {
		ix.add(models.KindFrontendResource, url)
	}

	if !live.IntegrationsAvailable && len(ix.refs[models.KindIntegration]) == 0 {
		slog.Warn("integration configuration unavailable, treating all integrations as unused")
	}
	if !live.ThemesAvailable && len(ix.refs[models.KindTheme]) == 0 {
		slog.Warn("theme configuration unavailable, treating all themes as unused")
	}
	if !live.FrontendAvailable && len(ix.refs[models.KindFrontendResource]) == 0 {
		slog.Warn("frontend configuration unavailable, treating all frontend resources as unused")
	}

	return ix
}

// ReferencesFor returns the reference set for a kind. The slice is
// owned by the index and must not be mutated by callers.
func (ix *Index) ReferencesFor(kind models.ArtifactKind) []models.ConfigReference {
	return ix.refs[kind]
}

// add appends a reference, dropping empty keys and exact duplicates
// while preserving first-seen order.
func (ix *Index) add(kind models.ArtifactKind, key string) {
	if key == "" {
		return
	}
	for _, existing := range ix.refs[kind] {
		if existing.Key == key {
			return
		}
	}
	ix.refs[kind] = append(ix.refs[kind], models.ConfigReference{Kind: kind, Key: key})
}
