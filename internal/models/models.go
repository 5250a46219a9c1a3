package models

import "time"

// ArtifactKind identifies the class of an installed custom component.
type ArtifactKind string

const (
	KindIntegration      ArtifactKind = "integration"
	KindTheme            ArtifactKind = "theme"
	KindFrontendResource ArtifactKind = "frontend_resource"
)

// Kinds returns every artifact kind in report order.
func Kinds() []ArtifactKind {
	return []ArtifactKind{KindIntegration, KindTheme, KindFrontendResource}
}

// RawRecord is one discovery record as produced by the scanner.
// Any field may be empty; the catalog decides what is usable.
type RawRecord struct {
	Identifier    string
	DisplayName   string
	Version       string
	RepositoryURL string
	InstalledAt   time.Time
	Source        string // where the record came from, for skip diagnostics
}

// Artifact is one installed custom component after catalog normalization.
// Identifier is unique within a kind.
type Artifact struct {
	Kind          ArtifactKind `json:"kind"`
	Identifier    string       `json:"identifier"`
	DisplayName   string       `json:"display_name,omitempty"`
	Version       string       `json:"version,omitempty"`
	RepositoryURL string       `json:"repository_url,omitempty"`
	InstalledAt   time.Time    `json:"installed_at,omitzero"`
}

// ConfigReference is one live usage signal extracted from the running
// configuration. Key is the raw, unnormalized configuration value;
// normalization happens only inside the matcher.
type ConfigReference struct {
	Kind ArtifactKind `json:"kind"`
	Key  string       `json:"key"`
}

// MatchStrategy names the matching strategy that resolved a verdict.
type MatchStrategy string

const (
	StrategyNone      MatchStrategy = ""
	StrategyExact     MatchStrategy = "exact"
	StrategySlug      MatchStrategy = "slug"
	StrategySubstring MatchStrategy = "substring"
	StrategyStem      MatchStrategy = "stem"
)

// MatchResult is the verdict for a single artifact. The matcher does not
// own the artifact; it only reads it.
type MatchResult struct {
	Artifact         *Artifact        `json:"artifact"`
	Used             bool             `json:"used"`
	MatchedReference *ConfigReference `json:"matched_reference,omitempty"`
	Strategy         MatchStrategy    `json:"strategy,omitempty"`
}

// ActiveEntry is one configured integration entry from Home Assistant.
type ActiveEntry struct {
	Domain string `json:"domain"`
	Title  string `json:"title,omitempty"`
}

// LiveConfiguration is the snapshot of the running Home Assistant
// configuration a detection cycle works against. The Available flags
// record which sections the collaborator managed to fetch; a missing
// section degrades to an empty reference set for that kind.
type LiveConfiguration struct {
	Components        []string      `json:"components,omitempty"`
	ActiveEntries     []ActiveEntry `json:"active_entries,omitempty"`
	ActiveTheme       string        `json:"active_theme,omitempty"`
	ConfiguredThemes  []string      `json:"configured_themes,omitempty"`
	FrontendResources []string      `json:"frontend_resources,omitempty"`

	IntegrationsAvailable bool `json:"integrations_available"`
	ThemesAvailable       bool `json:"themes_available"`
	FrontendAvailable     bool `json:"frontend_available"`
}

// Snapshot bundles everything one detection cycle consumes. It is built
// fresh per cycle; the engine retains no state between invocations.
type Snapshot struct {
	Integrations []RawRecord
	Themes       []RawRecord
	Frontend     []RawRecord
	Live         LiveConfiguration
}

// RecordsFor returns the raw discovery records for a kind.
func (s *Snapshot) RecordsFor(kind ArtifactKind) []RawRecord {
	switch kind {
	case KindIntegration:
		return s.Integrations
	case KindTheme:
		return s.Themes
	case KindFrontendResource:
		return s.Frontend
	}
	return nil
}
