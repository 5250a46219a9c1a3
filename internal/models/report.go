package models

import "time"

// UnusedItem carries the metadata surfaced for one unused artifact.
type UnusedItem struct {
	Identifier    string    `json:"identifier"`
	Name          string    `json:"name"`
	Version       string    `json:"version,omitempty"`
	RepositoryURL string    `json:"repository_url,omitempty"`
	InstalledAt   time.Time `json:"installed_at,omitzero"`
}

// UsageReport is the per-kind outcome of a detection cycle.
// Total == Used + len(UnusedItems) + Acknowledged holds at all times;
// Acknowledged only becomes non-zero after baseline suppression.
type UsageReport struct {
	Kind         ArtifactKind `json:"kind"`
	Total        int          `json:"total"`
	Used         int          `json:"used"`
	UnusedItems  []UnusedItem `json:"unused"`
	Acknowledged int          `json:"acknowledged,omitempty"`
}

// SkippedRecord describes a data-quality skip: a record or artifact
// excluded from matching instead of surfaced as unused.
type SkippedRecord struct {
	Kind   ArtifactKind `json:"kind,omitempty"`
	Source string       `json:"source,omitempty"`
	Reason string       `json:"reason"`
}

// Metadata contains report generation info.
type Metadata struct {
	GeneratedAt   time.Time `json:"generated_at"`
	ConfigDir     string    `json:"config_dir,omitempty"`
	HomeAssistant string    `json:"home_assistant,omitempty"`
	ScanDuration  string    `json:"scan_duration,omitempty"`
	Version       string    `json:"version"`
}

// Report is the complete output of one scan cycle.
type Report struct {
	Tool         string          `json:"tool"`
	Version      string          `json:"version"`
	Timestamp    string          `json:"timestamp"`
	Metadata     Metadata        `json:"metadata"`
	Integrations UsageReport     `json:"integrations"`
	Themes       UsageReport     `json:"themes"`
	Frontend     UsageReport     `json:"frontend_resources"`
	Skipped      []SkippedRecord `json:"skipped"`
}

// ByKind returns the usage report for a kind, or nil for an unknown kind.
func (r *Report) ByKind(kind ArtifactKind) *UsageReport {
	switch kind {
	case KindIntegration:
		return &r.Integrations
	case KindTheme:
		return &r.Themes
	case KindFrontendResource:
		return &r.Frontend
	}
	return nil
}

// UnusedTotal returns the number of unused artifacts across all kinds.
func (r *Report) UnusedTotal() int {
	if r == nil {
		return 0
	}
	return len(r.Integrations.UnusedItems) + len(r.Themes.UnusedItems) + len(r.Frontend.UnusedItems)
}
