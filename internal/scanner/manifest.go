package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// manifest mirrors the fields of a custom integration's manifest.json
// that the monitor cares about.
type manifest struct {
	Domain        string   `json:"domain"`
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Documentation string   `json:"documentation"`
	IssueTracker  string   `json:"issue_tracker"`
	Codeowners    []string `json:"codeowners"`
}

func readManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// repositoryURL extracts the most likely repository URL from a
// manifest: the documentation link when it points at GitHub, otherwise
// the issue tracker with its /issues suffix stripped.
func (m *manifest) repositoryURL() string {
	if strings.Contains(m.Documentation, "github.com") {
		return m.Documentation
	}
	if strings.Contains(m.IssueTracker, "github.com") {
		return strings.TrimSuffix(strings.Replace(m.IssueTracker, "/issues", "", 1), "/")
	}
	return ""
}
