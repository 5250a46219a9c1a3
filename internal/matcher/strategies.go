package matcher

import (
	"strings"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

// matchExact compares the identifier against reference keys verbatim,
// case-sensitive. Highest confidence.
func matchExact(artifact *models.Artifact, refs []models.ConfigReference) *models.ConfigReference {
	for i := range refs {
		if refs[i].Key == artifact.Identifier {
			return &refs[i]
		}
	}
	return nil
}

// matchSlug lower-cases and strips non-alphanumeric characters from
// both sides before comparing. Handles punctuation and casing drift
// between install path and configuration key.
func matchSlug(artifact *models.Artifact, refs []models.ConfigReference) *models.ConfigReference {
	slug := slugify(artifact.Identifier)
	if slug == "" {
		return nil
	}
	for i := range refs {
		if slugify(refs[i].Key) == slug {
			return &refs[i]
		}
	}
	return nil
}

// matchSubstring checks containment in either direction, ignoring case.
// This covers frontend resources where the reference is a served URL
// path and the identifier is a bare filename.
func matchSubstring(artifact *models.Artifact, refs []models.ConfigReference) *models.ConfigReference {
	id := strings.ToLower(artifact.Identifier)
	if id == "" {
		return nil
	}
	for i := range refs {
		key := strings.ToLower(refs[i].Key)
		if key == "" {
			continue
		}
		if strings.Contains(key, id) || strings.Contains(id, key) {
			return &refs[i]
		}
	}
	return nil
}

// matchStem compares only the filename portion of both sides, after the
// last path separator and with the extension stripped.
func matchStem(artifact *models.Artifact, refs []models.ConfigReference) *models.ConfigReference {
	idStem := stem(artifact.Identifier)
	if idStem == "" {
		return nil
	}
	for i := range refs {
		if stem(refs[i].Key) == idStem {
			return &refs[i]
		}
	}
	return nil
}

// slugify reduces a value to lower-case alphanumerics.
func slugify(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stem returns the lower-cased filename portion with any query string
// and extension removed.
func stem(value string) string {
	v := value
	if idx := strings.IndexByte(v, '?'); idx >= 0 {
		v = v[:idx]
	}
	if idx := strings.LastIndexByte(v, '/'); idx >= 0 {
		v = v[idx+1:]
	}
	if idx := strings.LastIndexByte(v, '.'); idx > 0 {
		v = v[:idx]
	}
	return strings.ToLower(v)
}
