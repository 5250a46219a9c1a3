package matcher

import (
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

// strategyFunc attempts to resolve a reference for an artifact. It
// returns the matched reference or nil. Strategies are pure functions;
// they never mutate the artifact or the reference keys.
type strategyFunc func(artifact *models.Artifact, refs []models.ConfigReference) *models.ConfigReference

// strategy pairs a strategy function with its diagnostic name and the
// kinds it applies to (nil means all kinds).
type strategy struct {
	name  models.MatchStrategy
	fn    strategyFunc
	kinds []models.ArtifactKind
}

// chain is the fixed priority order. Each fallback deliberately widens
// what counts as "used": false negatives on usage are worse than
// clearing a truly-unused artifact, so aggressive matching is accepted
// as a precision/recall trade-off. The filename-stem heuristic only
// applies to themes and frontend resources, where install names and
// configuration keys routinely disagree on path and extension.
var chain = []strategy{
	{name: models.StrategyExact, fn: matchExact},
	{name: models.StrategySlug, fn: matchSlug},
	{name: models.StrategySubstring, fn: matchSubstring},
	{
		name:  models.StrategyStem,
		fn:    matchStem,
		kinds: []models.ArtifactKind{models.KindTheme, models.KindFrontendResource},
	},
}

// Match classifies a single artifact against the reference set of its
// kind, trying each strategy in priority order and stopping at the
// first success. Multiple references may match; only the first one (by
// strategy order, then reference iteration order) is recorded.
func Match(artifact *models.Artifact, refs []models.ConfigReference) models.MatchResult {
	result := models.MatchResult{Artifact: artifact}

	// An identifier that is empty after normalization can never match.
	if artifact == nil || artifact.Identifier == "" {
		return result
	}

	for _, s := range chain {
		if !s.applies(artifact.Kind) {
			continue
		}
		if ref := s.fn(artifact, refs); ref != nil {
			result.Used = true
			result.MatchedReference = ref
			result.Strategy = s.name
			return result
		}
	}

	return result
}

// MatchAll classifies every artifact in order, returning one verdict
// per artifact.
func MatchAll(artifacts []models.Artifact, refs []models.ConfigReference) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(artifacts))
	for i := range artifacts {
		results = append(results, Match(&artifacts[i], refs))
	}
	return results
}

func (s strategy) applies(kind models.ArtifactKind) bool {
	if len(s.kinds) == 0 {
		return true
	}
	for _, k := range s.kinds {
		if k == kind {
			return true
		}
	}
	return false
}
