package refindex

import (
	"testing"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

func TestBuildIndexesEachKind(t *testing.T) {
	live := models.LiveConfiguration{
		Components:            []string{"foo_sensor", "hacs"},
		ActiveEntries:         []models.ActiveEntry{{Domain: "bar_light", Title: "Bar Light"}},
		ActiveTheme:           "midnight",
		ConfiguredThemes:      []string{"midnight", "nord-dark"},
		FrontendResources:     []string{"/hacsfiles/my-card/my-card.js"},
		IntegrationsAvailable: true,
		ThemesAvailable:       true,
		FrontendAvailable:     true,
	}

	ix := Build(live)

	integrations := ix.ReferencesFor(models.KindIntegration)
	if len(integrations) != 3 {
		t.Fatalf("expected 3 integration references, got %d", len(integrations))
	}

	themes := ix.ReferencesFor(models.KindTheme)
	if len(themes) != 2 {
		t.Fatalf("expected duplicate active theme to collapse, got %d references", len(themes))
	}
	if themes[0].Key != "midnight" {
		t.Fatalf("expected first theme reference to be the active theme, got %q", themes[0].Key)
	}

	frontend := ix.ReferencesFor(models.KindFrontendResource)
	if len(frontend) != 1 {
		t.Fatalf("expected 1 frontend reference, got %d", len(frontend))
	}
	if frontend[0].Key != "/hacsfiles/my-card/my-card.js" {
		t.Fatalf("expected raw URL to be preserved, got %q", frontend[0].Key)
	}
}

func TestBuildPreservesRawKeys(t *testing.T) {
	live := models.LiveConfiguration{
		ConfiguredThemes: []string{"Nord Dark!"},
		ThemesAvailable:  true,
	}

	ix := Build(live)
	refs := ix.ReferencesFor(models.KindTheme)
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}
	if refs[0].Key != "Nord Dark!" {
		t.Fatalf("expected key to stay unnormalized, got %q", refs[0].Key)
	}
}

func TestBuildUnavailableSectionsYieldEmptySets(t *testing.T) {
	ix := Build(models.LiveConfiguration{})

	for _, kind := range models.Kinds() {
		if refs := ix.ReferencesFor(kind); len(refs) != 0 {
			t.Fatalf("expected empty reference set for %s, got %d", kind, len(refs))
		}
	}
}

func TestBuildDropsEmptyKeys(t *testing.T) {
	live := models.LiveConfiguration{
		Components:        []string{"", "valid"},
		FrontendResources: []string{""},
	}

	ix := Build(live)
	if got := len(ix.ReferencesFor(models.KindIntegration)); got != 1 {
		t.Fatalf("expected empty component names to be dropped, got %d references", got)
	}
	if got := len(ix.ReferencesFor(models.KindFrontendResource)); got != 0 {
		t.Fatalf("expected empty URLs to be dropped, got %d references", got)
	}
}
