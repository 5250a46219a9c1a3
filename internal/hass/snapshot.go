package hass

import (
	"context"
	"log/slog"
	"sort"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

// FetchLiveConfiguration queries the connected instance for everything
// the detection engine needs. Each section degrades independently: a
// failed command logs a warning and leaves that section's Available
// flag false, so the affected kinds get an empty reference set and
// their artifacts are reported unused rather than aborting the cycle.
func (c *Client) FetchLiveConfiguration(ctx context.Context) models.LiveConfiguration {
	live := models.LiveConfiguration{}

	var cfg struct {
		Components []string `json:"components"`
	}
	if err := c.call(ctx, "get_config", &cfg); err != nil {
		slog.Warn("could not fetch core config", slog.String("error", err.Error()))
	} else {
		live.Components = cfg.Components
		live.IntegrationsAvailable = true
	}

	var entries []struct {
		Domain string `json:"domain"`
		Title  string `json:"title"`
	}
	if err := c.call(ctx, "config_entries/get", &entries); err != nil {
		slog.Warn("could not fetch config entries", slog.String("error", err.Error()))
		live.IntegrationsAvailable = false
	} else {
		for _, entry := range entries {
			live.ActiveEntries = append(live.ActiveEntries, models.ActiveEntry{
				Domain: entry.Domain,
				Title:  entry.Title,
			})
		}
	}

	var themes struct {
		DefaultTheme string                    `json:"default_theme"`
		Themes       map[string]map[string]any `json:"themes"`
	}
	if err := c.call(ctx, "frontend/get_themes", &themes); err != nil {
		slog.Warn("could not fetch themes", slog.String("error", err.Error()))
	} else {
		live.ActiveTheme = themes.DefaultTheme
		for name := range themes.Themes {
			live.ConfiguredThemes = append(live.ConfiguredThemes, name)
		}
		sort.Strings(live.ConfiguredThemes)
		live.ThemesAvailable = true
	}

	var resources []struct {
		URL  string `json:"url"`
		Type string `json:"type"`
	}
	if err := c.call(ctx, "lovelace/resources", &resources); err != nil {
		slog.Warn("could not fetch lovelace resources", slog.String("error", err.Error()))
	} else {
		for _, res := range resources {
			live.FrontendResources = append(live.FrontendResources, res.URL)
		}
		live.FrontendAvailable = true
	}

	return live
}

// FetchSnapshotLive connects, fetches the live configuration with
// retry on transient network failures, and disconnects. Auth failures
// surface immediately.
func FetchSnapshotLive(ctx context.Context, client *Client) (models.LiveConfiguration, error) {
	var live models.LiveConfiguration
	err := executeWithRetry(ctx, "fetch live configuration", func() error {
		if err := client.Connect(ctx); err != nil {
			return err
		}
		defer client.Close()
		live = client.FetchLiveConfiguration(ctx)
		return nil
	})
	return live, err
}
