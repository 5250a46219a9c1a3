package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/baseline"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/engine"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/hass"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/reporter"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/scanner"
	"github.com/loryanstrant/HA-CustomComponentMonitor/pkg/config"
)

// NewScanCmd creates the scan command
func NewScanCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	// String variables for custom duration parsing
	var timeoutStr string
	var cacheTTLStr string
	var failOnFindings bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan for unused custom components and generate a report",
		Long: `Scan the configuration directory for installed custom integrations,
themes and frontend resources, query the Home Assistant API for the
live configuration, and report which artifacts appear unused.

Without --ha-url the live configuration is unavailable, reference sets
are empty and every artifact is reported as unused. Connect the API
before acting on findings or combining with --fail-on-findings.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigFile(cmd, cfg); err != nil {
				return err
			}

			var err error
			if timeoutStr != "" {
				cfg.APITimeout, err = config.ParseDuration(timeoutStr)
				if err != nil {
					return fmt.Errorf("invalid --timeout duration: %w", err)
				}
			}
			if cacheTTLStr != "" {
				cfg.CacheTTL, err = config.ParseDuration(cacheTTLStr)
				if err != nil {
					return fmt.Errorf("invalid --cache-ttl duration: %w", err)
				}
			}

			return validateFormat(cfg.Format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cfg, failOnFindings)
		},
	}

	// Home Assistant flags
	cmd.Flags().StringVar(&cfg.ConfigDir, "config-dir", cfg.ConfigDir, "Home Assistant configuration directory")
	cmd.Flags().StringVar(&cfg.HAURL, "ha-url", "", "Home Assistant base URL (e.g. http://homeassistant.local:8123)")
	cmd.Flags().StringVar(&cfg.HAToken, "ha-token", "", "Home Assistant long-lived access token")
	cmd.Flags().StringVar(&timeoutStr, "timeout", "", "API timeout (e.g. 30s, 2m)")
	cmd.Flags().StringVar(&cacheTTLStr, "cache-ttl", "", "Live configuration cache TTL (e.g. 5m, 1h)")
	cmd.Flags().IntVar(&cfg.APIRateLimit, "rate-limit", cfg.APIRateLimit, "API rate limit (requests/sec)")

	// Output flags
	cmd.Flags().StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Output directory")
	cmd.Flags().StringVar(&cfg.Format, "format", cfg.Format, "Output format (json, text)")

	// Baseline flags
	cmd.Flags().StringVar(&cfg.BaselinePath, "baseline", "", "Baseline file of acknowledged findings")
	cmd.Flags().BoolVar(&cfg.UpdateBaseline, "update-baseline", false, "Record current findings into the baseline")

	// Operational flags
	cmd.Flags().BoolVar(&failOnFindings, "fail-on-findings", false, "Exit non-zero when unused artifacts remain")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Dry run mode (don't write output)")

	return cmd
}

// runScan executes one detection cycle
func runScan(cfg *config.Config, failOnFindings bool) error {
	startTime := time.Now()
	ctx := context.Background()

	report, err := executeScan(ctx, cfg, startTime, nil)
	if err != nil {
		return err
	}

	if !cfg.DryRun {
		rep := reporter.New(cfg)
		if err := rep.Generate(report); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		fmt.Printf("Report written to: %s\n", cfg.OutputDir)
	} else {
		fmt.Println("Dry run mode - skipping output")
	}

	unused := report.UnusedTotal()
	fmt.Printf("Scan complete in %s: %d unused artifacts\n",
		time.Since(startTime).Round(time.Millisecond), unused)
	if isFirstRun && cfg.HAURL == "" {
		fmt.Println("Hint: pass --ha-url and --ha-token (or create a .ccmon.yaml) to compare against the live configuration")
	}

	if failOnFindings && unused > 0 {
		return &FindingsError{Count: unused}
	}
	return nil
}

// executeScan runs discovery, live-configuration fetch, detection and
// baseline suppression, returning the finished report. A non-nil cache
// (used by the monitor loop) avoids re-querying the API every tick.
func executeScan(ctx context.Context, cfg *config.Config, startTime time.Time, cache *hass.SnapshotCache) (*models.Report, error) {
	snapshot, err := scanner.New(cfg.ConfigDir).Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan config directory: %w", err)
	}

	if cfg.HAURL != "" {
		if cached, ok := cachedLive(cache); ok {
			snapshot.Live = *cached
		} else {
			client := hass.NewClient(cfg.HAURL, cfg.HAToken, cfg.APITimeout, cfg.APIRateLimit)
			live, err := hass.FetchSnapshotLive(ctx, client)
			if err != nil {
				slog.Warn("could not reach home assistant, reporting all artifacts as unused",
					slog.String("error", err.Error()),
				)
			} else {
				snapshot.Live = live
				if cache != nil {
					cache.Set(live)
				}
			}
		}
	} else {
		slog.Warn("no home assistant URL configured, reporting all artifacts as unused")
	}

	report := engine.Run(snapshot)
	report.Tool = "ccmon"
	report.Version = version
	report.Timestamp = time.Now().UTC().Format(time.RFC3339)
	report.Metadata = models.Metadata{
		GeneratedAt:   time.Now().UTC(),
		ConfigDir:     cfg.ConfigDir,
		HomeAssistant: cfg.HAURL,
		ScanDuration:  time.Since(startTime).Round(time.Millisecond).String(),
		Version:       version,
	}

	if err := applyBaseline(cfg, report); err != nil {
		return nil, err
	}

	return report, nil
}

func cachedLive(cache *hass.SnapshotCache) (*models.LiveConfiguration, bool) {
	if cache == nil {
		return nil, false
	}
	return cache.Get()
}

// applyBaseline suppresses acknowledged findings and optionally records
// the current ones.
func applyBaseline(cfg *config.Config, report *models.Report) error {
	path := cfg.BaselinePath
	if path == "" {
		if !cfg.UpdateBaseline {
			return nil
		}
		path = baseline.DefaultPath
	}

	known, err := baseline.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}

	if cfg.UpdateBaseline {
		baseline.AddAll(known, baseline.CollectFingerprints(report))
		if err := baseline.Save(path, known); err != nil {
			return fmt.Errorf("failed to update baseline: %w", err)
		}
		slog.Debug("baseline updated", slog.String("path", path), slog.Int("size", len(known)))
	}

	suppressed, remaining := baseline.SuppressKnown(report, known)
	if suppressed > 0 {
		slog.Debug("baseline suppression applied",
			slog.Int("suppressed", suppressed),
			slog.Int("remaining", remaining),
		)
	}
	return nil
}

// applyConfigFile merges values from an auto-discovered .ccmon.yaml
// into settings the user did not override on the command line.
func applyConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	fileCfg, source, err := config.AutoLoadFile()
	if err != nil {
		return err
	}
	if fileCfg == nil {
		return nil
	}
	slog.Debug("loaded config file", slog.String("path", source))

	flagChanged := func(name string) bool {
		flag := cmd.Flags().Lookup(name)
		return flag != nil && flag.Changed
	}

	if fileCfg.ConfigDir != "" && !flagChanged("config-dir") {
		cfg.ConfigDir = fileCfg.ConfigDir
	}
	if fileCfg.HAURL != "" && !flagChanged("ha-url") {
		cfg.HAURL = fileCfg.HAURL
	}
	if fileCfg.HAToken != "" && !flagChanged("ha-token") {
		cfg.HAToken = fileCfg.HAToken
	}
	if fileCfg.OutputDir != "" && !flagChanged("output") {
		cfg.OutputDir = fileCfg.OutputDir
	}
	if fileCfg.Format != "" && !flagChanged("format") {
		cfg.Format = fileCfg.Format
	}
	if fileCfg.Baseline != "" && !flagChanged("baseline") {
		cfg.BaselinePath = fileCfg.Baseline
	}
	if fileCfg.HistoryDB != "" && !flagChanged("history-db") {
		cfg.HistoryDB = fileCfg.HistoryDB
	}
	if fileCfg.Timeout != "" && !flagChanged("timeout") {
		cfg.APITimeout, err = config.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in config file: %w", err)
		}
	}
	if fileCfg.CacheTTL != "" && !flagChanged("cache-ttl") {
		cfg.CacheTTL, err = config.ParseDuration(fileCfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache_ttl in config file: %w", err)
		}
	}
	if fileCfg.Interval != "" && !flagChanged("interval") {
		cfg.Interval, err = config.ParseDuration(fileCfg.Interval)
		if err != nil {
			return fmt.Errorf("invalid interval in config file: %w", err)
		}
	}

	if fileCfg.MQTT.Broker != "" && !flagChanged("mqtt-broker") {
		cfg.MQTT.Broker = fileCfg.MQTT.Broker
		if fileCfg.MQTT.ClientID != "" {
			cfg.MQTT.ClientID = fileCfg.MQTT.ClientID
		}
		if !flagChanged("mqtt-username") {
			cfg.MQTT.Username = fileCfg.MQTT.Username
		}
		if !flagChanged("mqtt-password") {
			cfg.MQTT.Password = fileCfg.MQTT.Password
		}
		if fileCfg.MQTT.QoS != nil {
			cfg.MQTT.QoS = byte(*fileCfg.MQTT.QoS)
		}
		if fileCfg.MQTT.DiscoveryPrefix != "" {
			cfg.MQTT.DiscoveryPrefix = fileCfg.MQTT.DiscoveryPrefix
		}
		if fileCfg.MQTT.TopicPrefix != "" {
			cfg.MQTT.TopicPrefix = fileCfg.MQTT.TopicPrefix
		}
	}
	if fileCfg.Influx.URL != "" {
		cfg.Influx.URL = fileCfg.Influx.URL
		cfg.Influx.Token = fileCfg.Influx.Token
		cfg.Influx.Org = fileCfg.Influx.Org
		cfg.Influx.Bucket = fileCfg.Influx.Bucket
	}

	return nil
}

func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case "", config.FormatJSON, config.FormatText:
		return nil
	}
	return fmt.Errorf("invalid format %q: expected json or text", format)
}
