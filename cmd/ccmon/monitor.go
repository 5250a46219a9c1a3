package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/hass"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/history"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/metrics"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/publisher"
	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/reporter"
	"github.com/loryanstrant/HA-CustomComponentMonitor/pkg/config"
)

// NewMonitorCmd creates the monitor command
func NewMonitorCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	var intervalStr string
	var timeoutStr string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run periodic scans and publish results",
		Long: `Run scans on a fixed interval until interrupted. Each cycle writes
the report and, when configured, publishes sensor states over MQTT,
appends counts to the history database and exports metrics to InfluxDB.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigFile(cmd, cfg); err != nil {
				return err
			}

			var err error
			if intervalStr != "" {
				cfg.Interval, err = config.ParseDuration(intervalStr)
				if err != nil {
					return fmt.Errorf("invalid --interval duration: %w", err)
				}
			}
			if cfg.Interval < time.Minute {
				return fmt.Errorf("invalid interval %s: must be at least 1m", cfg.Interval)
			}
			if timeoutStr != "" {
				cfg.APITimeout, err = config.ParseDuration(timeoutStr)
				if err != nil {
					return fmt.Errorf("invalid --timeout duration: %w", err)
				}
			}

			return validateFormat(cfg.Format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cfg)
		},
	}

	// Home Assistant flags
	cmd.Flags().StringVar(&cfg.ConfigDir, "config-dir", cfg.ConfigDir, "Home Assistant configuration directory")
	cmd.Flags().StringVar(&cfg.HAURL, "ha-url", "", "Home Assistant base URL")
	cmd.Flags().StringVar(&cfg.HAToken, "ha-token", "", "Home Assistant long-lived access token")
	cmd.Flags().StringVar(&timeoutStr, "timeout", "", "API timeout (e.g. 30s, 2m)")

	// Monitor flags
	cmd.Flags().StringVar(&intervalStr, "interval", "", "Scan interval (e.g. 30m, 1h, 1d; default 1h)")
	cmd.Flags().StringVar(&cfg.MQTT.Broker, "mqtt-broker", "", "MQTT broker URL (e.g. tcp://mosquitto:1883)")
	cmd.Flags().StringVar(&cfg.MQTT.Username, "mqtt-username", "", "MQTT username")
	cmd.Flags().StringVar(&cfg.MQTT.Password, "mqtt-password", "", "MQTT password")
	cmd.Flags().StringVar(&cfg.HistoryDB, "history-db", "", "SQLite file for scan history")

	// Output flags
	cmd.Flags().StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Output directory")
	cmd.Flags().StringVar(&cfg.Format, "format", cfg.Format, "Output format (json, text)")
	cmd.Flags().StringVar(&cfg.BaselinePath, "baseline", "", "Baseline file of acknowledged findings")

	return cmd
}

// monitorSinks holds the optional per-cycle destinations.
type monitorSinks struct {
	publisher *publisher.Publisher
	store     *history.Store
	metrics   *metrics.Sink
}

func (s *monitorSinks) close() {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.metrics != nil {
		s.metrics.Close()
	}
}

// runMonitor loops scans until the process is interrupted.
func runMonitor(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sinks, err := connectSinks(cfg)
	if err != nil {
		return err
	}
	defer sinks.close()

	fmt.Printf("Monitoring every %s (Ctrl+C to stop)\n", cfg.Interval)

	cache := hass.NewSnapshotCache(cfg.CacheTTL)
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	runCycle(ctx, cfg, sinks, cache)
	for {
		select {
		case <-ctx.Done():
			fmt.Println("Shutting down")
			return nil
		case <-ticker.C:
			runCycle(ctx, cfg, sinks, cache)
		}
	}
}

// connectSinks sets up MQTT, history and metrics destinations as
// configured. A sink that fails to connect aborts startup; running
// silently without a requested destination would hide data loss.
func connectSinks(cfg *config.Config) (*monitorSinks, error) {
	sinks := &monitorSinks{}

	if cfg.MQTT.Enabled() {
		pub, err := publisher.Connect(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("failed to connect MQTT publisher: %w", err)
		}
		if err := pub.PublishDiscovery(version); err != nil {
			_ = pub.Close()
			return nil, fmt.Errorf("failed to publish MQTT discovery: %w", err)
		}
		sinks.publisher = pub
	}

	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			sinks.close()
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		sinks.store = store
	}

	if cfg.Influx.Enabled() {
		sink, err := metrics.Connect(cfg.Influx)
		if err != nil {
			sinks.close()
			return nil, fmt.Errorf("failed to connect InfluxDB sink: %w", err)
		}
		sinks.metrics = sink
	}

	return sinks, nil
}

// runCycle performs one scan and fans the report out. Cycle errors are
// logged, not fatal; the next tick gets another chance.
func runCycle(ctx context.Context, cfg *config.Config, sinks *monitorSinks, cache *hass.SnapshotCache) {
	startTime := time.Now()

	report, err := executeScan(ctx, cfg, startTime, cache)
	if err != nil {
		slog.Error("scan cycle failed", slog.String("error", err.Error()))
		return
	}

	if !cfg.DryRun {
		if err := reporter.New(cfg).Generate(report); err != nil {
			slog.Error("failed to write report", slog.String("error", err.Error()))
		}
	}

	if sinks.publisher != nil {
		if err := sinks.publisher.PublishReport(report); err != nil {
			slog.Error("failed to publish scan results", slog.String("error", err.Error()))
		}
	}
	if sinks.store != nil {
		if err := sinks.store.Record(ctx, report); err != nil {
			slog.Error("failed to record scan history", slog.String("error", err.Error()))
		}
	}
	if sinks.metrics != nil {
		sinks.metrics.WriteReport(report)
	}

	slog.Debug("scan cycle complete",
		slog.Int("unused", report.UnusedTotal()),
		slog.Duration("duration", time.Since(startTime)),
	)
}
