package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
	"github.com/loryanstrant/HA-CustomComponentMonitor/pkg/config"
)

const pingTimeout = 10 * time.Second

// Sink exports per-kind usage counts to InfluxDB so long-term trends
// can be graphed next to the rest of a home's telemetry. Writes are
// non-blocking and batched by the client library.
type Sink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
}

// Connect creates the client and verifies the server responds.
func Connect(cfg config.InfluxConfig) (*Sink, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influxdb ping: %w", err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("influxdb server at %s not healthy", cfg.URL)
	}

	sink := &Sink{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
	}

	// Async write failures surface through a channel; log them rather
	// than failing the scan cycle.
	go func() {
		for err := range sink.writeAPI.Errors() {
			slog.Warn("influxdb write failed", slog.String("error", err.Error()))
		}
	}()

	return sink, nil
}

// WriteReport records one point per artifact kind for a scan cycle.
func (s *Sink) WriteReport(report *models.Report) {
	for _, point := range reportPoints(report) {
		s.writeAPI.WritePoint(point)
	}
}

func reportPoints(report *models.Report) []*write.Point {
	at := report.Metadata.GeneratedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	points := make([]*write.Point, 0, len(models.Kinds()))
	for _, kind := range models.Kinds() {
		usage := report.ByKind(kind)
		points = append(points, write.NewPoint(
			"component_usage",
			map[string]string{
				"kind": string(kind),
			},
			map[string]interface{}{
				"total":        usage.Total,
				"used":         usage.Used,
				"unused":       len(usage.UnusedItems),
				"acknowledged": usage.Acknowledged,
			},
			at,
		))
	}
	return points
}

// Close flushes pending points and shuts the client down.
func (s *Sink) Close() {
	if s.client == nil {
		return
	}
	s.writeAPI.Flush()
	s.client.Close()
}
