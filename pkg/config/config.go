package config

import "time"

// Report formats accepted by --format.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// MQTTConfig holds broker settings for publishing scan results as
// Home Assistant MQTT discovery sensors.
type MQTTConfig struct {
	Broker          string
	ClientID        string
	Username        string
	Password        string
	QoS             byte
	DiscoveryPrefix string
	TopicPrefix     string
}

// Enabled reports whether MQTT publishing is configured.
func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}

// InfluxConfig holds settings for the optional InfluxDB metrics sink.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Enabled reports whether metrics export is configured.
func (i InfluxConfig) Enabled() bool {
	return i.URL != ""
}

// Config holds all runtime configuration
type Config struct {
	// Home Assistant settings
	ConfigDir    string
	HAURL        string
	HAToken      string
	APITimeout   time.Duration
	APIRateLimit int
	CacheTTL     time.Duration

	// Output settings
	OutputDir string
	Format    string

	// Baseline settings
	BaselinePath   string
	UpdateBaseline bool

	// Monitor settings
	Interval  time.Duration
	MQTT      MQTTConfig
	HistoryDB string
	Influx    InfluxConfig

	// Operational flags
	Verbose bool
	DryRun  bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ConfigDir:    "/config",
		APITimeout:   30 * time.Second,
		APIRateLimit: 10,
		CacheTTL:     5 * time.Minute,
		OutputDir:    "./report",
		Format:       FormatJSON,
		Interval:     time.Hour,
		MQTT: MQTTConfig{
			ClientID:        "ccmon",
			DiscoveryPrefix: "homeassistant",
			TopicPrefix:     "ccmon",
			QoS:             1,
		},
		Verbose: false,
		DryRun:  false,
	}
}
