package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFileYAML is the canonical config filename.
	DefaultConfigFileYAML = ".ccmon.yaml"
	// DefaultConfigFileYML is a compatible alternate config filename.
	DefaultConfigFileYML = ".ccmon.yml"
)

// FileConfig represents values loaded from a .ccmon.yaml file.
type FileConfig struct {
	ConfigDir string `yaml:"config_dir"`
	HAURL     string `yaml:"ha_url"`
	HAToken   string `yaml:"ha_token"`
	Timeout   string `yaml:"timeout"`
	CacheTTL  string `yaml:"cache_ttl"`
	Format    string `yaml:"format"`
	OutputDir string `yaml:"output_dir"`
	Baseline  string `yaml:"baseline"`
	Interval  string `yaml:"interval"`
	HistoryDB string `yaml:"history_db"`

	MQTT struct {
		Broker          string `yaml:"broker"`
		ClientID        string `yaml:"client_id"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		QoS             *int   `yaml:"qos"`
		DiscoveryPrefix string `yaml:"discovery_prefix"`
		TopicPrefix     string `yaml:"topic_prefix"`
	} `yaml:"mqtt"`

	Influx struct {
		URL    string `yaml:"url"`
		Token  string `yaml:"token"`
		Org    string `yaml:"org"`
		Bucket string `yaml:"bucket"`
	} `yaml:"influxdb"`
}

// Normalize trims whitespace from every string field.
func (fc *FileConfig) Normalize() {
	if fc == nil {
		return
	}
	fc.ConfigDir = strings.TrimSpace(fc.ConfigDir)
	fc.HAURL = strings.TrimSpace(fc.HAURL)
	fc.HAToken = strings.TrimSpace(fc.HAToken)
	fc.Timeout = strings.TrimSpace(fc.Timeout)
	fc.CacheTTL = strings.TrimSpace(fc.CacheTTL)
	fc.Format = strings.TrimSpace(fc.Format)
	fc.OutputDir = strings.TrimSpace(fc.OutputDir)
	fc.Baseline = strings.TrimSpace(fc.Baseline)
	fc.Interval = strings.TrimSpace(fc.Interval)
	fc.HistoryDB = strings.TrimSpace(fc.HistoryDB)
	fc.MQTT.Broker = strings.TrimSpace(fc.MQTT.Broker)
	fc.MQTT.ClientID = strings.TrimSpace(fc.MQTT.ClientID)
	fc.Influx.URL = strings.TrimSpace(fc.Influx.URL)
}

// AutoLoadFile discovers and loads the first available config file.
func AutoLoadFile() (*FileConfig, string, error) {
	candidates := []string{
		DefaultConfigFileYAML,
		DefaultConfigFileYML,
	}

	if homeDir, err := os.UserHomeDir(); err == nil && strings.TrimSpace(homeDir) != "" {
		candidates = append(candidates,
			filepath.Join(homeDir, DefaultConfigFileYAML),
			filepath.Join(homeDir, DefaultConfigFileYML),
		)
	}

	return LoadFirstExistingFile(candidates)
}

// LoadFirstExistingFile loads the first config file that exists in paths.
func LoadFirstExistingFile(paths []string) (*FileConfig, string, error) {
	for _, path := range paths {
		candidate := strings.TrimSpace(path)
		if candidate == "" {
			continue
		}

		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to access config file %q: %w", candidate, err)
		}
		if info.IsDir() {
			return nil, "", fmt.Errorf("config path %q is a directory, expected a file", candidate)
		}

		cfg, err := LoadFile(candidate)
		if err != nil {
			return nil, "", err
		}
		return cfg, candidate, nil
	}

	return nil, "", nil
}

// LoadFile loads config values from a specific YAML file path.
func LoadFile(path string) (*FileConfig, error) {
	filename := strings.TrimSpace(path)
	if filename == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", filename, err)
	}

	cfg := &FileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", filename, err)
	}

	cfg.Normalize()
	return cfg, nil
}
