// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"tariffcheck/internal/errors"
	"tariffcheck/internal/logging"
)

// Source names accepted by TariffConfig.Source
const (
	SourceTable        = "table"
	SourceAPISimulated = "api-simulated"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Tariff contains rate resolution settings
	Tariff TariffConfig `json:"tariff"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains HTTP adapter configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// TariffConfig contains tariff-related settings
type TariffConfig struct {
	// RulesPath is an HCL rule table replacing the built-in one ("" = built-in)
	RulesPath string `json:"rules_path,omitempty"`

	// Source selects the rate source (table, api-simulated)
	Source string `json:"source"`

	// APIDelayMillis is the artificial latency of the simulated API source
	APIDelayMillis int `json:"api_delay_ms"`

	// CacheEnabled enables the session cache
	CacheEnabled bool `json:"cache_enabled"`

	// CacheTTLSeconds is how long before the whole cache resets
	CacheTTLSeconds int `json:"cache_ttl_seconds"`

	// ApproximationFraction is the share of the price attributed to tariff
	// when a flat fee is not smaller than the price
	ApproximationFraction decimal.Decimal `json:"approximation_fraction"`

	// PostalThreshold is the price below which postal shipment is inferred
	PostalThreshold decimal.Decimal `json:"postal_threshold"`
}

// CacheTTL returns the cache TTL as a duration
func (t TariffConfig) CacheTTL() time.Duration {
	return time.Duration(t.CacheTTLSeconds) * time.Second
}

// APIDelay returns the simulated API latency as a duration
func (t TariffConfig) APIDelay() time.Duration {
	return time.Duration(t.APIDelayMillis) * time.Millisecond
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// ShowExplanation prints formula and inputs under the summary
	ShowExplanation bool `json:"show_explanation"`
}

// ServerConfig contains HTTP adapter settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Tariff: TariffConfig{
			Source:                SourceTable,
			APIDelayMillis:        500,
			CacheEnabled:          true,
			CacheTTLSeconds:       86400, // 24 hours
			ApproximationFraction: decimal.RequireFromString("0.70"),
			PostalThreshold:       decimal.NewFromInt(100),
		},
		Output: OutputConfig{
			DefaultFormat:   "text",
			ShowExplanation: false,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.tariffcheck.json
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".tariffcheck.json")
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config", err).WithContext("path", path)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("failed to parse config", err).WithContext("path", path)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	t := c.Tariff
	if t.Source != SourceTable && t.Source != SourceAPISimulated {
		return errors.Newf(errors.TypeConfig, "unknown tariff source %q", t.Source)
	}
	if t.ApproximationFraction.IsNegative() || t.ApproximationFraction.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Newf(errors.TypeConfig, "approximation_fraction must be within [0, 1], got %s", t.ApproximationFraction)
	}
	if t.PostalThreshold.IsNegative() {
		return errors.Newf(errors.TypeConfig, "postal_threshold must not be negative, got %s", t.PostalThreshold)
	}
	if t.CacheTTLSeconds < 0 || t.APIDelayMillis < 0 {
		return errors.New(errors.TypeConfig, "durations must not be negative")
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
