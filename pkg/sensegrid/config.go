package sensegrid

import (
	"github.com/Niewiaro/sensegrid/internal/adapters/mqtt"
	"github.com/Niewiaro/sensegrid/internal/app/config"
)

// Config re-exports the root configuration struct so downstream projects
// can construct or modify it programmatically.
type Config = config.Config

type (
	// MQTTConfig holds broker connection and subscription details.
	MQTTConfig = mqtt.Config
	// StoreConfig bounds per-device history.
	StoreConfig = config.StoreConfig
	// MetricsConfig configures the metrics/state HTTP server.
	MetricsConfig = config.MetricsConfig
	// LogConfig configures log level and rotation.
	LogConfig = config.LogConfig
)

// LoadConfig loads YAML from disk, layering MQTT_* environment overrides
// and defaults on top. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns the configuration used when no file and no
// environment are present.
func DefaultConfig() *Config {
	return config.Default()
}
