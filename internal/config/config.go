// Package config holds the service-level configuration of the flaskr
// process: where to listen, how to log, where the instance directory is
// and whether to expose metrics. Application settings (SECRET_KEY,
// DATABASE, ...) live in the settings package instead.
package config

import (
	infraconfig "github.com/ybathula707/flaskr/internal/infra/config"
)

// Default configuration values.
const (
	defaultServiceName   = "flaskr"
	defaultVersion       = "0.1.0"
	defaultServicePort   = 5000
	defaultLoggingLevel  = "info"
	defaultLoggingFormat = "json"
	defaultMetricsPort   = 9090
)

// Config holds the service configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Host    string `env:"FLASKR_HOST"          yaml:"host"`
	Port    int    `env:"FLASKR_PORT"          yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"            yaml:"debug"`
	// InstancePath is the instance directory; empty means ./instance.
	InstancePath string `env:"FLASKR_INSTANCE_PATH" yaml:"instance_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// MetricsConfig controls the separate Prometheus listener.
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" yaml:"enabled"`
	Port    int  `env:"METRICS_PORT"    yaml:"port"`
}

// Load reads configuration from path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultVersion
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLoggingFormat
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = defaultMetricsPort
	}
}

// Validate checks ports and logging options.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateLogLevel("logging.level", c.Logging.Level); err != nil {
		return err
	}
	if err := infraconfig.ValidateLogFormat("logging.format", c.Logging.Format); err != nil {
		return err
	}
	if !c.Metrics.Enabled {
		return nil
	}
	if err := infraconfig.ValidatePort("metrics.port", c.Metrics.Port); err != nil {
		return err
	}
	if c.Metrics.Port == c.Service.Port {
		return &infraconfig.ValidationError{
			Field:   "metrics.port",
			Message: "must differ from service.port",
		}
	}
	return nil
}
