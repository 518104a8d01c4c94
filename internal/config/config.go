// Package config loads the sentinel-scan configuration from defaults, an
// optional YAML file and SENTINEL_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MonitorConfig configures the filesystem watcher.
type MonitorConfig struct {
	Paths           []string      `mapstructure:"paths"`
	Extensions      []string      `mapstructure:"extensions"`
	DebounceWindow  time.Duration `mapstructure:"debounce_window"`
	MaxEventsPerSec float64       `mapstructure:"max_events_per_sec"`
	QueueSize       int           `mapstructure:"queue_size"`
	SubscriberQueue int           `mapstructure:"subscriber_queue"`
}

// AnalysisConfig configures the scanner.
type AnalysisConfig struct {
	MaxMatchLength int `mapstructure:"max_match_length"`
}

// Config is the full runtime configuration.
type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// Load resolves the configuration. When path is empty, an optional
// sentinel-scan.yaml in the working directory is used if present; a path
// given explicitly must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("monitor.paths", []string{})
	v.SetDefault("monitor.extensions", []string{".js", ".html", ".htm", ".py", ".ps1"})
	v.SetDefault("monitor.debounce_window", "1s")
	v.SetDefault("monitor.max_events_per_sec", 20.0)
	v.SetDefault("monitor.queue_size", 256)
	v.SetDefault("monitor.subscriber_queue", 64)
	v.SetDefault("analysis.max_match_length", 200)

	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("sentinel-scan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
