package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/vedantwpatil/Auto-Clicker/internal/logging"
)

// DefaultFileName is read from the working directory when no path is given.
const DefaultFileName = "autoclicker.toml"

// DefaultsSource is the Source of a config that no file contributed to.
const DefaultsSource = "<defaults>"

type Config struct {
	Playback      PlaybackConfig      `toml:"playback"`
	EmergencyStop EmergencyStopConfig `toml:"emergency_stop"`
	Injection     InjectionConfig     `toml:"injection"`
	Monitor       MonitorConfig       `toml:"monitor"`
	Logging       LoggingConfig       `toml:"logging"`

	// Source is DefaultsSource or the path the values were read from.
	Source string `toml:"-"`
}

type PlaybackConfig struct {
	// Seconds between clicks used until the operator enters another value
	IntervalSeconds float64 `toml:"interval_seconds"`
}

type EmergencyStopConfig struct {
	Key string `toml:"key"`
}

type InjectionConfig struct {
	CheckDisplayBounds bool `toml:"check_display_bounds"`
}

type MonitorConfig struct {
	QueueSize int `toml:"queue_size"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func NewConfig() *Config {
	return &Config{
		Playback: PlaybackConfig{
			IntervalSeconds: 0.2,
		},
		EmergencyStop: EmergencyStopConfig{
			Key: "esc",
		},
		Injection: InjectionConfig{
			CheckDisplayBounds: true,
		},
		Monitor: MonitorConfig{
			QueueSize: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Source: DefaultsSource,
	}
}

// Load overlays the TOML file at path on top of the defaults.
// An empty path tries DefaultFileName and tolerates it being absent.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	candidate := strings.TrimSpace(path)
	explicit := candidate != ""
	if !explicit {
		candidate = DefaultFileName
	}

	data, err := os.ReadFile(candidate)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", candidate, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", candidate, err)
	}
	cfg.Source = candidate
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.EmergencyStop.Key = strings.ToLower(strings.TrimSpace(c.EmergencyStop.Key))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	interval := c.Playback.IntervalSeconds
	if math.IsNaN(interval) || math.IsInf(interval, 0) || interval <= 0 {
		return fmt.Errorf("playback.interval_seconds must be a positive number, got %v", interval)
	}
	if c.EmergencyStop.Key == "" {
		return errors.New("emergency_stop.key must not be empty")
	}
	if c.Monitor.QueueSize <= 0 {
		return fmt.Errorf("monitor.queue_size must be positive, got %d", c.Monitor.QueueSize)
	}
	if c.Logging.Level == "" || !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, warning, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	return nil
}
