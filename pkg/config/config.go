// Package config defines the PHOLD configuration record, its validation
// rules, and yaml-file loading conventions.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the immutable-for-a-run PHOLD configuration.
type Config struct {
	Remote      float64 `yaml:"remote"`
	Minimum     float64 `yaml:"minimum"`
	Average     float64 `yaml:"average"`
	Stop        float64 `yaml:"stop"`
	Number      int     `yaml:"number"`
	Events      int     `yaml:"events"`
	BufferBytes int     `yaml:"buffer_bytes"`
	DelaysOut   bool    `yaml:"delays_out"`
	Verbosity   int     `yaml:"verbosity"`

	// Partitions controls how many scheduler partitions LPs are sharded
	// across; Logging and ReportPath configure ambient output and carry no
	// bearing on the simulation's core algorithms.
	Partitions int           `yaml:"partitions"`
	Logging    LoggingConfig `yaml:"logging"`
	ReportPath string        `yaml:"report_path"`
}

// LoggingConfig holds the log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a configuration with every non-required field
// populated. Remote, Minimum, Average, Stop, Number, and Events have no sane
// universal default and are left at their zero values; callers must set
// them (or load a file that does) before Validate will accept the result.
func DefaultConfig() *Config {
	return &Config{
		BufferBytes: 0,
		DelaysOut:   false,
		Verbosity:   0,
		Partitions:  1,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		ReportPath: "",
	}
}

// Load reads and parses a YAML config file on top of DefaultConfig. A
// missing path is not an error: the defaults (plus whatever the caller sets
// afterward) are returned as-is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DutyFactor is average / (minimum + average).
func (c *Config) DutyFactor() float64 {
	return c.Average / (c.Minimum + c.Average)
}

// ExpectedEvents is number * events * stop / (minimum + average).
func (c *Config) ExpectedEvents() float64 {
	return float64(c.Number) * float64(c.Events) * c.Stop / (c.Minimum + c.Average)
}

// MinEventsRecommended is ceil(10 / duty_factor), the events threshold below
// which the duty-adjusted sample count gets too small to trust. Only
// meaningful when events * duty_factor < 10.
func (c *Config) MinEventsRecommended() int {
	df := c.DutyFactor()
	if df <= 0 {
		return 0
	}
	return int(math.Ceil(10 / df))
}
