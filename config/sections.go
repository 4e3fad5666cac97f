package config

import (
	"fmt"
	"time"
)

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// ApplyDefaults applies default values to tracing configuration.
func (c *TracingConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Validate validates tracing configuration.
func (c *TracingConfig) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1 (got: %f)", c.SampleRate)
	}
	if c.Enabled && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when tracing is enabled")
	}
	return nil
}

// MetricsConfig configures OTLP metric export.
type MetricsConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults applies default values to metrics configuration.
func (c *MetricsConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate validates metrics configuration.
func (c *MetricsConfig) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative (got: %v)", c.Interval)
	}
	if c.Enabled && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when metrics are enabled")
	}
	return nil
}

// PipelinesConfig configures where pipeline definition files are loaded from.
type PipelinesConfig struct {
	Dirs []string `yaml:"dirs" mapstructure:"dirs"`
}

// ApplyDefaults applies default values to pipelines configuration.
func (c *PipelinesConfig) ApplyDefaults() {
	if len(c.Dirs) == 0 {
		c.Dirs = []string{"./pipelines"}
	}
}

// Validate validates pipelines configuration.
func (c *PipelinesConfig) Validate() error {
	for _, dir := range c.Dirs {
		if dir == "" {
			return fmt.Errorf("dirs must not contain empty entries")
		}
	}
	return nil
}
