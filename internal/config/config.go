package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the airq pipeline.
type Config struct {
	Engine  EngineSettings  `yaml:"engine"`
	Output  OutputSettings  `yaml:"output"`
	Logging LoggingSettings `yaml:"logging"`
}

// EngineSettings contains the AQI engine knobs.
type EngineSettings struct {
	// O3PpbThreshold is the raw-ozone boundary above which a value is
	// treated as ppb and divided by 1000.
	O3PpbThreshold float64 `yaml:"o3_ppb_threshold"`
	// OutOfRangePolicy is "fail" (default) or "cap".
	OutOfRangePolicy string `yaml:"out_of_range_policy"`
	// ComparisonTolerance is the allowed |computed - reference| for a date
	// to count as a match.
	ComparisonTolerance int `yaml:"comparison_tolerance"`
}

// OutputSettings contains output locations.
type OutputSettings struct {
	Dir    string `yaml:"dir"`
	DBPath string `yaml:"db_path"`
}

// LoggingSettings contains logging settings.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads configuration from a YAML file. A missing file is not an
// error: the CLI is expected to work with defaults alone.
func Load(path string) (*Config, error) {
	var config Config

	yamlData, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(yamlData, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config.ApplyDefaults()
	config.OverrideFromEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// ApplyDefaults sets default values for any unset fields.
func (c *Config) ApplyDefaults() {
	if c.Engine.O3PpbThreshold == 0 {
		c.Engine.O3PpbThreshold = 1.0
	}
	if c.Engine.OutOfRangePolicy == "" {
		c.Engine.OutOfRangePolicy = "fail"
	}
	if c.Engine.ComparisonTolerance == 0 {
		c.Engine.ComparisonTolerance = 1
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "results"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// OverrideFromEnv overrides config values from environment variables.
func (c *Config) OverrideFromEnv() {
	if v := os.Getenv("AIRQ_O3_PPB_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Engine.O3PpbThreshold = f
		}
	}
	if v := os.Getenv("AIRQ_OUT_OF_RANGE"); v != "" {
		c.Engine.OutOfRangePolicy = v
	}
	if v := os.Getenv("AIRQ_TOLERANCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.ComparisonTolerance = n
		}
	}
	if v := os.Getenv("AIRQ_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Engine.O3PpbThreshold <= 0 {
		return fmt.Errorf("o3 ppb threshold must be greater than 0")
	}
	if c.Engine.OutOfRangePolicy != "fail" && c.Engine.OutOfRangePolicy != "cap" {
		return fmt.Errorf("out of range policy must be %q or %q, got %q", "fail", "cap", c.Engine.OutOfRangePolicy)
	}
	if c.Engine.ComparisonTolerance < 0 {
		return fmt.Errorf("comparison tolerance must not be negative")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output dir is required")
	}
	return nil
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Engine: %+v, Output: %+v, Logging: %+v}",
		c.Engine,
		c.Output,
		c.Logging,
	)
}
