package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Intel IntelConfig `yaml:"intel" json:"intel" jsonschema:"description=Upstream intelligence API configuration"`

	Writeups WriteupsConfig `yaml:"writeups" json:"writeups" jsonschema:"description=Community write-up watcher configuration"`

	Roadmap RoadmapConfig `yaml:"roadmap" json:"roadmap" jsonschema:"description=Roadmap summarizer configuration"`
}

// IntelConfig holds upstream intelligence API settings
type IntelConfig struct {
	BaseURL    string        `yaml:"base_url" json:"base_url" jsonschema:"required,description=Base URL of the intelligence API"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Request timeout"`
	MaxRetries int           `yaml:"max_retries" json:"max_retries" jsonschema:"default=3,description=Retry attempts for transient failures"`
}

// WriteupsConfig holds community write-up watcher settings
type WriteupsConfig struct {
	Enabled        bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable write-up ingestion"`
	Feeds          []string      `yaml:"feeds" json:"feeds" jsonschema:"description=RSS/Atom feed URLs of community blogs"`
	PollInterval   time.Duration `yaml:"poll_interval" json:"poll_interval" jsonschema:"default=1h,description=Feed polling interval"`
	MaxConcurrent  int           `yaml:"max_concurrent" json:"max_concurrent" jsonschema:"default=3,description=Maximum concurrent feed fetches"`
	MaxPerFeed     int           `yaml:"max_per_feed" json:"max_per_feed" jsonschema:"default=5,description=Entries ingested per feed"`
	ExtractTimeout time.Duration `yaml:"extract_timeout" json:"extract_timeout" jsonschema:"default=30s,description=Article extraction timeout"`
	MinTextLength  int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Minimum extracted text length to use"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Pulseboard/1.0,description=User agent for extraction requests"`
}

// RoadmapConfig holds roadmap summarizer settings
type RoadmapConfig struct {
	RecencyFilter     bool `yaml:"recency_filter" json:"recency_filter" jsonschema:"default=false,description=Only summarize features with a target quarter near now"`
	RecencyWindowDays int  `yaml:"recency_window_days" json:"recency_window_days" jsonschema:"default=90,description=Recency window in days on either side of now"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for intel client
	if cfg.Intel.Timeout == 0 {
		cfg.Intel.Timeout = 15 * time.Second
	}
	if cfg.Intel.MaxRetries == 0 {
		cfg.Intel.MaxRetries = 3
	}

	// set defaults for write-up watcher
	if cfg.Writeups.PollInterval == 0 {
		cfg.Writeups.PollInterval = time.Hour
	}
	if cfg.Writeups.MaxConcurrent == 0 {
		cfg.Writeups.MaxConcurrent = 3
	}
	if cfg.Writeups.MaxPerFeed == 0 {
		cfg.Writeups.MaxPerFeed = 5
	}
	if cfg.Writeups.ExtractTimeout == 0 {
		cfg.Writeups.ExtractTimeout = 30 * time.Second
	}
	if cfg.Writeups.MinTextLength == 0 {
		cfg.Writeups.MinTextLength = 100
	}
	if cfg.Writeups.UserAgent == "" {
		cfg.Writeups.UserAgent = "Pulseboard/1.0"
	}

	// set defaults for roadmap
	if cfg.Roadmap.RecencyWindowDays == 0 {
		cfg.Roadmap.RecencyWindowDays = 90
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Intel.BaseURL == "" {
		return fmt.Errorf("intel.base_url is required")
	}
	if cfg.Intel.Timeout < time.Second {
		return fmt.Errorf("intel.timeout must be at least 1 second")
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	if cfg.Writeups.Enabled {
		if len(cfg.Writeups.Feeds) == 0 {
			return fmt.Errorf("writeups.feeds is required when write-up ingestion is enabled")
		}
		if cfg.Writeups.PollInterval < time.Minute {
			return fmt.Errorf("writeups.poll_interval must be at least 1 minute")
		}
		if cfg.Writeups.MinTextLength < 0 {
			return fmt.Errorf("writeups.min_text_length must be non-negative")
		}
	}

	if cfg.Roadmap.RecencyFilter && cfg.Roadmap.RecencyWindowDays < 1 {
		return fmt.Errorf("roadmap.recency_window_days must be positive when the recency filter is enabled")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetIntelConfig returns upstream intelligence API configuration
func (c *Config) GetIntelConfig() IntelConfig {
	return c.Intel
}

// GetWriteupsConfig returns write-up watcher configuration
func (c *Config) GetWriteupsConfig() WriteupsConfig {
	return c.Writeups
}

// GetRoadmapConfig returns roadmap summarizer configuration
func (c *Config) GetRoadmapConfig() RoadmapConfig {
	return c.Roadmap
}
