package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Campus   CampusConfig   `yaml:"campus"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type CampusConfig struct {
	URL string `yaml:"url"`
}

type ScoringConfig struct {
	// TopLimit is the default page size for the top-students listing.
	TopLimit int `yaml:"top_limit"`
	// RecomputeOnSubmit recomputes the average inline after a correction
	// is submitted through the API.
	RecomputeOnSubmit bool `yaml:"recompute_on_submit"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Campus: CampusConfig{
			URL: "nats://localhost:4222",
		},
		Scoring: ScoringConfig{
			TopLimit:          10,
			RecomputeOnSubmit: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GRADEBOOK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("GRADEBOOK_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("GRADEBOOK_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("GRADEBOOK_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("GRADEBOOK_CAMPUS_URL"); v != "" {
		cfg.Campus.URL = v
	}
	if v := os.Getenv("GRADEBOOK_TOP_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.TopLimit = n
		}
	}
	if v := os.Getenv("GRADEBOOK_RECOMPUTE_ON_SUBMIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scoring.RecomputeOnSubmit = b
		}
	}
	if v := os.Getenv("GRADEBOOK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
