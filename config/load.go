package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration from a YAML file, applies defaults and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnvOverrides loads the configuration from a YAML file and then
// applies PARLEX_* environment variable overrides. Environment variables
// always take precedence over file values.
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("PARLEX_LOG_LEVEL"); val != "" {
		cfg.Service.LogLevel = val
	}
	if val := os.Getenv("PARLEX_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("PARLEX_STORAGE_PATH"); val != "" {
		cfg.Storage.Path = val
	}
	if val := os.Getenv("PARLEX_REDIS_URL"); val != "" {
		cfg.Storage.RedisURL = val
	}
	if val := os.Getenv("PARLEX_NATS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.NATS.Enabled = b
		}
	}
	if val := os.Getenv("PARLEX_NATS_URL"); val != "" {
		cfg.NATS.URL = val
	}
	if val := os.Getenv("PARLEX_NATS_SUBJECT_PREFIX"); val != "" {
		cfg.NATS.SubjectPrefix = val
	}
	if val := os.Getenv("PARLEX_NATS_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.NATS.Timeout = d
		}
	}
	if val := os.Getenv("PARLEX_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("PARLEX_METRICS_ADDRESS"); val != "" {
		cfg.Metrics.Address = val
	}
	if val := os.Getenv("PARLEX_DUCKLING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Duckling.Enabled = b
		}
	}
	if val := os.Getenv("PARLEX_DUCKLING_URL"); val != "" {
		cfg.Duckling.URL = val
	}
	if val := os.Getenv("PARLEX_CLASSIFIER_BACKEND"); val != "" {
		cfg.Classifier.Backend = val
	}
	if val := os.Getenv("PARLEX_CLASSIFIER_MODEL"); val != "" {
		cfg.Classifier.Model = val
	}
}
