// Package config defines the YAML service configuration for the parlexd
// daemon and the per-bot engine settings. Configuration is loaded from a
// file, completed with defaults and optionally overridden from PARLEX_*
// environment variables.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/parlex-ai/parlex/retry"
)

// Config is the root service configuration.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Storage    StorageConfig    `yaml:"storage"`
	NATS       NATSConfig       `yaml:"nats"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Duckling   DucklingConfig   `yaml:"duckling"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Bots       []BotConfig      `yaml:"bots"`
}

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is one of "memory", "sqlite" or "redis".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file, used when Backend is "sqlite".
	Path string `yaml:"path"`

	// RedisURL is the connection URL, used when Backend is "redis".
	RedisURL string `yaml:"redis_url"`
}

// NATSConfig configures the request/reply transport.
type NATSConfig struct {
	Enabled       bool          `yaml:"enabled"`
	URL           string        `yaml:"url"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	Timeout       time.Duration `yaml:"timeout"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// DucklingConfig configures the system entity extractor.
type DucklingConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ClassifierConfig selects the intent classification backend.
type ClassifierConfig struct {
	// Backend is one of "bow", "anthropic" or "openai".
	Backend string `yaml:"backend"`

	// Model names the provider model for the LLM backends. API keys come
	// from the provider's standard environment variables.
	Model string `yaml:"model"`
}

// BotConfig is the per-bot engine tuning.
type BotConfig struct {
	ID string `yaml:"id"`

	// ThresholdValue is a pointer so an absent key can be told apart from
	// an explicit zero. Use Threshold to read it.
	ThresholdValue *float64 `yaml:"threshold"`

	StdDevMultiplier float64 `yaml:"std_dev_multiplier"`

	// Language pins the bot to a fixed language instead of detecting one.
	Language string `yaml:"language"`

	Retry retry.Policy `yaml:"retry"`
}

// Threshold returns the configured confidence threshold, or NaN when the key
// was absent so the engine applies its default.
func (b BotConfig) Threshold() float64 {
	if b.ThresholdValue == nil {
		return math.NaN()
	}
	return *b.ThresholdValue
}

// ApplyDefaults fills unset fields with production-ready defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "parlexd"
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = "info"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "parlex.db"
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}
	if cfg.NATS.SubjectPrefix == "" {
		cfg.NATS.SubjectPrefix = "parlex"
	}
	if cfg.NATS.Timeout == 0 {
		cfg.NATS.Timeout = 30 * time.Second
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
	if cfg.Duckling.URL == "" {
		cfg.Duckling.URL = "http://localhost:8000"
	}
	if cfg.Duckling.Timeout == 0 {
		cfg.Duckling.Timeout = 5 * time.Second
	}
	if cfg.Classifier.Backend == "" {
		cfg.Classifier.Backend = "bow"
	}
}

// Validate checks the configuration for unusable values.
func Validate(cfg *Config) error {
	switch cfg.Storage.Backend {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == "redis" && cfg.Storage.RedisURL == "" {
		return fmt.Errorf("storage backend %q requires redis_url", cfg.Storage.Backend)
	}

	switch cfg.Classifier.Backend {
	case "bow", "anthropic", "openai":
	default:
		return fmt.Errorf("unknown classifier backend %q", cfg.Classifier.Backend)
	}

	seen := make(map[string]struct{}, len(cfg.Bots))
	for _, bot := range cfg.Bots {
		if bot.ID == "" {
			return fmt.Errorf("bot with empty id")
		}
		if _, ok := seen[bot.ID]; ok {
			return fmt.Errorf("duplicate bot id %q", bot.ID)
		}
		seen[bot.ID] = struct{}{}
	}

	return nil
}
