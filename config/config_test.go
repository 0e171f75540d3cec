package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parlex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
service:
  name: test-service
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-service", cfg.Service.Name)
	assert.Equal(t, "info", cfg.Service.LogLevel)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "parlex", cfg.NATS.SubjectPrefix)
	assert.Equal(t, 30*time.Second, cfg.NATS.Timeout)
	assert.Equal(t, "bow", cfg.Classifier.Backend)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
service:
  name: parlexd
  log_level: debug
storage:
  backend: sqlite
  path: /tmp/bots.db
duckling:
  enabled: true
  url: http://duckling:8000
classifier:
  backend: anthropic
  model: claude-sonnet-4-20250514
bots:
  - id: support
    threshold: 0.8
    language: en
  - id: orders
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/bots.db", cfg.Storage.Path)
	assert.True(t, cfg.Duckling.Enabled)
	assert.Equal(t, "anthropic", cfg.Classifier.Backend)

	require.Len(t, cfg.Bots, 2)
	assert.Equal(t, 0.8, cfg.Bots[0].Threshold())
	assert.Equal(t, "en", cfg.Bots[0].Language)
	assert.True(t, math.IsNaN(cfg.Bots[1].Threshold()))
}

func TestLoadRejectsUnknownBackends(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: cassandra
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown storage backend")

	path = writeConfig(t, `
classifier:
  backend: magic
`)
	_, err = Load(path)
	assert.ErrorContains(t, err, "unknown classifier backend")
}

func TestLoadRejectsDuplicateBots(t *testing.T) {
	path := writeConfig(t, `
bots:
  - id: support
  - id: support
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "duplicate bot id")
}

func TestLoadRedisRequiresURL(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: redis
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "requires redis_url")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: memory
`)

	t.Setenv("PARLEX_STORAGE_BACKEND", "sqlite")
	t.Setenv("PARLEX_STORAGE_PATH", "/var/lib/parlex.db")
	t.Setenv("PARLEX_NATS_ENABLED", "true")
	t.Setenv("PARLEX_NATS_TIMEOUT", "10s")

	cfg, err := LoadWithEnvOverrides(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/parlex.db", cfg.Storage.Path)
	assert.True(t, cfg.NATS.Enabled)
	assert.Equal(t, 10*time.Second, cfg.NATS.Timeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
