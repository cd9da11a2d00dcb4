package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
neo4j:
  uri: bolt://db:7687
  batch_size: 250
scan:
  rules: rules.yaml
  workers: 2
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bolt://db:7687", cfg.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Neo4j.User, "default kept")
	assert.Equal(t, 250, cfg.Neo4j.BatchSize)
	assert.Equal(t, "rules.yaml", cfg.Scan.Rules)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, "java.lang.Object", cfg.Scan.RootType)
	require.NoError(t, cfg.Validate())

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CLASSGRAPH_NEO4J_PASSWORD", "secret")
	t.Setenv("CLASSGRAPH_WORKERS", "16")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, 16, cfg.Scan.Workers)

	t.Setenv("CLASSGRAPH_CACHE_SIZE", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "CLASSGRAPH_CACHE_SIZE")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Scan.Workers = 0
	cfg.Neo4j.BatchSize = 0
	cfg.LogLevel = "chatty"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "scan.workers")
	assert.ErrorContains(t, err, "neo4j.batch_size")
	assert.ErrorContains(t, err, "log_level")
}
