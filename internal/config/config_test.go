package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for configuration:
// - Defaults pass validation
// - Missing config file falls back to defaults
// - A config.yml in .codelens overrides defaults
// - CODELENS_* environment variables override the file
// - Validate rejects bad workers, backend, timeout, database, cache capacity
// - Multiple validation failures are joined into one error

func writeConfigFile(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, ".codelens")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0644))
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Contains(t, cfg.Paths.Code, "**/*.py")
	assert.Contains(t, cfg.Paths.Ignore, "node_modules/**")
	assert.Equal(t, "local", cfg.Analysis.Backend)
	assert.Equal(t, 5, cfg.Analysis.TimeoutSeconds)
	assert.Equal(t, ":memory:", cfg.Snippets.Database)
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfigFile(t, root, `
paths:
  code:
    - "**/*.py"
analysis:
  workers: 4
  extended: true
snippets:
  database: snippets.db
`)

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"**/*.py"}, cfg.Paths.Code)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.True(t, cfg.Analysis.Extended)
	assert.Equal(t, "snippets.db", cfg.Snippets.Database)
	// Untouched sections keep their defaults.
	assert.Equal(t, "local", cfg.Analysis.Backend)
	assert.Equal(t, 256, cfg.Snippets.CacheCapacity)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root, `
analysis:
  workers: 4
  backend: local
`)

	t.Setenv("CODELENS_ANALYSIS_WORKERS", "8")
	t.Setenv("CODELENS_ANALYSIS_BACKEND", "none")

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, "none", cfg.Analysis.Backend)
}

func TestLoad_InvalidFileRejected(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfigFile(t, root, `
analysis:
  workers: -1
`)

	_, err := LoadConfigFromDir(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Analysis.Workers = -2 },
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Analysis.Backend = "remote" },
			wantErr: ErrInvalidBackend,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Analysis.TimeoutSeconds = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "blank database",
			mutate:  func(c *Config) { c.Snippets.Database = "  " },
			wantErr: ErrEmptyDatabase,
		},
		{
			name:    "zero cache capacity",
			mutate:  func(c *Config) { c.Snippets.CacheCapacity = 0 },
			wantErr: ErrInvalidCacheCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_JoinsMultipleFailures(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Analysis.Workers = -1
	cfg.Snippets.Database = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker")
	assert.Contains(t, err.Error(), "database")
}
