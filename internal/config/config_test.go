package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "beytrack", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "beytrack.db", cfg.Database.Filename)
	assert.Equal(t, 10*time.Second, cfg.RefreshInterval())
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout())
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: beytrack
  environment: production
  port: 9090
database:
  filename: prod.db
refresh:
  interval_seconds: 30
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "prod.db", cfg.Database.Filename)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval())
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: 9090\n"), 0o644))

	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_FILENAME", "env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, "env.db", cfg.Database.Filename)
}

func TestValidateRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("refresh:\n  interval_seconds: -5\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
