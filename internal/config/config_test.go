package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "taskboard.db", cfg.DatabaseURL)
	assert.False(t, cfg.IsPostgres())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"To Do", "In Progress", "Done"}, cfg.DefaultColumns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=postgres://u:p@localhost/taskboard\nREQUEST_TIMEOUT=3s\nDEFAULT_BOARD_COLUMNS=Backlog,Doing\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("REQUEST_TIMEOUT")
		os.Unsetenv("DEFAULT_BOARD_COLUMNS")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsPostgres())
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"Backlog", "Doing"}, cfg.DefaultColumns)
}

func TestValidate(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.ErrorContains(t, err, "LOG_FORMAT")

	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("JWT_SECRET", " ")
	_, err = Load()
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadWrapsParseErrors(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err := Load()
	require.ErrorContains(t, err, "parse env: ")
}
