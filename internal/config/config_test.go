package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "patro.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patro.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7000\nlogger:\n  level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("LOG_FORMAT", "xml")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoad_Scheduler(t *testing.T) {
	t.Setenv("SCHEDULER_CHECK_INTERVAL", "30m")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.CheckInterval)

	t.Setenv("SCHEDULER_CHECK_INTERVAL", "5s")
	_, err = Load("")
	assert.Error(t, err)
}
