package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  path: /tmp/cq.db
sound:
  enabled: false
  volume: -1.5
timers:
  break_tick: 500ms
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cq.db", cfg.Storage.Path)
	assert.False(t, cfg.Sound.Enabled)
	assert.Equal(t, -1.5, cfg.Sound.Volume)
	assert.Equal(t, 500*time.Millisecond, cfg.Timers.BreakTick)
	assert.Equal(t, time.Minute, cfg.Timers.ActiveTick)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ".", cfg.Export.Dir)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv("CLEANQUEST_LOG_LEVEL", "error")
	t.Setenv("CLEANQUEST_TIMERS_ACTIVE_TICK", "30s")
	t.Setenv("CLEANQUEST_EXPORT_DIR", "/backups")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.Timers.ActiveTick)
	assert.Equal(t, "/backups", cfg.Export.Dir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	for name, body := range map[string]string{
		"format":     "log:\n  format: xml\n",
		"break tick": "timers:\n  break_tick: 0s\n",
		"yaml":       "log: [unclosed\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, WriteDefault(path))
	assert.Error(t, WriteDefault(path), "existing files are never overwritten")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveKeepsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Export.Dir = "/srv/exports"
	cfg.Timers.BreakTick = 250 * time.Millisecond
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
