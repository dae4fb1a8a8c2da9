package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := New()
	cfg, err := Load(v)
	require.NoError(t, err)

	d := Defaults()
	require.Equal(t, d, cfg)
	require.Equal(t, 100, cfg.Undo.Limit)
	require.Equal(t, time.Second, cfg.Undo.Debounce)
	require.Equal(t, BackendMemory, cfg.Session.Backend)
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
schema: site.xml
undo:
  limit: 0
  debounce: 250ms
session:
  backend: file
  dir: /tmp/customify-test
clipboard:
  clear_delay: 0s
watch: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := New()
	require.NoError(t, ReadConfigFile(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	require.Equal(t, "site.xml", cfg.Schema)
	require.Equal(t, 0, cfg.Undo.Limit)
	require.Equal(t, 250*time.Millisecond, cfg.Undo.Debounce)
	require.Equal(t, BackendFile, cfg.Session.Backend)
	require.Equal(t, "/tmp/customify-test", cfg.Session.Dir)
	require.Equal(t, time.Duration(0), cfg.Clipboard.ClearDelay)
	require.True(t, cfg.Watch)
	// Untouched keys keep their defaults
	require.Equal(t, "customify.values.yaml", cfg.Values)
}

func TestLogFormat(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)
	require.Equal(t, LogFormatJSON, cfg.Log.Format)
	require.False(t, cfg.HumanReadableLog())

	t.Setenv("CUSTOMIFY_LOG_FORMAT", "console")
	cfg, err = Load(New())
	require.NoError(t, err)
	require.True(t, cfg.HumanReadableLog())
}

func TestMissingExplicitConfigFile(t *testing.T) {
	v := New()
	require.Error(t, ReadConfigFile(v, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CUSTOMIFY_UNDO_LIMIT", "7")
	t.Setenv("CUSTOMIFY_LOG_LEVEL", "debug")

	cfg, err := Load(New())
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Undo.Limit)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestInvalidConfig(t *testing.T) {
	tests := map[string]any{
		"session.backend": "redis",
		"undo.limit":      -1,
		"log.level":       "loud",
		"log.format":      "xml",
	}
	for key, value := range tests {
		v := New()
		v.Set(key, value)
		_, err := Load(v)
		require.Error(t, err, key)
	}
}
