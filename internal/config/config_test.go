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
	t.Setenv("FOCUSPAD_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Timer.WorkMinutes)
	assert.Equal(t, 5, cfg.Timer.BreakMinutes)
	assert.Equal(t, "1s", cfg.Notes.AutosaveDelay)
	assert.Equal(t, 0.3, cfg.Audio.DefaultVolume)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, filepath.Join(DataDir(), "focuspad.db"), cfg.Storage.Path)
	assert.Equal(t, "focuspad:", cfg.Storage.Redis.Prefix)
	assert.Equal(t, "", cfg.Metrics.Addr)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOCUSPAD_HOME", dir)
	path := filepath.Join(dir, "custom.yaml")
	content := `
timer:
  work_minutes: 50
  break_minutes: 10
storage:
  type: redis
  redis:
    addr: 10.0.0.5:6379
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("FOCUSPAD_TIMER_BREAK_MINUTES", "15")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Timer.WorkMinutes)
	assert.Equal(t, 15, cfg.Timer.BreakMinutes)
	assert.Equal(t, "redis", cfg.Storage.Type)
	assert.Equal(t, "10.0.0.5:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOCUSPAD_HOME", dir)

	cases := map[string]string{
		"work":    "timer:\n  work_minutes: 0\n",
		"delay":   "notes:\n  autosave_delay: soon\n",
		"volume":  "audio:\n  default_volume: 2\n",
		"backend": "storage:\n  type: floppy\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDuration("2s", time.Second))
	assert.Equal(t, time.Second, ParseDuration("bogus", time.Second))
}
