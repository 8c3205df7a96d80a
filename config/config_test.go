package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.toml")
	// Durations are TOML integers in nanoseconds.
	content := `
[loop]
tick_rate = 50000000
max_transitions_per_frame = 8

[scripts]
enabled = true
dir = "demo-scripts"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, cfg.Loop.TickRate)
	assert.Equal(t, 8, cfg.Loop.MaxTransitionsPerFrame)
	assert.True(t, cfg.Scripts.Enabled)
	assert.Equal(t, "demo-scripts", cfg.Scripts.Dir)

	// Untouched sections keep defaults.
	assert.Equal(t, 100*time.Millisecond, cfg.Loop.FixedStep)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[loop\ntick_rate ="), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 200*time.Millisecond, cfg.Loop.TickRate)
	assert.Zero(t, cfg.Loop.MaxCatchUp, "catch-up is unbounded unless configured")
	assert.Zero(t, cfg.Loop.MaxTransitionsPerFrame)
	assert.False(t, cfg.Scripts.Enabled)
}
