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
	path := filepath.Join(t.TempDir(), "tickworld.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[sim]
frame_rate = "30ms"
frame_divisor = 3
seed = 42

[world]
width = 20
height = 10

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Millisecond, cfg.Sim.FrameRate)
	assert.Equal(t, 3, cfg.Sim.FrameDivisor)
	assert.Equal(t, int64(42), cfg.Sim.Seed)
	assert.Equal(t, 20, cfg.World.Width)
	assert.Equal(t, -32, cfg.World.Left, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "[sim]\nframe_divisor = 0\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[world\n"))
	assert.Error(t, err)

	for name, body := range map[string]string{
		"zero frame rate":     "[sim]\nframe_rate = \"0s\"\n",
		"negative frame rate": "[sim]\nframe_rate = \"-15ms\"\n",
		"negative sprites":    "[world]\nsoft_max_sprites = -5\n",
		"negative entities":   "[world]\nsoft_max_entities = -1\n",
		"negative mobs":       "[world]\nsoft_max_mobs = -1\n",
		"negative physics":    "[world]\nsoft_max_physics = -1\n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, name)
	}

	cfg := Default()
	cfg.World.SoftMaxPhysics = 0
	assert.NoError(t, cfg.Validate(), "zero soft max is allowed")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}
