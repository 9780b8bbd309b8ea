package snowman

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Title = "Round Trip"
	cfg.Settings.Raytracing = true
	cfg.Settings.SmoothShadowEdges = true
	cfg.Assets.ShaderDir = "shaders"
	cfg.WatchShaders = true

	path := filepath.Join(t.TempDir(), "snowman.toml")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	err := DecodeConfig([]byte("[settings]\nreflections = 7\n"), &cfg)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Settings.Reflections)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.True(t, cfg.Settings.ShowSnow)
	assert.Equal(t, 4096, cfg.Settings.ParticleCount())
}

func TestConfigClampsSettings(t *testing.T) {
	cfg := DefaultConfig()
	data := []byte(`
[capabilities]
raytracing = false
carrot = false

[settings]
reflections = 500
shadow_samples = 0
light_radius = 3.0
raytracing = true
particle_step = 42
`)
	require.NoError(t, DecodeConfig(data, &cfg))

	assert.Equal(t, MaxReflections, cfg.Settings.Reflections)
	assert.Equal(t, MinShadowSamples, cfg.Settings.ShadowSamples)
	assert.Equal(t, float32(MaxLightRadius), cfg.Settings.LightRadius)
	assert.False(t, cfg.Settings.Raytracing)
	assert.Equal(t, 131072, cfg.Settings.ParticleCount())
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	cfg := DefaultConfig()
	err := DecodeConfig([]byte("[settings]\nreflexions = 2\n"), &cfg)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("assets", "snowman.toml"))
	require.NoError(t, err)
	assert.True(t, cfg.Capabilities.Carrot)
	assert.Equal(t, DefaultSettings(), cfg.Settings)
}
