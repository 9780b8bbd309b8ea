package core

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeSprite(t *testing.T) {
	img := SnowflakeSprite(64)
	assert.Equal(t, 64, img.Bounds().Dx())
	_, _, _, a := img.At(32, 32).RGBA()
	assert.Greater(t, a, uint32(0), "center of the flake is opaque")
	_, _, _, a = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
}

func TestLoadSprite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flake.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, SnowflakeSprite(16)))
	require.NoError(t, f.Close())

	img, err := LoadSprite(path)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dy())

	_, err = LoadSprite(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
