package core

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSceneBuffer struct {
	writes int
	data   []byte
	count  int
	err    error
}

func (b *recordingSceneBuffer) WriteSceneTable(data []byte, count int) error {
	if b.err != nil {
		return b.err
	}
	b.writes++
	b.data = append([]byte(nil), data...)
	b.count = count
	return nil
}

func TestSnowmanSceneCapabilities(t *testing.T) {
	full := NewSnowmanScene(FullCapabilities())
	assert.Equal(t, 13, full.Len())
	assert.Equal(t, CarrotMaterial, full.Material(12))

	plain := NewSnowmanScene(Capabilities{Raytracing: true})
	assert.Equal(t, 10, plain.Len())
	for i := 0; i < 5; i++ {
		assert.Equal(t, SnowMaterial, plain.Material(i), "sphere %d", i)
	}
	for i := 5; i < 10; i++ {
		assert.Equal(t, CoalMaterial, plain.Material(i), "sphere %d", i)
	}
}

func TestSceneBytesLayout(t *testing.T) {
	s := NewSnowmanScene(FullCapabilities())
	buf := s.Bytes()
	require.Len(t, buf, 13*SceneRecordSize)

	// bottom ball
	assert.Equal(t, float32(0), getF32(buf, 0))
	assert.Equal(t, float32(1.2), getF32(buf, 4))
	assert.Equal(t, float32(1.5), getF32(buf, 12))
	assert.Equal(t, float32(1), getF32(buf, 16))
	assert.Equal(t, float32(1), getF32(buf, 28), "roughness")
	assert.Equal(t, float32(0.04), getF32(buf, 32), "f0")

	// first carrot segment
	off := 10 * SceneRecordSize
	assert.Equal(t, float32(0.7), getF32(buf, off+8))
	assert.InDelta(t, 235.0/255.0, getF32(buf, off+16), 1e-6)
}

func TestSceneUploadOnce(t *testing.T) {
	s := NewSnowmanScene(FullCapabilities())
	dst := &recordingSceneBuffer{}

	require.NoError(t, s.Upload(dst))
	assert.Equal(t, 1, dst.writes)
	assert.Equal(t, 13, dst.count)
	assert.Equal(t, s.Bytes(), dst.data)

	err := s.Upload(dst)
	assert.ErrorIs(t, err, ErrSceneUploaded)
	assert.Equal(t, 1, dst.writes)
}

func TestSceneUploadFailureCanRetry(t *testing.T) {
	s := NewSnowmanScene(FullCapabilities())
	dst := &recordingSceneBuffer{err: errors.New("device lost")}
	require.Error(t, s.Upload(dst))
	assert.False(t, s.Uploaded())

	dst.err = nil
	require.NoError(t, s.Upload(dst))
	assert.True(t, s.Uploaded())
}

func TestNewSceneMismatch(t *testing.T) {
	_, err := NewScene([]Sphere{{Radius: 1}}, nil)
	assert.ErrorIs(t, err, ErrMismatchedMaterials)
}

func TestSceneBounds(t *testing.T) {
	s := NewSnowmanScene(FullCapabilities())
	lo, hi := s.Bounds()
	assert.InDelta(t, -1.5, lo[0], 1e-5)
	assert.InDelta(t, -0.3, lo[1], 1e-5)
	assert.InDelta(t, 1.5, hi[0], 1e-5)
	assert.InDelta(t, 5.6, hi[1], 1e-5)
	assert.InDelta(t, -1.5, lo[2], 1e-5)
	assert.InDelta(t, 1.5, hi[2], 1e-5)

	empty, err := NewScene(nil, nil)
	require.NoError(t, err)
	lo, hi = empty.Bounds()
	assert.Equal(t, mgl32.Vec3{}, lo)
	assert.Equal(t, mgl32.Vec3{}, hi)
}

func TestRasterMaterialByIndex(t *testing.T) {
	assert.Equal(t, WhitePhong, RasterMaterial(0))
	assert.Equal(t, WhitePhong, RasterMaterial(4))
	assert.Equal(t, BlackPhong, RasterMaterial(5))
	assert.Equal(t, BlackPhong, RasterMaterial(9))
	// The raster path colours by index range only: sphere 10 is red even
	// though its scene material is the carrot orange.
	assert.Equal(t, RedPhong, RasterMaterial(10))
}

func TestShininessFromRoughness(t *testing.T) {
	assert.Equal(t, float32(1), SnowMaterial.Shininess())
	smooth := NewMaterial(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0.04, 0.04, 0.04}, 0.1)
	assert.InDelta(t, 198, smooth.Shininess(), 0.5)
}

func TestDecodeSceneTable(t *testing.T) {
	s := NewSnowmanScene(FullCapabilities())
	back, err := DecodeSceneTable(s.Bytes(), s.Len())
	require.NoError(t, err)
	assert.Equal(t, s.Spheres(), back.Spheres())
	assert.Equal(t, s.Material(11), back.Material(11))

	_, err = DecodeSceneTable(make([]byte, 10), 1)
	assert.Error(t, err)
}
