package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingParticleBuffer struct {
	data  []byte
	count int
}

func (b *recordingParticleBuffer) WriteParticles(data []byte, count int) error {
	b.data = append([]byte(nil), data...)
	b.count = count
	return nil
}

func TestParticlesStartAtInitialCount(t *testing.T) {
	ps := NewParticleSystem()
	assert.Equal(t, InitialParticleCount, ps.Current())
	assert.Equal(t, DefaultDesired, ps.Desired())
	assert.Len(t, ps.Positions(), InitialParticleCount)
}

func TestParticlesRegenerateDeterministic(t *testing.T) {
	ps := NewParticleSystem()
	first := append(ps.Positions()[:0:0], ps.Positions()...)
	ps.Regenerate()
	assert.Equal(t, first, ps.Positions())

	other := NewParticleSystem()
	assert.Equal(t, first, other.Positions())
}

func TestParticlesPrefixStable(t *testing.T) {
	small := NewParticleSystem()
	big := NewParticleSystem()
	require.NoError(t, big.SetDesiredCount(1024))
	require.True(t, big.Update())
	assert.Equal(t, small.Positions(), big.Positions()[:InitialParticleCount])
}

func TestParticlesInBox(t *testing.T) {
	ps := NewParticleSystem()
	require.NoError(t, ps.SetDesiredCount(MaxParticles))
	ps.Update()
	require.Len(t, ps.Positions(), MaxParticles)
	for i, p := range ps.Positions() {
		if p[0] < -30 || p[0] > 30 || p[1] < 0 || p[1] > 60 || p[2] < -30 || p[2] > 30 || p[3] != 1 {
			t.Fatalf("particle %d out of box: %v", i, p)
		}
	}
	assert.LessOrEqual(t, cap(ps.Positions()), MaxParticles)
}

func TestParticlesUpdateGating(t *testing.T) {
	ps := NewParticleSystem()
	assert.True(t, ps.Update(), "desired 4096 differs from initial 256")
	assert.Equal(t, DefaultDesired, ps.Current())
	assert.False(t, ps.Update())

	require.NoError(t, ps.SetDesiredCount(DefaultDesired))
	assert.False(t, ps.Update())
}

func TestParticlesRejectUnsupportedCount(t *testing.T) {
	ps := NewParticleSystem()
	assert.ErrorIs(t, ps.SetDesiredCount(1000), ErrUnsupportedParticleCount)
	assert.ErrorIs(t, ps.SetDesiredCount(MaxParticles*2), ErrUnsupportedParticleCount)
	assert.Equal(t, DefaultDesired, ps.Desired())
}

func TestParticlesUploadPrefix(t *testing.T) {
	ps := NewParticleSystem()
	dst := &recordingParticleBuffer{}
	require.NoError(t, ps.Upload(dst))
	assert.Equal(t, InitialParticleCount, dst.count)
	assert.Len(t, dst.data, InitialParticleCount*ParticleStride)
	assert.Equal(t, ps.Positions()[3][1], getF32(dst.data, 3*ParticleStride+4))
	assert.LessOrEqual(t, len(dst.data), ParticleBufferSize)
}

func TestParticleSteps(t *testing.T) {
	steps := ParticleSteps()
	require.Len(t, steps, 10)
	assert.Equal(t, 256, steps[0])
	assert.Equal(t, MaxParticles, steps[9])
	assert.Equal(t, 4, StepIndex(4096))
	assert.Equal(t, -1, StepIndex(300))
	assert.Equal(t, 256, CountForStep(-3))
	assert.Equal(t, MaxParticles, CountForStep(42))
}

func TestFallenPositionWraps(t *testing.T) {
	p := mgl32.Vec4{1, 0.5, 2, 1}
	assert.Equal(t, mgl32.Vec3{1, 0.5, 2}, FallenPosition(p, 0))
	got := FallenPosition(p, 1)
	assert.InDelta(t, SnowHeight+0.5-SnowFallSpeed, got[1], 1e-4)
	for _, tm := range []float32{3, 17.5, 1000} {
		y := FallenPosition(p, tm)[1]
		assert.GreaterOrEqual(t, y, float32(0))
		assert.Less(t, y, float32(SnowHeight))
	}
}

func TestDecodeParticles(t *testing.T) {
	ps := NewParticleSystem()
	got, err := DecodeParticles(ps.Bytes(), ps.Current())
	require.NoError(t, err)
	assert.Equal(t, ps.Positions(), got)

	_, err = DecodeParticles(nil, 4)
	assert.Error(t, err)
}
