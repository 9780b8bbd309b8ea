package core

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrUnsupportedParticleCount = errors.New("unsupported particle count")

const (
	ParticleSeed         = 69769
	MaxParticles         = 131072
	DefaultDesired       = 4096
	InitialParticleCount = 256
	ParticleStride       = 16
	ParticleSize         = 0.2

	// spawn box
	SnowHalfExtent = 30.0
	SnowHeight     = 60.0
)

var particleSteps = [...]int{256, 512, 1024, 2048, 4096, 8192, 16384, 32768, 65536, 131072}

// ParticleSteps lists the selectable counts in ascending order.
func ParticleSteps() []int {
	out := make([]int, len(particleSteps))
	copy(out, particleSteps[:])
	return out
}

// StepIndex returns the position of count in ParticleSteps, or -1.
func StepIndex(count int) int {
	for i, c := range particleSteps {
		if c == count {
			return i
		}
	}
	return -1
}

// CountForStep clamps i into range and returns its count.
func CountForStep(i int) int {
	i = max(0, min(i, len(particleSteps)-1))
	return particleSteps[i]
}

// ParticleBuffer is the GPU side of the particle store. It is allocated for
// MaxParticles positions; writes only cover the live prefix.
type ParticleBuffer interface {
	WriteParticles(data []byte, count int) error
}

// ParticleSystem keeps CPU positions in sync with the requested count.
// Positions are regenerated from a fixed seed so a given count always
// produces the same snowfall.
type ParticleSystem struct {
	positions []mgl32.Vec4
	current   int
	desired   int
}

func NewParticleSystem() *ParticleSystem {
	ps := &ParticleSystem{
		positions: make([]mgl32.Vec4, 0, MaxParticles),
		current:   InitialParticleCount,
		desired:   DefaultDesired,
	}
	ps.Regenerate()
	return ps
}

func (ps *ParticleSystem) Current() int { return ps.current }
func (ps *ParticleSystem) Desired() int { return ps.desired }

// SetDesiredCount requests a new count, applied on the next Update.
func (ps *ParticleSystem) SetDesiredCount(count int) error {
	if StepIndex(count) < 0 {
		return fmt.Errorf("%w: %d", ErrUnsupportedParticleCount, count)
	}
	ps.desired = count
	return nil
}

// Update regenerates when the desired count differs from the current one.
// It reports whether the positions changed and must be re-uploaded.
func (ps *ParticleSystem) Update() bool {
	if ps.desired == ps.current {
		return false
	}
	ps.current = ps.desired
	ps.Regenerate()
	return true
}

// Regenerate refills the positions uniformly inside the snow box.
func (ps *ParticleSystem) Regenerate() {
	rng := rand.New(rand.NewSource(ParticleSeed))
	ps.positions = ps.positions[:0]
	for i := 0; i < ps.current; i++ {
		x := rng.Float32()*2*SnowHalfExtent - SnowHalfExtent
		y := rng.Float32() * SnowHeight
		z := rng.Float32()*2*SnowHalfExtent - SnowHalfExtent
		ps.positions = append(ps.positions, mgl32.Vec4{x, y, z, 1})
	}
}

// Positions returns the live positions. The slice aliases internal storage.
func (ps *ParticleSystem) Positions() []mgl32.Vec4 {
	return ps.positions
}

func (ps *ParticleSystem) Bytes() []byte {
	buf := make([]byte, len(ps.positions)*ParticleStride)
	for i, p := range ps.positions {
		off := i * ParticleStride
		putF32(buf, off, p[0])
		putF32(buf, off+4, p[1])
		putF32(buf, off+8, p[2])
		putF32(buf, off+12, p[3])
	}
	return buf
}

func (ps *ParticleSystem) Upload(dst ParticleBuffer) error {
	if err := dst.WriteParticles(ps.Bytes(), ps.current); err != nil {
		return fmt.Errorf("upload %d particles: %w", ps.current, err)
	}
	return nil
}

// SnowFallSpeed is how fast flakes drop, in units per second.
const SnowFallSpeed = 1.5

// FallenPosition applies the stateless fall used by particles.wgsl: y drops with
// time and wraps inside [0, SnowHeight).
func FallenPosition(p mgl32.Vec4, t float32) mgl32.Vec3 {
	y := math32.Mod(p[1]-SnowFallSpeed*t, SnowHeight)
	if y < 0 {
		y += SnowHeight
	}
	return mgl32.Vec3{p[0], y, p[2]}
}

// DecodeParticles reads count positions written by Bytes.
func DecodeParticles(data []byte, count int) ([]mgl32.Vec4, error) {
	if count < 0 || count > MaxParticles || len(data) < count*ParticleStride {
		return nil, fmt.Errorf("%w: %d positions in %d bytes", ErrUnsupportedParticleCount, count, len(data))
	}
	out := make([]mgl32.Vec4, count)
	for i := range out {
		off := i * ParticleStride
		out[i] = mgl32.Vec4{getF32(data, off), getF32(data, off+4), getF32(data, off+8), getF32(data, off+12)}
	}
	return out, nil
}

// ParticleBufferSize is the capacity of the GPU position buffer in bytes.
const ParticleBufferSize = MaxParticles * ParticleStride
