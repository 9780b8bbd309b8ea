package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLightSetAnimate(t *testing.T) {
	ls := NewLightSet()
	require.Len(t, ls.Lights, 3)

	p := ls.Positions()
	assert.InDelta(t, -4.0, p[0][0], 1e-4)
	assert.Equal(t, float32(6), p[0][1])
	assert.Equal(t, float32(4), p[1][1])
	assert.Equal(t, mgl32.Vec3{5, 2, 0}, p[2])

	ls.Animate(1.5)
	assert.InDelta(t, 5*0.0707372, ls.Lights[2].Position[0], 1e-4)
	assert.Equal(t, float32(0.1), ls.Lights[0].Specular[0])
}

func TestLightsBytes(t *testing.T) {
	ls := NewLightSet()
	buf := ls.Bytes()
	require.Len(t, buf, LightsDataSize)
	assert.Equal(t, float32(0.2), getF32(buf, 0))
	assert.Equal(t, uint32(3), uint32(buf[12]))
	assert.Equal(t, float32(6), getF32(buf, 16+4))
	assert.Equal(t, float32(1), getF32(buf, 16+64), "constant attenuation")
}

func TestAttenuation(t *testing.T) {
	l := NewPointLight(mgl32.Vec3{})
	assert.Equal(t, float32(1), l.AttenuationAt(100))
	l.Attenuation = mgl32.Vec3{1, 1, 0}
	assert.Equal(t, float32(0.25), l.AttenuationAt(3))
}
