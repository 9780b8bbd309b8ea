package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snowmanTracer() (*Tracer, CameraData) {
	cam := NewOrbitCamera()
	cam.SetViewport(64, 64)
	return NewTracer(NewSnowmanScene(FullCapabilities()), NewLightSet()), cam.Data()
}

func TestTraceEmptySceneIsBackground(t *testing.T) {
	empty, err := NewScene(nil, nil)
	require.NoError(t, err)
	tr := NewTracer(empty, NewLightSet())
	c, hit := tr.Trace(Ray{Dir: mgl32.Vec3{0, 0, -1}}, TraceParams{Iterations: 5, ShadowSamples: 16, LightRadius: 0.5, AmbientOcclusion: true})
	assert.False(t, hit)
	assert.Equal(t, Background, c)
}

func TestTraceBounceBoundary(t *testing.T) {
	tr, cam := snowmanTracer()
	r := cam.PrimaryRay(0, 0)
	hit, ok := Closest(r, tr.spheres, traceFar)
	require.True(t, ok, "center pixel should see the snowman")

	for _, ao := range []bool{false, true} {
		p := TraceParams{ShadowSamples: 4, LightRadius: 0.5, AmbientOcclusion: ao}
		ref := tr.Shade(r, hit, p)
		for _, it := range []int{-1, 0, 1} {
			p.Iterations = it
			c, ok := tr.Trace(r, p)
			require.True(t, ok)
			assert.Equal(t, ref, c, "iterations=%d ao=%v", it, ao)
		}
	}
}

func TestTraceReflectionsOnlyAdd(t *testing.T) {
	tr, cam := snowmanTracer()
	r := cam.PrimaryRay(0, 0)
	base, _ := tr.Trace(r, TraceParams{Iterations: 1, ShadowSamples: 1})
	more, _ := tr.Trace(r, TraceParams{Iterations: 4, ShadowSamples: 1})
	for k := 0; k < 3; k++ {
		assert.GreaterOrEqual(t, more[k], base[k])
	}
}

func TestHardShadowBlocksLight(t *testing.T) {
	scene, err := NewScene(
		[]Sphere{
			{Center: mgl32.Vec3{0, 0, 0}, Radius: 1},
			{Center: mgl32.Vec3{0, 3, 0}, Radius: 1},
		},
		[]Material{SnowMaterial, SnowMaterial},
	)
	require.NoError(t, err)
	lights := &LightSet{Lights: []PointLight{NewPointLight(mgl32.Vec3{0, 10, 0})}}
	tr := NewTracer(scene, lights)

	hit := Hit{Index: 0, Point: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 1, 0}}
	assert.Equal(t, float32(0), tr.visibility(hit, lights.Lights[0].Position, TraceParams{ShadowSamples: 16}))

	side := Hit{Index: 0, Point: mgl32.Vec3{1, 0, 0}, Normal: mgl32.Vec3{1, 0, 0}}
	assert.Equal(t, float32(1), tr.visibility(side, mgl32.Vec3{10, 0, 0}, TraceParams{ShadowSamples: 16}))
}

func TestSoftShadowIsFractional(t *testing.T) {
	scene, err := NewScene(
		[]Sphere{
			{Center: mgl32.Vec3{0, 0, 0}, Radius: 1},
			{Center: mgl32.Vec3{0, 3, 0}, Radius: 0.3},
		},
		[]Material{SnowMaterial, SnowMaterial},
	)
	require.NoError(t, err)
	light := mgl32.Vec3{0, 6, 0}
	tr := NewTracer(scene, &LightSet{Lights: []PointLight{NewPointLight(light)}})

	hit := Hit{Index: 0, Point: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 1, 0}}
	hard := tr.visibility(hit, light, TraceParams{ShadowSamples: 1, LightRadius: 1})
	soft := tr.visibility(hit, light, TraceParams{ShadowSamples: 64, LightRadius: 1})
	assert.Equal(t, float32(0), hard)
	assert.Greater(t, soft, float32(0))
	assert.Less(t, soft, float32(1))
}

func TestOcclusionOpenSky(t *testing.T) {
	scene, err := NewScene([]Sphere{{Radius: 1}}, []Material{SnowMaterial})
	require.NoError(t, err)
	tr := NewTracer(scene, NewLightSet())
	top := Hit{Index: 0, Point: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 1, 0}}
	assert.Equal(t, float32(1), tr.occlusion(top))
}

func TestSchlick(t *testing.T) {
	f0 := mgl32.Vec3{0.04, 0.04, 0.04}
	assert.InDelta(t, 0.04, Schlick(f0, 1)[0], 1e-6)
	assert.InDelta(t, 1.0, Schlick(f0, 0)[0], 1e-6)
}
