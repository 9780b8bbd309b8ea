package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameInput(opts RenderOptions) FrameInput {
	cam := NewOrbitCamera()
	cam.SetViewport(640, 480)
	return FrameInput{
		Scene:     NewSnowmanScene(FullCapabilities()),
		Lights:    NewLightSet(),
		Camera:    cam.Data(),
		Options:   opts,
		Particles: 256,
		Width:     640,
		Height:    480,
	}
}

func TestPlanRasterFrame(t *testing.T) {
	f := PlanFrame(frameInput(RenderOptions{Reflections: 3, ShadowSamples: 16, ShowSnow: true}))
	require.Equal(t, StrategyRaster, f.Strategy)
	require.Len(t, f.Draws, 13+1+3)

	for i := 0; i < 13; i++ {
		d := f.Draws[i]
		assert.Equal(t, ProgramLit, d.Program)
		assert.Equal(t, MeshSphere, d.Mesh)
		assert.Equal(t, i, d.SphereIndex)
		assert.Equal(t, RasterMaterial(i), d.Material)
	}
	head := f.Draws[2].Model.Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	assert.InDelta(t, 5.6, head[1], 1e-5)

	floor := f.Draws[13]
	assert.Equal(t, MeshCube, floor.Mesh)
	top := floor.Model.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.InDelta(t, 0.0, top[1], 1e-6)
	assert.InDelta(t, 30.0, top[0], 1e-5)

	for _, d := range f.Draws[14:] {
		assert.Equal(t, ProgramUnlit, d.Program)
		assert.Equal(t, -1, d.SphereIndex)
	}

	require.NotNil(t, f.Snow)
	assert.Equal(t, 256, f.Snow.Count)
	assert.Len(t, f.ModelsBytes(), 17*64)
	assert.Len(t, f.MaterialsBytes(), 17*PhongMaterialSize)
}

func TestPlanRaytraceFrame(t *testing.T) {
	f := PlanFrame(frameInput(RenderOptions{Raytracing: true, Reflections: 7, ShadowSamples: 500, LightRadius: 0.3, AmbientOcclusion: true}))
	assert.Equal(t, StrategyRaytrace, f.Strategy)
	assert.Empty(t, f.Draws)
	assert.Nil(t, f.Snow)

	p := f.Params
	assert.Equal(t, uint32(640), p.Width)
	assert.Equal(t, uint32(480), p.Height)
	assert.Equal(t, uint32(13), p.SphereCount)
	assert.Equal(t, uint32(7), p.Iterations)
	assert.Equal(t, uint32(MaxShadowSamples), p.ShadowSamples)
	assert.True(t, p.AmbientOcclusion)

	buf := p.Bytes()
	require.Len(t, buf, FrameParamsSize)
	assert.Equal(t, float32(0.3), getF32(buf, 24))
}

func TestPlanFrameNoSnowWithoutParticles(t *testing.T) {
	in := frameInput(RenderOptions{ShowSnow: true})
	in.Particles = 0
	assert.Nil(t, PlanFrame(in).Snow)
}

func TestPlanFrameEmptyScene(t *testing.T) {
	in := frameInput(RenderOptions{})
	empty, err := NewScene(nil, nil)
	require.NoError(t, err)
	in.Scene = empty
	f := PlanFrame(in)
	assert.Len(t, f.Draws, 1+3)
	assert.Equal(t, uint32(0), f.Params.SphereCount)
}

func TestPlanRasterFrameWithoutLights(t *testing.T) {
	in := frameInput(RenderOptions{Reflections: 1, ShadowSamples: 1})
	in.Lights = nil

	var f *Frame
	require.NotPanics(t, func() { f = PlanFrame(in) })
	require.Len(t, f.Draws, 13+1)
	assert.Equal(t, MeshCube, f.Draws[13].Mesh)
	assert.Nil(t, f.Lights)
}
