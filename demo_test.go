package snowman

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/snowman/snowrt/core"
	"github.com/gekko3d/snowman/snowrt/shaders"
	"github.com/gekko3d/snowman/snowrt/soft"
)

// gpuLikeRenderer adds the optional GPU backend surfaces to the CPU renderer.
type gpuLikeRenderer struct {
	*soft.Renderer
	reloads   int
	overlay   []core.TextLine
	drawErr   error
	lastSrc   shaders.Sources
	reloadErr error
}

func (r *gpuLikeRenderer) ReloadShaders(src shaders.Sources) error {
	if r.reloadErr != nil {
		return r.reloadErr
	}
	r.reloads++
	r.lastSrc = src
	return nil
}

func (r *gpuLikeRenderer) SetOverlay(lines []core.TextLine) {
	r.overlay = lines
}

func (r *gpuLikeRenderer) Draw(f *core.Frame) (core.FrameTiming, error) {
	if r.drawErr != nil {
		return core.FrameTiming{}, r.drawErr
	}
	return r.Renderer.Draw(f)
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Window.Width = 64
	cfg.Window.Height = 48
	return cfg
}

func TestNewDemoUploadsSceneAndInitialParticles(t *testing.T) {
	r := soft.NewRenderer(8, 8)
	d, err := NewDemo(r, smallConfig(), nil)
	require.NoError(t, err)

	assert.True(t, d.State.Scene.Uploaded())
	assert.Equal(t, 13, d.State.Scene.Len())
	assert.Equal(t, core.InitialParticleCount, d.State.Particles.Current())

	w, h := r.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)
}

func TestDemoRegeneratesParticlesOnUpdate(t *testing.T) {
	r := soft.NewRenderer(64, 48)
	d, err := NewDemo(r, smallConfig(), nil)
	require.NoError(t, err)

	d.OnUpdate(1.0 / 60)
	assert.Equal(t, 4096, d.State.Particles.Current())
	assert.Equal(t, 4096, d.Panel.LiveParticles)

	d.State.Settings.ParticleStep = 0
	d.OnUpdate(1.0 / 60)
	assert.Equal(t, 256, d.State.Particles.Current())

	require.NoError(t, d.OnRender())
}

func TestDemoAnimatesLights(t *testing.T) {
	d, err := NewDemo(soft.NewRenderer(64, 48), smallConfig(), nil)
	require.NoError(t, err)

	before := d.State.Lights.Positions()
	d.OnUpdate(0.5)
	after := d.State.Lights.Positions()
	assert.NotEqual(t, before, after)
	assert.InDelta(t, 0.5, d.State.Time, 1e-9)
}

func TestDemoRendersBothStrategies(t *testing.T) {
	r := soft.NewRenderer(64, 48)
	d, err := NewDemo(r, smallConfig(), nil)
	require.NoError(t, err)
	d.State.Settings.ShowSnow = false

	d.OnUpdate(0)
	require.NoError(t, d.OnRender())
	raster := r.Image()

	d.State.Settings.Raytracing = true
	d.State.Settings.Reflections = 1
	d.OnUpdate(0)
	require.NoError(t, d.OnRender())
	traced := r.Image()

	assert.Equal(t, raster.Bounds(), traced.Bounds())
	assert.NotEqual(t, raster.Pix, traced.Pix)
}

func TestDemoResize(t *testing.T) {
	r := soft.NewRenderer(64, 48)
	d, err := NewDemo(r, smallConfig(), nil)
	require.NoError(t, err)

	d.OnResize(0, 10)
	w, h := r.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)

	d.OnResize(32, 16)
	w, h = r.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 16, h)
	assert.Equal(t, float32(2), d.State.Camera.Aspect)

	d.State.Settings.Raytracing = true
	frame := core.PlanFrame(d.State.FrameInput())
	assert.Equal(t, uint32(32), frame.Params.Width)
	assert.Equal(t, uint32(16), frame.Params.Height)
}

func TestDemoShaderReload(t *testing.T) {
	var out bytes.Buffer
	logger := NewWriterLogger("test", false, &out, &out)
	r := &gpuLikeRenderer{Renderer: soft.NewRenderer(64, 48)}
	d, err := NewDemo(r, smallConfig(), logger)
	require.NoError(t, err)

	ch := make(chan struct{}, 1)
	d.WatchReloads(ch)
	d.OnUpdate(0)
	assert.Equal(t, 0, r.reloads)

	ch <- struct{}{}
	d.OnUpdate(0)
	assert.Equal(t, 1, r.reloads)
	assert.Equal(t, shaders.Embedded(), r.lastSrc)
	assert.Contains(t, out.String(), "Shaders are reloaded.")

	r.reloadErr = errors.New("bad wgsl")
	assert.False(t, d.ReloadShaders())
	assert.Contains(t, out.String(), "bad wgsl")
}

func TestReloadWithoutShaderBackend(t *testing.T) {
	d, err := NewDemo(soft.NewRenderer(64, 48), smallConfig(), nil)
	require.NoError(t, err)
	assert.False(t, d.ReloadShaders())
}

func TestDemoOverlayAndFPS(t *testing.T) {
	r := &gpuLikeRenderer{Renderer: soft.NewRenderer(64, 48)}
	d, err := NewDemo(r, smallConfig(), nil)
	require.NoError(t, err)

	d.OnUpdate(0.25)
	require.NoError(t, d.OnRender())
	require.NotEmpty(t, r.overlay)
	assert.Equal(t, "FPS(CPU): 0.0", r.overlay[0].Text)

	d.OnUpdate(0.25)
	assert.Equal(t, 4.0, d.Panel.FPSCPU)
	assert.Greater(t, d.Panel.FPSGPU, 0.0)

	require.NoError(t, d.OnRender())
	assert.Equal(t, "FPS(CPU): 4.0", r.overlay[0].Text)
}

func TestDemoRenderError(t *testing.T) {
	r := &gpuLikeRenderer{Renderer: soft.NewRenderer(64, 48)}
	d, err := NewDemo(r, smallConfig(), nil)
	require.NoError(t, err)

	r.drawErr = errors.New("surface lost")
	assert.EqualError(t, d.OnRender(), "surface lost")
}

func TestDemoHandlesInput(t *testing.T) {
	d, err := NewDemo(soft.NewRenderer(64, 48), smallConfig(), nil)
	require.NoError(t, err)

	az := d.State.Camera.Azimuth
	d.Orbit(100, 0)
	assert.NotEqual(t, az, d.State.Camera.Azimuth)

	dist := d.State.Camera.Distance
	d.Zoom(1)
	assert.Less(t, d.State.Camera.Distance, dist)

	assert.True(t, d.HandleKey(KeyRight))
	assert.Equal(t, 4, d.State.Settings.Reflections)
}
