package snowman

import (
	"fmt"
	"time"

	"github.com/gekko3d/snowman/snowrt/core"
	"github.com/gekko3d/snowman/snowrt/shaders"
)

const fpsWindow = 0.5

// Demo drives the snowman scene through any Renderer.
type Demo struct {
	State    *SceneState
	Panel    *SettingsPanel
	Renderer Renderer
	Logger   Logger

	// ShaderDir overrides the embedded WGSL on reload. Empty reloads the
	// embedded sources.
	ShaderDir string

	reload  <-chan struct{}
	fps     fpsCounter
	timings core.FrameTiming
}

// NewDemo builds the scene state and uploads the scene table and the initial
// particles to r.
func NewDemo(r Renderer, cfg Config, logger Logger) (*Demo, error) {
	logger = orNop(logger)
	state := NewSceneState(cfg.Capabilities, cfg.Settings, cfg.Window.Width, cfg.Window.Height)
	d := &Demo{
		State:     state,
		Renderer:  r,
		Logger:    logger,
		ShaderDir: cfg.Assets.ShaderDir,
	}
	d.Panel = NewSettingsPanel(&state.Settings, cfg.Capabilities)

	if err := state.Scene.Upload(r); err != nil {
		return nil, fmt.Errorf("upload scene: %w", err)
	}
	if err := state.Particles.Upload(r); err != nil {
		return nil, fmt.Errorf("upload particles: %w", err)
	}
	if state.Width > 0 {
		r.Resize(state.Width, state.Height)
	}
	logger.Infof("scene: %d spheres, raytracing capability %v", state.Scene.Len(), cfg.Capabilities.Raytracing)
	return d, nil
}

// WatchReloads makes OnUpdate reload shaders whenever ch fires.
func (d *Demo) WatchReloads(ch <-chan struct{}) {
	d.reload = ch
}

func (d *Demo) OnUpdate(dt float64) {
	s := d.State
	s.Time += dt
	s.Settings = s.Settings.Clamp(s.Caps)

	if err := s.Particles.SetDesiredCount(s.Settings.ParticleCount()); err != nil {
		d.Logger.Warnf("particles: %v", err)
	}
	if s.Particles.Update() {
		if err := s.Particles.Upload(d.Renderer); err != nil {
			d.Logger.Errorf("upload particles: %v", err)
		} else {
			d.Logger.Debugf("particles regenerated: %d", s.Particles.Current())
		}
	}
	d.Panel.LiveParticles = s.Particles.Current()
	s.Lights.Animate(float32(s.Time))

	if d.reload != nil {
		select {
		case <-d.reload:
			d.ReloadShaders()
		default:
		}
	}

	if d.fps.tick(dt) {
		d.Panel.FPSCPU = d.fps.cpu
		d.Panel.FPSGPU = d.fps.gpu
	}
}

func (d *Demo) OnRender() error {
	if o, ok := d.Renderer.(OverlayRenderer); ok {
		o.SetOverlay(d.Panel.Lines())
	}
	frame := core.PlanFrame(d.State.FrameInput())
	timing, err := d.Renderer.Draw(frame)
	if err != nil {
		return err
	}
	d.timings = timing
	d.fps.addGPU(timing.GPU)
	return nil
}

func (d *Demo) OnResize(width, height int) {
	if !d.State.Resize(width, height) {
		return
	}
	d.Renderer.Resize(width, height)
}

// LastTiming is the timing of the most recent OnRender.
func (d *Demo) LastTiming() core.FrameTiming {
	return d.timings
}

// ReloadShaders recompiles from ShaderDir when the renderer compiles shaders.
func (d *Demo) ReloadShaders() bool {
	r, ok := d.Renderer.(ShaderReloader)
	if !ok {
		return false
	}
	src, err := shaders.Load(d.ShaderDir)
	if err != nil {
		d.Logger.Errorf("load shaders: %v", err)
		return false
	}
	if err := r.ReloadShaders(src); err != nil {
		d.Logger.Errorf("reload shaders: %v", err)
		return false
	}
	d.Logger.Infof("Shaders are reloaded.")
	return true
}

func (d *Demo) HandleKey(k Key) bool {
	return d.Panel.HandleKey(k)
}

// Orbit rotates the camera by a cursor delta in pixels.
func (d *Demo) Orbit(dx, dy float64) {
	d.State.Camera.Orbit(float32(dx), float32(dy))
}

func (d *Demo) Zoom(steps float64) {
	d.State.Camera.Zoom(float32(steps))
}

// fpsCounter averages wall-clock frames and measured GPU time over a short
// window.
type fpsCounter struct {
	frames  int
	elapsed float64
	gpuSum  time.Duration
	gpuN    int

	cpu, gpu float64
}

func (c *fpsCounter) addGPU(d time.Duration) {
	c.gpuSum += d
	c.gpuN++
}

// tick reports whether the averages were refreshed.
func (c *fpsCounter) tick(dt float64) bool {
	c.frames++
	c.elapsed += dt
	if c.elapsed < fpsWindow {
		return false
	}
	c.cpu = float64(c.frames) / c.elapsed
	c.gpu = 0
	if c.gpuN > 0 && c.gpuSum > 0 {
		c.gpu = float64(c.gpuN) / c.gpuSum.Seconds()
	}
	*c = fpsCounter{cpu: c.cpu, gpu: c.gpu}
	return true
}
