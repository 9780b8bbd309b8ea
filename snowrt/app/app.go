package app

import (
	"fmt"
	"image"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/snowman"
	"github.com/gekko3d/snowman/snowrt/core"
	"github.com/gekko3d/snowman/snowrt/gpu"
	"github.com/gekko3d/snowman/snowrt/shaders"
)

// App is the WebGPU backend bound to a GLFW window.
type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Layouts   *gpu.Layouts
	Buffers   *gpu.BufferManager
	Pipelines *gpu.Pipelines
	Sphere    *gpu.MeshBuffers
	Cube      *gpu.MeshBuffers
	Depth     *gpu.Texture2D

	Sampler  *wgpu.Sampler
	Sprite   *gpu.Texture2D
	SpriteBG *wgpu.BindGroup

	HUD      *HUD
	Profiler *Profiler
	Logger   snowman.Logger
}

func NewApp(window *glfw.Window, logger snowman.Logger) *App {
	if logger == nil {
		logger = snowman.NewNopLogger()
	}
	return &App{
		Window:   window,
		Profiler: NewProfiler(),
		Logger:   logger,
	}
}

// Init creates the device, surface and every pipeline. sprite is the snowflake
// texture; atlas may be nil to run without the HUD.
func (a *App) Init(src shaders.Sources, sprite *image.RGBA, atlas *core.TextAtlas) error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	if a.Layouts, err = gpu.NewLayouts(a.Device); err != nil {
		return err
	}
	if a.Buffers, err = gpu.NewBufferManager(a.Device, a.Layouts); err != nil {
		return err
	}
	if a.Pipelines, err = gpu.NewPipelines(a.Device, a.Layouts, src, a.Config.Format); err != nil {
		return err
	}
	if a.Sphere, err = gpu.UploadMesh(a.Device, "Sphere", core.UnitSphere(32, 16)); err != nil {
		return err
	}
	if a.Cube, err = gpu.UploadMesh(a.Device, "Cube", core.UnitCube()); err != nil {
		return err
	}
	if a.Depth, err = gpu.DepthTarget(a.Device, int(a.Config.Width), int(a.Config.Height)); err != nil {
		return err
	}

	a.Sampler, err = a.Device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	if a.Sprite, err = gpu.UploadRGBA(a.Device, "Snowflake", sprite); err != nil {
		return err
	}
	a.SpriteBG, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "SpriteBG1",
		Layout: a.Layouts.Group1,
		Entries: []wgpu.BindGroupEntry{
			{Binding: core.BindingTexture, TextureView: a.Sprite.View},
			{Binding: core.BindingSampler, Sampler: a.Sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("create sprite bind group: %w", err)
	}

	if atlas != nil {
		a.HUD, err = NewHUD(a.Device, atlas, src, a.Sampler, a.Config.Format)
		if err != nil {
			// The demo still runs without the overlay.
			a.Logger.Warnf("HUD disabled: %v", err)
			a.HUD = nil
		}
	}
	a.Logger.Infof("WebGPU backend ready (%dx%d, %v)", a.Config.Width, a.Config.Height, a.Config.Format)
	return nil
}

func (a *App) WriteSceneTable(data []byte, count int) error {
	return a.Buffers.WriteSceneTable(data, count)
}

func (a *App) WriteParticles(data []byte, count int) error {
	return a.Buffers.WriteParticles(data, count)
}

// Resize reconfigures the surface and depth target. Zero sizes (minimized
// windows) are ignored.
func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)

	depth, err := gpu.DepthTarget(a.Device, w, h)
	if err != nil {
		a.Logger.Errorf("resize: %v", err)
		return
	}
	a.Depth.Release()
	a.Depth = depth
}

// ReloadShaders rebuilds every scene pipeline from src. The old pipelines stay
// in use when compilation fails.
func (a *App) ReloadShaders(src shaders.Sources) error {
	p, err := gpu.NewPipelines(a.Device, a.Layouts, src, a.Config.Format)
	if err != nil {
		return err
	}
	a.Pipelines.Release()
	a.Pipelines = p
	if a.HUD != nil {
		if err := a.HUD.Reload(src); err != nil {
			a.Logger.Warnf("HUD shader reload: %v", err)
		}
	}
	return nil
}

// SetOverlay replaces the HUD text. With debug logging on, the previous
// frame's profiler scopes are listed under the given lines.
func (a *App) SetOverlay(lines []core.TextLine) {
	if a.HUD == nil {
		return
	}
	if a.Logger.DebugEnabled() && len(lines) > 0 {
		lines = append(lines, profilerLines(a.Profiler, lines[len(lines)-1], a.HUD.Atlas.LineHeight())...)
	}
	if err := a.HUD.Update(lines, int(a.Config.Width), int(a.Config.Height)); err != nil {
		a.Logger.Warnf("HUD update: %v", err)
	}
}

// Draw records and submits one frame, then waits for the queue to drain so the
// returned GPU time covers the submitted work.
func (a *App) Draw(f *core.Frame) (core.FrameTiming, error) {
	clock := newFrameClock(time.Now)
	a.Profiler.Reset()

	a.Profiler.BeginScope("upload")
	err := a.Buffers.UpdateFrame(f)
	var bg0 *wgpu.BindGroup
	if err == nil {
		bg0, err = a.Buffers.BindGroup()
	}
	a.Profiler.EndScope("upload")
	if err != nil {
		return core.FrameTiming{}, err
	}

	// Acquiring blocks on vsync with FIFO presentation and counts as neither
	// CPU nor GPU time.
	clock.pause()
	nextTexture, err := a.Surface.GetCurrentTexture()
	clock.resume()
	if err != nil {
		return core.FrameTiming{}, fmt.Errorf("acquire surface texture: %w", err)
	}
	defer nextTexture.Release()
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return core.FrameTiming{}, fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	cmd, err := a.encode(f, view, bg0)
	if err != nil {
		return core.FrameTiming{}, err
	}

	clock.submit()
	a.Queue.Submit(cmd)

	a.Profiler.BeginScope("gpu")
	a.Device.Poll(true, nil)
	a.Profiler.EndScope("gpu")
	timing := clock.drained()

	a.Surface.Present()
	return timing, nil
}

// encode records the scene pass into a command buffer.
func (a *App) encode(f *core.Frame, view *wgpu.TextureView, bg0 *wgpu.BindGroup) (*wgpu.CommandBuffer, error) {
	a.Profiler.BeginScope("encode")
	defer a.Profiler.EndScope("encode")

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}
	bg := core.Background
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(bg[0]), G: float64(bg[1]), B: float64(bg[2]), A: 1},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            a.Depth.View,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	pass.SetBindGroup(0, bg0, nil)
	pass.SetBindGroup(1, a.SpriteBG, nil)

	switch f.Strategy {
	case core.StrategyRaytrace:
		pass.SetPipeline(a.Pipelines.Raytrace)
		pass.Draw(3, 1, 0, 0)
	default:
		for i, d := range f.Draws {
			pass.SetPipeline(a.Pipelines.For(d.Program))
			mesh := a.Sphere
			if d.Mesh == core.MeshCube {
				mesh = a.Cube
			}
			mesh.DrawInstance(pass, uint32(i))
		}
	}
	a.Profiler.SetCount("draws", len(f.Draws))

	if f.Snow != nil {
		n := min(f.Snow.Count, a.Buffers.ParticleCount)
		pass.SetPipeline(a.Pipelines.Particles)
		pass.Draw(6, uint32(n), 0, 0)
		a.Profiler.SetCount("particles", n)
	}

	if a.HUD != nil {
		a.HUD.Draw(pass)
	}

	if err := pass.End(); err != nil {
		return nil, fmt.Errorf("end render pass: %w", err)
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish encoder: %w", err)
	}
	return cmd, nil
}

func (a *App) Release() {
	if a.HUD != nil {
		a.HUD.Release()
	}
	if a.SpriteBG != nil {
		a.SpriteBG.Release()
	}
	a.Sprite.Release()
	if a.Sampler != nil {
		a.Sampler.Release()
	}
	a.Depth.Release()
	if a.Cube != nil {
		a.Cube.Release()
	}
	if a.Sphere != nil {
		a.Sphere.Release()
	}
	if a.Pipelines != nil {
		a.Pipelines.Release()
	}
	if a.Buffers != nil {
		a.Buffers.Release()
	}
	if a.Layouts != nil {
		a.Layouts.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}

// FramebufferSize reports the current drawable size.
func (a *App) FramebufferSize() (int, int) {
	return a.Window.GetFramebufferSize()
}
