package snowman

import (
	"github.com/gekko3d/snowman/snowrt/core"
	"github.com/gekko3d/snowman/snowrt/shaders"
)

// FrameDriver is called by a harness once per frame, update first.
type FrameDriver interface {
	OnUpdate(dt float64)
	OnRender() error
	OnResize(width, height int)
}

// Renderer executes planned frames. The GPU backend (snowrt/app) and the CPU
// backend (snowrt/soft) both satisfy it.
type Renderer interface {
	core.SceneBuffer
	core.ParticleBuffer
	Resize(width, height int)
	Draw(f *core.Frame) (core.FrameTiming, error)
}

// ShaderReloader is implemented by renderers that compile WGSL.
type ShaderReloader interface {
	ReloadShaders(src shaders.Sources) error
}

// OverlayRenderer is implemented by renderers that can draw HUD text.
type OverlayRenderer interface {
	SetOverlay(lines []core.TextLine)
}
