package snowman

import (
	"github.com/gekko3d/snowman/snowrt/core"
)

// SceneState is everything the update phase mutates and the render phase
// reads.
type SceneState struct {
	Caps      core.Capabilities
	Scene     *core.Scene
	Lights    *core.LightSet
	Camera    *core.OrbitCamera
	Particles *core.ParticleSystem
	Settings  Settings

	Width, Height int
	Time          float64
}

func NewSceneState(caps core.Capabilities, settings Settings, width, height int) *SceneState {
	s := &SceneState{
		Caps:      caps,
		Scene:     core.NewSnowmanScene(caps),
		Lights:    core.NewLightSet(),
		Camera:    core.NewOrbitCamera(),
		Particles: core.NewParticleSystem(),
		Settings:  settings.Clamp(caps),
	}
	s.Resize(width, height)
	return s
}

// Resize ignores non-positive sizes.
func (s *SceneState) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	s.Width, s.Height = width, height
	s.Camera.SetViewport(width, height)
	return true
}

func (s *SceneState) FrameInput() core.FrameInput {
	return core.FrameInput{
		Scene:     s.Scene,
		Lights:    s.Lights,
		Camera:    s.Camera.Data(),
		Options:   s.Settings.RenderOptions(),
		Particles: s.Particles.Current(),
		Width:     s.Width,
		Height:    s.Height,
		Time:      float32(s.Time),
	}
}
