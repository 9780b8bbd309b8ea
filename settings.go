package snowman

import (
	"github.com/chewxy/math32"

	"github.com/gekko3d/snowman/snowrt/core"
)

// Slider and combo ranges offered by the settings panel.
const (
	MinReflections   = 1
	MaxReflections   = 100
	MinShadowSamples = 1
	MaxShadowSamples = core.MaxShadowSamples
	MaxLightRadius   = 1.0
	LightRadiusStep  = 0.1
)

// Settings is the user-facing render state. ParticleStep indexes
// core.ParticleSteps.
type Settings struct {
	Reflections      int     `toml:"reflections"`
	ParticleStep     int     `toml:"particle_step"`
	ShowSnow         bool    `toml:"show_snow"`
	AmbientOcclusion bool    `toml:"ambient_occlusion"`
	Raytracing       bool    `toml:"raytracing"`
	LightRadius      float32 `toml:"light_radius"`
	ShadowSamples    int     `toml:"shadow_samples"`

	// Stored and shown only.
	SmoothShadowEdges    bool `toml:"smooth_shadow_edges"`
	RectangularAreaLight bool `toml:"rectangular_area_light"`
}

func DefaultSettings() Settings {
	return Settings{
		Reflections:      3,
		ParticleStep:     core.StepIndex(core.DefaultDesired),
		ShowSnow:         true,
		AmbientOcclusion: true,
		Raytracing:       false,
		LightRadius:      0.5,
		ShadowSamples:    16,
	}
}

// Clamp forces every field into its UI range. Raytracing is cleared when the
// capability is missing.
func (s Settings) Clamp(caps core.Capabilities) Settings {
	s.Reflections = clampInt(s.Reflections, MinReflections, MaxReflections)
	s.ParticleStep = clampInt(s.ParticleStep, 0, len(core.ParticleSteps())-1)
	s.ShadowSamples = clampInt(s.ShadowSamples, MinShadowSamples, MaxShadowSamples)
	if math32.IsNaN(s.LightRadius) {
		s.LightRadius = 0
	}
	s.LightRadius = math32.Min(math32.Max(s.LightRadius, 0), MaxLightRadius)
	if !caps.Raytracing {
		s.Raytracing = false
	}
	return s
}

func (s Settings) ParticleCount() int {
	return core.CountForStep(s.ParticleStep)
}

func (s Settings) RenderOptions() core.RenderOptions {
	return core.RenderOptions{
		Raytracing:       s.Raytracing,
		Reflections:      s.Reflections,
		ShadowSamples:    s.ShadowSamples,
		LightRadius:      s.LightRadius,
		AmbientOcclusion: s.AmbientOcclusion,
		ShowSnow:         s.ShowSnow,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
