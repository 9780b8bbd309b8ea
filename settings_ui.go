package snowman

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gekko3d/snowman/snowrt/core"
)

// Key is a panel navigation input, decoupled from the windowing library.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyToggle
)

type controlID int

const (
	ctrlReflections controlID = iota
	ctrlParticles
	ctrlShowSnow
	ctrlAmbientOcclusion
	ctrlRaytracing
	ctrlLightRadius
	ctrlShadowSamples
	ctrlSmoothShadows
	ctrlRectLight
)

var (
	panelText     = [4]float32{1, 1, 1, 1}
	panelSelected = [4]float32{1, 0.85, 0.2, 1}
	panelDim      = [4]float32{0.7, 0.7, 0.7, 1}
)

// SettingsPanel is a keyboard driven settings window drawn as HUD text.
type SettingsPanel struct {
	Settings *Settings
	Visible  bool

	// Frames per second shown in the header, refreshed by the demo.
	FPSCPU float64
	FPSGPU float64

	// LiveParticles is the count currently simulated. Zero falls back to the
	// requested step.
	LiveParticles int

	X, Y       float32
	LineHeight float32

	caps     core.Capabilities
	controls []controlID
	selected int
}

func NewSettingsPanel(s *Settings, caps core.Capabilities) *SettingsPanel {
	p := &SettingsPanel{
		Settings:   s,
		Visible:    true,
		X:          12,
		Y:          12,
		LineHeight: 18,
		caps:       caps,
	}
	p.controls = []controlID{ctrlReflections, ctrlParticles, ctrlShowSnow, ctrlAmbientOcclusion}
	if caps.Raytracing {
		p.controls = append(p.controls, ctrlRaytracing)
	}
	p.controls = append(p.controls, ctrlLightRadius, ctrlShadowSamples, ctrlSmoothShadows, ctrlRectLight)
	return p
}

// Selected returns the label of the focused control.
func (p *SettingsPanel) Selected() string {
	return p.label(p.controls[p.selected])
}

// HandleKey applies one input and reports whether a setting changed.
func (p *SettingsPanel) HandleKey(k Key) bool {
	if !p.Visible {
		return false
	}
	switch k {
	case KeyUp:
		p.selected = (p.selected + len(p.controls) - 1) % len(p.controls)
		return false
	case KeyDown:
		p.selected = (p.selected + 1) % len(p.controls)
		return false
	}

	before := *p.Settings
	s := p.Settings
	delta := 0
	switch k {
	case KeyLeft:
		delta = -1
	case KeyRight:
		delta = 1
	}

	switch p.controls[p.selected] {
	case ctrlReflections:
		s.Reflections += delta
	case ctrlParticles:
		s.ParticleStep += delta
	case ctrlShadowSamples:
		s.ShadowSamples += delta
	case ctrlLightRadius:
		s.LightRadius = math32.Round((s.LightRadius+float32(delta)*LightRadiusStep)*10) / 10
	case ctrlShowSnow:
		s.ShowSnow = toggled(s.ShowSnow, k)
	case ctrlAmbientOcclusion:
		s.AmbientOcclusion = toggled(s.AmbientOcclusion, k)
	case ctrlRaytracing:
		s.Raytracing = toggled(s.Raytracing, k)
	case ctrlSmoothShadows:
		s.SmoothShadowEdges = toggled(s.SmoothShadowEdges, k)
	case ctrlRectLight:
		s.RectangularAreaLight = toggled(s.RectangularAreaLight, k)
	}
	*s = s.Clamp(p.caps)
	return *s != before
}

// Checkboxes flip on any of Left, Right or Toggle.
func toggled(v bool, k Key) bool {
	if k == KeyToggle || k == KeyLeft || k == KeyRight {
		return !v
	}
	return v
}

func (p *SettingsPanel) label(c controlID) string {
	switch c {
	case ctrlReflections:
		return "Reflections Quality"
	case ctrlParticles:
		return "Particle Count"
	case ctrlShowSnow:
		return "Show Snow"
	case ctrlAmbientOcclusion:
		return "Ambient Occlusion"
	case ctrlRaytracing:
		return "Raytracing"
	case ctrlLightRadius:
		return "Sphere Light Radius"
	case ctrlShadowSamples:
		return "Shadow Quality"
	case ctrlSmoothShadows:
		return "Corrective: Smooth Shadow Edges"
	case ctrlRectLight:
		return "Corrective: Rectangular Area Light"
	}
	return ""
}

func (p *SettingsPanel) value(c controlID) string {
	s := p.Settings
	switch c {
	case ctrlReflections:
		return fmt.Sprintf("%d", s.Reflections)
	case ctrlParticles:
		if p.LiveParticles > 0 {
			return fmt.Sprintf("%d", p.LiveParticles)
		}
		return fmt.Sprintf("%d", s.ParticleCount())
	case ctrlShowSnow:
		return checkbox(s.ShowSnow)
	case ctrlAmbientOcclusion:
		return checkbox(s.AmbientOcclusion)
	case ctrlRaytracing:
		return checkbox(s.Raytracing)
	case ctrlLightRadius:
		return fmt.Sprintf("%.1f", s.LightRadius)
	case ctrlShadowSamples:
		return fmt.Sprintf("%d", s.ShadowSamples)
	case ctrlSmoothShadows:
		return checkbox(s.SmoothShadowEdges)
	case ctrlRectLight:
		return checkbox(s.RectangularAreaLight)
	}
	return ""
}

func checkbox(v bool) string {
	if v {
		return "[x]"
	}
	return "[ ]"
}

// Lines renders the panel. A hidden panel still shows the FPS header.
func (p *SettingsPanel) Lines() []core.TextLine {
	y := p.Y
	next := func(text string, color [4]float32) core.TextLine {
		l := core.TextLine{Text: text, X: p.X, Y: y, Color: color}
		y += p.LineHeight
		return l
	}

	lines := []core.TextLine{
		next(fmt.Sprintf("FPS(CPU): %.1f", p.FPSCPU), panelText),
		next(fmt.Sprintf("FPS(GPU): %.1f", p.FPSGPU), panelText),
	}
	if !p.Visible {
		return lines
	}
	for i, c := range p.controls {
		color, marker := panelDim, "  "
		if i == p.selected {
			color, marker = panelSelected, "> "
		}
		lines = append(lines, next(fmt.Sprintf("%s%s: %s", marker, p.label(c), p.value(c)), color))
	}
	return lines
}
