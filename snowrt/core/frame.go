package core

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

type Strategy int

const (
	StrategyRaster Strategy = iota
	StrategyRaytrace
)

func (s Strategy) String() string {
	if s == StrategyRaytrace {
		return "raytrace"
	}
	return "raster"
}

type Program int

const (
	ProgramLit Program = iota
	ProgramUnlit
)

type MeshKind int

const (
	MeshSphere MeshKind = iota
	MeshCube
)

// DrawCommand is one raster draw. SphereIndex is -1 for the floor and light markers.
type DrawCommand struct {
	Program     Program
	Mesh        MeshKind
	Model       mgl32.Mat4
	Material    PhongMaterial
	SphereIndex int
}

// RenderOptions is the subset of the UI state the renderer consumes.
type RenderOptions struct {
	Raytracing       bool
	Reflections      int
	ShadowSamples    int
	LightRadius      float32
	AmbientOcclusion bool
	ShowSnow         bool
}

func (o RenderOptions) TraceParams() TraceParams {
	return TraceParams{
		Iterations:       o.Reflections,
		ShadowSamples:    o.ShadowSamples,
		LightRadius:      o.LightRadius,
		AmbientOcclusion: o.AmbientOcclusion,
	}
}

// FrameInput is everything PlanFrame reads. None of it is modified.
type FrameInput struct {
	Scene     *Scene
	Lights    *LightSet
	Camera    CameraData
	Options   RenderOptions
	Particles int
	Width     int
	Height    int
	Time      float32
}

// FrameParams is the uniform block at BindingParams. The raster programs read
// the AO flag and sphere count from it too.
type FrameParams struct {
	Width            uint32
	Height           uint32
	SphereCount      uint32
	AmbientOcclusion bool
	Iterations       uint32
	ShadowSamples    uint32
	LightRadius      float32
	Time             float32
	ParticleSize     float32
}

const FrameParamsSize = 48

func (p FrameParams) Bytes() []byte {
	buf := make([]byte, FrameParamsSize)
	putU32(buf, 0, p.Width)
	putU32(buf, 4, p.Height)
	putU32(buf, 8, p.SphereCount)
	putU32(buf, 12, boolToU32(p.AmbientOcclusion))
	putU32(buf, 16, p.Iterations)
	putU32(buf, 20, p.ShadowSamples)
	putF32(buf, 24, p.LightRadius)
	putF32(buf, 28, p.Time)
	putF32(buf, 32, p.ParticleSize)
	return buf
}

func (p FrameParams) TraceParams() TraceParams {
	return TraceParams{
		Iterations:       int(p.Iterations),
		ShadowSamples:    int(p.ShadowSamples),
		LightRadius:      p.LightRadius,
		AmbientOcclusion: p.AmbientOcclusion,
	}
}

// ParticleDraw is the additive snow pass: Count instances of a 6-vertex quad.
type ParticleDraw struct {
	Count int
	Size  float32
}

// Frame is a backend-neutral description of one frame.
type Frame struct {
	Strategy Strategy
	Draws    []DrawCommand
	Params   FrameParams
	Camera   CameraData
	Lights   *LightSet
	Snow     *ParticleDraw
}

// Model matrices used by the raster strategy.
var (
	FloorModel = mgl32.Translate3D(0, -0.1, 0).Mul4(mgl32.Scale3D(30, 0.1, 30))
	markerSize = float32(0.1)
)

func SphereModel(s Sphere) mgl32.Mat4 {
	return mgl32.Translate3D(s.Center[0], s.Center[1], s.Center[2]).Mul4(mgl32.Scale3D(s.Radius, s.Radius, s.Radius))
}

// PlanFrame picks the strategy from the options and lists what to draw.
func PlanFrame(in FrameInput) *Frame {
	f := &Frame{
		Camera: in.Camera,
		Lights: in.Lights,
		Params: FrameParams{
			Width:            uint32(max(in.Width, 0)),
			Height:           uint32(max(in.Height, 0)),
			SphereCount:      uint32(in.Scene.Len()),
			AmbientOcclusion: in.Options.AmbientOcclusion,
			Iterations:       uint32(max(in.Options.Reflections, 0)),
			ShadowSamples:    uint32(clampSamples(in.Options.ShadowSamples)),
			LightRadius:      max(in.Options.LightRadius, 0),
			Time:             in.Time,
			ParticleSize:     ParticleSize,
		},
	}

	if in.Options.Raytracing {
		f.Strategy = StrategyRaytrace
	} else {
		f.Strategy = StrategyRaster
		f.Draws = rasterDraws(in)
	}

	if in.Options.ShowSnow && in.Particles > 0 {
		f.Snow = &ParticleDraw{Count: min(in.Particles, MaxParticles), Size: ParticleSize}
	}
	return f
}

func rasterDraws(in FrameInput) []DrawCommand {
	n := in.Scene.Len()
	var lights []PointLight
	if in.Lights != nil {
		lights = in.Lights.Lights
	}
	draws := make([]DrawCommand, 0, n+1+len(lights))
	for i := 0; i < n; i++ {
		draws = append(draws, DrawCommand{
			Program:     ProgramLit,
			Mesh:        MeshSphere,
			Model:       SphereModel(in.Scene.Sphere(i)),
			Material:    RasterMaterial(i),
			SphereIndex: i,
		})
	}
	draws = append(draws, DrawCommand{
		Program:     ProgramLit,
		Mesh:        MeshCube,
		Model:       FloorModel,
		Material:    WhitePhong,
		SphereIndex: -1,
	})
	for _, l := range lights {
		p := l.Position
		draws = append(draws, DrawCommand{
			Program:     ProgramUnlit,
			Mesh:        MeshSphere,
			Model:       mgl32.Translate3D(p[0], p[1], p[2]).Mul4(mgl32.Scale3D(markerSize, markerSize, markerSize)),
			Material:    WhitePhong,
			SphereIndex: -1,
		})
	}
	return draws
}

// ModelsBytes packs the model matrices of all draws in order.
func (f *Frame) ModelsBytes() []byte {
	buf := make([]byte, 64*len(f.Draws))
	for i, d := range f.Draws {
		putMat4(buf, i*64, d.Model)
	}
	return buf
}

// MaterialsBytes packs the Phong material of all draws in order.
func (f *Frame) MaterialsBytes() []byte {
	buf := make([]byte, 0, PhongMaterialSize*len(f.Draws))
	for _, d := range f.Draws {
		buf = append(buf, d.Material.Bytes()...)
	}
	return buf
}

// FrameTiming is what a backend measured for one Draw. GPU is the time until the
// device finished the submitted work.
type FrameTiming struct {
	CPU time.Duration
	GPU time.Duration
}
