package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/snowman/snowrt/core"
	"github.com/gekko3d/snowman/snowrt/shaders"
)

const DepthFormat = wgpu.TextureFormatDepth24Plus

// Pipelines are the four scene programs built against the shared layout.
type Pipelines struct {
	Lit       *wgpu.RenderPipeline
	Unlit     *wgpu.RenderPipeline
	Raytrace  *wgpu.RenderPipeline
	Particles *wgpu.RenderPipeline
}

type pipelineSpec struct {
	label     string
	code      string
	meshInput bool
	depth     bool // test and write
	additive  bool
}

func NewPipelines(device *wgpu.Device, layouts *Layouts, src shaders.Sources, format wgpu.TextureFormat) (*Pipelines, error) {
	specs := []pipelineSpec{
		{label: "Lit", code: src.LitProgram(), meshInput: true, depth: true},
		{label: "Unlit", code: src.UnlitProgram(), meshInput: true, depth: true},
		{label: "Raytrace", code: src.RaytraceProgram()},
		{label: "Particles", code: src.ParticlesProgram(), additive: true},
	}
	out := make([]*wgpu.RenderPipeline, 0, len(specs))
	for _, s := range specs {
		p, err := createPipeline(device, layouts.Pipeline, s, format)
		if err != nil {
			for _, built := range out {
				built.Release()
			}
			return nil, err
		}
		out = append(out, p)
	}
	return &Pipelines{Lit: out[0], Unlit: out[1], Raytrace: out[2], Particles: out[3]}, nil
}

func createPipeline(device *wgpu.Device, layout *wgpu.PipelineLayout, s pipelineSpec, format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          s.label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.code},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", s.label, err)
	}
	defer module.Release()

	var buffers []wgpu.VertexBufferLayout
	if s.meshInput {
		buffers = []wgpu.VertexBufferLayout{{
			ArrayStride: core.VertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			},
		}}
	}

	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if s.additive {
		add := wgpu.BlendComponent{
			Operation: wgpu.BlendOperationAdd,
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
		}
		target.Blend = &wgpu.BlendState{Color: add, Alpha: add}
	}

	depth := &wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: s.depth,
		DepthCompare:      wgpu.CompareFunctionAlways,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
	if s.depth {
		depth.DepthCompare = wgpu.CompareFunctionLess
	}

	p, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  s.label + " Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depth,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", s.label, err)
	}
	return p, nil
}

func (p *Pipelines) Release() {
	for _, rp := range []*wgpu.RenderPipeline{p.Lit, p.Unlit, p.Raytrace, p.Particles} {
		if rp != nil {
			rp.Release()
		}
	}
}

// For returns the pipeline of a raster program.
func (p *Pipelines) For(prog core.Program) *wgpu.RenderPipeline {
	if prog == core.ProgramUnlit {
		return p.Unlit
	}
	return p.Lit
}
