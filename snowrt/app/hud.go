package app

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/snowman/snowrt/core"
	"github.com/gekko3d/snowman/snowrt/gpu"
	"github.com/gekko3d/snowman/snowrt/shaders"
)

// HUD draws text lines over the frame from a glyph atlas.
type HUD struct {
	device  *wgpu.Device
	format  wgpu.TextureFormat
	sampler *wgpu.Sampler

	Atlas        *core.TextAtlas
	AtlasTexture *gpu.Texture2D
	Pipeline     *wgpu.RenderPipeline
	BindGroup    *wgpu.BindGroup

	VertexBuffer *wgpu.Buffer
	VertexCount  uint32
	capacity     uint64
}

func NewHUD(device *wgpu.Device, atlas *core.TextAtlas, src shaders.Sources, sampler *wgpu.Sampler, format wgpu.TextureFormat) (*HUD, error) {
	tex, err := gpu.UploadAlpha(device, "Text Atlas", atlas.Image)
	if err != nil {
		return nil, err
	}
	h := &HUD{
		device:       device,
		format:       format,
		sampler:      sampler,
		Atlas:        atlas,
		AtlasTexture: tex,
	}
	if err := h.Reload(src); err != nil {
		tex.Release()
		return nil, err
	}
	return h, nil
}

// Reload rebuilds the text pipeline and its bind group.
func (h *HUD) Reload(src shaders.Sources) error {
	module, err := h.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Text Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src.TextProgram()},
	})
	if err != nil {
		return fmt.Errorf("compile text shader: %w", err)
	}
	defer module.Release()

	pipeline, err := h.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Text Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: core.TextVertexStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: h.format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		// The overlay shares the scene pass, which carries a depth attachment.
		DepthStencil: &wgpu.DepthStencilState{
			Format:       gpu.DepthFormat,
			DepthCompare: wgpu.CompareFunctionAlways,
			StencilFront: wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:  wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create text pipeline: %w", err)
	}

	bg, err := h.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: h.AtlasTexture.View},
			{Binding: 1, Sampler: h.sampler},
		},
	})
	if err != nil {
		pipeline.Release()
		return fmt.Errorf("create text bind group: %w", err)
	}

	if h.Pipeline != nil {
		h.Pipeline.Release()
	}
	if h.BindGroup != nil {
		h.BindGroup.Release()
	}
	h.Pipeline, h.BindGroup = pipeline, bg
	return nil
}

// Update lays the lines out for a w x h surface and uploads the vertices.
func (h *HUD) Update(lines []core.TextLine, w, ht int) error {
	vertices := h.Atlas.Vertices(lines, w, ht)
	h.VertexCount = uint32(len(vertices))
	if len(vertices) == 0 {
		return nil
	}
	data := core.TextVertexBytes(vertices)
	size := uint64(len(data))
	if h.VertexBuffer == nil || h.capacity < size {
		if h.VertexBuffer != nil {
			h.VertexBuffer.Release()
		}
		var err error
		h.VertexBuffer, err = h.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Text VB",
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			h.VertexCount, h.capacity = 0, 0
			return fmt.Errorf("create text vertices: %w", err)
		}
		h.capacity = size
	}
	return h.device.GetQueue().WriteBuffer(h.VertexBuffer, 0, data)
}

func (h *HUD) Draw(pass *wgpu.RenderPassEncoder) {
	if h.VertexCount == 0 || h.VertexBuffer == nil {
		return
	}
	pass.SetPipeline(h.Pipeline)
	pass.SetBindGroup(0, h.BindGroup, nil)
	pass.SetVertexBuffer(0, h.VertexBuffer, 0, wgpu.WholeSize)
	pass.Draw(h.VertexCount, 1, 0, 0)
}

func (h *HUD) Release() {
	if h.VertexBuffer != nil {
		h.VertexBuffer.Release()
	}
	if h.BindGroup != nil {
		h.BindGroup.Release()
	}
	if h.Pipeline != nil {
		h.Pipeline.Release()
	}
	h.AtlasTexture.Release()
}
