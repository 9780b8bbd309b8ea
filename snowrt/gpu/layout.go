package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/snowman/snowrt/core"
)

// Layouts are declared explicitly rather than reflected from each pipeline, so
// one bind group serves every scene program even when a program leaves some
// bindings unused.
type Layouts struct {
	Group0   *wgpu.BindGroupLayout
	Group1   *wgpu.BindGroupLayout
	Pipeline *wgpu.PipelineLayout
}

func NewLayouts(device *wgpu.Device) (*Layouts, error) {
	vf := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	uniform := func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: vf,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		}
	}
	storage := func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: vf,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
		}
	}

	g0, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "SceneBGL0",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniform(core.BindingCamera),
			uniform(core.BindingLights),
			storage(core.BindingModels),
			storage(core.BindingMaterials),
			storage(core.BindingScene),
			uniform(core.BindingParams),
			storage(core.BindingParticles),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create group 0 layout: %w", err)
	}

	g1, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "SpriteBGL1",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    core.BindingTexture,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    core.BindingSampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		g0.Release()
		return nil, fmt.Errorf("create group 1 layout: %w", err)
	}

	pl, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "ScenePipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{g0, g1},
	})
	if err != nil {
		g0.Release()
		g1.Release()
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	return &Layouts{Group0: g0, Group1: g1, Pipeline: pl}, nil
}

func (l *Layouts) Release() {
	if l.Pipeline != nil {
		l.Pipeline.Release()
	}
	if l.Group1 != nil {
		l.Group1.Release()
	}
	if l.Group0 != nil {
		l.Group0.Release()
	}
}
