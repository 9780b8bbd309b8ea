package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/snowman/snowrt/core"
)

const (
	// Per-draw storage grows in steps of this many draws.
	drawHeadroom = 32
	minStorage   = 64
)

// BufferManager owns the group 0 buffers and the bind group built over them.
// Any buffer that is recreated invalidates the bind group; BindGroup rebuilds it
// lazily.
type BufferManager struct {
	Device *wgpu.Device

	CameraBuf    *wgpu.Buffer
	LightsBuf    *wgpu.Buffer
	ModelsBuf    *wgpu.Buffer
	MaterialsBuf *wgpu.Buffer
	SceneBuf     *wgpu.Buffer
	ParamsBuf    *wgpu.Buffer
	ParticlesBuf *wgpu.Buffer

	Layouts *Layouts

	SceneCount    int
	ParticleCount int

	bindGroup0 *wgpu.BindGroup
	dirty      bool
}

func NewBufferManager(device *wgpu.Device, layouts *Layouts) (*BufferManager, error) {
	m := &BufferManager{Device: device, Layouts: layouts, dirty: true}

	fixed := []struct {
		name  string
		buf   **wgpu.Buffer
		size  int
		usage wgpu.BufferUsage
	}{
		{"CameraUB", &m.CameraBuf, core.CameraDataSize, wgpu.BufferUsageUniform},
		{"LightsUB", &m.LightsBuf, core.LightsDataSize, wgpu.BufferUsageUniform},
		{"ParamsUB", &m.ParamsBuf, core.FrameParamsSize, wgpu.BufferUsageUniform},
		{"ParticlesSB", &m.ParticlesBuf, core.ParticleBufferSize, wgpu.BufferUsageStorage},
		{"SceneSB", &m.SceneBuf, minStorage, wgpu.BufferUsageStorage},
		{"ModelsSB", &m.ModelsBuf, 64 * drawHeadroom, wgpu.BufferUsageStorage},
		{"MaterialsSB", &m.MaterialsBuf, core.PhongMaterialSize * drawHeadroom, wgpu.BufferUsageStorage},
	}
	for _, f := range fixed {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: f.name,
			Size:  align4(uint64(f.size)),
			Usage: f.usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			m.Release()
			return nil, fmt.Errorf("create %s: %w", f.name, err)
		}
		*f.buf = buf
	}
	return m, nil
}

func align4(n uint64) uint64 {
	if n%4 != 0 {
		n += 4 - n%4
	}
	return n
}

// ensureBuffer grows buf to fit data plus headroom, then writes data at offset 0.
// It reports whether the buffer was recreated.
func (m *BufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, headroom int) (bool, error) {
	neededSize := align4(uint64(max(len(data)+headroom, minStorage)))

	current := *buf
	recreated := false
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
		}
		newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  neededSize,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			*buf = nil
			return false, fmt.Errorf("create %s: %w", name, err)
		}
		*buf = newBuf
		m.dirty = true
		recreated = true
	}
	if len(data) > 0 {
		if err := m.Device.GetQueue().WriteBuffer(*buf, 0, data); err != nil {
			return recreated, fmt.Errorf("write %s: %w", name, err)
		}
	}
	return recreated, nil
}

// WriteSceneTable stores the flattened scene. It sizes the buffer exactly.
func (m *BufferManager) WriteSceneTable(data []byte, count int) error {
	if _, err := m.ensureBuffer("SceneSB", &m.SceneBuf, data, wgpu.BufferUsageStorage, 0); err != nil {
		return err
	}
	m.SceneCount = count
	return nil
}

// WriteParticles copies the live prefix into the capacity-sized buffer.
func (m *BufferManager) WriteParticles(data []byte, count int) error {
	if count < 0 || count > core.MaxParticles || len(data) > core.ParticleBufferSize {
		return fmt.Errorf("%w: %d", core.ErrUnsupportedParticleCount, count)
	}
	if len(data) > 0 {
		if err := m.Device.GetQueue().WriteBuffer(m.ParticlesBuf, 0, data); err != nil {
			return fmt.Errorf("write particles: %w", err)
		}
	}
	m.ParticleCount = count
	return nil
}

// UpdateFrame uploads the per-frame uniforms and the per-draw arrays.
func (m *BufferManager) UpdateFrame(f *core.Frame) error {
	q := m.Device.GetQueue()
	if err := q.WriteBuffer(m.CameraBuf, 0, f.Camera.Bytes()); err != nil {
		return fmt.Errorf("write camera: %w", err)
	}
	if f.Lights != nil {
		if err := q.WriteBuffer(m.LightsBuf, 0, f.Lights.Bytes()); err != nil {
			return fmt.Errorf("write lights: %w", err)
		}
	}
	if err := q.WriteBuffer(m.ParamsBuf, 0, f.Params.Bytes()); err != nil {
		return fmt.Errorf("write params: %w", err)
	}
	if len(f.Draws) == 0 {
		return nil
	}
	if _, err := m.ensureBuffer("ModelsSB", &m.ModelsBuf, f.ModelsBytes(), wgpu.BufferUsageStorage, 64*drawHeadroom); err != nil {
		return err
	}
	if _, err := m.ensureBuffer("MaterialsSB", &m.MaterialsBuf, f.MaterialsBytes(), wgpu.BufferUsageStorage, core.PhongMaterialSize*drawHeadroom); err != nil {
		return err
	}
	return nil
}

// BindGroup returns the group 0 bind group, rebuilding it after buffer changes.
func (m *BufferManager) BindGroup() (*wgpu.BindGroup, error) {
	if !m.dirty && m.bindGroup0 != nil {
		return m.bindGroup0, nil
	}
	if m.bindGroup0 != nil {
		m.bindGroup0.Release()
		m.bindGroup0 = nil
	}
	bg, err := m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "SceneBG0",
		Layout: m.Layouts.Group0,
		Entries: []wgpu.BindGroupEntry{
			{Binding: core.BindingCamera, Buffer: m.CameraBuf, Size: wgpu.WholeSize},
			{Binding: core.BindingLights, Buffer: m.LightsBuf, Size: wgpu.WholeSize},
			{Binding: core.BindingModels, Buffer: m.ModelsBuf, Size: wgpu.WholeSize},
			{Binding: core.BindingMaterials, Buffer: m.MaterialsBuf, Size: wgpu.WholeSize},
			{Binding: core.BindingScene, Buffer: m.SceneBuf, Size: wgpu.WholeSize},
			{Binding: core.BindingParams, Buffer: m.ParamsBuf, Size: wgpu.WholeSize},
			{Binding: core.BindingParticles, Buffer: m.ParticlesBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create scene bind group: %w", err)
	}
	m.bindGroup0 = bg
	m.dirty = false
	return bg, nil
}

func (m *BufferManager) Release() {
	for _, b := range []**wgpu.Buffer{&m.CameraBuf, &m.LightsBuf, &m.ModelsBuf, &m.MaterialsBuf, &m.SceneBuf, &m.ParamsBuf, &m.ParticlesBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
	if m.bindGroup0 != nil {
		m.bindGroup0.Release()
		m.bindGroup0 = nil
	}
}
