package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/snowman/snowrt/core"
)

// MeshBuffers is a core.Mesh resident on the device.
type MeshBuffers struct {
	Vertex     *wgpu.Buffer
	Index      *wgpu.Buffer
	IndexCount uint32
}

func UploadMesh(device *wgpu.Device, label string, m *core.Mesh) (*MeshBuffers, error) {
	vdata := make([]byte, len(m.Vertices)*4)
	for i, v := range m.Vertices {
		binary.LittleEndian.PutUint32(vdata[i*4:], math.Float32bits(v))
	}
	idata := make([]byte, len(m.Indices)*4)
	for i, v := range m.Indices {
		binary.LittleEndian.PutUint32(idata[i*4:], v)
	}

	vb, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " VB",
		Size:  align4(uint64(len(vdata))),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s vertices: %w", label, err)
	}
	ib, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " IB",
		Size:  align4(uint64(len(idata))),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("create %s indices: %w", label, err)
	}
	q := device.GetQueue()
	if err := q.WriteBuffer(vb, 0, vdata); err != nil {
		return nil, fmt.Errorf("write %s vertices: %w", label, err)
	}
	if err := q.WriteBuffer(ib, 0, idata); err != nil {
		return nil, fmt.Errorf("write %s indices: %w", label, err)
	}
	return &MeshBuffers{Vertex: vb, Index: ib, IndexCount: uint32(len(m.Indices))}, nil
}

// DrawInstance issues one indexed draw whose instance index selects the
// model/material slot.
func (mb *MeshBuffers) DrawInstance(pass *wgpu.RenderPassEncoder, slot uint32) {
	pass.SetVertexBuffer(0, mb.Vertex, 0, mb.Vertex.GetSize())
	pass.SetIndexBuffer(mb.Index, wgpu.IndexFormatUint32, 0, mb.Index.GetSize())
	pass.DrawIndexed(mb.IndexCount, 1, 0, 0, slot)
}

func (mb *MeshBuffers) Release() {
	if mb.Vertex != nil {
		mb.Vertex.Release()
	}
	if mb.Index != nil {
		mb.Index.Release()
	}
}
