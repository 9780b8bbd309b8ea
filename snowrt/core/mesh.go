package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex layout of every raster mesh: position xyz, normal xyz.
const VertexStride = 24

type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) * 4 / VertexStride }
func (m *Mesh) IndexCount() int  { return len(m.Indices) }

func (m *Mesh) Position(i int) mgl32.Vec3 {
	o := i * VertexStride / 4
	return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

func (m *Mesh) Normal(i int) mgl32.Vec3 {
	o := i*VertexStride/4 + 3
	return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

func (m *Mesh) add(p, n mgl32.Vec3) {
	m.Vertices = append(m.Vertices, p[0], p[1], p[2], n[0], n[1], n[2])
}

// UnitSphere builds a UV sphere of radius 1.
func UnitSphere(slices, stacks int) *Mesh {
	slices = max(slices, 3)
	stacks = max(stacks, 2)
	m := &Mesh{}
	for j := 0; j <= stacks; j++ {
		theta := math32.Pi * float32(j) / float32(stacks)
		st, ct := math32.Sincos(theta)
		for i := 0; i <= slices; i++ {
			phi := 2 * math32.Pi * float32(i) / float32(slices)
			sp, cp := math32.Sincos(phi)
			p := mgl32.Vec3{st * cp, ct, st * sp}
			m.add(p, p)
		}
	}
	row := uint32(slices + 1)
	for j := 0; j < stacks; j++ {
		for i := 0; i < slices; i++ {
			a := uint32(j)*row + uint32(i)
			b := a + row
			m.Indices = append(m.Indices, a, a+1, b, b, a+1, b+1)
		}
	}
	return m
}

// UnitCube builds the [-1,1] cube with flat face normals.
func UnitCube() *Mesh {
	m := &Mesh{}
	faces := []struct{ n, u, v mgl32.Vec3 }{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	for fi, f := range faces {
		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			p := f.n.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			m.add(p, f.n)
		}
		base := uint32(fi * 4)
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}
