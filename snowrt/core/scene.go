package core

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrSceneUploaded       = errors.New("scene already uploaded")
	ErrMismatchedMaterials = errors.New("sphere and material counts differ")
)

// Sphere is an implicit sphere of the snowman.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

func (s Sphere) Vec4() mgl32.Vec4 {
	return s.Center.Vec4(s.Radius)
}

// Capabilities select which snowman revision is built and which render paths are offered.
type Capabilities struct {
	Raytracing bool `toml:"raytracing"`
	Carrot     bool `toml:"carrot"`
}

func FullCapabilities() Capabilities {
	return Capabilities{Raytracing: true, Carrot: true}
}

// SceneBuffer receives the flattened scene table. The GPU backend implements it.
type SceneBuffer interface {
	WriteSceneTable(data []byte, count int) error
}

// Scene is the sphere list plus its parallel material table. It never changes after
// construction and is pushed to the GPU once.
type Scene struct {
	spheres   []Sphere
	materials []Material
	uploaded  bool
}

func NewScene(spheres []Sphere, materials []Material) (*Scene, error) {
	if len(spheres) != len(materials) {
		return nil, fmt.Errorf("%w: %d spheres, %d materials", ErrMismatchedMaterials, len(spheres), len(materials))
	}
	s := &Scene{
		spheres:   make([]Sphere, len(spheres)),
		materials: make([]Material, len(materials)),
	}
	copy(s.spheres, spheres)
	copy(s.materials, materials)
	return s, nil
}

// NewSnowmanScene assembles the snowman from its hard-coded parts.
func NewSnowmanScene(caps Capabilities) *Scene {
	spheres := []Sphere{
		// Body
		{Center: mgl32.Vec3{0, 1.2, 0}, Radius: 1.5},
		{Center: mgl32.Vec3{0, 3.5, 0}, Radius: 1.0},
		{Center: mgl32.Vec3{0, 4.9, 0}, Radius: 0.7},
		// Hands
		{Center: mgl32.Vec3{1.0, 3.6, 0}, Radius: 0.5},
		{Center: mgl32.Vec3{-1.0, 3.6, 0}, Radius: 0.5},
		// Eyes
		{Center: mgl32.Vec3{0.25, 5.2, 0.55}, Radius: 0.1},
		{Center: mgl32.Vec3{-0.25, 5.2, 0.55}, Radius: 0.1},
		// Coal buttons
		{Center: mgl32.Vec3{0, 3.9, 0.9}, Radius: 0.1},
		{Center: mgl32.Vec3{0, 3.5, 1.0}, Radius: 0.1},
		{Center: mgl32.Vec3{0, 3.1, 0.9}, Radius: 0.1},
	}
	materials := []Material{
		SnowMaterial, SnowMaterial, SnowMaterial, SnowMaterial, SnowMaterial,
		CoalMaterial, CoalMaterial, CoalMaterial, CoalMaterial, CoalMaterial,
	}
	if caps.Carrot {
		spheres = append(spheres,
			Sphere{Center: mgl32.Vec3{0, 5.0, 0.7}, Radius: 0.15},
			Sphere{Center: mgl32.Vec3{0, 5.0, 0.85}, Radius: 0.12},
			Sphere{Center: mgl32.Vec3{0, 5.0, 1.0}, Radius: 0.08},
		)
		materials = append(materials, CarrotMaterial, CarrotMaterial, CarrotMaterial)
	}
	// lengths match by construction
	s, _ := NewScene(spheres, materials)
	return s
}

func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return len(s.spheres)
}

func (s *Scene) Sphere(i int) Sphere     { return s.spheres[i] }
func (s *Scene) Material(i int) Material { return s.materials[i] }

// Spheres returns a copy of the sphere list.
func (s *Scene) Spheres() []Sphere {
	out := make([]Sphere, len(s.spheres))
	copy(out, s.spheres)
	return out
}

// Bounds returns the AABB of all spheres. An empty scene reports zero bounds.
func (s *Scene) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if s.Len() == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	inf := float32(1e20)
	minB := mgl32.Vec3{inf, inf, inf}
	maxB := mgl32.Vec3{-inf, -inf, -inf}
	for _, sp := range s.spheres {
		r := mgl32.Vec3{sp.Radius, sp.Radius, sp.Radius}
		lo := sp.Center.Sub(r)
		hi := sp.Center.Add(r)
		for k := 0; k < 3; k++ {
			minB[k] = min(minB[k], lo[k])
			maxB[k] = max(maxB[k], hi[k])
		}
	}
	return minB, maxB
}

// SceneRecordSize is the stride of one {sphere, albedo+roughness, f0} record.
const SceneRecordSize = 48

// Bytes flattens the scene into interleaved sphere/material records.
func (s *Scene) Bytes() []byte {
	buf := make([]byte, SceneRecordSize*s.Len())
	for i, sp := range s.spheres {
		m := s.materials[i]
		off := i * SceneRecordSize
		putVec3(buf, off, sp.Center, sp.Radius)
		putVec3(buf, off+16, m.Albedo, m.Roughness)
		putVec3(buf, off+32, m.F0, 0)
	}
	return buf
}

// Upload pushes the whole table to dst. It succeeds once; later calls return
// ErrSceneUploaded without touching dst.
func (s *Scene) Upload(dst SceneBuffer) error {
	if s.uploaded {
		return ErrSceneUploaded
	}
	if err := dst.WriteSceneTable(s.Bytes(), s.Len()); err != nil {
		return fmt.Errorf("upload scene table: %w", err)
	}
	s.uploaded = true
	return nil
}

func (s *Scene) Uploaded() bool { return s.uploaded }

// DecodeSceneTable reads count records written by Bytes back into a Scene.
func DecodeSceneTable(data []byte, count int) (*Scene, error) {
	if count < 0 || len(data) < count*SceneRecordSize {
		return nil, fmt.Errorf("scene table: %d bytes for %d records", len(data), count)
	}
	spheres := make([]Sphere, count)
	materials := make([]Material, count)
	for i := 0; i < count; i++ {
		off := i * SceneRecordSize
		spheres[i] = Sphere{Center: getVec3(data, off), Radius: getF32(data, off+12)}
		materials[i] = Material{
			Albedo:    getVec3(data, off+16),
			Roughness: getF32(data, off+28),
			F0:        getVec3(data, off+32),
		}
	}
	return NewScene(spheres, materials)
}
