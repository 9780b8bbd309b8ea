package core

import "github.com/go-gl/mathgl/mgl32"

// Material is the per-sphere PBR description stored in the scene table.
type Material struct {
	Albedo    mgl32.Vec3
	F0        mgl32.Vec3
	Roughness float32
}

func NewMaterial(albedo, f0 mgl32.Vec3, roughness float32) Material {
	return Material{
		Albedo:    albedo,
		F0:        f0,
		Roughness: roughness,
	}
}

var (
	SnowMaterial   = NewMaterial(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0.04, 0.04, 0.04}, 1.0)
	CoalMaterial   = NewMaterial(mgl32.Vec3{0.1, 0.1, 0.1}, mgl32.Vec3{0.004, 0.004, 0.004}, 1.0)
	CarrotMaterial = NewMaterial(mgl32.Vec3{235.0 / 255.0, 137.0 / 255.0, 33.0 / 255.0}, mgl32.Vec3{0.04, 0.04, 0.04}, 1.0)
)

// Shininess converts roughness into a Blinn-Phong exponent. Fully rough surfaces get 1.
func (m Material) Shininess() float32 {
	r2 := m.Roughness * m.Roughness
	if r2 < 0.001 {
		r2 = 0.001
	}
	s := 2.0/r2 - 2.0
	if s < 1 {
		s = 1
	}
	return s
}

// PhongMaterial is what the lit/unlit raster programs consume.
type PhongMaterial struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
	Alpha     float32
}

var (
	WhitePhong = PhongMaterial{Ambient: mgl32.Vec3{1, 1, 1}, Diffuse: mgl32.Vec3{1, 1, 1}, Specular: mgl32.Vec3{0.1, 0.1, 0.1}, Shininess: 2, Alpha: 1}
	BlackPhong = PhongMaterial{Ambient: mgl32.Vec3{0.1, 0.1, 0.1}, Diffuse: mgl32.Vec3{0.1, 0.1, 0.1}, Specular: mgl32.Vec3{0.1, 0.1, 0.1}, Shininess: 2, Alpha: 1}
	RedPhong   = PhongMaterial{Ambient: mgl32.Vec3{1, 0, 0}, Diffuse: mgl32.Vec3{1, 0, 0}, Specular: mgl32.Vec3{0.1, 0.1, 0.1}, Shininess: 2, Alpha: 1}
)

// Index ranges used by the raster path to pick a Phong material.
const (
	RasterWhiteCount = 5
	RasterBlackCount = 5
)

// RasterMaterial picks the Phong material for sphere i by index range only.
// The lit raster program has no PBR inputs, so it ignores the scene material table:
// the first five spheres are white, the next five black, the rest red.
func RasterMaterial(i int) PhongMaterial {
	switch {
	case i < RasterWhiteCount:
		return WhitePhong
	case i < RasterWhiteCount+RasterBlackCount:
		return BlackPhong
	default:
		return RedPhong
	}
}

// PhongMaterialSize is the std430 stride of one material record.
const PhongMaterialSize = 48

// Bytes packs {ambient, alpha} {diffuse, 0} {specular, shininess}.
func (m PhongMaterial) Bytes() []byte {
	buf := make([]byte, PhongMaterialSize)
	putVec3(buf, 0, m.Ambient, m.Alpha)
	putVec3(buf, 16, m.Diffuse, 0)
	putVec3(buf, 32, m.Specular, m.Shininess)
	return buf
}
