package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Hit describes the closest intersection found along a ray.
type Hit struct {
	T      float32
	Index  int
	Point  mgl32.Vec3
	Normal mgl32.Vec3
}

// hitEpsilon rejects self-intersections of secondary rays.
const hitEpsilon = 1e-3

// IntersectSphere returns the smallest t > hitEpsilon where r meets s.
// Dir does not need to be normalized.
func IntersectSphere(r Ray, s Sphere) (float32, bool) {
	oc := r.Origin.Sub(s.Center)
	a := r.Dir.Dot(r.Dir)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - a*c
	if disc < 0 || a == 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	t := (-b - sq) / a
	if t > hitEpsilon {
		return t, true
	}
	t = (-b + sq) / a
	if t > hitEpsilon {
		return t, true
	}
	return 0, false
}

// Closest scans every sphere and keeps the nearest positive hit.
func Closest(r Ray, spheres []Sphere, maxT float32) (Hit, bool) {
	best := Hit{T: maxT, Index: -1}
	for i, s := range spheres {
		t, ok := IntersectSphere(r, s)
		if ok && t < best.T {
			best.T = t
			best.Index = i
		}
	}
	if best.Index < 0 {
		return best, false
	}
	best.Point = r.At(best.T)
	best.Normal = best.Point.Sub(spheres[best.Index].Center).Normalize()
	return best, true
}

// Occluded reports whether any sphere blocks r before maxT.
func Occluded(r Ray, spheres []Sphere, maxT float32) bool {
	for _, s := range spheres {
		if t, ok := IntersectSphere(r, s); ok && t < maxT {
			return true
		}
	}
	return false
}
