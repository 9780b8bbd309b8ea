package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Background is returned for rays that miss every sphere.
var Background = mgl32.Vec3{0.1, 0.12, 0.18}

const (
	traceFar         = 1e6
	MaxShadowSamples = 128
)

// TraceParams are the per-frame knobs of the ray-trace pass.
type TraceParams struct {
	Iterations       int
	ShadowSamples    int
	LightRadius      float32
	AmbientOcclusion bool
}

// Tracer evaluates the ray-trace pass on the CPU. raytrace.wgsl implements the
// same steps. A Tracer is read-only after construction and safe for concurrent use.
type Tracer struct {
	spheres   []Sphere
	materials []Material
	lights    *LightSet
}

func NewTracer(scene *Scene, lights *LightSet) *Tracer {
	if lights == nil {
		lights = &LightSet{}
	}
	t := &Tracer{lights: lights}
	for i := 0; i < scene.Len(); i++ {
		t.spheres = append(t.spheres, scene.Sphere(i))
		t.materials = append(t.materials, scene.Material(i))
	}
	return t
}

// Trace returns the pixel color for r and whether any sphere was hit.
func (t *Tracer) Trace(r Ray, p TraceParams) (mgl32.Vec3, bool) {
	hit, ok := Closest(r, t.spheres, traceFar)
	if !ok {
		return Background, false
	}
	color := t.shade(r, hit, p)
	if p.Iterations <= 1 {
		return color, true
	}

	throughput := mgl32.Vec3{1, 1, 1}
	for bounce := 1; bounce < p.Iterations; bounce++ {
		m := t.materials[hit.Index]
		cosI := max(0, -r.Dir.Dot(hit.Normal))
		throughput = mulVec(throughput, Schlick(m.F0, cosI))
		if maxComponent(throughput) < 1e-4 {
			break
		}
		r = Ray{Origin: hit.Point.Add(hit.Normal.Mul(hitEpsilon)), Dir: reflect(r.Dir, hit.Normal)}
		hit, ok = Closest(r, t.spheres, traceFar)
		if !ok {
			color = color.Add(mulVec(throughput, Background))
			break
		}
		color = color.Add(mulVec(throughput, t.shade(r, hit, p)))
	}
	return color, true
}

// Shade is the direct lighting at a hit with no reflections.
func (t *Tracer) Shade(r Ray, hit Hit, p TraceParams) mgl32.Vec3 {
	return t.shade(r, hit, p)
}

func (t *Tracer) shade(r Ray, hit Hit, p TraceParams) mgl32.Vec3 {
	m := t.materials[hit.Index]
	n := hit.Normal
	v := r.Dir.Mul(-1).Normalize()
	shininess := m.Shininess()

	ao := float32(1)
	if p.AmbientOcclusion {
		ao = t.occlusion(hit)
	}
	color := mulVec(t.lights.GlobalAmbient, m.Albedo).Mul(ao)

	for _, l := range t.lights.Lights {
		toLight := l.Position.Sub(hit.Point)
		dist := toLight.Len()
		ldir := toLight.Mul(1 / dist)
		att := l.AttenuationAt(dist)

		vis := t.visibility(hit, l.Position, p)
		diff := max(0, n.Dot(ldir))
		h := ldir.Add(v).Normalize()
		spec := float32(0)
		if diff > 0 {
			spec = math32.Pow(max(0, n.Dot(h)), shininess)
		}
		c := mulVec(l.Ambient, m.Albedo).
			Add(mulVec(l.Diffuse, m.Albedo).Mul(diff * vis)).
			Add(l.Specular.Mul(spec * vis))
		color = color.Add(c.Mul(att))
	}
	return color
}

// visibility is the unoccluded fraction of the spherical light. A zero radius or
// a single sample falls back to one hard shadow ray.
func (t *Tracer) visibility(hit Hit, light mgl32.Vec3, p TraceParams) float32 {
	origin := hit.Point.Add(hit.Normal.Mul(hitEpsilon))
	n := clampSamples(p.ShadowSamples)
	if p.LightRadius <= 0 || n == 1 {
		return t.shadowRay(origin, light)
	}
	lit := float32(0)
	for i := 0; i < n; i++ {
		s := fibonacciPoint(i, n)
		lit += t.shadowRay(origin, light.Add(s.Mul(p.LightRadius)))
	}
	return lit / float32(n)
}

func (t *Tracer) shadowRay(origin, target mgl32.Vec3) float32 {
	d := target.Sub(origin)
	dist := d.Len()
	if dist == 0 {
		return 1
	}
	if Occluded(Ray{Origin: origin, Dir: d.Mul(1 / dist)}, t.spheres, dist) {
		return 0
	}
	return 1
}

func (t *Tracer) occlusion(hit Hit) float32 {
	return Occlusion(hit.Point, hit.Normal, t.spheres)
}

// Occlusion is the fraction of the AO kernel around n that escapes the spheres
// within AORadius. The lit raster program runs the same test.
func Occlusion(p, n mgl32.Vec3, spheres []Sphere) float32 {
	origin := p.Add(n.Mul(hitEpsilon))
	open := 0
	for _, s := range AOKernel {
		dir := OrientToNormal(s, n)
		if !Occluded(Ray{Origin: origin, Dir: dir}, spheres, AORadius) {
			open++
		}
	}
	return float32(open) / float32(len(AOKernel))
}

func clampSamples(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxShadowSamples {
		return MaxShadowSamples
	}
	return n
}

// Schlick is the Fresnel reflectance for base reflectance f0 at incidence cosI.
func Schlick(f0 mgl32.Vec3, cosI float32) mgl32.Vec3 {
	k := math32.Pow(1-mgl32.Clamp(cosI, 0, 1), 5)
	return mgl32.Vec3{
		f0[0] + (1-f0[0])*k,
		f0[1] + (1-f0[1])*k,
		f0[2] + (1-f0[2])*k,
	}
}

func reflect(d, n mgl32.Vec3) mgl32.Vec3 {
	return d.Sub(n.Mul(2 * d.Dot(n)))
}

func mulVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func maxComponent(v mgl32.Vec3) float32 {
	return max(v[0], v[1], v[2])
}
