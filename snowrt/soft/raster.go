package soft

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/snowman/snowrt/core"
)

// clipVertex carries a clip-space position plus the world-space attributes the
// lit program interpolates.
type clipVertex struct {
	clip   mgl32.Vec4
	world  mgl32.Vec3
	normal mgl32.Vec3
}

type screenVertex struct {
	x, y, z float32
	invW    float32
	world   mgl32.Vec3 // premultiplied by invW
	normal  mgl32.Vec3 // premultiplied by invW
}

type triangle [3]screenVertex

func (r *Renderer) raster(f *core.Frame, lights *core.LightSet) error {
	vp := f.Camera.Projection.Mul4(f.Camera.View)
	spheres := r.scene.Spheres()

	type prepared struct {
		cmd  core.DrawCommand
		tris []triangle
	}
	draws := make([]prepared, 0, len(f.Draws))
	for _, d := range f.Draws {
		mesh := r.sphere
		if d.Mesh == core.MeshCube {
			mesh = r.cube
		}
		draws = append(draws, prepared{cmd: d, tris: r.setup(mesh, d.Model, vp)})
	}

	return r.rows(func(y0, y1 int) {
		for _, p := range draws {
			for i := range p.tris {
				r.fill(&p.tris[i], y0, y1, func(idx int, world, normal mgl32.Vec3) {
					r.coverage[idx] = r.coverage[idx] || p.cmd.SphereIndex >= 0
				}, func(idx int, world, normal mgl32.Vec3) {
					r.color[idx] = shadeFragment(f, lights, p.cmd, spheres, world, normal)
				})
			}
		}
	})
}

func shadeFragment(f *core.Frame, lights *core.LightSet, cmd core.DrawCommand, spheres []core.Sphere, world, normal mgl32.Vec3) mgl32.Vec3 {
	if cmd.Program == core.ProgramUnlit {
		return cmd.Material.Diffuse
	}
	n := normal.Normalize()
	ao := float32(1)
	if f.Params.AmbientOcclusion {
		ao = core.Occlusion(world, n, spheres)
	}
	return lights.ShadePhong(cmd.Material, world, n, f.Camera.Eye, ao)
}

// setup transforms a mesh, clips it against the near plane and projects it to
// pixel space.
func (r *Renderer) setup(m *core.Mesh, model, vp mgl32.Mat4) []triangle {
	mvp := vp.Mul4(model)
	normalMat := model.Inv().Transpose().Mat3()
	verts := make([]clipVertex, m.VertexCount())
	for i := range verts {
		p := m.Position(i)
		verts[i] = clipVertex{
			clip:   mvp.Mul4x1(p.Vec4(1)),
			world:  model.Mul4x1(p.Vec4(1)).Vec3(),
			normal: normalMat.Mul3x1(m.Normal(i)),
		}
	}

	out := make([]triangle, 0, m.IndexCount()/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		poly := clipNear([]clipVertex{verts[m.Indices[i]], verts[m.Indices[i+1]], verts[m.Indices[i+2]]})
		for k := 1; k+1 < len(poly); k++ {
			out = append(out, triangle{
				r.project(poly[0]), r.project(poly[k]), r.project(poly[k+1]),
			})
		}
	}
	return out
}

// clipNear keeps the part of the polygon with z >= -w.
func clipNear(in []clipVertex) []clipVertex {
	dist := func(v clipVertex) float32 { return v.clip[2] + v.clip[3] }
	out := make([]clipVertex, 0, 4)
	for i := range in {
		a, b := in[i], in[(i+1)%len(in)]
		da, db := dist(a), dist(b)
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			out = append(out, clipVertex{
				clip:   a.clip.Add(b.clip.Sub(a.clip).Mul(t)),
				world:  a.world.Add(b.world.Sub(a.world).Mul(t)),
				normal: a.normal.Add(b.normal.Sub(a.normal).Mul(t)),
			})
		}
	}
	return out
}

func (r *Renderer) project(v clipVertex) screenVertex {
	invW := 1 / v.clip[3]
	return screenVertex{
		x:      (v.clip[0]*invW*0.5 + 0.5) * float32(r.width),
		y:      (0.5 - v.clip[1]*invW*0.5) * float32(r.height),
		z:      v.clip[2]*invW*0.5 + 0.5,
		invW:   invW,
		world:  v.world.Mul(invW),
		normal: v.normal.Mul(invW),
	}
}

// fill scan-converts t inside rows [y0, y1). cover runs for every sample the
// triangle touches, shade only for samples that pass the depth test.
func (r *Renderer) fill(t *triangle, y0, y1 int, cover, shade func(idx int, world, normal mgl32.Vec3)) {
	a, b, c := t[0], t[1], t[2]
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}
	minX := max(0, int(min(a.x, b.x, c.x)))
	maxX := min(r.width-1, int(max(a.x, b.x, c.x)))
	minY := max(y0, int(min(a.y, b.y, c.y)))
	maxY := min(y1-1, int(max(a.y, b.y, c.y)))

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(b, c, px, py) / area
			w1 := edge(c, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*c.z
			if z < 0 || z > 1 {
				continue
			}
			invW := w0*a.invW + w1*b.invW + w2*c.invW
			world := a.world.Mul(w0).Add(b.world.Mul(w1)).Add(c.world.Mul(w2)).Mul(1 / invW)
			normal := a.normal.Mul(w0).Add(b.normal.Mul(w1)).Add(c.normal.Mul(w2)).Mul(1 / invW)

			idx := y*r.width + x
			cover(idx, world, normal)
			if z >= r.depth[idx] {
				continue
			}
			r.depth[idx] = z
			shade(idx, world, normal)
		}
	}
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}
