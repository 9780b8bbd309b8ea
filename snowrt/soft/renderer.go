// Package soft renders planned frames on the CPU. It backs the headless
// snapshot tool and lets tests compare the raster and ray-trace strategies
// pixel by pixel.
package soft

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"github.com/gekko3d/snowman/snowrt/core"
)

var ErrNoScene = errors.New("soft: scene table not written")

// Renderer holds a color buffer, a depth buffer and a sphere coverage mask.
type Renderer struct {
	width, height int

	color    []mgl32.Vec3
	depth    []float32
	coverage []bool

	scene     *core.Scene
	particles []mgl32.Vec4

	sphere *core.Mesh
	cube   *core.Mesh

	Workers int
}

func NewRenderer(width, height int) *Renderer {
	r := &Renderer{
		sphere:  core.UnitSphere(48, 24),
		cube:    core.UnitCube(),
		Workers: runtime.NumCPU(),
	}
	r.Resize(width, height)
	return r
}

func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Resize reallocates the targets. Non-positive sizes are ignored.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	n := width * height
	r.color = make([]mgl32.Vec3, n)
	r.depth = make([]float32, n)
	r.coverage = make([]bool, n)
}

func (r *Renderer) WriteSceneTable(data []byte, count int) error {
	s, err := core.DecodeSceneTable(data, count)
	if err != nil {
		return fmt.Errorf("soft: %w", err)
	}
	r.scene = s
	return nil
}

func (r *Renderer) WriteParticles(data []byte, count int) error {
	p, err := core.DecodeParticles(data, count)
	if err != nil {
		return fmt.Errorf("soft: %w", err)
	}
	r.particles = p
	return nil
}

// Draw executes f into the internal targets.
func (r *Renderer) Draw(f *core.Frame) (core.FrameTiming, error) {
	start := time.Now()
	if r.scene == nil {
		return core.FrameTiming{}, ErrNoScene
	}
	lights := f.Lights
	if lights == nil {
		lights = &core.LightSet{}
	}
	r.clear()

	var err error
	switch f.Strategy {
	case core.StrategyRaytrace:
		err = r.raytrace(f, lights)
	default:
		err = r.raster(f, lights)
	}
	if err != nil {
		return core.FrameTiming{}, err
	}
	if f.Snow != nil {
		r.snow(f)
	}
	d := time.Since(start)
	return core.FrameTiming{CPU: d, GPU: d}, nil
}

func (r *Renderer) clear() {
	for i := range r.color {
		r.color[i] = core.Background
		r.depth[i] = 1
		r.coverage[i] = false
	}
}

// rows runs fn over horizontal bands in parallel. Bands never overlap, so fn
// may write its rows without locking.
func (r *Renderer) rows(fn func(y0, y1 int)) error {
	workers := max(1, r.Workers)
	band := max(1, (r.height+workers-1)/workers)
	var g errgroup.Group
	g.SetLimit(workers)
	for y := 0; y < r.height; y += band {
		y0, y1 := y, min(y+band, r.height)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	return g.Wait()
}

func (r *Renderer) raytrace(f *core.Frame, lights *core.LightSet) error {
	tracer := core.NewTracer(r.scene, lights)
	params := f.Params.TraceParams()
	return r.rows(func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < r.width; x++ {
				nx, ny := core.PixelNDC(x, y, r.width, r.height)
				c, hit := tracer.Trace(f.Camera.PrimaryRay(nx, ny), params)
				i := y*r.width + x
				r.color[i] = c
				r.coverage[i] = hit
			}
		}
	})
}

// snow splats additive discs at each particle's projected position.
func (r *Renderer) snow(f *core.Frame) {
	vp := f.Camera.Projection.Mul4(f.Camera.View)
	focal := f.Camera.Projection.At(1, 1) * float32(r.height) / 2
	n := min(f.Snow.Count, len(r.particles))
	for _, p := range r.particles[:n] {
		world := core.FallenPosition(p, f.Params.Time)
		clip := vp.Mul4x1(world.Vec4(1))
		if clip[3] <= 0 {
			continue
		}
		sx := (clip[0]/clip[3]*0.5 + 0.5) * float32(r.width)
		sy := (0.5 - clip[1]/clip[3]*0.5) * float32(r.height)
		rad := max(1, f.Snow.Size*focal/clip[3])
		x0, x1 := int(sx-rad), int(sx+rad)+1
		y0, y1 := int(sy-rad), int(sy+rad)+1
		for y := max(y0, 0); y < min(y1, r.height); y++ {
			for x := max(x0, 0); x < min(x1, r.width); x++ {
				dx, dy := float32(x)+0.5-sx, float32(y)+0.5-sy
				w := 1 - math32.Sqrt(dx*dx+dy*dy)/rad
				if w <= 0 {
					continue
				}
				i := y*r.width + x
				r.color[i] = r.color[i].Add(mgl32.Vec3{w, w, w})
			}
		}
	}
}

// Coverage reports, per pixel in row-major order, whether a sphere was seen.
func (r *Renderer) Coverage() []bool {
	out := make([]bool, len(r.coverage))
	copy(out, r.coverage)
	return out
}

func (r *Renderer) Pixel(x, y int) mgl32.Vec3 {
	return r.color[y*r.width+x]
}

// Image converts the color buffer to 8-bit RGBA, clamping each channel.
func (r *Renderer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			c := r.color[y*r.width+x]
			img.SetRGBA(x, y, color.RGBA{to8(c[0]), to8(c[1]), to8(c[2]), 255})
		}
	}
	return img
}

func to8(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}
