package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera circles a target point. Angles are in radians.
type OrbitCamera struct {
	Target    mgl32.Vec3
	Azimuth   float32
	Elevation float32
	Distance  float32

	FovY   float32
	Aspect float32
	Near   float32
	Far    float32

	Sensitivity float32
	ZoomSpeed   float32
}

func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Azimuth:     mgl32.DegToRad(-45),
		Elevation:   mgl32.DegToRad(20),
		Distance:    25,
		FovY:        mgl32.DegToRad(45),
		Aspect:      1,
		Near:        1,
		Far:         1000,
		Sensitivity: 0.005,
		ZoomSpeed:   1.0,
	}
}

const (
	maxElevation = 1.5
	minDistance  = 2.0
	maxDistance  = 200.0
)

func (c *OrbitCamera) Eye() mgl32.Vec3 {
	ce := math32.Cos(c.Elevation)
	offset := mgl32.Vec3{
		c.Distance * ce * math32.Sin(c.Azimuth),
		c.Distance * math32.Sin(c.Elevation),
		c.Distance * ce * math32.Cos(c.Azimuth),
	}
	return c.Target.Add(offset)
}

func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix is the GL-convention perspective (depth in [-1,1]).
func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// Orbit rotates by a mouse delta in pixels.
func (c *OrbitCamera) Orbit(dx, dy float32) {
	c.Azimuth -= dx * c.Sensitivity
	c.Elevation += dy * c.Sensitivity
	c.Elevation = mgl32.Clamp(c.Elevation, -maxElevation, maxElevation)
}

// Zoom moves toward the target for positive steps.
func (c *OrbitCamera) Zoom(steps float32) {
	c.Distance *= math32.Pow(0.9, steps*c.ZoomSpeed)
	c.Distance = mgl32.Clamp(c.Distance, minDistance, maxDistance)
}

// SetViewport updates the aspect. Non-positive sizes are ignored.
func (c *OrbitCamera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// WebGPUClip maps GL clip depth [-w,w] to WebGPU's [0,w].
var WebGPUClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// CameraData is the uniform block bound at BindingCamera.
type CameraData struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	ViewInv    mgl32.Mat4
	ProjInv    mgl32.Mat4
	Eye        mgl32.Vec3
}

// CameraDataSize is four mat4x4 plus a vec4 eye.
const CameraDataSize = 4*64 + 16

func (c *OrbitCamera) Data() CameraData {
	view := c.ViewMatrix()
	proj := c.ProjectionMatrix()
	return CameraData{
		View:       view,
		Projection: proj,
		ViewInv:    view.Inv(),
		ProjInv:    proj.Inv(),
		Eye:        c.Eye(),
	}
}

// Bytes packs the block for the GPU. The projection written out has WebGPUClip
// applied; the inverse stays in GL convention since rays are rebuilt from NDC
// with z=1, which is the far plane in both conventions.
func (d CameraData) Bytes() []byte {
	buf := make([]byte, CameraDataSize)
	putMat4(buf, 0, d.View)
	putMat4(buf, 64, WebGPUClip.Mul4(d.Projection))
	putMat4(buf, 128, d.ViewInv)
	putMat4(buf, 192, d.ProjInv)
	putVec3(buf, 256, d.Eye, 1)
	return buf
}

// PrimaryRay rebuilds the world-space ray through NDC point (x, y) in [-1,1],
// +y up. It mirrors the ray setup in raytrace.wgsl.
func (d CameraData) PrimaryRay(ndcX, ndcY float32) Ray {
	far := d.ProjInv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	dirView := far.Vec3().Mul(1 / far[3])
	dirWorld := d.ViewInv.Mul4x1(dirView.Vec4(0)).Vec3().Normalize()
	return Ray{Origin: d.Eye, Dir: dirWorld}
}

// PixelNDC returns the NDC position of the center of pixel (px, py), with py
// counted from the top row.
func PixelNDC(px, py, width, height int) (float32, float32) {
	x := (float32(px)+0.5)/float32(width)*2 - 1
	y := 1 - (float32(py)+0.5)/float32(height)*2
	return x, y
}
