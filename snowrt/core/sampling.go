package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const goldenAngle = 2.39996323

// FibonacciSphere spreads n unit vectors evenly over the sphere. The set depends
// only on n, so shadows are stable from frame to frame.
func FibonacciSphere(n int) []mgl32.Vec3 {
	if n <= 0 {
		return nil
	}
	out := make([]mgl32.Vec3, n)
	for i := 0; i < n; i++ {
		out[i] = fibonacciPoint(i, n)
	}
	return out
}

func fibonacciPoint(i, n int) mgl32.Vec3 {
	y := 1 - (float32(i)+0.5)/float32(n)*2
	r := math32.Sqrt(max(0, 1-y*y))
	phi := goldenAngle * float32(i)
	return mgl32.Vec3{r * math32.Cos(phi), y, r * math32.Sin(phi)}
}

// AOSampleCount is the size of the fixed ambient occlusion kernel.
const AOSampleCount = 8

// AORadius bounds the occlusion query distance.
const AORadius = 1.0

// AOKernel is the fixed upper-hemisphere kernel (+Y) shared with raytrace.wgsl.
var AOKernel = hemisphereKernel(AOSampleCount)

func hemisphereKernel(n int) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, n)
	for i := 0; i < n; i++ {
		// upper half of a 2n-point Fibonacci sphere
		out[i] = fibonacciPoint(i, 2*n)
	}
	return out
}

// OrientToNormal rotates a +Y hemisphere sample into the frame of n.
func OrientToNormal(sample, n mgl32.Vec3) mgl32.Vec3 {
	up := mgl32.Vec3{0, 0, 1}
	if math32.Abs(n[2]) > 0.999 {
		up = mgl32.Vec3{1, 0, 0}
	}
	t := up.Cross(n).Normalize()
	b := n.Cross(t)
	return t.Mul(sample[0]).Add(n.Mul(sample[1])).Add(b.Mul(sample[2]))
}
