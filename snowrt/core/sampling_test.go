package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFibonacciSphereUnit(t *testing.T) {
	pts := FibonacciSphere(32)
	assert.Len(t, pts, 32)
	sum := mgl32.Vec3{}
	for _, p := range pts {
		assert.InDelta(t, 1.0, p.Len(), 1e-5)
		sum = sum.Add(p)
	}
	assert.Less(t, sum.Len(), float32(1))
	assert.Nil(t, FibonacciSphere(0))
}

func TestAOKernelUpperHemisphere(t *testing.T) {
	assert.Len(t, AOKernel, AOSampleCount)
	for _, s := range AOKernel {
		assert.Greater(t, s[1], float32(0))
	}
}

func TestOrientToNormal(t *testing.T) {
	n := mgl32.Vec3{1, 0, 0}
	for _, s := range AOKernel {
		d := OrientToNormal(s, n)
		assert.InDelta(t, s[1], d.Dot(n), 1e-5)
		assert.InDelta(t, 1.0, d.Len(), 1e-5)
	}
}
