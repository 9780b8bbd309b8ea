package core

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Bind group 0 slots. Every WGSL program declares the same table (see common.wgsl),
// so the raster and ray-trace paths agree on where each block lives.
const (
	BindingCamera    = 0
	BindingLights    = 1
	BindingModels    = 2
	BindingMaterials = 3
	BindingScene     = 4
	BindingParams    = 5
	BindingParticles = 6
)

// Bind group 1 slots (sprite / text atlas).
const (
	BindingTexture = 0
	BindingSampler = 1
)

func putF32(buf []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
}

func putU32(buf []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(buf[offset:], v)
}

func putMat4(buf []byte, offset int, m mgl32.Mat4) {
	for i, v := range m {
		putF32(buf, offset+i*4, v)
	}
}

// putVec3 writes xyz followed by w, which fills the std140 padding slot.
func putVec3(buf []byte, offset int, v mgl32.Vec3, w float32) {
	putF32(buf, offset, v[0])
	putF32(buf, offset+4, v[1])
	putF32(buf, offset+8, v[2])
	putF32(buf, offset+12, w)
}

func getF32(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func getVec3(buf []byte, offset int) mgl32.Vec3 {
	return mgl32.Vec3{getF32(buf, offset), getF32(buf, offset+4), getF32(buf, offset+8)}
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
