package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PointLight is a Phong point light with constant/linear/quadratic attenuation.
type PointLight struct {
	Position    mgl32.Vec3
	Ambient     mgl32.Vec3
	Diffuse     mgl32.Vec3
	Specular    mgl32.Vec3
	Attenuation mgl32.Vec3
}

func NewPointLight(pos mgl32.Vec3) PointLight {
	return PointLight{
		Position:    pos,
		Ambient:     mgl32.Vec3{0, 0, 0},
		Diffuse:     mgl32.Vec3{1, 1, 1},
		Specular:    mgl32.Vec3{0.1, 0.1, 0.1},
		Attenuation: mgl32.Vec3{1, 0, 0},
	}
}

// AttenuationAt returns 1/(c + l*d + q*d^2).
func (l PointLight) AttenuationAt(d float32) float32 {
	a := l.Attenuation
	den := a[0] + a[1]*d + a[2]*d*d
	if den <= 0 {
		return 1
	}
	return 1 / den
}

// MaxLights is the fixed array length of the lights uniform.
const MaxLights = 8

// LightSet holds the animated lights plus the global ambient term.
type LightSet struct {
	Lights        []PointLight
	GlobalAmbient mgl32.Vec3
}

func NewLightSet() *LightSet {
	ls := &LightSet{
		Lights:        make([]PointLight, 3),
		GlobalAmbient: mgl32.Vec3{0.2, 0.2, 0.2},
	}
	ls.Animate(0)
	return ls
}

// Animate places the three lights on their orbits for elapsed time t in seconds.
func (ls *LightSet) Animate(t float32) {
	pos := [3]mgl32.Vec3{
		{4 * math32.Cos(t+3.14), 6, 4 * math32.Sin(t+3.14)},
		{4 * math32.Cos(t-3.14/2), 4, 4 * math32.Sin(t+3.14/2)},
		{5 * math32.Cos(t), 2, 5 * math32.Sin(t)},
	}
	for i := range ls.Lights {
		if i < len(pos) {
			ls.Lights[i] = NewPointLight(pos[i])
		}
	}
}

func (ls *LightSet) Positions() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(ls.Lights))
	for i, l := range ls.Lights {
		out[i] = l.Position
	}
	return out
}

const (
	lightRecordSize = 80
	// LightsDataSize is the header plus MaxLights records.
	LightsDataSize = 16 + MaxLights*lightRecordSize
)

// Bytes packs {global_ambient, count} followed by the light array.
// Lights past MaxLights are dropped.
func (ls *LightSet) Bytes() []byte {
	buf := make([]byte, LightsDataSize)
	n := min(len(ls.Lights), MaxLights)
	putVec3(buf, 0, ls.GlobalAmbient, 0)
	putU32(buf, 12, uint32(n))
	for i := 0; i < n; i++ {
		l := ls.Lights[i]
		off := 16 + i*lightRecordSize
		putVec3(buf, off, l.Position, 1)
		putVec3(buf, off+16, l.Ambient, 0)
		putVec3(buf, off+32, l.Diffuse, 0)
		putVec3(buf, off+48, l.Specular, 0)
		putVec3(buf, off+64, l.Attenuation, 0)
	}
	return buf
}

// ShadePhong lights a raster fragment: unshadowed Blinn-Phong over every light,
// plus the global ambient term scaled by ao.
func (ls *LightSet) ShadePhong(m PhongMaterial, p, n, eye mgl32.Vec3, ao float32) mgl32.Vec3 {
	v := eye.Sub(p).Normalize()
	color := mulVec(ls.GlobalAmbient, m.Ambient).Mul(ao)
	for _, l := range ls.Lights {
		toLight := l.Position.Sub(p)
		dist := toLight.Len()
		if dist == 0 {
			continue
		}
		ldir := toLight.Mul(1 / dist)
		diff := max(0, n.Dot(ldir))
		spec := float32(0)
		if diff > 0 {
			spec = math32.Pow(max(0, n.Dot(ldir.Add(v).Normalize())), m.Shininess)
		}
		c := mulVec(l.Ambient, m.Ambient).
			Add(mulVec(l.Diffuse, m.Diffuse).Mul(diff)).
			Add(mulVec(l.Specular, m.Specular).Mul(spec))
		color = color.Add(c.Mul(l.AttenuationAt(dist)))
	}
	return color
}
