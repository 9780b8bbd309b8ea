package core

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/chewxy/math32"
)

// LoadSprite decodes a PNG into RGBA texels.
func LoadSprite(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sprite: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sprite %s: %w", path, err)
	}
	return clone.AsRGBA(img), nil
}

// SnowflakeSprite draws a six-armed flake and softens it with a small blur.
// It stands in when no sprite file is available.
func SnowflakeSprite(size int) *image.RGBA {
	size = max(size, 8)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float32(size-1) / 2
	arm := c * 0.9
	white := color.RGBA{255, 255, 255, 255}

	stroke := func(x0, y0, x1, y1 float32) {
		steps := int(math32.Max(math32.Abs(x1-x0), math32.Abs(y1-y0))) * 2
		for i := 0; i <= steps; i++ {
			t := float32(i) / float32(max(steps, 1))
			img.SetRGBA(int(x0+(x1-x0)*t+0.5), int(y0+(y1-y0)*t+0.5), white)
		}
	}
	for k := 0; k < 6; k++ {
		a := float32(k) * math32.Pi / 3
		s, co := math32.Sincos(a)
		ex, ey := c+co*arm, c+s*arm
		stroke(c, c, ex, ey)
		// side barbs halfway along each arm
		mx, my := c+co*arm*0.55, c+s*arm*0.55
		for _, d := range []float32{math32.Pi / 4, -math32.Pi / 4} {
			bs, bc := math32.Sincos(a + d)
			stroke(mx, my, mx+bc*arm*0.3, my+bs*arm*0.3)
		}
	}
	return blur.Gaussian(img, float64(size)/64)
}
