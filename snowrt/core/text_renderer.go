package core

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextVertex is one corner of a glyph quad in NDC.
type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

const TextVertexStride = 32

// TextLine is a run of text placed in pixels from the top-left corner.
type TextLine struct {
	Text  string
	X, Y  float32
	Color [4]float32
}

type glyph struct {
	uvMin, uvMax [2]float32
	size, off    [2]float32
	adv          float32
}

// TextAtlas rasterizes printable ASCII into a single alpha texture.
type TextAtlas struct {
	Image  *image.Alpha
	glyphs map[rune]glyph
	face   font.Face
}

const atlasSize = 512

// NewDefaultTextAtlas uses the embedded Go Regular face.
func NewDefaultTextAtlas(size float64) (*TextAtlas, error) {
	return NewTextAtlas(goregular.TTF, size)
}

func LoadTextAtlas(path string, size float64) (*TextAtlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return NewTextAtlas(data, size)
}

func NewTextAtlas(ttf []byte, size float64) (*TextAtlas, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}

	a := &TextAtlas{
		Image:  image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize)),
		glyphs: make(map[rune]glyph),
		face:   face,
	}
	x, y, rowH := 1, 1, 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := mask.Bounds().Dx(), mask.Bounds().Dy()
		if x+w >= atlasSize {
			x, y, rowH = 1, y+rowH+2, 0
		}
		if y+h >= atlasSize {
			break
		}
		draw.Draw(a.Image, image.Rect(x, y, x+w, y+h), mask, mask.Bounds().Min, draw.Src)
		a.glyphs[r] = glyph{
			uvMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			uvMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			size:  [2]float32{float32(w), float32(h)},
			off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			adv:   float32(adv) / 64,
		}
		x += w + 2
		rowH = max(rowH, h)
	}
	return a, nil
}

func (a *TextAtlas) LineHeight() float32 {
	return float32(a.face.Metrics().Height.Ceil())
}

// Width of a single line in pixels.
func (a *TextAtlas) Width(text string) float32 {
	w := float32(0)
	for _, r := range text {
		if g, ok := a.glyphs[r]; ok {
			w += g.adv
		}
	}
	return w
}

// Vertices lays the lines out as two triangles per glyph for a screen of w x h.
func (a *TextAtlas) Vertices(lines []TextLine, w, h int) []TextVertex {
	if w <= 0 || h <= 0 {
		return nil
	}
	sw, sh := float32(w), float32(h)
	ascent := float32(a.face.Metrics().Ascent.Ceil())
	out := make([]TextVertex, 0, 64*6)
	for _, l := range lines {
		penX := l.X
		baseY := l.Y + ascent
		for _, r := range l.Text {
			g, ok := a.glyphs[r]
			if !ok {
				continue
			}
			x0 := (penX+g.off[0])/sw*2 - 1
			y0 := 1 - (baseY+g.off[1])/sh*2
			x1 := (penX+g.off[0]+g.size[0])/sw*2 - 1
			y1 := 1 - (baseY+g.off[1]+g.size[1])/sh*2
			tl := TextVertex{Pos: [2]float32{x0, y0}, UV: g.uvMin, Color: l.Color}
			tr := TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: l.Color}
			bl := TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: l.Color}
			br := TextVertex{Pos: [2]float32{x1, y1}, UV: g.uvMax, Color: l.Color}
			out = append(out, tl, tr, bl, tr, br, bl)
			penX += g.adv
		}
	}
	return out
}

func TextVertexBytes(vs []TextVertex) []byte {
	buf := make([]byte, len(vs)*TextVertexStride)
	for i, v := range vs {
		o := i * TextVertexStride
		putF32(buf, o, v.Pos[0])
		putF32(buf, o+4, v.Pos[1])
		putF32(buf, o+8, v.UV[0])
		putF32(buf, o+12, v.UV[1])
		for k := 0; k < 4; k++ {
			putF32(buf, o+16+4*k, v.Color[k])
		}
	}
	return buf
}
