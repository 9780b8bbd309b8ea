package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// Texture2D is a sampled texture and its default view.
type Texture2D struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

// UploadRGBA creates an RGBA8 texture from img.
func UploadRGBA(device *wgpu.Device, label string, img *image.RGBA) (*Texture2D, error) {
	return upload(device, label, img.Pix, img.Rect.Dx(), img.Rect.Dy(), 4, wgpu.TextureFormatRGBA8Unorm)
}

// UploadAlpha creates a single channel texture, as used by the glyph atlas.
func UploadAlpha(device *wgpu.Device, label string, img *image.Alpha) (*Texture2D, error) {
	return upload(device, label, img.Pix, img.Rect.Dx(), img.Rect.Dy(), 1, wgpu.TextureFormatR8Unorm)
}

func upload(device *wgpu.Device, label string, pix []byte, w, h, bpp int, format wgpu.TextureFormat) (*Texture2D, error) {
	size := wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          size,
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %s: %w", label, err)
	}
	err = device.GetQueue().WriteTexture(tex.AsImageCopy(), pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w * bpp),
		RowsPerImage: uint32(h),
	}, &size)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("write texture %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create view %s: %w", label, err)
	}
	return &Texture2D{Texture: tex, View: view}, nil
}

// DepthTarget allocates a Depth24Plus attachment of the given size.
func DepthTarget(device *wgpu.Device, w, h int) (*Texture2D, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("create depth target: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create depth view: %w", err)
	}
	return &Texture2D{Texture: tex, View: view}, nil
}

func (t *Texture2D) Release() {
	if t == nil {
		return
	}
	if t.View != nil {
		t.View.Release()
	}
	if t.Texture != nil {
		t.Texture.Release()
	}
}
