package output

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"github.com/Treecase/Raytracer/pkg/renderer"
)

// ToImage converts a framebuffer to an 8-bit image. Channels outside
// 0-255 are clamped here only; the framebuffer keeps the raw values.
func ToImage(fb *renderer.Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: clampChannel(c.R),
				G: clampChannel(c.G),
				B: clampChannel(c.B),
				A: 255,
			})
		}
	}
	return img
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Scale enlarges img by an integer factor using nearest-neighbour sampling
// so every rendered pixel stays a sharp block
func Scale(img image.Image, factor int) (image.Image, error) {
	if factor < 1 {
		return nil, fmt.Errorf("scale factor must be at least 1, got %d", factor)
	}
	if factor == 1 {
		return img, nil
	}
	bounds := img.Bounds()
	width := uint(bounds.Dx() * factor)
	height := uint(bounds.Dy() * factor)
	return resize.Resize(width, height, img, resize.NearestNeighbor), nil
}
