package renderer

import (
	"fmt"

	"github.com/Treecase/Raytracer/pkg/core"
)

// Framebuffer is a width x height grid of colours indexed like screen
// pixels. Values are whatever shading produced and may exceed 255.
type Framebuffer struct {
	Width  int
	Height int
	pixels []core.Color
}

// NewFramebuffer allocates a framebuffer filled with the background colour
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		pixels: make([]core.Color, width*height),
	}
}

// At returns the colour at pixel (x, y)
func (fb *Framebuffer) At(x, y int) core.Color {
	return fb.pixels[fb.index(x, y)]
}

// Set stores the colour at pixel (x, y)
func (fb *Framebuffer) Set(x, y int, c core.Color) {
	fb.pixels[fb.index(x, y)] = c
}

func (fb *Framebuffer) index(x, y int) int {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		panic(fmt.Sprintf("pixel (%d, %d) outside %dx%d framebuffer", x, y, fb.Width, fb.Height))
	}
	return y*fb.Width + x
}
