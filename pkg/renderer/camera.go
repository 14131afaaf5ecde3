package renderer

import (
	"github.com/Treecase/Raytracer/pkg/core"
)

// Default camera parameters
const (
	DefaultFocalLength = 1.0
	DefaultWidth       = 100
	DefaultHeight      = 100
)

// Camera is a fixed pinhole camera looking down +Z.
// +X is right, +Y is down, and +Z points into the screen.
type Camera struct {
	Origin      core.Vec3 // Camera position
	FocalLength float64   // Distance to the image plane, aka zoom
}

// NewCamera creates a camera at origin with the given focal length
func NewCamera(origin core.Vec3, focalLength float64) Camera {
	return Camera{Origin: origin, FocalLength: focalLength}
}

// DefaultCamera returns the camera at (0, 0, -5) with focal length 1
func DefaultCamera() Camera {
	return NewCamera(core.NewVec3(0, 0, -5), DefaultFocalLength)
}

// GetRay generates the ray for pixel (x, y) of a width x height image.
// The direction is (x/width - 0.5, y/height - 0.5, focalLength) and is
// deliberately left unnormalized.
func (c Camera) GetRay(x, y, width, height int) core.Ray {
	xView := float64(x)/float64(width) - 0.5
	yView := float64(y)/float64(height) - 0.5

	return core.NewRay(c.Origin, core.NewVec3(xView, yView, c.FocalLength))
}
