package scene

import (
	"slices"

	"github.com/Treecase/Raytracer/pkg/core"
)

// Scene contains the ordered surfaces and lights of a world.
// Order matters: the first of several equally near surfaces wins a ray.
// A Scene is read-only once created by NewScene, Build or NewBuiltin.
type Scene struct {
	surfaces []core.Surface
	lights   []core.Light
}

// NewScene creates a scene from already constructed surfaces and lights
func NewScene(surfaces []core.Surface, lights []core.Light) *Scene {
	return &Scene{
		surfaces: slices.Clone(surfaces),
		lights:   slices.Clone(lights),
	}
}

// GetSurfaces returns a copy of the surfaces in scene order
func (s *Scene) GetSurfaces() []core.Surface {
	return slices.Clone(s.surfaces)
}

// GetLights returns a copy of the lights in scene order
func (s *Scene) GetLights() []core.Light {
	return slices.Clone(s.lights)
}
