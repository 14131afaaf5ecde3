package lights

import (
	"fmt"

	"github.com/Treecase/Raytracer/pkg/core"
)

// PointLight emits light equally in all directions from a single position
type PointLight struct {
	position core.Vec3
	colour   core.Color
}

// NewPointLight creates a point light with the given colour
func NewPointLight(position core.Vec3, colour core.Color) *PointLight {
	return &PointLight{
		position: position,
		colour:   colour,
	}
}

// NewPointLightFromSpec creates a point light whose colour may be given as a
// triple or a hex-pair string. An empty spec means white.
func NewPointLightFromSpec(position core.Vec3, spec core.ColorSpec) (*PointLight, error) {
	colour, err := spec.Resolve()
	if err != nil {
		return nil, fmt.Errorf("point light at %v: %w", position, err)
	}
	return NewPointLight(position, colour), nil
}

// Position returns the light position
func (pl *PointLight) Position() core.Vec3 {
	return pl.position
}

// Colour returns the light colour
func (pl *PointLight) Colour() core.Color {
	return pl.colour
}

var _ core.Light = (*PointLight)(nil)

func (pl *PointLight) String() string {
	return fmt.Sprintf("PointLight(%v, colour=%v)", pl.position, pl.colour)
}
