package scene

import (
	"fmt"
	"slices"

	"github.com/Treecase/Raytracer/pkg/geometry"
	"github.com/Treecase/Raytracer/pkg/lights"
	"github.com/Treecase/Raytracer/pkg/loaders"
)

// constructor adds the entity described by desc to s
type constructor func(s *Scene, desc loaders.Descriptor) error

// registry is the closed set of entity kinds a scene can contain
var registry = map[string]constructor{
	loaders.KindQuad:       addQuad,
	loaders.KindPointLight: addPointLight,
}

// Kinds returns the registered entity kinds in sorted order
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// Build constructs a scene from descriptors, keeping their order.
// Unknown kinds and invalid entities are errors; a quad with collinear
// vertices yields an error wrapping core.ErrDegenerateGeometry.
func Build(descriptors []loaders.Descriptor) (*Scene, error) {
	s := &Scene{}
	for i, desc := range descriptors {
		construct, ok := registry[desc.Kind]
		if !ok {
			return nil, fmt.Errorf("entity %d (%v): unknown kind %q, expected one of %v", i+1, desc, desc.Kind, Kinds())
		}
		if err := construct(s, desc); err != nil {
			return nil, fmt.Errorf("entity %d (%v): %w", i+1, desc, err)
		}
	}
	return s, nil
}

func addQuad(s *Scene, desc loaders.Descriptor) error {
	if len(desc.Points) != 3 {
		return fmt.Errorf("quad needs 3 points, got %d", len(desc.Points))
	}
	colour, err := desc.Colour.Resolve()
	if err != nil {
		return err
	}
	quad, err := geometry.NewQuad(desc.Points[0], desc.Points[1], desc.Points[2], colour)
	if err != nil {
		return err
	}
	s.surfaces = append(s.surfaces, quad)
	return nil
}

func addPointLight(s *Scene, desc loaders.Descriptor) error {
	if len(desc.Points) != 1 {
		return fmt.Errorf("point light needs 1 position, got %d", len(desc.Points))
	}
	light, err := lights.NewPointLightFromSpec(desc.Points[0], desc.Colour)
	if err != nil {
		return err
	}
	s.lights = append(s.lights, light)
	return nil
}

// LoadFile reads and builds the scene stored at path
func LoadFile(path string) (*Scene, error) {
	descriptors, err := loaders.LoadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Build(descriptors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
