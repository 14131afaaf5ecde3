package loaders

import (
	"fmt"

	"github.com/Treecase/Raytracer/pkg/core"
)

// Kinds understood by the scene registry
const (
	KindQuad       = "Quad"
	KindPointLight = "PointLight"
)

// Descriptor is one entity read from a scene file. Loaders do not validate
// the kind; the scene registry decides which kinds exist.
type Descriptor struct {
	Kind   string         // Entity kind, e.g. "Quad" or "PointLight"
	Points []core.Vec3    // Quad vertices p0, p1, p2 or a light position
	Colour core.ColorSpec // Colour as written in the file (zero = default)
	Line   int            // Source line of the definition (0 if unknown)
}

// String formats the descriptor for error messages
func (d Descriptor) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s at line %d", d.Kind, d.Line)
	}
	return d.Kind
}
