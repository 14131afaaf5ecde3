package scene

import (
	"fmt"
	"slices"

	"github.com/Treecase/Raytracer/pkg/core"
	"github.com/Treecase/Raytracer/pkg/geometry"
	"github.com/Treecase/Raytracer/pkg/lights"
)

// The built-in scenes are framed for the default camera at (0, 0, -5)
// looking down +Z with +Y pointing down the screen.

// builtins maps a scene ID to its constructor
var builtins = map[string]func() (*Scene, error){
	"single-quad": NewSingleQuadScene,
	"cornell-box": NewCornellScene,
	"shadow":      NewShadowScene,
}

// BuiltinNames returns the IDs of the built-in scenes in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewBuiltin creates the built-in scene with the given ID
func NewBuiltin(name string) (*Scene, error) {
	create, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q, expected one of %v", name, BuiltinNames())
	}
	return create()
}

// quadDef and lightDef describe the entities of a built-in scene
type quadDef struct {
	p0, p1, p2 core.Vec3
	colour     core.Color
}

type lightDef struct {
	position core.Vec3
	colour   core.Color
}

// newFixedScene constructs the quads and lights in order
func newFixedScene(quads []quadDef, lightDefs []lightDef) (*Scene, error) {
	surfaces := make([]core.Surface, 0, len(quads))
	for _, q := range quads {
		quad, err := geometry.NewQuad(q.p0, q.p1, q.p2, q.colour)
		if err != nil {
			return nil, err
		}
		surfaces = append(surfaces, quad)
	}
	sceneLights := make([]core.Light, 0, len(lightDefs))
	for _, l := range lightDefs {
		sceneLights = append(sceneLights, lights.NewPointLight(l.position, l.colour))
	}
	return NewScene(surfaces, sceneLights), nil
}

// NewSingleQuadScene creates a 2x2 quad at z=0 facing the camera, lit by a
// white light at the camera position
func NewSingleQuadScene() (*Scene, error) {
	return newFixedScene(
		[]quadDef{
			{core.NewVec3(-1, -1, 0), core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0), core.NewColor(200, 100, 50)},
		},
		[]lightDef{{core.NewVec3(0, 0, -5), core.White}},
	)
}

// NewCornellScene creates an open-fronted box with a red left wall, a green
// right wall and a floating panel. The light hangs just outside the open
// front, so shadow rays that pass it leave the box and only the panel
// shadows the floor behind it.
func NewCornellScene() (*Scene, error) {
	white := core.NewColor(187, 187, 187)
	red := core.NewColor(166, 13, 13)
	green := core.NewColor(31, 115, 38)

	// Box spans x and y in [-2, 2] and z in [0, 4]
	const size = 2.0
	const depth = 4.0

	return newFixedScene(
		[]quadDef{
			// Back wall, normal (0, 0, -1)
			{core.NewVec3(-size, -size, depth), core.NewVec3(-size, size, depth), core.NewVec3(size, -size, depth), white},
			// Floor, normal (0, -1, 0)
			{core.NewVec3(-size, size, 0), core.NewVec3(size, size, 0), core.NewVec3(-size, size, depth), white},
			// Ceiling, normal (0, 1, 0)
			{core.NewVec3(-size, -size, 0), core.NewVec3(-size, -size, depth), core.NewVec3(size, -size, 0), white},
			// Left wall, normal (1, 0, 0)
			{core.NewVec3(-size, -size, 0), core.NewVec3(-size, size, 0), core.NewVec3(-size, -size, depth), red},
			// Right wall, normal (-1, 0, 0)
			{core.NewVec3(size, -size, 0), core.NewVec3(size, -size, depth), core.NewVec3(size, size, 0), green},
			// Floating panel, normal (0, 0, -1)
			{core.NewVec3(-0.5, 0.5, 2), core.NewVec3(-0.5, 1.5, 2), core.NewVec3(0.5, 0.5, 2), white},
		},
		[]lightDef{{core.NewVec3(0, -1, -1), core.NewColor(255, 240, 220)}},
	)
}

// NewShadowScene creates a floor and a wall with a panel between them and
// two lights, so the panel casts two overlapping shadows
func NewShadowScene() (*Scene, error) {
	return newFixedScene(
		[]quadDef{
			{core.NewVec3(-10, 1, -2), core.NewVec3(10, 1, -2), core.NewVec3(-10, 1, 20), core.NewColor(120, 200, 120)},
			{core.NewVec3(-6, -3, 6), core.NewVec3(-6, 3, 6), core.NewVec3(6, -3, 6), core.NewColor(220, 60, 60)},
			{core.NewVec3(1, -0.5, 4), core.NewVec3(1, 0.5, 4), core.NewVec3(2, -0.5, 4), core.NewColor(60, 60, 220)},
		},
		[]lightDef{
			{core.NewVec3(-4, 0, 0), core.NewColor(255, 240, 200)},
			{core.NewVec3(2, -4, -1), core.NewColor(60, 60, 120)},
		},
	)
}
