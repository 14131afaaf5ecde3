package geometry

import (
	"fmt"

	"github.com/Treecase/Raytracer/pkg/core"
)

// Quad represents a flat parallelogram spanned by the edges p0->p1 and p0->p2
type Quad struct {
	p0, p1, p2 core.Vec3  // Vertices
	normal     core.Vec3  // Unit normal, computed once at construction
	colour     core.Color // Flat surface colour
}

// NewQuad creates a new quad from three vertices and a colour.
// The normal is normalize((p0 - p1) x (p0 - p2)); collinear or coincident
// vertices have no normal and return ErrDegenerateGeometry.
func NewQuad(p0, p1, p2 core.Vec3, colour core.Color) (*Quad, error) {
	normal, err := p0.Subtract(p1).Cross(p0.Subtract(p2)).Normalize()
	if err != nil {
		return nil, fmt.Errorf("quad %v %v %v: %w", p0, p1, p2, core.ErrDegenerateGeometry)
	}

	return &Quad{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: normal,
		colour: colour,
	}, nil
}

// Vertices returns the three defining vertices
func (q *Quad) Vertices() (p0, p1, p2 core.Vec3) {
	return q.p0, q.p1, q.p2
}

// Normal returns the cached unit normal
func (q *Quad) Normal() core.Vec3 {
	return q.normal
}

// Colour returns the surface colour
func (q *Quad) Colour() core.Color {
	return q.colour
}

// Hit tests if the ray origin + t*direction intersects the quad.
//
// The ray is solved against the plane with Cramer's rule in a frame where
// origin is zero:
//
//	t*d = p0 + u*(p1 - p0) + v*(p2 - p0)
//
// The hit is valid when t >= 0 and u, v are both in [0, 1], i.e. the point
// lies in the parallelogram spanned by the two edges, boundaries included.
// Rays parallel to the plane, including rays lying in it, never hit.
func (q *Quad) Hit(origin, direction core.Vec3) (*core.Intersection, bool) {
	p0 := q.p0.Subtract(origin)
	e1 := q.p1.Subtract(origin).Subtract(p0)
	e2 := q.p2.Subtract(origin).Subtract(p0)

	negDir := direction.Negate()
	negP0 := p0.Negate()
	edgeCross := e1.Cross(e2)

	// Calculate the determinant of [-d, e1, e2]
	denom := negDir.Dot(edgeCross)
	if denom == 0 {
		return nil, false
	}

	t := edgeCross.Dot(negP0) / denom
	if t < 0 {
		return nil, false
	}

	u := e2.Cross(negDir).Dot(negP0) / denom
	v := negDir.Cross(e1).Dot(negP0) / denom
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return nil, false
	}

	return &core.Intersection{
		Surface: q,
		Point:   origin.Add(direction.Multiply(t)),
	}, true
}

// String describes the quad for logs
func (q *Quad) String() string {
	return fmt.Sprintf("Quad{%v %v %v colour=%v}", q.p0, q.p1, q.p2, q.colour)
}
