package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Intersection records where a ray met a surface
type Intersection struct {
	Surface Surface // The surface that was hit
	Point   Vec3    // World-space point of intersection
}

// Surface is a flat, single-coloured object that rays can hit
type Surface interface {
	// Hit returns the intersection of the ray (origin, direction) with the
	// surface, or false on a miss. A miss is never an error.
	Hit(origin, direction Vec3) (*Intersection, bool)
	Normal() Vec3
	Colour() Color
}

// Light is a point source of illumination
type Light interface {
	Position() Vec3
	Colour() Color
}

// Scene provides the ordered surfaces and lights of a render.
// Implementations must not change either list while a render is running.
type Scene interface {
	GetSurfaces() []Surface
	GetLights() []Light
}
