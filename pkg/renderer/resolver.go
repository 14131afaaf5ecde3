package renderer

import "github.com/Treecase/Raytracer/pkg/core"

// Trace returns the intersection nearest to origin among surfaces, or false
// if the ray hits nothing. Distance is measured from origin to the hit
// point; on an exact tie the surface that comes first in surfaces wins.
func Trace(origin, direction core.Vec3, surfaces []core.Surface) (*core.Intersection, bool) {
	return TraceExcluding(origin, direction, surfaces, nil)
}

// TraceExcluding is Trace with one surface skipped. The comparison is by
// identity, so a different surface at the same position is still tested.
func TraceExcluding(origin, direction core.Vec3, surfaces []core.Surface, exclude core.Surface) (*core.Intersection, bool) {
	var closestHit *core.Intersection
	closestSoFar := 0.0

	for _, surface := range surfaces {
		if exclude != nil && surface == exclude {
			continue
		}

		hit, isHit := surface.Hit(origin, direction)
		if !isHit {
			continue
		}

		distance := hit.Point.Distance(origin)
		if closestHit == nil || distance < closestSoFar {
			closestHit = hit
			closestSoFar = distance
		}
	}

	return closestHit, closestHit != nil
}
