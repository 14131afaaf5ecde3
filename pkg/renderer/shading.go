package renderer

import (
	"fmt"
	"math"

	"github.com/Treecase/Raytracer/pkg/core"
)

// Fixed shading parameters
var (
	SpecularColor = core.NewColor(255, 255, 255)
	AmbientColor  = core.NewColor(128, 208, 255)
	Background    = core.Black
)

const (
	Shininess     = 1000.0
	AmbientFactor = 0.05
)

// lightingStats counts shadow rays cast while shading one pixel
type lightingStats struct {
	shadowRays int
	occluded   int
}

// Shade computes the colour seen at hit from cameraOrigin.
// Each unoccluded light adds a Lambertian diffuse term and a Blinn-Phong
// specular term; a fixed ambient term is added once afterwards. Channels
// are truncated to integers and are not clamped.
func Shade(hit *core.Intersection, scene core.Scene, cameraOrigin core.Vec3) (core.Color, error) {
	if hit == nil {
		return Background, nil
	}
	accum, _, err := shade(hit, scene.GetSurfaces(), scene.GetLights(), cameraOrigin)
	if err != nil {
		return core.Color{}, err
	}
	return core.ColorFromVec3(accum), nil
}

// shade returns the untruncated colour at hit
func shade(hit *core.Intersection, surfaces []core.Surface, lights []core.Light, cameraOrigin core.Vec3) (core.Vec3, lightingStats, error) {
	var stats lightingStats
	point := hit.Point
	surface := hit.Surface
	normal := surface.Normal()
	surfaceColour := surface.Colour().Vec3()
	specularColour := SpecularColor.Vec3()

	// Unit vector toward the viewer
	view, err := cameraOrigin.Subtract(point).Normalize()
	if err != nil {
		return core.Vec3{}, stats, fmt.Errorf("view direction at %v: %w", point, err)
	}

	accum := core.Vec3{}

	for _, light := range lights {
		toLight, err := light.Position().Subtract(point).Normalize()
		if err != nil {
			return core.Vec3{}, stats, fmt.Errorf("light direction at %v: %w", point, err)
		}

		// Any surface along the shadow ray blocks the light completely
		stats.shadowRays++
		if _, occluded := TraceExcluding(point, toLight, surfaces, surface); occluded {
			stats.occluded++
			continue
		}

		intensity := light.Colour().Vec3().Multiply(1.0 / 255.0)

		// Lambertian diffuse
		diffuse := math.Max(0, normal.Dot(toLight))
		accum = accum.Add(surfaceColour.MultiplyVec(intensity).Multiply(diffuse))

		// Blinn-Phong specular
		halfVector, err := view.Add(toLight).Normalize()
		if err != nil {
			return core.Vec3{}, stats, fmt.Errorf("half vector at %v: %w", point, err)
		}
		specular := math.Pow(math.Max(0, normal.Dot(halfVector)), Shininess)
		accum = accum.Add(specularColour.MultiplyVec(intensity).Multiply(specular))
	}

	// Ambient is independent of lights and shadows
	accum = accum.Add(AmbientColor.Vec3().Multiply(AmbientFactor))

	return accum, stats, nil
}
