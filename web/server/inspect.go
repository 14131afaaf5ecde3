package server

import (
	"fmt"
	"net/http"

	"github.com/Treecase/Raytracer/pkg/core"
	"github.com/Treecase/Raytracer/pkg/geometry"
	"github.com/Treecase/Raytracer/pkg/renderer"
	"github.com/Treecase/Raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool         `json:"hit"`
	SurfaceIndex int          `json:"surfaceIndex"`
	GeometryType string       `json:"geometryType,omitempty"`
	Point        [3]float64   `json:"point"`
	Normal       [3]float64   `json:"normal"`
	Distance     float64      `json:"distance"`
	Vertices     [][3]float64 `json:"vertices,omitempty"`
	Colour       [3]int       `json:"colour"`
	Shaded       [3]int       `json:"shaded"`
}

// InspectResult describes what the primary ray of one pixel saw
type InspectResult struct {
	Hit          *core.Intersection
	SurfaceIndex int
	Distance     float64
	Shaded       core.Color
}

// inspectPixel casts the primary ray of pixel (x, y) and shades the nearest hit
func inspectPixel(sceneObj *scene.Scene, camera renderer.Camera, width, height, x, y int) (InspectResult, error) {
	ray := camera.GetRay(x, y, width, height)
	surfaces := sceneObj.GetSurfaces()

	hit, ok := renderer.Trace(ray.Origin, ray.Direction, surfaces)
	if !ok {
		return InspectResult{SurfaceIndex: -1, Shaded: renderer.Background}, nil
	}

	shaded, err := renderer.Shade(hit, sceneObj, camera.Origin)
	if err != nil {
		return InspectResult{}, err
	}

	index := -1
	for i, surface := range surfaces {
		if surface == hit.Surface {
			index = i
			break
		}
	}

	return InspectResult{
		Hit:          hit,
		SurfaceIndex: index,
		Distance:     hit.Point.Distance(camera.Origin),
		Shaded:       shaded,
	}, nil
}

// extractGeometryInfo describes the shape of a hit surface
func extractGeometryInfo(surface core.Surface) (string, [][3]float64) {
	switch geom := surface.(type) {
	case *geometry.Quad:
		p0, p1, p2 := geom.Vertices()
		// The fourth corner completes the parallelogram
		p3 := p1.Add(p2).Subtract(p0)
		return "quad", [][3]float64{toArray(p0), toArray(p1), toArray(p2), toArray(p3)}
	default:
		return "unknown", nil
	}
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colourArray(c core.Color) [3]int {
	return [3]int{c.R, c.G, c.B}
}

// handleInspect handles ray casting inspection requests
//
//	GET /api/inspect?scene=cornell-box&width=100&height=100&x=50&y=50
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	query := r.URL.Query()
	pixelX, err := parseIntParam(query, "x", -1, 0, inspectReq.Width-1)
	if err != nil || pixelX < 0 {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := parseIntParam(query, "y", -1, 0, inspectReq.Height-1)
	if err != nil || pixelY < 0 {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := scene.Resolve(inspectReq.Scene, s.scenesDir)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid scene: %v", err))
		return
	}

	result, err := inspectPixel(sceneObj, inspectReq.Camera, inspectReq.Width, inspectReq.Height, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Shading error: %v", err))
		return
	}

	if result.Hit == nil {
		writeJSON(w, http.StatusOK, InspectResponse{SurfaceIndex: -1, Shaded: colourArray(result.Shaded)})
		return
	}

	surface := result.Hit.Surface
	geometryType, vertices := extractGeometryInfo(surface)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		SurfaceIndex: result.SurfaceIndex,
		GeometryType: geometryType,
		Point:        toArray(result.Hit.Point),
		Normal:       toArray(surface.Normal()),
		Distance:     result.Distance,
		Vertices:     vertices,
		Colour:       colourArray(surface.Colour()),
		Shaded:       colourArray(result.Shaded),
	})
}
