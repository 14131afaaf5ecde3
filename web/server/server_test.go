package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/Treecase/Raytracer/pkg/scene"
)

// Quad facing away from the light, so only ambient reaches the camera
const ambientWorld = `# Scene: Ambient Quad
# Description: Back face of the reference quad
-1 -1 0
1 -1 0
-1 1 0
c8 64 32
;
PointLight
0 0 -5
;
`

const yamlWorld = `
surfaces:
  - points: [[-1, -1, 0], [-1, 1, 0], [1, -1, 0]]
    colour: [10, 20, 30]
lights:
  - position: [0, 0, -5]
    colour: "00 00 00"
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ambient.txt"), []byte(ambientWorld), 0o644))
	return NewServer(0, dir)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHandleHealth(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleScenes(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/api/scenes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var response scene.ScenesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Groups, 2)
	assert.Equal(t, "Built-in Scenes", response.Groups[0].Name)
	assert.Len(t, response.Groups[0].Scenes, len(scene.BuiltinNames()))

	files := response.Groups[1].Scenes
	require.Len(t, files, 1)
	assert.Equal(t, "file:ambient.txt", files[0].ID)
	assert.Equal(t, "Ambient Quad", files[0].Name)
}

func TestHandleRender_Builtin(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/api/render?scene=single-quad&width=40&height=20&scale=2", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Render-Hit-Pixels"))
	assert.Contains(t, rec.Header().Get("X-Render-Log"), "Rendered 40x20")

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 40), img.Bounds())
}

func TestHandleRender_FileScene(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/api/render?scene=file:ambient.txt&format=bmp", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/bmp", rec.Header().Get("Content-Type"))

	img, err := bmp.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{6, 10, 12, 255}, color.RGBAModel.Convert(img.At(50, 50)))
	assert.Equal(t, "0", rec.Header().Get("X-Render-Overflow-Pixels"))
}

func TestHandleRender_PostWorld(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(ambientWorld))
	req.Header.Set("Content-Type", "text/plain")
	rec := serve(newTestServer(t), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{6, 10, 12, 255}, color.RGBAModel.Convert(img.At(50, 50)))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, color.RGBAModel.Convert(img.At(0, 0)))
}

func TestHandleRender_PostYAML(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/render?width=10&height=10", strings.NewReader(yamlWorld))
	req.Header.Set("Content-Type", "application/yaml; charset=utf-8")
	rec := serve(newTestServer(t), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	// A black light leaves the ambient term alone
	assert.Equal(t, color.RGBA{6, 10, 12, 255}, color.RGBAModel.Convert(img.At(5, 5)))
}

func TestHandleRender_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		errText string
	}{
		{"zero width", http.MethodGet, "/api/render?width=0", "", http.StatusBadRequest, "width must be between"},
		{"non-numeric height", http.MethodGet, "/api/render?height=tall", "", http.StatusBadRequest, "invalid height"},
		{"scale too large", http.MethodGet, "/api/render?scale=17", "", http.StatusBadRequest, "scale must be between"},
		{"scaled too large", http.MethodGet, "/api/render?width=1500&scale=2", "", http.StatusBadRequest, "must not exceed"},
		{"bad format", http.MethodGet, "/api/render?format=gif", "", http.StatusBadRequest, "unsupported image format"},
		{"bad camera", http.MethodGet, "/api/render?cz=far", "", http.StatusBadRequest, "invalid cz"},
		{"unknown scene", http.MethodGet, "/api/render?scene=teapot", "", http.StatusBadRequest, "unknown scene"},
		{"path traversal", http.MethodGet, "/api/render?scene=file:../secret.txt", "", http.StatusBadRequest, "Invalid scene"},
		{"degenerate quad", http.MethodPost, "/api/render", "0 0 0\n1 1 1\n2 2 2\n;\n", http.StatusBadRequest, "degenerate"},
		{"unknown kind", http.MethodPost, "/api/render", "Sphere\n0 0 0\n1 0 0\n0 1 0\n;\n", http.StatusBadRequest, `unknown kind "Sphere"`},
		{"light on the surface", http.MethodPost, "/api/render", "-1 -1 0\n-1 1 0\n1 -1 0\n;\nPointLight\n0 0 0\n;\n", http.StatusInternalServerError, "Render error"},
		{"wrong method", http.MethodDelete, "/api/render", "", http.StatusMethodNotAllowed, "GET or POST"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.errText)
		})
	}
}

func TestHandleRender_BodyTooLarge(t *testing.T) {
	body := bytes.Repeat([]byte("# padding\n"), maxSceneBytes/10+1)
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodPost, "/api/render", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "larger than")
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/inspect?scene=single-quad&x=50&y=50", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response InspectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Hit)
	assert.Equal(t, 0, response.SurfaceIndex)
	assert.Equal(t, "quad", response.GeometryType)
	assert.Equal(t, [3]float64{0, 0, 0}, response.Point)
	assert.Equal(t, [3]float64{0, 0, -1}, response.Normal)
	assert.InDelta(t, 5.0, response.Distance, 1e-12)
	assert.Equal(t, [3]int{200, 100, 50}, response.Colour)
	assert.Equal(t, [3]int{461, 365, 317}, response.Shaded)
	require.Len(t, response.Vertices, 4)
	assert.Equal(t, [3]float64{1, 1, 0}, response.Vertices[3])

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/inspect?scene=single-quad&x=0&y=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	response = InspectResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.Hit)
	assert.Equal(t, -1, response.SurfaceIndex)
	assert.Equal(t, [3]int{0, 0, 0}, response.Shaded)
}

func TestHandleInspect_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		errText string
	}{
		{"missing x", "/api/inspect?y=1", "Invalid x coordinate"},
		{"x out of bounds", "/api/inspect?x=100&y=1", "Invalid x coordinate"},
		{"negative y", "/api/inspect?x=1&y=-1", "Invalid y coordinate"},
		{"unknown scene", "/api/inspect?scene=teapot&x=1&y=1", "unknown scene"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.errText)
		})
	}
}

func TestStaticPage(t *testing.T) {
	rec := serve(newTestServer(t), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<title>Quad Raytracer</title>")
}
