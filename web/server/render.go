package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/Treecase/Raytracer/pkg/core"
	"github.com/Treecase/Raytracer/pkg/loaders"
	"github.com/Treecase/Raytracer/pkg/output"
	"github.com/Treecase/Raytracer/pkg/renderer"
	"github.com/Treecase/Raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene  string          // Scene ID for GET requests (e.g., "cornell-box")
	Width  int             // Image width
	Height int             // Image height
	Scale  int             // Integer upscale of the returned image
	Format output.Format   // Encoding of the returned image
	Camera renderer.Camera // Camera position and focal length
}

// handleRender renders a built-in scene, a scene file, or a scene posted
// in the request body, and responds with the encoded image.
//
//	GET  /api/render?scene=cornell-box&width=200&height=200&scale=2
//	POST /api/render?width=100 with a world file or YAML body
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use GET or POST")
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.loadScene(r, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid scene: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	consoleChan, webLogger := s.setupConsoleLogging()
	startTime := time.Now()

	rt, err := renderer.NewRaytracer(sceneObj, req.Camera, req.Width, req.Height,
		renderer.WithLogger(webLogger))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fb, stats, err := rt.Render(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			glog.V(1).Infof("Render cancelled by client: %v", err)
			return
		}
		glog.Errorf("Render failed: %v", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	data, format, err := output.Render(fb, "", output.Options{Format: req.Format, Scale: req.Scale})
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Encode error: %v", err))
		return
	}

	h := w.Header()
	h.Set("Content-Type", format.ContentType())
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("X-Render-Time-Ms", strconv.FormatInt(time.Since(startTime).Milliseconds(), 10))
	h.Set("X-Render-Hit-Pixels", strconv.Itoa(stats.HitPixels))
	h.Set("X-Render-Overflow-Pixels", strconv.Itoa(stats.OverflowPixels))
	if messages := drainConsole(consoleChan); len(messages) > 0 {
		h.Set("X-Render-Log", strings.TrimSpace(messages[len(messages)-1].Message))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		glog.V(1).Infof("Writing image: %v", err)
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = defaultScene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", renderer.DefaultWidth, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", renderer.DefaultHeight, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Scale, err = parseIntParam(query, "scale", 1, 1, maxScale); err != nil {
		return nil, err
	}
	if req.Width*req.Scale > maxImageSize || req.Height*req.Scale > maxImageSize {
		return nil, fmt.Errorf("scaled image must not exceed %dx%d", maxImageSize, maxImageSize)
	}

	if req.Format, err = output.ParseFormat(query.Get("format")); err != nil {
		return nil, err
	}
	if req.Format == output.Auto {
		req.Format = output.PNG
	}

	if req.Camera, err = parseCamera(query); err != nil {
		return nil, err
	}

	return req, nil
}

// parseCamera reads cx, cy, cz and focal from the query
func parseCamera(query map[string][]string) (renderer.Camera, error) {
	camera := renderer.DefaultCamera()
	var err error
	if camera.Origin.X, err = parseFloatParam(query, "cx", camera.Origin.X); err != nil {
		return camera, err
	}
	if camera.Origin.Y, err = parseFloatParam(query, "cy", camera.Origin.Y); err != nil {
		return camera, err
	}
	if camera.Origin.Z, err = parseFloatParam(query, "cz", camera.Origin.Z); err != nil {
		return camera, err
	}
	if camera.FocalLength, err = parseFloatParam(query, "focal", camera.FocalLength); err != nil {
		return camera, err
	}
	return camera, nil
}

// loadScene builds the posted scene for POST requests and resolves the
// scene ID otherwise
func (s *Server) loadScene(r *http.Request, req *RenderRequest) (*scene.Scene, error) {
	if r.Method != http.MethodPost {
		return scene.Resolve(req.Scene, s.scenesDir)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSceneBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(body) > maxSceneBytes {
		return nil, fmt.Errorf("scene larger than %d bytes", maxSceneBytes)
	}

	var descriptors []loaders.Descriptor
	if isYAMLRequest(r) {
		descriptors, err = loaders.ParseYAML(strings.NewReader(string(body)))
	} else {
		descriptors, err = loaders.ParseWorld(strings.NewReader(string(body)))
	}
	if err != nil {
		return nil, err
	}
	return scene.Build(descriptors)
}

// isYAMLRequest reports whether the body is a YAML scene
func isYAMLRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return false
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// drainConsole returns the messages buffered in consoleChan without blocking
func drainConsole(consoleChan chan ConsoleMessage) []ConsoleMessage {
	var messages []ConsoleMessage
	for {
		select {
		case msg := <-consoleChan:
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}
