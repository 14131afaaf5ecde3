package renderer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Treecase/Raytracer/pkg/core"
)

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Workers int         // Number of rows rendered concurrently (0 = use CPU count)
	Logger  core.Logger // Receives a summary line per render (nil = silent)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Workers: 0,
		Logger:  nopLogger{},
	}
}

// Option adjusts a RenderConfig
type Option func(*RenderConfig)

// WithWorkers sets the number of rows rendered concurrently.
// One worker reproduces a strictly sequential render.
func WithWorkers(n int) Option {
	return func(c *RenderConfig) { c.Workers = n }
}

// WithLogger sets the logger used for render summaries
func WithLogger(logger core.Logger) Option {
	return func(c *RenderConfig) { c.Logger = logger }
}

// Raytracer renders a scene through a camera into a framebuffer
type Raytracer struct {
	surfaces []core.Surface
	lights   []core.Light
	camera   Camera
	width    int
	height   int
	config   RenderConfig
}

// NewRaytracer creates a new raytracer. The scene's surfaces and lights are
// captured once; the scene must not change while rendering.
func NewRaytracer(scene core.Scene, camera Camera, width, height int, opts ...Option) (*Raytracer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	config := DefaultRenderConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Logger == nil {
		config.Logger = nopLogger{}
	}

	return &Raytracer{
		surfaces: scene.GetSurfaces(),
		lights:   scene.GetLights(),
		camera:   camera,
		width:    width,
		height:   height,
		config:   config,
	}, nil
}

// Render renders scene as seen by camera into a width x height framebuffer.
// Any error aborts the whole render and no framebuffer is returned.
func Render(ctx context.Context, scene core.Scene, camera Camera, width, height int, opts ...Option) (*Framebuffer, error) {
	rt, err := NewRaytracer(scene, camera, width, height, opts...)
	if err != nil {
		return nil, err
	}
	fb, _, err := rt.Render(ctx)
	return fb, err
}

// Render renders every pixel and returns the framebuffer with statistics.
// Rows are rendered concurrently; each row writes only its own pixels.
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	startTime := time.Now()
	fb := NewFramebuffer(rt.width, rt.height)
	rowStats := make([]RenderStats, rt.height)

	eg, egCtx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(rt.config.Workers))

	for y := 0; y < rt.height; y++ {
		if err := sem.Acquire(egCtx, 1); err != nil {
			break
		}

		y := y
		eg.Go(func() error {
			defer sem.Release(1)
			if err := egCtx.Err(); err != nil {
				return err
			}
			stats, err := rt.renderRow(fb, y)
			if err != nil {
				return err
			}
			rowStats[y] = stats
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("while rendering: %w", err)
	}
	// Acquire fails once the caller cancels, which Wait does not report
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("while rendering: %w", err)
	}

	var stats RenderStats
	for _, s := range rowStats {
		stats.Add(s)
	}

	rt.config.Logger.Printf("Rendered %dx%d with %d surfaces and %d lights in %v (%d hits, %d/%d shadow rays occluded)\n",
		rt.width, rt.height, len(rt.surfaces), len(rt.lights), time.Since(startTime),
		stats.HitPixels, stats.OccludedShadowRays, stats.ShadowRays)

	return fb, stats, nil
}

// renderRow renders row y into fb
func (rt *Raytracer) renderRow(fb *Framebuffer, y int) (RenderStats, error) {
	var stats RenderStats
	for x := 0; x < rt.width; x++ {
		colour, hit, lighting, err := rt.renderPixel(x, y)
		if err != nil {
			return stats, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
		}
		fb.Set(x, y, colour)
		stats.recordPixel(hit, lighting, colour.R > 255 || colour.G > 255 || colour.B > 255)
	}
	return stats, nil
}

// renderPixel resolves and shades the primary ray through pixel (x, y)
func (rt *Raytracer) renderPixel(x, y int) (core.Color, bool, lightingStats, error) {
	ray := rt.camera.GetRay(x, y, rt.width, rt.height)

	hit, isHit := Trace(ray.Origin, ray.Direction, rt.surfaces)
	if !isHit {
		return Background, false, lightingStats{}, nil
	}

	accum, lighting, err := shade(hit, rt.surfaces, rt.lights, rt.camera.Origin)
	if err != nil {
		return core.Color{}, true, lighting, err
	}
	return core.ColorFromVec3(accum), true, lighting, nil
}
