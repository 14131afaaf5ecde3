// Package config holds render settings loaded from an optional TOML file
// and overridden by command line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/Treecase/Raytracer/pkg/core"
	"github.com/Treecase/Raytracer/pkg/output"
	"github.com/Treecase/Raytracer/pkg/renderer"
)

// Config contains everything needed to render a scene to a file.
//
//	width = 100
//	height = 100
//	workers = 0
//	scale = 1
//
//	[camera]
//	x = 0.0
//	y = 0.0
//	z = -5.0
//	focal_length = 1.0
//
//	[output]
//	format = "png"
//	s3_region = "us-east-1"
type Config struct {
	Width   int          `toml:"width"`
	Height  int          `toml:"height"`
	Workers int          `toml:"workers"` // 0 = one per CPU
	Scale   int          `toml:"scale"`   // Integer upscale of the written image
	Camera  CameraConfig `toml:"camera"`
	Output  OutputConfig `toml:"output"`
}

// CameraConfig places the pinhole camera
type CameraConfig struct {
	X           float64 `toml:"x"`
	Y           float64 `toml:"y"`
	Z           float64 `toml:"z"`
	FocalLength float64 `toml:"focal_length"`
}

// OutputConfig controls image encoding and remote storage
type OutputConfig struct {
	Format     string `toml:"format"` // png, bmp, tiff or empty for the file extension
	S3Region   string `toml:"s3_region"`
	S3Endpoint string `toml:"s3_endpoint"`
}

// Default returns the settings of the classic 100x100 render
func Default() Config {
	origin := renderer.DefaultCamera().Origin
	return Config{
		Width:   renderer.DefaultWidth,
		Height:  renderer.DefaultHeight,
		Workers: 0,
		Scale:   1,
		Camera: CameraConfig{
			X:           origin.X,
			Y:           origin.Y,
			Z:           origin.Z,
			FocalLength: renderer.DefaultFocalLength,
		},
	}
}

// Load reads a TOML file over the defaults. Keys not present in the file
// keep their default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return cfg, fmt.Errorf("%s: %s", path, strictErr.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return cfg, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the settings for values that cannot be rendered
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", c.Scale)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	return nil
}

// NewCamera returns the renderer camera described by c
func (c Config) NewCamera() renderer.Camera {
	return renderer.NewCamera(core.NewVec3(c.Camera.X, c.Camera.Y, c.Camera.Z), c.Camera.FocalLength)
}

// OutputOptions returns the image writing options described by c
func (c Config) OutputOptions() (output.Options, error) {
	format, err := output.ParseFormat(c.Output.Format)
	if err != nil {
		return output.Options{}, err
	}
	return output.Options{
		Format:     format,
		Scale:      c.Scale,
		S3Region:   c.Output.S3Region,
		S3Endpoint: c.Output.S3Endpoint,
	}, nil
}

// SetCamera parses "x,y,z" into the camera position
func (c *Config) SetCamera(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("camera %q: expected x,y,z", s)
	}
	var coords [3]float64
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return fmt.Errorf("camera %q: invalid coordinate %q", s, part)
		}
		coords[i] = value
	}
	c.Camera.X, c.Camera.Y, c.Camera.Z = coords[0], coords[1], coords[2]
	return nil
}

// Marshal returns c as TOML
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
