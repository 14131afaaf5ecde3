package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Treecase/Raytracer/pkg/core"
	"github.com/Treecase/Raytracer/pkg/output"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raytracer.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
	camera := cfg.NewCamera()
	assert.Equal(t, core.NewVec3(0, 0, -5), camera.Origin)
	assert.Equal(t, 1.0, camera.FocalLength)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
width = 320
height = 240
scale = 2

[camera]
z = -8.0
focal_length = 1.5

[output]
format = "bmp"
s3_region = "eu-west-1"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	expected := Default()
	expected.Width = 320
	expected.Height = 240
	expected.Scale = 2
	expected.Camera.Z = -8
	expected.Camera.FocalLength = 1.5
	expected.Output = OutputConfig{Format: "bmp", S3Region: "eu-west-1"}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	opts, err := cfg.OutputOptions()
	require.NoError(t, err)
	assert.Equal(t, output.BMP, opts.Format)
	assert.Equal(t, 2, opts.Scale)
	assert.Equal(t, "eu-west-1", opts.S3Region)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"unknown key", "samples = 4\n", "samples"},
		{"wrong type", "width = \"wide\"\n", "raytracer.toml"},
		{"invalid size", "width = 0\n", "image size"},
		{"invalid scale", "scale = 0\n", "scale"},
		{"negative workers", "workers = -1\n", "workers"},
		{"unknown format", "[output]\nformat = \"gif\"\n", "unsupported image format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetCamera(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetCamera("1, -2.5,3"))
	assert.Equal(t, core.NewVec3(1, -2.5, 3), cfg.NewCamera().Origin)

	assert.Error(t, cfg.SetCamera("1,2"))
	assert.Error(t, cfg.SetCamera("1,y,3"))
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "tiff"

	data, err := cfg.Marshal()
	require.NoError(t, err)

	loaded, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
