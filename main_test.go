package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/Treecase/Raytracer/pkg/config"
)

// The reference quad with its normal pointing away from the light, so the
// centre pixel is ambient only
const testWorld = `# test world
-1 -1 0
1 -1 0
-1 1 0
c8 64 32
;
PointLight
0 0 -5
;
`

func writeWorld(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "world.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	return img
}

func TestRenderJob_WorldFile(t *testing.T) {
	dir := t.TempDir()
	job := renderJob{
		cfg:    config.Default(),
		input:  writeWorld(t, dir, testWorld),
		output: filepath.Join(dir, "render.png"),
	}
	require.NoError(t, job.run(context.Background()))

	img := decodePNG(t, job.output)
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())
	assert.Equal(t, color.RGBA{6, 10, 12, 255}, color.RGBAModel.Convert(img.At(50, 50)))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, color.RGBAModel.Convert(img.At(0, 0)))
}

func TestRenderJob_Builtin(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height, cfg.Scale = 20, 10, 2
	job := renderJob{
		cfg:     cfg,
		builtin: "cornell-box",
		output:  filepath.Join(t.TempDir(), "render.bmp"),
	}
	require.NoError(t, job.run(context.Background()))

	file, err := os.Open(job.output)
	require.NoError(t, err)
	defer file.Close()
	img, err := bmp.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds())
}

func TestRenderJob_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		job  renderJob
	}{
		{"missing input", renderJob{cfg: config.Default(), input: filepath.Join(dir, "missing.txt"), output: filepath.Join(dir, "a.png")}},
		{"unknown builtin", renderJob{cfg: config.Default(), builtin: "nope", output: filepath.Join(dir, "b.png")}},
		{"degenerate quad", renderJob{cfg: config.Default(), input: writeWorld(t, dir, "0 0 0\n1 1 1\n2 2 2\n;\n"), output: filepath.Join(dir, "c.png")}},
		{"unknown extension", renderJob{cfg: config.Default(), builtin: "shadow", output: filepath.Join(dir, "d.gif")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.job.run(context.Background()))
			_, err := os.Stat(tt.job.output)
			assert.True(t, os.IsNotExist(err), "no output on failure")
		})
	}
}

func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", path)
}

func TestWatch_RerendersOnChange(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Width, cfg.Height = 10, 10
	job := renderJob{
		cfg:    cfg,
		input:  writeWorld(t, dir, testWorld),
		output: filepath.Join(dir, "render.png"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watch(ctx, job) }()

	waitForFile(t, job.output)
	require.NoError(t, os.Remove(job.output))

	writeWorld(t, dir, testWorld+"\n# edited\n")
	waitForFile(t, job.output)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestConfigCommand(t *testing.T) {
	var out bytes.Buffer
	cmdRoot.SetOut(&out)
	cmdRoot.SetArgs([]string{"config", "--width", "64", "--camera", "1,2,-3"})
	defer cmdRoot.SetArgs(nil)

	require.NoError(t, cmdRoot.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "width = 64")
	assert.Contains(t, out.String(), "z = -3.0")
}

func TestRootCommand_Builtin(t *testing.T) {
	output := filepath.Join(t.TempDir(), "shadow.png")
	cmdRoot.SetArgs([]string{"--builtin", "shadow", "--width", "16", "--height", "12", "--workers", "2", "--camera", "0,0,-5", output})
	defer cmdRoot.SetArgs(nil)

	require.NoError(t, cmdRoot.ExecuteContext(context.Background()))
	assert.Equal(t, image.Rect(0, 0, 16, 12), decodePNG(t, output).Bounds())
}
