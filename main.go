// raytracer renders a world of quads and point lights to an image.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/Treecase/Raytracer/pkg/config"
	"github.com/Treecase/Raytracer/pkg/output"
	"github.com/Treecase/Raytracer/pkg/renderer"
	"github.com/Treecase/Raytracer/pkg/scene"
	"github.com/Treecase/Raytracer/web/server"
)

const (
	defaultInput  = "world.txt"
	defaultOutput = "render.png"
)

var cmdRoot = &cobra.Command{
	Use:   "raytracer [INPUT_FILE] [OUTPUT_FILE]",
	Short: "Render a world of quads and point lights",
	Long: fmt.Sprintf(`Render a world file to an image.

INPUT_FILE defaults to '%s' and may be a world file or a .yaml scene.
OUTPUT_FILE defaults to '%s'; its extension picks the format
(png, bmp, tiff) and s3://bucket/key uploads the image to S3.`, defaultInput, defaultOutput),
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog complains unless the standard flag set counts as parsed
		return flag.CommandLine.Parse(nil)
	},
	RunE: runRender,
}

var (
	configPath  string
	width       int
	height      int
	cameraPos   string
	focalLength float64
	workers     int
	scale       int
	format      string
	builtin     string
	watchInput  bool
)

func init() {
	cmdRoot.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmdRoot.PersistentFlags().StringVar(&configPath, "config", "", "TOML file with render settings")

	// Settings flags are persistent so "config" reports them too
	flags := cmdRoot.PersistentFlags()
	flags.IntVar(&width, "width", renderer.DefaultWidth, "Image width in pixels")
	flags.IntVar(&height, "height", renderer.DefaultHeight, "Image height in pixels")
	flags.StringVar(&cameraPos, "camera", "", "Camera position as x,y,z (default 0,0,-5)")
	flags.Float64Var(&focalLength, "focal-length", renderer.DefaultFocalLength, "Distance from the camera to the image plane")
	flags.IntVar(&workers, "workers", 0, "Rows rendered concurrently (0 = one per CPU)")
	flags.IntVar(&scale, "scale", 1, "Integer upscale factor for the written image")
	flags.StringVar(&format, "format", "", "Output format: png, bmp or tiff (default from OUTPUT_FILE)")
	cmdRoot.Flags().StringVar(&builtin, "builtin", "", fmt.Sprintf("Render a built-in scene instead of INPUT_FILE, one of %v", scene.BuiltinNames()))
	cmdRoot.Flags().BoolVar(&watchInput, "watch", false, "Re-render whenever INPUT_FILE changes")
}

var (
	servePort      int
	serveScenesDir string
)

var cmdServe = &cobra.Command{
	Use:   "serve",
	Short: "Serve renders over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		webServer := server.NewServer(servePort, serveScenesDir)
		glog.Infof("Visit http://localhost:%d to start rendering", servePort)
		return webServer.Start()
	},
}

func init() {
	cmdServe.Flags().IntVar(&servePort, "port", 8080, "Port to serve on")
	cmdServe.Flags().StringVar(&serveScenesDir, "scenes", "scenes", "Directory of scene files offered by the server")

	cmdRoot.AddCommand(cmdServe, cmdConfig)
}

var cmdConfig = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// loadConfig builds the settings from defaults, the --config file and any
// flags set explicitly on cmd
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("camera") {
		if err := cfg.SetCamera(cameraPos); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("focal-length") {
		cfg.Camera.FocalLength = focalLength
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}

	return cfg, cfg.Validate()
}

// renderJob is one input rendered to one output with fixed settings
type renderJob struct {
	cfg     config.Config
	input   string
	builtin string
	output  string
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	job := renderJob{cfg: cfg, input: defaultInput, builtin: builtin, output: defaultOutput}
	if job.builtin != "" {
		// With --builtin the only argument is the output
		if len(args) > 1 {
			return errors.New("INPUT_FILE and --builtin are mutually exclusive")
		}
		if watchInput {
			return errors.New("--watch needs an INPUT_FILE, not --builtin")
		}
		if len(args) == 1 {
			job.output = args[0]
		}
	} else {
		if len(args) > 0 {
			job.input = args[0]
		}
		if len(args) > 1 {
			job.output = args[1]
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchInput {
		return watch(ctx, job)
	}
	return job.run(ctx)
}

// run loads the scene, renders it and writes the image
func (job renderJob) run(ctx context.Context) error {
	var s *scene.Scene
	var err error
	if job.builtin != "" {
		s, err = scene.NewBuiltin(job.builtin)
	} else {
		s, err = scene.LoadFile(job.input)
	}
	if err != nil {
		return err
	}

	rt, err := renderer.NewRaytracer(s, job.cfg.NewCamera(), job.cfg.Width, job.cfg.Height,
		renderer.WithWorkers(job.cfg.Workers),
		renderer.WithLogger(renderer.NewGlogLogger(1)))
	if err != nil {
		return err
	}
	fb, stats, err := rt.Render(ctx)
	if err != nil {
		return err
	}
	if stats.OverflowPixels > 0 {
		glog.Warningf("%d pixels exceed 255 and are clamped in the image", stats.OverflowPixels)
	}

	opts, err := job.cfg.OutputOptions()
	if err != nil {
		return err
	}
	if err := output.WriteFile(ctx, fb, job.output, opts); err != nil {
		return err
	}

	glog.Infof("Render saved as %s", job.output)
	return nil
}

// watch renders job once and again on every change to its input file until
// ctx is cancelled. Render errors are logged so a half-edited file does not
// end the session.
func watch(ctx context.Context, job renderJob) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("while creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory
	dir := filepath.Dir(job.input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("while watching %s: %w", dir, err)
	}
	target := filepath.Clean(job.input)

	if err := job.run(ctx); err != nil {
		glog.Errorf("Render failed: %v", err)
	}
	glog.Infof("Watching %s for changes", job.input)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			glog.V(1).Infof("%s changed (%v)", event.Name, event.Op)
			if err := job.run(ctx); err != nil {
				glog.Errorf("Render failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			glog.Errorf("Watch error: %v", err)
		}
	}
}

func main() {
	glog.CopyStandardLogTo("INFO")
	defer glog.Flush()

	if err := cmdRoot.Execute(); err != nil {
		glog.Flush()
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
