// Command snowshot renders the snowman on the CPU and writes PNG files, one
// per requested strategy.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/anthonynsimon/bild/transform"
	"github.com/google/uuid"

	"github.com/gekko3d/snowman"
	"github.com/gekko3d/snowman/snowrt/soft"
)

func main() {
	configPath := flag.String("config", "", "TOML config file")
	width := flag.Int("width", 640, "Output width")
	height := flag.Int("height", 360, "Output height")
	supersample := flag.Int("ss", 2, "Supersampling factor")
	strategy := flag.String("strategy", "both", "raster, raytrace or both")
	at := flag.Float64("time", 0, "Scene time in seconds (lights and snowfall)")
	out := flag.String("out", "", "Output file prefix (default snowman-<run id>)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger := snowman.NewDefaultLogger("snowshot", *debug)
	if err := run(logger, *configPath, *width, *height, *supersample, *strategy, *at, *out); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(logger snowman.Logger, configPath string, width, height, ss int, strategy string, at float64, out string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	ss = max(ss, 1)

	cfg := snowman.DefaultConfig()
	if configPath != "" {
		loaded, err := snowman.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Window.Width, cfg.Window.Height = width*ss, height*ss

	var modes []bool
	switch strategy {
	case "raster":
		modes = []bool{false}
	case "raytrace":
		modes = []bool{true}
	case "both":
		modes = []bool{false, true}
	default:
		return fmt.Errorf("unknown strategy %q", strategy)
	}
	if out == "" {
		out = "snowman-" + uuid.NewString()
	}

	r := soft.NewRenderer(cfg.Window.Width, cfg.Window.Height)
	demo, err := snowman.NewDemo(r, cfg, logger)
	if err != nil {
		return err
	}
	// Raytracing needs the capability regardless of the file.
	demo.State.Caps.Raytracing = true

	for _, raytracing := range modes {
		demo.State.Settings.Raytracing = raytracing
		demo.State.Time = 0
		demo.OnUpdate(at)
		if err := demo.OnRender(); err != nil {
			return err
		}
		img := r.Image()
		var final image.Image = img
		if ss > 1 {
			final = transform.Resize(img, width, height, transform.Linear)
		}

		label := "raster"
		if raytracing {
			label = "raytrace"
		}
		name := out + "-" + label + ".png"
		if err := writePNG(name, final); err != nil {
			return err
		}
		logger.Infof("wrote %s (%s, %v)", name, label, demo.LastTiming().CPU)
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
