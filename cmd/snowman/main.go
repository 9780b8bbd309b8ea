package main

import (
	"flag"
	"image"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/google/uuid"

	"github.com/gekko3d/snowman"
	"github.com/gekko3d/snowman/snowrt/app"
	"github.com/gekko3d/snowman/snowrt/core"
	"github.com/gekko3d/snowman/snowrt/shaders"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	shaderDir := flag.String("shaders", "", "Directory of WGSL overrides (enables hot reload)")
	textureDir := flag.String("textures", "", "Directory containing snowflake.png")
	flag.Parse()

	cfg := snowman.DefaultConfig()
	if *configPath != "" {
		loaded, err := snowman.LoadConfig(*configPath)
		if err != nil {
			snowman.NewDefaultLogger("snowman", true).Errorf("%v", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *debug {
		cfg.Debug = true
	}
	if *shaderDir != "" {
		cfg.Assets.ShaderDir = *shaderDir
		cfg.WatchShaders = true
	}
	if *textureDir != "" {
		cfg.Assets.TextureDir = *textureDir
	}

	logger := snowman.NewDefaultLogger("snowman", cfg.Debug)
	logger.Infof("run %s", uuid.NewString())

	if err := glfw.Init(); err != nil {
		logger.Errorf("glfw init: %v", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		logger.Errorf("create window: %v", err)
		os.Exit(1)
	}
	defer window.Destroy()

	src, err := shaders.Load(cfg.Assets.ShaderDir)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	application := app.NewApp(window, logger)
	if err := application.Init(src, loadSprite(cfg, logger), loadAtlas(cfg, logger)); err != nil {
		logger.Errorf("init: %v", err)
		os.Exit(1)
	}
	defer application.Release()

	cfg.Window.Width, cfg.Window.Height = application.FramebufferSize()
	demo, err := snowman.NewDemo(application, cfg, logger)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	if cfg.WatchShaders && cfg.Assets.ShaderDir != "" {
		watcher, err := snowman.WatchShaders(cfg.Assets.ShaderDir, logger)
		if err != nil {
			logger.Warnf("%v", err)
		} else {
			defer watcher.Close()
			demo.WatchReloads(watcher.Reloads)
		}
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		demo.OnResize(width, height)
	})

	var dragging bool
	var lastX, lastY float64
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		dragging = action == glfw.Press
		lastX, lastY = w.GetCursorPos()
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if dragging {
			demo.Orbit(xpos-lastX, ypos-lastY)
		}
		lastX, lastY = xpos, ypos
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		demo.Zoom(yoff)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyUp:
			demo.HandleKey(snowman.KeyUp)
		case glfw.KeyDown:
			demo.HandleKey(snowman.KeyDown)
		case glfw.KeyLeft:
			demo.HandleKey(snowman.KeyLeft)
		case glfw.KeyRight:
			demo.HandleKey(snowman.KeyRight)
		case glfw.KeySpace, glfw.KeyEnter:
			demo.HandleKey(snowman.KeyToggle)
		case glfw.KeyH:
			if action == glfw.Press {
				demo.Panel.Visible = !demo.Panel.Visible
			}
		case glfw.KeyR:
			if action == glfw.Press {
				demo.ReloadShaders()
			}
		}
	})

	last := glfw.GetTime()
	for !window.ShouldClose() {
		glfw.PollEvents()
		now := glfw.GetTime()
		demo.OnUpdate(now - last)
		last = now
		if err := demo.OnRender(); err != nil {
			logger.Warnf("frame skipped: %v", err)
		}
	}
}

func loadSprite(cfg snowman.Config, logger snowman.Logger) *image.RGBA {
	if cfg.Assets.TextureDir != "" {
		path := filepath.Join(cfg.Assets.TextureDir, "snowflake.png")
		img, err := core.LoadSprite(path)
		if err == nil {
			return img
		}
		logger.Warnf("sprite %s: %v, using the procedural snowflake", path, err)
	}
	return core.SnowflakeSprite(64)
}

// A nil atlas runs without the HUD.
func loadAtlas(cfg snowman.Config, logger snowman.Logger) *core.TextAtlas {
	var atlas *core.TextAtlas
	var err error
	if cfg.Assets.FontPath != "" {
		atlas, err = core.LoadTextAtlas(cfg.Assets.FontPath, cfg.Assets.FontSize)
	} else {
		atlas, err = core.NewDefaultTextAtlas(cfg.Assets.FontSize)
	}
	if err != nil {
		logger.Warnf("font: %v", err)
		return nil
	}
	return atlas
}
