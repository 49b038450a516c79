package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/xopoww/go-shaderlab/app"
	"github.com/xopoww/go-shaderlab/assets"
	"github.com/xopoww/go-shaderlab/config"
	"github.com/xopoww/go-shaderlab/demos"
	"github.com/xopoww/go-shaderlab/glutils"
	"github.com/xopoww/go-shaderlab/logging"
	"github.com/xopoww/go-shaderlab/render"
	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/session"
	"github.com/xopoww/go-shaderlab/shaders"
	"github.com/xopoww/go-shaderlab/watch"
)

func init() {
	// This is needed to arrange that main() runs on main thread.
	// See documentation for functions that are only allowed to be called from the main thread.
	runtime.LockOSThread()
}

var (
	configPath = flag.String("config", "", "TOML config `file`")
	variant    = flag.String("variant", "", "demo to run: "+strings.Join(demos.Names(), ", "))
	width      = flag.Int("width", 0, "window width, overrides the config")
	height     = flag.Int("height", 0, "window height, overrides the config")
	debug      = flag.Bool("debug", false, "log debug messages")
)

func loadConfig() config.Config {
	cfg := config.Defaults()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %s", err)
		}
	}
	if *variant != "" {
		cfg.Variant = *variant
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	cfg.Debug = cfg.Debug || *debug
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Bad config: %s", err)
	}
	return cfg
}

func main() {
	flag.Parse()
	cfg := loadConfig()

	logger := logging.NewDefaultLogger("shaderlab", cfg.Debug)

	demo, err := demos.Lookup(cfg.Variant)
	if err != nil {
		log.Fatalf("Failed to pick a demo: %s", err)
	}

	// Initialize GLFW and GL, create window
	err = glfw.Init()
	if err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	title := fmt.Sprintf("%s - %s", cfg.Window.Title, demo.Name)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, title, nil, nil)
	if err != nil {
		panic(err)
	}
	window.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	// Initialize Glow
	if err := gl.Init(); err != nil {
		panic(err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	logger.Infof("OpenGL version %s", version)

	fbWidth, fbHeight := window.GetFramebufferSize()
	renderer := render.New(fbWidth, fbHeight, logger.With("render"))
	defer renderer.Delete()

	// Build the session: variant presets first, then the config file
	opts := session.DefaultOptions()
	demo.Configure(&opts)
	cfg.Apply(&opts)
	opts.Width, opts.Height = fbWidth, fbHeight
	opts.Logger = logger

	s, err := session.New(opts, renderer)
	if err != nil {
		log.Fatalf("Failed to create a session: %s", err)
	}
	s.Log = logger.With(s.ID.String()[:8])

	loader := assets.NewLoader(logger.With("assets"))
	material, err := demo.Build(s, demos.Env{
		Textures:    loader,
		TexturePath: cfg.Texture,
		ShaderDir:   cfg.ShaderDir,
	})
	if err != nil {
		log.Fatalf("Failed to build demo %q: %s", demo.Name, err)
	}
	if err := cfg.ApplyParams(s.Panel); err != nil {
		s.Log.Warnf("params: %s", err)
	}
	s.Panel.Title = fmt.Sprintf("%s [Tab]", demo.Name)
	if err := renderer.SetPanel(s.Panel); err != nil {
		log.Fatalf("Failed to create the panel overlay: %s", err)
	}

	var watcher *watch.Watcher
	if cfg.ShaderDir != "" {
		watcher, err = watch.New(cfg.ShaderDir, logger.With("watch"), shaders.VertExt, shaders.FragExt)
		if err != nil {
			s.Log.Warnf("Shader hot reload disabled: %s", err)
		} else {
			defer watcher.Close()
		}
	}

	// Init the event handler
	eventHandler := app.NewEventHandler()
	eventHandler.Attach(window, sessionInput{s, renderer})

	screenshotRequested := false
	eventHandler.AddOption(glfw.KeyF3, &screenshotRequested, app.Switch)

	eventHandler.AddAction(glfw.KeyTab, func() { s.Panel.Visible = !s.Panel.Visible })
	eventHandler.AddAction(glfw.KeyUp, s.Panel.SelectPrev)
	eventHandler.AddAction(glfw.KeyDown, s.Panel.SelectNext)
	eventHandler.AddAction(glfw.KeyLeft, func() { s.Panel.Nudge(-1) })
	eventHandler.AddAction(glfw.KeyRight, func() { s.Panel.Nudge(1) })
	eventHandler.AddAction(glfw.KeyR, s.ResetTime)
	eventHandler.AddAction(glfw.KeyC, func() { toggleCamera(s) })
	eventHandler.AddAction(glfw.KeyEscape, func() { window.SetShouldClose(true) })

	// Main loop
	for !window.ShouldClose() {
		loader.Drain(renderer.UploadTexture)
		if watcher != nil {
			reloadShaders(s, watcher, material, cfg.ShaderDir)
		}

		s.Frame()

		// Check for errors
		if err := glutils.CheckError(); err != nil {
			log.Fatalf("Fatal error occured: %s", err)
		}

		// Handle screenshot request
		if screenshotRequested {
			screenshotRequested = false
			takeScreenshot(s.Log, renderer)
		}

		window.SwapBuffers()
		glfw.PollEvents()
	}
}

// sessionInput keeps the renderer viewport in step with the session size.
type sessionInput struct {
	*session.Session
	renderer *render.Renderer
}

func (in sessionInput) Resize(width, height int) {
	in.Session.Resize(width, height)
	in.renderer.Resize(width, height)
}

// toggleCamera goes through the panel when the demo has a camera control
// so the panel shows the current camera.
func toggleCamera(s *session.Session) {
	if c, found := s.Panel.Lookup("camera"); found {
		c.Nudge(1)
		return
	}
	next := scenery.Orthographic
	if s.Camera() != nil && s.Camera().Kind == scenery.Orthographic {
		next = scenery.Perspective
	}
	s.SwitchCamera(next)
}

func reloadShaders(s *session.Session, watcher *watch.Watcher, material *scenery.Material, dir string) {
	for _, path := range watcher.Pending() {
		if shaders.ProgramName(path) != material.Name {
			continue
		}
		vert, frag, err := shaders.Load(dir, material.Name)
		if err != nil {
			s.Log.Errorf("Failed to reload %s: %s", path, err)
			continue
		}
		material.SetSources(vert, frag)
		s.Log.Infof("Reloaded %s", path)
	}
}

func takeScreenshot(logger logging.Logger, renderer *render.Renderer) {
	img, err := renderer.Screenshot()
	if err != nil {
		logger.Errorf("Failed to take a screenshot: %s", err)
		return
	}
	go func(img image.Image) {
		filename := fmt.Sprintf(
			"screenshot_%s.png",
			time.Now().Format("02-01-2006_15-04-05"),
		)

		file, err := os.Create(filename)
		if err != nil {
			logger.Errorf("Failed to save a screenshot: %s", err)
			return
		}
		defer file.Close()

		err = png.Encode(file, img)
		if err != nil {
			logger.Errorf("Failed to save a screenshot: %s", err)
			return
		}

		logger.Infof("Saved a screenshot as %q", filename)
	}(img)
}
