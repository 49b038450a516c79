// Package config reads the TOML settings of a shaderlab run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/xopoww/go-shaderlab/gui"
	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/session"
)

var ErrInvalid = errors.New("invalid config")

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

// Camera settings override the variant's camera. Zero values keep it.
type Camera struct {
	Kind      string    `toml:"kind"`
	FOV       float32   `toml:"fov"`
	OrthoSize float32   `toml:"ortho_size"`
	Near      float32   `toml:"near"`
	Far       float32   `toml:"far"`
	Position  []float32 `toml:"position"`
}

type Controls struct {
	Damping *float32 `toml:"damping"`
}

type Config struct {
	Window   Window   `toml:"window"`
	Variant  string   `toml:"variant"`
	Camera   Camera   `toml:"camera"`
	Controls Controls `toml:"controls"`

	TimeStep *float32 `toml:"time_step"`
	Pointer  string   `toml:"pointer"`

	Texture   string `toml:"texture"`
	ShaderDir string `toml:"shader_dir"`
	Debug     bool   `toml:"debug"`

	// initial panel values by control name
	Params map[string]any `toml:"params"`
}

func Defaults() Config {
	return Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "shaderlab",
			VSync:  true,
		},
		Variant: "lines",
		Texture: "sh03.png",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalid))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Variant == "" {
		invalid("no variant")
	}
	if c.Camera.Kind != "" {
		if _, err := scenery.ParseCameraKind(c.Camera.Kind); err != nil {
			invalid("camera: %s", err)
		}
	}
	if c.Camera.FOV < 0 || c.Camera.FOV >= 180 {
		invalid("camera fov %v", c.Camera.FOV)
	}
	if c.Camera.OrthoSize < 0 {
		invalid("camera ortho_size %v", c.Camera.OrthoSize)
	}
	if c.Camera.Near < 0 || c.Camera.Far < 0 || (c.Camera.Far > 0 && c.Camera.Near >= c.Camera.Far) {
		invalid("camera near %v far %v", c.Camera.Near, c.Camera.Far)
	}
	if n := len(c.Camera.Position); n != 0 && n != 3 {
		invalid("camera position has %d components", n)
	}
	if d := c.Controls.Damping; d != nil && (*d < 0 || *d >= 1) {
		invalid("controls damping %v", *d)
	}
	if c.TimeStep != nil && *c.TimeStep < 0 {
		invalid("time_step %v", *c.TimeStep)
	}
	if _, err := session.ParsePointerMode(c.Pointer); err != nil {
		invalid("%s", err)
	}
	return errors.Join(errs...)
}

// Apply writes the settings that are present into opts. Call it after the
// variant has configured opts so the file wins.
func (c Config) Apply(opts *session.Options) {
	opts.Width, opts.Height = c.Window.Width, c.Window.Height

	if kind, err := scenery.ParseCameraKind(c.Camera.Kind); err == nil {
		opts.Camera = kind
	}
	if c.Camera.FOV > 0 {
		opts.Perspective.FOV = c.Camera.FOV
	}
	if c.Camera.OrthoSize > 0 {
		opts.Orthographic.HalfHeight = c.Camera.OrthoSize
	}
	if c.Camera.Near > 0 {
		opts.Perspective.Near = c.Camera.Near
		opts.Orthographic.Near = c.Camera.Near
	}
	if c.Camera.Far > 0 {
		opts.Perspective.Far = c.Camera.Far
		opts.Orthographic.Far = c.Camera.Far
	}
	if p := c.Camera.Position; len(p) == 3 {
		opts.CameraPosition = mgl.Vec3{p[0], p[1], p[2]}
	}
	if c.Controls.Damping != nil {
		opts.Damping = *c.Controls.Damping
	}
	if c.TimeStep != nil {
		opts.TimeStep = *c.TimeStep
	}
	if c.Pointer != "" {
		opts.Pointer, _ = session.ParsePointerMode(c.Pointer)
	}
}

// ApplyParams sets panel controls from the params table in name order.
// Every value is tried; the returned error joins the failures.
func (c Config) ApplyParams(panel *gui.Panel) error {
	names := make([]string, 0, len(c.Params))
	for name := range c.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := panel.Set(name, c.Params[name]); err != nil {
			errs = append(errs, fmt.Errorf("param %w", err))
		}
	}
	return errors.Join(errs...)
}
