package demos

import (
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/xopoww/go-shaderlab/easing"
	"github.com/xopoww/go-shaderlab/gui"
	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/session"
	"github.com/xopoww/go-shaderlab/uniform"
)

func init() {
	Register(&Variant{
		Name:        "lines",
		Description: "eased scrolling lines on a plane with a switchable camera",
		Configure: func(opts *session.Options) {
			opts.Camera = scenery.Perspective
			opts.CameraPosition = mgl.Vec3{0, 0, 2}
			opts.TimeStep = 0.01
			opts.Pointer = session.PointerHit
		},
		Build: buildLines,
	})
}

const (
	defaultLineCount = 34
	defaultEasing    = easing.InOutCubic
)

var defaultLineColor = mgl.Vec3{1, 0.54, 0.24}

func buildLines(s *session.Session, env Env) (*scenery.Material, error) {
	material, err := newMaterial("lines", env)
	if err != nil {
		return nil, err
	}
	material.Side = scenery.DoubleSide
	set := material.Uniforms

	if err := bindCommon(s, set, uniform.Vec3); err != nil {
		return nil, fmt.Errorf("lines: %w", err)
	}
	lineCount, err := set.Declare("uLineCount", uniform.Float)
	if err != nil {
		return nil, fmt.Errorf("lines: %w", err)
	}
	color, err := set.Declare("uColor", uniform.Color)
	if err != nil {
		return nil, fmt.Errorf("lines: %w", err)
	}
	mode, err := set.Declare("uEasing", uniform.Int)
	if err != nil {
		return nil, fmt.Errorf("lines: %w", err)
	}

	p := s.Panel
	s.BindFloat(p.AddSlider("lineCount", defaultLineCount, 1, 100, 1), lineCount)
	s.BindColor(p.AddColor("color", defaultLineColor), color)
	s.BindEasing(p.AddChoice("easing", easing.Names(), defaultEasing.String()), mode)
	s.AddCameraControl("camera")

	p.AddSlider("timeStep", s.TimeStep(), 0, 0.1, 0.001).OnChange(func(c *gui.Control) {
		s.SetTimeStep(c.Float())
	})
	p.AddSlider("damping", s.Damping(), 0, 1, 0.01).OnChange(func(c *gui.Control) {
		s.SetDamping(c.Float())
	})
	p.AddToggle("wireframe", material.Wireframe).OnChange(func(c *gui.Control) {
		material.Wireframe = c.Bool()
	})

	s.Scene.Add(scenery.NewMesh("plane", scenery.NewPlaneGeometry(2, 2, 64, 64), material))
	return material, nil
}
