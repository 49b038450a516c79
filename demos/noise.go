package demos

import (
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/session"
	"github.com/xopoww/go-shaderlab/uniform"
)

func init() {
	Register(&Variant{
		Name:        "noise",
		Description: "warped noise displacing a sphere, seen through an orthographic camera",
		Configure: func(opts *session.Options) {
			opts.Camera = scenery.Orthographic
			// outside the sphere, with the whole of it in view
			opts.CameraPosition = mgl.Vec3{0, 0, 5}
			opts.Orthographic.HalfHeight = 3
			opts.TimeStep = 0.1
			opts.Pointer = session.PointerHit
		},
		Build: buildNoise,
	})
}

var noiseParams = []struct {
	control string
	uniform string
}{
	{"positionFrequency", "uPositionFrequency"},
	{"timeFrequency", "uTimeFrequency"},
	{"strength", "uStrength"},
	{"warpPositionFrequency", "uWarpPositionFrequency"},
	{"warpTimeFrequency", "uWarpTimeFrequency"},
	{"warpStrength", "uWarpStrength"},
}

func buildNoise(s *session.Session, env Env) (*scenery.Material, error) {
	material, err := newMaterial("noise", env)
	if err != nil {
		return nil, err
	}
	material.Side = scenery.FrontSide

	if err := bindCommon(s, material.Uniforms, uniform.Vec2); err != nil {
		return nil, fmt.Errorf("noise: %w", err)
	}
	for _, p := range noiseParams {
		slot, err := material.Uniforms.Declare(p.uniform, uniform.Float)
		if err != nil {
			return nil, fmt.Errorf("noise: %w", err)
		}
		s.BindFloat(s.Panel.AddSlider(p.control, 0.1, 0, 2, 0.001), slot)
	}

	s.Scene.Add(scenery.NewMesh("sphere", scenery.NewSphereGeometry(2.5, 32, 32), material))
	return material, nil
}
