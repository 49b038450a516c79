package demos

import (
	"fmt"

	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/session"
	"github.com/xopoww/go-shaderlab/uniform"
)

func init() {
	Register(&Variant{
		Name:        "texture",
		Description: "an image on a rippling plane, rippling around the pointer",
		Configure: func(opts *session.Options) {
			opts.Camera = scenery.Perspective
			opts.TimeStep = 0.01
			opts.Pointer = session.PointerPixels
		},
		Build: buildTexture,
	})
}

func buildTexture(s *session.Session, env Env) (*scenery.Material, error) {
	material, err := newMaterial("texture", env)
	if err != nil {
		return nil, err
	}
	material.Side = scenery.DoubleSide

	if err := bindCommon(s, material.Uniforms, uniform.Vec2); err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	sampler, err := material.Uniforms.Declare("uTexture", uniform.Sampler2D)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	switch {
	case env.Textures == nil:
		s.Log.Warnf("texture: no loader, %s stays unbound", sampler.Name())
	case env.TexturePath == "":
		s.Log.Warnf("texture: no image path, %s stays unbound", sampler.Name())
	default:
		if err := sampler.SetTexture(env.Textures.Load(env.TexturePath)); err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
	}

	s.Scene.Add(scenery.NewMesh("plane", scenery.NewPlaneGeometry(1, 1, 32, 32), material))
	return material, nil
}
