// Package demos holds the shader demos the program can run. Each variant
// fills a session with one mesh, its uniforms and the panel controls that
// drive them.
package demos

import (
	"errors"
	"fmt"
	"sort"

	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/session"
	"github.com/xopoww/go-shaderlab/shaders"
	"github.com/xopoww/go-shaderlab/uniform"
)

var ErrUnknownVariant = errors.New("unknown variant")

// TextureLoader starts loading the image at path and returns its handle
// right away; the handle reports id 0 until the upload is done.
type TextureLoader interface {
	Load(path string) uniform.Texture
}

type Env struct {
	Textures    TextureLoader
	TexturePath string
	// directory with editable copies of the shaders, may be empty
	ShaderDir string
}

type Variant struct {
	Name        string
	Description string
	// Configure presets session options before the session is created.
	Configure func(opts *session.Options)
	// Build adds the variant's mesh to s and returns its material.
	Build func(s *session.Session, env Env) (*scenery.Material, error)
}

var registry = make(map[string]*Variant)

func Register(v *Variant) {
	if _, found := registry[v.Name]; found {
		panic(fmt.Sprintf("demos: variant %q registered twice", v.Name))
	}
	registry[v.Name] = v
}

func Lookup(name string) (*Variant, error) {
	v, found := registry[name]
	if !found {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownVariant)
	}
	return v, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newMaterial(name string, env Env) (*scenery.Material, error) {
	vert, frag, err := shaders.Load(env.ShaderDir, name)
	if err != nil {
		return nil, err
	}
	return scenery.NewMaterial(name, vert, frag), nil
}

// bindCommon declares the uniforms every demo shader reads: time,
// resolution and the pointer, which is a pointer of the given kind.
func bindCommon(s *session.Session, set *uniform.Set, pointer uniform.Kind) error {
	time, err := set.Declare("uTime", uniform.Float)
	if err != nil {
		return err
	}
	if err := s.BindTime(time); err != nil {
		return err
	}
	resolution, err := set.Declare("uResolution", uniform.Vec2)
	if err != nil {
		return err
	}
	if err := s.BindResolution(resolution); err != nil {
		return err
	}
	mouse, err := set.Declare("uMouse", pointer)
	if err != nil {
		return err
	}
	return s.BindPointer(mouse)
}
