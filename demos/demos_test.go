package demos

import (
	"testing"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xopoww/go-shaderlab/easing"
	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/session"
	"github.com/xopoww/go-shaderlab/uniform"
)

type nopRenderer struct{ draws int }

func (r *nopRenderer) Render(*scenery.Scene, *scenery.Camera) { r.draws++ }

type fakeTexture uint32

func (t fakeTexture) ID() uint32 { return uint32(t) }

type fakeLoader struct{ paths []string }

func (l *fakeLoader) Load(path string) uniform.Texture {
	l.paths = append(l.paths, path)
	return fakeTexture(0)
}

func build(t *testing.T, name string, env Env) (*session.Session, *scenery.Material) {
	t.Helper()
	v, err := Lookup(name)
	require.NoError(t, err)

	opts := session.DefaultOptions()
	v.Configure(&opts)
	s, err := session.New(opts, &nopRenderer{})
	require.NoError(t, err)

	m, err := v.Build(s, env)
	require.NoError(t, err)
	require.Len(t, s.Scene.Meshes(), 1)
	return s, m
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"lines", "noise", "texture"}, Names())

	_, err := Lookup("plasma")
	assert.ErrorIs(t, err, ErrUnknownVariant)

	assert.Panics(t, func() { Register(&Variant{Name: "lines"}) })
}

func TestNoise(t *testing.T) {
	s, m := build(t, "noise", Env{})

	assert.Equal(t, scenery.Orthographic, s.Camera().Kind)
	assert.Equal(t, float32(0.1), s.TimeStep())
	assert.Equal(t, scenery.FrontSide, m.Side)

	for _, p := range noiseParams {
		slot, err := m.Uniforms.Get(p.uniform)
		require.NoError(t, err)
		assert.InDelta(t, 0.1, slot.Float(), 1e-6, p.uniform)
	}
	mouse, err := m.Uniforms.Get("uMouse")
	require.NoError(t, err)
	assert.Equal(t, uniform.Vec2, mouse.Kind())

	require.NoError(t, s.Panel.Set("warpStrength", 0.75))
	warp, _ := m.Uniforms.Lookup("uWarpStrength")
	assert.InDelta(t, 0.75, warp.Float(), 1e-6)
}

func TestNoise_PointerHitsSphere(t *testing.T) {
	s, m := build(t, "noise", Env{})
	mouse, _ := m.Uniforms.Lookup("uMouse")
	require.NotNil(t, mouse)

	w, h := s.Size()
	cx, cy := float64(w)/2, float64(h)/2
	for _, p := range [][2]float64{
		{cx + 3, cy + 2},
		{cx - 0.2*cx, cy},
		{cx, cy - 0.3*cy},
		{cx + 0.25*cx, cy + 0.4*cy},
	} {
		version := mouse.Version()
		s.PointerMove(p[0], p[1])
		require.NotNil(t, s.LastHit(), "pointer at %v", p)
		assert.Equal(t, "sphere", s.LastHit().Mesh.Name)
		assert.Greater(t, mouse.Version(), version)
		assert.Equal(t, s.LastHit().Point.Vec2(), mouse.Vec2())
		// the visible wall faces the camera
		assert.Greater(t, s.LastHit().Point.Z(), float32(0))
	}
}

func TestTexture(t *testing.T) {
	loader := &fakeLoader{}
	s, m := build(t, "texture", Env{Textures: loader, TexturePath: "sh03.png"})

	assert.Equal(t, scenery.Perspective, s.Camera().Kind)
	assert.Equal(t, session.PointerPixels, s.PointerMode())
	assert.Equal(t, []string{"sh03.png"}, loader.paths)

	sampler, err := m.Uniforms.Get("uTexture")
	require.NoError(t, err)
	require.NotNil(t, sampler.Texture())
	assert.Equal(t, uint32(0), sampler.Texture().ID())

	// drawing with a texture that has not arrived yet is fine
	s.Frame()
}

func TestTexture_NoLoader(t *testing.T) {
	_, m := build(t, "texture", Env{})
	sampler, err := m.Uniforms.Get("uTexture")
	require.NoError(t, err)
	assert.Nil(t, sampler.Texture())
}

func TestLines_Scenario(t *testing.T) {
	s, m := build(t, "lines", Env{})
	uTime, _ := m.Uniforms.Lookup("uTime")
	uLineCount, _ := m.Uniforms.Lookup("uLineCount")
	require.NotNil(t, uTime)
	require.NotNil(t, uLineCount)

	assert.Equal(t, float32(0), uTime.Float())
	assert.Equal(t, float32(34), uLineCount.Float())

	for i := 0; i < 10; i++ {
		s.Frame()
	}
	assert.InDelta(t, 0.10, uTime.Float(), 1e-6)

	require.NoError(t, s.Panel.Set("lineCount", 50))
	assert.Equal(t, float32(50), uLineCount.Float())
	assert.InDelta(t, 0.10, uTime.Float(), 1e-6)
}

func TestLines_Controls(t *testing.T) {
	s, m := build(t, "lines", Env{})

	mode, _ := m.Uniforms.Lookup("uEasing")
	assert.Equal(t, int32(defaultEasing), mode.Int())
	require.NoError(t, s.Panel.Set("easing", "easeInSine"))
	assert.Equal(t, int32(easing.InSine), mode.Int())

	require.NoError(t, s.Panel.Set("wireframe", true))
	assert.True(t, m.Wireframe)

	require.NoError(t, s.Panel.Set("timeStep", 0.05))
	assert.InDelta(t, 0.05, s.TimeStep(), 1e-6)

	require.NoError(t, s.Panel.Set("camera", "Orthographic"))
	assert.Equal(t, scenery.Orthographic, s.Camera().Kind)
	require.NoError(t, s.Panel.Set("camera", "Perspective"))
	assert.Equal(t, scenery.Perspective, s.Camera().Kind)
	assert.Equal(t, 1, s.Surface.Len())

	mouse, _ := m.Uniforms.Lookup("uMouse")
	assert.Equal(t, uniform.Vec3, mouse.Kind())
	w, h := s.Size()
	s.PointerMove(float64(w)/2, float64(h)/2)
	require.NotNil(t, s.LastHit())
	assert.True(t, mouse.Vec3().ApproxEqualThreshold(mgl.Vec3{0, 0, 0}, 1e-5))
}
