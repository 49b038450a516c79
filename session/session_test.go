package session

import (
	"bytes"
	"io"
	"testing"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xopoww/go-shaderlab/controls"
	"github.com/xopoww/go-shaderlab/easing"
	"github.com/xopoww/go-shaderlab/logging"
	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/uniform"
)

type fakeRenderer struct {
	draws   int
	cameras []*scenery.Camera
	// value of the time slot seen by each draw
	times []float32
	time  *uniform.Slot
}

func (r *fakeRenderer) Render(scene *scenery.Scene, camera *scenery.Camera) {
	r.draws++
	r.cameras = append(r.cameras, camera)
	if r.time != nil {
		r.times = append(r.times, r.time.Float())
	}
}

func newTestSession(t *testing.T, opts Options) (*Session, *fakeRenderer, *scenery.Material) {
	t.Helper()
	r := &fakeRenderer{}
	s, err := New(opts, r)
	require.NoError(t, err)

	material := scenery.NewMaterial("test", "", "")
	material.Side = scenery.DoubleSide
	s.Scene.Add(scenery.NewMesh("plane", scenery.NewPlaneGeometry(1, 1, 8, 8), material))
	return s, r, material
}

func TestNew_BadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Width = 0
	_, err := New(opts, &fakeRenderer{})
	assert.ErrorIs(t, err, ErrBadOptions)

	opts = DefaultOptions()
	opts.TimeStep = -1
	_, err = New(opts, &fakeRenderer{})
	assert.ErrorIs(t, err, ErrBadOptions)

	_, err = New(DefaultOptions(), nil)
	assert.ErrorIs(t, err, ErrBadOptions)
}

func TestSessions_DoNotShareState(t *testing.T) {
	a, _, _ := newTestSession(t, DefaultOptions())
	b, _, _ := newTestSession(t, DefaultOptions())
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotSame(t, a.Surface, b.Surface)
	assert.NotSame(t, a.Scene.Meshes()[0].Material.Uniforms, b.Scene.Meshes()[0].Material.Uniforms)
}

func TestFrame_FixedStepAndOrder(t *testing.T) {
	s, r, material := newTestSession(t, DefaultOptions())
	uTime := material.Uniforms.MustDeclare("uTime", uniform.Float)
	require.NoError(t, s.BindTime(uTime))
	r.time = uTime

	for i := 0; i < 5; i++ {
		s.Frame()
	}

	require.Equal(t, 5, r.draws)
	for i, seen := range r.times {
		// the draw sees the time already advanced for its own frame
		assert.InDelta(t, 0.01*float32(i+1), seen, 1e-6)
	}
	for i := 1; i < len(r.times); i++ {
		assert.GreaterOrEqual(t, r.times[i], r.times[i-1])
	}
	assert.Equal(t, uint64(5), s.Frames())
	assert.Same(t, s.Camera(), r.cameras[0])
}

func TestFrame_ControllerBeforeDraw(t *testing.T) {
	s, r, _ := newTestSession(t, DefaultOptions())
	s.SetDamping(0)
	before := s.Camera().Position

	s.Scroll(1)
	// without damping the orbit applies the scroll right away; with damping
	// the next frame integrates it before drawing
	s.SetDamping(0.25)
	s.Scroll(1)
	s.Frame()

	require.Equal(t, 1, r.draws)
	assert.Less(t, r.cameras[0].Position.Len(), before.Len())
}

func TestFrame_NilCameraSkipsDraw(t *testing.T) {
	s, r, _ := newTestSession(t, DefaultOptions())
	s.rig = Rig{}

	s.Frame()
	assert.Equal(t, 0, r.draws)
	assert.InDelta(t, 0.01, s.Time(), 1e-7)
}

func TestScenario_TimeAndLineCount(t *testing.T) {
	s, _, material := newTestSession(t, DefaultOptions())
	uTime := material.Uniforms.MustDeclare("uTime", uniform.Float)
	uLineCount := material.Uniforms.MustDeclare("uLineCount", uniform.Float)
	require.NoError(t, s.BindTime(uTime))
	lineCount := s.Panel.AddSlider("lineCount", 34, 1, 100, 1)
	s.BindFloat(lineCount, uLineCount)
	assert.Equal(t, float32(0), uTime.Float())
	assert.Equal(t, float32(34), uLineCount.Float())

	for i := 0; i < 10; i++ {
		s.Frame()
	}
	assert.InDelta(t, 0.10, uTime.Float(), 1e-6)

	timeVersion := uTime.Version()
	require.NoError(t, lineCount.SetFloat(50))
	assert.Equal(t, float32(50), uLineCount.Float())
	assert.InDelta(t, 0.10, uTime.Float(), 1e-6)
	assert.Equal(t, timeVersion, uTime.Version())
}

func TestBind_NoCrossTalk(t *testing.T) {
	s, _, material := newTestSession(t, DefaultOptions())
	set := material.Uniforms
	strength := set.MustDeclare("uStrength", uniform.Float)
	warp := set.MustDeclare("uWarpStrength", uniform.Float)
	clr := set.MustDeclare("uColor", uniform.Color)
	mode := set.MustDeclare("uEasing", uniform.Int)

	s.BindFloat(s.Panel.AddSlider("strength", 0.1, 0, 2, 0.001), strength)
	s.BindFloat(s.Panel.AddSlider("warpStrength", 0.1, 0, 2, 0.001), warp)
	s.BindColor(s.Panel.AddColor("color", mgl.Vec3{1, 1, 1}), clr)
	s.BindEasing(s.Panel.AddChoice("easing", easing.Names(), "linear"), mode)

	before := set.Versions()
	require.NoError(t, s.Panel.Set("warpStrength", 0.5))
	after := set.Versions()

	for name, v := range after {
		if name == "uWarpStrength" {
			assert.Equal(t, before[name]+1, v)
		} else {
			assert.Equal(t, before[name], v, name)
		}
	}
	assert.InDelta(t, 0.5, warp.Float(), 1e-6)
	assert.InDelta(t, 0.1, strength.Float(), 1e-6)

	require.NoError(t, s.Panel.Set("easing", "easeOutCubic"))
	assert.Equal(t, int32(easing.OutCubic), mode.Int())
}

func TestBindEasing_UnknownFallsBack(t *testing.T) {
	s, _, material := newTestSession(t, DefaultOptions())
	mode := material.Uniforms.MustDeclare("uEasing", uniform.Int)
	s.BindEasing(s.Panel.AddChoice("easing", []string{"linear", "easeInBounce"}, "linear"), mode)
	assert.Equal(t, int32(easing.Linear), mode.Int())

	require.NoError(t, s.Panel.Set("easing", "easeInBounce"))
	assert.Equal(t, int32(easing.Fallback), mode.Int())
}

func TestResize(t *testing.T) {
	s, _, material := newTestSession(t, DefaultOptions())
	res := material.Uniforms.MustDeclare("uResolution", uniform.Vec2)
	require.NoError(t, s.BindResolution(res))
	assert.Equal(t, mgl.Vec2{1280, 720}, res.Vec2())

	s.Resize(800, 600)
	assert.Equal(t, mgl.Vec2{800, 600}, res.Vec2())
	want := mgl.Perspective(mgl.DegToRad(75), 800.0/600.0, 0.1, 1000)
	assert.True(t, s.Camera().Projection().ApproxEqual(want))

	projection := s.Camera().Projection()
	s.Resize(800, 600)
	assert.Equal(t, projection, s.Camera().Projection(), "resizing twice to the same size is idempotent")
	assert.Equal(t, mgl.Vec2{800, 600}, res.Vec2())

	s.Resize(0, 0)
	assert.Equal(t, mgl.Vec2{800, 600}, res.Vec2())
	w, h := s.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, 800, s.Surface.Width)
}

func TestResize_Orthographic(t *testing.T) {
	opts := DefaultOptions()
	opts.Camera = scenery.Orthographic
	s, _, _ := newTestSession(t, opts)

	s.Resize(1000, 500)
	left, right, top, bottom := s.Camera().Extents()
	assert.InDelta(t, -1.0, left, 1e-6)
	assert.InDelta(t, 1.0, right, 1e-6)
	assert.InDelta(t, 0.5, top, 1e-6)
	assert.InDelta(t, -0.5, bottom, 1e-6)
}

func TestPointerMove_HitStoresNearest(t *testing.T) {
	s, _, material := newTestSession(t, DefaultOptions())
	behind := scenery.NewMesh("behind", scenery.NewPlaneGeometry(4, 4, 1, 1), material)
	behind.Model = mgl.Translate3D(0, 0, -1)
	s.Scene.Add(behind)

	mouse := material.Uniforms.MustDeclare("uMouse", uniform.Vec3)
	require.NoError(t, s.BindPointer(mouse))

	s.PointerMove(640, 360)
	require.NotNil(t, s.LastHit())
	assert.Equal(t, "plane", s.LastHit().Mesh.Name)
	assert.True(t, mouse.Vec3().ApproxEqualThreshold(mgl.Vec3{0, 0, 0}, 1e-5))
}

func TestSlotWriteFailuresAreLogged(t *testing.T) {
	var errOut bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = logging.NewLogger(io.Discard, &errOut, "test", false)
	s, _, material := newTestSession(t, opts)

	// slots of the wrong kind, placed past the Bind checks
	s.timeSlot = material.Uniforms.MustDeclare("uTime", uniform.Vec2)
	s.resolution = material.Uniforms.MustDeclare("uResolution", uniform.Float)
	s.pointerSlot = material.Uniforms.MustDeclare("uMouse", uniform.Float)

	s.Frame()
	s.ResetTime()
	s.Resize(800, 600)
	s.PointerMove(400, 300)

	logged := errOut.String()
	assert.Contains(t, logged, "frame 0: uTime")
	assert.Contains(t, logged, "reset time: uTime")
	assert.Contains(t, logged, "resize: uResolution")
	assert.Contains(t, logged, "pointer: uMouse")
	assert.Equal(t, 4, bytes.Count(errOut.Bytes(), []byte("ERROR")))
}

func TestPointerMove_MissKeepsValue(t *testing.T) {
	s, _, material := newTestSession(t, DefaultOptions())
	mouse := material.Uniforms.MustDeclare("uMouse", uniform.Vec2)
	require.NoError(t, s.BindPointer(mouse))

	s.PointerMove(700, 400)
	hit := mouse.Vec2()
	version := mouse.Version()
	require.NotEqual(t, mgl.Vec2{}, hit)

	// the unit plane at distance 1 does not reach the window corner
	s.PointerMove(1, 1)
	assert.Equal(t, hit, mouse.Vec2())
	assert.Equal(t, version, mouse.Version())
}

func TestPointerMove_Pixels(t *testing.T) {
	opts := DefaultOptions()
	opts.Pointer = PointerPixels
	s, _, material := newTestSession(t, opts)
	mouse := material.Uniforms.MustDeclare("uMouse", uniform.Vec2)
	require.NoError(t, s.BindPointer(mouse))

	s.PointerMove(650, 370)
	assert.Equal(t, mgl.Vec2{650, 370}, mouse.Vec2())

	s.PointerMove(2, 3)
	assert.Equal(t, mgl.Vec2{650, 370}, mouse.Vec2(), "pixels are only stored on a hit")
}

func TestPointerMove_None(t *testing.T) {
	opts := DefaultOptions()
	opts.Pointer = PointerNone
	s, _, material := newTestSession(t, opts)
	mouse := material.Uniforms.MustDeclare("uMouse", uniform.Vec2)
	require.NoError(t, s.BindPointer(mouse))

	s.PointerMove(640, 360)
	assert.Equal(t, uint64(0), mouse.Version())
}

func TestBindPointer_WrongKind(t *testing.T) {
	s, _, material := newTestSession(t, DefaultOptions())
	f := material.Uniforms.MustDeclare("uTime", uniform.Float)
	assert.ErrorIs(t, s.BindPointer(f), uniform.ErrKindMismatch)
}

func TestSwitchCamera_SingleController(t *testing.T) {
	s, r, _ := newTestSession(t, DefaultOptions())
	s.Camera().Position = mgl.Vec3{0.5, 0.5, 2}
	first := s.Controls().(*controls.Orbit)
	first.Target = mgl.Vec3{0.1, 0, 0}

	s.SwitchCamera(scenery.Orthographic)
	require.Equal(t, scenery.Orthographic, s.Camera().Kind)
	assert.True(t, first.Disposed())
	assert.Equal(t, mgl.Vec3{0.5, 0.5, 2}, s.Camera().Position)
	second := s.Controls().(*controls.Orbit)
	assert.Equal(t, mgl.Vec3{0.1, 0, 0}, second.Target)

	s.SwitchCamera(scenery.Perspective)
	assert.True(t, second.Disposed())
	for i := 0; i < 5; i++ {
		s.SwitchCamera(scenery.Orthographic)
		s.SwitchCamera(scenery.Perspective)
	}

	assert.Equal(t, 1, s.Surface.Len())
	assert.Same(t, s.Camera(), s.Controls().Camera())
	assert.False(t, s.Controls().(*controls.Orbit).Disposed())

	s.Frame()
	assert.Same(t, s.Camera(), r.cameras[len(r.cameras)-1])
}

func TestSwitchCamera_SameKindIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t, DefaultOptions())
	cam, ctl := s.Camera(), s.Controls()
	s.SwitchCamera(scenery.Perspective)
	assert.Same(t, cam, s.Camera())
	assert.Same(t, ctl, s.Controls())
}

func TestPlanSwitch_Pure(t *testing.T) {
	cam := scenery.NewPerspectiveCamera(scenery.DefaultPerspective(), 2)
	surface := controls.NewSurface(200, 100)
	orbit := controls.NewOrbit(cam, surface)
	rig := Rig{Camera: cam, Controls: orbit}

	next, dispose := planSwitch(rig, scenery.Orthographic, 2)
	assert.Equal(t, scenery.Orthographic, next.Kind)
	require.Len(t, dispose, 1)
	assert.Same(t, orbit, dispose[0])
	assert.Equal(t, scenery.Perspective, cam.Kind)
	assert.False(t, orbit.Disposed())
	assert.Equal(t, 1, surface.Len())

	next, dispose = planSwitch(Rig{}, scenery.Orthographic, 2)
	assert.Equal(t, scenery.Orthographic, next.Kind)
	assert.Empty(t, dispose)
}

func TestCameraControl(t *testing.T) {
	s, _, _ := newTestSession(t, DefaultOptions())
	c := s.AddCameraControl("camera")
	assert.Equal(t, "Perspective", c.Choice())

	require.NoError(t, c.SetChoice("Orthographic"))
	assert.Equal(t, scenery.Orthographic, s.Camera().Kind)
	assert.Equal(t, 1, s.Surface.Len())
}

func TestResetTime(t *testing.T) {
	s, _, material := newTestSession(t, DefaultOptions())
	uTime := material.Uniforms.MustDeclare("uTime", uniform.Float)
	require.NoError(t, s.BindTime(uTime))
	s.SetTimeStep(0.1)
	s.Frame()
	s.Frame()
	assert.InDelta(t, 0.2, uTime.Float(), 1e-6)

	s.ResetTime()
	assert.Equal(t, float32(0), uTime.Float())
	s.Frame()
	assert.InDelta(t, 0.1, uTime.Float(), 1e-6)
}

func TestParsePointerMode(t *testing.T) {
	pm, err := ParsePointerMode("pixels")
	require.NoError(t, err)
	assert.Equal(t, PointerPixels, pm)
	_, err = ParsePointerMode("laser")
	assert.Error(t, err)
}
