package session

import (
	"errors"
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/xopoww/go-shaderlab/controls"
	"github.com/xopoww/go-shaderlab/gui"
	"github.com/xopoww/go-shaderlab/logging"
	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/uniform"
)

var ErrBadOptions = errors.New("bad session options")

// PointerMode decides what a pointer move stores in the pointer uniform.
type PointerMode int

const (
	PointerNone PointerMode = iota
	// world space point of the nearest hit on the scene
	PointerHit
	// raw window pixel coordinates, written only when the scene is hit
	PointerPixels
)

func (pm PointerMode) String() string {
	return [...]string{"none", "hit", "pixels"}[pm]
}

func ParsePointerMode(s string) (PointerMode, error) {
	switch s {
	case "none", "":
		return PointerNone, nil
	case "hit":
		return PointerHit, nil
	case "pixels":
		return PointerPixels, nil
	}
	return 0, fmt.Errorf("unknown pointer mode %q", s)
}

// Renderer draws one frame of scene as seen by camera.
type Renderer interface {
	Render(scene *scenery.Scene, camera *scenery.Camera)
}

type Options struct {
	Width  int
	Height int

	Camera         scenery.CameraKind
	Perspective    scenery.PerspectiveParams
	Orthographic   scenery.OrthographicParams
	CameraPosition mgl.Vec3

	// added to the time accumulator once per frame
	TimeStep float32
	Pointer  PointerMode
	// zero disables damped motion
	Damping float32

	Logger logging.Logger
}

func DefaultOptions() Options {
	return Options{
		Width:          1280,
		Height:         720,
		Camera:         scenery.Perspective,
		Perspective:    scenery.DefaultPerspective(),
		Orthographic:   scenery.DefaultOrthographic(),
		CameraPosition: mgl.Vec3{0, 0, 1},
		TimeStep:       0.01,
		Pointer:        PointerHit,
		Damping:        0.25,
	}
}

// Rig is the active camera with the controller bound to it.
type Rig struct {
	Camera   *scenery.Camera
	Controls controls.Controller
}

// Session owns everything one running demo mutates. All methods must be
// called from the thread that drives the render loop.
type Session struct {
	ID      uuid.UUID
	Scene   *scenery.Scene
	Panel   *gui.Panel
	Surface *controls.Surface
	Log     logging.Logger

	renderer Renderer
	rig      Rig
	damping  float32

	width  int
	height int

	time   float32
	step   float32
	frames uint64

	pointer     PointerMode
	lastHit     *scenery.Intersection
	timeSlot    *uniform.Slot
	resolution  *uniform.Slot
	pointerSlot *uniform.Slot
}

func New(opts Options, renderer Renderer) (*Session, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("surface %dx%d: %w", opts.Width, opts.Height, ErrBadOptions)
	}
	if opts.TimeStep < 0 {
		return nil, fmt.Errorf("time step %v: %w", opts.TimeStep, ErrBadOptions)
	}
	if renderer == nil {
		return nil, fmt.Errorf("no renderer: %w", ErrBadOptions)
	}

	s := &Session{
		ID:       uuid.New(),
		Scene:    scenery.NewScene(),
		Surface:  controls.NewSurface(opts.Width, opts.Height),
		renderer: renderer,
		damping:  opts.Damping,
		width:    opts.Width,
		height:   opts.Height,
		step:     opts.TimeStep,
		pointer:  opts.Pointer,
	}
	s.Log = opts.Logger
	if s.Log == nil {
		s.Log = logging.NewNopLogger()
	}
	s.Panel = gui.NewPanel("shaderlab")

	var cam *scenery.Camera
	switch opts.Camera {
	case scenery.Orthographic:
		cam = scenery.NewOrthographicCamera(opts.Orthographic, s.ratio())
		cam.Persp = opts.Perspective
	default:
		cam = scenery.NewPerspectiveCamera(opts.Perspective, s.ratio())
		cam.Ortho = opts.Orthographic
	}
	cam.Position = opts.CameraPosition
	s.rig = Rig{Camera: cam}
	s.rig.Controls = s.newControls(cam, cam.Lookat)

	s.Log.Debugf("session %s: %s camera, %dx%d", s.ID, cam.Kind, s.width, s.height)
	return s, nil
}

func (s *Session) ratio() float32 {
	return float32(s.width) / float32(s.height)
}

func (s *Session) newControls(cam *scenery.Camera, target mgl.Vec3) controls.Controller {
	orbit := controls.NewOrbit(cam, s.Surface)
	orbit.Target = target
	orbit.EnableDamping = s.damping > 0
	if s.damping > 0 {
		orbit.DampingFactor = s.damping
	}
	return orbit
}

func (s *Session) Camera() *scenery.Camera        { return s.rig.Camera }
func (s *Session) Controls() controls.Controller  { return s.rig.Controls }
func (s *Session) Time() float32                  { return s.time }
func (s *Session) TimeStep() float32              { return s.step }
func (s *Session) Damping() float32               { return s.damping }
func (s *Session) Frames() uint64                 { return s.frames }
func (s *Session) Size() (int, int)               { return s.width, s.height }
func (s *Session) PointerMode() PointerMode       { return s.pointer }
func (s *Session) LastHit() *scenery.Intersection { return s.lastHit }

func (s *Session) SetTimeStep(step float32) {
	if step < 0 {
		step = 0
	}
	s.step = step
}

func (s *Session) SetPointerMode(pm PointerMode) {
	s.pointer = pm
}

// SetDamping updates the current controller and every controller built
// after a camera switch.
func (s *Session) SetDamping(factor float32) {
	s.damping = factor
	if orbit, ok := s.rig.Controls.(*controls.Orbit); ok {
		orbit.EnableDamping = factor > 0
		if factor > 0 {
			orbit.DampingFactor = factor
		}
	}
}

// BindTime makes slot the destination of the time accumulator.
func (s *Session) BindTime(slot *uniform.Slot) error {
	if err := slot.SetFloat(s.time); err != nil {
		return fmt.Errorf("bind time: %w", err)
	}
	s.timeSlot = slot
	return nil
}

// BindResolution makes slot track the surface size.
func (s *Session) BindResolution(slot *uniform.Slot) error {
	if err := slot.SetVec2(mgl.Vec2{float32(s.width), float32(s.height)}); err != nil {
		return fmt.Errorf("bind resolution: %w", err)
	}
	s.resolution = slot
	return nil
}

// BindPointer makes slot receive pointer moves; it must be a Vec2 or Vec3.
func (s *Session) BindPointer(slot *uniform.Slot) error {
	if k := slot.Kind(); k != uniform.Vec2 && k != uniform.Vec3 {
		return fmt.Errorf("bind pointer to %s %s: %w", k, slot.Name(), uniform.ErrKindMismatch)
	}
	s.pointerSlot = slot
	return nil
}

// Frame advances the session by one display tick: controller motion, then
// exactly one time step, then one draw.
func (s *Session) Frame() {
	if s.rig.Controls != nil {
		s.rig.Controls.Update()
	}

	s.time += s.step
	if s.timeSlot != nil {
		if err := s.timeSlot.SetFloat(s.time); err != nil {
			s.Log.Errorf("frame %d: %s", s.frames, err)
		}
	}
	s.frames++

	if s.rig.Camera == nil {
		s.Log.Debugf("frame %d: no camera, skipped", s.frames)
		return
	}
	s.renderer.Render(s.Scene, s.rig.Camera)
}

// ResetTime rewinds the time accumulator to zero.
func (s *Session) ResetTime() {
	s.time = 0
	if s.timeSlot != nil {
		if err := s.timeSlot.SetFloat(0); err != nil {
			s.Log.Errorf("reset time: %s", err)
		}
	}
	s.Log.Infof("time reset at frame %d", s.frames)
}

// Resize handles a drawing surface size change. Zero sized surfaces
// (minimized windows) are ignored.
func (s *Session) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.Surface.Resize(width, height)
	if s.rig.Camera != nil {
		s.rig.Camera.SetRatio(s.ratio())
	}
	if s.resolution != nil {
		if err := s.resolution.SetVec2(mgl.Vec2{float32(width), float32(height)}); err != nil {
			s.Log.Errorf("resize: %s", err)
		}
	}
}

func (s *Session) PointerDown(b controls.Button, x, y float64) {
	s.Surface.PointerDown(b, x, y)
}

func (s *Session) PointerUp(b controls.Button, x, y float64) {
	s.Surface.PointerUp(b, x, y)
}

func (s *Session) Scroll(dy float64) {
	s.Surface.Scroll(dy)
}

// PointerMove feeds the controller and, when the pointer is over the
// scene, the pointer uniform. A miss leaves the uniform as it was.
func (s *Session) PointerMove(x, y float64) {
	s.Surface.PointerMove(x, y)

	if s.pointer == PointerNone || s.rig.Camera == nil {
		return
	}
	ndc := mgl.Vec2{
		float32(x/float64(s.width))*2 - 1,
		-float32(y/float64(s.height))*2 + 1,
	}
	hits := s.Scene.Raycast(s.rig.Camera.RayFromNDC(ndc))
	if len(hits) == 0 {
		return
	}
	nearest := hits[0]
	s.lastHit = &nearest

	if s.pointerSlot == nil {
		return
	}
	var err error
	switch s.pointer {
	case PointerHit:
		err = s.pointerSlot.SetPoint(nearest.Point)
	case PointerPixels:
		err = s.pointerSlot.SetPoint(mgl.Vec3{float32(x), float32(y), 0})
	}
	if err != nil {
		s.Log.Errorf("pointer: %s", err)
	}
}

// planSwitch computes the camera for kind and the controllers that must be
// released before a new one is attached. It does not touch the rig.
func planSwitch(rig Rig, kind scenery.CameraKind, ratio float32) (next *scenery.Camera, dispose []controls.Controller) {
	if rig.Camera != nil && rig.Camera.Kind == kind {
		return rig.Camera, nil
	}
	if rig.Camera != nil {
		next = rig.Camera.Clone(kind)
	} else if kind == scenery.Orthographic {
		next = scenery.NewOrthographicCamera(scenery.DefaultOrthographic(), ratio)
	} else {
		next = scenery.NewPerspectiveCamera(scenery.DefaultPerspective(), ratio)
	}
	next.SetRatio(ratio)
	if rig.Controls != nil {
		dispose = append(dispose, rig.Controls)
	}
	return next, dispose
}

// SwitchCamera replaces the camera with one of the given kind at the same
// place, releasing the old controller before binding a new one to the same
// surface. Switching to the current kind does nothing.
func (s *Session) SwitchCamera(kind scenery.CameraKind) {
	next, dispose := planSwitch(s.rig, kind, s.ratio())
	if next == s.rig.Camera {
		return
	}

	target := next.Lookat
	if orbit, ok := s.rig.Controls.(*controls.Orbit); ok {
		target = orbit.Target
	}
	for _, c := range dispose {
		c.Dispose()
	}
	s.rig = Rig{Camera: next}
	s.rig.Controls = s.newControls(next, target)
	s.Log.Infof("camera switched to %s", kind)
}
