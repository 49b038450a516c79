package controls

import (
	"math"

	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/xopoww/go-shaderlab/scenery"
)

// Controller moves a camera in response to surface input.
type Controller interface {
	// Update integrates pending motion and reports whether the camera moved.
	Update() bool
	// Dispose detaches the controller from its surface for good.
	Dispose()
	Camera() *scenery.Camera
}

const (
	orbitEpsilon = 1e-6
	minPolar     = orbitEpsilon
	maxPolar     = math.Pi - orbitEpsilon
)

type orbitState int

const (
	stateNone orbitState = iota
	stateRotate
	statePan
	stateDolly
)

// Orbit keeps the camera on a sphere around Target: left drag rotates,
// right drag pans, scrolling dollies (or zooms an orthographic camera).
type Orbit struct {
	Target        mgl.Vec3
	Enabled       bool
	EnableDamping bool
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32
	MinDistance   float32
	MaxDistance   float32
	MinZoom       float32
	MaxZoom       float32

	camera  *scenery.Camera
	surface *Surface
	detach  func()

	state        orbitState
	lastX, lastY float64

	deltaTheta float32
	deltaPhi   float32
	scale      float32
	panOffset  mgl.Vec3

	disposed bool
}

// NewOrbit attaches a new orbit controller for camera to surface.
// Both are required; passing nil is a programming error.
func NewOrbit(camera *scenery.Camera, surface *Surface) *Orbit {
	if camera == nil || surface == nil {
		panic("controls: orbit needs a camera and a surface")
	}
	o := &Orbit{
		Target:        camera.Lookat,
		Enabled:       true,
		EnableDamping: true,
		DampingFactor: 0.25,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		MinDistance:   0,
		MaxDistance:   float32(math.Inf(1)),
		MinZoom:       0,
		MaxZoom:       float32(math.Inf(1)),
		camera:        camera,
		surface:       surface,
		scale:         1,
	}
	o.detach = surface.Attach(o)
	return o
}

func (o *Orbit) Camera() *scenery.Camera {
	return o.camera
}

func (o *Orbit) Disposed() bool {
	return o.disposed
}

func (o *Orbit) Dispose() {
	if o.disposed {
		return
	}
	o.detach()
	o.disposed = true
	o.state = stateNone
}

func (o *Orbit) Update() bool {
	if o.disposed {
		return false
	}
	cam := o.camera
	before := cam.Position

	offset := cam.Position.Sub(o.Target)
	radius := offset.Len()
	theta := float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	phi := float32(0)
	if radius > 0 {
		phi = float32(math.Acos(float64(mgl.Clamp(offset.Y()/radius, -1, 1))))
	}

	factor := float32(1)
	if o.EnableDamping {
		factor = o.DampingFactor
	}
	theta += o.deltaTheta * factor
	phi += o.deltaPhi * factor
	phi = mgl.Clamp(phi, minPolar, maxPolar)

	o.Target = o.Target.Add(o.panOffset.Mul(factor))

	if cam.Kind == scenery.Perspective {
		radius = mgl.Clamp(radius*o.scale, o.MinDistance, o.MaxDistance)
	}

	sinPhi := float32(math.Sin(float64(phi)))
	offset = mgl.Vec3{
		radius * sinPhi * float32(math.Sin(float64(theta))),
		radius * float32(math.Cos(float64(phi))),
		radius * sinPhi * float32(math.Cos(float64(theta))),
	}
	cam.Position = o.Target.Add(offset)
	cam.Lookat = o.Target

	if o.EnableDamping {
		o.deltaTheta *= 1 - o.DampingFactor
		o.deltaPhi *= 1 - o.DampingFactor
		o.panOffset = o.panOffset.Mul(1 - o.DampingFactor)
	} else {
		o.deltaTheta = 0
		o.deltaPhi = 0
		o.panOffset = mgl.Vec3{}
	}
	o.scale = 1

	return cam.Position.Sub(before).LenSqr() > orbitEpsilon
}

func (o *Orbit) rotate(dx, dy float64) {
	height := float32(o.surface.Height)
	if height <= 0 {
		return
	}
	o.deltaTheta -= 2 * math.Pi * float32(dx) / height * o.RotateSpeed
	o.deltaPhi -= 2 * math.Pi * float32(dy) / height * o.RotateSpeed
}

func (o *Orbit) pan(dx, dy float64) {
	width, height := float32(o.surface.Width), float32(o.surface.Height)
	if width <= 0 || height <= 0 {
		return
	}
	cam := o.camera
	right := cam.Right()
	up := right.Cross(cam.Forward())

	var panX, panY float32
	switch cam.Kind {
	case scenery.Perspective:
		distance := cam.Position.Sub(o.Target).Len()
		distance *= float32(math.Tan(float64(mgl.DegToRad(cam.Persp.FOV / 2))))
		panX = 2 * float32(dx) * distance / height
		panY = 2 * float32(dy) * distance / height
	case scenery.Orthographic:
		left, rightEdge, top, bottom := cam.Extents()
		panX = float32(dx) * (rightEdge - left) / width
		panY = float32(dy) * (top - bottom) / height
	}
	panX *= o.PanSpeed
	panY *= o.PanSpeed
	o.panOffset = o.panOffset.Add(right.Mul(-panX)).Add(up.Mul(panY))
}

func (o *Orbit) zoomScale() float32 {
	return float32(math.Pow(0.95, float64(o.ZoomSpeed)))
}

// dolly moves toward the target for positive steps and away for negative.
func (o *Orbit) dolly(steps float64) {
	if steps == 0 {
		return
	}
	factor := float32(math.Pow(float64(o.zoomScale()), steps))
	cam := o.camera
	switch cam.Kind {
	case scenery.Perspective:
		o.scale *= factor
	case scenery.Orthographic:
		cam.Zoom = mgl.Clamp(cam.Zoom/factor, o.MinZoom, o.MaxZoom)
		cam.UpdateProjection()
	}
}

func (o *Orbit) active() bool {
	return o.Enabled && !o.disposed
}

func (o *Orbit) PointerDown(b Button, x, y float64) {
	if !o.active() {
		return
	}
	switch b {
	case ButtonLeft:
		o.state = stateRotate
	case ButtonRight:
		o.state = statePan
	case ButtonMiddle:
		o.state = stateDolly
	}
	o.lastX, o.lastY = x, y
}

func (o *Orbit) PointerUp(b Button, x, y float64) {
	o.state = stateNone
}

func (o *Orbit) PointerMove(x, y float64) {
	if !o.active() || o.state == stateNone {
		return
	}
	dx, dy := x-o.lastX, y-o.lastY
	o.lastX, o.lastY = x, y
	switch o.state {
	case stateRotate:
		o.rotate(dx, dy)
	case statePan:
		o.pan(dx, dy)
	case stateDolly:
		o.dolly(-dy / 10)
	}
	if !o.EnableDamping {
		o.Update()
	}
}

func (o *Orbit) Scroll(dy float64) {
	if !o.active() {
		return
	}
	o.dolly(dy)
	if !o.EnableDamping {
		o.Update()
	}
}
