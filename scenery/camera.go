package scenery

import (
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"
)

type CameraKind int

const (
	Perspective CameraKind = iota
	Orthographic
)

func (ck CameraKind) String() string {
	return [...]string{"Perspective", "Orthographic"}[ck]
}

func ParseCameraKind(s string) (CameraKind, error) {
	switch s {
	case "perspective", "Perspective":
		return Perspective, nil
	case "orthographic", "Orthographic", "ortho":
		return Orthographic, nil
	}
	return 0, fmt.Errorf("unknown camera kind %q", s)
}

type PerspectiveParams struct {
	// vertical, in degrees
	FOV  float32
	Near float32
	Far  float32
}

type OrthographicParams struct {
	// half of the visible height at zoom 1; width follows the aspect ratio
	HalfHeight float32
	Near       float32
	Far        float32
}

func DefaultPerspective() PerspectiveParams {
	return PerspectiveParams{FOV: 75, Near: 0.1, Far: 1000}
}

func DefaultOrthographic() OrthographicParams {
	return OrthographicParams{HalfHeight: 0.5, Near: 0.1, Far: 1000}
}

// Camera is either perspective or orthographic; Kind selects which of
// Persp and Ortho is in effect.
type Camera struct {
	Kind  CameraKind
	Persp PerspectiveParams
	Ortho OrthographicParams

	Position mgl.Vec3
	Lookat   mgl.Vec3
	Up       mgl.Vec3
	// width / height
	Ratio float32
	Zoom  float32

	projection mgl.Mat4
}

func NewPerspectiveCamera(params PerspectiveParams, ratio float32) *Camera {
	cam := &Camera{
		Kind:  Perspective,
		Persp: params,
		Ortho: DefaultOrthographic(),
	}
	cam.init(ratio)
	return cam
}

func NewOrthographicCamera(params OrthographicParams, ratio float32) *Camera {
	cam := &Camera{
		Kind:  Orthographic,
		Persp: DefaultPerspective(),
		Ortho: params,
	}
	cam.init(ratio)
	return cam
}

func (cam *Camera) init(ratio float32) {
	cam.Position = mgl.Vec3{0, 0, 1}
	cam.Lookat = mgl.Vec3{0, 0, 0}
	cam.Up = mgl.Vec3{0, 1, 0}
	cam.Ratio = ratio
	cam.Zoom = 1
	cam.UpdateProjection()
}

// SetRatio changes the aspect ratio and recomputes the projection.
func (cam *Camera) SetRatio(ratio float32) {
	cam.Ratio = ratio
	cam.UpdateProjection()
}

// Extents returns the orthographic frustum sides at the current zoom.
func (cam *Camera) Extents() (left, right, top, bottom float32) {
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	halfH := cam.Ortho.HalfHeight / zoom
	halfW := cam.Ortho.HalfHeight * cam.Ratio / zoom
	return -halfW, halfW, halfH, -halfH
}

func (cam *Camera) UpdateProjection() {
	switch cam.Kind {
	case Perspective:
		cam.projection = mgl.Perspective(
			mgl.DegToRad(cam.Persp.FOV), cam.Ratio, cam.Persp.Near, cam.Persp.Far,
		)
	case Orthographic:
		left, right, top, bottom := cam.Extents()
		cam.projection = mgl.Ortho(left, right, bottom, top, cam.Ortho.Near, cam.Ortho.Far)
	}
}

func (cam *Camera) Projection() mgl.Mat4 {
	return cam.projection
}

func (cam *Camera) View() mgl.Mat4 {
	return mgl.LookAtV(cam.Position, cam.Lookat, cam.Up)
}

// Camera.Forward(), Camera.Up and Camera.Right() span the view basis
func (cam *Camera) Forward() mgl.Vec3 {
	return cam.Lookat.Sub(cam.Position).Normalize()
}

func (cam *Camera) Right() mgl.Vec3 {
	return cam.Forward().Cross(cam.Up).Normalize()
}

// RayFromNDC casts a world space ray through a point in normalized
// device coordinates (x and y in [-1, 1], y up).
func (cam *Camera) RayFromNDC(ndc mgl.Vec2) Ray {
	inv := cam.projection.Mul4(cam.View()).Inv()
	near := mgl.TransformCoordinate(mgl.Vec3{ndc.X(), ndc.Y(), -1}, inv)
	far := mgl.TransformCoordinate(mgl.Vec3{ndc.X(), ndc.Y(), 1}, inv)

	switch cam.Kind {
	case Orthographic:
		return Ray{Origin: near, Dir: cam.Forward()}
	default:
		return Ray{Origin: cam.Position, Dir: far.Sub(cam.Position).Normalize()}
	}
}

// Clone returns a camera of the given kind placed exactly like cam.
func (cam *Camera) Clone(kind CameraKind) *Camera {
	next := *cam
	next.Kind = kind
	next.UpdateProjection()
	return &next
}
