package scenery

import (
	"testing"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamera_PerspectiveRatio(t *testing.T) {
	cam := NewPerspectiveCamera(DefaultPerspective(), 1)
	cam.SetRatio(1280.0 / 720.0)

	want := mgl.Perspective(mgl.DegToRad(75), 1280.0/720.0, 0.1, 1000)
	assert.True(t, cam.Projection().ApproxEqual(want))
}

func TestCamera_OrthographicExtents(t *testing.T) {
	cam := NewOrthographicCamera(DefaultOrthographic(), 2)
	left, right, top, bottom := cam.Extents()
	assert.InDelta(t, -1.0, left, 1e-6)
	assert.InDelta(t, 1.0, right, 1e-6)
	assert.InDelta(t, 0.5, top, 1e-6)
	assert.InDelta(t, -0.5, bottom, 1e-6)

	cam.Zoom = 2
	cam.UpdateProjection()
	left, right, _, _ = cam.Extents()
	assert.InDelta(t, -0.5, left, 1e-6)
	assert.InDelta(t, 0.5, right, 1e-6)
	assert.True(t, cam.Projection().ApproxEqual(mgl.Ortho(-0.5, 0.5, -0.25, 0.25, 0.1, 1000)))
}

func TestCamera_Clone(t *testing.T) {
	cam := NewPerspectiveCamera(DefaultPerspective(), 1.5)
	cam.Position = mgl.Vec3{1, 2, 3}

	ortho := cam.Clone(Orthographic)
	assert.Equal(t, Orthographic, ortho.Kind)
	assert.Equal(t, cam.Position, ortho.Position)
	assert.Equal(t, cam.Lookat, ortho.Lookat)
	assert.Equal(t, Perspective, cam.Kind)
	assert.False(t, cam.Projection().ApproxEqual(ortho.Projection()))
}

func TestParseCameraKind(t *testing.T) {
	kind, err := ParseCameraKind("orthographic")
	require.NoError(t, err)
	assert.Equal(t, Orthographic, kind)

	_, err = ParseCameraKind("fisheye")
	assert.Error(t, err)
}

func TestCamera_RayFromNDC(t *testing.T) {
	cam := NewPerspectiveCamera(DefaultPerspective(), 1)
	ray := cam.RayFromNDC(mgl.Vec2{0, 0})
	assert.True(t, ray.Origin.ApproxEqual(mgl.Vec3{0, 0, 1}))
	assert.True(t, ray.Dir.ApproxEqualThreshold(mgl.Vec3{0, 0, -1}, 1e-4))

	ortho := NewOrthographicCamera(DefaultOrthographic(), 1)
	ray = ortho.RayFromNDC(mgl.Vec2{1, 1})
	assert.InDelta(t, 0.5, ray.Origin.X(), 1e-4)
	assert.InDelta(t, 0.5, ray.Origin.Y(), 1e-4)
	assert.True(t, ray.Dir.ApproxEqual(mgl.Vec3{0, 0, -1}))
}

func TestRay_IntersectTriangle(t *testing.T) {
	a, b, c := mgl.Vec3{-1, -1, 0}, mgl.Vec3{1, -1, 0}, mgl.Vec3{0, 1, 0}

	tt, _, _, front, ok := Ray{Origin: mgl.Vec3{0, 0, 5}, Dir: mgl.Vec3{0, 0, -1}}.IntersectTriangle(a, b, c)
	require.True(t, ok)
	assert.True(t, front)
	assert.InDelta(t, 5.0, tt, 1e-6)

	_, _, _, front, ok = Ray{Origin: mgl.Vec3{0, 0, -5}, Dir: mgl.Vec3{0, 0, 1}}.IntersectTriangle(a, b, c)
	require.True(t, ok)
	assert.False(t, front)

	_, _, _, _, ok = Ray{Origin: mgl.Vec3{3, 3, 5}, Dir: mgl.Vec3{0, 0, -1}}.IntersectTriangle(a, b, c)
	assert.False(t, ok)

	_, _, _, _, ok = Ray{Origin: mgl.Vec3{0, 0, 5}, Dir: mgl.Vec3{0, 0, 1}}.IntersectTriangle(a, b, c)
	assert.False(t, ok, "triangle is behind the ray")
}

func TestPlaneGeometry(t *testing.T) {
	g := NewPlaneGeometry(1, 1, 32, 32)
	assert.Len(t, g.Positions, 33*33)
	assert.Equal(t, 32*32*2, g.TriangleCount())
	assert.Len(t, g.Interleaved(), 33*33*VertexStride)
}

func TestSphereGeometry(t *testing.T) {
	g := NewSphereGeometry(2.5, 32, 32)
	assert.Len(t, g.Positions, 33*33)
	// pole rows contribute one triangle per segment instead of two
	assert.Equal(t, 32*32*2-2*32, g.TriangleCount())
	for _, p := range g.Positions {
		assert.InDelta(t, 2.5, p.Len(), 1e-4)
	}
}

func TestScene_RaycastNearestFirst(t *testing.T) {
	scene := NewScene()
	material := NewMaterial("test", "", "")
	material.Side = DoubleSide

	far := NewMesh("far", NewPlaneGeometry(2, 2, 1, 1), material)
	far.Model = mgl.Translate3D(0, 0, -3)
	near := NewMesh("near", NewPlaneGeometry(2, 2, 1, 1), material)
	scene.Add(far)
	scene.Add(near)

	hits := scene.Raycast(Ray{Origin: mgl.Vec3{0.1, 0.2, 5}, Dir: mgl.Vec3{0, 0, -1}})
	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0].Mesh)
	assert.InDelta(t, 5.0, hits[0].Distance, 1e-5)
	assert.True(t, hits[0].Point.ApproxEqual(mgl.Vec3{0.1, 0.2, 0}))
	assert.Same(t, far, hits[1].Mesh)
	assert.True(t, hits[1].Point.ApproxEqualThreshold(mgl.Vec3{0.1, 0.2, -3}, 1e-5))
}

func TestScene_RaycastSphereFrontSide(t *testing.T) {
	scene := NewScene()
	sphere := NewMesh("sphere", NewSphereGeometry(2.5, 32, 32), NewMaterial("noise", "", ""))
	scene.Add(sphere)

	hits := scene.Raycast(Ray{Origin: mgl.Vec3{0.013, 0.021, 10}, Dir: mgl.Vec3{0, 0, -1}})
	require.Len(t, hits, 1, "only the outward facing wall is hit")
	assert.InDelta(t, 2.5, hits[0].Point.Z(), 0.05)

	sphere.Material.Side = DoubleSide
	hits = scene.Raycast(Ray{Origin: mgl.Vec3{0.013, 0.021, 10}, Dir: mgl.Vec3{0, 0, -1}})
	require.Len(t, hits, 2)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
}

func TestScene_RaycastMiss(t *testing.T) {
	scene := NewScene()
	scene.Add(NewMesh("plane", NewPlaneGeometry(1, 1, 4, 4), NewMaterial("test", "", "")))

	hits := scene.Raycast(Ray{Origin: mgl.Vec3{3, 3, 1}, Dir: mgl.Vec3{0, 0, -1}})
	assert.Empty(t, hits)
}

func TestScene_RaycastUV(t *testing.T) {
	scene := NewScene()
	scene.Add(NewMesh("plane", NewPlaneGeometry(1, 1, 1, 1), NewMaterial("test", "", "")))

	hits := scene.Raycast(Ray{Origin: mgl.Vec3{0.25, -0.25, 1}, Dir: mgl.Vec3{0, 0, -1}})
	require.Len(t, hits, 1)
	assert.True(t, hits[0].UV.ApproxEqualThreshold(mgl.Vec2{0.75, 0.25}, 1e-5))
}

func TestMaterial_SetSources(t *testing.T) {
	m := NewMaterial("lines", "v", "f")
	m.SetSources("v2", "f2")
	assert.Equal(t, uint64(1), m.Version())
	assert.Equal(t, "f2", m.FragmentSource)
}
