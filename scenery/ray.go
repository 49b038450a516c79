package scenery

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

const rayEpsilon = 1e-7

type Ray struct {
	Origin mgl.Vec3
	Dir    mgl.Vec3
}

func (r Ray) At(t float32) mgl.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectTriangle is the Möller-Trumbore test. front reports whether the
// ray hit the counter-clockwise side of (a, b, c).
func (r Ray) IntersectTriangle(a, b, c mgl.Vec3) (t, u, v float32, front, ok bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	p := r.Dir.Cross(edge2)
	det := edge1.Dot(p)
	if det > -rayEpsilon && det < rayEpsilon {
		return 0, 0, 0, false, false
	}
	invDet := 1 / det

	s := r.Origin.Sub(a)
	u = s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false, false
	}
	q := s.Cross(edge1)
	v = r.Dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false, false
	}
	t = edge2.Dot(q) * invDet
	if t < 0 {
		return 0, 0, 0, false, false
	}
	return t, u, v, det > 0, true
}
