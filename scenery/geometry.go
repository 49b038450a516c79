package scenery

import (
	"math"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// Geometry is an indexed triangle list. Triangles wind counter-clockwise
// when seen from the side their normals point to.
type Geometry struct {
	Positions []mgl.Vec3
	Normals   []mgl.Vec3
	UVs       []mgl.Vec2
	Indices   []uint32
}

// Floats per vertex in Interleaved: position, normal, uv.
const VertexStride = 3 + 3 + 2

func (g *Geometry) Interleaved() []float32 {
	data := make([]float32, 0, len(g.Positions)*VertexStride)
	for i, p := range g.Positions {
		n := g.Normals[i]
		uv := g.UVs[i]
		data = append(data, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return data
}

func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

func (g *Geometry) Triangle(i int) (a, b, c mgl.Vec3) {
	return g.Positions[g.Indices[3*i]], g.Positions[g.Indices[3*i+1]], g.Positions[g.Indices[3*i+2]]
}

// NewPlaneGeometry builds a width x height plane in the XY plane facing +Z,
// centered at the origin.
func NewPlaneGeometry(width, height float32, segW, segH int) *Geometry {
	if segW < 1 {
		segW = 1
	}
	if segH < 1 {
		segH = 1
	}
	g := &Geometry{}
	for iy := 0; iy <= segH; iy++ {
		v := float32(iy) / float32(segH)
		y := height/2 - v*height
		for ix := 0; ix <= segW; ix++ {
			u := float32(ix) / float32(segW)
			x := u*width - width/2
			g.Positions = append(g.Positions, mgl.Vec3{x, y, 0})
			g.Normals = append(g.Normals, mgl.Vec3{0, 0, 1})
			g.UVs = append(g.UVs, mgl.Vec2{u, 1 - v})
		}
	}

	row := uint32(segW + 1)
	for iy := 0; iy < segH; iy++ {
		for ix := 0; ix < segW; ix++ {
			a := uint32(ix) + row*uint32(iy)
			b := uint32(ix) + row*uint32(iy+1)
			c := uint32(ix+1) + row*uint32(iy+1)
			d := uint32(ix+1) + row*uint32(iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}

// NewSphereGeometry builds a UV sphere centered at the origin with outward
// facing triangles.
func NewSphereGeometry(radius float32, segW, segH int) *Geometry {
	if segW < 3 {
		segW = 3
	}
	if segH < 2 {
		segH = 2
	}
	g := &Geometry{}
	for iy := 0; iy <= segH; iy++ {
		v := float64(iy) / float64(segH)
		theta := v * math.Pi
		for ix := 0; ix <= segW; ix++ {
			u := float64(ix) / float64(segW)
			phi := u * 2 * math.Pi
			n := mgl.Vec3{
				float32(-math.Cos(phi) * math.Sin(theta)),
				float32(math.Cos(theta)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			g.Positions = append(g.Positions, n.Mul(radius))
			g.Normals = append(g.Normals, n)
			g.UVs = append(g.UVs, mgl.Vec2{float32(u), float32(1 - v)})
		}
	}

	row := uint32(segW + 1)
	for iy := 0; iy < segH; iy++ {
		for ix := 0; ix < segW; ix++ {
			a := uint32(ix+1) + row*uint32(iy)
			b := uint32(ix) + row*uint32(iy)
			c := uint32(ix) + row*uint32(iy+1)
			d := uint32(ix+1) + row*uint32(iy+1)
			// the pole rows collapse to a point, skip their degenerate half
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != segH-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}
