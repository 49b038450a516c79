package scenery

import (
	"sort"

	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/xopoww/go-shaderlab/uniform"
)

// Side decides which faces of a mesh are drawn and hit by rays.
type Side int

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

func (s Side) String() string {
	return [...]string{"FrontSide", "BackSide", "DoubleSide"}[s]
}

// Material is a shader program pair with its own uniform storage.
type Material struct {
	Name           string
	VertexSource   string
	FragmentSource string
	Uniforms       *uniform.Set
	Side           Side
	Wireframe      bool

	// bumped whenever the sources change so renderers can recompile
	version uint64
}

func NewMaterial(name, vertexSource, fragmentSource string) *Material {
	return &Material{
		Name:           name,
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		Uniforms:       uniform.NewSet(),
		Side:           FrontSide,
	}
}

// SetSources replaces the shader sources and invalidates compiled programs.
func (m *Material) SetSources(vertexSource, fragmentSource string) {
	m.VertexSource = vertexSource
	m.FragmentSource = fragmentSource
	m.version++
}

func (m *Material) Version() uint64 {
	return m.version
}

type Mesh struct {
	Name     string
	Geometry *Geometry
	Material *Material
	Model    mgl.Mat4
	Visible  bool
}

func NewMesh(name string, geometry *Geometry, material *Material) *Mesh {
	return &Mesh{
		Name:     name,
		Geometry: geometry,
		Material: material,
		Model:    mgl.Ident4(),
		Visible:  true,
	}
}

type Scene struct {
	meshes []*Mesh
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) Add(m *Mesh) {
	s.meshes = append(s.meshes, m)
}

func (s *Scene) Meshes() []*Mesh {
	return s.meshes
}

// Intersection is a ray hit on a mesh triangle.
type Intersection struct {
	Distance float32
	Point    mgl.Vec3
	UV       mgl.Vec2
	Face     int
	Mesh     *Mesh
}

// Raycast tests the ray against every visible mesh and returns the hits
// ordered by distance, nearest first.
func (s *Scene) Raycast(ray Ray) []Intersection {
	var hits []Intersection
	for _, m := range s.meshes {
		if !m.Visible || m.Geometry == nil {
			continue
		}
		hits = append(hits, m.raycast(ray)...)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

func (m *Mesh) raycast(ray Ray) []Intersection {
	side := FrontSide
	if m.Material != nil {
		side = m.Material.Side
	}

	// intersect in local space, report in world space
	inv := m.Model.Inv()
	local := Ray{
		Origin: mgl.TransformCoordinate(ray.Origin, inv),
		Dir:    mgl.TransformNormal(ray.Dir, inv),
	}

	var hits []Intersection
	g := m.Geometry
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		t, u, v, front, ok := local.IntersectTriangle(a, b, c)
		if !ok {
			continue
		}
		if (side == FrontSide && !front) || (side == BackSide && front) {
			continue
		}
		point := mgl.TransformCoordinate(local.At(t), m.Model)
		ia, ib, ic := g.Indices[3*i], g.Indices[3*i+1], g.Indices[3*i+2]
		uv := g.UVs[ia].Mul(1 - u - v).Add(g.UVs[ib].Mul(u)).Add(g.UVs[ic].Mul(v))
		hits = append(hits, Intersection{
			Distance: point.Sub(ray.Origin).Len(),
			Point:    point,
			UV:       uv,
			Face:     i,
			Mesh:     m,
		})
	}
	return hits
}
