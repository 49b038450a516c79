package uniform

import (
	"errors"
	"fmt"
	"strings"

	mgl "github.com/go-gl/mathgl/mgl32"
)

var (
	ErrKindMismatch = errors.New("uniform kind mismatch")
	ErrDuplicate    = errors.New("uniform already declared")
	ErrUnknown      = errors.New("unknown uniform")
)

type Kind int

const (
	Float Kind = iota
	Int
	Vec2
	Vec3
	Vec4
	Color
	Sampler2D
)

func (k Kind) String() string {
	return [...]string{"Float", "Int", "Vec2", "Vec3", "Vec4", "Color", "Sampler2D"}[k]
}

// GLSLType returns the type name used in the uniform declaration.
// Colors are plain vec3 on the shader side.
func (k Kind) GLSLType() string {
	return [...]string{"float", "int", "vec2", "vec3", "vec4", "vec3", "sampler2D"}[k]
}

// Components is the number of float components a vector-like kind carries.
func (k Kind) Components() int {
	switch k {
	case Float:
		return 1
	case Vec2:
		return 2
	case Vec3, Color:
		return 3
	case Vec4:
		return 4
	}
	return 0
}

// Texture is a GPU texture handle that may not be uploaded yet.
// ID returns 0 until the image is on the GPU.
type Texture interface {
	ID() uint32
}

// Slot is a named shader input of a fixed kind.
type Slot struct {
	name    string
	kind    Kind
	vec     mgl.Vec4
	i       int32
	tex     Texture
	version uint64
}

func (s *Slot) Name() string { return s.name }
func (s *Slot) Kind() Kind   { return s.kind }

// Version is bumped on every successful write.
func (s *Slot) Version() uint64 { return s.version }

func (s *Slot) check(kinds ...Kind) error {
	for _, k := range kinds {
		if s.kind == k {
			return nil
		}
	}
	return fmt.Errorf("%s is %s: %w", s.name, s.kind, ErrKindMismatch)
}

func (s *Slot) SetFloat(v float32) error {
	if err := s.check(Float); err != nil {
		return err
	}
	s.vec[0] = v
	s.version++
	return nil
}

func (s *Slot) SetInt(v int32) error {
	if err := s.check(Int); err != nil {
		return err
	}
	s.i = v
	s.version++
	return nil
}

func (s *Slot) SetVec2(v mgl.Vec2) error {
	if err := s.check(Vec2); err != nil {
		return err
	}
	s.vec = mgl.Vec4{v[0], v[1], 0, 0}
	s.version++
	return nil
}

func (s *Slot) SetVec3(v mgl.Vec3) error {
	if err := s.check(Vec3); err != nil {
		return err
	}
	s.vec = v.Vec4(0)
	s.version++
	return nil
}

func (s *Slot) SetVec4(v mgl.Vec4) error {
	if err := s.check(Vec4); err != nil {
		return err
	}
	s.vec = v
	s.version++
	return nil
}

func (s *Slot) SetColor(c mgl.Vec3) error {
	if err := s.check(Color); err != nil {
		return err
	}
	s.vec = c.Vec4(0)
	s.version++
	return nil
}

func (s *Slot) SetTexture(t Texture) error {
	if err := s.check(Sampler2D); err != nil {
		return err
	}
	s.tex = t
	s.version++
	return nil
}

// SetPoint writes the leading components of p into a Vec2 or Vec3 slot.
func (s *Slot) SetPoint(p mgl.Vec3) error {
	switch s.kind {
	case Vec2:
		return s.SetVec2(p.Vec2())
	case Vec3:
		return s.SetVec3(p)
	}
	return fmt.Errorf("%s is %s, want Vec2 or Vec3: %w", s.name, s.kind, ErrKindMismatch)
}

func (s *Slot) Float() float32   { return s.vec[0] }
func (s *Slot) Int() int32       { return s.i }
func (s *Slot) Vec2() mgl.Vec2   { return s.vec.Vec2() }
func (s *Slot) Vec3() mgl.Vec3   { return s.vec.Vec3() }
func (s *Slot) Vec4() mgl.Vec4   { return s.vec }
func (s *Slot) Texture() Texture { return s.tex }
func (s *Slot) Components() []float32 {
	return s.vec[:s.kind.Components()]
}

// Set holds the uniforms of one material, in declaration order.
type Set struct {
	slots  []*Slot
	byName map[string]*Slot
}

func NewSet() *Set {
	return &Set{byName: make(map[string]*Slot)}
}

func (s *Set) Declare(name string, kind Kind) (*Slot, error) {
	if _, found := s.byName[name]; found {
		return nil, fmt.Errorf("declare %q: %w", name, ErrDuplicate)
	}
	slot := &Slot{name: name, kind: kind}
	s.slots = append(s.slots, slot)
	s.byName[name] = slot
	return slot, nil
}

// MustDeclare is Declare for static demo setup; a duplicate name panics.
func (s *Set) MustDeclare(name string, kind Kind) *Slot {
	slot, err := s.Declare(name, kind)
	if err != nil {
		panic(err)
	}
	return slot
}

func (s *Set) Lookup(name string) (*Slot, bool) {
	slot, found := s.byName[name]
	return slot, found
}

func (s *Set) Get(name string) (*Slot, error) {
	slot, found := s.byName[name]
	if !found {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknown)
	}
	return slot, nil
}

func (s *Set) Slots() []*Slot {
	return s.slots
}

func (s *Set) Len() int {
	return len(s.slots)
}

// Declarations renders one GLSL uniform declaration per slot.
func (s *Set) Declarations() string {
	bldr := strings.Builder{}
	for _, slot := range s.slots {
		fmt.Fprintf(&bldr, "uniform %s %s;\n", slot.kind.GLSLType(), slot.name)
	}
	return bldr.String()
}

// Versions snapshots every slot version, keyed by name.
func (s *Set) Versions() map[string]uint64 {
	versions := make(map[string]uint64, len(s.slots))
	for _, slot := range s.slots {
		versions[slot.name] = slot.version
	}
	return versions
}
