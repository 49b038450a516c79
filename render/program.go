package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/xopoww/go-shaderlab/glutils"
	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/uniform"
)

// Matrices every material program receives.
const builtinUniforms = "uniform mat4 uProjectionMatrix;\n" +
	"uniform mat4 uViewMatrix;\n" +
	"uniform mat4 uModelMatrix;\n"

// Data passed to material shader templates.
type shaderData struct {
	Uniforms string
}

// stamp identifies what a program was compiled from.
type stamp struct {
	version uint64
	slots   int
}

func stampOf(m *scenery.Material) stamp {
	return stamp{version: m.Version(), slots: m.Uniforms.Len()}
}

type program struct {
	id    uint32
	stamp stamp

	projection int32
	view       int32
	model      int32

	locations map[*uniform.Slot]int32
	uploaded  map[*uniform.Slot]uint64
	units     map[*uniform.Slot]uint32
}

func compileMaterial(m *scenery.Material) (*program, error) {
	data := shaderData{Uniforms: builtinUniforms + m.Uniforms.Declarations()}
	vert, err := glutils.NewShaderSourceFromTemplate(m.Name+".vert", m.VertexSource, gl.VERTEX_SHADER, data)
	if err != nil {
		return nil, err
	}
	frag, err := glutils.NewShaderSourceFromTemplate(m.Name+".frag", m.FragmentSource, gl.FRAGMENT_SHADER, data)
	if err != nil {
		return nil, err
	}
	id, err := glutils.CreateProgram(vert, frag)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", m.Name, err)
	}

	p := &program{
		id:         id,
		stamp:      stampOf(m),
		projection: glutils.GetUniformLocation(id, "uProjectionMatrix"),
		view:       glutils.GetUniformLocation(id, "uViewMatrix"),
		model:      glutils.GetUniformLocation(id, "uModelMatrix"),
		locations:  make(map[*uniform.Slot]int32),
		uploaded:   make(map[*uniform.Slot]uint64),
		units:      make(map[*uniform.Slot]uint32),
	}
	var unit uint32
	for _, slot := range m.Uniforms.Slots() {
		p.locations[slot] = glutils.GetUniformLocation(id, slot.Name())
		if slot.Kind() == uniform.Sampler2D {
			p.units[slot] = unit
			unit++
		}
	}
	return p, nil
}

func (p *program) delete() {
	gl.DeleteProgram(p.id)
}

func setMatrix(location int32, m mgl.Mat4) {
	if location != -1 {
		gl.UniformMatrix4fv(location, 1, false, &m[0])
	}
}

// upload writes the slots that changed since the last call. Samplers are
// bound every time since texture units are shared between programs; a
// texture that is not loaded yet is replaced with placeholder.
func (p *program) upload(slots []*uniform.Slot, placeholder uint32) {
	for _, slot := range slots {
		location, found := p.locations[slot]
		if !found || location == -1 {
			// declared after compiling or optimized out by the driver
			continue
		}

		if slot.Kind() == uniform.Sampler2D {
			unit := p.units[slot]
			texture := placeholder
			if t := slot.Texture(); t != nil && t.ID() != 0 {
				texture = t.ID()
			}
			gl.ActiveTexture(gl.TEXTURE0 + unit)
			gl.BindTexture(gl.TEXTURE_2D, texture)
			if _, done := p.uploaded[slot]; !done {
				gl.Uniform1i(location, int32(unit))
				p.uploaded[slot] = slot.Version()
			}
			continue
		}

		if v, done := p.uploaded[slot]; done && v == slot.Version() {
			continue
		}
		switch slot.Kind() {
		case uniform.Float:
			gl.Uniform1f(location, slot.Float())
		case uniform.Int:
			gl.Uniform1i(location, slot.Int())
		case uniform.Vec2:
			v := slot.Vec2()
			gl.Uniform2f(location, v[0], v[1])
		case uniform.Vec3, uniform.Color:
			v := slot.Vec3()
			gl.Uniform3f(location, v[0], v[1], v[2])
		case uniform.Vec4:
			v := slot.Vec4()
			gl.Uniform4f(location, v[0], v[1], v[2], v[3])
		}
		p.uploaded[slot] = slot.Version()
	}
}
