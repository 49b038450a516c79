package glutils

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// Simple struct to hold information needed to compile a shader
type ShaderSource struct {
	name       string
	source     string
	shaderType uint32
}

func NewShaderSource(name, source string, shaderType uint32) ShaderSource {
	return ShaderSource{
		name:       name,
		source:     source + "\x00",
		shaderType: shaderType,
	}
}

// Create ShaderSource from go template source by injecting data into it
func NewShaderSourceFromTemplate(name, source string, shaderType uint32, data any) (ShaderSource, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(source)
	if err != nil {
		return ShaderSource{}, fmt.Errorf("parse template %q: %w", name, err)
	}
	bldr := strings.Builder{}
	err = tmpl.Execute(&bldr, data)
	if err != nil {
		return ShaderSource{}, fmt.Errorf("execute template %q: %w", name, err)
	}
	return NewShaderSource(name, bldr.String(), shaderType), nil
}

func (ss ShaderSource) Name() string {
	return ss.name
}

func (ss ShaderSource) stage() string {
	switch ss.shaderType {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	case gl.COMPUTE_SHADER:
		return "compute"
	}
	return fmt.Sprintf("type 0x%x", ss.shaderType)
}

// numbered prefixes every line with its number so driver logs can be
// matched against the templated source.
func numbered(source string) string {
	lines := strings.Split(strings.TrimRight(source, "\x00"), "\n")
	bldr := strings.Builder{}
	for i, line := range lines {
		fmt.Fprintf(&bldr, "%4d| %s\n", i+1, line)
	}
	return bldr.String()
}

func (ss ShaderSource) compile() (uint32, error) {
	shader := gl.CreateShader(ss.shaderType)

	csources, free := gl.Strs(ss.source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		gllog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(gllog))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("compile %s shader %q:\n%s--------\n%s",
			ss.stage(), ss.name, numbered(ss.source), strings.TrimRight(gllog, "\x00"))
	}

	return shader, nil
}

// Compile and link OpenGL program with shaders compiled from shaderSrcs.
// Nothing is left allocated on failure.
func CreateProgram(shaderSrcs ...ShaderSource) (uint32, error) {
	var shaders []uint32
	cleanup := func() {
		for _, shader := range shaders {
			gl.DeleteShader(shader)
		}
	}
	for _, shaderSrc := range shaderSrcs {
		shader, err := shaderSrc.compile()
		if err != nil {
			cleanup()
			return 0, err
		}
		shaders = append(shaders, shader)
	}

	program := gl.CreateProgram()
	for _, shader := range shaders {
		gl.AttachShader(program, shader)
	}
	gl.LinkProgram(program)
	cleanup()

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		gllog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(gllog))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("link error: %s", strings.TrimRight(gllog, "\x00"))
	}

	return program, nil
}
