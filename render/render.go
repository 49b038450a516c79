// Package render draws scenes with OpenGL. Every call must come from the
// thread owning the GL context.
package render

import (
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/xopoww/go-shaderlab/glutils"
	"github.com/xopoww/go-shaderlab/gui"
	"github.com/xopoww/go-shaderlab/logging"
	"github.com/xopoww/go-shaderlab/scenery"
)

// Vertex attribute locations material shaders declare.
const (
	PositionLocation = 0
	NormalLocation   = 1
	UVLocation       = 2
)

var (
	clearColor       = color.RGBA{0x0b, 0x0c, 0x10, 0xff}
	placeholderColor = color.RGBA{0x80, 0x80, 0x80, 0xff}
)

type Renderer struct {
	log logging.Logger

	width, height int

	programs map[*scenery.Material]*program
	// material state that failed to compile, not retried until it changes
	failed      map[*scenery.Material]stamp
	meshes      map[*scenery.Geometry]glutils.Mesh
	placeholder uint32
	overlay     *overlay
}

// New sets up GL state for a framebuffer of the given size. GL must be
// initialized.
func New(width, height int, log logging.Logger) *Renderer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	r := &Renderer{
		log:      log,
		width:    width,
		height:   height,
		programs: make(map[*scenery.Material]*program),
		failed:   make(map[*scenery.Material]stamp),
		meshes:   make(map[*scenery.Geometry]glutils.Mesh),
	}

	pixel := image.NewRGBA(image.Rect(0, 0, 1, 1))
	pixel.SetRGBA(0, 0, placeholderColor)
	r.placeholder = glutils.MakeTexture(pixel)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)
	return r
}

// SetPanel makes the renderer draw panel on top of every frame.
func (r *Renderer) SetPanel(panel *gui.Panel) error {
	if r.overlay != nil {
		r.overlay.delete()
		r.overlay = nil
	}
	if panel == nil {
		return nil
	}
	o, err := newOverlay(panel)
	if err != nil {
		return err
	}
	r.overlay = o
	return nil
}

func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
}

func (r *Renderer) Render(scene *scenery.Scene, camera *scenery.Camera) {
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.ClearColor(
		float32(clearColor.R)/255,
		float32(clearColor.G)/255,
		float32(clearColor.B)/255,
		float32(clearColor.A)/255,
	)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)

	projection, view := camera.Projection(), camera.View()
	for _, mesh := range scene.Meshes() {
		if !mesh.Visible || mesh.Geometry == nil || mesh.Material == nil {
			continue
		}
		p := r.program(mesh.Material)
		if p == nil {
			continue
		}

		gl.UseProgram(p.id)
		setMatrix(p.projection, projection)
		setMatrix(p.view, view)
		setMatrix(p.model, mesh.Model)
		p.upload(mesh.Material.Uniforms.Slots(), r.placeholder)

		applySide(mesh.Material.Side)
		if mesh.Material.Wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		} else {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}
		r.mesh(mesh.Geometry).Draw()
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Disable(gl.CULL_FACE)

	if r.overlay != nil {
		r.overlay.draw(r.width, r.height)
	}
	gl.UseProgram(0)
}

func applySide(side scenery.Side) {
	switch side {
	case scenery.FrontSide:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case scenery.BackSide:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Disable(gl.CULL_FACE)
	}
}

// program returns the compiled program of m, recompiling it when m changed.
// If compilation fails the previous program, if any, stays in use.
func (r *Renderer) program(m *scenery.Material) *program {
	want := stampOf(m)
	p := r.programs[m]
	if p != nil && p.stamp == want {
		return p
	}
	if failed, found := r.failed[m]; found && failed == want {
		return p
	}

	next, err := compileMaterial(m)
	if err != nil {
		r.failed[m] = want
		if p != nil {
			r.log.Errorf("material %q: keeping previous program: %s", m.Name, err)
		} else {
			r.log.Errorf("material %q: %s", m.Name, err)
		}
		return p
	}
	delete(r.failed, m)
	if p != nil {
		p.delete()
		r.log.Infof("material %q recompiled", m.Name)
	} else {
		r.log.Debugf("material %q compiled", m.Name)
	}
	r.programs[m] = next
	return next
}

func (r *Renderer) mesh(g *scenery.Geometry) glutils.Mesh {
	m, found := r.meshes[g]
	if !found {
		m = glutils.MakeMesh(g.Interleaved(), g.Indices,
			glutils.Attrib{Location: PositionLocation, Size: 3},
			glutils.Attrib{Location: NormalLocation, Size: 3},
			glutils.Attrib{Location: UVLocation, Size: 2},
		)
		r.meshes[g] = m
	}
	return m
}

// UploadTexture turns a decoded image into a texture whose uv (0, 0) is the
// bottom left corner of the image.
func (r *Renderer) UploadTexture(img *image.RGBA) (uint32, error) {
	texture := glutils.MakeTexture(glutils.FlipImage(img))
	if err := glutils.CheckError(); err != nil {
		gl.DeleteTextures(1, &texture)
		return 0, err
	}
	return texture, nil
}

// Screenshot reads back the last drawn frame, top row first.
func (r *Renderer) Screenshot() (*image.RGBA, error) {
	img, err := glutils.ReadFramebuffer(r.width, r.height)
	if err != nil {
		return nil, err
	}
	return glutils.FlipImage(img), nil
}

func (r *Renderer) Delete() {
	for _, p := range r.programs {
		p.delete()
	}
	for _, m := range r.meshes {
		m.Delete()
	}
	if r.overlay != nil {
		r.overlay.delete()
	}
	gl.DeleteTextures(1, &r.placeholder)
}
