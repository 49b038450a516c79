package render

import (
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/xopoww/go-shaderlab/glutils"
	"github.com/xopoww/go-shaderlab/gui"
	"github.com/xopoww/go-shaderlab/shaders"
)

// Distance in pixels between the panel and the window corner.
const overlayMargin = 10

// overlay draws the debug panel in the top left corner of the window.
type overlay struct {
	panel   *gui.Panel
	program uint32
	rect    int32
	quad    glutils.Mesh
	texture uint32

	// text currently in the texture
	text          string
	width, height int
}

func newOverlay(panel *gui.Panel) (*overlay, error) {
	program, err := glutils.CreateProgram(
		glutils.NewShaderSource("overlay.vert", shaders.OverlayVert, gl.VERTEX_SHADER),
		glutils.NewShaderSource("overlay.frag", shaders.OverlayFrag, gl.FRAGMENT_SHADER),
	)
	if err != nil {
		return nil, err
	}

	// unit square, uv equal to position: image row 0 is the top of the quad
	vertices := []float32{
		0, 0, 0, 0,
		1, 0, 1, 0,
		1, 1, 1, 1,
		0, 1, 0, 1,
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}

	o := &overlay{
		panel:   panel,
		program: program,
		rect:    glutils.GetUniformLocation(program, "uRect"),
		quad:    glutils.MakeMesh(vertices, indices, glutils.Attrib{Location: 0, Size: 2}, glutils.Attrib{Location: 1, Size: 2}),
	}
	gl.GenTextures(1, &o.texture)

	gl.UseProgram(program)
	gl.Uniform1i(glutils.GetUniformLocation(program, "tex"), 0)
	gl.UseProgram(0)
	return o, nil
}

func (o *overlay) refresh() {
	text := strings.Join(o.panel.Lines(), "\n")
	if text == o.text && o.width > 0 {
		return
	}
	img := o.panel.Image()
	glutils.UpdateTexture(o.texture, img)
	o.text = text
	o.width, o.height = img.Rect.Dx(), img.Rect.Dy()
}

func (o *overlay) draw(fbWidth, fbHeight int) {
	if !o.panel.Visible || fbWidth <= 0 || fbHeight <= 0 {
		return
	}
	o.refresh()

	fw, fh := float32(fbWidth), float32(fbHeight)
	x := -1 + 2*overlayMargin/fw
	y := 1 - 2*overlayMargin/fh
	w := 2 * float32(o.width) / fw
	h := 2 * float32(o.height) / fh

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	// panel images are premultiplied
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(o.program)
	gl.Uniform4f(o.rect, x, y, w, -h)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	o.quad.Draw()
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (o *overlay) delete() {
	o.quad.Delete()
	gl.DeleteTextures(1, &o.texture)
	gl.DeleteProgram(o.program)
}
