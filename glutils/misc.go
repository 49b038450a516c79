package glutils

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.6-core/gl"
)

var errorNames = map[uint32]string{
	gl.INVALID_ENUM:                  "INVALID_ENUM",
	gl.INVALID_VALUE:                 "INVALID_VALUE",
	gl.INVALID_OPERATION:             "INVALID_OPERATION",
	gl.STACK_OVERFLOW:                "STACK_OVERFLOW",
	gl.STACK_UNDERFLOW:               "STACK_UNDERFLOW",
	gl.OUT_OF_MEMORY:                 "OUT_OF_MEMORY",
	gl.INVALID_FRAMEBUFFER_OPERATION: "INVALID_FRAMEBUFFER_OPERATION",
}

// CheckError drains the GL error queue and reports the first error found.
func CheckError() error {
	first := uint32(gl.NO_ERROR)
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == gl.NO_ERROR {
			first = code
		}
	}
	if first == gl.NO_ERROR {
		return nil
	}
	if name, ok := errorNames[first]; ok {
		return fmt.Errorf("OpenGL error %s", name)
	}
	return fmt.Errorf("OpenGL error %d", first)
}

// Attrib describes one float vertex attribute inside an interleaved buffer.
type Attrib struct {
	Location uint32
	Size     int32
}

// Mesh is an indexed vertex array living on the GPU.
type Mesh struct {
	Vao   uint32
	vbo   uint32
	ebo   uint32
	Count int32
}

// MakeMesh uploads interleaved float vertices and triangle indices. The
// attributes are laid out in the order given.
func MakeMesh(vertices []float32, indices []uint32, attribs ...Attrib) Mesh {
	m := Mesh{Count: int32(len(indices))}
	gl.GenVertexArrays(1, &m.Vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.Vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(indices), gl.Ptr(indices), gl.STATIC_DRAW)

	var stride int32
	for _, a := range attribs {
		stride += a.Size
	}
	offset := 0
	for _, a := range attribs {
		gl.VertexAttribPointer(a.Location, a.Size, gl.FLOAT, false, stride*4, gl.PtrOffset(offset*4))
		gl.EnableVertexAttribArray(a.Location)
		offset += int(a.Size)
	}

	gl.BindVertexArray(0)
	return m
}

func (m Mesh) Draw() {
	gl.BindVertexArray(m.Vao)
	gl.DrawElements(gl.TRIANGLES, m.Count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (m Mesh) Delete() {
	gl.DeleteVertexArrays(1, &m.Vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

// Convenience wrapper for gl.GetUniformLocation
func GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// MakeTexture uploads img as a mipmapped RGBA8 texture with repeat wrapping.
// Rows go to GL top row first, so flip the image beforehand if uv (0, 0)
// must be its bottom left corner.
func MakeTexture(img *image.RGBA) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(img.Rect.Dx()),
		int32(img.Rect.Dy()),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

// UpdateTexture replaces the contents of a texture made for overlays,
// resizing it to img.
func UpdateTexture(texture uint32, img *image.RGBA) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(img.Rect.Dx()),
		int32(img.Rect.Dy()),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// ReadFramebuffer copies the default framebuffer into an image. GL rows
// start at the bottom, see FlipImage.
func ReadFramebuffer(width, height int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	if err := CheckError(); err != nil {
		return nil, err
	}
	return img, nil
}

// Create a copy of src reflected along the vertical axis
func FlipImage(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowLen := 4 * b.Dx()
	for y := 0; y < b.Dy(); y++ {
		from := src.PixOffset(b.Min.X, b.Max.Y-1-y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[from:from+rowLen])
	}
	return dst
}
