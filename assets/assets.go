// Package assets loads images for shader samplers off the render thread.
package assets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/xopoww/go-shaderlab/logging"
	"github.com/xopoww/go-shaderlab/uniform"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// Texture is a handle to an image that may not be on the GPU yet.
type Texture struct {
	Id   AssetId
	Path string

	mu     sync.Mutex
	glID   uint32
	err    error
	width  int
	height int
}

// ID is the GL texture name, 0 until the image is uploaded.
func (t *Texture) ID() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.glID
}

func (t *Texture) Ready() bool {
	return t.ID() != 0
}

// Err reports why the texture could not be loaded.
func (t *Texture) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Texture) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

func (t *Texture) fail(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
}

// Uploader moves a decoded image to the GPU and returns its texture name.
type Uploader func(img *image.RGBA) (uint32, error)

type decoded struct {
	tex *Texture
	img *image.RGBA
	err error
}

// Loader decodes images in background goroutines. Decoded images wait in
// the loader until Drain hands them to the GPU on the render thread.
type Loader struct {
	log     logging.Logger
	open    func(path string) (io.ReadCloser, error)
	results chan decoded
	pending sync.WaitGroup
}

func NewLoader(log logging.Logger) *Loader {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Loader{
		log: log,
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		results: make(chan decoded, 64),
	}
}

// Request starts decoding the image at path and returns its handle.
func (l *Loader) Request(path string) *Texture {
	tex := &Texture{Id: makeAssetId(), Path: path}
	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		img, err := l.decodeFile(path)
		l.results <- decoded{tex: tex, img: img, err: err}
	}()
	return tex
}

// Load is Request returning the handle as a sampler texture.
func (l *Loader) Load(path string) uniform.Texture {
	return l.Request(path)
}

// Wait blocks until every requested image has been decoded or failed.
func (l *Loader) Wait() {
	l.pending.Wait()
}

// Drain uploads every image decoded so far and returns how many textures it
// settled. It never blocks, so it is safe to call once per frame.
func (l *Loader) Drain(upload Uploader) int {
	n := 0
	for {
		select {
		case r := <-l.results:
			l.settle(r, upload)
			n++
		default:
			return n
		}
	}
}

func (l *Loader) settle(r decoded, upload Uploader) {
	if r.err != nil {
		r.tex.fail(r.err)
		l.log.Errorf("texture %s: %s", r.tex.Path, r.err)
		return
	}
	id, err := upload(r.img)
	if err != nil {
		r.tex.fail(fmt.Errorf("upload: %w", err))
		l.log.Errorf("texture %s: upload: %s", r.tex.Path, err)
		return
	}
	b := r.img.Bounds()
	r.tex.mu.Lock()
	r.tex.glID = id
	r.tex.width, r.tex.height = b.Dx(), b.Dy()
	r.tex.mu.Unlock()
	l.log.Debugf("texture %s: %dx%d uploaded as %d", r.tex.Path, b.Dx(), b.Dy(), id)
}

func (l *Loader) decodeFile(path string) (*image.RGBA, error) {
	f, err := l.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a png, jpeg, gif, bmp, tiff or webp image as RGBA.
func Decode(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba, nil
}
