package gui

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	mgl "github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	ErrUnknownControl = errors.New("unknown control")
	ErrWrongKind      = errors.New("wrong control kind")
	ErrBadValue       = errors.New("bad control value")
	ErrDuplicate      = errors.New("control already exists")
)

// Panel is the on-screen parameter list. One control is selected at a time
// and keyboard input nudges it.
type Panel struct {
	Title   string
	Visible bool

	controls []*Control
	byName   map[string]*Control
	selected int
}

func NewPanel(title string) *Panel {
	return &Panel{
		Title:   title,
		Visible: true,
		byName:  make(map[string]*Control),
	}
}

func (p *Panel) add(c *Control) *Control {
	if _, found := p.byName[c.Name]; found {
		panic(fmt.Errorf("gui: %q: %w", c.Name, ErrDuplicate))
	}
	p.controls = append(p.controls, c)
	p.byName[c.Name] = c
	return c
}

// AddSlider adds a bounded numeric control. A zero step means continuous.
func (p *Panel) AddSlider(name string, value, min, max, step float32) *Control {
	c := &Control{Name: name, kind: Slider, min: min, max: max, step: step}
	c.value = c.clamp(value)
	return p.add(c)
}

func (p *Panel) AddColor(name string, value mgl.Vec3) *Control {
	return p.add(&Control{Name: name, kind: Color, color: value})
}

// AddChoice adds an enumerated control; selected must be one of options.
func (p *Panel) AddChoice(name string, options []string, selected string) *Control {
	c := &Control{Name: name, kind: Choice, options: options}
	for i, o := range options {
		if o == selected {
			c.index = i
		}
	}
	return p.add(c)
}

func (p *Panel) AddToggle(name string, on bool) *Control {
	return p.add(&Control{Name: name, kind: Toggle, on: on})
}

func (p *Panel) Lookup(name string) (*Control, bool) {
	c, found := p.byName[name]
	return c, found
}

func (p *Panel) Controls() []*Control {
	return p.controls
}

func (p *Panel) Selected() *Control {
	if len(p.controls) == 0 {
		return nil
	}
	return p.controls[p.selected]
}

func (p *Panel) SelectNext() {
	if len(p.controls) > 0 {
		p.selected = (p.selected + 1) % len(p.controls)
	}
}

func (p *Panel) SelectPrev() {
	if n := len(p.controls); n > 0 {
		p.selected = (p.selected - 1 + n) % n
	}
}

// Nudge adjusts the selected control.
func (p *Panel) Nudge(dir int) {
	if c := p.Selected(); c != nil {
		c.Nudge(dir)
	}
}

// Set assigns a loosely typed value, as decoded from a configuration file,
// to the named control.
func (p *Panel) Set(name string, value any) error {
	c, found := p.byName[name]
	if !found {
		return fmt.Errorf("%q: %w", name, ErrUnknownControl)
	}
	switch c.kind {
	case Slider:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("%q wants a number, got %T: %w", name, value, ErrBadValue)
		}
		return c.SetFloat(f)
	case Color:
		switch v := value.(type) {
		case string:
			rgb, err := ParseHexColor(v)
			if err != nil {
				return fmt.Errorf("%q: %w", name, err)
			}
			return c.SetColor(rgb)
		case []any:
			if len(v) != 3 {
				return fmt.Errorf("%q wants 3 components, got %d: %w", name, len(v), ErrBadValue)
			}
			var rgb mgl.Vec3
			for i := range v {
				f, ok := toFloat(v[i])
				if !ok {
					return fmt.Errorf("%q component %d is %T: %w", name, i, v[i], ErrBadValue)
				}
				rgb[i] = f
			}
			return c.SetColor(rgb)
		case mgl.Vec3:
			return c.SetColor(v)
		}
		return fmt.Errorf("%q wants a color, got %T: %w", name, value, ErrBadValue)
	case Choice:
		switch v := value.(type) {
		case string:
			return c.SetChoice(v)
		default:
			f, ok := toFloat(value)
			if !ok {
				return fmt.Errorf("%q wants an option, got %T: %w", name, value, ErrBadValue)
			}
			return c.SetIndex(int(f))
		}
	case Toggle:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%q wants a bool, got %T: %w", name, value, ErrBadValue)
		}
		return c.SetBool(b)
	}
	return nil
}

func toFloat(value any) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	case int32:
		return float32(v), true
	case int64:
		return float32(v), true
	}
	return 0, false
}

// Lines is the text the panel shows, title first. The selected control is
// marked with '>'.
func (p *Panel) Lines() []string {
	lines := []string{p.Title}
	for i, c := range p.controls {
		marker := "  "
		if i == p.selected {
			marker = "> "
		}
		lines = append(lines, marker+c.Text())
	}
	return lines
}

const (
	lineHeight = 16
	padding    = 6
)

var (
	panelBackground = color.RGBA{0x10, 0x10, 0x10, 0xc0}
	panelText       = color.RGBA{0xee, 0xee, 0xee, 0xff}
	panelSelected   = color.RGBA{0xff, 0xcc, 0x44, 0xff}
)

// Image rasterizes the panel. The result is top-down, row 0 is the title.
func (p *Panel) Image() *image.RGBA {
	lines := p.Lines()
	face := basicfont.Face7x13
	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, width+2*padding, len(lines)*lineHeight+2*padding))
	draw.Draw(img, img.Bounds(), image.NewUniform(panelBackground), image.Point{}, draw.Src)

	for i, l := range lines {
		clr := panelText
		if i == p.selected+1 {
			clr = panelSelected
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(clr),
			Face: face,
			Dot:  fixed.P(padding, padding+i*lineHeight+face.Ascent),
		}
		d.DrawString(l)
	}
	return img
}

// ParseHexColor reads "#rrggbb" or "rrggbb" into 0..1 components.
func ParseHexColor(s string) (mgl.Vec3, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return mgl.Vec3{}, fmt.Errorf("color %q: %w", s, ErrBadValue)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return mgl.Vec3{}, fmt.Errorf("color %q: %w", s, ErrBadValue)
	}
	return mgl.Vec3{
		float32(n>>16&0xff) / 0xff,
		float32(n>>8&0xff) / 0xff,
		float32(n&0xff) / 0xff,
	}, nil
}

func hexColor(c mgl.Vec3) string {
	to8 := func(f float32) uint8 {
		return uint8(math.Round(float64(mgl.Clamp(f, 0, 1)) * 0xff))
	}
	return fmt.Sprintf("#%02x%02x%02x", to8(c[0]), to8(c[1]), to8(c[2]))
}

func rotateHue(c mgl.Vec3, delta float32) mgl.Vec3 {
	h, s, v := rgbToHSV(c)
	h = float32(math.Mod(float64(h+delta)+1, 1))
	return hsvToRGB(h, s, v)
}

func rgbToHSV(c mgl.Vec3) (h, s, v float32) {
	r, g, b := c[0], c[1], c[2]
	max := float32(math.Max(float64(r), math.Max(float64(g), float64(b))))
	min := float32(math.Min(float64(r), math.Min(float64(g), float64(b))))
	v = max
	d := max - min
	if max > 0 {
		s = d / max
	}
	if d == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, v
}

func hsvToRGB(h, s, v float32) mgl.Vec3 {
	i := int(h * 6)
	f := h*6 - float32(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch i % 6 {
	case 0:
		return mgl.Vec3{v, t, p}
	case 1:
		return mgl.Vec3{q, v, p}
	case 2:
		return mgl.Vec3{p, v, t}
	case 3:
		return mgl.Vec3{p, q, v}
	case 4:
		return mgl.Vec3{t, p, v}
	default:
		return mgl.Vec3{v, p, q}
	}
}
