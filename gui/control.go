package gui

import (
	"fmt"
	"math"

	mgl "github.com/go-gl/mathgl/mgl32"
)

type Kind int

const (
	Slider Kind = iota
	Color
	Choice
	Toggle
)

func (k Kind) String() string {
	return [...]string{"Slider", "Color", "Choice", "Toggle"}[k]
}

// Control is one tunable parameter. Its change callbacks run synchronously,
// in registration order, every time the value actually changes.
type Control struct {
	Name string
	kind Kind

	value float32
	min   float32
	max   float32
	step  float32

	color mgl.Vec3

	options []string
	index   int

	on bool

	callbacks []func(*Control)
}

func (c *Control) Kind() Kind { return c.kind }

func (c *Control) Float() float32  { return c.value }
func (c *Control) Int() int32      { return int32(math.Round(float64(c.value))) }
func (c *Control) Color() mgl.Vec3 { return c.color }
func (c *Control) Index() int      { return c.index }
func (c *Control) Bool() bool      { return c.on }

func (c *Control) Range() (min, max, step float32) {
	return c.min, c.max, c.step
}

func (c *Control) Choice() string {
	if c.index < 0 || c.index >= len(c.options) {
		return ""
	}
	return c.options[c.index]
}

func (c *Control) Options() []string {
	return c.options
}

// OnChange registers fn and returns c for chaining.
func (c *Control) OnChange(fn func(*Control)) *Control {
	c.callbacks = append(c.callbacks, fn)
	return c
}

func (c *Control) changed() {
	for _, fn := range c.callbacks {
		fn(c)
	}
}

func (c *Control) check(kind Kind) error {
	if c.kind != kind {
		return fmt.Errorf("control %q is a %s, not a %s: %w", c.Name, c.kind, kind, ErrWrongKind)
	}
	return nil
}

func (c *Control) clamp(v float32) float32 {
	if c.step > 0 {
		v = c.min + float32(math.Round(float64((v-c.min)/c.step)))*c.step
	}
	return mgl.Clamp(v, c.min, c.max)
}

// SetFloat clamps v into the slider range, snapping to the step.
func (c *Control) SetFloat(v float32) error {
	if err := c.check(Slider); err != nil {
		return err
	}
	v = c.clamp(v)
	if v == c.value {
		return nil
	}
	c.value = v
	c.changed()
	return nil
}

func (c *Control) SetColor(v mgl.Vec3) error {
	if err := c.check(Color); err != nil {
		return err
	}
	for i := range v {
		v[i] = mgl.Clamp(v[i], 0, 1)
	}
	if v == c.color {
		return nil
	}
	c.color = v
	c.changed()
	return nil
}

func (c *Control) SetIndex(i int) error {
	if err := c.check(Choice); err != nil {
		return err
	}
	if i < 0 || i >= len(c.options) {
		return fmt.Errorf("control %q: option %d out of range: %w", c.Name, i, ErrBadValue)
	}
	if i == c.index {
		return nil
	}
	c.index = i
	c.changed()
	return nil
}

func (c *Control) SetChoice(option string) error {
	if err := c.check(Choice); err != nil {
		return err
	}
	for i, o := range c.options {
		if o == option {
			return c.SetIndex(i)
		}
	}
	return fmt.Errorf("control %q: no option %q: %w", c.Name, option, ErrBadValue)
}

func (c *Control) SetBool(on bool) error {
	if err := c.check(Toggle); err != nil {
		return err
	}
	if on == c.on {
		return nil
	}
	c.on = on
	c.changed()
	return nil
}

const hueStep = 1.0 / 24

// Nudge moves the value one notch in the sign of dir.
func (c *Control) Nudge(dir int) {
	if dir == 0 {
		return
	}
	sign := float32(1)
	if dir < 0 {
		sign = -1
	}
	switch c.kind {
	case Slider:
		step := c.step
		if step <= 0 {
			step = (c.max - c.min) / 100
		}
		c.SetFloat(c.value + sign*step)
	case Color:
		c.SetColor(rotateHue(c.color, sign*hueStep))
	case Choice:
		n := len(c.options)
		if n > 0 {
			c.SetIndex(((c.index+int(sign))%n + n) % n)
		}
	case Toggle:
		c.SetBool(!c.on)
	}
}

func (c *Control) Text() string {
	switch c.kind {
	case Slider:
		return fmt.Sprintf("%s: %s", c.Name, formatFloat(c.value, c.step))
	case Color:
		return fmt.Sprintf("%s: %s", c.Name, hexColor(c.color))
	case Choice:
		return fmt.Sprintf("%s: %s", c.Name, c.Choice())
	case Toggle:
		return fmt.Sprintf("%s: %t", c.Name, c.on)
	}
	return c.Name
}

func formatFloat(v, step float32) string {
	decimals := 3
	if step >= 1 {
		decimals = 0
	} else if step > 0 {
		decimals = int(math.Ceil(-math.Log10(float64(step))))
	}
	return fmt.Sprintf("%.*f", decimals, v)
}
