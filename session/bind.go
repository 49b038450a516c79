package session

import (
	"github.com/xopoww/go-shaderlab/easing"
	"github.com/xopoww/go-shaderlab/gui"
	"github.com/xopoww/go-shaderlab/scenery"
	"github.com/xopoww/go-shaderlab/uniform"
)

// The Bind helpers copy a control's value into its slot right away and on
// every later change. A slot of the wrong kind is logged, never fatal.

func (s *Session) BindFloat(c *gui.Control, slot *uniform.Slot) {
	apply := func(c *gui.Control) {
		if err := slot.SetFloat(c.Float()); err != nil {
			s.Log.Errorf("control %q: %s", c.Name, err)
		}
	}
	apply(c)
	c.OnChange(apply)
}

func (s *Session) BindInt(c *gui.Control, slot *uniform.Slot) {
	apply := func(c *gui.Control) {
		if err := slot.SetInt(c.Int()); err != nil {
			s.Log.Errorf("control %q: %s", c.Name, err)
		}
	}
	apply(c)
	c.OnChange(apply)
}

func (s *Session) BindColor(c *gui.Control, slot *uniform.Slot) {
	apply := func(c *gui.Control) {
		if err := slot.SetColor(c.Color()); err != nil {
			s.Log.Errorf("control %q: %s", c.Name, err)
		}
	}
	apply(c)
	c.OnChange(apply)
}

// BindChoice stores the index of the chosen option.
func (s *Session) BindChoice(c *gui.Control, slot *uniform.Slot) {
	apply := func(c *gui.Control) {
		if err := slot.SetInt(int32(c.Index())); err != nil {
			s.Log.Errorf("control %q: %s", c.Name, err)
		}
	}
	apply(c)
	c.OnChange(apply)
}

// BindEasing stores the easing code of the chosen name.
func (s *Session) BindEasing(c *gui.Control, slot *uniform.Slot) {
	apply := func(c *gui.Control) {
		e, ok := easing.Parse(c.Choice())
		if !ok {
			s.Log.Warnf("control %q: unknown easing %q, using %s", c.Name, c.Choice(), e)
		}
		if err := slot.SetInt(int32(e)); err != nil {
			s.Log.Errorf("control %q: %s", c.Name, err)
		}
	}
	apply(c)
	c.OnChange(apply)
}

// BindCameraKind switches the camera whenever the choice changes. Options
// must be camera kind names.
func (s *Session) BindCameraKind(c *gui.Control) {
	c.OnChange(func(c *gui.Control) {
		kind, err := scenery.ParseCameraKind(c.Choice())
		if err != nil {
			s.Log.Errorf("control %q: %s", c.Name, err)
			return
		}
		s.SwitchCamera(kind)
	})
}

// AddCameraControl adds a camera type choice reflecting the current camera.
func (s *Session) AddCameraControl(name string) *gui.Control {
	current := scenery.Perspective
	if s.rig.Camera != nil {
		current = s.rig.Camera.Kind
	}
	c := s.Panel.AddChoice(name,
		[]string{scenery.Perspective.String(), scenery.Orthographic.String()},
		current.String(),
	)
	s.BindCameraKind(c)
	return c
}
