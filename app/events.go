package app

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/xopoww/go-shaderlab/controls"
)

// Input receives pointer and surface events in framebuffer pixels.
type Input interface {
	PointerDown(b controls.Button, x, y float64)
	PointerUp(b controls.Button, x, y float64)
	PointerMove(x, y float64)
	Scroll(dy float64)
	Resize(width, height int)
}

type EventHandler struct {
	options map[glfw.Key]keyOption
	actions map[glfw.Key]func()
	input   Input

	// framebuffer pixels per window coordinate
	scaleX, scaleY float64
	// last cursor position in framebuffer pixels
	x, y float64
}

func NewEventHandler() *EventHandler {
	return &EventHandler{
		options: make(map[glfw.Key]keyOption),
		actions: make(map[glfw.Key]func()),
		scaleX:  1,
		scaleY:  1,
	}
}

type KeyCallbackKind int

const (
	Switch KeyCallbackKind = iota
	Hold
)

type keyOption struct {
	kind  KeyCallbackKind
	value *bool
}

func (eh *EventHandler) AddOption(key glfw.Key, value *bool, kind KeyCallbackKind) {
	eh.options[key] = keyOption{
		kind:  kind,
		value: value,
	}
}

// AddAction runs action when key is pressed and again on key repeat.
func (eh *EventHandler) AddAction(key glfw.Key, action func()) {
	eh.actions[key] = action
}

func (eh *EventHandler) KeyCallback() glfw.KeyCallback {
	return func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		eh.HandleKey(key, action)
	}
}

// HandleKey applies a key event to the registered options and actions.
func (eh *EventHandler) HandleKey(key glfw.Key, action glfw.Action) {
	if fn, found := eh.actions[key]; found && action != glfw.Release {
		fn()
	}

	option, found := eh.options[key]
	if !found {
		return
	}
	switch option.kind {
	case Switch:
		if action == glfw.Press {
			*option.value = !*option.value
		}
	case Hold:
		*option.value = (action != glfw.Release)
	}
}

// Attach installs every window callback, feeding pointer and size events
// to input.
func (eh *EventHandler) Attach(window *glfw.Window, input Input) {
	eh.input = input
	eh.updateScale(window)

	window.SetKeyCallback(eh.KeyCallback())
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		eh.HandleCursor(xpos, ypos)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		eh.HandleMouseButton(button, action)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		eh.HandleScroll(yoff)
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		eh.updateScale(w)
		eh.input.Resize(width, height)
	})
}

func (eh *EventHandler) updateScale(window *glfw.Window) {
	fbWidth, fbHeight := window.GetFramebufferSize()
	winWidth, winHeight := window.GetSize()
	eh.SetScale(fbWidth, fbHeight, winWidth, winHeight)
}

// SetScale sets how window coordinates map to framebuffer pixels. Zero
// sized windows keep the previous scale.
func (eh *EventHandler) SetScale(fbWidth, fbHeight, winWidth, winHeight int) {
	if fbWidth <= 0 || fbHeight <= 0 || winWidth <= 0 || winHeight <= 0 {
		return
	}
	eh.scaleX = float64(fbWidth) / float64(winWidth)
	eh.scaleY = float64(fbHeight) / float64(winHeight)
}

func (eh *EventHandler) HandleCursor(xpos, ypos float64) {
	eh.x, eh.y = xpos*eh.scaleX, ypos*eh.scaleY
	if eh.input != nil {
		eh.input.PointerMove(eh.x, eh.y)
	}
}

func (eh *EventHandler) HandleMouseButton(button glfw.MouseButton, action glfw.Action) {
	if eh.input == nil {
		return
	}
	var b controls.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = controls.ButtonLeft
	case glfw.MouseButtonRight:
		b = controls.ButtonRight
	case glfw.MouseButtonMiddle:
		b = controls.ButtonMiddle
	default:
		return
	}
	switch action {
	case glfw.Press:
		eh.input.PointerDown(b, eh.x, eh.y)
	case glfw.Release:
		eh.input.PointerUp(b, eh.x, eh.y)
	}
}

func (eh *EventHandler) HandleScroll(dy float64) {
	if eh.input != nil && dy != 0 {
		eh.input.Scroll(dy)
	}
}
