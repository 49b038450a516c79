// Package easing names the easing curves the line shaders understand. The
// integer value of an Easing is what the shader receives in its uniform.
package easing

import (
	"math"
)

type Easing int32

const (
	Linear Easing = iota
	InQuad
	OutQuad
	InOutQuad
	InCubic
	OutCubic
	InOutCubic
	InSine
	OutSine
	InOutSine
	InExpo
	OutExpo
	InOutExpo
)

// Fallback is what unrecognized names map to.
const Fallback = InOutQuad

var names = [...]string{
	"linear",
	"easeInQuad",
	"easeOutQuad",
	"easeInOutQuad",
	"easeInCubic",
	"easeOutCubic",
	"easeInOutCubic",
	"easeInSine",
	"easeOutSine",
	"easeInOutSine",
	"easeInExpo",
	"easeOutExpo",
	"easeInOutExpo",
}

func (e Easing) String() string {
	if e < 0 || int(e) >= len(names) {
		return "unknown"
	}
	return names[e]
}

// Names lists every easing name in code order.
func Names() []string {
	return append([]string(nil), names[:]...)
}

// Parse maps a name to its easing. Unknown names yield Fallback and ok=false.
func Parse(name string) (e Easing, ok bool) {
	for i, n := range names {
		if n == name {
			return Easing(i), true
		}
	}
	return Fallback, false
}

// Apply evaluates the curve at t, clamped to [0, 1].
func (e Easing) Apply(t float32) float32 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	x := float64(t)
	var y float64
	switch e {
	case Linear:
		y = x
	case InQuad:
		y = x * x
	case OutQuad:
		y = 1 - (1-x)*(1-x)
	case InOutQuad:
		if x < 0.5 {
			y = 2 * x * x
		} else {
			y = 1 - math.Pow(-2*x+2, 2)/2
		}
	case InCubic:
		y = x * x * x
	case OutCubic:
		y = 1 - math.Pow(1-x, 3)
	case InOutCubic:
		if x < 0.5 {
			y = 4 * x * x * x
		} else {
			y = 1 - math.Pow(-2*x+2, 3)/2
		}
	case InSine:
		y = 1 - math.Cos(x*math.Pi/2)
	case OutSine:
		y = math.Sin(x * math.Pi / 2)
	case InOutSine:
		y = -(math.Cos(math.Pi*x) - 1) / 2
	case InExpo:
		if x == 0 {
			y = 0
		} else {
			y = math.Pow(2, 10*x-10)
		}
	case OutExpo:
		if x == 1 {
			y = 1
		} else {
			y = 1 - math.Pow(2, -10*x)
		}
	case InOutExpo:
		switch {
		case x == 0:
			y = 0
		case x == 1:
			y = 1
		case x < 0.5:
			y = math.Pow(2, 20*x-10) / 2
		default:
			y = (2 - math.Pow(2, -20*x+10)) / 2
		}
	default:
		return Fallback.Apply(t)
	}
	return float32(y)
}
