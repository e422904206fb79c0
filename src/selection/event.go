package selection

import (
	"fmt"
	"strings"

	"region-shot/src/geometry"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Modifiers is the set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

func (m Modifiers) Has(mod Modifiers) bool { return mod != 0 && m&mod == mod }

func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, n := range modifierNames {
		if m.Has(n.mod) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModShift, "shift"},
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModSuper, "super"},
}

// ParseModifier reads a single modifier name as used in configuration.
func ParseModifier(s string) (Modifiers, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shift":
		return ModShift, nil
	case "ctrl", "control":
		return ModCtrl, nil
	case "alt", "option":
		return ModAlt, nil
	case "super", "win", "cmd", "meta":
		return ModSuper, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", s)
}

// Event is one input event. The machine consumes them strictly in order.
type Event interface {
	event()
}

type PointerDown struct {
	Pos    geometry.Point
	Button Button
	Mods   Modifiers
}

type PointerMove struct {
	Pos  geometry.Point
	Mods Modifiers
}

type PointerUp struct {
	Pos    geometry.Point
	Button Button
	Mods   Modifiers
}

// KeyDown carries a logical key name: a lowercase letter or digit, a symbol
// such as "?" or "$", or one of "enter", "escape", "left", "right", "up", "down".
type KeyDown struct {
	Key  string
	Mods Modifiers
}

type KeyUp struct {
	Key  string
	Mods Modifiers
}

func (PointerDown) event() {}
func (PointerMove) event() {}
func (PointerUp) event()   {}
func (KeyDown) event()     {}
func (KeyUp) event()       {}
