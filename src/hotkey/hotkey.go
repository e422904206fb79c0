// Package hotkey watches for the global capture hotkey in resident mode.
package hotkey

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listen calls callback every time the whole combination in spec is held
// down. It returns once the hook is running; the hook stops when ctx ends.
func Listen(ctx context.Context, spec string, callback func()) error {
	c, err := newCombo(spec)
	if err != nil {
		return err
	}
	log.Printf("HOTKEY: listening for %s", spec)

	evChan := gohook.Start()
	if evChan == nil {
		return fmt.Errorf("failed to start keyboard hook")
	}

	go func() {
		<-ctx.Done()
		gohook.End()
	}()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("HOTKEY: PANIC in hook goroutine: %v", r)
			}
		}()
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				if c.press(ev.Rawcode) {
					log.Printf("HOTKEY: %s pressed", spec)
					if callback != nil {
						callback()
					}
				}
			case gohook.KeyUp:
				c.release(ev.Rawcode)
			}
		}
		log.Printf("HOTKEY: event channel closed")
	}()
	return nil
}

type comboKey struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

// combo tracks which keys of a hotkey are currently held.
type combo struct {
	mu   sync.Mutex
	keys []comboKey
}

func newCombo(spec string) (*combo, error) {
	names := parseHotkey(spec)
	if len(names) == 0 {
		return nil, fmt.Errorf("empty hotkey %q", spec)
	}
	c := &combo{}
	for _, name := range names {
		codes := keyNameToRawcodes(name)
		if len(codes) == 0 {
			return nil, fmt.Errorf("hotkey %q: unknown key %q", spec, name)
		}
		c.keys = append(c.keys, comboKey{name: name, rawcodes: codes})
	}
	return c, nil
}

// press records a key down and reports whether it completed the combination.
// The state resets after firing so holding the keys fires only once.
func (c *combo) press(code uint16) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(code, true)
	for _, k := range c.keys {
		if !k.pressed {
			return false
		}
	}
	for i := range c.keys {
		c.keys[i].pressed = false
	}
	return true
}

func (c *combo) release(code uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(code, false)
}

func (c *combo) set(code uint16, pressed bool) {
	for i := range c.keys {
		for _, rc := range c.keys[i].rawcodes {
			if rc == code {
				c.keys[i].pressed = pressed
			}
		}
	}
}

// parseHotkey converts a hotkey string like "Ctrl+Shift+X" to normalized key names.
func parseHotkey(spec string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(spec), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			part = "ctrl"
		case "option":
			part = "alt"
		case "win", "super", "meta":
			part = "cmd"
		}
		keys = append(keys, part)
	}
	return keys
}

// Windows virtual key codes, which gohook reports as rawcodes.
var specialKeys = map[string][]uint16{
	"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":   {164, 165}, // VK_LMENU, VK_RMENU
	"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":   {91, 92},   // VK_LWIN, VK_RWIN

	"space":     {32},
	"enter":     {13},
	"return":    {13},
	"esc":       {27},
	"escape":    {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"del":       {46},
	"insert":    {45},
	"ins":       {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pgup":      {33},
	"pagedown":  {34},
	"pgdn":      {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},

	"printscreen": {44},
	"print":       {44},
}

func keyNameToRawcodes(name string) []uint16 {
	name = strings.ToLower(strings.TrimSpace(name))
	if codes, ok := specialKeys[name]; ok {
		return codes
	}
	if len(name) == 1 {
		switch c := name[0]; {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48}
		}
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(name, "f")); err == nil && strings.HasPrefix(name, "f") && n >= 1 && n <= 24 {
		return []uint16{uint16(111 + n)} // VK_F1 is 112
	}
	return nil
}
