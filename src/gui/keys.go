package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"region-shot/src/selection"
)

var namedKeys = map[fyne.KeyName]string{
	fyne.KeyEscape: "escape",
	fyne.KeyReturn: "enter",
	fyne.KeyEnter:  "enter",
	fyne.KeyLeft:   "left",
	fyne.KeyRight:  "right",
	fyne.KeyUp:     "up",
	fyne.KeyDown:   "down",
}

var modifierKeys = map[fyne.KeyName]selection.Modifiers{
	desktop.KeyShiftLeft:    selection.ModShift,
	desktop.KeyShiftRight:   selection.ModShift,
	desktop.KeyControlLeft:  selection.ModCtrl,
	desktop.KeyControlRight: selection.ModCtrl,
	desktop.KeyAltLeft:      selection.ModAlt,
	desktop.KeyAltRight:     selection.ModAlt,
	desktop.KeySuperLeft:    selection.ModSuper,
	desktop.KeySuperRight:   selection.ModSuper,
}

// mapKey turns a physical key into the machine's logical key name. Shifted
// digits are left to the typed rune so "$" arrives as itself.
func mapKey(name fyne.KeyName, mods selection.Modifiers) (string, bool) {
	if k, ok := namedKeys[name]; ok {
		return k, true
	}
	if len(name) != 1 {
		return "", false
	}
	c := name[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return strings.ToLower(string(name)), true
	case c >= '0' && c <= '9':
		if mods.Has(selection.ModShift) {
			return "", false
		}
		return string(name), true
	}
	return "", false
}

// typedSymbol reports runes that only make sense as typed characters.
func typedSymbol(r rune) (string, bool) {
	switch r {
	case '?', '$':
		return string(r), true
	}
	return "", false
}

func mapModifiers(m fyne.KeyModifier) selection.Modifiers {
	var out selection.Modifiers
	if m&fyne.KeyModifierShift != 0 {
		out |= selection.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= selection.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= selection.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= selection.ModSuper
	}
	return out
}

func mapButton(b desktop.MouseButton) (selection.Button, bool) {
	switch b {
	case desktop.MouseButtonPrimary:
		return selection.ButtonLeft, true
	case desktop.MouseButtonSecondary:
		return selection.ButtonRight, true
	case desktop.MouseButtonTertiary:
		return selection.ButtonMiddle, true
	}
	return 0, false
}
