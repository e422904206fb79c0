package hotkey

import (
	"slices"
	"testing"
)

func TestKeyNameToRawcodes(t *testing.T) {
	tests := []struct {
		keyName  string
		expected []uint16
	}{
		{"ctrl", []uint16{162, 163}},
		{"alt", []uint16{164, 165}},
		{"shift", []uint16{160, 161}},
		{"cmd", []uint16{91, 92}},

		{"a", []uint16{65}},
		{"q", []uint16{81}},
		{"x", []uint16{88}},
		{"Z", []uint16{90}},

		{"0", []uint16{48}},
		{"9", []uint16{57}},

		{"f1", []uint16{112}},
		{"f12", []uint16{123}},
		{"f24", []uint16{135}},
		{"f25", nil},
		{"f", []uint16{70}},

		{"space", []uint16{32}},
		{"enter", []uint16{13}},
		{"esc", []uint16{27}},
		{"printscreen", []uint16{44}},

		{"unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.keyName, func(t *testing.T) {
			if got := keyNameToRawcodes(tt.keyName); !slices.Equal(got, tt.expected) {
				t.Errorf("keyNameToRawcodes(%q) = %v, expected %v", tt.keyName, got, tt.expected)
			}
		})
	}
}

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Ctrl+Shift+X", []string{"ctrl", "shift", "x"}},
		{"Control+Option+q", []string{"ctrl", "alt", "q"}},
		{"Alt+F4", []string{"alt", "f4"}},
		{"Win+Shift+S", []string{"cmd", "shift", "s"}},
		{"Super + PrintScreen", []string{"cmd", "printscreen"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseHotkey(tt.input); !slices.Equal(got, tt.expected) {
				t.Errorf("parseHotkey(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewComboRejectsUnknownKeys(t *testing.T) {
	for _, spec := range []string{"", "Ctrl+Banana", "+"} {
		if _, err := newCombo(spec); err == nil {
			t.Errorf("newCombo(%q) succeeded", spec)
		}
	}
}

func TestComboFiresOnceWhenComplete(t *testing.T) {
	c, err := newCombo("Ctrl+Shift+X")
	if err != nil {
		t.Fatal(err)
	}
	steps := []struct {
		down bool
		code uint16
		fire bool
	}{
		{true, 162, false}, // left ctrl
		{true, 88, false},  // x before shift
		{true, 161, true},  // right shift completes it
		{true, 88, false},  // state was reset
		{false, 88, false},
		{true, 162, false},
		{true, 160, false},
		{true, 88, true},
		{false, 162, false},
		{true, 88, false}, // ctrl released
	}
	for i, s := range steps {
		if !s.down {
			c.release(s.code)
			continue
		}
		if got := c.press(s.code); got != s.fire {
			t.Errorf("step %d: press(%d) = %v, want %v", i, s.code, got, s.fire)
		}
	}
}
