package keypick

import (
	"testing"

	"region-shot/src/geometry"
)

func TestLetterLabels(t *testing.T) {
	tests := []struct {
		col, row int
		want     string
	}{
		{0, 0, "a"},
		{0, 4, "e"},
		{1, 0, "f"},
		{4, 4, "y"},
	}
	for _, tt := range tests {
		if got := LetterLabel(tt.col, tt.row); got != tt.want {
			t.Errorf("LetterLabel(%d, %d) = %q, want %q", tt.col, tt.row, got, tt.want)
		}
		col, row, ok := letterIndex(tt.want)
		if !ok || col != tt.col || row != tt.row {
			t.Errorf("letterIndex(%q) = %d, %d, %v", tt.want, col, row, ok)
		}
	}
}

func TestLettersPickInThreeKeys(t *testing.T) {
	b := geometry.Bounds{Width: 1250, Height: 1000}
	tests := []struct {
		name string
		keys []string
		want geometry.Point
	}{
		// 250x200 boxes, then 50x40, then 10x8.
		{"top-left", []string{"a", "a", "a"}, geometry.Point{X: 5, Y: 4}},
		{"bottom-right", []string{"y", "y", "y"}, geometry.Point{X: 1245, Y: 996}},
		{"mixed", []string{"f", "b", "k"}, geometry.Point{X: 250 + 20 + 5, Y: 40 + 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLetters(b, TopLeft)
			for i, k := range tt.keys {
				p, done, ok := l.Key(k)
				if !ok {
					t.Fatalf("key %q rejected", k)
				}
				last := i == len(tt.keys)-1
				if done != last {
					t.Fatalf("key %d: done = %v", i, done)
				}
				if last && p != tt.want {
					t.Errorf("picked %v, want %v", p, tt.want)
				}
			}
		})
	}
}

func TestLettersIgnoreOtherKeys(t *testing.T) {
	l := NewLetters(geometry.Bounds{Width: 500, Height: 500}, BottomRight)
	for _, k := range []string{"z", "A", "enter", "1", ""} {
		if _, _, ok := l.Key(k); ok {
			t.Errorf("Key(%q) accepted", k)
		}
	}
	if l.Level() != 0 || l.Area() != (geometry.Rect{Width: 500, Height: 500}) {
		t.Errorf("state changed: level %d area %v", l.Level(), l.Area())
	}
	l.Key("g")
	if l.Level() != 1 || l.Area() != (geometry.Rect{TopLeft: geometry.Point{X: 100, Y: 100}, Width: 100, Height: 100}) {
		t.Errorf("after g: level %d area %v", l.Level(), l.Area())
	}
}
