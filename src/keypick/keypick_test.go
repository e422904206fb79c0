package keypick

import (
	"testing"

	"region-shot/src/geometry"
)

func press(c *Controller, keys ...string) (Outcome, geometry.Rect) {
	var out Outcome
	var r geometry.Rect
	for _, k := range keys {
		out, r = c.Key(k)
	}
	return out, r
}

func TestNewStartsAtCenter(t *testing.T) {
	c := New(geometry.Bounds{Width: 400, Height: 300}, 40)
	if got := c.Cursor(); got != (Cell{Col: 5, Row: 4}) {
		t.Errorf("Expected cursor at (5,4), got %+v", got)
	}
	if got := c.CursorPoint(); got != (geometry.Point{X: 200, Y: 160}) {
		t.Errorf("Expected cursor point (200,160), got %v", got)
	}
	if c.Stage() != AwaitingFirstCorner {
		t.Errorf("Expected stage %v, got %v", AwaitingFirstCorner, c.Stage())
	}
}

func TestDefaultCellSize(t *testing.T) {
	c := New(geometry.Bounds{Width: 400, Height: 400}, 0)
	if c.Grid().CellSize != DefaultCellSize {
		t.Errorf("Expected cell size %d, got %v", DefaultCellSize, c.Grid().CellSize)
	}
}

func TestMotions(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want Cell
	}{
		{"left", []string{"h"}, Cell{4, 4}},
		{"arrow right", []string{"right"}, Cell{6, 4}},
		{"up", []string{"k"}, Cell{5, 3}},
		{"down arrow", []string{"down"}, Cell{5, 5}},
		{"count", []string{"3", "l"}, Cell{8, 4}},
		{"multi digit count", []string{"1", "0", "h"}, Cell{0, 4}},
		{"clamped at edge", []string{"9", "9", "j"}, Cell{5, 8}},
		{"row start", []string{"0"}, Cell{0, 4}},
		{"row end", []string{"$"}, Cell{10, 4}},
		{"count resets", []string{"2", "h", "h"}, Cell{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(geometry.Bounds{Width: 400, Height: 300}, 40)
			press(c, tt.keys...)
			if got := c.Cursor(); got != tt.want {
				t.Errorf("Expected cursor %+v, got %+v", tt.want, got)
			}
			if c.Count() != 0 {
				t.Errorf("Expected count to reset, got %d", c.Count())
			}
		})
	}
}

func TestLastVertexPinnedToEdge(t *testing.T) {
	// 410 is not a multiple of 40, so the last column is short.
	c := New(geometry.Bounds{Width: 410, Height: 300}, 40)
	press(c, "$")
	if got := c.CursorPoint().X; got != 410 {
		t.Errorf("Expected last vertex at x=410, got %v", got)
	}
}

func TestCornerPick(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want geometry.Rect
	}{
		{
			"top-left then bottom-right",
			[]string{"2", "h", "t", "2", "l", "2", "j", "b"},
			geometry.Rect{TopLeft: geometry.Point{X: 120, Y: 160}, Width: 80, Height: 80},
		},
		{
			"bottom-right first normalizes",
			[]string{"b", "3", "h", "k", "t"},
			geometry.Rect{TopLeft: geometry.Point{X: 80, Y: 120}, Width: 120, Height: 40},
		},
		{
			"same cell twice is zero area",
			[]string{"3", "h", "2", "k", "t", "b"},
			geometry.Rect{TopLeft: geometry.Point{X: 80, Y: 80}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(geometry.Bounds{Width: 400, Height: 300}, 40)
			out, r := press(c, tt.keys...)
			if out != Committed {
				t.Fatalf("Expected Committed, got %v", out)
			}
			if r != tt.want {
				t.Errorf("Expected rect %v, got %v", tt.want, r)
			}
			if c.Stage() != AwaitingFirstCorner {
				t.Errorf("Expected stage to reset after commit, got %v", c.Stage())
			}
		})
	}
}

func TestGridCellTwoTwoIsDegenerate(t *testing.T) {
	c := New(geometry.Bounds{Width: 400, Height: 300}, 40)
	press(c, "0", "k", "k", "k", "k", "2", "l", "2", "j")
	if c.Cursor() != (Cell{2, 2}) {
		t.Fatalf("Expected cursor (2,2), got %+v", c.Cursor())
	}
	press(c, "t")
	out, r := press(c, "t")
	if out != Committed {
		t.Fatalf("Expected Committed, got %v", out)
	}
	if r.Area() != 0 || r.Width < 0 || r.Height < 0 {
		t.Errorf("Expected a zero-area rect, got %v", r)
	}
}

func TestFirstCornerTracking(t *testing.T) {
	c := New(geometry.Bounds{Width: 400, Height: 300}, 40)
	if _, _, ok := c.First(); ok {
		t.Fatal("Expected no first corner before marking")
	}
	out, _ := c.Key("b")
	if out != Moved {
		t.Errorf("Expected first mark to report Moved, got %v", out)
	}
	p, corner, ok := c.First()
	if !ok || corner != BottomRight || p != (geometry.Point{X: 200, Y: 160}) {
		t.Errorf("Expected bottom-right at (200,160), got %v %v %v", p, corner, ok)
	}
	if c.Stage() != AwaitingSecondCorner {
		t.Errorf("Expected %v, got %v", AwaitingSecondCorner, c.Stage())
	}
}

func TestUnhandledKeys(t *testing.T) {
	c := New(geometry.Bounds{Width: 400, Height: 300}, 40)
	before := c.Cursor()
	for _, k := range []string{"?", "enter", "escape", "z"} {
		if out, _ := c.Key(k); out != Unhandled {
			t.Errorf("Expected %q to be unhandled, got %v", k, out)
		}
	}
	if c.Cursor() != before {
		t.Errorf("Unhandled keys moved the cursor to %+v", c.Cursor())
	}
}
