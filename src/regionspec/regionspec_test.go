package regionspec

import (
	"errors"
	"strings"
	"testing"

	"region-shot/src/geometry"
)

func rect(x, y, w, h float64) geometry.Rect {
	return geometry.Rect{TopLeft: geometry.Point{X: x, Y: y}, Width: w, Height: h}
}

func TestParseAndResolve(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		bounds geometry.Bounds
		want   geometry.Rect
	}{
		{"absolute", "100x200+10+20", geometry.Bounds{Width: 1920, Height: 1080}, rect(10, 20, 100, 200)},
		{"clamped to bounds", "500x500+0+0", geometry.Bounds{Width: 300, Height: 200}, rect(0, 0, 300, 200)},
		{"full alias", "full", geometry.Bounds{Width: 1234, Height: 567}, rect(0, 0, 1234, 567)},
		{"zero size", "0x0+10+10", geometry.Bounds{Width: 500, Height: 500}, rect(10, 10, 0, 0)},
		{"relative", "0.5x0.5+0.25+0.25", geometry.Bounds{Width: 1000, Height: 800}, rect(250, 200, 500, 400)},
		{"centered", "100x150+0.5+0.5-50%-50%", geometry.Bounds{Width: 800, Height: 600}, rect(350, 225, 100, 150)},
		{"horizontally centered column", "100x1.0+0.5+0-50%", geometry.Bounds{Width: 1000, Height: 800}, rect(450, 0, 100, 800)},
		{"positive shift", "250x100+0+0+30%", geometry.Bounds{Width: 1000, Height: 800}, rect(75, 0, 250, 100)},
		{"zero shifts", "10x10+5+5+0%-0%", geometry.Bounds{Width: 100, Height: 100}, rect(5, 5, 10, 10)},
		{"pushed off the left edge", "100x100+1+1-100%-100%", geometry.Bounds{Width: 400, Height: 400}, rect(0, 0, 1, 1)},
		{"surrounding whitespace", "  20x20+1+1 ", geometry.Bounds{Width: 100, Height: 100}, rect(1, 1, 20, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			got := spec.Resolve(tt.bounds)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !tt.bounds.ContainsRect(got) {
				t.Errorf("Resolve(%q) = %v escapes bounds", tt.input, got)
			}
		})
	}
}

func TestFullMatchesExplicitForm(t *testing.T) {
	full, err := Parse("full")
	if err != nil {
		t.Fatal(err)
	}
	explicit, err := Parse("1.0x1.0+0+0")
	if err != nil {
		t.Fatal(err)
	}
	if full != explicit {
		t.Errorf("full = %+v, explicit = %+v", full, explicit)
	}
	for _, b := range []geometry.Bounds{{Width: 1, Height: 1}, {Width: 1920, Height: 1080}, {Width: 3440, Height: 1440}} {
		if a, e := full.Resolve(b), explicit.Resolve(b); a != e || a != b.Rect() {
			t.Errorf("bounds %v: full=%v explicit=%v", b, a, e)
		}
	}
}

func TestDecimalPointDiscriminates(t *testing.T) {
	spec, err := Parse("1x1.0+1+0.0")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Width.Relative || !spec.Height.Relative || spec.X.Relative || !spec.Y.Relative {
		t.Errorf("unexpected length kinds: %+v", spec)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		pos      int
		token    string
		expected string
	}{
		{"abc", 0, "abc", "<width>"},
		{"", 0, "", "<width>"},
		{"100", 3, "", "'x'"},
		{"100x200", 7, "", "'+' before x"},
		{"100x200+10", 10, "", "'+' before y"},
		{"100x200+10+", 11, "", "<y>"},
		{"1.5x200+0+0", 0, "1.5", "fraction within [0,1]"},
		{"100x200+0+0-50", 14, "", "'%'"},
		{"100x200+0+0*5%", 11, "*5", "'+' or '-'"},
		{"100x200+0+0+1%+2%+3%", 17, "+3%", "two shifts"},
		{"100x200+0+0+%", 12, "%", "percentage digits"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error = %v, want *ParseError", tt.input, err)
			}
			if pe.Pos != tt.pos {
				t.Errorf("Pos = %d, want %d", pe.Pos, tt.pos)
			}
			if pe.Token != tt.token {
				t.Errorf("Token = %q, want %q", pe.Token, tt.token)
			}
			if !strings.Contains(pe.Expected, tt.expected) {
				t.Errorf("Expected = %q, want it to mention %q", pe.Expected, tt.expected)
			}
			if !strings.Contains(pe.Error(), Grammar) {
				t.Errorf("error message %q does not mention the grammar", pe.Error())
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	r := rect(42, 24, 800, 600)
	text := Format(r)
	if text != "800x600+42+24" {
		t.Fatalf("Format = %q", text)
	}
	spec, err := Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if got := spec.Resolve(geometry.Bounds{Width: 3440, Height: 1440}); got != r {
		t.Errorf("round trip = %v, want %v", got, r)
	}
	if spec != FromRect(r) {
		t.Errorf("FromRect = %+v, parsed = %+v", FromRect(r), spec)
	}
}

func TestSpecString(t *testing.T) {
	for _, in := range []string{"100x1.0+0.5+0-50%", "1.0x1.0+0+0", "10x10+5+5+25%+12.5%"} {
		spec, err := Parse(in)
		if err != nil {
			t.Fatal(err)
		}
		if got := spec.String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
	}
}

func TestFlag(t *testing.T) {
	var f Flag
	if err := f.Set("nope"); err == nil {
		t.Error("expected error for malformed flag value")
	}
	if f.Spec != nil {
		t.Error("failed Set must not store a spec")
	}
	if err := f.Set("full"); err != nil {
		t.Fatal(err)
	}
	if f.Spec == nil || *f.Spec != Full() {
		t.Errorf("Spec = %+v", f.Spec)
	}
}
