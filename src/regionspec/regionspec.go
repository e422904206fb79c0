package regionspec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"region-shot/src/geometry"
)

// Grammar is the human readable form used in error messages and --help.
const Grammar = "<width>x<height>+<x>+<y>[±<pct>%][±<pct>%]"

// FullAlias selects the whole canvas.
const FullAlias = "full"

// Length is one numeric field of a region: either pixels or a fraction of the
// matching canvas dimension.
type Length struct {
	Value    float64
	Relative bool
}

func Absolute(px float64) Length       { return Length{Value: px} }
func Relative(fraction float64) Length { return Length{Value: fraction, Relative: true} }

// Resolve converts the length to pixels against the given canvas dimension.
func (l Length) Resolve(dim float64) float64 {
	if l.Relative {
		return l.Value * dim
	}
	return l.Value
}

func (l Length) String() string {
	if l.Relative {
		s := strconv.FormatFloat(l.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64)
}

// Spec is a parsed, not yet resolved region.
type Spec struct {
	Width  Length
	Height Length
	X      Length
	Y      Length
	// Shifts are signed percentages of the resolved width/height added to X/Y.
	ShiftX float64
	ShiftY float64
	// Shifts counts the percentage suffixes present in the source text (0..2).
	Shifts int
}

// Full returns the spec equivalent to "1.0x1.0+0+0".
func Full() Spec {
	return Spec{Width: Relative(1), Height: Relative(1), X: Absolute(0), Y: Absolute(0)}
}

// Resolve turns the spec into a concrete rectangle clipped to bounds.
func (s Spec) Resolve(b geometry.Bounds) geometry.Rect {
	w := s.Width.Resolve(b.Width)
	h := s.Height.Resolve(b.Height)
	x := s.X.Resolve(b.Width) + s.ShiftX/100*w
	y := s.Y.Resolve(b.Height) + s.ShiftY/100*h
	r := geometry.Rect{TopLeft: geometry.Point{X: x, Y: y}, Width: w, Height: h}
	return geometry.Clip(geometry.Normalize(r), b)
}

func (s Spec) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%sx%s+%s+%s", s.Width, s.Height, s.X, s.Y)
	if s.Shifts >= 1 {
		sb.WriteString(formatShift(s.ShiftX))
	}
	if s.Shifts >= 2 {
		sb.WriteString(formatShift(s.ShiftY))
	}
	return sb.String()
}

func formatShift(pct float64) string {
	sign := "+"
	if math.Signbit(pct) {
		sign = "-"
	}
	return sign + strconv.FormatFloat(math.Abs(pct), 'f', -1, 64) + "%"
}

// Format serializes a concrete rectangle with absolute pixel values only.
// This is the form persisted as the last region.
func Format(r geometry.Rect) string {
	ir := r.ImageRect()
	return fmt.Sprintf("%dx%d+%d+%d", ir.Dx(), ir.Dy(), ir.Min.X, ir.Min.Y)
}

// FromRect builds an all-absolute spec for r.
func FromRect(r geometry.Rect) Spec {
	ir := r.ImageRect()
	return Spec{
		Width:  Absolute(float64(ir.Dx())),
		Height: Absolute(float64(ir.Dy())),
		X:      Absolute(float64(ir.Min.X)),
		Y:      Absolute(float64(ir.Min.Y)),
	}
}
