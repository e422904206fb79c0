package geometry

import (
	"fmt"
	"image"
	"math"
)

// Point is a screen-space coordinate in pixels.
type Point struct {
	X float64
	Y float64
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale multiplies both coordinates by k.
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
// Width and Height may be negative before Normalize is applied.
type Rect struct {
	TopLeft Point
	Width   float64
	Height  float64
}

// Bounds is the capturable canvas. Its origin is always (0,0).
type Bounds struct {
	Width  float64
	Height float64
}

// Rect returns the rectangle covering the whole canvas.
func (b Bounds) Rect() Rect { return Rect{Width: b.Width, Height: b.Height} }

// Center returns the middle of the canvas.
func (b Bounds) Center() Point { return Point{X: b.Width / 2, Y: b.Height / 2} }

// Contains reports whether p lies on the canvas, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= b.Width && p.Y <= b.Height
}

// ClampPoint moves p onto the canvas.
func (b Bounds) ClampPoint(p Point) Point {
	return Point{X: clamp(p.X, 0, b.Width), Y: clamp(p.Y, 0, b.Height)}
}

// FromPoints builds the normalized rectangle spanned by two opposite corners.
func FromPoints(a, b Point) Rect {
	return Normalize(Rect{TopLeft: a, Width: b.X - a.X, Height: b.Y - a.Y})
}

func (r Rect) Left() float64   { return r.TopLeft.X }
func (r Rect) Top() float64    { return r.TopLeft.Y }
func (r Rect) Right() float64  { return r.TopLeft.X + r.Width }
func (r Rect) Bottom() float64 { return r.TopLeft.Y + r.Height }

// BottomRight returns the corner opposite TopLeft.
func (r Rect) BottomRight() Point { return Point{X: r.Right(), Y: r.Bottom()} }

func (r Rect) Area() float64 { return r.Width * r.Height }

// IsEmpty reports a zero (or negative) area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Translate moves the rectangle by d without resizing it.
func (r Rect) Translate(d Point) Rect {
	r.TopLeft = r.TopLeft.Add(d)
	return r
}

// ImageRect converts to integer pixel coordinates, rounding each edge to the nearest pixel.
func (r Rect) ImageRect() image.Rectangle {
	n := Normalize(r)
	return image.Rect(
		int(math.Round(n.Left())), int(math.Round(n.Top())),
		int(math.Round(n.Right())), int(math.Round(n.Bottom())),
	)
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g+%g+%g", r.Width, r.Height, r.TopLeft.X, r.TopLeft.Y)
}

// Normalize swaps coordinates so that width and height are non-negative.
func Normalize(r Rect) Rect {
	if r.Width < 0 {
		r.TopLeft.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.TopLeft.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Clip intersects r with the canvas. A rectangle lying outside the canvas on
// either axis collapses to a point at the nearest in-bounds corner of r.
func Clip(r Rect, b Bounds) Rect {
	n := Normalize(r)
	x0 := clamp(n.Left(), 0, b.Width)
	y0 := clamp(n.Top(), 0, b.Height)
	if n.Right() < 0 || n.Left() > b.Width || n.Bottom() < 0 || n.Top() > b.Height {
		return Rect{TopLeft: Point{X: x0, Y: y0}}
	}
	x1 := clamp(n.Right(), 0, b.Width)
	y1 := clamp(n.Bottom(), 0, b.Height)
	return Rect{TopLeft: Point{X: x0, Y: y0}, Width: x1 - x0, Height: y1 - y0}
}

// ClampInto translates r so it lies fully inside the canvas, keeping its size.
// A rectangle larger than the canvas is clipped instead.
func ClampInto(r Rect, b Bounds) Rect {
	n := Normalize(r)
	if n.Width > b.Width || n.Height > b.Height {
		return Clip(n, b)
	}
	n.TopLeft.X = clamp(n.TopLeft.X, 0, b.Width-n.Width)
	n.TopLeft.Y = clamp(n.TopLeft.Y, 0, b.Height-n.Height)
	return n
}

// Contains reports whether p lies inside r, edges included.
func Contains(r Rect, p Point) bool {
	n := Normalize(r)
	return p.X >= n.Left() && p.X <= n.Right() && p.Y >= n.Top() && p.Y <= n.Bottom()
}

// ContainsRect reports whether inner lies entirely within the canvas.
func (b Bounds) ContainsRect(inner Rect) bool {
	n := Normalize(inner)
	return n.Left() >= 0 && n.Top() >= 0 && n.Right() <= b.Width && n.Bottom() <= b.Height
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
