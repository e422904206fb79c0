package geometry

import (
	"math"
	"strings"
)

// EdgeSet is a bit set of the rectangle sides being dragged together.
// A corner is two adjacent edges.
type EdgeSet uint8

const (
	EdgeTop EdgeSet = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

const (
	CornerTopLeft     = EdgeTop | EdgeLeft
	CornerTopRight    = EdgeTop | EdgeRight
	CornerBottomLeft  = EdgeBottom | EdgeLeft
	CornerBottomRight = EdgeBottom | EdgeRight
)

func (e EdgeSet) Has(edge EdgeSet) bool { return e&edge != 0 }

// IsCorner reports whether exactly one horizontal and one vertical edge are set.
func (e EdgeSet) IsCorner() bool {
	horizontal := e.Has(EdgeTop) != e.Has(EdgeBottom)
	vertical := e.Has(EdgeLeft) != e.Has(EdgeRight)
	return horizontal && vertical
}

func (e EdgeSet) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		edge EdgeSet
		name string
	}{{EdgeTop, "top"}, {EdgeBottom, "bottom"}, {EdgeLeft, "left"}, {EdgeRight, "right"}} {
		if e.Has(n.edge) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// EdgeHitTest returns the edge(s) of r that p is within threshold pixels of.
// Corners win over single edges. When both opposite edges qualify (a rectangle
// thinner than 2*threshold) the nearer one is returned; an exact tie goes to
// the bottom or right edge.
func EdgeHitTest(r Rect, p Point, threshold float64) (EdgeSet, bool) {
	n := Normalize(r)

	// The pointer must be inside the rectangle grown by threshold on every side.
	if p.X < n.Left()-threshold || p.X > n.Right()+threshold ||
		p.Y < n.Top()-threshold || p.Y > n.Bottom()+threshold {
		return 0, false
	}

	var hit EdgeSet
	hit |= nearer(math.Abs(p.Y-n.Top()), math.Abs(p.Y-n.Bottom()), threshold, EdgeTop, EdgeBottom)
	hit |= nearer(math.Abs(p.X-n.Left()), math.Abs(p.X-n.Right()), threshold, EdgeLeft, EdgeRight)
	if hit == 0 {
		return 0, false
	}
	return hit, true
}

func nearer(dLow, dHigh, threshold float64, low, high EdgeSet) EdgeSet {
	lowHit := dLow <= threshold
	highHit := dHigh <= threshold
	switch {
	case lowHit && highHit:
		if dLow < dHigh {
			return low
		}
		return high
	case lowHit:
		return low
	case highHit:
		return high
	}
	return 0
}

// NearestCorner returns the corner of r closest to p.
func NearestCorner(r Rect, p Point) EdgeSet {
	n := Normalize(r)
	var corner EdgeSet
	if math.Abs(p.Y-n.Top()) <= math.Abs(p.Y-n.Bottom()) {
		corner |= EdgeTop
	} else {
		corner |= EdgeBottom
	}
	if math.Abs(p.X-n.Left()) <= math.Abs(p.X-n.Right()) {
		corner |= EdgeLeft
	} else {
		corner |= EdgeRight
	}
	return corner
}

// MoveEdges displaces only the edges in set by d, leaving the opposite edges anchored.
// The result may have negative size; callers normalize.
func MoveEdges(r Rect, set EdgeSet, d Point) Rect {
	out := r
	if set.Has(EdgeLeft) {
		out.TopLeft.X += d.X
		out.Width -= d.X
	}
	if set.Has(EdgeRight) {
		out.Width += d.X
	}
	if set.Has(EdgeTop) {
		out.TopLeft.Y += d.Y
		out.Height -= d.Y
	}
	if set.Has(EdgeBottom) {
		out.Height += d.Y
	}
	return out
}
