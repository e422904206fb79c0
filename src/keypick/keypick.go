// Package keypick selects a rectangle with the keyboard only, by walking a
// cursor over a coarse grid and marking two opposite corners.
package keypick

import (
	"fmt"
	"math"

	"region-shot/src/geometry"
)

// DefaultCellSize is the grid pitch in pixels when none is configured.
const DefaultCellSize = 40

// maxCount stops a runaway repeat prefix from overflowing.
const maxCount = 9999

// Stage is the progress of a corner-pick.
type Stage int

const (
	AwaitingFirstCorner Stage = iota
	AwaitingSecondCorner
)

func (s Stage) String() string {
	switch s {
	case AwaitingFirstCorner:
		return "awaiting first corner"
	case AwaitingSecondCorner:
		return "awaiting second corner"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Corner names which reference the first commit marked.
type Corner int

const (
	TopLeft Corner = iota
	BottomRight
)

func (c Corner) String() string {
	if c == BottomRight {
		return "bottom-right"
	}
	return "top-left"
}

// Cell is an integer grid vertex. Col 0 is the left canvas edge.
type Cell struct {
	Col int
	Row int
}

// Grid maps cells onto the canvas. Vertices sit every CellSize pixels, and the
// last vertex of each axis is pinned to the canvas edge.
type Grid struct {
	Bounds   geometry.Bounds
	CellSize float64
}

// Cols returns the index of the last column vertex.
func (g Grid) Cols() int { return int(math.Ceil(g.Bounds.Width / g.CellSize)) }

// Rows returns the index of the last row vertex.
func (g Grid) Rows() int { return int(math.Ceil(g.Bounds.Height / g.CellSize)) }

// Point converts a cell to screen coordinates.
func (g Grid) Point(c Cell) geometry.Point {
	return geometry.Point{
		X: math.Min(float64(c.Col)*g.CellSize, g.Bounds.Width),
		Y: math.Min(float64(c.Row)*g.CellSize, g.Bounds.Height),
	}
}

// Center returns the vertex nearest the middle of the canvas.
func (g Grid) Center() Cell { return Cell{Col: g.Cols() / 2, Row: g.Rows() / 2} }

func (g Grid) clamp(c Cell) Cell {
	c.Col = max(0, min(c.Col, g.Cols()))
	c.Row = max(0, min(c.Row, g.Rows()))
	return c
}

// Outcome says what a key did to the controller.
type Outcome int

const (
	// Unhandled keys are left for the caller.
	Unhandled Outcome = iota
	// Moved covers cursor motion, count digits and the first corner commit.
	Moved
	// Committed means both corners are marked and a rectangle is ready.
	Committed
)

// Controller is the keyboard-pick sub-machine. It never blocks and holds no
// reference to the outside world.
type Controller struct {
	grid        Grid
	stage       Stage
	cursor      Cell
	first       geometry.Point
	firstCorner Corner
	count       int
}

// New starts a pick with the cursor at the canvas center.
func New(bounds geometry.Bounds, cellSize float64) *Controller {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	g := Grid{Bounds: bounds, CellSize: cellSize}
	return &Controller{grid: g, cursor: g.Center()}
}

func (c *Controller) Grid() Grid   { return c.grid }
func (c *Controller) Stage() Stage { return c.stage }
func (c *Controller) Cursor() Cell { return c.cursor }

// Count is the pending repeat prefix, zero when none was typed.
func (c *Controller) Count() int { return c.count }

// CursorPoint is the cursor in screen coordinates.
func (c *Controller) CursorPoint() geometry.Point { return c.grid.Point(c.cursor) }

// First returns the marked corner once the first commit happened.
func (c *Controller) First() (geometry.Point, Corner, bool) {
	return c.first, c.firstCorner, c.stage == AwaitingSecondCorner
}

// Key applies one logical key. Recognised keys are h/j/k/l, the arrow names
// left/down/up/right, digits as a repeat count, 0 and $ for the row ends, and
// t/b to mark a corner. The rectangle is only meaningful when the outcome is
// Committed.
func (c *Controller) Key(key string) (Outcome, geometry.Rect) {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && (key[0] != '0' || c.count > 0) {
		c.count = min(c.count*10+int(key[0]-'0'), maxCount)
		return Moved, geometry.Rect{}
	}

	n := max(c.count, 1)
	c.count = 0

	switch key {
	case "h", "left":
		c.move(-n, 0)
	case "l", "right":
		c.move(n, 0)
	case "k", "up":
		c.move(0, -n)
	case "j", "down":
		c.move(0, n)
	case "0":
		c.cursor.Col = 0
	case "$":
		c.cursor.Col = c.grid.Cols()
	case "t":
		return c.mark(TopLeft)
	case "b":
		return c.mark(BottomRight)
	default:
		return Unhandled, geometry.Rect{}
	}
	return Moved, geometry.Rect{}
}

func (c *Controller) move(dc, dr int) {
	c.cursor = c.grid.clamp(Cell{Col: c.cursor.Col + dc, Row: c.cursor.Row + dr})
}

// mark commits the cursor as a corner. Which key marks the second corner does
// not matter: the two points are normalized.
func (c *Controller) mark(corner Corner) (Outcome, geometry.Rect) {
	p := c.CursorPoint()
	if c.stage == AwaitingFirstCorner {
		c.first = p
		c.firstCorner = corner
		c.stage = AwaitingSecondCorner
		return Moved, geometry.Rect{}
	}
	r := geometry.Clip(geometry.FromPoints(c.first, p), c.grid.Bounds)
	c.stage = AwaitingFirstCorner
	return Committed, r
}

// HelpLine is one row of the cheatsheet overlay.
type HelpLine struct {
	Keys  string
	Label string
}

// Cheatsheet lists the keyboard-pick bindings for the help overlay.
var Cheatsheet = []HelpLine{
	{"h j k l / arrows", "Move cursor one cell"},
	{"<count> motion", "Repeat motion, e.g. 5l"},
	{"0 / $", "Jump to start / end of row"},
	{"t", "Mark top-left corner"},
	{"b", "Mark bottom-right corner"},
	{"?", "Toggle this help"},
	{"Esc", "Cancel"},
}
