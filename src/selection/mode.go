package selection

import (
	"region-shot/src/geometry"
	"region-shot/src/keypick"
)

// Mode is the active selection mode. Exactly one is current.
type Mode interface {
	Name() string
	mode()
}

type Idle struct{}

// DraggingCorner is a fresh selection being drawn from Anchor.
type DraggingCorner struct {
	Anchor geometry.Point
}

// Resizing drags Edges of AnchorRect. Offset is the accumulated, already
// precision-scaled pointer displacement and Last the previous pointer position.
type Resizing struct {
	Edges      geometry.EdgeSet
	AnchorRect geometry.Rect
	Offset     geometry.Point
	Last       geometry.Point
}

// Moving translates the selection, holding the pointer at AnchorOffset from
// the top-left corner.
type Moving struct {
	AnchorOffset geometry.Point
}

// KeyboardPick is a snapshot of the keyboard-pick controller.
type KeyboardPick struct {
	Stage  keypick.Stage
	Cursor keypick.Cell
	Point  geometry.Point
	// First is set once the first corner is marked.
	First *geometry.Point
}

// LetterPick places one corner of the selection by typing letters on nested
// grids. Area is the region the current grid divides and Base the selection
// the pick started from, if any.
type LetterPick struct {
	Corner keypick.Corner
	Level  int
	Area   geometry.Rect
	Base   *geometry.Rect
}

type Selected struct {
	Rect geometry.Rect
}

func (Idle) Name() string           { return "idle" }
func (DraggingCorner) Name() string { return "dragging" }
func (Resizing) Name() string       { return "resizing" }
func (Moving) Name() string         { return "moving" }
func (KeyboardPick) Name() string   { return "keyboard-pick" }
func (LetterPick) Name() string     { return "letter-pick" }
func (Selected) Name() string       { return "selected" }

func (Idle) mode()           {}
func (DraggingCorner) mode() {}
func (Resizing) mode()       {}
func (Moving) mode()         {}
func (KeyboardPick) mode()   {}
func (LetterPick) mode()     {}
func (Selected) mode()       {}
