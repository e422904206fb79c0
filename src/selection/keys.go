package selection

import (
	"log"

	"region-shot/src/action"
	"region-shot/src/geometry"
	"region-shot/src/keypick"
)

type direction int

const (
	dirNone direction = iota
	dirLeft
	dirRight
	dirUp
	dirDown
)

func keyDirection(key string) direction {
	switch key {
	case "h", "left":
		return dirLeft
	case "l", "right":
		return dirRight
	case "k", "up":
		return dirUp
	case "j", "down":
		return dirDown
	}
	return dirNone
}

// letterCorners open a letter pick for one corner of the selection.
var letterCorners = map[string]keypick.Corner{
	"t": keypick.TopLeft,
	"b": keypick.BottomRight,
}

// actionChords are the Ctrl+key shortcuts that dispatch immediately.
var actionChords = map[string]action.Kind{
	"c": action.Copy,
	"s": action.Save,
	"u": action.Upload,
}

func (m *Machine) keyDown(e KeyDown) Effects {
	if e.Key == "escape" {
		return m.escape()
	}
	// Every grid letter belongs to the letter pick, "v" and "b" included.
	if s, ok := m.mode.(LetterPick); ok {
		return m.letterKey(s, e)
	}

	switch {
	case e.Key == "?":
		m.help = !m.help
		return Effects{Changed: true}
	case e.Key == "v" && e.Mods == 0:
		m.enterPick()
		return Effects{Changed: true}
	}

	if _, ok := m.mode.(KeyboardPick); ok {
		return m.pickKey(e)
	}

	if e.Mods.Has(ModCtrl) {
		if kind, ok := actionChords[e.Key]; ok {
			m.count = 0
			return m.commit(kind, action.OnModifierHeld)
		}
	}
	if e.Key == "enter" {
		m.count = 0
		return m.commit(m.cfg.DefaultAction, action.OnCommit)
	}

	if corner, ok := letterCorners[e.Key]; ok && e.Mods == 0 {
		switch m.mode.(type) {
		case Idle, Selected:
			return m.enterLetters(corner)
		}
	}

	switch m.mode.(type) {
	case Idle:
		if e.Key == "f" {
			return m.selectFull()
		}
	case Selected:
		return m.editKey(e)
	}
	return Effects{}
}

// escape drops whatever is in progress along with any in-flight dispatch.
// With nothing in progress it ends the session.
func (m *Machine) escape() Effects {
	if m.inFlight != 0 {
		seq := m.inFlight
		m.inFlight = 0
		m.reset()
		log.Printf("SELECTION: cancelling dispatch #%d", seq)
		return Effects{Cancel: seq, Changed: true}
	}
	if _, idle := m.mode.(Idle); idle {
		if m.help {
			m.help = false
			return Effects{Changed: true}
		}
		return Effects{Quit: true}
	}
	m.reset()
	return Effects{Changed: true}
}

func (m *Machine) enterPick() {
	m.pick = keypick.New(m.cfg.Bounds, m.cfg.GridCellSize)
	m.rect = geometry.Rect{}
	m.count = 0
	m.setMode(m.pickSnapshot())
}

func (m *Machine) pickSnapshot() KeyboardPick {
	s := KeyboardPick{Stage: m.pick.Stage(), Cursor: m.pick.Cursor(), Point: m.pick.CursorPoint()}
	if p, _, ok := m.pick.First(); ok {
		s.First = &p
	}
	return s
}

func (m *Machine) pickKey(e KeyDown) Effects {
	out, r := m.pick.Key(e.Key)
	switch out {
	case keypick.Committed:
		m.pick = nil
		m.rect = r
		m.setMode(Selected{Rect: r})
		fx := m.acceptOnSelect(e.Mods)
		fx.Changed = true
		return fx
	case keypick.Moved:
		m.mode = m.pickSnapshot()
		return Effects{Changed: true}
	}
	return Effects{}
}

func (m *Machine) enterLetters(corner keypick.Corner) Effects {
	var base *geometry.Rect
	if _, ok := m.mode.(Selected); ok {
		r := m.rect
		base = &r
	}
	m.letters = keypick.NewLetters(m.cfg.Bounds, corner)
	m.count = 0
	m.setMode(m.letterSnapshot(base))
	return Effects{Changed: true}
}

func (m *Machine) letterSnapshot(base *geometry.Rect) LetterPick {
	return LetterPick{Corner: m.letters.Corner, Level: m.letters.Level(), Area: m.letters.Area(), Base: base}
}

func (m *Machine) letterKey(s LetterPick, e KeyDown) Effects {
	p, done, ok := m.letters.Key(e.Key)
	if !ok {
		return Effects{}
	}
	if !done {
		m.mode = m.letterSnapshot(s.Base)
		return Effects{Changed: true}
	}

	m.letters = nil
	var base geometry.Rect
	if s.Base != nil {
		base = *s.Base
	}
	m.rect = placeCorner(base, s.Corner, p, m.cfg.Bounds)
	m.setMode(Selected{Rect: m.rect})
	fx := m.acceptOnSelect(e.Mods)
	fx.Changed = true
	return fx
}

// placeCorner moves the top-left corner of r to p, keeping as much of its
// size as fits, or drags the bottom-right corner of r to p.
func placeCorner(r geometry.Rect, corner keypick.Corner, p geometry.Point, b geometry.Bounds) geometry.Rect {
	if corner == keypick.TopLeft {
		return geometry.Rect{TopLeft: p, Width: min(r.Width, b.Width-p.X), Height: min(r.Height, b.Height-p.Y)}
	}
	return geometry.Clip(geometry.FromPoints(r.TopLeft, p), b)
}

func (m *Machine) selectFull() Effects {
	m.rect = m.cfg.Bounds.Rect()
	m.setMode(Selected{Rect: m.rect})
	return Effects{Changed: true}
}

// editKey handles keyboard edits of an existing selection. Digits build a
// repeat count that the next edit consumes.
func (m *Machine) editKey(e KeyDown) Effects {
	if len(e.Key) == 1 && e.Key[0] >= '0' && e.Key[0] <= '9' && (e.Key[0] != '0' || m.count > 0) {
		m.count = min(m.count*10+int(e.Key[0]-'0'), 9999)
		return Effects{}
	}
	n := float64(max(m.count, 1)) * m.cfg.MoveStep
	m.count = 0

	if dir := keyDirection(e.Key); dir != dirNone {
		switch {
		case e.Mods.Has(ModShift):
			m.rect = extend(m.rect, dir, n, m.cfg.Bounds)
		case e.Mods.Has(ModCtrl):
			m.rect = shrink(m.rect, dir, n)
		default:
			m.rect = geometry.ClampInto(m.rect.Translate(offset(dir, n)), m.cfg.Bounds)
		}
		m.setMode(Selected{Rect: m.rect})
		return Effects{Changed: true}
	}

	switch e.Key {
	case "c":
		center := m.cfg.Bounds.Center()
		m.rect.TopLeft = geometry.Point{X: center.X - m.rect.Width/2, Y: center.Y - m.rect.Height/2}
		m.rect = geometry.ClampInto(m.rect, m.cfg.Bounds)
		m.setMode(Selected{Rect: m.rect})
		return Effects{Changed: true}
	case "f":
		return m.selectFull()
	case "x":
		m.reset()
		return Effects{Changed: true}
	}
	return Effects{}
}

func offset(dir direction, n float64) geometry.Point {
	switch dir {
	case dirLeft:
		return geometry.Point{X: -n}
	case dirRight:
		return geometry.Point{X: n}
	case dirUp:
		return geometry.Point{Y: -n}
	case dirDown:
		return geometry.Point{Y: n}
	}
	return geometry.Point{}
}

// extend pushes the side facing dir outward by n, stopping at the canvas edge.
func extend(r geometry.Rect, dir direction, n float64, b geometry.Bounds) geometry.Rect {
	edge := map[direction]geometry.EdgeSet{
		dirLeft:  geometry.EdgeLeft,
		dirRight: geometry.EdgeRight,
		dirUp:    geometry.EdgeTop,
		dirDown:  geometry.EdgeBottom,
	}[dir]
	return geometry.Clip(geometry.MoveEdges(r, edge, offset(dir, n)), b)
}

// shrink pulls the side opposite dir inward by n, never below zero size.
func shrink(r geometry.Rect, dir direction, n float64) geometry.Rect {
	switch dir {
	case dirRight:
		n = min(n, r.Width)
		return geometry.MoveEdges(r, geometry.EdgeLeft, geometry.Point{X: n})
	case dirLeft:
		n = min(n, r.Width)
		return geometry.MoveEdges(r, geometry.EdgeRight, geometry.Point{X: -n})
	case dirDown:
		n = min(n, r.Height)
		return geometry.MoveEdges(r, geometry.EdgeTop, geometry.Point{Y: n})
	case dirUp:
		n = min(n, r.Height)
		return geometry.MoveEdges(r, geometry.EdgeBottom, geometry.Point{Y: -n})
	}
	return r
}
