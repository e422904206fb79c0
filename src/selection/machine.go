// Package selection is the interactive region selection state machine. It is
// pure: every input event is applied synchronously and the machine reports
// what the host should do next as Effects. It never touches pixels, windows,
// files or the network.
package selection

import (
	"log"

	"region-shot/src/action"
	"region-shot/src/geometry"
	"region-shot/src/keypick"
)

// Config tunes the machine. Zero values fall back to the defaults below.
type Config struct {
	Bounds            geometry.Bounds
	PrecisionDivisor  float64
	EdgeThreshold     float64
	GridCellSize      float64
	MoveStep          float64
	DefaultAction     action.Kind
	AcceptOnSelect    *action.Kind
	PrecisionModifier Modifiers
	SuppressModifier  Modifiers
}

const (
	DefaultPrecisionDivisor = 10
	DefaultEdgeThreshold    = 16
	DefaultMoveStep         = 1
)

func (c Config) withDefaults() Config {
	if c.PrecisionDivisor <= 0 {
		c.PrecisionDivisor = DefaultPrecisionDivisor
	}
	if c.EdgeThreshold <= 0 {
		c.EdgeThreshold = DefaultEdgeThreshold
	}
	if c.GridCellSize <= 0 {
		c.GridCellSize = keypick.DefaultCellSize
	}
	if c.MoveStep <= 0 {
		c.MoveStep = DefaultMoveStep
	}
	if c.PrecisionModifier == 0 {
		c.PrecisionModifier = ModShift
	}
	if c.SuppressModifier == 0 {
		c.SuppressModifier = ModCtrl
	}
	return c
}

// DispatchRequest asks the host to run an action on Rect. The host must
// report the outcome through Complete with the same Seq.
type DispatchRequest struct {
	Seq    uint64
	Action action.Pending
	Rect   geometry.Rect
}

// Effects is what the host must do after an event.
type Effects struct {
	// Dispatch starts a background action.
	Dispatch *DispatchRequest
	// Cancel names an in-flight dispatch to abort.
	Cancel uint64
	// Finished is set when an action succeeded and the session is over.
	Finished *action.Result
	// Err is a non-fatal message for the user.
	Err error
	// Quit means the user cancelled with nothing selected.
	Quit bool
	// Changed means the overlay needs a redraw.
	Changed bool
}

// Machine owns the current selection. It is not safe for concurrent use;
// hosts feed it from a single goroutine.
type Machine struct {
	cfg  Config
	mode Mode
	rect geometry.Rect
	pick    *keypick.Controller
	letters *keypick.Letters

	count    int
	help     bool
	seq      uint64
	inFlight uint64
}

func New(cfg Config) *Machine {
	return &Machine{cfg: cfg.withDefaults(), mode: Idle{}}
}

// State returns the current mode.
func (m *Machine) State() Mode { return m.mode }

// Rect returns the current selection, which is only present while drawing,
// resizing, moving or selected, and during a letter pick started from one.
func (m *Machine) Rect() (geometry.Rect, bool) {
	switch s := m.mode.(type) {
	case Idle, KeyboardPick:
		return geometry.Rect{}, false
	case LetterPick:
		if s.Base == nil {
			return geometry.Rect{}, false
		}
	}
	return m.rect, true
}

func (m *Machine) Bounds() geometry.Bounds { return m.cfg.Bounds }
func (m *Machine) HelpVisible() bool       { return m.help }
func (m *Machine) InFlight() bool          { return m.inFlight != 0 }

// Hover reports which edges a press at p would grab, for cursor feedback.
func (m *Machine) Hover(p geometry.Point) (geometry.EdgeSet, bool) {
	if _, ok := m.mode.(Selected); !ok {
		return 0, false
	}
	return geometry.EdgeHitTest(m.rect, p, m.cfg.EdgeThreshold)
}

// Preselect starts the session with r already selected.
func (m *Machine) Preselect(r geometry.Rect) {
	m.rect = geometry.Clip(r, m.cfg.Bounds)
	m.setMode(Selected{Rect: m.rect})
}

// Handle applies one event.
func (m *Machine) Handle(ev Event) Effects {
	switch e := ev.(type) {
	case PointerDown:
		return m.pointerDown(e)
	case PointerMove:
		return m.pointerMove(e)
	case PointerUp:
		return m.pointerUp(e)
	case KeyDown:
		return m.keyDown(e)
	}
	return Effects{}
}

// Complete feeds a dispatch result back. Results for anything other than the
// current in-flight dispatch are discarded.
func (m *Machine) Complete(res action.Result) Effects {
	if res.Seq == 0 || res.Seq != m.inFlight {
		log.Printf("SELECTION: discarding stale result #%d (in flight #%d)", res.Seq, m.inFlight)
		return Effects{}
	}
	m.inFlight = 0
	switch {
	case res.Cancelled:
		return Effects{Changed: true}
	case res.Err != nil:
		log.Printf("SELECTION: dispatch #%d failed, keeping selection: %v", res.Seq, res.Err)
		return Effects{Err: res.Err, Changed: true}
	}
	return Effects{Finished: &res, Changed: true}
}

func (m *Machine) setMode(next Mode) {
	if next.Name() != m.mode.Name() {
		log.Printf("SELECTION: %s -> %s", m.mode.Name(), next.Name())
	}
	m.mode = next
}

func (m *Machine) reset() {
	m.rect = geometry.Rect{}
	m.pick = nil
	m.letters = nil
	m.count = 0
	m.help = false
	m.setMode(Idle{})
}

func (m *Machine) startDrag(p geometry.Point) Effects {
	m.pick = nil
	m.letters = nil
	m.rect = geometry.Rect{TopLeft: p}
	m.setMode(DraggingCorner{Anchor: p})
	return Effects{Changed: true}
}

func (m *Machine) pointerDown(e PointerDown) Effects {
	inCanvas := m.cfg.Bounds.Contains(e.Pos)
	switch m.mode.(type) {
	case Idle, KeyboardPick, LetterPick:
		if e.Button == ButtonLeft && inCanvas {
			return m.startDrag(e.Pos)
		}
	case Selected:
		if e.Button == ButtonRight {
			return m.resizeToPointer(e.Pos)
		}
		if e.Button != ButtonLeft {
			return Effects{}
		}
		if edges, ok := geometry.EdgeHitTest(m.rect, e.Pos, m.cfg.EdgeThreshold); ok {
			m.setMode(Resizing{Edges: edges, AnchorRect: m.rect, Last: e.Pos})
			return Effects{Changed: true}
		}
		if geometry.Contains(m.rect, e.Pos) {
			m.setMode(Moving{AnchorOffset: e.Pos.Sub(m.rect.TopLeft)})
			return Effects{Changed: true}
		}
		if inCanvas {
			return m.startDrag(e.Pos)
		}
	}
	return Effects{}
}

// resizeToPointer grabs the corner nearest p and snaps it there.
func (m *Machine) resizeToPointer(p geometry.Point) Effects {
	corner := geometry.NearestCorner(m.rect, p)
	r := Resizing{
		Edges:      corner,
		AnchorRect: m.rect,
		Offset:     p.Sub(cornerPoint(m.rect, corner)),
		Last:       p,
	}
	m.rect = m.resized(r)
	m.setMode(r)
	return Effects{Changed: true}
}

func cornerPoint(r geometry.Rect, corner geometry.EdgeSet) geometry.Point {
	p := r.TopLeft
	if corner.Has(geometry.EdgeRight) {
		p.X = r.Right()
	}
	if corner.Has(geometry.EdgeBottom) {
		p.Y = r.Bottom()
	}
	return p
}

func (m *Machine) resized(r Resizing) geometry.Rect {
	moved := geometry.MoveEdges(r.AnchorRect, r.Edges, r.Offset)
	return geometry.Clip(geometry.Normalize(moved), m.cfg.Bounds)
}

func (m *Machine) pointerMove(e PointerMove) Effects {
	switch s := m.mode.(type) {
	case DraggingCorner:
		m.rect = geometry.Clip(geometry.FromPoints(s.Anchor, e.Pos), m.cfg.Bounds)
	case Resizing:
		d := e.Pos.Sub(s.Last)
		if e.Mods.Has(m.cfg.PrecisionModifier) {
			d = d.Scale(1 / m.cfg.PrecisionDivisor)
		}
		s.Offset = s.Offset.Add(d)
		s.Last = e.Pos
		m.rect = m.resized(s)
		m.mode = s
	case Moving:
		moved := geometry.Rect{TopLeft: e.Pos.Sub(s.AnchorOffset), Width: m.rect.Width, Height: m.rect.Height}
		m.rect = geometry.ClampInto(moved, m.cfg.Bounds)
	default:
		return Effects{}
	}
	return Effects{Changed: true}
}

func (m *Machine) pointerUp(e PointerUp) Effects {
	switch m.mode.(type) {
	case DraggingCorner:
		m.setMode(Selected{Rect: m.rect})
		fx := m.acceptOnSelect(e.Mods)
		fx.Changed = true
		return fx
	case Resizing, Moving:
		m.setMode(Selected{Rect: m.rect})
		return Effects{Changed: true}
	}
	return Effects{}
}

// acceptOnSelect fires the configured auto action after a fresh selection,
// unless the suppress modifier is held right now.
func (m *Machine) acceptOnSelect(mods Modifiers) Effects {
	if m.cfg.AcceptOnSelect == nil || m.rect.IsEmpty() {
		return Effects{}
	}
	if mods.Has(m.cfg.SuppressModifier) {
		log.Printf("SELECTION: accept-on-select suppressed by %s", m.cfg.SuppressModifier)
		return Effects{}
	}
	return m.commit(*m.cfg.AcceptOnSelect, action.OnAcceptOnSelect)
}

func (m *Machine) commit(kind action.Kind, trigger action.Trigger) Effects {
	if _, ok := m.mode.(Selected); !ok {
		return Effects{Err: action.ErrNoSelection}
	}
	if m.inFlight != 0 {
		return Effects{Err: action.ErrBusy}
	}
	if m.rect.IsEmpty() {
		return Effects{Err: action.ErrEmptySelection}
	}
	m.seq++
	m.inFlight = m.seq
	log.Printf("SELECTION: commit #%d %s %v", m.seq, kind, m.rect)
	return Effects{
		Dispatch: &DispatchRequest{Seq: m.seq, Action: action.Pending{Kind: kind, Trigger: trigger}, Rect: m.rect},
		Changed:  true,
	}
}
