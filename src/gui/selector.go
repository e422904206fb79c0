package gui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"region-shot/src/geometry"
	"region-shot/src/keypick"
	"region-shot/src/regionspec"
	"region-shot/src/screenshot"
	"region-shot/src/selection"
	"region-shot/src/session"
)

var (
	shadeColor  = color.NRGBA{A: 120}
	accentColor = color.NRGBA{R: 0x2d, G: 0x9c, B: 0xdb, A: 0xff}
	errorColor  = color.NRGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff}
	panelColor  = color.NRGBA{R: 0x16, G: 0x16, B: 0x1a, A: 0xe0}
	textSize    = float32(14)
	panelMargin = float32(12)
)

// editCheatsheet lists the bindings available outside keyboard-pick.
var editCheatsheet = []keypick.HelpLine{
	{Keys: "drag", Label: "Draw a new selection"},
	{Keys: "drag edge / corner", Label: "Resize (hold Shift for precision)"},
	{Keys: "right click", Label: "Snap nearest corner to pointer"},
	{Keys: "h j k l / arrows", Label: "Move selection"},
	{Keys: "Shift+dir / Ctrl+dir", Label: "Grow / shrink selection"},
	{Keys: "c  f  x", Label: "Center / full screen / clear"},
	{Keys: "v", Label: "Pick corners with the keyboard"},
	{Keys: "t / b", Label: "Place top-left / bottom-right with letters"},
	{Keys: "Enter", Label: "Run default action"},
	{Keys: "Ctrl+C  Ctrl+S  Ctrl+U", Label: "Copy / save / upload"},
	{Keys: "?", Label: "Toggle this help"},
	{Keys: "Esc", Label: "Cancel"},
}

// selector draws the captured frame with the current selection on top and
// forwards pointer and key input to the controller.
type selector struct {
	widget.BaseWidget

	ctl   *session.Controller
	frame screenshot.Frame

	// Only touched on the UI goroutine.
	mods   selection.Modifiers
	hover  geometry.EdgeSet
	inside bool
}

var (
	_ desktop.Mouseable  = (*selector)(nil)
	_ desktop.Hoverable  = (*selector)(nil)
	_ desktop.Cursorable = (*selector)(nil)
)

func newSelector(frame screenshot.Frame, ctl *session.Controller) *selector {
	s := &selector{ctl: ctl, frame: frame}
	s.ExtendBaseWidget(s)
	return s
}

func (s *selector) viewport() viewport { return fit(s.Size(), s.frame.Bounds()) }

func (s *selector) point(p fyne.Position) geometry.Point { return s.viewport().toCanvas(p) }

func (s *selector) pointerMods(m fyne.KeyModifier) selection.Modifiers {
	return mapModifiers(m) | s.mods
}

func (s *selector) MouseDown(e *desktop.MouseEvent) {
	b, ok := mapButton(e.Button)
	if !ok {
		return
	}
	s.ctl.Handle(selection.PointerDown{Pos: s.point(e.Position), Button: b, Mods: s.pointerMods(e.Modifier)})
}

func (s *selector) MouseUp(e *desktop.MouseEvent) {
	b, ok := mapButton(e.Button)
	if !ok {
		return
	}
	s.ctl.Handle(selection.PointerUp{Pos: s.point(e.Position), Button: b, Mods: s.pointerMods(e.Modifier)})
}

func (s *selector) MouseIn(e *desktop.MouseEvent) { s.MouseMoved(e) }

func (s *selector) MouseMoved(e *desktop.MouseEvent) {
	p := s.point(e.Position)
	s.hover, _ = s.ctl.Hover(p)
	v := s.ctl.View()
	s.inside = v.HasRect && geometry.Contains(v.Rect, p)
	s.ctl.Handle(selection.PointerMove{Pos: p, Mods: s.pointerMods(e.Modifier)})
}

func (s *selector) MouseOut() { s.hover, s.inside = 0, false }

func (s *selector) Cursor() desktop.Cursor {
	switch {
	case s.hover.IsCorner():
		return desktop.CrosshairCursor
	case s.hover.Has(geometry.EdgeLeft | geometry.EdgeRight):
		return desktop.HResizeCursor
	case s.hover.Has(geometry.EdgeTop | geometry.EdgeBottom):
		return desktop.VResizeCursor
	case s.inside:
		return desktop.PointerCursor
	}
	return desktop.CrosshairCursor
}

func (s *selector) keyDown(e *fyne.KeyEvent) {
	if m, ok := modifierKeys[e.Name]; ok {
		s.mods |= m
		return
	}
	if k, ok := mapKey(e.Name, s.mods); ok {
		s.ctl.Handle(selection.KeyDown{Key: k, Mods: s.mods})
	}
}

func (s *selector) keyUp(e *fyne.KeyEvent) {
	if m, ok := modifierKeys[e.Name]; ok {
		s.mods &^= m
		return
	}
	if k, ok := mapKey(e.Name, s.mods); ok {
		s.ctl.Handle(selection.KeyUp{Key: k, Mods: s.mods})
	}
}

func (s *selector) typedRune(r rune) {
	if k, ok := typedSymbol(r); ok {
		s.ctl.Handle(selection.KeyDown{Key: k, Mods: s.mods &^ selection.ModShift})
	}
}

func (s *selector) CreateRenderer() fyne.WidgetRenderer {
	r := &selectorRenderer{sel: s}

	r.image = canvas.NewImageFromImage(s.frame.Image)
	r.image.FillMode = canvas.ImageFillStretch
	r.image.ScaleMode = canvas.ImageScaleFastest
	r.objects = append(r.objects, r.image)

	for i := range r.shades {
		r.shades[i] = canvas.NewRectangle(shadeColor)
		r.objects = append(r.objects, r.shades[i])
	}

	r.border = canvas.NewRectangle(color.Transparent)
	r.border.StrokeColor = accentColor
	r.border.StrokeWidth = 2
	r.preview = canvas.NewRectangle(color.Transparent)
	r.preview.StrokeColor = accentColor
	r.preview.StrokeWidth = 1
	r.cursor = canvas.NewCircle(accentColor)
	r.first = canvas.NewCircle(errorColor)
	r.objects = append(r.objects, r.border, r.preview, r.cursor, r.first)

	r.letterBg = canvas.NewRectangle(color.Transparent)
	r.letterBg.StrokeColor = accentColor
	r.letterBg.StrokeWidth = 1
	r.objects = append(r.objects, r.letterBg)
	for i := range r.letters {
		t := canvas.NewText(keypick.LetterLabel(i/keypick.LetterSide, i%keypick.LetterSide), accentColor)
		t.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
		t.Alignment = fyne.TextAlignCenter
		r.letters[i] = t
		r.objects = append(r.objects, t)
	}

	r.status = canvas.NewText("", color.White)
	r.status.TextSize = textSize
	r.status.TextStyle = fyne.TextStyle{Monospace: true}
	r.statusBg = canvas.NewRectangle(panelColor)
	r.objects = append(r.objects, r.statusBg, r.status)

	r.helpBg = canvas.NewRectangle(panelColor)
	r.objects = append(r.objects, r.helpBg)
	for range max(len(editCheatsheet), len(keypick.Cheatsheet)) {
		t := canvas.NewText("", color.White)
		t.TextSize = textSize
		t.TextStyle = fyne.TextStyle{Monospace: true}
		r.help = append(r.help, t)
		r.objects = append(r.objects, t)
	}
	return r
}

type selectorRenderer struct {
	sel     *selector
	objects []fyne.CanvasObject

	image    *canvas.Image
	shades   [4]*canvas.Rectangle
	border   *canvas.Rectangle
	preview  *canvas.Rectangle
	cursor   *canvas.Circle
	first    *canvas.Circle
	letterBg *canvas.Rectangle
	letters  [keypick.LetterSide * keypick.LetterSide]*canvas.Text
	status   *canvas.Text
	statusBg *canvas.Rectangle
	helpBg   *canvas.Rectangle
	help     []*canvas.Text
}

func (r *selectorRenderer) Destroy()                     {}
func (r *selectorRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *selectorRenderer) MinSize() fyne.Size           { return fyne.NewSize(320, 240) }

func (r *selectorRenderer) Refresh() {
	r.Layout(r.sel.Size())
	for _, o := range r.objects {
		canvas.Refresh(o)
	}
}

func (r *selectorRenderer) Layout(size fyne.Size) {
	v := r.sel.ctl.View()
	vp := fit(size, v.Bounds)

	pos, sz := vp.rect(v.Bounds.Rect())
	r.image.Move(pos)
	r.image.Resize(sz)

	r.layoutSelection(vp, v)
	r.layoutPick(vp, v)
	r.layoutLetters(vp, v)
	r.layoutStatus(size, v)
	r.layoutHelp(size, v)
}

// layoutSelection dims everything outside the selection, or the whole frame
// when there is none.
func (r *selectorRenderer) layoutSelection(vp viewport, v session.View) {
	full := v.Bounds.Rect()
	if !v.HasRect {
		pos, sz := vp.rect(full)
		r.shades[0].Move(pos)
		r.shades[0].Resize(sz)
		r.shades[0].Show()
		for _, sh := range r.shades[1:] {
			sh.Hide()
		}
		r.border.Hide()
		return
	}

	sel := v.Rect
	bands := [4]geometry.Rect{
		{TopLeft: full.TopLeft, Width: full.Width, Height: sel.Top()},
		{TopLeft: geometry.Point{Y: sel.Bottom()}, Width: full.Width, Height: full.Height - sel.Bottom()},
		{TopLeft: geometry.Point{Y: sel.Top()}, Width: sel.Left(), Height: sel.Height},
		{TopLeft: geometry.Point{X: sel.Right(), Y: sel.Top()}, Width: full.Width - sel.Right(), Height: sel.Height},
	}
	for i, b := range bands {
		pos, sz := vp.rect(b)
		r.shades[i].Move(pos)
		r.shades[i].Resize(sz)
		r.shades[i].Show()
	}

	pos, sz := vp.rect(sel)
	r.border.Move(pos)
	r.border.Resize(sz)
	if v.Busy {
		r.border.StrokeColor = color.NRGBA{R: 0xf2, G: 0xc9, B: 0x4c, A: 0xff}
	} else {
		r.border.StrokeColor = accentColor
	}
	r.border.Show()
}

func (r *selectorRenderer) layoutPick(vp viewport, v session.View) {
	pick, ok := v.Mode.(selection.KeyboardPick)
	if !ok {
		r.cursor.Hide()
		r.first.Hide()
		r.preview.Hide()
		return
	}
	const dot = 10
	place := func(c *canvas.Circle, p geometry.Point) {
		at := vp.toScreen(p)
		c.Move(fyne.NewPos(at.X-dot/2, at.Y-dot/2))
		c.Resize(fyne.NewSize(dot, dot))
		c.Show()
	}
	place(r.cursor, pick.Point)
	if pick.First == nil {
		r.first.Hide()
		r.preview.Hide()
		return
	}
	place(r.first, *pick.First)
	pos, sz := vp.rect(geometry.FromPoints(*pick.First, pick.Point))
	r.preview.Move(pos)
	r.preview.Resize(sz)
	r.preview.Show()
}

// layoutLetters labels each box of the current letter grid.
func (r *selectorRenderer) layoutLetters(vp viewport, v session.View) {
	pick, ok := v.Mode.(selection.LetterPick)
	if !ok {
		r.letterBg.Hide()
		for _, t := range r.letters {
			t.Hide()
		}
		return
	}
	pos, sz := vp.rect(pick.Area)
	r.letterBg.Move(pos)
	r.letterBg.Resize(sz)
	r.letterBg.Show()

	for i, t := range r.letters {
		pos, sz := vp.rect(keypick.LetterBox(pick.Area, i/keypick.LetterSide, i%keypick.LetterSide))
		t.TextSize = min(textSize, max(sz.Height*0.6, 6))
		ms := t.MinSize()
		t.Move(fyne.NewPos(pos.X+(sz.Width-ms.Width)/2, pos.Y+(sz.Height-ms.Height)/2))
		t.Resize(ms)
		t.Show()
	}
}

func (r *selectorRenderer) layoutStatus(size fyne.Size, v session.View) {
	r.status.Color = color.White
	letters, lettering := v.Mode.(selection.LetterPick)
	switch {
	case v.Err != nil:
		r.status.Text = v.Err.Error()
		r.status.Color = errorColor
	case v.Busy:
		r.status.Text = "working... (Esc to cancel)"
	case lettering:
		r.status.Text = fmt.Sprintf("letter pick: %s  key %d of %d", letters.Corner, letters.Level+1, keypick.LetterLevels)
	case v.HasRect:
		r.status.Text = regionspec.Format(v.Rect)
	default:
		if pick, ok := v.Mode.(selection.KeyboardPick); ok {
			r.status.Text = fmt.Sprintf("keyboard pick: %s  cell %d,%d", pick.Stage, pick.Cursor.Col, pick.Cursor.Row)
		} else {
			r.status.Text = "drag to select, ? for help"
		}
	}
	ts := r.status.MinSize()
	bg := fyne.NewSize(ts.Width+2*panelMargin, ts.Height+panelMargin)
	r.statusBg.Move(fyne.NewPos(panelMargin, size.Height-bg.Height-panelMargin))
	r.statusBg.Resize(bg)
	r.status.Move(fyne.NewPos(2*panelMargin, size.Height-bg.Height-panelMargin/2))
	r.status.Resize(ts)
}

func (r *selectorRenderer) layoutHelp(size fyne.Size, v session.View) {
	if !v.Help {
		r.helpBg.Hide()
		for _, t := range r.help {
			t.Hide()
		}
		return
	}
	lines := editCheatsheet
	if _, ok := v.Mode.(selection.KeyboardPick); ok {
		lines = keypick.Cheatsheet
	}

	var width, height float32
	for i, t := range r.help {
		if i >= len(lines) {
			t.Hide()
			continue
		}
		t.Text = fmt.Sprintf("%-24s %s", lines[i].Keys, lines[i].Label)
		ms := t.MinSize()
		width = max(width, ms.Width)
		height += ms.Height
	}
	panel := fyne.NewSize(width+2*panelMargin, height+2*panelMargin)
	origin := fyne.NewPos((size.Width-panel.Width)/2, (size.Height-panel.Height)/2)
	r.helpBg.Move(origin)
	r.helpBg.Resize(panel)
	r.helpBg.Show()

	y := origin.Y + panelMargin
	for _, t := range r.help[:min(len(lines), len(r.help))] {
		ms := t.MinSize()
		t.Move(fyne.NewPos(origin.X+panelMargin, y))
		t.Resize(ms)
		t.Show()
		y += ms.Height
	}
}
