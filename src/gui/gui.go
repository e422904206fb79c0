// Package gui is the fyne front end for a capture session: a full-screen
// overlay over the frozen capture, the save dialog and the upload result card.
package gui

import (
	"context"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"region-shot/src/screenshot"
	"region-shot/src/session"
)

const AppID = "io.github.regionshot"

// Overlay runs the selection UI. It satisfies session.Overlay. Only one
// overlay can run per process.
type Overlay struct {
	Title string
	// ShowUploadResult keeps the window open after an upload to show the
	// link and its QR code.
	ShowUploadResult bool

	picker *SavePicker
}

func NewOverlay(saveDir string) *Overlay {
	return &Overlay{Title: "regionshot", ShowUploadResult: true, picker: &SavePicker{Dir: saveDir}}
}

// Picker is the save dialog bound to this overlay's window.
func (o *Overlay) Picker() *SavePicker { return o.picker }

func (o *Overlay) Run(ctx context.Context, frame screenshot.Frame, ctl *session.Controller) error {
	a := app.NewWithID(AppID)
	w := a.NewWindow(o.Title)
	w.SetPadded(false)

	sel := newSelector(frame, ctl)
	w.SetContent(sel)
	w.SetFullScreen(true)
	bindKeys(w, sel)

	o.picker.attach(w)
	defer o.picker.attach(nil)

	ctl.OnChange(func() { fyne.Do(sel.Refresh) })
	w.SetOnClosed(func() { ctl.Abort(nil) })

	go func() {
		<-ctl.Done()
		res, err := ctl.Outcome()
		fyne.Do(func() {
			if err == nil && o.ShowUploadResult && res.URL != "" {
				showUploadResult(w, res, a.Quit)
				return
			}
			a.Quit()
		})
	}()

	log.Printf("GUI: overlay up on %v canvas", frame.Bounds().Rect())
	w.Show()
	a.Run()
	ctl.Abort(nil)
	return nil
}

func bindKeys(w fyne.Window, sel *selector) {
	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(sel.keyDown)
		dc.SetOnKeyUp(sel.keyUp)
	} else {
		w.Canvas().SetOnTypedKey(sel.keyDown)
	}
	w.Canvas().SetOnTypedRune(sel.typedRune)
}
