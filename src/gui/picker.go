package gui

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"region-shot/src/action"
	"region-shot/src/output"
)

// SavePicker asks for a destination with the native-looking fyne save
// dialog on top of the overlay window. It satisfies action.PathPicker.
type SavePicker struct {
	// Dir is where the dialog opens.
	Dir string

	mu     sync.Mutex
	window fyne.Window
}

var errNoWindow = errors.New("no window to show the save dialog on")

func (p *SavePicker) attach(w fyne.Window) {
	p.mu.Lock()
	p.window = w
	p.mu.Unlock()
}

// PickSavePath blocks until the user picks a file or closes the dialog.
// It must not be called from the UI goroutine.
func (p *SavePicker) PickSavePath(ctx context.Context) (string, error) {
	p.mu.Lock()
	w := p.window
	p.mu.Unlock()
	if w == nil {
		return "", errNoWindow
	}

	type picked struct {
		path string
		err  error
	}
	ch := make(chan picked, 1)
	var d *dialog.FileDialog

	fyne.Do(func() {
		d = dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			switch {
			case err != nil:
				ch <- picked{err: err}
			case wc == nil:
				ch <- picked{err: action.ErrPickerCancelled}
			default:
				path := wc.URI().Path()
				_ = wc.Close()
				ch <- picked{path: path}
			}
		}, w)
		d.SetFileName(output.DefaultName(time.Now()))
		if p.Dir != "" {
			if dir, err := storage.ListerForURI(storage.NewFileURI(p.Dir)); err == nil {
				d.SetLocation(dir)
			} else {
				log.Printf("GUI: cannot open %s in save dialog: %v", p.Dir, err)
			}
		}
		d.Resize(fyne.NewSize(720, 480))
		d.Show()
	})

	select {
	case res := <-ch:
		return res.path, res.err
	case <-ctx.Done():
		fyne.Do(func() {
			if d != nil {
				d.Hide()
			}
		})
		return "", ctx.Err()
	}
}
