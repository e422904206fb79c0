package gui

import (
	"fmt"
	"image"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/skip2/go-qrcode"

	"region-shot/src/action"
	"region-shot/src/clipboard"
)

// QRImage renders payload as a square QR code of size pixels.
func QRImage(payload string, size int) (image.Image, error) {
	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return q.Image(size), nil
}

// QRText renders payload with half-block characters for a terminal, two
// modules per character row.
func QRText(payload string) (string, error) {
	q, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	bits := q.Bitmap()
	var sb strings.Builder
	for y := 0; y < len(bits); y += 2 {
		for x := range bits[y] {
			top := bits[y][x]
			bottom := y+1 < len(bits) && bits[y+1][x]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// showUploadResult swaps the overlay for a small card with the link and its
// QR code. done is called when the user dismisses it.
func showUploadResult(w fyne.Window, res action.Result, done func()) {
	items := []fyne.CanvasObject{}
	if img, err := QRImage(res.QRPayload, 256); err == nil {
		qr := canvas.NewImageFromImage(img)
		qr.FillMode = canvas.ImageFillContain
		qr.ScaleMode = canvas.ImageScalePixels
		qr.SetMinSize(fyne.NewSize(256, 256))
		items = append(items, qr)
	} else {
		log.Printf("GUI: %v", err)
	}

	link := widget.NewEntry()
	link.SetText(res.URL)
	status := widget.NewLabel("")
	copyBtn := widget.NewButton("Copy link", func() {
		if err := clipboard.Write(res.URL); err != nil {
			status.SetText(err.Error())
			return
		}
		status.SetText("Link copied")
	})
	closeBtn := widget.NewButton("Close", done)
	closeBtn.Importance = widget.HighImportance

	items = append(items, link, container.NewHBox(copyBtn, closeBtn), status)

	w.SetFullScreen(false)
	w.SetTitle("Upload complete")
	w.SetContent(container.NewPadded(container.NewVBox(items...)))
	w.Resize(fyne.NewSize(360, 440))
	w.CenterOnScreen()
	w.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		if e.Name == fyne.KeyEscape || e.Name == fyne.KeyReturn || e.Name == fyne.KeyEnter {
			done()
		}
	})
}
