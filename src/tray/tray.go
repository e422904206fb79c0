// Package tray shows the resident-mode system tray icon.
package tray

import (
	"log"

	"github.com/getlantern/systray"
)

const tooltip = "regionshot"

// Menu wires the tray entries to callbacks. Callbacks run on the tray's
// event goroutine and must not block.
type Menu struct {
	Hotkey    string
	OnCapture func()
	OnQuit    func()
}

// Run shows the tray icon and blocks until Quit is called.
func Run(m Menu) {
	systray.Run(func() { onReady(m) }, func() { log.Printf("TRAY: exited") })
}

func onReady(m Menu) {
	systray.SetIcon(Icon())
	systray.SetTitle("regionshot")
	systray.SetTooltip(tooltip)

	label := "Capture region"
	if m.Hotkey != "" {
		label += " (" + m.Hotkey + ")"
	}
	mCapture := systray.AddMenuItem(label, "Select a screen region")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit regionshot")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				if m.OnCapture != nil {
					m.OnCapture()
				}
			case <-mQuit.ClickedCh:
				if m.OnQuit != nil {
					m.OnQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

// SetBusy updates the tooltip while a capture session runs.
func SetBusy(busy bool) {
	if busy {
		systray.SetTooltip(tooltip + ": selecting...")
		return
	}
	systray.SetTooltip(tooltip)
}

func Quit() { systray.Quit() }
