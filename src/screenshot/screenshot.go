package screenshot

import (
	"fmt"
	"image"
	"log"

	"github.com/kbinani/screenshot"

	"region-shot/src/geometry"
)

// AllDisplays selects the union of every active display.
const AllDisplays = -1

// Frame is one captured canvas. Pixels are addressed from Image.Bounds().Min;
// Origin is where that corner sits on the virtual desktop.
type Frame struct {
	Image  *image.RGBA
	Origin image.Point
}

// Bounds is the canvas the selection works in, always anchored at (0,0).
func (f Frame) Bounds() geometry.Bounds {
	b := f.Image.Bounds()
	return geometry.Bounds{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// ToDesktop converts a canvas rect to virtual desktop pixels.
func (f Frame) ToDesktop(r geometry.Rect) image.Rectangle {
	return r.ImageRect().Add(f.Origin)
}

// Displays returns the bounds of every active display.
func Displays() ([]image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays found")
	}
	out := make([]image.Rectangle, n)
	for i := range out {
		out[i] = screenshot.GetDisplayBounds(i)
	}
	return out, nil
}

// DisplayBounds returns the area Capture(monitor) would grab.
func DisplayBounds(monitor int) (image.Rectangle, error) {
	displays, err := Displays()
	if err != nil {
		return image.Rectangle{}, err
	}
	return pick(displays, monitor)
}

func pick(displays []image.Rectangle, monitor int) (image.Rectangle, error) {
	if monitor == AllDisplays {
		union := displays[0]
		for _, b := range displays[1:] {
			union = union.Union(b)
		}
		return union, nil
	}
	if monitor < 0 || monitor >= len(displays) {
		return image.Rectangle{}, fmt.Errorf("monitor %d out of range (have %d)", monitor, len(displays))
	}
	return displays[monitor], nil
}

// Capture grabs one display, or all of them with AllDisplays.
func Capture(monitor int) (Frame, error) {
	area, err := DisplayBounds(monitor)
	if err != nil {
		return Frame{}, err
	}
	img, err := screenshot.CaptureRect(area)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to capture screen: %w", err)
	}
	log.Printf("SCREENSHOT: captured %dx%d at %v", area.Dx(), area.Dy(), area.Min)
	return Frame{Image: img, Origin: area.Min}, nil
}
