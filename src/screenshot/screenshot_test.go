package screenshot

import (
	"image"
	"testing"

	"region-shot/src/geometry"
)

func TestCapture(t *testing.T) {
	// Needs a display, so only check it does not panic.
	f, err := Capture(AllDisplays)
	if err != nil {
		t.Logf("Failed to capture screenshot (expected in headless environment): %v", err)
		return
	}
	if f.Bounds().Width <= 0 || f.Bounds().Height <= 0 {
		t.Errorf("Expected non-empty capture, got %v", f.Bounds())
	}
}

func TestPickDisplay(t *testing.T) {
	displays := []image.Rectangle{
		image.Rect(0, 0, 1920, 1080),
		image.Rect(-1280, 0, 0, 1024),
	}
	union, err := pick(displays, AllDisplays)
	if err != nil {
		t.Fatal(err)
	}
	if union != image.Rect(-1280, 0, 1920, 1080) {
		t.Errorf("Expected union of displays, got %v", union)
	}
	second, err := pick(displays, 1)
	if err != nil || second != displays[1] {
		t.Errorf("Expected second display, got %v %v", second, err)
	}
	if _, err := pick(displays, 2); err == nil {
		t.Error("Expected error for missing monitor")
	}
}

func TestFrameCoordinates(t *testing.T) {
	f := Frame{Image: image.NewRGBA(image.Rect(0, 0, 1280, 1024)), Origin: image.Pt(-1280, 0)}
	if f.Bounds() != (geometry.Bounds{Width: 1280, Height: 1024}) {
		t.Errorf("Unexpected bounds %v", f.Bounds())
	}
	r := geometry.Rect{TopLeft: geometry.Point{X: 10, Y: 20}, Width: 100, Height: 50}
	if got := f.ToDesktop(r); got != image.Rect(-1270, 20, -1170, 70) {
		t.Errorf("Expected desktop rect, got %v", got)
	}
}
