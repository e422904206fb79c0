package gui

import (
	"context"
	"image"
	"os"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"region-shot/src/action"
	"region-shot/src/geometry"
	"region-shot/src/screenshot"
	"region-shot/src/selection"
	"region-shot/src/session"
)

func TestViewportRoundTrip(t *testing.T) {
	bounds := geometry.Bounds{Width: 800, Height: 600}
	tests := []struct {
		name   string
		size   fyne.Size
		scale  float32
		offset fyne.Position
	}{
		{"exact", fyne.NewSize(800, 600), 1, fyne.NewPos(0, 0)},
		{"half", fyne.NewSize(400, 300), 0.5, fyne.NewPos(0, 0)},
		{"pillarbox", fyne.NewSize(1000, 600), 1, fyne.NewPos(100, 0)},
		{"letterbox", fyne.NewSize(400, 400), 0.5, fyne.NewPos(0, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := fit(tt.size, bounds)
			if vp.scale != tt.scale || vp.offset != tt.offset {
				t.Fatalf("fit() = %+v, want scale %v offset %v", vp, tt.scale, tt.offset)
			}
			p := geometry.Point{X: 200, Y: 100}
			if got := vp.toCanvas(vp.toScreen(p)); got != p {
				t.Errorf("round trip of %v = %v", p, got)
			}
		})
	}
}

func TestViewportDegenerate(t *testing.T) {
	vp := fit(fyne.NewSize(0, 0), geometry.Bounds{Width: 10, Height: 10})
	if vp.scale != 1 {
		t.Errorf("scale = %v, want 1", vp.scale)
	}
}

func TestViewportRect(t *testing.T) {
	vp := fit(fyne.NewSize(400, 400), geometry.Bounds{Width: 800, Height: 600})
	pos, size := vp.rect(geometry.Rect{TopLeft: geometry.Point{X: 100, Y: 100}, Width: 200, Height: 100})
	if pos != fyne.NewPos(50, 100) || size != fyne.NewSize(100, 50) {
		t.Errorf("rect() = %v %v", pos, size)
	}
}

func TestMapKey(t *testing.T) {
	tests := []struct {
		name fyne.KeyName
		mods selection.Modifiers
		want string
		ok   bool
	}{
		{fyne.KeyEscape, 0, "escape", true},
		{fyne.KeyReturn, 0, "enter", true},
		{fyne.KeyEnter, 0, "enter", true},
		{fyne.KeyLeft, selection.ModShift, "left", true},
		{fyne.KeyH, 0, "h", true},
		{fyne.KeyU, selection.ModCtrl, "u", true},
		{fyne.Key5, 0, "5", true},
		{fyne.Key4, selection.ModShift, "", false},
		{fyne.KeySlash, 0, "", false},
		{fyne.KeyF1, 0, "", false},
	}
	for _, tt := range tests {
		got, ok := mapKey(tt.name, tt.mods)
		if got != tt.want || ok != tt.ok {
			t.Errorf("mapKey(%q, %s) = %q, %v; want %q, %v", tt.name, tt.mods, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTypedSymbol(t *testing.T) {
	for r, want := range map[rune]bool{'?': true, '$': true, 'a': false, '4': false} {
		if _, ok := typedSymbol(r); ok != want {
			t.Errorf("typedSymbol(%q) = %v, want %v", r, ok, want)
		}
	}
}

func TestMapModifiers(t *testing.T) {
	got := mapModifiers(fyne.KeyModifierShift | fyne.KeyModifierControl)
	if got != selection.ModShift|selection.ModCtrl {
		t.Errorf("mapModifiers() = %s, want shift+ctrl", got)
	}
	if mapModifiers(0) != 0 {
		t.Error("mapModifiers(0) is not empty")
	}
}

func TestMapButton(t *testing.T) {
	if b, ok := mapButton(desktop.MouseButtonSecondary); !ok || b != selection.ButtonRight {
		t.Errorf("secondary = %v, %v", b, ok)
	}
	if _, ok := mapButton(desktop.MouseButton(64)); ok {
		t.Error("unknown button mapped")
	}
}

func TestQRImage(t *testing.T) {
	img, err := QRImage("https://example.test/abc.png", 128)
	if err != nil {
		t.Fatalf("QRImage() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("bounds = %v, want 128x128", b)
	}
}

func TestQRText(t *testing.T) {
	text, err := QRText("https://example.test/abc.png")
	if err != nil {
		t.Fatalf("QRText() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) < 10 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.ContainsRune(text, '█') {
		t.Error("no filled blocks in QR text")
	}
}

func TestSavePickerWithoutWindow(t *testing.T) {
	p := &SavePicker{}
	if _, err := p.PickSavePath(context.Background()); err == nil {
		t.Error("PickSavePath() without a window succeeded")
	}
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(_ context.Context, req action.Request) action.Result {
	return action.Result{Kind: req.Action.Kind, Rect: req.Rect}
}

func (nopDispatcher) Start(_ context.Context, seq uint64, req action.Request, done func(action.Result)) error {
	go done(action.Result{Seq: seq, Kind: req.Action.Kind, Rect: req.Rect})
	return nil
}

func (nopDispatcher) Cancel(uint64) bool { return false }

func TestOverlayInteractive(t *testing.T) {
	if os.Getenv("REGIONSHOT_INTERACTIVE_TESTS") != "1" {
		t.Skip("set REGIONSHOT_INTERACTIVE_TESTS=1 to run the interactive overlay test")
	}
	frame := screenshot.Frame{Image: image.NewRGBA(image.Rect(0, 0, 640, 480))}
	res, err := session.Execute(context.Background(), session.Options{
		Capture:    func(context.Context, int) (screenshot.Frame, error) { return frame, nil },
		Dispatcher: nopDispatcher{},
		Overlay:    NewOverlay(t.TempDir()),
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Rect.IsEmpty() {
		t.Error("expected a non-empty selection")
	}
}
