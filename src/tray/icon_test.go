package tray

import (
	"bytes"
	"image/png"
	"testing"
)

func TestIconIsPNG(t *testing.T) {
	data := Icon()
	if len(data) == 0 {
		t.Fatal("Icon() returned no data")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode icon: %v", err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Errorf("icon bounds = %v, want %dx%d", b, iconSize, iconSize)
	}
}

func TestIconHasFrameAndHandle(t *testing.T) {
	img := drawIcon(iconSize)
	lo := iconSize / 8
	if _, _, _, a := img.At(lo, lo).RGBA(); a == 0 {
		t.Error("frame corner is transparent")
	}
	if _, _, _, a := img.At(iconSize/2, iconSize/2).RGBA(); a != 0 {
		t.Error("icon center is not transparent")
	}
	hi := iconSize - iconSize/8 - 1
	if c := img.NRGBAAt(hi, hi); c.R != 0x33 || c.A != 0xff {
		t.Errorf("handle pixel = %v", c)
	}
}
