package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log"
	"sync"
)

const iconSize = 32

var (
	iconOnce sync.Once
	iconPNG  []byte
)

// Icon returns the tray icon as PNG bytes: a dashed selection frame with a
// filled grab handle in the bottom-right corner.
func Icon() []byte {
	iconOnce.Do(func() {
		var buf bytes.Buffer
		if err := png.Encode(&buf, drawIcon(iconSize)); err != nil {
			log.Printf("TRAY: failed to encode icon: %v", err)
			return
		}
		iconPNG = buf.Bytes()
	})
	return iconPNG
}

func drawIcon(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	frame := color.NRGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	handle := color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

	lo, hi := size/8, size-size/8-1
	for i := lo; i <= hi; i++ {
		if ((i-lo)/3)%2 == 1 {
			continue
		}
		for _, w := range []int{0, 1} {
			img.SetNRGBA(i, lo+w, frame)
			img.SetNRGBA(i, hi-w, frame)
			img.SetNRGBA(lo+w, i, frame)
			img.SetNRGBA(hi-w, i, frame)
		}
	}

	h := size / 5
	for y := hi - h + 1; y <= hi+1 && y < size; y++ {
		for x := hi - h + 1; x <= hi+1 && x < size; x++ {
			img.SetNRGBA(x, y, handle)
		}
	}
	return img
}
