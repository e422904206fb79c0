package action

import (
	"fmt"
	"image"
	"image/draw"

	"region-shot/src/geometry"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Crop cuts r out of img. r is relative to img's bounds origin, so a capture of
// a monitor at (-1920,0) is addressed from (0,0) like any other.
func Crop(img image.Image, r geometry.Rect) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("no pixels captured")
	}
	b := img.Bounds()
	bounds := geometry.Bounds{Width: float64(b.Dx()), Height: float64(b.Dy())}
	if r.IsEmpty() {
		return nil, ErrEmptySelection
	}
	if !bounds.ContainsRect(r) {
		return nil, fmt.Errorf("region %v outside of %dx%d capture", r, b.Dx(), b.Dy())
	}
	ir := r.ImageRect().Add(b.Min)
	if ir.Empty() {
		return nil, ErrEmptySelection
	}

	if s, ok := img.(subImager); ok {
		return s.SubImage(ir), nil
	}
	out := image.NewRGBA(image.Rect(0, 0, ir.Dx(), ir.Dy()))
	draw.Draw(out, out.Bounds(), img, ir.Min, draw.Src)
	return out, nil
}
