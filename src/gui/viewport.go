package gui

import (
	"fyne.io/fyne/v2"

	"region-shot/src/geometry"
)

// viewport maps between widget coordinates and canvas pixels. The capture is
// letterboxed into the widget keeping its aspect ratio.
type viewport struct {
	scale  float32
	offset fyne.Position
}

func fit(size fyne.Size, b geometry.Bounds) viewport {
	if b.Width <= 0 || b.Height <= 0 || size.Width <= 0 || size.Height <= 0 {
		return viewport{scale: 1}
	}
	s := min(size.Width/float32(b.Width), size.Height/float32(b.Height))
	return viewport{
		scale: s,
		offset: fyne.NewPos(
			(size.Width-float32(b.Width)*s)/2,
			(size.Height-float32(b.Height)*s)/2,
		),
	}
}

func (v viewport) toCanvas(p fyne.Position) geometry.Point {
	return geometry.Point{
		X: float64((p.X - v.offset.X) / v.scale),
		Y: float64((p.Y - v.offset.Y) / v.scale),
	}
}

func (v viewport) toScreen(p geometry.Point) fyne.Position {
	return fyne.NewPos(float32(p.X)*v.scale+v.offset.X, float32(p.Y)*v.scale+v.offset.Y)
}

func (v viewport) rect(r geometry.Rect) (fyne.Position, fyne.Size) {
	return v.toScreen(r.TopLeft), fyne.NewSize(float32(r.Width)*v.scale, float32(r.Height)*v.scale)
}
