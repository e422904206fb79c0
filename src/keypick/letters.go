package keypick

import "region-shot/src/geometry"

const (
	// LetterSide is the number of boxes along each side of a letter grid.
	LetterSide = 5
	// LetterLevels is the number of keystrokes a letter pick takes.
	LetterLevels = 3
)

// Letters picks a point in LetterLevels keystrokes. Each grid splits the
// current area into LetterSide x LetterSide boxes labelled a..y column by
// column; a letter zooms into its box and the last one picks its center.
type Letters struct {
	Corner Corner

	area  geometry.Rect
	level int
}

func NewLetters(b geometry.Bounds, corner Corner) *Letters {
	return &Letters{Corner: corner, area: b.Rect()}
}

// Level is the number of letters typed so far.
func (l *Letters) Level() int { return l.level }

// Area is the region the current grid divides.
func (l *Letters) Area() geometry.Rect { return l.area }

// LetterLabel is the letter shown in box col, row.
func LetterLabel(col, row int) string {
	return string(rune('a' + col*LetterSide + row))
}

// LetterBox returns box col, row of area.
func LetterBox(area geometry.Rect, col, row int) geometry.Rect {
	w := area.Width / LetterSide
	h := area.Height / LetterSide
	return geometry.Rect{
		TopLeft: geometry.Point{X: area.Left() + float64(col)*w, Y: area.Top() + float64(row)*h},
		Width:   w,
		Height:  h,
	}
}

func letterIndex(key string) (col, row int, ok bool) {
	if len(key) != 1 || key[0] < 'a' || key[0] >= 'a'+LetterSide*LetterSide {
		return 0, 0, false
	}
	i := int(key[0] - 'a')
	return i / LetterSide, i % LetterSide, true
}

// Key feeds one key. ok is false when key is not a grid letter; done is set
// with the picked point on the last level.
func (l *Letters) Key(key string) (p geometry.Point, done, ok bool) {
	col, row, ok := letterIndex(key)
	if !ok {
		return geometry.Point{}, false, false
	}
	box := LetterBox(l.area, col, row)
	if l.level == LetterLevels-1 {
		return geometry.Point{X: box.Left() + box.Width/2, Y: box.Top() + box.Height/2}, true, true
	}
	l.area = box
	l.level++
	return geometry.Point{}, false, true
}
