package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// EmptyBox returns a box that any Include call replaces entirely.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{Min: Elem(inf), Max: Elem(-inf)}
}

// Empty reports whether no point was ever included in the box.
func (a Box) Empty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y
}

// Include enlarges a 2d box to include a point.
func (a Box) Include(v r2.Vec) Box {
	return Box{MinElem(a.Min, v), MaxElem(a.Max, v)}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Fit returns the uniform scale that fits the box inside a w by h
// rectangle with pad units of margin on every side.
func (a Box) Fit(w, h, pad float64) float64 {
	size := a.Size()
	sx := (w - 2*pad) / size.X
	sy := (h - 2*pad) / size.Y
	switch {
	case size.X <= 0 && size.Y <= 0:
		return 1
	case size.X <= 0:
		return sy
	case size.Y <= 0:
		return sx
	}
	return math.Min(sx, sy)
}
