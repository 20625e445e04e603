package isocontour

import (
	"math"
	"sort"

	"github.com/soypat/isocontour/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// corner is a triangle vertex carrying everything a band polygon interpolates.
type corner struct {
	pos, nrm r3.Vec
	val      float64
}

func lerpCorner(a, b corner, t float64) corner {
	f := (t - a.val) / (b.val - a.val)
	return corner{
		pos: d3.Lerp(a.pos, b.pos, f),
		nrm: d3.Lerp(a.nrm, b.nrm, f),
		val: t,
	}
}

// polygon is a convex band piece of 3 to 5 vertices with the band value.
type polygon struct {
	v     [5]corner
	n     int
	value float64
}

func (p *polygon) push(c ...corner) {
	for _, v := range c {
		p.v[p.n] = v
		p.n++
	}
}

func (p *polygon) reverse() {
	for i, j := 0, p.n-1; i < j; i, j = i+1, j-1 {
		p.v[i], p.v[j] = p.v[j], p.v[i]
	}
}

// bander splits triangles into band polygons for a sorted threshold list.
type bander struct {
	thresholds []float64 // ascending, unique
	fieldMin   float64
}

// floor returns the highest threshold strictly below v, or the field minimum.
func (b *bander) floor(v float64) float64 {
	i := sort.SearchFloat64s(b.thresholds, v) // first threshold >= v
	if i == 0 {
		return b.fieldMin
	}
	return b.thresholds[i-1]
}

// polygons appends the band polygons of triangle c to dst. The polygons
// partition the triangle and keep its winding. Triangles with a NaN value
// produce no polygons.
func (b *bander) polygons(dst []polygon, c [3]corner) []polygon {
	if math.IsNaN(c[0].val) || math.IsNaN(c[1].val) || math.IsNaN(c[2].val) {
		return dst
	}
	lo, mid, hi, reversed := sortCorners(c)
	// Thresholds strictly inside (lo.val, hi.val). A flat triangle sitting on
	// a threshold has first > last.
	first := sort.Search(len(b.thresholds), func(i int) bool { return b.thresholds[i] > lo.val })
	last := sort.Search(len(b.thresholds), func(i int) bool { return b.thresholds[i] >= hi.val })
	var inside []float64
	if first < last {
		inside = b.thresholds[first:last]
	}

	emit := func(p polygon) {
		if reversed {
			p.reverse()
		}
		dst = append(dst, p)
	}
	if len(inside) == 0 {
		var p polygon
		p.push(lo, mid, hi)
		p.value = b.floor(lo.val)
		emit(p)
		return dst
	}
	// alongLong crosses the low-high edge, alongShort the low-mid or mid-high edge.
	alongLong := func(t float64) corner { return lerpCorner(lo, hi, t) }
	alongShort := func(t float64) corner {
		if t <= mid.val {
			return lerpCorner(lo, mid, t)
		}
		return lerpCorner(mid, hi, t)
	}

	t0 := inside[0]
	var low polygon
	low.value = b.floor(lo.val)
	if t0 <= mid.val {
		low.push(lo, alongShort(t0), alongLong(t0))
	} else {
		low.push(lo, mid, alongShort(t0), alongLong(t0))
	}
	emit(low)

	for i := 0; i+1 < len(inside); i++ {
		ta, tb := inside[i], inside[i+1]
		var strip polygon
		strip.value = ta
		strip.push(alongLong(ta), alongShort(ta))
		if ta < mid.val && mid.val < tb {
			strip.push(mid)
		}
		strip.push(alongShort(tb), alongLong(tb))
		emit(strip)
	}

	tn := inside[len(inside)-1]
	var high polygon
	high.value = tn
	if tn >= mid.val {
		high.push(alongLong(tn), alongShort(tn), hi)
	} else {
		high.push(alongLong(tn), alongShort(tn), mid, hi)
	}
	emit(high)
	return dst
}

// sortCorners orders c by value with a stable sort and reports whether the
// ordering is an odd permutation, which flips the winding.
func sortCorners(c [3]corner) (lo, mid, hi corner, reversed bool) {
	swaps := 0
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && c[j].val < c[j-1].val; j-- {
			c[j], c[j-1] = c[j-1], c[j]
			swaps++
		}
	}
	return c[0], c[1], c[2], swaps%2 == 1
}
