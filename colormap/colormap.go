// Package colormap implements discretized color lookup tables that map
// scalar values onto RGB colors.
//
// A [LUT] is built from a list of color stops by sampling them at a fixed
// resolution. Lookups are bucketed: values that fall in the same bucket get
// exactly the same color, which is what stepped contour shading relies on.
package colormap

import (
	"math"
	"strings"
)

// DefaultResolution is the number of table entries used when none is given.
const DefaultResolution = 32

// LUT is a discretized color lookup table over the value range [Min, Max].
type LUT struct {
	table    []RGB
	min, max float64
}

// New builds a LUT from a named table in reg. A nil registry looks up the
// builtin tables. Unknown names fall back to [DefaultMap]. When duplicate is
// greater than one every entry is repeated duplicate times.
func New(reg *Registry, name string, resolution, duplicate int) *LUT {
	var stops []Stop
	if reg != nil {
		stops, _ = reg.Stops(name)
	} else {
		stops = builtinStops(name)
	}
	lut := NewLUT(stops, resolution)
	lut.duplicate(duplicate)
	return lut
}

// NewLUT builds a LUT over [0,1] from color stops. Malformed stops fall back
// to [DefaultMap] and resolution <= 0 selects [DefaultResolution].
func NewLUT(stops []Stop, resolution int) *LUT {
	lut := &LUT{min: 0, max: 1}
	lut.SetColorMap(stops, resolution)
	return lut
}

// SetColorMap rebuilds the table from stops. See [NewLUT] for fallbacks.
func (l *LUT) SetColorMap(stops []Stop, resolution int) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	resolved, err := resolveStops(stops)
	if err != nil {
		resolved = mustResolveBuiltin(DefaultMap)
	}
	l.table = sample(l.table[:0], resolved, resolution)
}

// sample fills dst with n colors. Entry i < n-1 samples the stops at i/n,
// the last entry is the final stop color.
func sample(dst []RGB, stops []rgbStop, n int) []RGB {
	step := 1 / float64(n)
	for i := 0; i < n-1; i++ {
		dst = append(dst, sampleAt(stops, float64(i)*step))
	}
	return append(dst, stops[len(stops)-1].c)
}

func sampleAt(stops []rgbStop, alpha float64) RGB {
	if alpha <= stops[0].pos {
		return stops[0].c
	}
	for j := 0; j < len(stops)-1; j++ {
		lo, hi := stops[j], stops[j+1]
		if alpha > lo.pos && alpha <= hi.pos {
			return lo.c.Lerp(hi.c, (alpha-lo.pos)/(hi.pos-lo.pos))
		}
	}
	return stops[len(stops)-1].c
}

func (l *LUT) duplicate(count int) {
	if count <= 1 {
		return
	}
	expanded := make([]RGB, 0, len(l.table)*count)
	for _, c := range l.table {
		for k := 0; k < count; k++ {
			expanded = append(expanded, c)
		}
	}
	l.table = expanded
}

// SetMin sets the value mapped to the first table entry.
func (l *LUT) SetMin(min float64) { l.min = min }

// SetMax sets the value mapped to the last table entry.
func (l *LUT) SetMax(max float64) { l.max = max }

// SetRange sets both ends of the normalization range.
func (l *LUT) SetRange(min, max float64) {
	l.min = min
	l.max = max
}

func (l *LUT) Min() float64 { return l.min }
func (l *LUT) Max() float64 { return l.max }

// Len returns the number of table entries.
func (l *LUT) Len() int { return len(l.table) }

// Entry returns table entry i.
func (l *LUT) Entry(i int) RGB { return l.table[i] }

// Color returns the table color for v. Values outside [Min, Max] are clamped.
func (l *LUT) Color(v float64) RGB {
	return l.table[l.index(v)]
}

func (l *LUT) index(v float64) int {
	if math.IsNaN(v) || l.max <= l.min {
		return 0
	}
	if v < l.min {
		v = l.min
	} else if v > l.max {
		v = l.max
	}
	n := len(l.table)
	t := (v - l.min) / (l.max - l.min)
	i := int(math.Floor(t*float64(n) + 0.5))
	if i > n-1 {
		i = n - 1
	}
	return i
}

func builtinStops(name string) []Stop {
	for display, stops := range builtin {
		if strings.EqualFold(display, name) {
			return stops
		}
	}
	return nil
}
