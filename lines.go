package isocontour

import (
	"fmt"

	"github.com/soypat/isocontour/colormap"
	"github.com/soypat/isocontour/internal/d3"
	"github.com/soypat/isocontour/mesh"
)

// LineOptions configures [Lines]. The zero value is ready to use.
type LineOptions struct {
	// Color paints every segment when set. Otherwise each threshold gets the
	// color table entry of its value over the scalar field range.
	Color colormap.ColorSpec
	// LUT names the color table, [colormap.DefaultMap] when empty.
	LUT string
	// Registry resolves LUT. Nil uses the builtin tables.
	Registry *colormap.Registry
}

// LinesResult holds line segments as consecutive endpoint pairs, 3 floats
// per endpoint, and a parallel per endpoint Color buffer.
type LinesResult struct {
	Positions []float32
	Color     []float32
	// Counts holds the number of segments traced for each threshold.
	Counts []int
}

// SegmentCount returns the total number of segments.
func (r *LinesResult) SegmentCount() int { return len(r.Positions) / 6 }

// Lines traces every threshold over the scalar field and returns the contour
// segments. Thresholds are traced independently in the given order.
func Lines(g *mesh.Geometry, scalars, thresholds []float64, opts LineOptions) (*LinesResult, error) {
	c, err := NewContourer(g)
	if err != nil {
		return nil, err
	}
	return c.Lines(scalars, thresholds, opts)
}

// Lines is [Lines] over the contourer mesh.
func (c *Contourer) Lines(scalars, thresholds []float64, opts LineOptions) (*LinesResult, error) {
	if err := c.prepare(scalars); err != nil {
		return nil, err
	}
	res := &LinesResult{Counts: make([]int, 0, len(thresholds))}
	if len(thresholds) == 0 {
		return res, nil
	}
	bounds := c.tri.Bounds()
	var color func(float64) colormap.RGB
	if opts.Color != nil {
		fixed, err := colormap.Resolve(opts.Color)
		if err != nil {
			return nil, fmt.Errorf("line color: %w", err)
		}
		color = func(float64) colormap.RGB { return fixed }
	} else {
		name := opts.LUT
		if name == "" {
			name = colormap.DefaultMap
		}
		lut := colormap.New(opts.Registry, name, colormap.DefaultResolution, 1)
		lut.SetRange(bounds[0], bounds[1])
		color = lut.Color
	}
	for _, thr := range thresholds {
		rgb := color(thr)
		segments := 0
		for _, line := range c.tri.Isolines(scalars, thr) {
			prev := c.point(line.Edges[0], line.Fractions[0])
			for i := 1; i < len(line.Edges); i++ {
				next := c.point(line.Edges[i], line.Fractions[i])
				res.Positions = d3.AppendF32(d3.AppendF32(res.Positions, prev), next)
				res.Color = rgb.AppendF32(rgb.AppendF32(res.Color))
				prev = next
				segments++
			}
		}
		res.Counts = append(res.Counts, segments)
	}
	return res, nil
}
