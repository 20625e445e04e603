package isocontour

import (
	"fmt"

	"github.com/soypat/isocontour/internal/d3"
	"github.com/soypat/isocontour/marching"
	"github.com/soypat/isocontour/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Contourer keeps a validated mesh and Marching Triangles state so repeated
// contour extraction over the same mesh skips setup. It is not safe for
// concurrent use.
type Contourer struct {
	g     *mesh.Geometry
	pos   *mesh.Attribute
	index []uint32
	tri   marching.Triangles
	ready bool
	bands *filledInput
}

// NewContourer validates g. Degenerate triangles are reported by the first
// [Contourer.Lines] call since [Contourer.Filled] accepts them.
func NewContourer(g *mesh.Geometry) (*Contourer, error) {
	if g == nil {
		return nil, fmt.Errorf("contour: nil geometry")
	}
	if g.Positions() == nil {
		return nil, fmt.Errorf("contour: %w %q", mesh.ErrMissingAttribute, mesh.AttrPosition)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("contour: %w", err)
	}
	return &Contourer{g: g, pos: g.Positions(), index: g.TriangleIndices()}, nil
}

// Geometry returns the contoured mesh.
func (c *Contourer) Geometry() *mesh.Geometry { return c.g }

// Filled is [Filled] over the contourer mesh.
func (c *Contourer) Filled(scalars, thresholds []float64, opts FilledOptions) (*FilledResult, error) {
	if c.bands == nil {
		in, err := newFilledInput(c.g)
		if err != nil {
			return nil, err
		}
		c.bands = &in
	}
	return c.bands.filled(scalars, thresholds, opts)
}

// Isolines returns the Marching Triangles polylines of one threshold.
func (c *Contourer) Isolines(scalars []float64, threshold float64) ([]marching.Isoline, error) {
	if err := c.prepare(scalars); err != nil {
		return nil, err
	}
	return c.tri.Isolines(scalars, threshold), nil
}

// Point returns the position of an isoline crossing.
func (c *Contourer) Point(e marching.Edge, fraction float64) r3.Vec { return c.point(e, fraction) }

func (c *Contourer) point(e marching.Edge, f float64) r3.Vec {
	a := d3.FromF32(c.pos.Array[3*e.A:])
	b := d3.FromF32(c.pos.Array[3*e.B:])
	return d3.Lerp(a, b, f)
}

// prepare sets up the Marching Triangles topology once and tracks the
// scalar field range used for culling.
func (c *Contourer) prepare(scalars []float64) error {
	if nv := c.pos.Count(); len(scalars) != nv {
		return fmt.Errorf("contour lines: got %d scalars for %d vertices", len(scalars), nv)
	}
	lo, hi := Range(scalars)
	if lo > hi {
		// Empty or all NaN field: nothing can be inside any range.
		lo, hi = 0, 0
	}
	bounds := [2]float64{lo, hi}
	if !c.ready {
		if err := c.tri.Setup(c.index, bounds); err != nil {
			return fmt.Errorf("contour lines: %w", err)
		}
		c.ready = true
		return nil
	}
	return c.tri.SetBounds(bounds)
}
