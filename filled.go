package isocontour

import (
	"errors"
	"fmt"

	"github.com/soypat/isocontour/colormap"
	"github.com/soypat/isocontour/internal/d3"
	"github.com/soypat/isocontour/mesh"
	"golang.org/x/sync/errgroup"
)

// FilledOptions configures [Filled]. The zero value is ready to use.
type FilledOptions struct {
	// Min and Max override the value range mapped onto the color table.
	// Polygons whose band value falls outside the range are not emitted.
	// Nil uses the scalar field range.
	Min, Max *float64
	// LUT names the color table, [colormap.DefaultMap] when empty.
	LUT string
	// NbColors is the color table resolution, [colormap.DefaultResolution] when zero.
	NbColors int
	// Registry resolves LUT. Nil uses the builtin tables.
	Registry *colormap.Registry
	// Workers splits the triangles into that many contiguous chunks processed
	// concurrently. The output does not depend on Workers.
	Workers int
}

// FilledResult holds flat buffers for an indexed triangle list: 3 floats per
// vertex for Position, Color and Normal, 3 indices per triangle.
type FilledResult struct {
	Position []float32
	Index    []uint32
	Color    []float32
	Normal   []float32
}

// VertexCount returns the number of output vertices.
func (r *FilledResult) VertexCount() int { return len(r.Position) / 3 }

// TriangleCount returns the number of output triangles.
func (r *FilledResult) TriangleCount() int { return len(r.Index) / 3 }

// Filled clips every triangle of g into bands between consecutive thresholds
// and colors each band with the color table entry of its floor value. g must
// carry positions and normals, see [mesh.Geometry.ComputeVertexNormals].
// Thresholds need not be sorted. An empty threshold list yields an empty result.
func Filled(g *mesh.Geometry, scalars, thresholds []float64, opts FilledOptions) (*FilledResult, error) {
	in, err := newFilledInput(g)
	if err != nil {
		return nil, err
	}
	return in.filled(scalars, thresholds, opts)
}

// filledInput is a validated geometry.
type filledInput struct {
	pos, nrm *mesh.Attribute
	index    []uint32
}

func newFilledInput(g *mesh.Geometry) (filledInput, error) {
	if g == nil {
		return filledInput{}, errors.New("nil geometry")
	}
	if g.Positions() == nil {
		return filledInput{}, fmt.Errorf("filled contours: %w %q", mesh.ErrMissingAttribute, mesh.AttrPosition)
	}
	if g.Normals() == nil {
		return filledInput{}, fmt.Errorf("filled contours: %w %q", mesh.ErrMissingAttribute, mesh.AttrNormal)
	}
	if err := g.Validate(); err != nil {
		return filledInput{}, fmt.Errorf("filled contours: %w", err)
	}
	if g.Normals().ItemSize != 3 {
		return filledInput{}, fmt.Errorf("filled contours: %w: normals need item size 3", mesh.ErrItemSizeMismatch)
	}
	return filledInput{pos: g.Positions(), nrm: g.Normals(), index: g.TriangleIndices()}, nil
}

func (in filledInput) filled(scalars, thresholds []float64, opts FilledOptions) (*FilledResult, error) {
	if nv := in.pos.Count(); len(scalars) != nv {
		return nil, fmt.Errorf("filled contours: got %d scalars for %d vertices", len(scalars), nv)
	}
	res := &FilledResult{}
	sorted := sortedThresholds(thresholds)
	if len(sorted) == 0 || len(in.index) == 0 {
		return res, nil
	}
	fieldMin, fieldMax := Range(scalars)
	vmin, vmax := fieldMin, fieldMax
	if opts.Min != nil {
		vmin = *opts.Min
	}
	if opts.Max != nil {
		vmax = *opts.Max
	}
	lutName := opts.LUT
	if lutName == "" {
		lutName = colormap.DefaultMap
	}
	lut := colormap.New(opts.Registry, lutName, opts.NbColors, 1)
	lut.SetRange(vmin, vmax)

	job := &bandJob{
		in:      in,
		scalars: scalars,
		bander:  bander{thresholds: sorted, fieldMin: fieldMin},
		lut:     lut,
		vmin:    vmin,
		vmax:    vmax,
	}
	ntri := len(in.index) / 3
	workers := max(1, min(opts.Workers, ntri))
	if workers == 1 {
		job.run(res, 0, ntri)
		return res, nil
	}
	parts := make([]FilledResult, workers)
	var group errgroup.Group
	for w := range parts {
		start, end := w*ntri/workers, (w+1)*ntri/workers
		group.Go(func() error {
			job.run(&parts[w], start, end)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	for i := range parts {
		res.append(&parts[i])
	}
	return res, nil
}

type bandJob struct {
	in         filledInput
	scalars    []float64
	bander     bander
	lut        *colormap.LUT
	vmin, vmax float64
}

// run bands triangles [start, end) into dst.
func (j *bandJob) run(dst *FilledResult, start, end int) {
	var polys []polygon
	for t := start; t < end; t++ {
		var c [3]corner
		for k := range c {
			vi := int(j.in.index[3*t+k])
			c[k] = corner{
				pos: d3.FromF32(j.in.pos.Array[3*vi:]),
				nrm: d3.FromF32(j.in.nrm.Array[3*vi:]),
				val: j.scalars[vi],
			}
		}
		polys = j.bander.polygons(polys[:0], c)
		for i := range polys {
			p := &polys[i]
			if p.value < j.vmin || p.value > j.vmax {
				continue
			}
			dst.addPolygon(p, j.lut.Color(p.value))
		}
	}
}

// addPolygon appends p as a triangle fan.
func (r *FilledResult) addPolygon(p *polygon, c colormap.RGB) {
	base := uint32(r.VertexCount())
	for i := 0; i < p.n; i++ {
		r.Position = d3.AppendF32(r.Position, p.v[i].pos)
		r.Normal = d3.AppendF32(r.Normal, p.v[i].nrm)
		r.Color = c.AppendF32(r.Color)
	}
	for i := 1; i+1 < p.n; i++ {
		r.Index = append(r.Index, base, base+uint32(i), base+uint32(i+1))
	}
}

// append concatenates other onto r, offsetting its indices.
func (r *FilledResult) append(other *FilledResult) {
	base := uint32(r.VertexCount())
	r.Position = append(r.Position, other.Position...)
	r.Normal = append(r.Normal, other.Normal...)
	r.Color = append(r.Color, other.Color...)
	for _, idx := range other.Index {
		r.Index = append(r.Index, base+idx)
	}
}
