package isocontour

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/soypat/isocontour/colormap"
	"github.com/soypat/isocontour/marching"
	"github.com/soypat/isocontour/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// unitTriangle returns a counter-clockwise triangle in the XY plane with the
// given values, so polygon areas measure parametric area directly.
func unitTriangle(v0, v1, v2 float64) [3]corner {
	n := r3.Vec{Z: 1}
	return [3]corner{
		{pos: r3.Vec{}, nrm: n, val: v0},
		{pos: r3.Vec{X: 1}, nrm: n, val: v1},
		{pos: r3.Vec{Y: 1}, nrm: n, val: v2},
	}
}

func shoelace(p polygon) float64 {
	var a float64
	for i := 0; i < p.n; i++ {
		u, v := p.v[i].pos, p.v[(i+1)%p.n].pos
		a += u.X*v.Y - v.X*u.Y
	}
	return a / 2
}

// containsStrict reports whether q is strictly inside the counter-clockwise
// convex polygon p.
func containsStrict(p polygon, q r3.Vec) bool {
	for i := 0; i < p.n; i++ {
		u, v := p.v[i].pos, p.v[(i+1)%p.n].pos
		if (v.X-u.X)*(q.Y-u.Y)-(v.Y-u.Y)*(q.X-u.X) <= 0 {
			return false
		}
	}
	return true
}

func TestBandPartitionLiteral(t *testing.T) {
	b := bander{thresholds: []float64{0.5, 1.5}, fieldMin: 0}
	polys := b.polygons(nil, unitTriangle(0, 1, 2))
	require.Len(t, polys, 3)
	assert.Equal(t, 3, polys[0].n)
	assert.Equal(t, 5, polys[1].n, "band through the mid vertex is a pentagon")
	assert.Equal(t, 3, polys[2].n)
	assert.Equal(t, []float64{0, 0.5, 1.5}, []float64{polys[0].value, polys[1].value, polys[2].value})
	var sum float64
	for _, p := range polys {
		sum += shoelace(p)
	}
	assert.InDelta(t, 0.5, sum, 1e-12)
	// Low cap: L, B on L-M at 0.5, A on L-H at 0.25.
	assert.Equal(t, r3.Vec{X: 0.5}, polys[0].v[1].pos)
	assert.Equal(t, r3.Vec{Y: 0.25}, polys[0].v[2].pos)
}

func TestBandPartitionProperty(t *testing.T) {
	valueSets := [][3]float64{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
		{0, 0, 2}, {0, 2, 2}, {3, 3, 3}, {-1, 0.3, 7},
	}
	thresholdSets := [][]float64{
		{0.5, 1.5}, {1}, {0.25, 0.5, 0.75}, {1.2}, {}, {5}, {-1}, {0, 2},
		{0.5, 1, 1.5}, {3}, {0, 3}, {3, 4}, {0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.1, 1.9},
	}
	for _, vals := range valueSets {
		for _, thr := range thresholdSets {
			name := fmt.Sprintf("%v/%v", vals, thr)
			b := bander{thresholds: thr, fieldMin: -10}
			polys := b.polygons(nil, unitTriangle(vals[0], vals[1], vals[2]))
			require.NotEmpty(t, polys, name)
			var sum float64
			for _, p := range polys {
				require.True(t, p.n >= 3 && p.n <= 5, name)
				a := shoelace(p)
				assert.GreaterOrEqual(t, a, -1e-12, "%s: winding flipped", name)
				sum += a
			}
			assert.InDelta(t, 0.5, sum, 1e-12, name)
			// Generic sample points are covered exactly once.
			for i := 1; i < 12; i++ {
				for j := 1; i+j < 12; j++ {
					q := r3.Vec{X: (float64(i) + 0.013) / 12, Y: (float64(j) + 0.007) / 12}
					hits := 0
					for _, p := range polys {
						if containsStrict(p, q) {
							hits++
						}
					}
					assert.LessOrEqual(t, hits, 1, "%s: polygons overlap at %v", name, q)
				}
			}
		}
	}
}

func TestBandFloor(t *testing.T) {
	b := bander{thresholds: []float64{1, 2, 3}, fieldMin: -4}
	assert.Equal(t, -4.0, b.floor(0.5))
	assert.Equal(t, -4.0, b.floor(1), "strictly below")
	assert.Equal(t, 1.0, b.floor(1.5))
	assert.Equal(t, 3.0, b.floor(10))

	polys := b.polygons(nil, unitTriangle(2.2, 2.4, 2.9))
	require.Len(t, polys, 1)
	assert.Equal(t, 2.0, polys[0].value)
}

func singleTriangle(t *testing.T) *mesh.Geometry {
	t.Helper()
	g, err := mesh.New([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil)
	require.NoError(t, err)
	require.NoError(t, g.ComputeVertexNormals())
	return g
}

func TestFilledSingleTriangle(t *testing.T) {
	g := singleTriangle(t)
	scalars := []float64{0, 1, 2}
	res, err := Filled(g, scalars, []float64{1.5, 0.5}, FilledOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3+5+3, res.VertexCount())
	assert.Equal(t, 1+3+1, res.TriangleCount())

	lut := colormap.New(nil, colormap.DefaultMap, colormap.DefaultResolution, 1)
	lut.SetRange(0, 2)
	bandColor := []float64{0, 0, 0, 0.5, 0.5, 0.5, 0.5, 0.5, 1.5, 1.5, 1.5}
	for i, v := range bandColor {
		want := lut.Color(v).AppendF32(nil)
		assert.Equal(t, want, res.Color[3*i:3*i+3], "vertex %d", i)
		assert.Equal(t, []float32{0, 0, 1}, res.Normal[3*i:3*i+3])
	}
	for _, idx := range res.Index {
		assert.Less(t, int(idx), res.VertexCount())
	}

	lo := 0.5
	res, err = Filled(g, scalars, []float64{0.5, 1.5}, FilledOptions{Min: &lo})
	require.NoError(t, err)
	assert.Equal(t, 5+3, res.VertexCount(), "low cap value 0 is below the range")

	hi := 1.0
	res, err = Filled(g, scalars, []float64{0.5, 1.5}, FilledOptions{Max: &hi})
	require.NoError(t, err)
	assert.Equal(t, 3+5, res.VertexCount(), "high cap value 1.5 is above the range")
}

func TestFilledEmpty(t *testing.T) {
	g := singleTriangle(t)
	res, err := Filled(g, []float64{0, 1, 2}, nil, FilledOptions{})
	require.NoError(t, err)
	assert.Zero(t, res.VertexCount())
	assert.Zero(t, res.TriangleCount())
}

func TestFilledErrors(t *testing.T) {
	g, err := mesh.New([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil)
	require.NoError(t, err)
	_, err = Filled(g, []float64{0, 1, 2}, []float64{0.5}, FilledOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mesh.ErrMissingAttribute))
	assert.Contains(t, err.Error(), mesh.AttrNormal)

	_, err = Filled(&mesh.Geometry{}, nil, []float64{0.5}, FilledOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), mesh.AttrPosition)

	_, err = Filled(nil, nil, nil, FilledOptions{})
	assert.Error(t, err)

	require.NoError(t, g.ComputeVertexNormals())
	_, err = Filled(g, []float64{0, 1}, []float64{0.5}, FilledOptions{})
	assert.Error(t, err, "scalar count mismatch")
}

func TestFilledPlateauOnThreshold(t *testing.T) {
	// Unit square split in two; triangle 0 is flat at the first threshold.
	g, err := mesh.New([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0}, []uint32{0, 1, 2, 1, 3, 2})
	require.NoError(t, err)
	require.NoError(t, g.ComputeVertexNormals())
	scalars := []float64{1, 1, 1, 2}
	for _, workers := range []int{0, 2} {
		res, err := Filled(g, scalars, []float64{1, 1.5}, FilledOptions{Workers: workers})
		require.NoError(t, err)
		// The plateau is one triangle, its neighbor splits at 1.5 into a quad and a triangle.
		assert.Equal(t, 3+4+3, res.VertexCount(), "workers=%d", workers)
		assert.Equal(t, 1+2+1, res.TriangleCount(), "workers=%d", workers)
	}
	lines, err := Lines(g, scalars, []float64{1, 1.5}, LineOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, lines.Counts, "the plateau level itself traces nothing")
}

func TestFilledSkipsNaN(t *testing.T) {
	g, err := mesh.New([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0}, []uint32{0, 1, 2, 1, 3, 2})
	require.NoError(t, err)
	require.NoError(t, g.ComputeVertexNormals())
	res, err := Filled(g, []float64{0, 1, 1, math.NaN()}, []float64{0.5}, FilledOptions{Workers: 2})
	require.NoError(t, err)
	// Only triangle 0 is banded: a low cap triangle and a high quad.
	assert.Equal(t, 3+4, res.VertexCount())
	for _, v := range res.Position {
		assert.False(t, math.IsNaN(float64(v)))
	}
}

func heightfield(t *testing.T) (*mesh.Geometry, []float64) {
	t.Helper()
	const nx, ny = 7, 5
	heights := make([]float64, nx*ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			heights[y*nx+x] = 0.7*float64(x) + 0.3*float64(y) + 0.1*float64(x*y)
		}
	}
	g, err := mesh.Heightfield(nx, ny, heights, 1)
	require.NoError(t, err)
	require.NoError(t, g.ComputeVertexNormals())
	pos := g.Positions()
	scalars := make([]float64, g.VertexCount())
	for i := range scalars {
		z, err := pos.GetZ(i)
		require.NoError(t, err)
		scalars[i] = float64(z)
	}
	return g, scalars
}

func TestFilledPartitionAndWinding(t *testing.T) {
	g, scalars := heightfield(t)
	lo, hi := Range(scalars)
	res, err := Filled(g, scalars, InteriorLevels(lo, hi, 9), FilledOptions{})
	require.NoError(t, err)
	area := func(pos []float32, index []uint32) float64 {
		var total float64
		for i := 0; i < len(index); i += 3 {
			a, b, c := index[i], index[i+1], index[i+2]
			ax, ay := float64(pos[3*a]), float64(pos[3*a+1])
			bx, by := float64(pos[3*b]), float64(pos[3*b+1])
			cx, cy := float64(pos[3*c]), float64(pos[3*c+1])
			z := (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
			assert.GreaterOrEqual(t, z, -1e-6, "triangle %d faces down", i/3)
			total += z / 2
		}
		return total
	}
	want := area(g.Positions().Array, g.TriangleIndices())
	got := area(res.Position, res.Index)
	assert.InDelta(t, want, got, 1e-4)
}

func TestFilledDeterministic(t *testing.T) {
	g, err := mesh.UVSphere(1, 24, 12)
	require.NoError(t, err)
	require.NoError(t, g.ComputeVertexNormals())
	scalars := make([]float64, g.VertexCount())
	for i := range scalars {
		x, _ := g.Positions().GetX(i)
		y, _ := g.Positions().GetY(i)
		scalars[i] = math.Sin(3*float64(x)) + float64(y)
	}
	lo, hi := Range(scalars)
	thresholds := InteriorLevels(lo, hi, 7)
	first, err := Filled(g, scalars, thresholds, FilledOptions{LUT: "Cooltowarm"})
	require.NoError(t, err)
	again, err := Filled(g, scalars, thresholds, FilledOptions{LUT: "Cooltowarm"})
	require.NoError(t, err)
	assert.Equal(t, first, again)
	for _, workers := range []int{2, 3, 8, 10000} {
		par, err := Filled(g, scalars, thresholds, FilledOptions{LUT: "Cooltowarm", Workers: workers})
		require.NoError(t, err)
		assert.Equal(t, first, par, "workers=%d", workers)
	}
	c, err := NewContourer(g)
	require.NoError(t, err)
	viaContourer, err := c.Filled(scalars, thresholds, FilledOptions{LUT: "Cooltowarm"})
	require.NoError(t, err)
	assert.Equal(t, first, viaContourer)
}

func TestLinesSingleTriangle(t *testing.T) {
	g := singleTriangle(t)
	res, err := Lines(g, []float64{0, 1, 2}, []float64{0.5}, LineOptions{Color: colormap.Hex("#ff0000")})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0, 0, 0, 0.25, 0}, res.Positions)
	assert.Equal(t, []float32{1, 0, 0, 1, 0, 0}, res.Color)
	assert.Equal(t, []int{1}, res.Counts)
	assert.Equal(t, 1, res.SegmentCount())

	_, err = Lines(g, []float64{0, 1, 2}, []float64{0.5}, LineOptions{Color: colormap.Hex("nope")})
	assert.Error(t, err)
}

func TestLinesLUTColor(t *testing.T) {
	g := singleTriangle(t)
	res, err := Lines(g, []float64{0, 1, 2}, []float64{1.5, 0.5, 7}, LineOptions{LUT: "Hot"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0}, res.Counts)
	lut := colormap.New(nil, "Hot", colormap.DefaultResolution, 1)
	lut.SetRange(0, 2)
	// Thresholds keep the caller order.
	assert.Equal(t, lut.Color(1.5).AppendF32(nil), res.Color[0:3])
	assert.Equal(t, lut.Color(0.5).AppendF32(nil), res.Color[6:9])
}

func TestLinesErrors(t *testing.T) {
	g, err := mesh.New([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0}, []uint32{0, 1, 2, 1, 3, 1})
	require.NoError(t, err)
	_, err = Lines(g, []float64{0, 1, 2, 3}, []float64{0.5}, LineOptions{})
	assert.True(t, errors.Is(err, marching.ErrDegenerateTriangle))

	_, err = Lines(&mesh.Geometry{}, nil, nil, LineOptions{})
	assert.True(t, errors.Is(err, mesh.ErrMissingAttribute))

	g = singleTriangle(t)
	_, err = Lines(g, []float64{0, 1}, []float64{0.5}, LineOptions{})
	assert.Error(t, err)
}

func TestSphereEndToEnd(t *testing.T) {
	const radius = 2
	g, err := mesh.UVSphere(radius, 16, 8)
	require.NoError(t, err)
	scalars := make([]float64, g.VertexCount())
	for i := range scalars {
		y, err := g.Positions().GetY(i)
		require.NoError(t, err)
		scalars[i] = float64(y)
	}
	thresholds := Levels(-radius, radius, 5)
	require.Equal(t, []float64{-2, -1, 0, 1, 2}, thresholds)

	c, err := NewContourer(g)
	require.NoError(t, err)
	// Every vertex is at or above the minimum: no crossing at all.
	lines, err := c.Isolines(scalars, -radius)
	require.NoError(t, err)
	assert.Empty(t, lines)

	for _, thr := range []float64{-1, 0, 1} {
		lines, err := c.Isolines(scalars, thr)
		require.NoError(t, err)
		require.Len(t, lines, 1, "threshold %g", thr)
		l := lines[0]
		assert.True(t, l.Closed)
		assert.Equal(t, 32, l.Segments())
		for i, e := range l.Edges {
			p := c.Point(e, l.Fractions[i])
			assert.InDelta(t, thr, p.Y, 1e-6)
		}
	}

	// The maximum sits exactly on the pole, which counts as above the
	// threshold: the ring around the pole collapses onto it.
	lines, err = c.Isolines(scalars, radius)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	pole := lines[0]
	assert.True(t, pole.Closed)
	assert.Equal(t, 16, pole.Segments())
	for i, e := range pole.Edges {
		assert.Equal(t, 1.0, pole.Fractions[i])
		assert.Equal(t, 0, e.B, "top pole vertex")
		assert.Equal(t, r3.Vec{Y: radius}, c.Point(e, pole.Fractions[i]))
	}

	res, err := c.Lines(scalars, thresholds, LineOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 32, 32, 32, 16}, res.Counts)
	assert.Equal(t, 2*3*(32*3+16), len(res.Positions))
	assert.Equal(t, len(res.Positions), len(res.Color))
}

func TestContourerFieldChange(t *testing.T) {
	g, scalars := heightfield(t)
	c, err := NewContourer(g)
	require.NoError(t, err)
	thresholds := []float64{1, 2.5, 4}
	first, err := c.Lines(scalars, thresholds, LineOptions{})
	require.NoError(t, err)

	shifted := make([]float64, len(scalars))
	for i, v := range scalars {
		shifted[i] = v + 100
	}
	_, err = c.Lines(shifted, thresholds, LineOptions{})
	require.NoError(t, err)

	again, err := c.Lines(scalars, thresholds, LineOptions{})
	require.NoError(t, err)
	fresh, err := Lines(g, scalars, thresholds, LineOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, fresh, again)
	for _, n := range first.Counts {
		assert.Positive(t, n)
	}
}

func TestLevels(t *testing.T) {
	assert.Nil(t, Levels(0, 1, 0))
	assert.Equal(t, []float64{0.5}, Levels(0, 1, 1))
	assert.Equal(t, []float64{0, 0.5, 1}, Levels(0, 1, 3))
	assert.Equal(t, []float64{0.25, 0.5, 0.75}, InteriorLevels(0, 1, 3))
	lo, hi := Range([]float64{3, math.NaN(), -2, 8})
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 8.0, hi)
	assert.Equal(t, []float64{1, 2, 3}, sortedThresholds([]float64{3, 1, 2, 1, math.NaN(), 3}))
}
