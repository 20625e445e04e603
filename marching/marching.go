// Package marching implements the Marching Triangles algorithm: per-triangle
// classification of a vertex scalar field against a threshold followed by
// stitching of the crossing segments into polylines through shared edges.
package marching

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateTriangle is matched by every [*DegenerateTriangleError].
var ErrDegenerateTriangle = errors.New("degenerate triangle")

// DegenerateTriangleError reports a triangle that repeats a vertex index.
type DegenerateTriangleError struct {
	Triangle int
	Indices  [3]uint32
}

func (e *DegenerateTriangleError) Error() string {
	return fmt.Sprintf("triangle %d has repeated vertex index %v", e.Triangle, e.Indices)
}

func (e *DegenerateTriangleError) Is(target error) bool { return target == ErrDegenerateTriangle }

// Edge is a crossed mesh edge. A is the vertex with the lower scalar value so
// the crossing lies at P[A] + f*(P[B]-P[A]) for the fraction f.
type Edge struct {
	A, B int
}

// Isoline is a contour polyline. Edges and Fractions are parallel. A closed
// isoline repeats its first entry at the end.
type Isoline struct {
	Edges     []Edge
	Fractions []float64
	Closed    bool
}

// Segments returns the number of line segments of the isoline.
func (l Isoline) Segments() int {
	if len(l.Edges) == 0 {
		return 0
	}
	return len(l.Edges) - 1
}

// Triangles holds mesh topology for repeated contour extraction.
// Scratch buffers are reused across calls so a Triangles is not safe for
// concurrent use.
type Triangles struct {
	index    []uint32
	maxIndex int
	bounds   [2]float64
	locked   bool

	segs    []segment
	refs    []edgeRef
	visited bitset
}

// segment is the contour piece inside one triangle, from crossing 0 to crossing 1.
type segment struct {
	tri   int
	edges [2]Edge
	fracs [2]float64
}

// Setup validates and stores the triangles given as a flat index list of
// vertex triples. Triangles whose three values all lie outside the inclusive
// range bounds are skipped by [Triangles.Isolines]. On error t is left
// unlocked and empty.
func (t *Triangles) Setup(indices []uint32, bounds [2]float64) error {
	t.Reset()
	if len(indices)%3 != 0 {
		return fmt.Errorf("index count %d not a multiple of 3", len(indices))
	}
	if err := t.SetBounds(bounds); err != nil {
		return err
	}
	maxIndex := -1
	for i := 0; i < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a == b || b == c || a == c {
			t.Reset()
			return &DegenerateTriangleError{Triangle: i / 3, Indices: [3]uint32{a, b, c}}
		}
		maxIndex = max(maxIndex, int(a), int(b), int(c))
	}
	t.index = append(t.index[:0], indices...)
	t.maxIndex = maxIndex
	t.locked = true
	return nil
}

// SetBounds replaces the culling range without revisiting the topology.
func (t *Triangles) SetBounds(bounds [2]float64) error {
	if math.IsNaN(bounds[0]) || math.IsNaN(bounds[1]) || bounds[0] > bounds[1] {
		return fmt.Errorf("invalid value bounds %v", bounds)
	}
	t.bounds = bounds
	return nil
}

// Reset unlocks t and drops its topology. Scratch capacity is kept.
func (t *Triangles) Reset() {
	t.index = t.index[:0]
	t.maxIndex = -1
	t.bounds = [2]float64{}
	t.locked = false
}

// Locked reports whether a successful Setup was done.
func (t *Triangles) Locked() bool { return t.locked }

// MaxIndex returns the highest vertex index referenced, or -1.
func (t *Triangles) MaxIndex() int { return t.maxIndex }

// Bounds returns the culling range given to Setup.
func (t *Triangles) Bounds() [2]float64 { return t.bounds }

// Len returns the number of triangles.
func (t *Triangles) Len() int { return len(t.index) / 3 }

// Isolines returns the contour polylines of scalars at threshold. The result
// is empty when t is not set up or scalars does not cover every vertex.
func (t *Triangles) Isolines(scalars []float64, threshold float64) []Isoline {
	if !t.locked || len(scalars) == 0 || len(scalars) <= t.maxIndex {
		return nil
	}
	t.classify(scalars, threshold)
	if len(t.segs) == 0 {
		return nil
	}
	t.indexEdges()
	return t.stitch()
}

func (t *Triangles) classify(scalars []float64, threshold float64) {
	t.segs = t.segs[:0]
	lo, hi := t.bounds[0], t.bounds[1]
	outside := func(v float64) bool { return v < lo || v > hi }
	for i := 0; i < len(t.index); i += 3 {
		vi := [3]int{int(t.index[i]), int(t.index[i+1]), int(t.index[i+2])}
		vals := [3]float64{scalars[vi[0]], scalars[vi[1]], scalars[vi[2]]}
		if outside(vals[0]) && outside(vals[1]) && outside(vals[2]) {
			continue
		}
		mask := 0
		for k, v := range vals {
			if v >= threshold {
				mask |= 1 << k
			}
		}
		pair := crossedEdges[mask]
		if pair[0] < 0 {
			continue
		}
		seg := segment{tri: i / 3}
		for j, e := range pair {
			p, q := localEdges[e][0], localEdges[e][1]
			if vals[q] < vals[p] {
				p, q = q, p
			}
			seg.edges[j] = Edge{A: vi[p], B: vi[q]}
			seg.fracs[j] = (threshold - vals[p]) / (vals[q] - vals[p])
		}
		t.segs = append(t.segs, seg)
	}
}
