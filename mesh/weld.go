package mesh

import (
	"errors"
	"math"

	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

var (
	_ kdtree.Interface  = corners{}
	_ kdtree.SortSlicer = cornerPlane{}
)

// Weld merges triangle corners closer than tol into shared vertices and
// returns an indexed geometry. The first corner of each cluster gives the
// vertex position. Triangles that collapse to fewer than three distinct
// vertices after merging are dropped.
func Weld(triangles []ms3.Triangle, tol float32) (*Geometry, error) {
	if tol < 0 || math.IsNaN(float64(tol)) {
		return nil, errors.New("weld: tolerance must be non-negative")
	}
	if len(triangles) == 0 {
		return &Geometry{attributes: map[string]*Attribute{AttrPosition: {ItemSize: 3}}, index: []uint32{}}, nil
	}
	pts := make(corners, 0, 3*len(triangles))
	for _, tri := range triangles {
		for j := range tri {
			pts = append(pts, corner{v: tri[j], i: len(pts)})
		}
	}
	// The tree reorders its backing slice, keep pts in corner order.
	tree := kdtree.New(append(corners(nil), pts...), false)

	r2 := float64(tol) * float64(tol)
	vertexOf := make([]int32, len(pts))
	for i := range vertexOf {
		vertexOf[i] = -1
	}
	var positions []float32
	nv := int32(0)
	for _, c := range pts {
		if vertexOf[c.i] >= 0 {
			continue
		}
		vertexOf[c.i] = nv
		positions = append(positions, c.v.X, c.v.Y, c.v.Z)
		keep := kdtree.NewDistKeeper(r2)
		tree.NearestSet(keep, c)
		for _, found := range keep.Heap {
			if found.Comparable == nil {
				continue
			}
			other := found.Comparable.(corner)
			if vertexOf[other.i] < 0 {
				vertexOf[other.i] = nv
			}
		}
		nv++
	}
	index := make([]uint32, 0, len(pts))
	for t := 0; t < len(triangles); t++ {
		a, b, c := vertexOf[3*t], vertexOf[3*t+1], vertexOf[3*t+2]
		if a == b || b == c || a == c {
			continue
		}
		index = append(index, uint32(a), uint32(b), uint32(c))
	}
	g := &Geometry{}
	g.SetAttribute(AttrPosition, &Attribute{Array: positions, ItemSize: 3})
	g.SetIndices(index)
	return g, nil
}

type corner struct {
	v ms3.Vec
	i int
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a corner) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return float64(component(a.v, int(d)) - component(b.(corner).v, int(d)))
}

func (a corner) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the corners.
func (a corner) Distance(b kdtree.Comparable) float64 {
	d := ms3.Sub(a.v, b.(corner).v)
	x, y, z := float64(d.X), float64(d.Y), float64(d.Z)
	return x*x + y*y + z*z
}

func component(v ms3.Vec, dim int) float32 {
	switch dim {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

type corners []corner

func (c corners) Index(i int) kdtree.Comparable { return c[i] }
func (c corners) Len() int                      { return len(c) }

func (c corners) Pivot(d kdtree.Dim) int {
	p := cornerPlane{dim: int(d), corners: c}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (c corners) Slice(start, end int) kdtree.Interface { return c[start:end] }

type cornerPlane struct {
	dim     int
	corners corners
}

func (p cornerPlane) Less(i, j int) bool {
	return component(p.corners[i].v, p.dim) < component(p.corners[j].v, p.dim)
}
func (p cornerPlane) Swap(i, j int) { p.corners[i], p.corners[j] = p.corners[j], p.corners[i] }
func (p cornerPlane) Len() int      { return len(p.corners) }
func (p cornerPlane) Slice(start, end int) kdtree.SortSlicer {
	p.corners = p.corners[start:end]
	return p
}
