// Package render exports contour results: binary STL files, shaded previews,
// line plots and raster maps.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isocontour/internal/d2"
)

// Renderer streams triangles. ReadTriangles returns io.EOF once exhausted.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle) (int, error)
}

// Projection maps 3d points onto a drawing plane.
type Projection = d2.Projection

const (
	ProjectXY = d2.ProjectXY
	ProjectXZ = d2.ProjectXZ
	ProjectYZ = d2.ProjectYZ
)

// NewIndexedRenderer streams the triangles of flat position (3 floats per
// vertex) and index buffers. A nil index reads consecutive vertex triples.
func NewIndexedRenderer(position []float32, index []uint32) (Renderer, error) {
	if len(position)%3 != 0 {
		return nil, fmt.Errorf("position length %d not a multiple of 3", len(position))
	}
	nv := len(position) / 3
	if index == nil {
		if nv%3 != 0 {
			return nil, fmt.Errorf("non-indexed vertex count %d not a multiple of 3", nv)
		}
	} else {
		if len(index)%3 != 0 {
			return nil, fmt.Errorf("index length %d not a multiple of 3", len(index))
		}
		for i, idx := range index {
			if int(idx) >= nv {
				return nil, fmt.Errorf("index[%d]=%d out of range for %d vertices", i, idx, nv)
			}
		}
	}
	return &indexedRenderer{pos: position, index: index}, nil
}

type indexedRenderer struct {
	pos   []float32
	index []uint32
	next  int
}

func (r *indexedRenderer) count() int {
	if r.index != nil {
		return len(r.index) / 3
	}
	return len(r.pos) / 9
}

func (r *indexedRenderer) vertex(corner int) ms3.Vec {
	vi := corner
	if r.index != nil {
		vi = int(r.index[corner])
	}
	return ms3.Vec{X: r.pos[3*vi], Y: r.pos[3*vi+1], Z: r.pos[3*vi+2]}
}

func (r *indexedRenderer) ReadTriangles(dst []ms3.Triangle) (int, error) {
	if len(dst) == 0 {
		return 0, errors.New("cannot read into empty triangle buffer")
	}
	n := 0
	for ; n < len(dst) && r.next < r.count(); n++ {
		c := 3 * r.next
		dst[n] = ms3.Triangle{r.vertex(c), r.vertex(c + 1), r.vertex(c + 2)}
		r.next++
	}
	if r.next >= r.count() {
		return n, io.EOF
	}
	return n, nil
}

// NewSliceRenderer streams a copy of triangles.
func NewSliceRenderer(triangles []ms3.Triangle) Renderer {
	return &triangleBuffer{buf: append([]ms3.Triangle(nil), triangles...)}
}
