// Package mesh holds triangle meshes as flat GPU style buffers: a position
// attribute, an optional triangle index buffer and named per-vertex
// attributes such as normals.
package mesh

import (
	"fmt"

	"github.com/soypat/glgl/math/ms3"
)

// Well known attribute names.
const (
	AttrPosition = "position"
	AttrNormal   = "normal"
)

// Geometry is a triangle mesh. Without indices consecutive vertex triples
// form the triangles. The zero value is an empty geometry.
type Geometry struct {
	attributes map[string]*Attribute
	index      []uint32
}

// New returns a geometry over positions (3 floats per vertex) and optional
// triangle indices.
func New(positions []float32, indices []uint32) (*Geometry, error) {
	pos, err := NewAttribute(positions, 3)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	g := &Geometry{}
	if err := g.SetPositions(pos); err != nil {
		return nil, err
	}
	g.SetIndices(indices)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// SetPositions sets the position attribute which must have item size 3.
func (g *Geometry) SetPositions(a *Attribute) error {
	if a == nil {
		g.DeleteAttribute(AttrPosition)
		return nil
	}
	if a.ItemSize != 3 {
		return fmt.Errorf("%w: positions need item size 3, got %d", ErrItemSizeMismatch, a.ItemSize)
	}
	g.SetAttribute(AttrPosition, a)
	return nil
}

// Positions returns the position attribute or nil.
func (g *Geometry) Positions() *Attribute { return g.Attribute(AttrPosition) }

// Normals returns the normal attribute or nil.
func (g *Geometry) Normals() *Attribute { return g.Attribute(AttrNormal) }

// SetIndices sets the triangle index buffer. nil removes it.
func (g *Geometry) SetIndices(index []uint32) { g.index = index }

// Indices returns the triangle index buffer, nil when the geometry is not indexed.
func (g *Geometry) Indices() []uint32 { return g.index }

// SetAttribute stores a named attribute. A nil attribute deletes it.
func (g *Geometry) SetAttribute(name string, a *Attribute) {
	if a == nil {
		g.DeleteAttribute(name)
		return
	}
	if g.attributes == nil {
		g.attributes = make(map[string]*Attribute)
	}
	g.attributes[name] = a
}

// Attribute returns the named attribute or nil.
func (g *Geometry) Attribute(name string) *Attribute { return g.attributes[name] }

func (g *Geometry) DeleteAttribute(name string) { delete(g.attributes, name) }

// VertexCount returns the number of positions.
func (g *Geometry) VertexCount() int {
	pos := g.Positions()
	if pos == nil {
		return 0
	}
	return pos.Count()
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	if g.index != nil {
		return len(g.index) / 3
	}
	return g.VertexCount() / 3
}

// Triangle returns the vertex indices of triangle i. It panics when i is out of range.
func (g *Geometry) Triangle(i int) (a, b, c int) {
	if g.index != nil {
		j := 3 * i
		return int(g.index[j]), int(g.index[j+1]), int(g.index[j+2])
	}
	j := 3 * i
	if j+2 >= g.VertexCount() {
		panic(fmt.Sprintf("triangle %d out of range", i))
	}
	return j, j + 1, j + 2
}

// TriangleIndices returns the explicit triangle index list, generating a
// sequential one for non-indexed geometry.
func (g *Geometry) TriangleIndices() []uint32 {
	if g.index != nil {
		return g.index
	}
	n := g.TriangleCount() * 3
	seq := make([]uint32, n)
	for i := range seq {
		seq[i] = uint32(i)
	}
	return seq
}

// Validate checks the geometry invariants: positions exist, every index
// addresses a vertex and non-indexed vertex counts are multiples of 3.
// Attributes other than positions must have one item per vertex.
func (g *Geometry) Validate() error {
	pos := g.Positions()
	if pos == nil {
		return fmt.Errorf("geometry: %w %q", ErrMissingAttribute, AttrPosition)
	}
	if len(pos.Array)%3 != 0 {
		return fmt.Errorf("geometry: %w: position array length %d", ErrItemSizeMismatch, len(pos.Array))
	}
	nv := pos.Count()
	if g.index == nil {
		if nv%3 != 0 {
			return fmt.Errorf("geometry: non-indexed vertex count %d not a multiple of 3", nv)
		}
	} else {
		if len(g.index)%3 != 0 {
			return fmt.Errorf("geometry: index count %d not a multiple of 3", len(g.index))
		}
		for i, idx := range g.index {
			if int(idx) >= nv {
				return fmt.Errorf("geometry: %w: index[%d]=%d with %d vertices", ErrIndexOutOfRange, i, idx, nv)
			}
		}
	}
	for name, a := range g.attributes {
		if a.Count() != nv {
			return fmt.Errorf("geometry: attribute %q has %d items for %d vertices", name, a.Count(), nv)
		}
	}
	return nil
}

// Triangles returns the mesh as a triangle soup.
func (g *Geometry) Triangles() []ms3.Triangle {
	pos := g.Positions()
	if pos == nil {
		return nil
	}
	n := g.TriangleCount()
	tris := make([]ms3.Triangle, n)
	for i := range tris {
		a, b, c := g.Triangle(i)
		tris[i] = ms3.Triangle{pos.vec(a), pos.vec(b), pos.vec(c)}
	}
	return tris
}

// Bounds returns the axis aligned bounding box of the positions.
func (g *Geometry) Bounds() ms3.Box {
	pos := g.Positions()
	if pos == nil || pos.Count() == 0 {
		return ms3.Box{}
	}
	box := ms3.Box{Min: pos.vec(0), Max: pos.vec(0)}
	for i := 1; i < pos.Count(); i++ {
		v := pos.vec(i)
		box.Min = ms3.MinElem(box.Min, v)
		box.Max = ms3.MaxElem(box.Max, v)
	}
	return box
}

// Clone returns a deep copy of the geometry.
func (g *Geometry) Clone() *Geometry {
	c := &Geometry{}
	if g.index != nil {
		c.index = append([]uint32(nil), g.index...)
	}
	for name, a := range g.attributes {
		c.SetAttribute(name, a.Clone())
	}
	return c
}
