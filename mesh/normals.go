package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// defaultNormal is assigned to vertices whose accumulated normal vanishes.
var defaultNormal = ms3.Vec{Y: 1}

// ComputeVertexNormals computes area weighted smooth vertex normals and
// stores them in the normal attribute, replacing any previous contents.
//
// Each triangle contributes (b-a)×(c-a) to its three vertices, so larger
// faces weigh more. Accumulated normals are normalized; vertices with a zero
// sum (unreferenced, or only touched by degenerate triangles) get (0,1,0).
func (g *Geometry) ComputeVertexNormals() error {
	if pos, nrm := g.Positions(), g.Normals(); pos != nil && nrm != nil &&
		(nrm.ItemSize != 3 || nrm.Count() != pos.Count()) {
		// Stale normals of another mesh size are replaced, not validated.
		g.DeleteAttribute(AttrNormal)
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("computing normals: %w", err)
	}
	pos := g.Positions()
	nv := pos.Count()
	normals := g.Normals()
	if normals == nil {
		normals = &Attribute{Array: make([]float32, 3*nv), ItemSize: 3}
		g.SetAttribute(AttrNormal, normals)
	} else {
		clear(normals.Array)
	}
	for i := 0; i < g.TriangleCount(); i++ {
		ia, ib, ic := g.Triangle(i)
		a, b, c := pos.vec(ia), pos.vec(ib), pos.vec(ic)
		n := ms3.Cross(ms3.Sub(c, b), ms3.Sub(a, b))
		normals.setVec(ia, ms3.Add(normals.vec(ia), n))
		normals.setVec(ib, ms3.Add(normals.vec(ib), n))
		normals.setVec(ic, ms3.Add(normals.vec(ic), n))
	}
	for i := 0; i < nv; i++ {
		normals.setVec(i, unitOrDefault(normals.vec(i)))
	}
	return nil
}

func unitOrDefault(v ms3.Vec) ms3.Vec {
	l := ms3.Norm(v)
	if l == 0 || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return defaultNormal
	}
	return ms3.Scale(1/l, v)
}
