package mesh

import (
	"errors"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isocontour/internal/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeBounds(t *testing.T) {
	a, err := NewAttribute([]float32{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Count())

	x, err := a.GetX(1)
	require.NoError(t, err)
	assert.Equal(t, float32(4), x)
	z, err := a.GetZ(0)
	require.NoError(t, err)
	assert.Equal(t, float32(3), z)

	_, err = a.GetY(2)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = a.GetX(-1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = a.Get(0, 3)
	assert.True(t, errors.Is(err, ErrItemSizeMismatch))
	assert.True(t, errors.Is(a.Set(5, 0, 1), ErrIndexOutOfRange))

	uv, err := NewAttribute([]float32{0, 1}, 2)
	require.NoError(t, err)
	_, err = uv.GetZ(0)
	assert.True(t, errors.Is(err, ErrItemSizeMismatch))
	_, err = uv.Vec(0)
	assert.True(t, errors.Is(err, ErrItemSizeMismatch))

	_, err = NewAttribute([]float32{1, 2}, 3)
	assert.True(t, errors.Is(err, ErrItemSizeMismatch))
}

func TestGeometryValidate(t *testing.T) {
	tri := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	g, err := New(tri, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, g.TriangleCount())
	assert.Equal(t, []uint32{0, 1, 2}, g.TriangleIndices())

	_, err = New(tri, []uint32{0, 1, 3})
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	_, err = New(tri[:6], nil)
	assert.Error(t, err, "two vertices cannot form a non-indexed triangle")

	var empty Geometry
	assert.True(t, errors.Is(empty.Validate(), ErrMissingAttribute))
	assert.True(t, errors.Is(empty.ComputeVertexNormals(), ErrMissingAttribute))

	g.SetAttribute("uv", &Attribute{Array: []float32{0, 0}, ItemSize: 2})
	assert.Error(t, g.Validate(), "attribute count must match vertex count")
	g.DeleteAttribute("uv")
	assert.NoError(t, g.Validate())
}

func TestNormalsSingleTriangle(t *testing.T) {
	g, err := New([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil)
	require.NoError(t, err)
	require.NoError(t, g.ComputeVertexNormals())
	for i := 0; i < 3; i++ {
		n, err := g.Normals().Vec(i)
		require.NoError(t, err)
		assert.Equal(t, ms3.Vec{Z: 1}, n)
	}
}

func TestNormalsAreaWeighted(t *testing.T) {
	// Vertex 0 is shared by a large triangle facing +Z and a small one facing +X.
	positions := []float32{
		0, 0, 0,
		4, 0, 0,
		0, 4, 0,
		0, 1, 0,
		0, 0, 1,
	}
	g, err := New(positions, []uint32{0, 1, 2, 0, 3, 4})
	require.NoError(t, err)
	require.NoError(t, g.ComputeVertexNormals())
	n, err := g.Normals().Vec(0)
	require.NoError(t, err)
	// Sum of cross products is (1,0,16).
	want := ms3.Unit(ms3.Vec{X: 1, Z: 16})
	assert.InDelta(t, want.X, n.X, 1e-6)
	assert.InDelta(t, want.Y, n.Y, 1e-6)
	assert.InDelta(t, want.Z, n.Z, 1e-6)
}

func TestNormalsDefault(t *testing.T) {
	// Collinear triangle plus an unreferenced vertex.
	positions := []float32{0, 0, 0, 1, 0, 0, 2, 0, 0, 5, 5, 5}
	g, err := New(positions, []uint32{0, 1, 2})
	require.NoError(t, err)
	require.NoError(t, g.ComputeVertexNormals())
	for i := 0; i < 4; i++ {
		n, err := g.Normals().Vec(i)
		require.NoError(t, err)
		assert.Equal(t, ms3.Vec{Y: 1}, n, "vertex %d", i)
	}
}

func TestNormalsOverwrite(t *testing.T) {
	g, err := New([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil)
	require.NoError(t, err)
	stale := &Attribute{Array: []float32{9, 9, 9, 9, 9, 9, 9, 9, 9}, ItemSize: 3}
	g.SetAttribute(AttrNormal, stale)
	require.NoError(t, g.ComputeVertexNormals())
	n, _ := stale.Vec(1)
	assert.Equal(t, ms3.Vec{Z: 1}, n)
}

func TestNormalsReplaceMismatched(t *testing.T) {
	g, err := New([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil)
	require.NoError(t, err)
	// Normals left over from a larger mesh.
	g.SetAttribute(AttrNormal, &Attribute{Array: make([]float32, 12), ItemSize: 3})
	require.Error(t, g.Validate())
	require.NoError(t, g.ComputeVertexNormals())
	require.Equal(t, 3, g.Normals().Count())
	n, err := g.Normals().Vec(2)
	require.NoError(t, err)
	assert.Equal(t, ms3.Vec{Z: 1}, n)
	require.NoError(t, g.Validate())
}

func TestUVSphereClosed(t *testing.T) {
	const w, h = 16, 8
	g, err := UVSphere(2, w, h)
	require.NoError(t, err)
	assert.Equal(t, 2+(h-1)*w, g.VertexCount())
	assert.Equal(t, 2*w*(h-1), g.TriangleCount())
	assertClosed(t, g)

	require.NoError(t, g.ComputeVertexNormals())
	pos, normals := g.Positions(), g.Normals()
	for i := 0; i < g.VertexCount(); i++ {
		n, _ := normals.Vec(i)
		p, _ := pos.Vec(i)
		assert.InDelta(t, 1, ms3.Norm(n), 1e-5)
		// Outward facing: normals point away from the center.
		assert.Greater(t, ms3.Dot(n, p), float32(0), "vertex %d", i)
	}
	box := g.Bounds()
	assert.Equal(t, float32(2), box.Max.Y)
	assert.Equal(t, float32(-2), box.Min.Y)
}

func TestWeldSharedEdge(t *testing.T) {
	a := ms3.Vec{}
	b := ms3.Vec{X: 1}
	c := ms3.Vec{Y: 1}
	d := ms3.Vec{X: 1, Y: 1}
	nudge := ms3.Vec{X: 1e-6}
	soup := []ms3.Triangle{
		{a, b, c},
		{ms3.Add(b, nudge), d, c},
		{a, a, b}, // collapses after welding
	}
	g, err := Weld(soup, 1e-4)
	require.NoError(t, err)
	assert.Equal(t, 4, g.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 1, 3, 2}, g.Indices())

	exact, err := Weld(soup, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, exact.VertexCount(), "zero tolerance only merges identical corners")

	_, err = Weld(soup, -1)
	assert.Error(t, err)
}

func TestWeldMarchingCubesSphere(t *testing.T) {
	soup, err := shapes.Tessellate("sphere", 2, 16)
	require.NoError(t, err)
	require.NotEmpty(t, soup)
	g, err := Weld(soup, 1e-5)
	require.NoError(t, err)
	assert.Less(t, g.VertexCount(), 3*len(soup)/2)
	// Marching cubes may pinch a few edges near grid corners.
	open, total := openEdges(g)
	assert.LessOrEqual(t, open, total/100)
	require.NoError(t, g.ComputeVertexNormals())
	normals := g.Normals()
	for i := 0; i < g.VertexCount(); i++ {
		n, _ := normals.Vec(i)
		assert.InDelta(t, 1, ms3.Norm(n), 1e-5)
	}
}

func TestHeightfield(t *testing.T) {
	heights := []float64{
		0, 1, 2,
		1, 2, 3,
	}
	g, err := Heightfield(3, 2, heights, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 6+2, g.VertexCount())
	assert.Equal(t, 8, g.TriangleCount())
	center, err := g.Positions().Vec(6)
	require.NoError(t, err)
	assert.Equal(t, ms3.Vec{X: 0.25, Y: 0.25, Z: 1}, center)
	for _, tri := range g.Triangles() {
		assert.Greater(t, tri.Normal().Z, float32(0))
	}

	_, err = Heightfield(3, 2, heights[:5], 1)
	assert.Error(t, err)
	_, err = Heightfield(1, 6, heights, 1)
	assert.Error(t, err)
}

func assertClosed(t *testing.T, g *Geometry) {
	t.Helper()
	open, _ := openEdges(g)
	assert.Zero(t, open, "every edge must border exactly two consistently wound triangles")
}

// openEdges counts directed edges without exactly one opposite twin.
func openEdges(g *Geometry) (open, total int) {
	directed := make(map[[2]int]int)
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		for _, e := range [][2]int{{a, b}, {b, c}, {c, a}} {
			directed[e]++
		}
	}
	for e, n := range directed {
		if n != 1 || directed[[2]int{e[1], e[0]}] != 1 {
			open++
		}
	}
	return open, len(directed)
}
