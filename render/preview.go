package render

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View places the preview camera in bi-unit cube space: the mesh is scaled
// to fit [-1,1] on every axis before drawing.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
	// Fovy is the vertical field of view in degrees.
	Fovy float64
	// Background is a hex color, "#FFF8E3" when empty.
	Background string
	// Supersample renders at a multiple of the output size and downsamples
	// for antialiasing. Values below 1 mean 1.
	Supersample int
}

// DefaultView looks at the origin from the (3,3,3) corner with Z up.
var DefaultView = View{
	Up:          r3.Vec{Z: 1},
	Eye:         r3.Vec{X: 3, Y: 3, Z: 3},
	Near:        1,
	Far:         10,
	Fovy:        30,
	Supersample: 2,
}

// Preview shades an indexed triangle list with one Phong pass per distinct
// vertex color. position and color hold 3 floats per vertex; every triangle
// takes the color of its first vertex.
func Preview(position []float32, index []uint32, color []float32, view View, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", width, height)
	}
	if len(color) != len(position) {
		return nil, fmt.Errorf("got %d color floats for %d position floats", len(color), len(position))
	}
	r, err := NewIndexedRenderer(position, index)
	if err != nil {
		return nil, err
	}
	tris, err := RenderAll(r)
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, errors.New("nothing to preview")
	}
	groups := make(map[[3]float32][]*fauxgl.Triangle)
	all := make([]*fauxgl.Triangle, 0, len(tris))
	for i, tri := range tris {
		vi := 3 * i
		if index != nil {
			vi = int(index[3*i])
		}
		key := [3]float32{color[3*vi], color[3*vi+1], color[3*vi+2]}
		ft := fauxgl.NewTriangleForPoints(
			fauxgl.V(float64(tri[0].X), float64(tri[0].Y), float64(tri[0].Z)),
			fauxgl.V(float64(tri[1].X), float64(tri[1].Y), float64(tri[1].Z)),
			fauxgl.V(float64(tri[2].X), float64(tri[2].Y), float64(tri[2].Z)),
		)
		groups[key] = append(groups[key], ft)
		all = append(all, ft)
	}
	// Fit everything in a bi-unit cube centered at the origin. The matrix is
	// applied to the shared triangles so every group moves together.
	fauxgl.NewTriangleMesh(all).BiUnitCube()

	keys := make([][3]float32, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})

	scale := max(1, view.Supersample)
	bg := view.Background
	if bg == "" {
		bg = "#FFF8E3"
	}
	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)          // camera position
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z) // view center position
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)             // up vector
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()                  // light direction
	)
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(bg))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	context.Shader = shader
	for _, k := range keys {
		shader.ObjectColor = fauxgl.Color{R: float64(k[0]), G: float64(k[1]), B: float64(k[2]), A: 1}
		context.DrawMesh(fauxgl.NewTriangleMesh(groups[k]))
	}
	// downsample image for antialiasing
	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePreview renders a preview and writes it as PNG.
func SavePreview(path string, position []float32, index []uint32, color []float32, view View, width, height int) error {
	img, err := Preview(position, index, color, view, width, height)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}
