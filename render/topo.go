package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/soypat/isocontour/internal/d2"
	"github.com/soypat/isocontour/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
)

// TopoMap rasterizes filled contour bands, and optionally contour lines,
// projected onto a plane.
type TopoMap struct {
	Projection Projection
	// Size is the longest image side in pixels.
	Size    int
	Padding float64
	// LineWidth of contour lines in pixels.
	LineWidth float64
	// Background and LineColor are hex colors, white and black when empty.
	Background string
	LineColor  string
}

// Draw renders an indexed band triangle list with per vertex colors and line
// segments given as consecutive endpoint pairs. Either may be empty.
func (m TopoMap) Draw(position []float32, index []uint32, color []float32, lines []float32) (image.Image, error) {
	if len(color) != len(position) {
		return nil, fmt.Errorf("got %d color floats for %d position floats", len(color), len(position))
	}
	if len(lines)%6 != 0 {
		return nil, fmt.Errorf("line length %d is not a whole number of segments", len(lines))
	}
	r, err := NewIndexedRenderer(position, index)
	if err != nil {
		return nil, err
	}
	ir := r.(*indexedRenderer)
	extent := d3.BoxF32(position)
	bb := d2.EmptyBox()
	if !extent.Empty() {
		// Projections keep two axes, so the projected corners bound the points.
		bb = bb.Include(m.Projection.Project(extent.Min)).Include(m.Projection.Project(extent.Max))
	}
	for i := 0; i+2 < len(lines); i += 3 {
		bb = bb.Include(m.Projection.Project(d3.FromF32(lines[i:])))
	}
	if bb.Empty() {
		return nil, errors.New("nothing to draw")
	}
	size := m.Size
	if size <= 0 {
		size = 1024
	}
	pad := m.Padding
	scale := bb.Fit(float64(size), float64(size), pad)
	dims := bb.Size()
	w := int(math.Ceil(dims.X*scale + 2*pad))
	h := int(math.Ceil(dims.Y*scale + 2*pad))
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.SetHexColor(orDefault(m.Background, "#ffffff"))
	dc.Clear()
	// Image rows grow downwards; flip so the second axis points up.
	dc.Translate(pad, float64(h)-pad)
	dc.Scale(scale, -scale)
	dc.Translate(-bb.Min.X, -bb.Min.Y)

	moveTo := func(v r2.Vec) { dc.MoveTo(v.X, v.Y) }
	lineTo := func(v r2.Vec) { dc.LineTo(v.X, v.Y) }
	dc.SetLineWidth(0.5)
	vertex := func(corner int) r2.Vec {
		vi := corner
		if index != nil {
			vi = int(index[corner])
		}
		return m.Projection.Project(d3.FromF32(position[3*vi:]))
	}
	for i := 0; i < ir.count(); i++ {
		c := 3 * i
		moveTo(vertex(c))
		lineTo(vertex(c + 1))
		lineTo(vertex(c + 2))
		dc.ClosePath()
		vi := c
		if index != nil {
			vi = int(index[c])
		}
		dc.SetRGB(float64(color[3*vi]), float64(color[3*vi+1]), float64(color[3*vi+2]))
		// Stroking with the fill color hides antialiasing seams between bands.
		dc.FillPreserve()
		dc.Stroke()
	}
	if len(lines) > 0 {
		for i := 0; i < len(lines); i += 6 {
			dc.NewSubPath()
			moveTo(m.Projection.Project(d3.FromF32(lines[i:])))
			lineTo(m.Projection.Project(d3.FromF32(lines[i+3:])))
		}
		dc.SetHexColor(orDefault(m.LineColor, "#000000"))
		dc.SetLineWidth(max(m.LineWidth, 1))
		dc.Stroke()
	}
	return dc.Image(), nil
}

// TopoPNG draws a TopoMap of the bands and lines and saves it as PNG.
func TopoPNG(path string, position []float32, index []uint32, color []float32, lines []float32, proj Projection, size int) error {
	img, err := TopoMap{Projection: proj, Size: size, Padding: 8}.Draw(position, index, color, lines)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
