package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/soypat/isocontour/internal/d3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotLines draws line segments, given as consecutive endpoint pairs with
// per endpoint colors, projected onto a plane. Segments that continue one
// another with the same color are joined into a single polyline.
func PlotLines(positions, colors []float32, proj Projection, title string) (*plot.Plot, error) {
	if len(positions)%6 != 0 {
		return nil, fmt.Errorf("position length %d is not a whole number of segments", len(positions))
	}
	if len(colors) != len(positions) {
		return nil, fmt.Errorf("got %d color floats for %d position floats", len(colors), len(positions))
	}
	p := plot.New()
	p.Title.Text = title
	axes := proj.String()
	p.X.Label.Text = axes[:1]
	p.Y.Label.Text = axes[1:]
	for _, chain := range chainSegments(positions, colors, proj) {
		line, err := plotter.NewLine(chain.xys)
		if err != nil {
			return nil, err
		}
		line.Color = chain.color
		line.Width = vg.Points(1)
		p.Add(line)
	}
	return p, nil
}

// SavePlot writes p to path. The format follows the file extension, for
// example .svg, .png or .pdf.
func SavePlot(p *plot.Plot, width, height vg.Length, path string) error {
	if p == nil {
		return errors.New("nil plot")
	}
	return p.Save(width, height, path)
}

type chain struct {
	xys   plotter.XYs
	color color.RGBA
}

func chainSegments(positions, colors []float32, proj Projection) []chain {
	var chains []chain
	for i := 0; i < len(positions); i += 6 {
		a := proj.Project(d3.FromF32(positions[i:]))
		b := proj.Project(d3.FromF32(positions[i+3:]))
		c := toRGBA(colors[i:])
		if n := len(chains); n > 0 {
			last := &chains[n-1]
			end := last.xys[len(last.xys)-1]
			if last.color == c && end.X == a.X && end.Y == a.Y {
				last.xys = append(last.xys, plotter.XY{X: b.X, Y: b.Y})
				continue
			}
		}
		chains = append(chains, chain{
			xys:   plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}},
			color: c,
		})
	}
	return chains
}

func toRGBA(c []float32) color.RGBA {
	ch := func(v float32) uint8 {
		return uint8(clamp01(float64(v))*255 + 0.5)
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: 255}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
