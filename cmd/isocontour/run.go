package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isocontour"
	"github.com/soypat/isocontour/internal/d3"
	"github.com/soypat/isocontour/internal/shapes"
	"github.com/soypat/isocontour/mesh"
	"github.com/soypat/isocontour/render"
	"gonum.org/v1/plot/vg"
)

// Output file names inside the job output directory.
const (
	bandsFile   = "bands.stl"
	previewFile = "preview.png"
	topoFile    = "topo.png"
	linesFile   = "lines.svg"
)

func run(ctx context.Context, log *slog.Logger, job Job) error {
	start := time.Now()
	g, err := loadMesh(log, job)
	if err != nil {
		return err
	}
	if err := g.ComputeVertexNormals(); err != nil {
		return err
	}
	extent := d3.BoxF32(g.Positions().Array).Size()
	log.Info("mesh ready", slog.Int("vertices", g.VertexCount()), slog.Int("triangles", g.TriangleCount()),
		slog.String("extent", fmt.Sprintf("%.4gx%.4gx%.4g", extent.X, extent.Y, extent.Z)))

	axis, _ := job.axis()
	proj, _ := job.projection()
	scalars := coordinateField(g, axis)
	lo, hi := isocontour.Range(scalars)
	thresholds := job.Thresholds
	if len(thresholds) == 0 {
		thresholds = isocontour.InteriorLevels(lo, hi, job.Levels)
	}
	log.Debug("thresholds", slog.Any("values", thresholds), slog.Float64("min", lo), slog.Float64("max", hi))

	reg, err := job.registry()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(job.Out, 0o755); err != nil {
		return err
	}
	c, err := isocontour.NewContourer(g)
	if err != nil {
		return err
	}

	var lines *isocontour.LinesResult
	if job.lines() {
		opts := isocontour.LineOptions{LUT: job.LUT, Registry: reg}
		if job.LineColor != "" {
			opts.Color = colorSpec(job.LineColor)
		}
		lines, err = c.Lines(scalars, thresholds, opts)
		if err != nil {
			return err
		}
		log.Info("traced lines", slog.Int("segments", lines.SegmentCount()), slog.Any("per_threshold", lines.Counts))
		if err := writeLines(job, lines, proj); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if job.filled() {
		bands, err := c.Filled(scalars, thresholds, isocontour.FilledOptions{
			LUT:      job.LUT,
			NbColors: job.Colors,
			Registry: reg,
			Workers:  job.Workers,
		})
		if err != nil {
			return err
		}
		log.Info("filled bands", slog.Int("vertices", bands.VertexCount()), slog.Int("triangles", bands.TriangleCount()))
		if bands.TriangleCount() == 0 {
			log.Warn("no bands to write")
		} else if err := writeBands(ctx, log, job, bands, lines, proj); err != nil {
			return err
		}
	}
	log.Info("done", slog.String("out", job.Out), slog.Duration("elapsed", time.Since(start)))
	return nil
}

func loadMesh(log *slog.Logger, job Job) (*mesh.Geometry, error) {
	var soup []ms3.Triangle
	switch {
	case job.STL != "":
		f, err := os.Open(job.STL)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		soup, err = render.ReadSTL(f)
		if errors.Is(err, render.ErrSTLSuspect) {
			log.Warn("suspect STL data", slog.String("path", job.STL), slog.String("err", err.Error()))
		} else if err != nil {
			return nil, fmt.Errorf("%s: %w", job.STL, err)
		}
	case job.Shape == shapeUVSphere:
		return mesh.UVSphere(float32(job.Size/2), 48, 24)
	default:
		var err error
		soup, err = shapes.Tessellate(job.Shape, job.Size, job.Cells)
		if err != nil {
			return nil, err
		}
	}
	g, err := mesh.Weld(soup, float32(job.Weld))
	if err != nil {
		return nil, err
	}
	log.Debug("welded", slog.Int("corners", 3*len(soup)), slog.Int("vertices", g.VertexCount()))
	return g, nil
}

// coordinateField returns one position component per vertex.
func coordinateField(g *mesh.Geometry, axis int) []float64 {
	pos := g.Positions()
	field := make([]float64, pos.Count())
	for i := range field {
		field[i] = d3.Component(d3.FromF32(pos.Array[3*i:]), axis)
	}
	return field
}

func writeLines(job Job, lines *isocontour.LinesResult, proj render.Projection) error {
	if lines.SegmentCount() == 0 {
		return nil
	}
	p, err := render.PlotLines(lines.Positions, lines.Color, proj, "isocontour "+job.Axis)
	if err != nil {
		return err
	}
	return render.SavePlot(p, 6*vg.Inch, 6*vg.Inch, filepath.Join(job.Out, linesFile))
}

func writeBands(ctx context.Context, log *slog.Logger, job Job, bands *isocontour.FilledResult, lines *isocontour.LinesResult, proj render.Projection) error {
	r, err := render.NewIndexedRenderer(bands.Position, bands.Index)
	if err != nil {
		return err
	}
	if err := render.CreateSTL(filepath.Join(job.Out, bandsFile), r); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	size := job.ImageSize
	if err := render.SavePreview(filepath.Join(job.Out, previewFile), bands.Position, bands.Index, bands.Color, render.DefaultView, size, size); err != nil {
		return err
	}
	var linePos []float32
	if lines != nil {
		linePos = lines.Positions
	}
	if err := render.TopoPNG(filepath.Join(job.Out, topoFile), bands.Position, bands.Index, bands.Color, linePos, proj, size); err != nil {
		return err
	}
	log.Debug("wrote bands", slog.String("dir", job.Out))
	return nil
}
