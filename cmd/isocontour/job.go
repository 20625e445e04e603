package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/isocontour/colormap"
	"github.com/soypat/isocontour/internal/shapes"
	"github.com/soypat/isocontour/render"
)

// Output modes.
const (
	modeFilled = "filled"
	modeLines  = "lines"
	modeBoth   = "both"
)

const shapeUVSphere = "uvsphere"

// Job describes one contouring run. It is read from a TOML file and then
// overridden by command line flags.
type Job struct {
	// Shape names a built in solid. Ignored when STL is set.
	Shape string  `toml:"shape"`
	Size  float64 `toml:"size"`
	// Cells is the marching cubes resolution of signed distance shapes.
	Cells int `toml:"cells"`
	// STL is the path of a binary STL mesh to contour.
	STL string `toml:"stl"`
	// Weld is the distance under which triangle soup vertices are merged.
	Weld float64 `toml:"weld"`

	// Axis picks the coordinate used as scalar field: x, y or z.
	Axis string `toml:"axis"`
	// Levels is the number of evenly spaced thresholds inside the field range.
	Levels int `toml:"levels"`
	// Thresholds replaces Levels when not empty.
	Thresholds []float64 `toml:"thresholds"`

	LUT       string `toml:"lut"`
	Colors    int    `toml:"colors"`
	LineColor string `toml:"line_color"`
	// ColorMaps registers extra color tables by name.
	ColorMaps map[string][]StopConfig `toml:"colormaps"`

	Mode    string `toml:"mode"`
	Out     string `toml:"out"`
	Workers int    `toml:"workers"`
	// Projection selects the drawing plane of 2d outputs: xy, xz or yz.
	Projection string `toml:"projection"`
	ImageSize  int    `toml:"image_size"`
}

// StopConfig is a color table stop. Color is a hex string or a color name.
type StopConfig struct {
	Pos   float64 `toml:"pos"`
	Color string  `toml:"color"`
}

// DefaultJob contours a UV sphere along its height.
func DefaultJob() Job {
	return Job{
		Shape:      shapeUVSphere,
		Size:       2,
		Cells:      shapes.DefaultCells,
		Weld:       1e-5,
		Axis:       "z",
		Levels:     8,
		LUT:        colormap.DefaultMap,
		Colors:     colormap.DefaultResolution,
		Mode:       modeBoth,
		Out:        ".",
		Projection: "xz",
		ImageSize:  800,
	}
}

// LoadJob reads a TOML job file over the defaults. Unknown keys are errors.
func LoadJob(path string) (Job, error) {
	job := DefaultJob()
	f, err := os.Open(path)
	if err != nil {
		return job, err
	}
	defer f.Close()
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&job); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return job, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return job, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// Validate checks field values and normalizes names to lower case.
func (j *Job) Validate() error {
	j.Shape = strings.ToLower(j.Shape)
	j.Axis = strings.ToLower(j.Axis)
	j.Mode = strings.ToLower(j.Mode)
	j.Projection = strings.ToLower(j.Projection)
	if j.STL == "" && j.Shape != shapeUVSphere && !slices.Contains(shapes.Names(), j.Shape) {
		return fmt.Errorf("unknown shape %q, want %s or one of %v", j.Shape, shapeUVSphere, shapes.Names())
	}
	if !(j.Size > 0) {
		return fmt.Errorf("size must be positive, got %g", j.Size)
	}
	if j.Weld < 0 {
		return fmt.Errorf("negative weld tolerance %g", j.Weld)
	}
	if _, err := j.axis(); err != nil {
		return err
	}
	if len(j.Thresholds) == 0 && j.Levels <= 0 {
		return errors.New("need thresholds or a positive level count")
	}
	switch j.Mode {
	case modeFilled, modeLines, modeBoth:
	default:
		return fmt.Errorf("unknown mode %q, want %s, %s or %s", j.Mode, modeFilled, modeLines, modeBoth)
	}
	if _, err := j.projection(); err != nil {
		return err
	}
	if j.ImageSize <= 0 {
		return fmt.Errorf("image size must be positive, got %d", j.ImageSize)
	}
	if j.LineColor != "" {
		if _, err := colormap.Resolve(colorSpec(j.LineColor)); err != nil {
			return fmt.Errorf("line color: %w", err)
		}
	}
	return nil
}

func (j *Job) filled() bool { return j.Mode == modeFilled || j.Mode == modeBoth }
func (j *Job) lines() bool  { return j.Mode == modeLines || j.Mode == modeBoth }

func (j *Job) axis() (int, error) {
	switch j.Axis {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return -1, fmt.Errorf("unknown axis %q, want x, y or z", j.Axis)
}

func (j *Job) projection() (render.Projection, error) {
	for _, p := range []render.Projection{render.ProjectXY, render.ProjectXZ, render.ProjectYZ} {
		if p.String() == j.Projection {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown projection %q, want xy, xz or yz", j.Projection)
}

// registry returns the builtin color tables plus the job's own.
func (j *Job) registry() (*colormap.Registry, error) {
	reg := colormap.NewRegistry()
	for name, cfg := range j.ColorMaps {
		stops := make([]colormap.Stop, len(cfg))
		for i, s := range cfg {
			stops[i] = colormap.Stop{Pos: s.Pos, Color: colorSpec(s.Color)}
		}
		if err := reg.Add(name, stops); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// colorSpec reads "#rrggbb" and "0x" prefixed strings as hex, anything
// else as a color name.
func colorSpec(s string) colormap.ColorSpec {
	if strings.HasPrefix(s, "#") || strings.HasPrefix(strings.ToLower(s), "0x") {
		return colormap.Hex(s)
	}
	return colormap.Named(s)
}
