// Package shapes tessellates signed distance primitives into triangle soups
// used as test and demo inputs.
package shapes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/glgl/math/ms3"
)

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 48

var builders = map[string]func(size float64) (sdf.SDF3, error){
	"sphere": func(size float64) (sdf.SDF3, error) {
		return sdf.Sphere3D(size / 2)
	},
	"box": func(size float64) (sdf.SDF3, error) {
		return sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, size/8)
	},
	"cylinder": func(size float64) (sdf.SDF3, error) {
		return sdf.Cylinder3D(size, size/3, size/16)
	},
	"pill": func(size float64) (sdf.SDF3, error) {
		body, err := sdf.Cylinder3D(size/2, size/4, 0)
		if err != nil {
			return nil, err
		}
		top, err := sdf.Sphere3D(size / 4)
		if err != nil {
			return nil, err
		}
		bottom := sdf.Transform3D(top, sdf.Translate3d(v3.Vec{Z: -size / 4}))
		top = sdf.Transform3D(top, sdf.Translate3d(v3.Vec{Z: size / 4}))
		return sdf.Union3D(body, top, bottom), nil
	},
}

// Names returns the available shape names.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tessellate renders the named shape, sized to fit a cube of side size, with
// a uniform marching cubes grid of the given number of cells.
func Tessellate(name string, size float64, cells int) ([]ms3.Triangle, error) {
	build, ok := builders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown shape %q, want one of %v", name, Names())
	}
	if size <= 0 {
		return nil, fmt.Errorf("shape size must be positive, got %g", size)
	}
	if cells <= 0 {
		cells = DefaultCells
	}
	s, err := build(size)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", name, err)
	}
	return FromSDF(s, cells), nil
}

// FromSDF tessellates s with marching cubes.
func FromSDF(s sdf.SDF3, cells int) []ms3.Triangle {
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	out := make([]ms3.Triangle, len(tris))
	for i, tri := range tris {
		for j := 0; j < 3; j++ {
			v := tri[j]
			out[i][j] = ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
		}
	}
	return out
}
