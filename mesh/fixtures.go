package mesh

import (
	"errors"
	"fmt"
	"math"
)

// UVSphere returns a closed indexed sphere centered at the origin with
// widthSegments columns and heightSegments rows. Each pole is a single vertex
// and the longitude seam is shared, so every edge borders exactly two
// triangles. Triangles wind counter-clockwise seen from outside.
func UVSphere(radius float32, widthSegments, heightSegments int) (*Geometry, error) {
	if widthSegments < 3 || heightSegments < 2 {
		return nil, fmt.Errorf("uv sphere needs at least 3x2 segments, got %dx%d", widthSegments, heightSegments)
	}
	if !(radius > 0) {
		return nil, errors.New("uv sphere radius must be positive")
	}
	w, h := widthSegments, heightSegments
	r := float64(radius)
	positions := make([]float32, 0, 3*(2+(h-1)*w))
	positions = append(positions, 0, radius, 0)
	for iy := 1; iy < h; iy++ {
		theta := float64(iy) / float64(h) * math.Pi
		for ix := 0; ix < w; ix++ {
			phi := float64(ix) / float64(w) * 2 * math.Pi
			positions = append(positions,
				float32(-r*math.Cos(phi)*math.Sin(theta)),
				float32(r*math.Cos(theta)),
				float32(r*math.Sin(phi)*math.Sin(theta)),
			)
		}
	}
	bottom := uint32(1 + (h-1)*w)
	positions = append(positions, 0, -radius, 0)

	// vertex returns the index of grid point (ix, iy) with poles collapsed.
	vertex := func(ix, iy int) uint32 {
		switch iy {
		case 0:
			return 0
		case h:
			return bottom
		}
		return uint32(1 + (iy-1)*w + ix%w)
	}
	index := make([]uint32, 0, 6*w*(h-1))
	for iy := 0; iy < h; iy++ {
		for ix := 0; ix < w; ix++ {
			a := vertex(ix+1, iy)
			b := vertex(ix, iy)
			c := vertex(ix, iy+1)
			d := vertex(ix+1, iy+1)
			if iy != 0 {
				index = append(index, a, b, d)
			}
			if iy != h-1 {
				index = append(index, b, c, d)
			}
		}
	}
	return New(positions, index)
}

// Heightfield returns a terrain mesh over a nx by ny grid of heights laid out
// row major. Grid point (x, y) sits at (x*cell, y*cell, height). Every cell
// gets an extra center vertex at the mean height of its corners and is split
// into four triangles facing +Z.
func Heightfield(nx, ny int, heights []float64, cell float32) (*Geometry, error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("heightfield needs at least 2x2 samples, got %dx%d", nx, ny)
	}
	if len(heights) != nx*ny {
		return nil, fmt.Errorf("heightfield: got %d heights for %dx%d grid", len(heights), nx, ny)
	}
	positions := make([]float32, 0, 3*(nx*ny+(nx-1)*(ny-1)))
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			positions = append(positions, float32(x)*cell, float32(y)*cell, float32(heights[y*nx+x]))
		}
	}
	index := make([]uint32, 0, 12*(nx-1)*(ny-1))
	center := uint32(nx * ny)
	for y := 0; y < ny-1; y++ {
		for x := 0; x < nx-1; x++ {
			i0 := uint32(y*nx + x)
			i1 := i0 + 1
			i2 := i0 + uint32(nx)
			i3 := i2 + 1
			z := (heights[i0] + heights[i1] + heights[i2] + heights[i3]) / 4
			positions = append(positions, (float32(x)+0.5)*cell, (float32(y)+0.5)*cell, float32(z))
			index = append(index,
				i0, i1, center,
				i1, i3, center,
				i3, i2, center,
				i2, i0, center,
			)
			center++
		}
	}
	return New(positions, index)
}
