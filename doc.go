// Package isocontour extracts iso-value contours from a per-vertex scalar
// field defined over a triangle mesh.
//
// [Filled] clips every triangle into stepped color bands between consecutive
// thresholds and returns flat position, index, color and normal buffers ready
// for indexed triangle rendering. [Lines] traces every threshold with the
// Marching Triangles algorithm and returns line segment endpoint pairs.
// A [Contourer] keeps the validated mesh and scratch buffers between calls
// for interactive use.
package isocontour
