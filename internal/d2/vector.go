package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func Elem(sides float64) r2.Vec {
	return r2.Vec{
		X: sides,
		Y: sides,
	}
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// Projection drops one axis of a 3d point to map it onto a plane.
type Projection int

const (
	// ProjectXY looks down the Z axis.
	ProjectXY Projection = iota
	// ProjectXZ looks down the Y axis.
	ProjectXZ
	// ProjectYZ looks down the X axis.
	ProjectYZ
)

// Project maps a 3d point onto the projection plane.
func (p Projection) Project(v r3.Vec) r2.Vec {
	switch p {
	case ProjectXY:
		return r2.Vec{X: v.X, Y: v.Y}
	case ProjectXZ:
		return r2.Vec{X: v.X, Y: v.Z}
	case ProjectYZ:
		return r2.Vec{X: v.Y, Y: v.Z}
	}
	panic("bad projection")
}

func (p Projection) String() string {
	switch p {
	case ProjectXY:
		return "xy"
	case ProjectXZ:
		return "xz"
	case ProjectYZ:
		return "yz"
	}
	return "projection(?)"
}
