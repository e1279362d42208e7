// Package geom provides the small amount of planar geometry the voxelizer
// needs: a 2x2 matrix type, p-norms, segment and ray intersection predicates,
// squircle tangent points, and the exact circle/rectangle intersection area.
// Vectors are github.com/deadsy/sdfx vec/v2 values throughout.
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Mat2 is a 2x2 matrix stored as two row vectors.
type Mat2 struct {
	R0, R1 v2.Vec
}

// Identity returns the 2x2 identity matrix.
func Identity() Mat2 {
	return Mat2{R0: v2.Vec{X: 1}, R1: v2.Vec{Y: 1}}
}

// MulVec applies the matrix to a vector.
func (m Mat2) MulVec(v v2.Vec) v2.Vec {
	return v2.Vec{
		X: m.R0.X*v.X + m.R0.Y*v.Y,
		Y: m.R1.X*v.X + m.R1.Y*v.Y,
	}
}

// Det returns the determinant.
func (m Mat2) Det() float64 {
	return m.R0.X*m.R1.Y - m.R0.Y*m.R1.X
}

// Inverse returns the matrix inverse and whether it exists.
func (m Mat2) Inverse() (Mat2, bool) {
	d := m.Det()
	if d == 0 {
		return Mat2{}, false
	}
	return Mat2{
		R0: v2.Vec{X: m.R1.Y / d, Y: -m.R0.Y / d},
		R1: v2.Vec{X: -m.R1.X / d, Y: m.R0.X / d},
	}, true
}

// PNorm returns the p-norm of v. p must be positive; p = +Inf gives the
// max norm. Large finite exponents are evaluated directly, which is fine
// for the unit-ball membership tests this package serves.
func PNorm(v v2.Vec, p float64) float64 {
	switch {
	case math.IsInf(p, 1):
		return math.Max(math.Abs(v.X), math.Abs(v.Y))
	case p == 1:
		return math.Abs(v.X) + math.Abs(v.Y)
	case p == 2:
		return math.Hypot(v.X, v.Y)
	default:
		return math.Pow(math.Pow(math.Abs(v.X), p)+math.Pow(math.Abs(v.Y), p), 1/p)
	}
}

// SquircleTangentPoint returns the point on the unit p-squircle where the
// curve, parameterized counterclockwise, is tangent to the given direction.
// Used to find the extreme points of a transformed squircle for p > 1.
// Derivation: the gradient of ||(x,y)||_p^p must be orthogonal to the
// direction, combined with the normalization ||(x,y)||_p = 1.
func SquircleTangentPoint(p float64, dir v2.Vec) v2.Vec {
	var absX, absY float64
	if dir.X == 0 {
		absY = 0
		absX = 1
	} else {
		absY = math.Pow(1+math.Pow(math.Abs(dir.Y/dir.X), p/(p-1)), -1/p)
		absX = math.Pow(1-math.Pow(absY, p), 1/p)
	}
	// Copysign rather than a three-way sign: a zero component still picks a
	// definite side, matching the counterclockwise parameterization.
	return v2.Vec{
		X: math.Copysign(absX, dir.X),
		Y: -math.Copysign(absY, dir.Y),
	}
}
