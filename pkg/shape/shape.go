// Package shape defines the superellipse ("squircle") model: an offset,
// tilted implicit curve |x/a|^p + |y/b|^p = 1 covering circles, ellipses,
// diamonds (p=1), squares (p=+Inf) and everything in between.
package shape

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/basyniae/voxircle/pkg/geom"
)

// ErrConfiguration wraps invalid shape or heuristic parameters.
// Configuration errors block generation for the affected layer only.
type ErrConfiguration struct {
	Reason string
}

func (e ErrConfiguration) Error() string {
	return "configuration: " + e.Reason
}

// Shape is an immutable superellipse. Construct with New; replace wholesale
// on parameter change.
type Shape struct {
	Center        v2.Vec
	RadiusA       float64 // semi-axis along local x (tilt = 0)
	RadiusB       float64 // semi-axis along local y
	Tilt          float64 // radians, counterclockwise
	SquircleParam float64 // p in the implicit equation; +Inf is the square limit
}

// New validates the parameters and returns a Shape.
func New(center v2.Vec, radiusA, radiusB, tilt, squircleParam float64) (Shape, error) {
	if !(radiusA > 0) || !(radiusB > 0) {
		return Shape{}, ErrConfiguration{Reason: fmt.Sprintf("radii must be positive, got a=%v b=%v", radiusA, radiusB)}
	}
	if math.IsNaN(squircleParam) || squircleParam <= 0 {
		return Shape{}, ErrConfiguration{Reason: fmt.Sprintf("squircle parameter must be positive, got %v", squircleParam)}
	}
	return Shape{
		Center:        center,
		RadiusA:       radiusA,
		RadiusB:       radiusB,
		Tilt:          tilt,
		SquircleParam: squircleParam,
	}, nil
}

// IsCircle reports whether the shape is an untilted circle, the only
// configuration the Percentage heuristic supports.
func (s Shape) IsCircle() bool {
	return s.RadiusA == s.RadiusB && s.Tilt == 0 && s.SquircleParam == 2
}

// SqrtQuadForm returns the matrix M such that a point q lies in the shape
// iff ||M(q - center)||_p <= 1. M is a square root of the positive definite
// quadratic form defining the ellipse: rows (cos t, sin t)/a and
// (-sin t, cos t)/b.
func (s Shape) SqrtQuadForm() geom.Mat2 {
	c := math.Cos(s.Tilt)
	sn := math.Sin(s.Tilt)
	return geom.Mat2{
		R0: v2.Vec{X: c / s.RadiusA, Y: sn / s.RadiusA},
		R1: v2.Vec{X: -sn / s.RadiusB, Y: c / s.RadiusB},
	}
}

// ContainsPoint reports whether p lies in the closed shape region.
// Pure and deterministic. The p = +Inf case is a max-norm test, so large
// exponents never overflow.
func (s Shape) ContainsPoint(p v2.Vec) bool {
	local := s.SqrtQuadForm().MulVec(v2.Vec{X: p.X - s.Center.X, Y: p.Y - s.Center.Y})
	return geom.PNorm(local, s.SquircleParam) <= 1
}

// Bounds returns the exact axis-aligned bounding box of the shape, scaled
// about the center by pad (pad = 1 gives the tight box). Degenerate radii
// fall back to a unit box around the center.
//
// For p > 1 the extreme points are found by tangent-point extremization of
// the transformed squircle; for p <= 1 the squircle lies inside the ellipse,
// whose extremes are the transformed axis unit points; for p = +Inf the
// extremes are the transformed corners of the unit square.
func (s Shape) Bounds(pad float64) (min, max v2.Vec) {
	m := s.SqrtQuadForm()
	inv, ok := m.Inverse()
	if !ok {
		return v2.Vec{X: s.Center.X - 1, Y: s.Center.Y - 1},
			v2.Vec{X: s.Center.X + 1, Y: s.Center.Y + 1}
	}

	var candidates []v2.Vec
	switch {
	case math.IsInf(s.SquircleParam, 1):
		candidates = []v2.Vec{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	case s.SquircleParam > 1:
		candidates = []v2.Vec{
			geom.SquircleTangentPoint(s.SquircleParam, m.MulVec(v2.Vec{X: 1})),
			geom.SquircleTangentPoint(s.SquircleParam, m.MulVec(v2.Vec{Y: 1})),
		}
	default:
		candidates = []v2.Vec{{X: 1}, {Y: 1}}
	}

	var mx, my float64
	for _, c := range candidates {
		w := inv.MulVec(c)
		mx = math.Max(mx, math.Abs(w.X)*pad)
		my = math.Max(my, math.Abs(w.Y)*pad)
	}
	return v2.Vec{X: s.Center.X - mx, Y: s.Center.Y - my},
		v2.Vec{X: s.Center.X + mx, Y: s.Center.Y + my}
}
