// Package voxelize turns a shape into the set of unit grid cells that
// approximate it, under one of four inclusion heuristics.
package voxelize

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/basyniae/voxircle/pkg/geom"
	"github.com/basyniae/voxircle/pkg/shape"
	"github.com/basyniae/voxircle/pkg/voxel"
)

// Kind selects the per-cell inclusion test.
type Kind int

const (
	// KindCenterpoint includes a cell iff its center is in the shape.
	KindCenterpoint Kind = iota
	// KindConservative includes a cell iff it overlaps the shape at all.
	KindConservative
	// KindContained includes a cell iff it lies entirely inside the shape.
	KindContained
	// KindPercentage includes a cell iff the shape covers at least a given
	// fraction of its area. Only defined for untilted circles.
	KindPercentage
)

func (k Kind) String() string {
	switch k {
	case KindCenterpoint:
		return "centerpoint"
	case KindConservative:
		return "conservative"
	case KindContained:
		return "contained"
	case KindPercentage:
		return "percentage"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Heuristic is a Kind plus the Percentage threshold.
type Heuristic struct {
	Kind      Kind
	Threshold float64 // area fraction in (0,1]; Percentage only
}

// Centerpoint returns the centerpoint heuristic.
func Centerpoint() Heuristic { return Heuristic{Kind: KindCenterpoint} }

// Conservative returns the any-overlap heuristic.
func Conservative() Heuristic { return Heuristic{Kind: KindConservative} }

// Contained returns the full-containment heuristic.
func Contained() Heuristic { return Heuristic{Kind: KindContained} }

// Percentage returns the area-fraction heuristic with the given threshold.
func Percentage(threshold float64) Heuristic {
	return Heuristic{Kind: KindPercentage, Threshold: threshold}
}

// boundarySampleCount is the number of points sampled along the shape
// boundary as a safety net for the Conservative heuristic on tilted
// squircles. Fixed so that results are deterministic.
const boundarySampleCount = 256

// Voxelize classifies every cell inside the shape's conservative bounding
// box (one cell of padding) and returns the included cells. Deterministic:
// identical inputs always produce identical sets.
func Voxelize(s shape.Shape, h Heuristic) (voxel.Set, error) {
	if err := validate(s, h); err != nil {
		return nil, err
	}

	min, max := s.Bounds(1)
	x0 := int(math.Floor(min.X)) - 1
	x1 := int(math.Ceil(max.X)) + 1
	y0 := int(math.Floor(min.Y)) - 1
	y1 := int(math.Ceil(max.Y)) + 1

	cls := newClassifier(s, h)
	out := voxel.NewSet()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c := voxel.Cell{X: x, Y: y}
			if cls.include(c) {
				out.Add(c)
			}
		}
	}
	return out, nil
}

func validate(s shape.Shape, h Heuristic) error {
	if h.Kind != KindPercentage {
		return nil
	}
	if !s.IsCircle() {
		return shape.ErrConfiguration{
			Reason: "percentage heuristic requires an untilted circle (equal radii, zero tilt, squircle parameter 2)",
		}
	}
	if !(h.Threshold > 0) || h.Threshold > 1 {
		return shape.ErrConfiguration{
			Reason: fmt.Sprintf("percentage threshold must be in (0,1], got %v", h.Threshold),
		}
	}
	return nil
}

// classifier caches the per-shape quantities shared by all cells.
type classifier struct {
	shape shape.Shape
	h     Heuristic
	m     geom.Mat2 // sqrt quadratic form
	p     float64

	// extreme points on the unit squircle in transformed space, used by the
	// Conservative chord test and the Contained ray test
	tangentX, tangentY v2.Vec

	// deterministic boundary samples in world space (Conservative net)
	boundary []v2.Vec
}

func newClassifier(s shape.Shape, h Heuristic) *classifier {
	c := &classifier{shape: s, h: h, m: s.SqrtQuadForm(), p: s.SquircleParam}

	if h.Kind == KindConservative || h.Kind == KindContained {
		// The tangent-point formula needs p != 1 and finite; at p = 1 and
		// p = +Inf the axis unit points are the extreme points.
		if c.p != 1 && !math.IsInf(c.p, 1) {
			c.tangentX = geom.SquircleTangentPoint(c.p, c.m.MulVec(v2.Vec{X: 1}))
			c.tangentY = geom.SquircleTangentPoint(c.p, c.m.MulVec(v2.Vec{Y: 1}))
		} else {
			c.tangentX = v2.Vec{X: 1}
			c.tangentY = v2.Vec{Y: 1}
		}
	}
	if h.Kind == KindConservative && !s.IsCircle() {
		c.boundary = sampleBoundary(s)
	}
	return c
}

// cellFrame holds a cell's corners both in world space (relative to the
// shape center) and transformed to unit-squircle space.
type cellFrame struct {
	lb, rb, lt, rt     v2.Vec // world, center-relative
	mlb, mrb, mlt, mrt v2.Vec // transformed
}

func (cls *classifier) frame(c voxel.Cell) cellFrame {
	lb := v2.Vec{X: float64(c.X) - cls.shape.Center.X, Y: float64(c.Y) - cls.shape.Center.Y}
	rb := v2.Vec{X: lb.X + 1, Y: lb.Y}
	lt := v2.Vec{X: lb.X, Y: lb.Y + 1}
	rt := v2.Vec{X: lb.X + 1, Y: lb.Y + 1}
	return cellFrame{
		lb: lb, rb: rb, lt: lt, rt: rt,
		mlb: cls.m.MulVec(lb), mrb: cls.m.MulVec(rb),
		mlt: cls.m.MulVec(lt), mrt: cls.m.MulVec(rt),
	}
}

func (f cellFrame) mCorners() [4]v2.Vec {
	return [4]v2.Vec{f.mlb, f.mrb, f.mrt, f.mlt}
}

// mEdges returns the transformed cell edges in cyclic order.
func (f cellFrame) mEdges() [4][2]v2.Vec {
	return [4][2]v2.Vec{
		{f.mlb, f.mrb}, {f.mrb, f.mrt}, {f.mrt, f.mlt}, {f.mlt, f.mlb},
	}
}

func (cls *classifier) include(c voxel.Cell) bool {
	switch cls.h.Kind {
	case KindCenterpoint:
		center := v2.Vec{X: float64(c.X) + 0.5, Y: float64(c.Y) + 0.5}
		return cls.shape.ContainsPoint(center)
	case KindConservative:
		return cls.overlaps(c)
	case KindContained:
		return cls.contained(c)
	case KindPercentage:
		return cls.coverage(c) >= cls.h.Threshold
	}
	return false
}

// overlaps implements the Conservative test: any true geometric overlap must
// be detected. Untilted circles use the exact nearest-point distance test.
// General squircles use corner containment, center-in-cell, the extremal
// chord test and dense boundary sampling; exact for circles, a close
// conservative approximation otherwise.
func (cls *classifier) overlaps(c voxel.Cell) bool {
	s := cls.shape
	if s.IsCircle() {
		// Distance from the circle center to the nearest point of the cell.
		nx := clamp(s.Center.X, float64(c.X), float64(c.X)+1)
		ny := clamp(s.Center.Y, float64(c.Y), float64(c.Y)+1)
		dx := s.Center.X - nx
		dy := s.Center.Y - ny
		return dx*dx+dy*dy <= s.RadiusA*s.RadiusA
	}

	f := cls.frame(c)
	for _, m := range f.mCorners() {
		if geom.PNorm(m, cls.p) <= 1 {
			return true
		}
	}
	// Shape center inside the cell.
	if f.lb.X <= 0 && f.lb.Y <= 0 && f.rt.X >= 0 && f.rt.Y >= 0 {
		return true
	}
	// Extremal chords: the transformed segments through the extreme points
	// of the squircle in the grid axis directions.
	negX := v2.Vec{X: -cls.tangentX.X, Y: -cls.tangentX.Y}
	negY := v2.Vec{X: -cls.tangentY.X, Y: -cls.tangentY.Y}
	for _, e := range f.mEdges() {
		if geom.SegmentsIntersect(negX, cls.tangentX, e[0], e[1]) ||
			geom.SegmentsIntersect(negY, cls.tangentY, e[0], e[1]) {
			return true
		}
	}
	// Sampled boundary points falling inside the cell.
	for _, b := range cls.boundary {
		if b.X >= float64(c.X) && b.X <= float64(c.X)+1 &&
			b.Y >= float64(c.Y) && b.Y <= float64(c.Y)+1 {
			return true
		}
	}
	return false
}

// contained reports whether the cell lies entirely inside the shape. All
// four corners must be inside; for p < 1 the squircle is concave, so the
// cell must additionally avoid the four rays along which the curve pokes
// inward past the corner test.
func (cls *classifier) contained(c voxel.Cell) bool {
	f := cls.frame(c)
	for _, m := range f.mCorners() {
		if geom.PNorm(m, cls.p) > 1 {
			return false
		}
	}
	if cls.p >= 1 {
		// Convex: corner containment is sufficient.
		return true
	}
	rays := [4]v2.Vec{
		cls.tangentX,
		{X: -cls.tangentX.X, Y: -cls.tangentX.Y},
		cls.tangentY,
		{X: -cls.tangentY.X, Y: -cls.tangentY.Y},
	}
	for _, r := range rays {
		for _, e := range f.mEdges() {
			if geom.RaySegmentIntersect(r, r, e[0], e[1]) {
				return false
			}
		}
	}
	return true
}

// coverage returns the exact intersection area of the (untilted) circle
// with the cell; closed form, tolerance well under 1e-9.
func (cls *classifier) coverage(c voxel.Cell) float64 {
	s := cls.shape
	return geom.CircleRectArea(s.RadiusA,
		float64(c.X)-s.Center.X, float64(c.X)+1-s.Center.X,
		float64(c.Y)-s.Center.Y, float64(c.Y)+1-s.Center.Y)
}

// sampleBoundary returns evenly parameterized points of the shape boundary
// in world coordinates.
func sampleBoundary(s shape.Shape) []v2.Vec {
	inv, ok := s.SqrtQuadForm().Inverse()
	if !ok {
		return nil
	}
	p := s.SquircleParam
	out := make([]v2.Vec, 0, boundarySampleCount)
	for i := 0; i < boundarySampleCount; i++ {
		theta := 2 * math.Pi * float64(i) / boundarySampleCount
		ct, st := math.Cos(theta), math.Sin(theta)
		var u v2.Vec
		if math.IsInf(p, 1) {
			// Unit square boundary: scale the direction onto the max-norm ball.
			d := math.Max(math.Abs(ct), math.Abs(st))
			u = v2.Vec{X: ct / d, Y: st / d}
		} else {
			u = v2.Vec{
				X: math.Copysign(math.Pow(math.Abs(ct), 2/p), ct),
				Y: math.Copysign(math.Pow(math.Abs(st), 2/p), st),
			}
		}
		w := inv.MulVec(u)
		out = append(out, v2.Vec{X: w.X + s.Center.X, Y: w.Y + s.Center.Y})
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
