package geom

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// orientation classifies an ordered point triple.
type orientation int

const (
	collinear orientation = iota
	clockwise
	counterclockwise
)

func orientTriple(a, b, c v2.Vec) orientation {
	d := (b.Y-a.Y)*(c.X-b.X) - (c.Y-b.Y)*(b.X-a.X)
	switch {
	case d < 0:
		return counterclockwise
	case d > 0:
		return clockwise
	}
	return collinear
}

// intervalsOverlap reports whether two closed intervals, each given by an
// unordered endpoint pair, intersect.
func intervalsOverlap(a0, a1, b0, b1 float64) bool {
	if a0 > a1 {
		a0, a1 = a1, a0
	}
	if b0 > b1 {
		b0, b1 = b1, b0
	}
	return (a0 <= b0 && b0 <= a1) || (a0 <= b1 && b1 <= a1)
}

// SegmentsIntersect reports whether the closed segments [p1,q1] and [p2,q2]
// intersect. Standard orientation test with the collinear special case.
func SegmentsIntersect(p1, q1, p2, q2 v2.Vec) bool {
	if orientTriple(p1, q1, p2) != orientTriple(p1, q1, q2) &&
		orientTriple(p2, q2, p1) != orientTriple(p2, q2, q1) {
		return true
	}
	return orientTriple(p1, q1, p2) == collinear &&
		orientTriple(p1, q1, q2) == collinear &&
		orientTriple(p2, q2, p1) == collinear &&
		orientTriple(p2, q2, q1) == collinear &&
		intervalsOverlap(p1.X, q1.X, p2.X, q2.X) &&
		intervalsOverlap(p1.Y, q1.Y, p2.Y, q2.Y)
}

// RaySegmentIntersect reports whether the ray from origin in direction dir
// (closed at the origin) intersects the closed segment [a,b].
func RaySegmentIntersect(origin, dir, a, b v2.Vec) bool {
	// Solve origin + s*dir = a + u*(b-a) for s >= 0, u in [0,1].
	e := v2.Vec{X: b.X - a.X, Y: b.Y - a.Y}
	w := v2.Vec{X: a.X - origin.X, Y: a.Y - origin.Y}
	denom := dir.X*e.Y - dir.Y*e.X
	if denom == 0 {
		// Parallel. Overlap only if collinear; fall back to interval checks
		// along the ray, extended far past the segment.
		if dir.X*w.Y-dir.Y*w.X != 0 {
			return false
		}
		far := v2.Vec{X: origin.X + 1e12*dir.X, Y: origin.Y + 1e12*dir.Y}
		return SegmentsIntersect(origin, far, a, b)
	}
	s := (w.X*e.Y - w.Y*e.X) / denom
	u := (w.X*dir.Y - w.Y*dir.X) / denom
	return s >= 0 && u >= 0 && u <= 1
}
