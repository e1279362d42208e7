package geom

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMat2MulVec(t *testing.T) {
	m := Mat2{R0: v2.Vec{X: 1, Y: 2}, R1: v2.Vec{X: 3, Y: 4}}
	got := m.MulVec(v2.Vec{X: 5, Y: 6})
	if got.X != 17 || got.Y != 39 {
		t.Errorf("MulVec = %+v, want (17, 39)", got)
	}
}

func TestMat2Inverse(t *testing.T) {
	m := Mat2{R0: v2.Vec{X: 2, Y: 1}, R1: v2.Vec{X: 1, Y: 1}}
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("invertible matrix reported singular")
	}

	// m * inv applied to a test vector gives the vector back.
	v := v2.Vec{X: 3, Y: -7}
	round := m.MulVec(inv.MulVec(v))
	if !near(round.X, v.X, 1e-12) || !near(round.Y, v.Y, 1e-12) {
		t.Errorf("m*inv*v = %+v, want %+v", round, v)
	}

	singular := Mat2{R0: v2.Vec{X: 1, Y: 2}, R1: v2.Vec{X: 2, Y: 4}}
	if _, ok := singular.Inverse(); ok {
		t.Error("singular matrix reported invertible")
	}
}

func TestIdentity(t *testing.T) {
	v := v2.Vec{X: 4, Y: -9}
	if got := Identity().MulVec(v); got != v {
		t.Errorf("identity changed vector: %+v", got)
	}
}

func TestPNorm(t *testing.T) {
	cases := []struct {
		name string
		v    v2.Vec
		p    float64
		want float64
	}{
		{"euclidean 3-4-5", v2.Vec{X: 3, Y: 4}, 2, 5},
		{"taxicab", v2.Vec{X: 3, Y: -4}, 1, 7},
		{"max norm", v2.Vec{X: -3, Y: 4}, math.Inf(1), 4},
		{"p=4 on axis", v2.Vec{X: -2, Y: 0}, 4, 2},
		{"p=0.5 diagonal", v2.Vec{X: 1, Y: 1}, 0.5, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PNorm(tc.v, tc.p); !near(got, tc.want, 1e-12) {
				t.Errorf("PNorm(%+v, %g) = %g, want %g", tc.v, tc.p, got, tc.want)
			}
		})
	}
}

func TestSquircleTangentPointCircle(t *testing.T) {
	// For p = 2 the tangent point against direction (1,1) is where the
	// circle's tangent has slope 1: (1/sqrt2, -1/sqrt2).
	got := SquircleTangentPoint(2, v2.Vec{X: 1, Y: 1})
	want := 1 / math.Sqrt2
	if !near(got.X, want, 1e-12) || !near(got.Y, -want, 1e-12) {
		t.Errorf("tangent point = %+v, want (%g, %g)", got, want, -want)
	}
}

func TestSquircleTangentPointAxisDirections(t *testing.T) {
	// The tangent is horizontal at the bottom of the curve and vertical at
	// its right extreme.
	got := SquircleTangentPoint(4, v2.Vec{X: 1, Y: 0})
	if !near(got.X, 0, 1e-12) || !near(got.Y, -1, 1e-12) {
		t.Errorf("tangent for +x dir = %+v, want (0, -1)", got)
	}
	got = SquircleTangentPoint(4, v2.Vec{X: 0, Y: 1})
	if !near(got.X, 1, 1e-12) || !near(got.Y, 0, 1e-12) {
		t.Errorf("tangent for +y dir = %+v, want (1, 0)", got)
	}
}

func TestSquircleTangentPointOnCurve(t *testing.T) {
	// The returned point must lie on the unit p-squircle for various p.
	dirs := []v2.Vec{{X: 1, Y: 0.5}, {X: -2, Y: 1}, {X: 0.3, Y: -0.9}}
	for _, p := range []float64{1.5, 2, 3, 8} {
		for _, d := range dirs {
			pt := SquircleTangentPoint(p, d)
			if n := PNorm(pt, p); !near(n, 1, 1e-9) {
				t.Errorf("p=%g dir=%+v: point %+v has norm %g", p, d, pt, n)
			}
		}
	}
}

func TestSegmentsIntersect(t *testing.T) {
	cases := []struct {
		name           string
		p1, q1, p2, q2 v2.Vec
		want           bool
	}{
		{"crossing", v2.Vec{X: 0, Y: 0}, v2.Vec{X: 2, Y: 2}, v2.Vec{X: 0, Y: 2}, v2.Vec{X: 2, Y: 0}, true},
		{"disjoint parallel", v2.Vec{X: 0, Y: 0}, v2.Vec{X: 1, Y: 0}, v2.Vec{X: 0, Y: 1}, v2.Vec{X: 1, Y: 1}, false},
		{"touching endpoint", v2.Vec{X: 0, Y: 0}, v2.Vec{X: 1, Y: 1}, v2.Vec{X: 1, Y: 1}, v2.Vec{X: 2, Y: 0}, true},
		{"collinear overlap", v2.Vec{X: 0, Y: 0}, v2.Vec{X: 2, Y: 0}, v2.Vec{X: 1, Y: 0}, v2.Vec{X: 3, Y: 0}, true},
		{"collinear disjoint", v2.Vec{X: 0, Y: 0}, v2.Vec{X: 1, Y: 0}, v2.Vec{X: 2, Y: 0}, v2.Vec{X: 3, Y: 0}, false},
		{"near miss", v2.Vec{X: 0, Y: 0}, v2.Vec{X: 1, Y: 1}, v2.Vec{X: 1.01, Y: 1}, v2.Vec{X: 2, Y: 0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SegmentsIntersect(tc.p1, tc.q1, tc.p2, tc.q2); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRaySegmentIntersect(t *testing.T) {
	origin := v2.Vec{X: 0, Y: 0}
	cases := []struct {
		name string
		dir  v2.Vec
		a, b v2.Vec
		want bool
	}{
		{"ahead", v2.Vec{X: 1, Y: 0}, v2.Vec{X: 2, Y: -1}, v2.Vec{X: 2, Y: 1}, true},
		{"behind", v2.Vec{X: 1, Y: 0}, v2.Vec{X: -2, Y: -1}, v2.Vec{X: -2, Y: 1}, false},
		{"off to the side", v2.Vec{X: 1, Y: 0}, v2.Vec{X: 2, Y: 1}, v2.Vec{X: 2, Y: 3}, false},
		{"diagonal hit", v2.Vec{X: 1, Y: 1}, v2.Vec{X: 0, Y: 2}, v2.Vec{X: 2, Y: 0}, true},
		{"collinear ahead", v2.Vec{X: 1, Y: 0}, v2.Vec{X: 3, Y: 0}, v2.Vec{X: 5, Y: 0}, true},
		{"collinear behind", v2.Vec{X: 1, Y: 0}, v2.Vec{X: -5, Y: 0}, v2.Vec{X: -3, Y: 0}, false},
		{"parallel offset", v2.Vec{X: 1, Y: 0}, v2.Vec{X: 0, Y: 1}, v2.Vec{X: 5, Y: 1}, false},
		{"segment through origin", v2.Vec{X: 0, Y: 1}, v2.Vec{X: -1, Y: 0}, v2.Vec{X: 1, Y: 0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RaySegmentIntersect(origin, tc.dir, tc.a, tc.b); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCircleRectArea(t *testing.T) {
	cases := []struct {
		name           string
		r              float64
		x0, x1, y0, y1 float64
		want           float64
	}{
		{"rect inside circle", 10, -1, 1, -1, 1, 4},
		{"circle inside rect", 1, -5, 5, -5, 5, math.Pi},
		{"quarter disk", 1, 0, 2, 0, 2, math.Pi / 4},
		{"half disk", 1, -2, 2, 0, 2, math.Pi / 2},
		{"disjoint", 1, 2, 3, 2, 3, 0},
		{"reversed bounds", 1, 5, -5, 5, -5, math.Pi},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CircleRectArea(tc.r, tc.x0, tc.x1, tc.y0, tc.y1)
			if !near(got, tc.want, 1e-12) {
				t.Errorf("got %g, want %g", got, tc.want)
			}
		})
	}
}

func TestCircleRectAreaTilesSumToDiskArea(t *testing.T) {
	// Unit cells tiling a box that contains the disk must account for the
	// full disk area.
	r := 2.5
	sum := 0.0
	for x := -4; x < 4; x++ {
		for y := -4; y < 4; y++ {
			sum += CircleRectArea(r, float64(x), float64(x+1), float64(y), float64(y+1))
		}
	}
	if want := math.Pi * r * r; !near(sum, want, 1e-9) {
		t.Errorf("tiled sum = %g, want %g", sum, want)
	}
}
