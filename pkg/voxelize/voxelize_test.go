package voxelize

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/basyniae/voxircle/pkg/shape"
	"github.com/basyniae/voxircle/pkg/voxel"
)

func mustShape(t *testing.T, center v2.Vec, a, b, tilt, p float64) shape.Shape {
	t.Helper()
	s, err := shape.New(center, a, b, tilt, p)
	if err != nil {
		t.Fatalf("shape.New: %v", err)
	}
	return s
}

func mustVoxelize(t *testing.T, s shape.Shape, h Heuristic) voxel.Set {
	t.Helper()
	set, err := Voxelize(s, h)
	if err != nil {
		t.Fatalf("Voxelize(%s): %v", h.Kind, err)
	}
	return set
}

func TestCenterpointCircle(t *testing.T) {
	// Radius-5 circle at the origin: blocks whose center lies within
	// distance 5. Centers sit on half-integer coordinates; counting the
	// quadrant pairs gives 80.
	s := mustShape(t, v2.Vec{}, 5, 5, 0, 2)
	set := mustVoxelize(t, s, Centerpoint())
	if set.Len() != 80 {
		t.Errorf("block count = %d, want 80", set.Len())
	}

	// Every included block's center is inside; every excluded neighbor of
	// an included block has its center outside.
	for c := range set {
		center := v2.Vec{X: float64(c.X) + 0.5, Y: float64(c.Y) + 0.5}
		if !s.ContainsPoint(center) {
			t.Fatalf("block %v center %v outside shape", c, center)
		}
	}
}

func TestConservativeCircle(t *testing.T) {
	// Radius-2.5 circle at the origin: every block touching the disk. The
	// 6x6 candidate square minus the four corner blocks, whose nearest
	// points sit at distance sqrt(8) > 2.5. Derived by hand, kept as the
	// regression fixture.
	want := voxel.NewSet()
	for _, c := range [][2]int{
		{-2, -3}, {-1, -3}, {0, -3}, {1, -3},
		{-3, -2}, {-2, -2}, {-1, -2}, {0, -2}, {1, -2}, {2, -2},
		{-3, -1}, {-2, -1}, {-1, -1}, {0, -1}, {1, -1}, {2, -1},
		{-3, 0}, {-2, 0}, {-1, 0}, {0, 0}, {1, 0}, {2, 0},
		{-3, 1}, {-2, 1}, {-1, 1}, {0, 1}, {1, 1}, {2, 1},
		{-2, 2}, {-1, 2}, {0, 2}, {1, 2},
	} {
		want.Add(voxel.Cell{X: c[0], Y: c[1]})
	}
	if want.Len() != 32 {
		t.Fatalf("fixture has %d cells, want 32", want.Len())
	}

	s := mustShape(t, v2.Vec{}, 2.5, 2.5, 0, 2)
	set := mustVoxelize(t, s, Conservative())
	if !set.Equal(want) {
		t.Errorf("conservative set (%d blocks) differs from the fixture (%d blocks):\ngot  %v\nwant %v",
			set.Len(), want.Len(), set.Cells(), want.Cells())
	}
}

func TestContainedCircle(t *testing.T) {
	// Radius-2.5 circle: a block is kept iff its farthest corner is within
	// 2.5. Per-axis farthest distances 1, 1, 2, 2 with the (2,2) combos
	// excluded leaves 12.
	s := mustShape(t, v2.Vec{}, 2.5, 2.5, 0, 2)
	set := mustVoxelize(t, s, Contained())
	if set.Len() != 12 {
		t.Errorf("block count = %d, want 12", set.Len())
	}
}

func TestSquareLimitCounts(t *testing.T) {
	// p = +Inf, radius 2: the square [-2,2]^2.
	s := mustShape(t, v2.Vec{}, 2, 2, 0, math.Inf(1))

	cases := []struct {
		h    Heuristic
		want int
	}{
		{Centerpoint(), 16},  // centers within the square
		{Conservative(), 36}, // touching blocks included
		{Contained(), 16},    // closed containment includes rim corners
	}
	for _, tc := range cases {
		set := mustVoxelize(t, s, tc.h)
		if set.Len() != tc.want {
			t.Errorf("%s: block count = %d, want %d", tc.h.Kind, set.Len(), tc.want)
		}
	}
}

func TestHeuristicNesting(t *testing.T) {
	shapes := []shape.Shape{
		mustShape(t, v2.Vec{}, 2.5, 2.5, 0, 2),
		mustShape(t, v2.Vec{X: 0.3, Y: -0.7}, 3, 2, 0.5, 2),
		mustShape(t, v2.Vec{}, 3, 3, 0, 4),
		mustShape(t, v2.Vec{}, 2, 3, 0.2, 1),
		mustShape(t, v2.Vec{}, 3, 3, 0.4, math.Inf(1)),
	}
	for _, s := range shapes {
		contained := mustVoxelize(t, s, Contained())
		center := mustVoxelize(t, s, Centerpoint())
		conservative := mustVoxelize(t, s, Conservative())

		for c := range contained {
			if !center.Has(c) {
				t.Fatalf("shape %+v: contained block %v missing from centerpoint", s, c)
			}
		}
		for c := range center {
			if !conservative.Has(c) {
				t.Fatalf("shape %+v: centerpoint block %v missing from conservative", s, c)
			}
		}
	}
}

func TestPercentageCircle(t *testing.T) {
	s := mustShape(t, v2.Vec{}, 2.5, 2.5, 0, 2)

	// A tiny threshold keeps every block with positive covered area; for
	// this circle that is exactly the conservative set.
	tiny := mustVoxelize(t, s, Percentage(1e-9))
	if tiny.Len() != 32 {
		t.Errorf("tiny threshold count = %d, want 32", tiny.Len())
	}

	// A near-1 threshold keeps only fully covered blocks: the contained set.
	full := mustVoxelize(t, s, Percentage(0.999))
	if full.Len() != 12 {
		t.Errorf("near-1 threshold count = %d, want 12", full.Len())
	}

	// Thresholds nest.
	half := mustVoxelize(t, s, Percentage(0.5))
	for c := range full {
		if !half.Has(c) {
			t.Fatalf("block %v in 0.999 set but not 0.5 set", c)
		}
	}
	for c := range half {
		if !tiny.Has(c) {
			t.Fatalf("block %v in 0.5 set but not tiny set", c)
		}
	}
}

func TestPercentageValidation(t *testing.T) {
	circle := mustShape(t, v2.Vec{}, 2.5, 2.5, 0, 2)
	cases := []struct {
		name string
		s    shape.Shape
		h    Heuristic
	}{
		{"zero threshold", circle, Percentage(0)},
		{"threshold above one", circle, Percentage(1.5)},
		{"ellipse", mustShape(t, v2.Vec{}, 2, 3, 0, 2), Percentage(0.5)},
		{"tilted circle", mustShape(t, v2.Vec{}, 2, 2, 0.3, 2), Percentage(0.5)},
		{"squircle", mustShape(t, v2.Vec{}, 2, 2, 0, 4), Percentage(0.5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Voxelize(tc.s, tc.h); err == nil {
				t.Error("expected a configuration error")
			}
		})
	}

	// An offset untilted circle is still a circle.
	offset := mustShape(t, v2.Vec{X: 1.3, Y: -0.4}, 2, 2, 0, 2)
	if _, err := Voxelize(offset, Percentage(0.5)); err != nil {
		t.Errorf("offset circle rejected: %v", err)
	}
}

// rotate90 maps a block set to its image under a quarter turn about the
// origin of the lattice.
func rotate90(s voxel.Set) voxel.Set {
	out := voxel.NewSet()
	for c := range s {
		out.Add(voxel.Cell{X: -c.Y - 1, Y: c.X})
	}
	return out
}

func TestQuarterTurnSymmetry(t *testing.T) {
	// Origin-centered circles produce grid-symmetric block sets under
	// every heuristic.
	s := mustShape(t, v2.Vec{}, 2.5, 2.5, 0, 2)
	for _, h := range []Heuristic{Centerpoint(), Conservative(), Contained(), Percentage(0.5)} {
		set := mustVoxelize(t, s, h)
		if !set.Equal(rotate90(set)) {
			t.Errorf("%s: set not symmetric under quarter turn", h.Kind)
		}
	}
}

func TestOffsetTranslationInvariance(t *testing.T) {
	// Shifting the center by whole blocks shifts the output by the same
	// amount.
	base := mustShape(t, v2.Vec{}, 2.5, 1.5, 0.3, 3)
	shifted := mustShape(t, v2.Vec{X: 4, Y: -2}, 2.5, 1.5, 0.3, 3)

	for _, h := range []Heuristic{Centerpoint(), Conservative(), Contained()} {
		a := mustVoxelize(t, base, h)
		b := mustVoxelize(t, shifted, h)
		if a.Len() != b.Len() {
			t.Fatalf("%s: counts differ: %d vs %d", h.Kind, a.Len(), b.Len())
		}
		for c := range a {
			if !b.Has(voxel.Cell{X: c.X + 4, Y: c.Y - 2}) {
				t.Fatalf("%s: block %v has no shifted counterpart", h.Kind, c)
			}
		}
	}
}

func TestTinyShapeStillGenerates(t *testing.T) {
	// A shape smaller than one block must still produce at least one block
	// under conservative generation.
	s := mustShape(t, v2.Vec{X: 0.5, Y: 0.5}, 0.1, 0.1, 0, 2)
	set := mustVoxelize(t, s, Conservative())
	if set.Len() == 0 {
		t.Error("conservative generation of a tiny shape is empty")
	}
	if !set.Has(voxel.Cell{X: 0, Y: 0}) {
		t.Errorf("expected the block containing the shape, got %v", set.Cells())
	}
}

func TestKindString(t *testing.T) {
	names := map[Kind]string{
		KindCenterpoint:  "centerpoint",
		KindConservative: "conservative",
		KindContained:    "contained",
		KindPercentage:   "percentage",
	}
	for k, want := range names {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
