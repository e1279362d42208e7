package metrics

import (
	"sort"

	"github.com/basyniae/voxircle/pkg/voxel"
)

// OuterCorners returns the lattice points that are a corner of exactly one
// block of the set. The convex hull of the set depends only on these points,
// so they are a large reduction for hull computation.
func OuterCorners(s voxel.Set) [][2]float64 {
	counts := make(map[voxel.Cell]int)
	for c := range s {
		// A cell contributes to the four lattice points around it; name a
		// lattice point by the cell having it as lower-left corner.
		counts[voxel.Cell{X: c.X, Y: c.Y}]++
		counts[voxel.Cell{X: c.X + 1, Y: c.Y}]++
		counts[voxel.Cell{X: c.X, Y: c.Y + 1}]++
		counts[voxel.Cell{X: c.X + 1, Y: c.Y + 1}]++
	}
	out := make([][2]float64, 0)
	for p, n := range counts {
		if n == 1 {
			out = append(out, [2]float64{float64(p.X), float64(p.Y)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// ConvexHull returns the convex hull of the points in counterclockwise
// order, via the Andrew monotone chain. Input need not be sorted; collinear
// points on the hull are dropped.
func ConvexHull(points [][2]float64) [][2]float64 {
	if len(points) <= 2 {
		out := make([][2]float64, len(points))
		copy(out, points)
		return out
	}
	pts := make([][2]float64, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	cross := func(o, a, b [2]float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	var lower [][2]float64
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper [][2]float64
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}
