// Package metrics derives display statistics from voxel sets: block counts
// in the stacks-of-64 convention, block diameters, outer corners, convex
// hull and symmetry classification.
package metrics

import (
	"fmt"

	"github.com/basyniae/voxircle/pkg/voxel"
)

// BlocksPerStack is the display unit for large block counts.
const BlocksPerStack = 64

// Summary bundles the statistics of one voxel set.
type Summary struct {
	Count         int          `json:"count"`
	BoundaryCount int          `json:"boundaryCount"`
	InteriorCount int          `json:"interiorCount"`
	DiameterX     int          `json:"diameterX"`
	DiameterY     int          `json:"diameterY"`
	CountText     string       `json:"countText"`
	DiameterText  string       `json:"diameterText"`
	Symmetry      SymmetryType `json:"symmetry"`
}

// Summarize computes the Summary of a set.
func Summarize(s voxel.Set) Summary {
	dx, dy := s.Diameters()
	return Summary{
		Count:         s.Len(),
		BoundaryCount: voxel.Boundary2D(s).Len(),
		InteriorCount: voxel.Interior(s).Len(),
		DiameterX:     dx,
		DiameterY:     dy,
		CountText:     FormatBlockCount(s.Len()),
		DiameterText:  FormatBlockDiameter(dx, dy),
		Symmetry:      SymmetryOf(s),
	}
}

// FormatBlockCount renders a block count, adding the stacks-and-remainder
// form above one stack: 80 blocks render as "80 = 1s16".
func FormatBlockCount(n int) string {
	if n <= BlocksPerStack {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%d = %ds%d", n, n/BlocksPerStack, n%BlocksPerStack)
}

// FormatBlockDiameter renders the bounding-box extents of a set.
func FormatBlockDiameter(dx, dy int) string {
	if dx == dy {
		return fmt.Sprintf("block diameter: %d", dx)
	}
	return fmt.Sprintf("block diameters: %dx by %dy", dx, dy)
}
