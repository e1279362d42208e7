package metrics

import "github.com/basyniae/voxircle/pkg/voxel"

// SymmetryType classifies the symmetries of a voxel set about the center of
// its bounding box.
type SymmetryType int

const (
	NoSymmetry SymmetryType = iota
	ReflectionHorizontal
	ReflectionVertical
	ReflectionDiagonalUp
	ReflectionDiagonalDown
	ReflectionsCardinals
	ReflectionsDiagonals
	ReflectionsAll
	RotationHalf
	RotationQuarter
)

func (t SymmetryType) String() string {
	switch t {
	case NoSymmetry:
		return "no symmetry"
	case ReflectionHorizontal:
		return "horizontal reflection"
	case ReflectionVertical:
		return "vertical reflection"
	case ReflectionDiagonalUp:
		return "up-diagonal reflection"
	case ReflectionDiagonalDown:
		return "down-diagonal reflection"
	case ReflectionsCardinals:
		return "cardinal reflections"
	case ReflectionsDiagonals:
		return "diagonal reflections"
	case ReflectionsAll:
		return "all reflections"
	case RotationHalf:
		return "180° rotation"
	case RotationQuarter:
		return "90° rotation"
	}
	return "unknown"
}

func mapSet(s voxel.Set, f func(voxel.Cell) voxel.Cell) voxel.Set {
	out := voxel.NewSet()
	for c := range s {
		out.Add(f(c))
	}
	return out
}

// flipHorizontal mirrors across the horizontal axis through the bounds center.
func flipHorizontal(s voxel.Set, min, max voxel.Cell) voxel.Set {
	return mapSet(s, func(c voxel.Cell) voxel.Cell {
		return voxel.Cell{X: c.X, Y: min.Y + max.Y - c.Y}
	})
}

// flipVertical mirrors across the vertical axis through the bounds center.
func flipVertical(s voxel.Set, min, max voxel.Cell) voxel.Set {
	return mapSet(s, func(c voxel.Cell) voxel.Cell {
		return voxel.Cell{X: min.X + max.X - c.X, Y: c.Y}
	})
}

// centerAnchor returns the lower-left cell of the 1-, 2- or 4-cell center of
// the bounding box, and whether the diagonal mirrors take cells to cells
// (both diameters must have the same parity for that).
func centerAnchor(s voxel.Set) (anchor voxel.Cell, diagonalsPossible bool) {
	min, max, ok := s.Bounds()
	if !ok {
		return voxel.Cell{}, false
	}
	dx := max.X - min.X + 1
	dy := max.Y - min.Y + 1
	anchor = voxel.Cell{X: min.X + (dx-1)/2, Y: min.Y + (dy-1)/2}
	return anchor, dx%2 == dy%2
}

// flipUpDiagonal mirrors across the 45° up diagonal through the center.
func flipUpDiagonal(s voxel.Set, anchor voxel.Cell) voxel.Set {
	return mapSet(s, func(c voxel.Cell) voxel.Cell {
		return voxel.Cell{X: c.Y + anchor.X - anchor.Y, Y: c.X - anchor.X + anchor.Y}
	})
}

// flipDownDiagonal mirrors across the 45° down diagonal through the center.
// Mirroring lower-left corners across a down diagonal maps a cell's
// lower-left to another cell's upper-right; the -1 terms compensate.
func flipDownDiagonal(s voxel.Set, anchor voxel.Cell, evenCenter bool) voxel.Set {
	m := voxel.Cell{X: anchor.X + 1, Y: anchor.Y}
	if evenCenter {
		m.X = anchor.X + 2
	}
	return mapSet(s, func(c voxel.Cell) voxel.Cell {
		return voxel.Cell{X: -c.Y + m.X + m.Y - 1, Y: -c.X + m.X + m.Y - 1}
	})
}

// SymmetryOf classifies the set's symmetry group.
func SymmetryOf(s voxel.Set) SymmetryType {
	min, max, ok := s.Bounds()
	if !ok {
		return ReflectionsAll // the empty set is as symmetric as it gets
	}
	anchor, diagPossible := centerAnchor(s)
	dx := max.X - min.X + 1
	evenCenter := dx%2 == 0

	h := s.Equal(flipHorizontal(s, min, max))
	v := s.Equal(flipVertical(s, min, max))
	up := diagPossible && s.Equal(flipUpDiagonal(s, anchor))
	down := diagPossible && s.Equal(flipDownDiagonal(s, anchor, evenCenter))

	switch {
	case (h || v) && (up || down):
		return ReflectionsAll
	case h && v:
		return ReflectionsCardinals
	case up && down:
		return ReflectionsDiagonals
	case h:
		return ReflectionHorizontal
	case v:
		return ReflectionVertical
	case up:
		return ReflectionDiagonalUp
	case down:
		return ReflectionDiagonalDown
	}
	// No reflections; check rotations.
	if diagPossible && s.Equal(flipUpDiagonal(flipHorizontal(s, min, max), anchor)) {
		return RotationQuarter
	}
	if s.Equal(flipVertical(flipHorizontal(s, min, max), min, max)) {
		return RotationHalf
	}
	return NoSymmetry
}
