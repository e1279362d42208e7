// Package voxel defines the grid-cell set produced by voxelization and the
// derived thin-boundary, interior and complement sets.
package voxel

import "sort"

// Cell is an integer grid coordinate naming the unit square
// [X,X+1) x [Y,Y+1).
type Cell struct {
	X, Y int
}

// Neighbors4 returns the 4-connected neighbors of the cell.
func (c Cell) Neighbors4() [4]Cell {
	return [4]Cell{
		{c.X + 1, c.Y},
		{c.X - 1, c.Y},
		{c.X, c.Y + 1},
		{c.X, c.Y - 1},
	}
}

// Set is a set of cells. A Set is the immutable output of one voxelization
// run; it is replaced, not mutated, on regeneration.
type Set map[Cell]struct{}

// NewSet returns an empty set.
func NewSet() Set {
	return make(Set)
}

// Add inserts a cell.
func (s Set) Add(c Cell) {
	s[c] = struct{}{}
}

// Has reports membership.
func (s Set) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of cells.
func (s Set) Len() int {
	return len(s)
}

// Clone returns a copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Equal reports whether two sets contain the same cells.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// Cells returns the cells sorted by Y then X, for deterministic output.
func (s Set) Cells() []Cell {
	out := make([]Cell, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Bounds returns the smallest cell-aligned box containing the set, as the
// min and max cell coordinates. ok is false for an empty set.
func (s Set) Bounds() (min, max Cell, ok bool) {
	first := true
	for c := range s {
		if first {
			min, max = c, c
			first = false
			continue
		}
		if c.X < min.X {
			min.X = c.X
		}
		if c.Y < min.Y {
			min.Y = c.Y
		}
		if c.X > max.X {
			max.X = c.X
		}
		if c.Y > max.Y {
			max.Y = c.Y
		}
	}
	return min, max, !first
}

// Diameters returns the x and y extents of the bounding box in whole blocks.
// Diameters are preferred over radii since they are always integers.
func (s Set) Diameters() (dx, dy int) {
	min, max, ok := s.Bounds()
	if !ok {
		return 0, 0
	}
	return max.X - min.X + 1, max.Y - min.Y + 1
}

// Boundary2D returns the thin boundary: cells of the set with at least one
// 4-connected neighbor absent.
func Boundary2D(s Set) Set {
	out := NewSet()
	for c := range s {
		for _, n := range c.Neighbors4() {
			if !s.Has(n) {
				out.Add(c)
				break
			}
		}
	}
	return out
}

// Interior returns the cells of the set whose 4-connected neighbors are all
// present. Boundary2D and Interior partition the set.
func Interior(s Set) Set {
	out := NewSet()
	for c := range s {
		inside := true
		for _, n := range c.Neighbors4() {
			if !s.Has(n) {
				inside = false
				break
			}
		}
		if inside {
			out.Add(c)
		}
	}
	return out
}

// Complement returns the cells inside the closed box [min,max] that are not
// in the set. Used for hollowing out interiors.
func Complement(s Set, min, max Cell) Set {
	out := NewSet()
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			c := Cell{x, y}
			if !s.Has(c) {
				out.Add(c)
			}
		}
	}
	return out
}
