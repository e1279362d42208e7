// Package kernel defines the abstract geometry kernel used to turn block
// sets into preview meshes. The kernel abstraction allows swapping the
// meshing backend without changing the rest of the system.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box creates a box with the given dimensions, minimum corner at the
	// origin so that lattice placement translations work directly.
	Box(x, y, z float64) Solid

	// Union returns the union of the given solids. Panics on empty input.
	Union(solids ...Solid) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh converts a solid to a triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}
