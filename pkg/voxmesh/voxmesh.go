// Package voxmesh builds preview meshes from generated block stacks. Each
// block becomes a unit cube on the lattice; a layer at index n occupies the
// vertical slab [n-0.5, n+0.5].
package voxmesh

import (
	"fmt"

	"github.com/basyniae/voxircle/pkg/kernel"
	"github.com/basyniae/voxircle/pkg/stack"
	"github.com/basyniae/voxircle/pkg/voxel"
)

// Builder meshes block sets through a geometry kernel.
type Builder struct {
	k kernel.Kernel
}

// New returns a Builder backed by the given kernel.
func New(k kernel.Kernel) *Builder {
	return &Builder{k: k}
}

// LayerMesh meshes the blocks of a single layer at index layer. An empty
// set yields an empty mesh.
func (b *Builder) LayerMesh(s voxel.Set, layer int) (*kernel.Mesh, error) {
	solid := b.layerSolid(s, layer)
	if solid == nil {
		return &kernel.Mesh{Name: layerName(layer)}, nil
	}
	m, err := b.k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("mesh layer %d: %w", layer, err)
	}
	m.Name = layerName(layer)
	return m, nil
}

// StackMesh meshes the whole stack's visible surface: only blocks with an
// exposed face are included, so fully enclosed interior blocks never reach
// the kernel. The floating flags are those of Stack.Boundary3D.
func (b *Builder) StackMesh(st *stack.Stack, floatingBottom, floatingTop bool) (*kernel.Mesh, error) {
	boundary := st.Boundary3D(floatingBottom, floatingTop)
	min, max := st.Bounds()

	var solids []kernel.Solid
	for i := min; i <= max; i++ {
		if s := b.layerSolid(boundary[i], i); s != nil {
			solids = append(solids, s)
		}
	}
	if len(solids) == 0 {
		return &kernel.Mesh{Name: "stack"}, nil
	}

	m, err := b.k.ToMesh(b.k.Union(solids...))
	if err != nil {
		return nil, fmt.Errorf("mesh stack: %w", err)
	}
	m.Name = "stack"
	return m, nil
}

// layerSolid unions a layer's blocks into one solid, or nil for an empty
// set. Blocks are placed in the sorted cell order for determinism.
func (b *Builder) layerSolid(s voxel.Set, layer int) kernel.Solid {
	cells := s.Cells()
	if len(cells) == 0 {
		return nil
	}
	z := float64(layer) - 0.5
	solids := make([]kernel.Solid, len(cells))
	for i, c := range cells {
		solids[i] = b.k.Translate(b.k.Box(1, 1, 1), float64(c.X), float64(c.Y), z)
	}
	return b.k.Union(solids...)
}

func layerName(layer int) string {
	return fmt.Sprintf("layer %d", layer)
}
