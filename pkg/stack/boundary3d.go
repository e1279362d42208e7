package stack

import (
	"github.com/basyniae/voxircle/pkg/voxel"
)

// Boundary3D computes, per layer, the blocks with at least one exposed face
// when the layers are stacked vertically. A block is exposed laterally when
// a 4-neighbor in its own layer is empty, and vertically when the block
// above or below is empty. Ungenerated layers count as empty.
//
// floatingBottom and floatingTop control the extreme faces of the stack:
// when set, the whole bottom (or top) face is exposed, as for a structure
// floating in air. When unset that face is treated as resting against
// support, so only lateral and interior vertical exposure counts there.
func (st *Stack) Boundary3D(floatingBottom, floatingTop bool) map[int]voxel.Set {
	out := make(map[int]voxel.Set, st.maxLayer-st.minLayer+1)

	for i := st.minLayer; i <= st.maxLayer; i++ {
		s := st.Voxels(i)
		b := voxel.NewSet()

		for c := range s {
			if i == st.minLayer && floatingBottom {
				b.Add(c)
				continue
			}
			if i == st.maxLayer && floatingTop {
				b.Add(c)
				continue
			}

			exposed := false
			for _, n := range c.Neighbors4() {
				if !s.Has(n) {
					exposed = true
					break
				}
			}
			if !exposed && i > st.minLayer && !st.Voxels(i-1).Has(c) {
				exposed = true
			}
			if !exposed && i < st.maxLayer && !st.Voxels(i+1).Has(c) {
				exposed = true
			}
			if exposed {
				b.Add(c)
			}
		}
		out[i] = b
	}
	return out
}
