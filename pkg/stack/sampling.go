package stack

import (
	"fmt"

	"github.com/basyniae/voxircle/pkg/voxel"
)

// Distribution selects how sampling points spread over a layer's vertical
// extent. A layer at index n spans [n-0.5, n+0.5]; the layer index sits in
// the middle.
type Distribution int

const (
	// DistributeIncludeEndpoints spaces samples so the first and last land
	// on the layer's faces.
	DistributeIncludeEndpoints Distribution = iota
	// DistributeExcludeEndpoints centers samples in equal sub-intervals,
	// keeping them strictly inside the layer.
	DistributeExcludeEndpoints
)

func (d Distribution) String() string {
	switch d {
	case DistributeIncludeEndpoints:
		return "include endpoints"
	case DistributeExcludeEndpoints:
		return "exclude endpoints"
	}
	return fmt.Sprintf("Distribution(%d)", int(d))
}

// CombineMethod selects how the block sets of a layer's samples merge.
type CombineMethod int

const (
	// CombineAll keeps blocks present in every sample.
	CombineAll CombineMethod = iota
	// CombineAny keeps blocks present in at least one sample.
	CombineAny
	// CombinePercentage keeps blocks present in at least the configured
	// fraction of samples.
	CombinePercentage
)

func (m CombineMethod) String() string {
	switch m {
	case CombineAll:
		return "all samples"
	case CombineAny:
		return "any sample"
	case CombinePercentage:
		return "percentage of samples"
	}
	return fmt.Sprintf("CombineMethod(%d)", int(m))
}

// SamplingPoints returns the sample positions of the layer at index i under
// the stack's sampling configuration. A single sample always sits exactly
// on the layer index. When HalfBottom or HalfTop is set, the extreme layers
// only sample the half of their extent facing the rest of the stack.
func (st *Stack) SamplingPoints(i int) []float64 {
	n := st.NrSamples
	if n <= 1 {
		return []float64{float64(i)}
	}

	switch st.Distribute {
	case DistributeExcludeEndpoints:
		step := 1.0 / float64(n)
		start, end := 1, n
		if st.HalfBottom && i == st.minLayer {
			start = n/2 + 1
		}
		if st.HalfTop && i == st.maxLayer {
			end = (n + 1) / 2
		}
		points := make([]float64, 0, end-start+1)
		for s := start; s <= end; s++ {
			points = append(points, float64(i)+step*float64(s)-0.5-0.5*step)
		}
		return points

	default: // DistributeIncludeEndpoints
		step := 1.0 / float64(n-1)
		start, end := 0, n
		if st.HalfBottom && i == st.minLayer {
			start = n / 2
		}
		if st.HalfTop && i == st.maxLayer {
			end = (n + 1) / 2
		}
		points := make([]float64, 0, end-start)
		for s := start; s < end; s++ {
			points = append(points, float64(i)+step*float64(s)-0.5)
		}
		return points
	}
}

// combineSets merges per-sample block sets. An empty input yields an empty
// set; a single set is returned as-is.
func combineSets(m CombineMethod, fraction float64, sets []voxel.Set) voxel.Set {
	if len(sets) == 0 {
		return voxel.NewSet()
	}
	if len(sets) == 1 {
		return sets[0]
	}

	counts := make(map[voxel.Cell]int)
	for _, s := range sets {
		for c := range s {
			counts[c]++
		}
	}

	need := 0
	switch m {
	case CombineAny:
		need = 1
	case CombineAll:
		need = len(sets)
	case CombinePercentage:
		out := voxel.NewSet()
		target := fraction * float64(len(sets))
		for c, n := range counts {
			if float64(n) >= target {
				out.Add(c)
			}
		}
		return out
	}

	out := voxel.NewSet()
	for c, n := range counts {
		if n >= need {
			out.Add(c)
		}
	}
	return out
}
