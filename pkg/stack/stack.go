// Package stack manages a Z-indexed stack of layers, each holding shape
// parameters, a generation heuristic and the voxels generated from them.
// Parameters can be driven per layer by formula fields evaluated over the
// layer index.
package stack

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/basyniae/voxircle/pkg/engine"
	"github.com/basyniae/voxircle/pkg/shape"
	"github.com/basyniae/voxircle/pkg/voxel"
	"github.com/basyniae/voxircle/pkg/voxelize"
)

// Param identifies one of the six shape parameters a formula field can drive.
type Param int

const (
	ParamRadiusA Param = iota
	ParamRadiusB
	ParamTilt
	ParamCenterX
	ParamCenterY
	ParamSquircle

	// NumParams bounds iteration over all parameters.
	NumParams
)

func (p Param) String() string {
	switch p {
	case ParamRadiusA:
		return "radius a"
	case ParamRadiusB:
		return "radius b"
	case ParamTilt:
		return "tilt"
	case ParamCenterX:
		return "center x"
	case ParamCenterY:
		return "center y"
	case ParamSquircle:
		return "squircle parameter"
	}
	return fmt.Sprintf("Param(%d)", int(p))
}

// Params holds the scalar shape configuration of one sample.
type Params struct {
	RadiusA  float64
	RadiusB  float64
	Tilt     float64
	CenterX  float64
	CenterY  float64
	Squircle float64
}

// DefaultParams is a radius-5 circle centered on the origin.
func DefaultParams() Params {
	return Params{RadiusA: 5, RadiusB: 5, Squircle: 2}
}

// Value returns the component selected by which.
func (p Params) Value(which Param) float64 {
	switch which {
	case ParamRadiusA:
		return p.RadiusA
	case ParamRadiusB:
		return p.RadiusB
	case ParamTilt:
		return p.Tilt
	case ParamCenterX:
		return p.CenterX
	case ParamCenterY:
		return p.CenterY
	case ParamSquircle:
		return p.Squircle
	}
	return 0
}

// SetValue assigns the component selected by which.
func (p *Params) SetValue(which Param, v float64) {
	switch which {
	case ParamRadiusA:
		p.RadiusA = v
	case ParamRadiusB:
		p.RadiusB = v
	case ParamTilt:
		p.Tilt = v
	case ParamCenterX:
		p.CenterX = v
	case ParamCenterY:
		p.CenterY = v
	case ParamSquircle:
		p.Squircle = v
	}
}

// Shape builds the superellipse these parameters describe.
func (p Params) Shape() (shape.Shape, error) {
	return shape.New(v2.Vec{X: p.CenterX, Y: p.CenterY}, p.RadiusA, p.RadiusB, p.Tilt, p.Squircle)
}

// Layer is one slice of the stack. Params and Heuristic are the editable
// configuration; voxels caches the last successful generation and survives
// later failed regenerations.
type Layer struct {
	Params    Params
	Heuristic voxelize.Heuristic

	// samples holds the per-sample parameters written by formula fields;
	// nil means the scalar Params apply uniformly.
	samples []Params

	voxels voxel.Set
	genErr error
	dirty  bool
}

// Voxels returns the last successfully generated block set, or nil if this
// layer has never generated.
func (l *Layer) Voxels() voxel.Set { return l.voxels }

// Err returns the error of the last generation attempt, or nil.
func (l *Layer) Err() error { return l.genErr }

// Dirty reports whether the configuration changed since the last generation.
func (l *Layer) Dirty() bool { return l.dirty }

// Samples returns the per-sample parameters, or nil when the scalar
// parameters apply uniformly.
func (l *Layer) Samples() []Params { return l.samples }

// ensureSamples makes the per-sample slice hold n copies of the scalar
// parameters, preserving values already written for matching lengths.
func (l *Layer) ensureSamples(n int) {
	if len(l.samples) == n {
		return
	}
	l.samples = make([]Params, n)
	for i := range l.samples {
		l.samples[i] = l.Params
	}
}

// Stack is the full 3D model: a contiguous range of layers indexed by
// integers, sampling configuration, and one formula field per parameter.
type Stack struct {
	layers   map[int]*Layer
	minLayer int
	maxLayer int
	current  int

	// NrSamples is the number of sampling points per layer.
	NrSamples int
	// Distribute selects how sampling points spread over a layer's extent.
	Distribute Distribution
	// Combine selects how per-sample block sets merge into the layer's set.
	Combine CombineMethod
	// CombineFraction is the threshold for CombinePercentage.
	CombineFraction float64
	// HalfBottom and HalfTop restrict sampling of the extreme layers to the
	// half of their extent facing the stack.
	HalfBottom bool
	HalfTop    bool

	fields map[Param]*engine.Field
}

// New creates a stack with a single layer at index 0 holding the default
// radius-5 circle and the centerpoint heuristic.
func New() *Stack {
	st := &Stack{
		layers: map[int]*Layer{
			0: {Params: DefaultParams(), Heuristic: voxelize.Centerpoint(), dirty: true},
		},
		NrSamples: 1,
		Combine:   CombineAll,
		fields:    make(map[Param]*engine.Field),
	}
	// Radii must stay finite and non-negative; the squircle parameter may
	// be +Inf (the square limit) but not negative; tilt and center offsets
	// are unconstrained reals.
	st.fields[ParamRadiusA] = engine.NewField(true, true)
	st.fields[ParamRadiusB] = engine.NewField(true, true)
	st.fields[ParamSquircle] = engine.NewField(false, true)
	st.fields[ParamTilt] = engine.NewField(true, false)
	st.fields[ParamCenterX] = engine.NewField(true, false)
	st.fields[ParamCenterY] = engine.NewField(true, false)
	return st
}

// Bounds returns the inclusive layer index range.
func (st *Stack) Bounds() (min, max int) { return st.minLayer, st.maxLayer }

// Current returns the selected layer index.
func (st *Stack) Current() int { return st.current }

// Layer returns the layer at index i, or nil when i is out of bounds.
func (st *Stack) Layer(i int) *Layer {
	if i < st.minLayer || i > st.maxLayer {
		return nil
	}
	return st.layers[i]
}

// CurrentLayer returns the selected layer.
func (st *Stack) CurrentLayer() *Layer { return st.layers[st.current] }

// Field returns the formula field for the given parameter.
func (st *Stack) Field(p Param) *engine.Field { return st.fields[p] }

// SetCurrent moves the selection to index i, clamped to one step beyond the
// current bounds. Stepping outside the bounds grows the stack by one layer
// which inherits the configuration of its neighbor. Far jumps are clamped
// rather than ignored, so dragging a layer selector past the edge expands
// the stack one layer per step.
func (st *Stack) SetCurrent(i int) int {
	if i < st.minLayer-1 {
		i = st.minLayer - 1
	}
	if i > st.maxLayer+1 {
		i = st.maxLayer + 1
	}
	if i < st.minLayer {
		st.growDown()
	}
	if i > st.maxLayer {
		st.growUp()
	}
	st.current = i
	return i
}

// SetBounds resizes the layer range. Growing creates layers inheriting from
// the nearest existing neighbor; shrinking narrows the active range but
// keeps layer data so a later re-grow restores it.
func (st *Stack) SetBounds(min, max int) error {
	if min > max {
		return fmt.Errorf("invalid bounds [%d, %d]", min, max)
	}
	if max < 0 || min > 0 {
		return fmt.Errorf("bounds [%d, %d] must contain layer 0", min, max)
	}
	for st.minLayer > min {
		st.growDown()
	}
	for st.maxLayer < max {
		st.growUp()
	}
	st.minLayer = min
	st.maxLayer = max
	if st.current < min {
		st.current = min
	}
	if st.current > max {
		st.current = max
	}
	return nil
}

func (st *Stack) growDown() {
	st.minLayer--
	if _, ok := st.layers[st.minLayer]; !ok {
		st.layers[st.minLayer] = st.inherit(st.minLayer + 1)
	}
}

func (st *Stack) growUp() {
	st.maxLayer++
	if _, ok := st.layers[st.maxLayer]; !ok {
		st.layers[st.maxLayer] = st.inherit(st.maxLayer - 1)
	}
}

// inherit clones the configuration of the layer at from for a new layer.
func (st *Stack) inherit(from int) *Layer {
	src := st.layers[from]
	return &Layer{Params: src.Params, Heuristic: src.Heuristic, dirty: true}
}

// SetParams replaces the scalar parameters of the current layer and clears
// any per-sample values a formula wrote, so manual edits win until the next
// field application.
func (st *Stack) SetParams(p Params) {
	l := st.layers[st.current]
	l.Params = p
	l.samples = nil
	l.dirty = true
}

// SetHeuristic changes the generation heuristic of the current layer.
func (st *Stack) SetHeuristic(h voxelize.Heuristic) {
	l := st.layers[st.current]
	l.Heuristic = h
	l.dirty = true
}

// SetHeuristicAll changes the heuristic of every layer in bounds.
func (st *Stack) SetHeuristicAll(h voxelize.Heuristic) {
	for i := st.minLayer; i <= st.maxLayer; i++ {
		st.layers[i].Heuristic = h
		st.layers[i].dirty = true
	}
}

// SetCode updates the formula of one parameter's field.
func (st *Stack) SetCode(p Param, code string) {
	st.fields[p].SetCode(code)
}

// ApplyFields evaluates every runnable field across all layers in bounds,
// writing per-sample parameter values. Layers where a field fails keep
// their previous value for that parameter and the failure is reported.
// A fatal error (timeout, panic) aborts the remaining fields.
func (st *Stack) ApplyFields() ([]engine.LayerError, error) {
	var all []engine.LayerError
	for p := Param(0); p < NumParams; p++ {
		f := st.fields[p]
		failures, err := f.Apply(st.minLayer, st.maxLayer, st.SamplingPoints, func(layer int, values []float64) {
			l := st.layers[layer]
			l.ensureSamples(len(values))
			for i, v := range values {
				l.samples[i].SetValue(p, v)
			}
			// Mirror the mid-sample into the scalar parameters so direct
			// reads of the layer configuration track the formula.
			l.Params.SetValue(p, values[len(values)/2])
			l.dirty = true
		})
		if err != nil {
			return all, fmt.Errorf("%s: %w", p, err)
		}
		all = append(all, failures...)
	}
	return all, nil
}

// Generate voxelizes the layer at index i: every sample's shape is
// generated with the layer's heuristic and the results are merged with the
// stack's combine method. On failure the layer keeps its previous voxels
// and records the error.
func (st *Stack) Generate(i int) error {
	l := st.Layer(i)
	if l == nil {
		return fmt.Errorf("layer %d out of bounds [%d, %d]", i, st.minLayer, st.maxLayer)
	}

	paramsList := l.samples
	if paramsList == nil {
		paramsList = []Params{l.Params}
	}

	sets := make([]voxel.Set, 0, len(paramsList))
	for _, p := range paramsList {
		sh, err := p.Shape()
		if err != nil {
			l.genErr = err
			return err
		}
		set, err := voxelize.Voxelize(sh, l.Heuristic)
		if err != nil {
			l.genErr = err
			return err
		}
		sets = append(sets, set)
	}

	l.voxels = combineSets(st.Combine, st.CombineFraction, sets)
	l.genErr = nil
	l.dirty = false
	return nil
}

// LayerFailure pairs a layer index with its generation error.
type LayerFailure struct {
	Layer int
	Err   error
}

func (f LayerFailure) Error() string {
	return fmt.Sprintf("layer %d: %v", f.Layer, f.Err)
}

func (f LayerFailure) Unwrap() error { return f.Err }

// RegenerateAll generates every invalidated layer in bounds in increasing
// order. Layers whose configuration is unchanged since their last successful
// generation keep their cached voxels untouched. Failing layers keep their
// previous voxels and stay invalidated; all failures are returned.
func (st *Stack) RegenerateAll() []LayerFailure {
	var failures []LayerFailure
	for i := st.minLayer; i <= st.maxLayer; i++ {
		l := st.layers[i]
		if !l.dirty && l.voxels != nil {
			continue
		}
		if err := st.Generate(i); err != nil {
			failures = append(failures, LayerFailure{Layer: i, Err: err})
		}
	}
	return failures
}

// InvalidateAll marks every layer in bounds for regeneration. Stack-wide
// sampling settings (NrSamples, Distribute, Combine, the half flags) are
// plain fields; call this after changing them so RegenerateAll picks the
// change up.
func (st *Stack) InvalidateAll() {
	for i := st.minLayer; i <= st.maxLayer; i++ {
		st.layers[i].dirty = true
	}
}

// Voxels returns the generated set of layer i, or an empty set when the
// layer is out of bounds or has never generated.
func (st *Stack) Voxels(i int) voxel.Set {
	l := st.Layer(i)
	if l == nil || l.voxels == nil {
		return voxel.NewSet()
	}
	return l.voxels
}
