package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/basyniae/voxircle/pkg/engine"
	"github.com/basyniae/voxircle/pkg/kernel/sdfx"
	"github.com/basyniae/voxircle/pkg/metrics"
	"github.com/basyniae/voxircle/pkg/stack"
	"github.com/basyniae/voxircle/pkg/voxel"
	"github.com/basyniae/voxircle/pkg/voxelize"
	"github.com/basyniae/voxircle/pkg/voxmesh"
)

// App is the binding layer: it owns the layer stack and exposes
// JSON-serializable operations a frontend can call directly.
type App struct {
	stack  *stack.Stack
	mesher *voxmesh.Builder
}

// NewApp creates an App with a single default layer and the sdfx mesher.
func NewApp() *App {
	return &App{
		stack:  stack.New(),
		mesher: voxmesh.New(sdfx.New()),
	}
}

// ParamsData is the JSON form of one layer's shape parameters.
type ParamsData struct {
	RadiusA  float64 `json:"radiusA"`
	RadiusB  float64 `json:"radiusB"`
	Tilt     float64 `json:"tilt"`
	CenterX  float64 `json:"centerX"`
	CenterY  float64 `json:"centerY"`
	Squircle float64 `json:"squircle"`
}

// BlockData is one block position.
type BlockData struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LayerResult is the generation output of one layer.
type LayerResult struct {
	Layer    int             `json:"layer"`
	Blocks   []BlockData     `json:"blocks"`
	Boundary []BlockData     `json:"boundary"`
	Interior []BlockData     `json:"interior"`
	Corners  [][2]float64    `json:"corners"`
	Hull     [][2]float64    `json:"hull"`
	Metrics  metrics.Summary `json:"metrics"`
	Error    string          `json:"error,omitempty"`
}

// FieldErrorData is a JSON-serializable formula failure.
type FieldErrorData struct {
	Layer   int    `json:"layer"`
	Message string `json:"message"`
}

// GenerateResult is the full output of a generation pass.
type GenerateResult struct {
	Layers      []LayerResult    `json:"layers"`
	FieldErrors []FieldErrorData `json:"fieldErrors"`
}

// CodeStatus reports the state of a formula field after an edit.
type CodeStatus struct {
	State string `json:"state"`
	Line  int    `json:"line,omitempty"`
	Error string `json:"error,omitempty"`
}

// MeshData is the JSON-serializable mesh format for a 3D preview.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Error    string    `json:"error,omitempty"`
}

// LayerBlocks pairs a layer index with block positions, used for the 3D
// boundary result.
type LayerBlocks struct {
	Layer  int         `json:"layer"`
	Blocks []BlockData `json:"blocks"`
}

// SelectLayer moves the selection, growing the stack by one layer when
// stepping past an edge. Returns the resulting selected index.
func (a *App) SelectLayer(i int) int {
	return a.stack.SetCurrent(i)
}

// SetLayerRange resizes the stack's layer range.
func (a *App) SetLayerRange(min, max int) error {
	return a.stack.SetBounds(min, max)
}

// Parameters returns the current layer's parameters.
func (a *App) Parameters() ParamsData {
	p := a.stack.CurrentLayer().Params
	return ParamsData{
		RadiusA: p.RadiusA, RadiusB: p.RadiusB, Tilt: p.Tilt,
		CenterX: p.CenterX, CenterY: p.CenterY, Squircle: p.Squircle,
	}
}

// SetParameters replaces the current layer's parameters.
func (a *App) SetParameters(p ParamsData) {
	a.stack.SetParams(stack.Params{
		RadiusA: p.RadiusA, RadiusB: p.RadiusB, Tilt: p.Tilt,
		CenterX: p.CenterX, CenterY: p.CenterY, Squircle: p.Squircle,
	})
}

// SetHeuristic selects the generation heuristic of the current layer by
// name: centerpoint, conservative, contained or percentage (which uses the
// threshold argument).
func (a *App) SetHeuristic(name string, threshold float64) error {
	h, err := heuristicByName(name, threshold)
	if err != nil {
		return err
	}
	a.stack.SetHeuristic(h)
	return nil
}

// SetHeuristicAll applies a heuristic to every layer.
func (a *App) SetHeuristicAll(name string, threshold float64) error {
	h, err := heuristicByName(name, threshold)
	if err != nil {
		return err
	}
	a.stack.SetHeuristicAll(h)
	return nil
}

func heuristicByName(name string, threshold float64) (voxelize.Heuristic, error) {
	switch strings.ToLower(name) {
	case "centerpoint":
		return voxelize.Centerpoint(), nil
	case "conservative":
		return voxelize.Conservative(), nil
	case "contained":
		return voxelize.Contained(), nil
	case "percentage":
		return voxelize.Percentage(threshold), nil
	}
	return voxelize.Heuristic{}, fmt.Errorf("unknown heuristic %q", name)
}

// SetSampling configures per-layer sampling: the number of samples, their
// distribution (include/exclude endpoints) and the combine method
// (all/any/percentage with a fraction).
func (a *App) SetSampling(nrSamples int, distribute, combine string, fraction float64) error {
	if nrSamples < 1 {
		return fmt.Errorf("need at least one sample, got %d", nrSamples)
	}
	switch strings.ToLower(distribute) {
	case "include":
		a.stack.Distribute = stack.DistributeIncludeEndpoints
	case "exclude":
		a.stack.Distribute = stack.DistributeExcludeEndpoints
	default:
		return fmt.Errorf("unknown distribution %q", distribute)
	}
	switch strings.ToLower(combine) {
	case "all":
		a.stack.Combine = stack.CombineAll
	case "any":
		a.stack.Combine = stack.CombineAny
	case "percentage":
		a.stack.Combine = stack.CombinePercentage
		a.stack.CombineFraction = fraction
	default:
		return fmt.Errorf("unknown combine method %q", combine)
	}
	a.stack.NrSamples = nrSamples
	a.stack.InvalidateAll()
	return nil
}

// SetCode updates the formula of one parameter field. Valid parameter
// names: radius_a, radius_b, tilt, center_x, center_y, squircle.
func (a *App) SetCode(param, code string) CodeStatus {
	p, err := paramByName(param)
	if err != nil {
		return CodeStatus{State: "error", Error: err.Error()}
	}
	a.stack.SetCode(p, code)

	f := a.stack.Field(p)
	status := CodeStatus{State: f.State().String()}
	if pe := f.ParseError(); pe != nil {
		status.Line = pe.Line
		status.Error = pe.Message
	}
	return status
}

func paramByName(name string) (stack.Param, error) {
	switch strings.ToLower(name) {
	case "radius_a":
		return stack.ParamRadiusA, nil
	case "radius_b":
		return stack.ParamRadiusB, nil
	case "tilt":
		return stack.ParamTilt, nil
	case "center_x":
		return stack.ParamCenterX, nil
	case "center_y":
		return stack.ParamCenterY, nil
	case "squircle":
		return stack.ParamSquircle, nil
	}
	return 0, fmt.Errorf("unknown parameter %q", name)
}

// Generate applies all formula fields and regenerates every layer,
// returning per-layer blocks and statistics. Layers that fail keep their
// previous blocks and carry an error message.
func (a *App) Generate() GenerateResult {
	var result GenerateResult

	fieldErrs, err := a.stack.ApplyFields()
	if err != nil {
		// Fatal: timeout or panic inside the evaluation engine.
		log.Printf("ApplyFields fatal error: %v", err)
		result.FieldErrors = append(result.FieldErrors, FieldErrorData{Message: err.Error()})
		return result
	}
	result.FieldErrors = append(result.FieldErrors, fieldErrorData(fieldErrs)...)

	genErrs := make(map[int]error)
	for _, f := range a.stack.RegenerateAll() {
		genErrs[f.Layer] = f.Err
	}

	min, max := a.stack.Bounds()
	for i := min; i <= max; i++ {
		s := a.stack.Voxels(i)
		corners := metrics.OuterCorners(s)
		lr := LayerResult{
			Layer:    i,
			Blocks:   blockData(s),
			Boundary: blockData(voxel.Boundary2D(s)),
			Interior: blockData(voxel.Interior(s)),
			Corners:  corners,
			Hull:     metrics.ConvexHull(corners),
			Metrics:  metrics.Summarize(s),
		}
		if err := genErrs[i]; err != nil {
			lr.Error = err.Error()
		}
		result.Layers = append(result.Layers, lr)
	}
	return result
}

// Boundary3D returns, per layer, the blocks with an exposed face when the
// layers are stacked.
func (a *App) Boundary3D(floatingBottom, floatingTop bool) []LayerBlocks {
	boundary := a.stack.Boundary3D(floatingBottom, floatingTop)
	min, max := a.stack.Bounds()

	out := make([]LayerBlocks, 0, max-min+1)
	for i := min; i <= max; i++ {
		out = append(out, LayerBlocks{Layer: i, Blocks: blockData(boundary[i])})
	}
	return out
}

// PreviewMesh builds a triangle mesh of the stack's visible surface.
func (a *App) PreviewMesh(floatingBottom, floatingTop bool) MeshData {
	m, err := a.mesher.StackMesh(a.stack, floatingBottom, floatingTop)
	if err != nil {
		log.Printf("PreviewMesh error: %v", err)
		return MeshData{Error: err.Error()}
	}
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		Name:     m.Name,
	}
}

func blockData(s voxel.Set) []BlockData {
	cells := s.Cells()
	out := make([]BlockData, len(cells))
	for i, c := range cells {
		out[i] = BlockData{X: c.X, Y: c.Y}
	}
	return out
}

func fieldErrorData(errs []engine.LayerError) []FieldErrorData {
	out := make([]FieldErrorData, 0, len(errs))
	for _, fe := range errs {
		out = append(out, FieldErrorData{Layer: fe.Layer, Message: fe.Err.Error()})
	}
	return out
}
