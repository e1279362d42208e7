// Package engine evaluates layer-indexed formulas for shape parameters.
// It wraps zygomys in a sandboxed environment: each code field holds one
// formula over the free variable `layer` (alias `l`) and tracks a validity
// state that callers use for feedback.
package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
)

// ValidityState is the lifecycle of a code field's formula.
type ValidityState int

const (
	// StateEmpty means no formula text; applying is a no-op.
	StateEmpty ValidityState = iota
	// StateParseError means text is present but does not parse.
	StateParseError
	// StateRunnable means the formula parses but has not been applied yet.
	StateRunnable
	// StateEvalOK means the last application succeeded on every layer.
	StateEvalOK
	// StateEvalFailed means at least one layer failed to evaluate.
	StateEvalFailed
)

func (s ValidityState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateParseError:
		return "parse error"
	case StateRunnable:
		return "runnable"
	case StateEvalOK:
		return "evaluated"
	case StateEvalFailed:
		return "evaluation failed"
	}
	return fmt.Sprintf("ValidityState(%d)", int(s))
}

// EvalError represents a non-fatal error encountered while parsing or
// evaluating a formula, with source position when available.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// LayerError records an evaluation failure scoped to a single layer.
// The layer keeps its previous parameter value when this is reported.
type LayerError struct {
	Layer  int
	Sample float64
	Err    error
}

func (e LayerError) Error() string {
	return fmt.Sprintf("layer %d (sample %g): %v", e.Layer, e.Sample, e.Err)
}

func (e LayerError) Unwrap() error { return e.Err }

// Field is the code field of one shape parameter. Construct with NewField.
// Mutation is single-writer; the mutex only guards the generation counter
// used to discard results of timed-out applications.
type Field struct {
	mu         sync.Mutex
	generation uint64

	code     string
	state    ValidityState
	parseErr *EvalError

	// Constraints on evaluated values, checked per sample.
	requireFinite      bool
	requireNonnegative bool
}

// NewField creates an empty field with the given value constraints.
// Radius-like parameters require finite non-negative results; offsets and
// tilt only reject NaN.
func NewField(requireFinite, requireNonnegative bool) *Field {
	return &Field{
		state:              StateEmpty,
		requireFinite:      requireFinite,
		requireNonnegative: requireNonnegative,
	}
}

// Code returns the current formula text.
func (f *Field) Code() string { return f.code }

// State returns the field's validity state.
func (f *Field) State() ValidityState { return f.state }

// ParseError returns the last parse error, or nil.
func (f *Field) ParseError() *EvalError { return f.parseErr }

// SetCode replaces the formula text and recomputes the validity state:
// blank text yields StateEmpty, text that fails to compile yields
// StateParseError, and compiling text yields StateRunnable. Evaluation
// results from a previous formula are forgotten.
func (f *Field) SetCode(text string) {
	f.code = text
	f.parseErr = nil

	if strings.TrimSpace(text) == "" {
		f.state = StateEmpty
		return
	}
	if err := checkParse(text); err != nil {
		f.state = StateParseError
		f.parseErr = err
		return
	}
	f.state = StateRunnable
}

// Clear empties the field.
func (f *Field) Clear() { f.SetCode("") }

// EvalAt evaluates the formula with `layer` bound to sample, in a fresh
// sandbox for determinism. Runtime errors, non-numeric results, NaN and
// constraint violations are reported as errors.
func (f *Field) EvalAt(sample float64) (float64, error) {
	if f.state == StateEmpty || f.state == StateParseError {
		return 0, fmt.Errorf("field is not runnable (state %s)", f.state)
	}
	return evalFormula(f.code, sample, f.requireFinite, f.requireNonnegative)
}

// Apply evaluates the formula for every layer in [minLayer, maxLayer].
// samplesFor supplies the sampling points of a layer; write receives the
// evaluated values for layers where every sample succeeded. Layers with a
// failing sample are skipped and reported as LayerErrors. The field
// transitions to StateEvalOK when all layers succeed, StateEvalFailed
// otherwise.
//
// Empty and unparsable fields are a no-op: every layer keeps its current
// parameter value and nil errors are returned.
//
// The application runs under a panic guard and a hard timeout; a
// generation counter discards results of superseded applications.
func (f *Field) Apply(minLayer, maxLayer int, samplesFor func(layer int) []float64, write func(layer int, values []float64)) ([]LayerError, error) {
	if f.state == StateEmpty || f.state == StateParseError {
		return nil, nil
	}

	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.mu.Unlock()

	ch := make(chan applyResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- applyResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		ch <- applyResult{failures: f.applyAll(minLayer, maxLayer, samplesFor, write)}
	}()

	failures, err := waitWithTimeout(ch, gen, &f.mu, &f.generation)
	if err != nil {
		f.state = StateEvalFailed
		return nil, err
	}
	if len(failures) == 0 {
		f.state = StateEvalOK
	} else {
		f.state = StateEvalFailed
	}
	return failures, nil
}

func (f *Field) applyAll(minLayer, maxLayer int, samplesFor func(layer int) []float64, write func(layer int, values []float64)) []LayerError {
	var failures []LayerError
	for layer := minLayer; layer <= maxLayer; layer++ {
		samples := samplesFor(layer)
		values := make([]float64, len(samples))
		ok := true
		for i, sample := range samples {
			v, err := evalFormula(f.code, sample, f.requireFinite, f.requireNonnegative)
			if err != nil {
				failures = append(failures, LayerError{Layer: layer, Sample: sample, Err: err})
				ok = false
				break
			}
			values[i] = v
		}
		if ok {
			write(layer, values)
		}
	}
	return failures
}

// checkParse translates the formula and compiles the result in a throwaway
// sandbox without running it.
func checkParse(code string) *EvalError {
	src, terr := assembleSource(code, 0)
	if terr != nil {
		return terr
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	if err := env.LoadString(src); err != nil {
		e := parseZygomysError(err)
		return &e
	}
	return nil
}

// evalFormula runs one formula against one sample value in a fresh
// sandboxed zygomys environment.
func evalFormula(code string, sample float64, requireFinite, requireNonnegative bool) (val float64, err error) {
	// zygomys arithmetic can panic (integer division by zero, for one);
	// scope the failure to this sample.
	defer func() {
		if r := recover(); r != nil {
			val = 0
			err = fmt.Errorf("evaluation panic: %v", r)
		}
	}()

	src, terr := assembleSource(code, sample)
	if terr != nil {
		return 0, *terr
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerMathBuiltins(env)

	if lerr := env.LoadString(src); lerr != nil {
		return 0, parseZygomysError(lerr)
	}
	result, rerr := env.Run()
	if rerr != nil {
		return 0, parseZygomysError(rerr)
	}

	v, cerr := toFloat64(result)
	if cerr != nil {
		return 0, cerr
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("result is NaN")
	}
	if requireFinite && math.IsInf(v, 0) {
		return 0, fmt.Errorf("result is not finite")
	}
	if requireNonnegative && v < 0 {
		return 0, fmt.Errorf("result %g is negative", v)
	}
	return v, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into an EvalError, extracting
// line number information from the message when present.
func parseZygomysError(err error) EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return EvalError{Line: line, Message: strings.TrimSpace(m[2])}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return EvalError{Line: line, Message: strings.TrimSpace(m[2])}
	}
	return EvalError{Message: strings.TrimSpace(msg)}
}
