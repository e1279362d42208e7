package engine

import (
	"math"
	"strings"
	"testing"
)

func singleSample(layer int) []float64 {
	return []float64{float64(layer)}
}

func TestSetCodeEmpty(t *testing.T) {
	f := NewField(true, true)
	if f.State() != StateEmpty {
		t.Fatalf("fresh field state = %s, want empty", f.State())
	}

	f.SetCode("   \n\t  ")
	if f.State() != StateEmpty {
		t.Errorf("whitespace-only code state = %s, want empty", f.State())
	}
}

func TestSetCodeRunnable(t *testing.T) {
	f := NewField(true, true)
	f.SetCode("5")
	if f.State() != StateRunnable {
		t.Fatalf("state = %s, want runnable", f.State())
	}
	if f.ParseError() != nil {
		t.Errorf("unexpected parse error: %v", f.ParseError())
	}
}

func TestSetCodeParseError(t *testing.T) {
	f := NewField(true, true)
	f.SetCode("(sqrt 25")
	if f.State() != StateParseError {
		t.Fatalf("state = %s, want parse error", f.State())
	}
	if f.ParseError() == nil {
		t.Fatal("expected a parse error")
	}
}

func TestSetCodeClearsPreviousError(t *testing.T) {
	f := NewField(true, true)
	f.SetCode("(sqrt 25")
	f.SetCode("5")
	if f.State() != StateRunnable {
		t.Errorf("state = %s, want runnable", f.State())
	}
	if f.ParseError() != nil {
		t.Errorf("stale parse error: %v", f.ParseError())
	}
}

func TestEvalAtConstant(t *testing.T) {
	f := NewField(true, true)
	f.SetCode("5")

	for _, sample := range []float64{-5, -1, 0, 1, 5} {
		v, err := f.EvalAt(sample)
		if err != nil {
			t.Fatalf("EvalAt(%g): %v", sample, err)
		}
		if v != 5 {
			t.Errorf("EvalAt(%g) = %g, want 5", sample, v)
		}
	}
}

func TestEvalAtUsesLayerVariable(t *testing.T) {
	f := NewField(true, false)
	f.SetCode("layer + 1.5")

	v, err := f.EvalAt(3)
	if err != nil {
		t.Fatalf("EvalAt: %v", err)
	}
	if v != 4.5 {
		t.Errorf("EvalAt(3) = %g, want 4.5", v)
	}
}

func TestEvalAtAlias(t *testing.T) {
	f := NewField(true, false)
	f.SetCode("l * l")

	v, err := f.EvalAt(-4)
	if err != nil {
		t.Fatalf("EvalAt: %v", err)
	}
	if v != 16 {
		t.Errorf("EvalAt(-4) = %g, want 16", v)
	}
}

func TestEvalAtLispForm(t *testing.T) {
	f := NewField(true, true)
	f.SetCode("(sqrt 25.0)")

	v, err := f.EvalAt(0)
	if err != nil {
		t.Fatalf("EvalAt: %v", err)
	}
	if v != 5 {
		t.Errorf("EvalAt = %g, want 5", v)
	}
}

func TestEvalAtBuiltins(t *testing.T) {
	f := NewField(true, true)
	f.SetCode("sqrt(max(0.0, 25.0 - l * l))")

	v, err := f.EvalAt(3)
	if err != nil {
		t.Fatalf("EvalAt: %v", err)
	}
	if v != 4 {
		t.Errorf("EvalAt(3) = %g, want 4", v)
	}

	v, err = f.EvalAt(6)
	if err != nil {
		t.Fatalf("EvalAt(6): %v", err)
	}
	if v != 0 {
		t.Errorf("EvalAt(6) = %g, want 0 (clamped)", v)
	}
}

func TestEvalAtNegativeRejected(t *testing.T) {
	f := NewField(true, true)
	f.SetCode("layer")

	if _, err := f.EvalAt(-2); err == nil {
		t.Fatal("expected error for negative result on non-negative field")
	}

	g := NewField(true, false)
	g.SetCode("layer")
	v, err := g.EvalAt(-2)
	if err != nil {
		t.Fatalf("unconstrained field rejected negative: %v", err)
	}
	if v != -2 {
		t.Errorf("EvalAt(-2) = %g, want -2", v)
	}
}

func TestEvalAtNonFiniteRejected(t *testing.T) {
	f := NewField(true, true)
	f.SetCode("10.0 / layer")

	if _, err := f.EvalAt(0); err == nil {
		t.Fatal("expected error for division by zero sample")
	}
	v, err := f.EvalAt(2)
	if err != nil {
		t.Fatalf("EvalAt(2): %v", err)
	}
	if v != 5 {
		t.Errorf("EvalAt(2) = %g, want 5", v)
	}
}

func TestApplyEmptyFieldIsNoOp(t *testing.T) {
	f := NewField(true, true)

	called := false
	failures, err := f.Apply(0, 3, singleSample, func(int, []float64) { called = true })
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if failures != nil {
		t.Errorf("unexpected failures: %v", failures)
	}
	if called {
		t.Error("write callback called for empty field")
	}
	if f.State() != StateEmpty {
		t.Errorf("state = %s, want empty", f.State())
	}
}

func TestApplyConstantAcrossLayers(t *testing.T) {
	f := NewField(true, true)
	f.SetCode("5")

	got := map[int][]float64{}
	failures, err := f.Apply(-5, 5, singleSample, func(layer int, values []float64) {
		got[layer] = values
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(got) != 11 {
		t.Fatalf("wrote %d layers, want 11", len(got))
	}
	for layer, values := range got {
		if len(values) != 1 || values[0] != 5 {
			t.Errorf("layer %d values = %v, want [5]", layer, values)
		}
	}
	if f.State() != StateEvalOK {
		t.Errorf("state = %s, want evaluated", f.State())
	}
}

func TestApplyPartialFailureSkipsLayer(t *testing.T) {
	f := NewField(true, true)
	f.SetCode("10.0 / layer")

	got := map[int][]float64{}
	failures, err := f.Apply(-2, 2, singleSample, func(layer int, values []float64) {
		got[layer] = values
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if f.State() != StateEvalFailed {
		t.Errorf("state = %s, want evaluation failed", f.State())
	}

	// Layers -2 and -1 fail the non-negativity constraint, layer 0 divides
	// by zero and fails the finiteness constraint; only 1 and 2 are written.
	if len(failures) != 3 {
		t.Fatalf("got %d failures (%v), want 3", len(failures), failures)
	}
	if _, ok := got[0]; ok {
		t.Error("layer 0 was written despite failing")
	}
	if v := got[1]; len(v) != 1 || v[0] != 10 {
		t.Errorf("layer 1 = %v, want [10]", v)
	}
	if v := got[2]; len(v) != 1 || v[0] != 5 {
		t.Errorf("layer 2 = %v, want [5]", v)
	}
}

func TestApplyMultipleSamplesPerLayer(t *testing.T) {
	f := NewField(true, false)
	f.SetCode("l * 2.0")

	samples := func(layer int) []float64 {
		base := float64(layer)
		return []float64{base, base + 0.5}
	}

	got := map[int][]float64{}
	failures, err := f.Apply(0, 1, samples, func(layer int, values []float64) {
		got[layer] = values
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	want := map[int][]float64{0: {0, 1}, 1: {2, 3}}
	for layer, wv := range want {
		gv := got[layer]
		if len(gv) != len(wv) {
			t.Fatalf("layer %d: got %v, want %v", layer, gv, wv)
		}
		for i := range wv {
			if math.Abs(gv[i]-wv[i]) > 1e-12 {
				t.Errorf("layer %d sample %d = %g, want %g", layer, i, gv[i], wv[i])
			}
		}
	}
}

func TestParseZygomysErrorExtractsLine(t *testing.T) {
	err := parseZygomysError(errString("Error on line 3: unexpected token"))
	if err.Line != 3 {
		t.Errorf("Line = %d, want 3", err.Line)
	}
	if !strings.Contains(err.Message, "unexpected token") {
		t.Errorf("Message = %q, want it to contain the detail", err.Message)
	}

	err = parseZygomysError(errString("something else entirely"))
	if err.Line != 0 {
		t.Errorf("Line = %d, want 0 for message without position", err.Line)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
