package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source assembly
// ---------------------------------------------------------------------------

// assembleSource builds the full program evaluated for one sample: a prelude
// binding `layer`, its alias `l`, and `pi`, followed by the user's formula
// translated to the s-expression the interpreter runs. Formulas written in
// plain arithmetic ("10 / layer") go through translateFormula; text that
// already opens with a paren is passed through as Lisp.
func assembleSource(code string, sample float64) (string, *EvalError) {
	expr, terr := translateFormula(code)
	if terr != nil {
		return "", terr
	}

	var b strings.Builder
	b.WriteString("(def layer ")
	b.WriteString(formatSample(sample))
	b.WriteString(")\n(def l layer)\n(def pi 3.141592653589793)\n")
	b.WriteString(expr)
	b.WriteString("\n")
	return b.String(), nil
}

// formatSample renders a sample value as a zygomys float literal. Integral
// values get an explicit ".0" so that `layer` is always a float and infix
// arithmetic stays in float semantics.
func formatSample(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ---------------------------------------------------------------------------
// Value extraction
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Math builtins
// ---------------------------------------------------------------------------

// registerMathBuiltins installs the math vocabulary available to formulas
// into a zygomys environment. All functions take and return floats; integer
// arguments are promoted.
func registerMathBuiltins(env *zygo.Zlisp) {
	addUnary(env, "sqrt", math.Sqrt)
	addUnary(env, "abs", math.Abs)
	addUnary(env, "floor", math.Floor)
	addUnary(env, "ceil", math.Ceil)
	addUnary(env, "round", math.Round)
	addUnary(env, "sin", math.Sin)
	addUnary(env, "cos", math.Cos)
	addUnary(env, "tan", math.Tan)
	addUnary(env, "exp", math.Exp)
	addUnary(env, "ln", math.Log)

	addBinary(env, "pow", math.Pow)
	addBinary(env, "min", math.Min)
	addBinary(env, "max", math.Max)
	addBinary(env, "atan2", math.Atan2)
}

func addUnary(env *zygo.Zlisp, name string, fn func(float64) float64) {
	env.AddFunction(name, func(env *zygo.Zlisp, fname string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", fname, len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fname, err)
		}
		return &zygo.SexpFloat{Val: fn(x)}, nil
	})
}

func addBinary(env *zygo.Zlisp, name string, fn func(a, b float64) float64) {
	env.AddFunction(name, func(env *zygo.Zlisp, fname string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 arguments, got %d", fname, len(args))
		}
		a, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fname, err)
		}
		b, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fname, err)
		}
		return &zygo.SexpFloat{Val: fn(a, b)}, nil
	})
}
