package engine

import (
	"fmt"
	"strings"
	"unicode"
)

// The formula surface is plain arithmetic: numbers, the layer variable,
// + - * / ^, parentheses and function calls like sqrt(x) or max(a, b).
// The interpreter only runs s-expressions, so formulas are translated to
// prefix form before loading; text that already opens with "(" is taken
// as an s-expression and passed through untouched.

type tokKind int

const (
	tokNumber tokKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind tokKind
	text string
	col  int // 1-based position in the formula
}

// translateFormula converts a formula into the s-expression text that is
// loaded into the interpreter. Errors carry the offending column.
//
// Text that opens with "(" and is not valid arithmetic (for example
// "(sqrt 25.0)") is passed through untouched, so s-expressions remain an
// escape hatch; the compile step catches malformed ones.
func translateFormula(code string) (string, *EvalError) {
	trimmed := strings.TrimSpace(code)

	expr, err := parseInfix(trimmed)
	if err != nil {
		if strings.HasPrefix(trimmed, "(") {
			return trimmed, nil
		}
		return "", err
	}
	return expr, nil
}

func parseInfix(trimmed string) (string, *EvalError) {
	toks, lerr := lexFormula(trimmed)
	if lerr != nil {
		return "", lerr
	}
	p := &infixParser{toks: toks}
	expr, perr := p.parseExpr(1)
	if perr != nil {
		return "", perr
	}
	if t := p.peek(); t.kind != tokEOF {
		return "", errAt(t.col, "unexpected %q after end of formula", t.text)
	}
	return expr, nil
}

func errAt(col int, format string, args ...interface{}) *EvalError {
	return &EvalError{Line: 1, Col: col, Message: fmt.Sprintf(format, args...)}
}

func lexFormula(src string) ([]token, *EvalError) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		col := i + 1
		switch {
		case unicode.IsSpace(r):
			i++
		case r >= '0' && r <= '9':
			j := i
			for j < len(runes) && (runes[j] >= '0' && runes[j] <= '9' || runes[j] == '.') {
				j++
			}
			if j < len(runes) && (runes[j] == 'e' || runes[j] == 'E') {
				j++
				if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
					j++
				}
				for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
					j++
				}
			}
			text := string(runes[i:j])
			if strings.Count(text, ".") > 1 {
				return nil, errAt(col, "malformed number %q", text)
			}
			toks = append(toks, token{tokNumber, text, col})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			toks = append(toks, token{tokIdent, string(runes[i:j]), col})
			i = j
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^':
			toks = append(toks, token{tokOp, string(r), col})
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "(", col})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")", col})
			i++
		case r == ',':
			toks = append(toks, token{tokComma, ",", col})
			i++
		default:
			return nil, errAt(col, "unexpected character %q", string(r))
		}
	}
	toks = append(toks, token{tokEOF, "", len(runes) + 1})
	return toks, nil
}

type infixParser struct {
	toks []token
	pos  int
}

func (p *infixParser) peek() token { return p.toks[p.pos] }

func (p *infixParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func precOf(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	case "^":
		return 3
	}
	return 0
}

// parseExpr is precedence climbing; ^ is right-associative and becomes pow.
func (p *infixParser) parseExpr(minPrec int) (string, *EvalError) {
	left, err := p.parseUnary()
	if err != nil {
		return "", err
	}
	for {
		t := p.peek()
		if t.kind != tokOp {
			break
		}
		prec := precOf(t.text)
		if prec < minPrec {
			break
		}
		p.next()
		nextMin := prec + 1
		if t.text == "^" {
			nextMin = prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return "", err
		}
		if t.text == "^" {
			left = "(pow " + left + " " + right + ")"
		} else {
			left = "(" + t.text + " " + left + " " + right + ")"
		}
	}
	return left, nil
}

func (p *infixParser) parseUnary() (string, *EvalError) {
	t := p.peek()
	switch {
	case t.kind == tokOp && t.text == "-":
		p.next()
		// Negation binds looser than ^: -2^2 is -(2^2).
		operand, err := p.parseExpr(precOf("^"))
		if err != nil {
			return "", err
		}
		return "(- 0.0 " + operand + ")", nil
	case t.kind == tokOp && t.text == "+":
		p.next()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *infixParser) parsePrimary() (string, *EvalError) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return normalizeNumber(t.text), nil
	case tokIdent:
		if p.peek().kind != tokLParen {
			return t.text, nil
		}
		p.next()
		args, err := p.parseArgs(t)
		if err != nil {
			return "", err
		}
		return "(" + t.text + " " + strings.Join(args, " ") + ")", nil
	case tokLParen:
		expr, err := p.parseExpr(1)
		if err != nil {
			return "", err
		}
		if c := p.next(); c.kind != tokRParen {
			return "", errAt(c.col, "expected ) to close group, got %q", c.text)
		}
		return expr, nil
	case tokEOF:
		return "", errAt(t.col, "unexpected end of formula")
	}
	return "", errAt(t.col, "unexpected %q", t.text)
}

func (p *infixParser) parseArgs(fn token) ([]string, *EvalError) {
	if p.peek().kind == tokRParen {
		return nil, errAt(p.peek().col, "%s() is missing its arguments", fn.text)
	}
	var args []string
	for {
		arg, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch c := p.next(); c.kind {
		case tokComma:
			continue
		case tokRParen:
			return args, nil
		default:
			return nil, errAt(c.col, "expected , or ) in %s(...), got %q", fn.text, c.text)
		}
	}
}

// normalizeNumber gives integral literals an explicit ".0" so arithmetic
// stays in float semantics throughout.
func normalizeNumber(text string) string {
	if !strings.ContainsAny(text, ".eE") {
		return text + ".0"
	}
	if strings.HasSuffix(text, ".") {
		return text + "0"
	}
	return text
}
