// Package theory implements the two deterministic parsers the document
// server relies on: a restricted arithmetic evaluator for beat expressions
// (grounded on this corpus's own hand-rolled DSL lexers, generalized from
// token scanning to a small recursive-descent grammar rather than reused
// via a generic parsing engine) and a chord-symbol parser producing
// pitch-class sets (grounded on this corpus's chord-to-MIDI conversion).
package theory

import (
	"math/big"

	"github.com/IrisMu01/midi-gen-mcp/errs"
)

// Evaluate accepts a numeric or string beat/duration value and returns its
// exact rational value. Strings are parsed with the restricted arithmetic
// grammar:
//
//	expr    := term (('+' | '-') term)*
//	term    := factor (('*' | '/') factor)*
//	factor  := number | '(' expr ')' | ('+'|'-') factor
//	number  := digits ('.' digits)?
//
// Whitespace is insignificant. Division by zero and unrecognized tokens
// raise MalformedExpression.
func Evaluate(value any) (*big.Rat, error) {
	switch v := value.(type) {
	case *big.Rat:
		return new(big.Rat).Set(v), nil
	case int:
		return big.NewRat(int64(v), 1), nil
	case int64:
		return big.NewRat(v, 1), nil
	case float64:
		r := new(big.Rat)
		if r.SetFloat64(v) == nil {
			return nil, errs.New(errs.MalformedExpression, "not a finite number: %v", v)
		}
		return r, nil
	case string:
		return evalString(v)
	case nil:
		return nil, errs.New(errs.MalformedExpression, "missing value")
	default:
		return nil, errs.New(errs.MalformedExpression, "unsupported value type %T", value)
	}
}

func evalString(s string) (*big.Rat, error) {
	p := &exprParser{src: []rune(s)}
	p.skipSpace()
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, errs.New(errs.MalformedExpression, "unexpected trailing input in %q at position %d", s, p.pos)
	}
	return val, nil
}

type exprParser struct {
	src []rune
	pos int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *exprParser) peek() rune {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// parseExpr := term (('+' | '-') term)*
func (p *exprParser) parseExpr() (*big.Rat, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = new(big.Rat).Add(left, right)
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = new(big.Rat).Sub(left, right)
		default:
			return left, nil
		}
	}
}

// parseTerm := factor (('*' | '/') factor)*
func (p *exprParser) parseTerm() (*big.Rat, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			left = new(big.Rat).Mul(left, right)
		case '/':
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			if right.Sign() == 0 {
				return nil, errs.New(errs.MalformedExpression, "division by zero")
			}
			left = new(big.Rat).Quo(left, right)
		default:
			return left, nil
		}
	}
}

// parseFactor := number | '(' expr ')' | ('+'|'-') factor
func (p *exprParser) parseFactor() (*big.Rat, error) {
	p.skipSpace()
	switch p.peek() {
	case '(':
		p.pos++
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, errs.New(errs.MalformedExpression, "missing closing parenthesis at position %d", p.pos)
		}
		p.pos++
		return val, nil
	case '+':
		p.pos++
		return p.parseFactor()
	case '-':
		p.pos++
		val, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return new(big.Rat).Neg(val), nil
	default:
		return p.parseNumber()
	}
}

// parseNumber := digits ('.' digits)?
func (p *exprParser) parseNumber() (*big.Rat, error) {
	start := p.pos
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return nil, errs.New(errs.MalformedExpression, "expected a number at position %d", p.pos)
	}
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
		fracStart := p.pos
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
		if p.pos == fracStart {
			return nil, errs.New(errs.MalformedExpression, "expected digits after decimal point at position %d", p.pos)
		}
	}
	lit := string(p.src[start:p.pos])
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return nil, errs.New(errs.MalformedExpression, "invalid number literal %q", lit)
	}
	return r, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// RoundTicks converts an exact beat position to an absolute tick count,
// rounding to the nearest integer (ties away from zero). beats must be
// non-negative.
func RoundTicks(beats *big.Rat, ticksPerBeat int64) int64 {
	ticks := new(big.Rat).Mul(beats, big.NewRat(ticksPerBeat, 1))
	half := big.NewRat(1, 2)
	rounded := new(big.Rat).Add(ticks, half)
	q := new(big.Int).Quo(rounded.Num(), rounded.Denom())
	return q.Int64()
}

// ToFloat converts a rational beat value to float64 for JSON output.
func ToFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}
