package units

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// tokenType represents the type of a lexical token in a unit expression.
type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdent
	tokenNumber
	tokenMul    // *
	tokenDiv    // /
	tokenPow    // ** or ^
	tokenMinus  // -
	tokenPlus   // +
	tokenLParen // (
	tokenRParen // )
)

type token struct {
	typ   tokenType
	value string
	pos   int
}

// lex splits a unit expression into tokens.
func lex(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '*':
			if i+1 < len(input) && input[i+1] == '*' {
				tokens = append(tokens, token{tokenPow, "**", i})
				i += 2
			} else {
				tokens = append(tokens, token{tokenMul, "*", i})
				i++
			}
		case r == '^':
			tokens = append(tokens, token{tokenPow, "^", i})
			i++
		case r == '/':
			tokens = append(tokens, token{tokenDiv, "/", i})
			i++
		case r == '-':
			tokens = append(tokens, token{tokenMinus, "-", i})
			i++
		case r == '+':
			tokens = append(tokens, token{tokenPlus, "+", i})
			i++
		case r == '(':
			tokens = append(tokens, token{tokenLParen, "(", i})
			i++
		case r == ')':
			tokens = append(tokens, token{tokenRParen, ")", i})
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokenNumber, input[start:i], start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(input) {
				r, size := utf8.DecodeRuneInString(input[i:])
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
					break
				}
				i += size
			}
			tokens = append(tokens, token{tokenIdent, input[start:i], start})
		default:
			return nil, errors.Wrapf(ErrSyntax, "unexpected character %q at position %d in %q", r, i, input)
		}
	}
	return append(tokens, token{tokenEOF, "", len(input)}), nil
}

// parser is a recursive-descent parser over the grammar
//
//	product  := power (('*' | '/') power)*
//	power    := primary (('**' | '^') exponent)?
//	primary  := IDENT | '1' | '(' product ')'
//	exponent := sign? NUMBER | '(' sign? NUMBER ('/' NUMBER)? ')'
type parser struct {
	input   string
	tokens  []token
	pos     int
	resolve func(name string) (Unit, error)
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	args = append(args, t.pos, p.input)
	return errors.Wrapf(ErrSyntax, format+" at position %d in %q", args...)
}

func (p *parser) parse() (Unit, error) {
	u, err := p.product()
	if err != nil {
		return Unit{}, err
	}
	if t := p.peek(); t.typ != tokenEOF {
		return Unit{}, p.errorf(t, "unexpected %q", t.value)
	}
	return u, nil
}

func (p *parser) product() (Unit, error) {
	u, err := p.power()
	if err != nil {
		return Unit{}, err
	}
	for {
		switch p.peek().typ {
		case tokenMul:
			p.next()
			rhs, err := p.power()
			if err != nil {
				return Unit{}, err
			}
			u = u.Mul(rhs)
		case tokenDiv:
			p.next()
			rhs, err := p.power()
			if err != nil {
				return Unit{}, err
			}
			u = u.Div(rhs)
		default:
			return u, nil
		}
	}
}

func (p *parser) power() (Unit, error) {
	u, err := p.primary()
	if err != nil {
		return Unit{}, err
	}
	if p.peek().typ != tokenPow {
		return u, nil
	}
	p.next()
	e, err := p.exponent()
	if err != nil {
		return Unit{}, err
	}
	return u.Pow(e), nil
}

func (p *parser) primary() (Unit, error) {
	t := p.next()
	switch t.typ {
	case tokenIdent:
		return p.resolve(t.value)
	case tokenNumber:
		if v, err := strconv.ParseFloat(t.value, 64); err == nil && v == 1 {
			return Dimensionless, nil
		}
		return Unit{}, p.errorf(t, "numeric factor %s is not a unit", t.value)
	case tokenLParen:
		u, err := p.product()
		if err != nil {
			return Unit{}, err
		}
		if c := p.next(); c.typ != tokenRParen {
			return Unit{}, p.errorf(c, "expected ')'")
		}
		return u, nil
	case tokenEOF:
		return Unit{}, p.errorf(t, "unexpected end of expression")
	}
	return Unit{}, p.errorf(t, "unexpected %q", t.value)
}

func (p *parser) exponent() (float64, error) {
	if p.peek().typ != tokenLParen {
		return p.signedNumber()
	}
	p.next()
	e, err := p.signedNumber()
	if err != nil {
		return 0, err
	}
	if p.peek().typ == tokenDiv {
		p.next()
		t := p.next()
		d, err := p.number(t)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, p.errorf(t, "zero denominator in exponent")
		}
		e /= d
	}
	if c := p.next(); c.typ != tokenRParen {
		return 0, p.errorf(c, "expected ')'")
	}
	return e, nil
}

func (p *parser) signedNumber() (float64, error) {
	sign := 1.0
	switch p.peek().typ {
	case tokenMinus:
		p.next()
		sign = -1
	case tokenPlus:
		p.next()
	}
	v, err := p.number(p.next())
	return sign * v, err
}

func (p *parser) number(t token) (float64, error) {
	if t.typ != tokenNumber {
		return 0, p.errorf(t, "expected number, got %q", t.value)
	}
	v, err := strconv.ParseFloat(t.value, 64)
	if err != nil {
		return 0, p.errorf(t, "invalid number %q", t.value)
	}
	return v, nil
}
