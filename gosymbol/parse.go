package gosymbol

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"text/scanner"
)

// ============================================================
// Parser
// ============================================================

// MaxInputLength bounds the length of an expression accepted by Parse.
const MaxInputLength = 1000

// ParseError reports why an expression was rejected and where.
type ParseError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("gosymbol: parse %q: %s", e.Input, e.Msg)
	}
	return fmt.Sprintf("gosymbol: parse %q: %s at offset %d", e.Input, e.Msg, e.Offset)
}

var functions = map[string]func(Expr) Expr{
	"sin":  SinOf,
	"cos":  CosOf,
	"tan":  TanOf,
	"asin": AsinOf,
	"acos": AcosOf,
	"atan": AtanOf,
	"sinh": SinhOf,
	"cosh": CoshOf,
	"tanh": TanhOf,
	"exp":  ExpOf,
	"ln":   LnOf,
	"log":  LnOf,
	"sqrt": SqrtOf,
	"abs":  AbsOf,
}

var constants = map[string]Expr{
	"pi": Pi,
	"E":  E,
}

// Parse reads an infix expression over the symbols in vars.
//
// Grammar, loosest binding first:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = ("-" | "+") unary | power
//	power  = atom [ ("^" | "**") unary ]
//	atom   = number | name | name "(" expr ")" | "(" expr ")"
//
// Both ^ and ** denote exponentiation and associate to the right; -x^2 is
// -(x^2). Integer literals are exact; literals with a decimal point or an
// exponent become decimal approximations. Any name that is not one of vars,
// a known function or a constant (pi, E) is an error, and so is an equals
// sign.
func Parse(input string, vars ...string) (Expr, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &ParseError{Input: input, Offset: -1, Msg: "empty expression"}
	}
	if len(input) > MaxInputLength {
		return nil, &ParseError{Input: input, Offset: -1, Msg: fmt.Sprintf("expression longer than %d characters", MaxInputLength)}
	}
	if i := strings.IndexByte(input, '='); i >= 0 {
		return nil, &ParseError{Input: input, Offset: i, Msg: "expression must not contain '='; move every term to one side"}
	}
	p := &parser{input: input, vars: map[string]bool{}}
	for _, v := range vars {
		p.vars[v] = true
	}
	p.s.Init(strings.NewReader(input))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail(s.Pos().Offset, msg)
	}
	p.next()
	e := p.expr()
	if p.err == nil && p.tok != scanner.EOF {
		p.unexpected()
	}
	if p.err != nil {
		return nil, p.err
	}
	return e.Simplify(), nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string, vars ...string) Expr {
	e, err := Parse(input, vars...)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	s     scanner.Scanner
	input string
	vars  map[string]bool
	tok   rune
	text  string
	pos   int
	err   *ParseError
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.text = p.s.TokenText()
	p.pos = p.s.Position.Offset
}

func (p *parser) fail(offset int, msg string) {
	if p.err == nil {
		p.err = &ParseError{Input: p.input, Offset: offset, Msg: msg}
	}
}

func (p *parser) unexpected() {
	switch p.tok {
	case scanner.EOF:
		p.fail(len(p.input), "unexpected end of expression")
	case scanner.Ident, scanner.Int, scanner.Float, '(':
		p.fail(p.pos, fmt.Sprintf("missing operator before %q", p.text))
	default:
		p.fail(p.pos, fmt.Sprintf("unexpected %q", p.text))
	}
}

func (p *parser) expr() Expr {
	terms := []Expr{p.term()}
	for p.err == nil && (p.tok == '+' || p.tok == '-') {
		op := p.tok
		p.next()
		t := p.term()
		if op == '-' {
			t = &Mul{factors: []Expr{N(-1), t}}
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return &Add{terms: terms}
}

func (p *parser) term() Expr {
	factors := []Expr{p.unary()}
	for p.err == nil && (p.tok == '*' || p.tok == '/') && !p.powerStar() {
		op := p.tok
		p.next()
		f := p.unary()
		if op == '/' {
			f = &Pow{base: f, exp: N(-1)}
		}
		factors = append(factors, f)
	}
	if len(factors) == 1 {
		return factors[0]
	}
	return &Mul{factors: factors}
}

func (p *parser) unary() Expr {
	switch p.tok {
	case '-':
		p.next()
		return &Mul{factors: []Expr{N(-1), p.unary()}}
	case '+':
		p.next()
		return p.unary()
	}
	return p.power()
}

// powerStar reports whether the current '*' is the first half of "**".
func (p *parser) powerStar() bool {
	return p.tok == '*' && p.s.Peek() == '*'
}

func (p *parser) power() Expr {
	base := p.atom()
	if p.err != nil {
		return base
	}
	switch {
	case p.tok == '^':
		p.next()
	case p.powerStar():
		p.next()
		p.next()
	default:
		return base
	}
	return &Pow{base: base, exp: p.unary()}
}

func (p *parser) atom() Expr {
	if p.err != nil {
		return N(0)
	}
	switch p.tok {
	case scanner.Int:
		n, ok := new(big.Int).SetString(p.text, 10)
		if !ok {
			p.fail(p.pos, fmt.Sprintf("malformed number %q", p.text))
			return N(0)
		}
		p.next()
		return &Num{val: new(big.Rat).SetInt(n)}
	case scanner.Float:
		f, err := strconv.ParseFloat(p.text, 64)
		if err != nil {
			p.fail(p.pos, fmt.Sprintf("malformed number %q", p.text))
			return N(0)
		}
		p.next()
		return NFloat(f)
	case scanner.Ident:
		return p.name()
	case '(':
		p.next()
		e := p.expr()
		if p.err != nil {
			return e
		}
		if p.tok != ')' {
			p.fail(p.pos, "missing ')'")
			return e
		}
		p.next()
		return e
	}
	p.unexpected()
	return N(0)
}

func (p *parser) name() Expr {
	name, pos := p.text, p.pos
	p.next()
	if fn, ok := functions[name]; ok {
		if p.tok != '(' {
			p.fail(pos, fmt.Sprintf("function %q needs a parenthesized argument", name))
			return N(0)
		}
		p.next()
		arg := p.expr()
		if p.err != nil {
			return arg
		}
		if p.tok != ')' {
			p.fail(p.pos, "missing ')'")
			return arg
		}
		p.next()
		return fn(arg)
	}
	if p.tok == '(' {
		p.fail(pos, fmt.Sprintf("unknown function %q", name))
		return N(0)
	}
	if c, ok := constants[name]; ok {
		return c
	}
	if p.vars[name] {
		return S(name)
	}
	p.fail(pos, fmt.Sprintf("unknown symbol %q", name))
	return N(0)
}
