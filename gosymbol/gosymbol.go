// Package gosymbol provides the deterministic symbolic math kernel used by
// the tangent finder.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat); decimals only where the input had them
//   - Deterministic simplification and stable output
//   - Just enough algebra for implicit differentiation and tangent solving:
//     differentiation, substitution, expansion, rational combination,
//     polynomial extraction, radical elimination and root finding
package gosymbol

import (
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
}

// ============================================================
// Num — exact rational number, or a decimal approximation
// ============================================================

// Num holds a rational value. Numbers parsed from decimal literals or
// produced by floating-point evaluation are flagged approx; arithmetic on
// approx numbers is carried out in float64 and prints as a decimal.
type Num struct {
	val    *big.Rat
	approx bool
}

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("gosymbol: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat returns an approximate number. It panics on NaN or infinity.
func NFloat(f float64) *Num {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		panic("gosymbol: non-finite float " + strconv.FormatFloat(f, 'g', -1, 64))
	}
	return &Num{val: r, approx: true}
}

// NRat returns an exact number holding a copy of r.
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func floatNum(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return NFloat(f), true
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsApprox() bool        { return n.approx }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func (n *Num) approximate() *Num {
	if n.approx {
		return n
	}
	return &Num{val: n.val, approx: true}
}

func (n *Num) String() string {
	if n.approx {
		return formatFloat(n.Float64())
	}
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.approx || n.val.IsInt() {
		return n.String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return sign + "\\frac{" + v.Num().String() + "}{" + v.Denom().String() + "}"
}

// formatFloat prints 15 significant digits and always marks the value as a
// decimal.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', 15, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

func numAdd(a, b *Num) *Num {
	if a.approx || b.approx {
		return NFloat(a.Float64() + b.Float64())
	}
	return &Num{val: new(big.Rat).Add(a.val, b.val)}
}
func numSub(a, b *Num) *Num { return numAdd(a, numNeg(b)) }
func numMul(a, b *Num) *Num {
	if a.approx || b.approx {
		return NFloat(a.Float64() * b.Float64())
	}
	return &Num{val: new(big.Rat).Mul(a.val, b.val)}
}
func numNeg(a *Num) *Num { return &Num{val: new(big.Rat).Neg(a.val), approx: a.approx} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("gosymbol: division by zero")
	}
	if a.approx {
		return NFloat(1 / a.Float64())
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}
func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }
func numAbs(a *Num) *Num {
	if a.IsNegative() {
		return numNeg(a)
	}
	return a
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const — named real constant (pi, E)
// ============================================================

type Const struct {
	name  string
	latex string
	val   float64
}

var (
	Pi = &Const{name: "pi", latex: "\\pi", val: math.Pi}
	E  = &Const{name: "E", latex: "e", val: math.E}
)

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) LaTeX() string         { return c.latex }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval() (*Num, bool)    { return NFloat(c.val), true }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// NegOf returns -e.
func NegOf(e Expr) Expr { return MulOf(N(-1), e) }

// SubOf returns a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, NegOf(b)) }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	// Like terms are keyed by the printed form of their non-numeric part.
	type like struct {
		coeff *Num
		rest  Expr
	}
	constant := N(0)
	groups := map[string]*like{}
	order := []string{}
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			constant = numAdd(constant, n)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if g, ok := groups[key]; ok {
			g.coeff = numAdd(g.coeff, coeff)
			continue
		}
		groups[key] = &like{coeff: coeff, rest: rest}
		order = append(order, key)
	}

	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		g := groups[key]
		if g.coeff.IsZero() {
			continue
		}
		if g.coeff.IsOne() {
			result = append(result, g.rest)
			continue
		}
		result = append(result, MulOf(g.coeff, g.rest))
	}
	sortTerms(result)
	if !constant.IsZero() {
		result = append(result, constant)
	}
	switch len(result) {
	case 0:
		return constant
	case 1:
		return result[0]
	}
	return &Add{terms: result}
}

// sortTerms orders terms by descending degree, then by printed form.
func sortTerms(terms []Expr) {
	type keyed struct {
		e      Expr
		degree int
		key    string
	}
	ks := make([]keyed, len(terms))
	for i, t := range terms {
		_, rest := extractCoefficient(t)
		ks[i] = keyed{e: t, degree: termDegree(rest), key: rest.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].degree != ks[j].degree {
			return ks[i].degree > ks[j].degree
		}
		return ks[i].key < ks[j].key
	})
	for i := range ks {
		terms[i] = ks[i].e
	}
}

func termDegree(e Expr) int {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.base.(*Sym); ok {
			if en, ok := v.exp.(*Num); ok && en.IsInteger() && en.IsPositive() {
				return int(en.val.Num().Int64())
			}
		}
	case *Mul:
		d := 0
		for _, f := range v.factors {
			d += termDegree(f)
		}
		return d
	}
	return 0
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.String()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.LaTeX()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) Terms() []Expr { return a.terms }

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// QuoOf returns a / b.
func QuoOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

func (m *Mul) Simplify() Expr {
	factors := m.factors
	// Merging powers can expose new numeric factors (sqrt(8) -> 2*sqrt(2)),
	// so collect until the factor list settles.
	for round := 0; round < 4; round++ {
		coeff, others, changed := collectFactors(factors)
		if coeff.IsZero() {
			return coeff
		}
		if !changed || round == 3 {
			return buildMul(coeff, others)
		}
		factors = append([]Expr{coeff}, others...)
	}
	panic("unreachable")
}

// collectFactors flattens, multiplies numeric factors together and merges
// factors sharing a base by adding exponents. changed reports whether a merged
// power unpacked into a product that may need another pass.
func collectFactors(in []Expr) (*Num, []Expr, bool) {
	flat := make([]Expr, 0, len(in))
	for _, f := range in {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	type power struct {
		base Expr
		exps []Expr
	}
	coeff := N(1)
	groups := map[string]*power{}
	order := []string{}
	for _, f := range flat {
		var base, exp Expr
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
			continue
		case *Pow:
			base, exp = v.base, v.exp
		default:
			base, exp = f, N(1)
		}
		key := base.String()
		if g, ok := groups[key]; ok {
			g.exps = append(g.exps, exp)
			continue
		}
		groups[key] = &power{base: base, exps: []Expr{exp}}
		order = append(order, key)
	}

	changed := false
	others := make([]Expr, 0, len(order))
	for _, key := range order {
		g := groups[key]
		var p Expr
		if len(g.exps) == 1 {
			if en, ok := g.exps[0].(*Num); ok && en.IsOne() && !en.approx {
				p = g.base
			}
		}
		if p == nil {
			p = PowOf(g.base, AddOf(g.exps...))
		}
		switch v := p.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			changed = true
			others = append(others, v.factors...)
		default:
			others = append(others, p)
		}
	}
	return coeff, others, changed
}

func buildMul(coeff *Num, others []Expr) Expr {
	if len(others) == 0 {
		return coeff
	}
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}
	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

// split separates a product into its numeric coefficient and the factors
// printed above and below the fraction bar.
func (m *Mul) split() (coeff *Num, numer, denom []Expr) {
	coeff = N(1)
	for _, f := range m.factors {
		switch v := f.(type) {
		case *Num:
			coeff = v
		case *Pow:
			if en, ok := v.exp.(*Num); ok && en.IsNegative() {
				denom = append(denom, PowOf(v.base, numNeg(en)))
				continue
			}
			numer = append(numer, f)
		default:
			numer = append(numer, f)
		}
	}
	return coeff, numer, denom
}

func (m *Mul) String() string {
	coeff, numer, denom := m.split()
	var top, bottom []string
	c := numAbs(coeff)
	if c.approx {
		if !c.IsOne() {
			top = append(top, c.String())
		}
	} else {
		if !c.IsOne() && c.val.Num().Cmp(big.NewInt(1)) != 0 {
			top = append(top, c.val.Num().String())
		}
		if !c.val.IsInt() {
			bottom = append(bottom, c.val.Denom().String())
		}
	}
	for _, f := range numer {
		top = append(top, factorString(f))
	}
	for _, f := range denom {
		bottom = append(bottom, factorString(f))
	}
	s := "1"
	if len(top) > 0 {
		s = strings.Join(top, "*")
	}
	if len(bottom) == 1 {
		s += "/" + bottom[0]
	} else if len(bottom) > 1 {
		s += "/(" + strings.Join(bottom, "*") + ")"
	}
	if coeff.IsNegative() {
		s = "-" + s
	}
	return s
}

func factorString(f Expr) string {
	if _, ok := f.(*Add); ok {
		return "(" + f.String() + ")"
	}
	return f.String()
}

func (m *Mul) LaTeX() string {
	coeff, numer, denom := m.split()
	c := numAbs(coeff)
	var top, bottom []string
	if c.approx {
		if !c.IsOne() {
			top = append(top, c.LaTeX())
		}
	} else {
		if c.val.Num().Cmp(big.NewInt(1)) != 0 {
			top = append(top, c.val.Num().String())
		}
		if !c.val.IsInt() {
			bottom = append(bottom, c.val.Denom().String())
		}
	}
	for _, f := range numer {
		top = append(top, factorLaTeX(f))
	}
	for _, f := range denom {
		bottom = append(bottom, factorLaTeX(f))
	}
	s := "1"
	if len(top) > 0 {
		s = strings.Join(top, " ")
	}
	if len(bottom) > 0 {
		s = "\\frac{" + s + "}{" + strings.Join(bottom, " ") + "}"
	}
	if coeff.IsNegative() {
		s = "-" + s
	}
	return s
}

func factorLaTeX(f Expr) string {
	if _, ok := f.(*Add); ok {
		return "\\left(" + f.LaTeX() + "\\right)"
	}
	return f.LaTeX()
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(append([]Expr{dfi}, others...)...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) Factors() []Expr { return m.factors }

// extractCoefficient splits a leading numeric factor from a product.
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

// maxExactPower bounds the integer exponents evaluated exactly.
const maxExactPower = 64

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }
func SqrtOf(arg Expr) Expr      { return PowOf(arg, F(1, 2)) }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	if bn, ok := base.(*Num); ok {
		switch {
		case bn.IsZero():
			// 0^negative stays unevaluated; it has no value.
			if expIsNum && en.IsPositive() {
				return N(0)
			}
			return &Pow{base: base, exp: exp}
		case bn.IsOne():
			return N(1)
		case !expIsNum:
			return &Pow{base: base, exp: exp}
		case bn.approx || en.approx:
			if v, ok := floatNum(math.Pow(bn.Float64(), en.Float64())); ok {
				return v
			}
			return &Pow{base: base, exp: exp}
		case en.IsInteger():
			if en.val.Num().IsInt64() {
				if r, ok := ratPow(bn.val, en.val.Num().Int64()); ok {
					return &Num{val: r}
				}
			}
			return &Pow{base: base, exp: exp}
		case bn.IsPositive() && isHalfInteger(en):
			return surdPow(bn.val, en)
		}
		return &Pow{base: base, exp: exp}
	}

	if !expIsNum {
		return &Pow{base: base, exp: exp}
	}

	if en.IsInteger() {
		switch b := base.(type) {
		case *Pow:
			return PowOf(b.base, MulOf(b.exp, exp))
		case *Mul:
			factors := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				factors[i] = PowOf(f, exp)
			}
			return MulOf(factors...)
		}
		return &Pow{base: base, exp: exp}
	}

	// Fractional exponent: pull a positive numeric content out of the base.
	switch b := base.(type) {
	case *Mul:
		if c, ok := b.factors[0].(*Num); ok && c.IsPositive() {
			return MulOf(PowOf(c, exp), PowOf(MulOf(b.factors[1:]...), exp))
		}
	case *Add:
		if g, ok := content(b); ok {
			scaled := make([]Expr, len(b.terms))
			inv := numRecip(g)
			for i, t := range b.terms {
				scaled[i] = MulOf(inv, t)
			}
			return MulOf(PowOf(g, exp), PowOf(AddOf(scaled...), exp))
		}
	case *Pow:
		if bb, ok := b.base.(*Num); ok && bb.IsPositive() {
			return PowOf(bb, MulOf(b.exp, exp))
		}
	}
	return &Pow{base: base, exp: exp}
}

func isHalfInteger(n *Num) bool {
	return !n.val.IsInt() && n.val.Denom().Cmp(big.NewInt(2)) == 0
}

// content returns the positive rational gcd of an exact sum's coefficients
// when it differs from one.
func content(a *Add) (*Num, bool) {
	num := new(big.Int)
	den := big.NewInt(1)
	for _, t := range a.terms {
		var c *Num
		if n, ok := t.(*Num); ok {
			c = n
		} else {
			c, _ = extractCoefficient(t)
		}
		if c.approx {
			return nil, false
		}
		num.GCD(nil, nil, num, new(big.Int).Abs(c.val.Num()))
		d := c.val.Denom()
		g := new(big.Int).GCD(nil, nil, den, d)
		den.Mul(den, new(big.Int).Quo(d, g))
	}
	if num.Sign() == 0 {
		return nil, false
	}
	g := new(big.Rat).SetFrac(num, den)
	if g.Cmp(big.NewRat(1, 1)) == 0 {
		return nil, false
	}
	return &Num{val: g}, true
}

func (p *Pow) String() string {
	if en, ok := p.exp.(*Num); ok {
		if en.IsNegative() {
			inv := PowOf(p.base, numNeg(en))
			return "1/" + wrapOperand(inv, inv.String())
		}
		if !en.approx && en.val.Cmp(big.NewRat(1, 2)) == 0 {
			return "sqrt(" + p.base.String() + ")"
		}
	}
	return wrapBase(p.base, p.base.String()) + "^" + wrapExp(p.exp, p.exp.String())
}

func (p *Pow) LaTeX() string {
	if en, ok := p.exp.(*Num); ok {
		if en.IsNegative() {
			return "\\frac{1}{" + PowOf(p.base, numNeg(en)).LaTeX() + "}"
		}
		if !en.approx && en.val.Cmp(big.NewRat(1, 2)) == 0 {
			return "\\sqrt{" + p.base.LaTeX() + "}"
		}
	}
	base := p.base.LaTeX()
	if needsBaseParens(p.base) {
		base = "\\left(" + base + "\\right)"
	}
	return base + "^{" + p.exp.LaTeX() + "}"
}

func needsBaseParens(e Expr) bool {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return true
	case *Num:
		return v.IsNegative() || !v.val.IsInt() && !v.approx
	}
	return false
}

func wrapBase(e Expr, s string) string {
	if needsBaseParens(e) {
		return "(" + s + ")"
	}
	return s
}

func wrapOperand(e Expr, s string) string {
	switch e.(type) {
	case *Add, *Mul:
		return "(" + s + ")"
	}
	return s
}

func wrapExp(e Expr, s string) string {
	switch v := e.(type) {
	case *Sym, *Const:
		return s
	case *Num:
		if v.val.IsInt() && !v.IsNegative() {
			return s
		}
	}
	return "(" + s + ")"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	_, expIsNum := p.exp.(*Num)
	if expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	_, baseIsNum := p.base.(*Num)
	if baseIsNum {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if b.IsZero() && !e.IsPositive() {
		return nil, false
	}
	if !b.approx && !e.approx && e.IsInteger() && e.val.Num().IsInt64() {
		if r, ok := ratPow(b.val, e.val.Num().Int64()); ok {
			return &Num{val: r}, true
		}
	}
	return floatNum(math.Pow(b.Float64(), e.Float64()))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Func — named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr  { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr   { return funcOf("ln", arg).Simplify() }
func AbsOf(arg Expr) Expr  { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }
func SignOf(arg Expr) Expr { return funcOf("sign", arg).Simplify() }

var realFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"abs":  math.Abs,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
	"sign": func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	},
}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		// Decimal arguments evaluate; exact ones stay symbolic unless the
		// value is exact too.
		if n.approx {
			if fn, ok := realFuncs[f.name]; ok {
				if v, ok := floatNum(fn(n.Float64())); ok {
					return v
				}
			}
		}
		switch f.name {
		case "sin", "tan", "asin", "atan", "sinh", "tanh":
			if n.IsZero() {
				return N(0)
			}
		case "cos", "cosh", "exp":
			if n.IsZero() {
				return N(1)
			}
		case "acos":
			if n.IsOne() {
				return N(0)
			}
		case "ln":
			if n.IsOne() {
				return N(0)
			}
		case "abs":
			return numAbs(n)
		case "sign":
			return N(int64(n.val.Sign()))
		}
	}
	switch f.name {
	case "ln":
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
		if arg.Equal(E) {
			return N(1)
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "abs":
		if m, ok := arg.(*Mul); ok {
			if coeff, ok2 := m.factors[0].(*Num); ok2 && coeff.IsNegative() {
				return AbsOf(MulOf(numNeg(coeff), MulOf(m.factors[1:]...)))
			}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if n, ok := du.(*Num); ok && n.IsZero() {
		return N(0)
	}
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = NegOf(SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(SubOf(N(1), PowOf(f.arg, N(2))), F(-1, 2))
	case "acos":
		outer = NegOf(PowOf(SubOf(N(1), PowOf(f.arg, N(2))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = SubOf(N(1), PowOf(TanhOf(f.arg), N(2)))
	case "abs":
		outer = SignOf(f.arg)
	default:
		// sign is piecewise constant.
		return N(0)
	}
	return MulOf(outer, du)
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	fn, ok := realFuncs[f.name]
	if !ok {
		return nil, false
	}
	return floatNum(fn(n.Float64()))
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}
