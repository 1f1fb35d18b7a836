package gosymbol

import (
	"errors"
	"fmt"
)

// ============================================================
// Expansion
// ============================================================

const (
	// maxExpandPower bounds the integer powers of sums that Expand multiplies out.
	maxExpandPower = 10
	// maxExpandTerms bounds the number of term products formed in one
	// distribution step.
	maxExpandTerms = 4096
	// maxExpandRounds bounds how often Expand re-expands its own output.
	maxExpandRounds = 8
)

// ErrTooLarge reports that an expansion would exceed maxExpandTerms.
var ErrTooLarge = errors.New("gosymbol: expression too large to expand")

// Expand distributes products over sums and multiplies out small integer
// powers of sums. Merging radicals can turn a product back into a sum
// (sqrt(u)*sqrt(u) = u), so expansion repeats until the result settles.
// An expression too large to expand is returned unchanged.
func Expand(e Expr) Expr {
	out, err := ExpandChecked(e)
	if err != nil {
		return e
	}
	return out
}

// ExpandChecked is Expand, reporting ErrTooLarge instead of giving up
// silently.
func ExpandChecked(e Expr) (Expr, error) {
	cur, err := expandExpr(e)
	if err != nil {
		return nil, err
	}
	cur = cur.Simplify()
	for i := 0; i < maxExpandRounds; i++ {
		next, err := expandExpr(cur)
		if err != nil {
			return nil, err
		}
		next = next.Simplify()
		if next.Equal(cur) {
			return next, nil
		}
		cur = next
	}
	return cur, nil
}

// expandExpr recurses only into the subexpressions of e. Products it builds
// are never expanded again here, since simplifying them may fold equal sums
// back into a power.
func expandExpr(e Expr) (Expr, error) {
	switch v := e.(type) {
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			ef, err := expandExpr(f)
			if err != nil {
				return nil, err
			}
			factors[i] = ef
		}
		return distribute(factors)
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			et, err := expandExpr(t)
			if err != nil {
				return nil, err
			}
			terms[i] = et
		}
		return AddOf(terms...), nil
	case *Pow:
		base, err := expandExpr(v.base)
		if err != nil {
			return nil, err
		}
		n, ok := v.exp.(*Num)
		if _, isAdd := base.(*Add); isAdd && ok && n.IsInteger() && !n.approx {
			if exp := n.val.Num().Int64(); exp >= 2 && exp <= maxExpandPower {
				result := base
				for i := int64(1); i < exp; i++ {
					if result, err = distribute([]Expr{result, base}); err != nil {
						return nil, err
					}
				}
				return result, nil
			}
		}
		return PowOf(base, v.exp), nil
	}
	return e, nil
}

// distribute multiplies factors out term by term. MulOf only ever sees one
// term of each sum, and like terms are collected after every factor.
func distribute(factors []Expr) (Expr, error) {
	acc := Expr(N(1))
	for _, f := range factors {
		left, right := addTerms(acc), addTerms(f)
		if len(left)*len(right) > maxExpandTerms {
			return nil, fmt.Errorf("%w: %d terms", ErrTooLarge, len(left)*len(right))
		}
		products := make([]Expr, 0, len(left)*len(right))
		for _, t := range left {
			for _, u := range right {
				products = append(products, MulOf(t, u))
			}
		}
		acc = AddOf(products...)
	}
	return acc, nil
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Rational combination
// ============================================================

// Together rewrites e as a single fraction num/den. Sums whose terms share a
// denominator are combined without multiplying the denominators out, and
// negative powers move to the denominator. Function arguments are left as
// they are.
func Together(e Expr) (num, den Expr) {
	switch v := e.(type) {
	case *Pow:
		en, ok := v.exp.(*Num)
		if !ok {
			return v, N(1)
		}
		bn, bd := Together(v.base)
		if en.IsNegative() {
			ne := numNeg(en)
			return PowOf(bd, ne), PowOf(bn, ne)
		}
		return PowOf(bn, en), PowOf(bd, en)
	case *Mul:
		nums := make([]Expr, 0, len(v.factors))
		dens := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			n, d := Together(f)
			nums = append(nums, n)
			dens = append(dens, d)
		}
		return MulOf(nums...), MulOf(dens...)
	case *Add:
		num, den = N(0), N(1)
		for _, t := range v.terms {
			tn, td := Together(t)
			if td.Equal(den) {
				num = AddOf(num, tn)
				continue
			}
			num = AddOf(MulOf(num, td), MulOf(tn, den))
			den = MulOf(den, td)
		}
		return num, den
	}
	return e, N(1)
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// Has reports whether varName occurs in e.
func Has(e Expr, varName string) bool {
	switch v := e.(type) {
	case *Sym:
		return v.name == varName
	case *Add:
		for _, t := range v.terms {
			if Has(t, varName) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if Has(f, varName) {
				return true
			}
		}
	case *Pow:
		return Has(v.base, varName) || Has(v.exp, varName)
	case *Func:
		return Has(v.arg, varName)
	}
	return false
}

// Size counts the nodes of e.
func Size(e Expr) int {
	switch v := e.(type) {
	case *Add:
		n := 1
		for _, t := range v.terms {
			n += Size(t)
		}
		return n
	case *Mul:
		n := 1
		for _, f := range v.factors {
			n += Size(f)
		}
		return n
	case *Pow:
		return 1 + Size(v.base) + Size(v.exp)
	case *Func:
		return 1 + Size(v.arg)
	}
	return 1
}

// ============================================================
// Polynomial utilities
// ============================================================

// Poly returns the coefficients of the expanded form of expr as a polynomial
// in varName, lowest degree first. ok is false when varName occurs other than
// in non-negative integer powers.
func Poly(expr Expr, varName string) (coeffs []Expr, ok bool) {
	expr = Expand(expr)
	terms := []Expr{expr}
	if a, isAdd := expr.(*Add); isAdd {
		terms = a.terms
	}
	byDegree := map[int][]Expr{}
	maxDeg := 0
	for _, t := range terms {
		deg, coeff, ok := monomial(t, varName)
		if !ok {
			return nil, false
		}
		byDegree[deg] = append(byDegree[deg], coeff)
		if deg > maxDeg {
			maxDeg = deg
		}
	}
	coeffs = make([]Expr, maxDeg+1)
	for d := range coeffs {
		if cs, found := byDegree[d]; found {
			coeffs[d] = AddOf(cs...)
		} else {
			coeffs[d] = N(0)
		}
	}
	// Trailing coefficients can cancel to zero.
	for len(coeffs) > 1 {
		if n, isNum := coeffs[len(coeffs)-1].(*Num); isNum && n.IsZero() {
			coeffs = coeffs[:len(coeffs)-1]
			continue
		}
		break
	}
	return coeffs, true
}

func monomial(t Expr, varName string) (deg int, coeff Expr, ok bool) {
	if !Has(t, varName) {
		return 0, t, true
	}
	switch v := t.(type) {
	case *Sym:
		return 1, N(1), true
	case *Pow:
		if sym, isSym := v.base.(*Sym); isSym && sym.name == varName {
			if n, isNum := v.exp.(*Num); isNum && n.IsInteger() && n.IsPositive() && n.val.Num().IsInt64() {
				return int(n.val.Num().Int64()), N(1), true
			}
		}
	case *Mul:
		coeffFactors := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			d, c, fok := monomial(f, varName)
			if !fok {
				return 0, nil, false
			}
			deg += d
			coeffFactors = append(coeffFactors, c)
		}
		return deg, MulOf(coeffFactors...), true
	}
	return 0, nil, false
}

// Degree returns the degree of expr in varName, or -1 when expr is not a
// polynomial in it.
func Degree(expr Expr, varName string) int {
	coeffs, ok := Poly(expr, varName)
	if !ok {
		return -1
	}
	return len(coeffs) - 1
}
