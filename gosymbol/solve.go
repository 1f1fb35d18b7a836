package gosymbol

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"sort"
)

var (
	ErrUnsupported   = errors.New("gosymbol: unsupported equation")
	ErrNotNumeric    = errors.New("gosymbol: expression is not numeric")
	ErrNotPolynomial = errors.New("gosymbol: expression is not a polynomial")
)

// Epsilon is the magnitude below which the solver treats a discriminant or
// an imaginary part as zero.
const Epsilon = 1e-10

const (
	maxRadicalRounds = 4
	// maxSolveSize bounds the node count of an equation the solver accepts.
	maxSolveSize = 20000
	scanLo       = -100.0
	scanHi       = 100.0
	scanSteps    = 4000
)

// ============================================================
// Solve
// ============================================================

// Root is one solution of an equation. Re is exact whenever the solver could
// keep it exact; Im is the imaginary part, zero for real roots.
type Root struct {
	Re Expr
	Im float64
}

func (r Root) IsReal(tol float64) bool { return math.Abs(r.Im) <= tol }

func (r Root) String() string {
	if r.Im == 0 {
		return r.Re.String()
	}
	if r.Im < 0 {
		return fmt.Sprintf("%s - %gi", r.Re, -r.Im)
	}
	return fmt.Sprintf("%s + %gi", r.Re, r.Im)
}

// Solve returns the roots of expr = 0 in varName.
//
// The expression is first combined into a single fraction and only the
// numerator is solved, so roots of the denominator and roots introduced by
// squaring away radicals may appear: callers are expected to verify them.
// Polynomials with rational coefficients are solved exactly where a root is
// rational or quadratic; other polynomials fall back to closed forms up to
// degree two and Durand-Kerner iteration beyond. Equations in a single
// variable that are not polynomial are scanned for sign changes over
// [-100, 100]. Anything else reports ErrUnsupported.
func Solve(ctx context.Context, expr Expr, varName string) ([]Root, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n := Size(expr); n > maxSolveSize {
		return nil, fmt.Errorf("%w: %d nodes", ErrTooLarge, n)
	}
	num, _ := Together(expr.Simplify())
	num, err := ExpandChecked(num)
	if err != nil {
		return nil, err
	}
	if n := Size(num); n > maxSolveSize {
		return nil, fmt.Errorf("%w: %d nodes", ErrTooLarge, n)
	}
	if !Has(num, varName) {
		return nil, nil
	}
	poly, err := eliminateRadicals(ctx, num, varName)
	if err != nil {
		return nil, err
	}
	if coeffs, ok := Poly(poly, varName); ok {
		roots, err := solvePoly(ctx, coeffs)
		if err != nil {
			return nil, err
		}
		sortRoots(roots)
		return roots, nil
	}
	if len(FreeSymbols(num)) == 1 {
		return scanRoots(ctx, num, varName)
	}
	return nil, fmt.Errorf("%w: %s = 0 for %s", ErrUnsupported, num, varName)
}

func sortRoots(roots []Root) {
	keys := make([]float64, len(roots))
	for i, r := range roots {
		v, ok := Float(r.Re)
		if !ok {
			return
		}
		keys[i] = v
	}
	idx := make([]int, len(roots))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := idx[i], idx[j]
		if keys[a] != keys[b] {
			return keys[a] < keys[b]
		}
		return roots[a].Im < roots[b].Im
	})
	sorted := make([]Root, len(roots))
	for i, k := range idx {
		sorted[i] = roots[k]
	}
	copy(roots, sorted)
}

// ============================================================
// Radical elimination
// ============================================================

// eliminateRadicals squares away square roots that depend on varName:
// A + B*sqrt(D) = 0 becomes A^2 - B^2*D = 0. Expressions whose radicals do
// not split that way are returned unchanged.
func eliminateRadicals(ctx context.Context, e Expr, varName string) (Expr, error) {
	for round := 0; round < maxRadicalRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base, ok := findRadical(e, varName)
		if !ok {
			return e, nil
		}
		a, b, ok := splitRadical(e, base)
		if !ok {
			return e, nil
		}
		next, err := ExpandChecked(SubOf(MulOf(a, a), MulOf(b, b, base)))
		if err != nil {
			return nil, err
		}
		e = next
	}
	return e, nil
}

func findRadical(e Expr, varName string) (Expr, bool) {
	switch v := e.(type) {
	case *Pow:
		if en, ok := v.exp.(*Num); ok && isHalfInteger(en) && Has(v.base, varName) {
			return v.base, true
		}
		return findRadical(v.base, varName)
	case *Add:
		for _, t := range v.terms {
			if b, ok := findRadical(t, varName); ok {
				return b, true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if b, ok := findRadical(f, varName); ok {
				return b, true
			}
		}
	case *Func:
		return findRadical(v.arg, varName)
	}
	return nil, false
}

func hasRadical(e, base Expr) bool {
	switch v := e.(type) {
	case *Pow:
		if en, ok := v.exp.(*Num); ok && isHalfInteger(en) && v.base.Equal(base) {
			return true
		}
		return hasRadical(v.base, base) || hasRadical(v.exp, base)
	case *Add:
		for _, t := range v.terms {
			if hasRadical(t, base) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if hasRadical(f, base) {
				return true
			}
		}
	case *Func:
		return hasRadical(v.arg, base)
	}
	return false
}

// splitRadical writes e as a + b*sqrt(base) with a and b free of that root.
func splitRadical(e, base Expr) (a, b Expr, ok bool) {
	terms := []Expr{e}
	if add, isAdd := e.(*Add); isAdd {
		terms = add.terms
	}
	inv := PowOf(base, F(-1, 2))
	var as, bs []Expr
	for _, t := range terms {
		if !hasRadical(t, base) {
			as = append(as, t)
			continue
		}
		r := MulOf(t, inv)
		if hasRadical(r, base) {
			return nil, nil, false
		}
		bs = append(bs, r)
	}
	return AddOf(as...), AddOf(bs...), true
}

// ============================================================
// Polynomials
// ============================================================

func solvePoly(ctx context.Context, coeffs []Expr) ([]Root, error) {
	deg := len(coeffs) - 1
	if deg < 1 {
		return nil, nil
	}
	if rats, ok := rationalCoeffs(coeffs); ok {
		return solveRational(ctx, rats)
	}
	switch deg {
	case 1:
		return []Root{linearRoot(coeffs[0], coeffs[1])}, nil
	case 2:
		return quadraticRoots(coeffs[0], coeffs[1], coeffs[2]), nil
	}
	cs := make([]complex128, len(coeffs))
	for i, c := range coeffs {
		z, ok := EvalComplex(c)
		if !ok {
			return nil, fmt.Errorf("%w: degree %d polynomial with symbolic coefficients", ErrUnsupported, deg)
		}
		cs[i] = z
	}
	zs, err := numericRoots(ctx, cs)
	if err != nil {
		return nil, err
	}
	return approxRoots(zs), nil
}

func rationalCoeffs(coeffs []Expr) ([]*big.Rat, bool) {
	rats := make([]*big.Rat, len(coeffs))
	for i, c := range coeffs {
		n, ok := c.(*Num)
		if !ok || n.approx {
			return nil, false
		}
		rats[i] = n.val
	}
	return rats, true
}

func linearRoot(c0, c1 Expr) Root {
	return Root{Re: Expand(NegOf(QuoOf(c0, c1)))}
}

// quadraticRoots solves c2*v^2 + c1*v + c0 = 0, the root with the negative
// square root first. A numeric discriminant decides between a double root,
// a complex pair and two real roots.
func quadraticRoots(c0, c1, c2 Expr) []Root {
	disc := Expand(SubOf(PowOf(c1, N(2)), MulOf(N(4), c2, c0)))
	twoA := MulOf(N(2), c2)
	center := Expand(QuoOf(NegOf(c1), twoA))
	if len(FreeSymbols(disc)) == 0 {
		if d, ok := EvalComplex(disc); ok && math.Abs(imag(d)) <= Epsilon {
			dv := real(d)
			switch {
			case math.Abs(dv) <= Epsilon:
				return []Root{{Re: center}}
			case dv < 0:
				if ta, ok := EvalComplex(twoA); ok && ta != 0 {
					im := math.Sqrt(-dv) / cmplx.Abs(ta)
					return []Root{{Re: center, Im: -im}, {Re: center, Im: im}}
				}
			}
		}
	}
	sq := SqrtOf(disc)
	return []Root{
		{Re: Expand(QuoOf(SubOf(NegOf(c1), sq), twoA))},
		{Re: Expand(QuoOf(AddOf(NegOf(c1), sq), twoA))},
	}
}

// solveRational finds exact rational roots by rounding numeric
// approximations onto candidate fractions and checking them exactly,
// deflating as it goes. What remains is solved as a quadratic, or
// numerically.
func solveRational(ctx context.Context, p []*big.Rat) ([]Root, error) {
	var roots []Root
	if p[0].Sign() == 0 {
		roots = append(roots, Root{Re: N(0)})
		for len(p) > 1 && p[0].Sign() == 0 {
			p = p[1:]
		}
	}
	for len(p)-1 >= 3 {
		r, ok, err := rationalRoot(ctx, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		roots = append(roots, Root{Re: NRat(r)})
		p = deflate(p, r)
	}
	exprs := make([]Expr, len(p))
	for i, c := range p {
		exprs[i] = NRat(c)
	}
	switch len(p) - 1 {
	case 0:
	case 1:
		roots = append(roots, linearRoot(exprs[0], exprs[1]))
	case 2:
		roots = append(roots, quadraticRoots(exprs[0], exprs[1], exprs[2])...)
	default:
		cs := make([]complex128, len(p))
		for i, c := range p {
			f, _ := c.Float64()
			cs[i] = complex(f, 0)
		}
		zs, err := numericRoots(ctx, cs)
		if err != nil {
			return nil, err
		}
		roots = append(roots, approxRoots(zs)...)
	}
	return dedupeRoots(roots), nil
}

func rationalRoot(ctx context.Context, p []*big.Rat) (*big.Rat, bool, error) {
	cs := make([]complex128, len(p))
	for i, c := range p {
		f, _ := c.Float64()
		cs[i] = complex(f, 0)
	}
	zs, err := numericRoots(ctx, cs)
	if err != nil {
		return nil, false, err
	}
	dens := denominatorCandidates(p)
	// Multiple roots come back smeared into small complex clusters, so any
	// approximation that could round to a real candidate is tried.
	for _, z := range zs {
		if math.Abs(imag(z)) > 0.5 {
			continue
		}
		for _, q := range dens {
			pn := math.Round(real(z) * float64(q))
			if math.Abs(pn) > 1<<53 {
				continue
			}
			cand := big.NewRat(int64(pn), q)
			if hornerRat(p, cand).Sign() == 0 {
				return cand, true, nil
			}
		}
	}
	return nil, false, nil
}

// denominatorCandidates lists the divisors of the leading coefficient of p
// scaled to integers; by the rational root theorem a rational root's
// denominator is among them.
func denominatorCandidates(p []*big.Rat) []int64 {
	lcm := big.NewInt(1)
	for _, c := range p {
		d := c.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	lead := new(big.Int).Mul(p[len(p)-1].Num(), new(big.Int).Quo(lcm, p[len(p)-1].Denom()))
	lead.Abs(lead)
	if !lead.IsInt64() || lead.Int64() > 1e12 {
		return []int64{1}
	}
	n := lead.Int64()
	var small, large []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d == 0 {
			small = append(small, d)
			if d != n/d {
				large = append(large, n/d)
			}
		}
	}
	for i := len(large) - 1; i >= 0; i-- {
		small = append(small, large[i])
	}
	return small
}

func hornerRat(p []*big.Rat, x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p[i])
	}
	return acc
}

// deflate divides p by (v - r), dropping the zero remainder.
func deflate(p []*big.Rat, r *big.Rat) []*big.Rat {
	n := len(p) - 1
	q := make([]*big.Rat, n)
	carry := new(big.Rat)
	for i := n; i >= 1; i-- {
		c := new(big.Rat).Mul(carry, r)
		c.Add(c, p[i])
		q[i-1] = c
		carry = c
	}
	return q
}

func dedupeRoots(roots []Root) []Root {
	out := roots[:0]
	for _, r := range roots {
		dup := false
		for _, o := range out {
			if o.Im == r.Im && o.Re.Equal(r.Re) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}

func approxRoots(zs []complex128) []Root {
	roots := make([]Root, len(zs))
	for i, z := range zs {
		roots[i] = Root{Re: NFloat(real(z)), Im: imag(z)}
	}
	return roots
}

// numericRoots approximates all complex roots of the polynomial with
// coefficients cs (lowest degree first) by Durand-Kerner iteration followed
// by a few Newton steps.
func numericRoots(ctx context.Context, cs []complex128) ([]complex128, error) {
	n := len(cs) - 1
	if n < 1 {
		return nil, nil
	}
	lead := cs[n]
	a := make([]complex128, n+1)
	bound := 0.0
	for i, c := range cs {
		a[i] = c / lead
		if i < n && cmplx.Abs(a[i]) > bound {
			bound = cmplx.Abs(a[i])
		}
	}
	bound++
	if n == 1 {
		return []complex128{-a[0]}, nil
	}

	z := make([]complex128, n)
	for i := range z {
		theta := 2*math.Pi*float64(i)/float64(n) + 0.4
		z[i] = complex(bound*math.Cos(theta), bound*math.Sin(theta))
	}
	for iter := 0; iter < 1000; iter++ {
		if iter%32 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		maxStep := 0.0
		for i := range z {
			den := complex(1, 0)
			for j := range z {
				if j != i {
					den *= z[i] - z[j]
				}
			}
			if den == 0 {
				den = complex(1e-12, 0)
			}
			step := horner(a, z[i]) / den
			z[i] -= step
			if s := cmplx.Abs(step); s > maxStep {
				maxStep = s
			}
		}
		if maxStep <= 1e-15*bound {
			break
		}
	}
	for i := range z {
		for k := 0; k < 3; k++ {
			d := hornerDeriv(a, z[i])
			if d == 0 {
				break
			}
			z[i] -= horner(a, z[i]) / d
		}
		if math.Abs(imag(z[i])) <= 1e-12*(1+math.Abs(real(z[i]))) {
			z[i] = complex(real(z[i]), 0)
		}
	}
	return z, nil
}

func horner(a []complex128, x complex128) complex128 {
	var acc complex128
	for i := len(a) - 1; i >= 0; i-- {
		acc = acc*x + a[i]
	}
	return acc
}

func hornerDeriv(a []complex128, x complex128) complex128 {
	var acc complex128
	for i := len(a) - 1; i >= 1; i-- {
		acc = acc*x + complex(float64(i), 0)*a[i]
	}
	return acc
}

// ============================================================
// Real scan
// ============================================================

// scanRoots locates real roots of a one-variable expression by sampling for
// sign changes and bisecting. Sign changes across poles are discarded.
func scanRoots(ctx context.Context, e Expr, varName string) ([]Root, error) {
	f := func(x float64) (float64, bool) {
		return evalReal(e, map[string]float64{varName: x})
	}
	var xs []float64
	add := func(x float64) {
		for _, o := range xs {
			if math.Abs(o-x) <= 1e-9*(1+math.Abs(x)) {
				return
			}
		}
		xs = append(xs, x)
	}
	var prevX, prevY float64
	prevOK := false
	for i := 0; i <= scanSteps; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		x := scanLo + (scanHi-scanLo)*float64(i)/scanSteps
		y, ok := f(x)
		switch {
		case ok && y == 0:
			add(x)
		case ok && prevOK && prevY != 0 && (y > 0) != (prevY > 0):
			if r, fr, found := bisect(f, prevX, x); found && math.Abs(fr) <= 1e-6 {
				add(r)
			}
		}
		prevX, prevY, prevOK = x, y, ok
	}
	sort.Float64s(xs)
	roots := make([]Root, len(xs))
	for i, x := range xs {
		roots[i] = Root{Re: NFloat(x)}
	}
	return roots, nil
}

func bisect(f func(float64) (float64, bool), lo, hi float64) (x, fx float64, ok bool) {
	flo, ok := f(lo)
	if !ok {
		return 0, 0, false
	}
	for i := 0; i < 200; i++ {
		mid := lo + (hi-lo)/2
		fm, ok := f(mid)
		if !ok {
			return 0, 0, false
		}
		if fm == 0 || hi-lo <= 1e-15*(1+math.Abs(mid)) {
			return mid, fm, true
		}
		if (fm > 0) == (flo > 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	mid := lo + (hi-lo)/2
	fm, ok := f(mid)
	return mid, fm, ok
}
