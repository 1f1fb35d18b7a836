package gosymbol_test

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/njchilds90/gotangent/gosymbol"
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := gosymbol.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := gosymbol.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	n := gosymbol.F(2, 5)
	if n.LaTeX() != `\frac{2}{5}` {
		t.Errorf("want \\frac{2}{5}, got %s", n.LaTeX())
	}
}

func TestNum_Decimal(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.75, "0.75"},
		{2, "2.0"},
		{-6.25, "-6.25"},
	}
	for _, c := range cases {
		if got := gosymbol.NFloat(c.in).String(); got != c.want {
			t.Errorf("NFloat(%v): want %s, got %s", c.in, c.want, got)
		}
	}
}

func TestNum_DecimalArithmeticStaysDecimal(t *testing.T) {
	got := gosymbol.AddOf(gosymbol.NFloat(0.5), gosymbol.N(2))
	if got.String() != "2.5" {
		t.Errorf("want 2.5, got %s", got)
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	result := gosymbol.N(5).Diff("x")
	if gosymbol.String(result) != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", gosymbol.String(result))
	}
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_Sub_Match(t *testing.T) {
	x := gosymbol.S("x")
	result := x.Sub("x", gosymbol.N(3))
	if gosymbol.String(result) != "3" {
		t.Errorf("want 3, got %s", gosymbol.String(result))
	}
}

func TestSym_Sub_NoMatch(t *testing.T) {
	x := gosymbol.S("x")
	result := x.Sub("y", gosymbol.N(3))
	if gosymbol.String(result) != "x" {
		t.Errorf("want x, got %s", gosymbol.String(result))
	}
}

// ============================================================
// Add / Mul / Pow simplification
// ============================================================

func TestAdd_CollectsLikeTerms(t *testing.T) {
	x := gosymbol.S("x")
	got := gosymbol.AddOf(x, x, gosymbol.N(1))
	if got.String() != "2*x + 1" {
		t.Errorf("want 2*x + 1, got %s", got)
	}
}

func TestAdd_CancelsToZero(t *testing.T) {
	x := gosymbol.S("x")
	got := gosymbol.SubOf(x, x)
	if got.String() != "0" {
		t.Errorf("want 0, got %s", got)
	}
}

func TestAdd_OrdersByDegree(t *testing.T) {
	x := gosymbol.S("x")
	got := gosymbol.AddOf(gosymbol.N(5), x, gosymbol.PowOf(x, gosymbol.N(2)))
	if got.String() != "x^2 + x + 5" {
		t.Errorf("want x^2 + x + 5, got %s", got)
	}
}

func TestAdd_PrintsSubtraction(t *testing.T) {
	got := gosymbol.SubOf(gosymbol.S("x"), gosymbol.S("y"))
	if got.String() != "x - y" {
		t.Errorf("want x - y, got %s", got)
	}
}

func TestMul_Fraction(t *testing.T) {
	got := gosymbol.MulOf(gosymbol.F(-3, 4), gosymbol.S("x"))
	if got.String() != "-3*x/4" {
		t.Errorf("want -3*x/4, got %s", got)
	}
}

func TestMul_Denominator(t *testing.T) {
	got := gosymbol.QuoOf(gosymbol.NegOf(gosymbol.S("x")), gosymbol.S("y"))
	if got.String() != "-x/y" {
		t.Errorf("want -x/y, got %s", got)
	}
}

func TestMul_CancelsCommonFactor(t *testing.T) {
	x, y := gosymbol.S("x"), gosymbol.S("y")
	got := gosymbol.QuoOf(gosymbol.MulOf(gosymbol.N(-2), x), gosymbol.MulOf(gosymbol.N(2), y))
	if got.String() != "-x/y" {
		t.Errorf("want -x/y, got %s", got)
	}
}

func TestMul_MergesPowers(t *testing.T) {
	x := gosymbol.S("x")
	if got := gosymbol.MulOf(x, x); got.String() != "x^2" {
		t.Errorf("want x^2, got %s", got)
	}
	if got := gosymbol.MulOf(gosymbol.PowOf(x, gosymbol.N(2)), gosymbol.PowOf(x, gosymbol.N(-1))); got.String() != "x" {
		t.Errorf("want x, got %s", got)
	}
}

func TestPow_Surds(t *testing.T) {
	cases := []struct {
		name string
		got  gosymbol.Expr
		want string
	}{
		{"sqrt(8)", gosymbol.SqrtOf(gosymbol.N(8)), "2*sqrt(2)"},
		{"sqrt(4)", gosymbol.SqrtOf(gosymbol.N(4)), "2"},
		{"sqrt(1/2)", gosymbol.SqrtOf(gosymbol.F(1, 2)), "sqrt(2)/2"},
		{"2^(-1/2)", gosymbol.PowOf(gosymbol.N(2), gosymbol.F(-1, 2)), "sqrt(2)/2"},
		{"sqrt(-4)", gosymbol.SqrtOf(gosymbol.N(-4)), "sqrt(-4)"},
		{"sqrt(2)*sqrt(2)", gosymbol.MulOf(gosymbol.SqrtOf(gosymbol.N(2)), gosymbol.SqrtOf(gosymbol.N(2))), "2"},
	}
	for _, c := range cases {
		if c.got.String() != c.want {
			t.Errorf("%s: want %s, got %s", c.name, c.want, c.got)
		}
	}
}

func TestPow_PullsContentOutOfRadical(t *testing.T) {
	a := gosymbol.S("a")
	radicand := gosymbol.AddOf(gosymbol.N(100), gosymbol.MulOf(gosymbol.N(-4), gosymbol.PowOf(a, gosymbol.N(2))))
	got := gosymbol.SqrtOf(radicand)
	if got.String() != "2*sqrt(-a^2 + 25)" {
		t.Errorf("want 2*sqrt(-a^2 + 25), got %s", got)
	}
}

func TestPow_ZeroToNegativeStaysUnevaluated(t *testing.T) {
	got := gosymbol.PowOf(gosymbol.N(0), gosymbol.N(-1))
	if _, ok := got.Eval(); ok {
		t.Errorf("0^-1 should have no value, got %s", got)
	}
}

// ============================================================
// Differentiation
// ============================================================

func TestDiff_Chain(t *testing.T) {
	x := gosymbol.S("x")
	got := gosymbol.Diff(gosymbol.SinOf(gosymbol.PowOf(x, gosymbol.N(2))), "x")
	if got.String() != "2*cos(x^2)*x" {
		t.Errorf("want 2*cos(x^2)*x, got %s", got)
	}
}

func TestDiff_Partial(t *testing.T) {
	f := gosymbol.MustParse("x^2 + y^2 - 25", "x", "y")
	if got := gosymbol.Diff(f, "y"); got.String() != "2*y" {
		t.Errorf("want 2*y, got %s", got)
	}
	if got := gosymbol.Diff(f, "x"); got.String() != "2*x" {
		t.Errorf("want 2*x, got %s", got)
	}
}

func TestDiff_Abs(t *testing.T) {
	got := gosymbol.Diff(gosymbol.AbsOf(gosymbol.S("x")), "x")
	if got.String() != "sign(x)" {
		t.Errorf("want sign(x), got %s", got)
	}
}

// ============================================================
// Algebra
// ============================================================

func TestExpand_Square(t *testing.T) {
	x := gosymbol.S("x")
	got := gosymbol.Expand(gosymbol.PowOf(gosymbol.AddOf(x, gosymbol.N(1)), gosymbol.N(2)))
	if got.String() != "x^2 + 2*x + 1" {
		t.Errorf("want x^2 + 2*x + 1, got %s", got)
	}
}

func TestExpand_ProductOfEqualSums(t *testing.T) {
	x := gosymbol.S("x")
	s := gosymbol.AddOf(x, gosymbol.N(1))
	if got := gosymbol.Expand(gosymbol.MulOf(s, s)); got.String() != "x^2 + 2*x + 1" {
		t.Errorf("want x^2 + 2*x + 1, got %s", got)
	}
	if got := gosymbol.Expand(gosymbol.PowOf(s, gosymbol.N(3))); got.String() != "x^3 + 3*x^2 + 3*x + 1" {
		t.Errorf("want x^3 + 3*x^2 + 3*x + 1, got %s", got)
	}
	d := gosymbol.SubOf(x, gosymbol.N(1))
	if got := gosymbol.Expand(gosymbol.MulOf(s, d, s)); got.String() != "x^3 + x^2 - x - 1" {
		t.Errorf("want x^3 + x^2 - x - 1, got %s", got)
	}
}

func TestExpandChecked_TooLarge(t *testing.T) {
	terms := make([]gosymbol.Expr, 70)
	for i := range terms {
		terms[i] = gosymbol.S(fmt.Sprintf("s%d", i))
	}
	sum := gosymbol.AddOf(terms...)
	_, err := gosymbol.ExpandChecked(gosymbol.PowOf(sum, gosymbol.N(2)))
	if !errors.Is(err, gosymbol.ErrTooLarge) {
		t.Fatalf("want ErrTooLarge, got %v", err)
	}
	e := gosymbol.PowOf(sum, gosymbol.N(2))
	if got := gosymbol.Expand(e); !got.Equal(e) {
		t.Errorf("Expand should leave an oversized expression unchanged, got %s", got)
	}
}

func TestExpand_RadicalProduct(t *testing.T) {
	x := gosymbol.S("x")
	r := gosymbol.SqrtOf(gosymbol.AddOf(x, gosymbol.N(1)))
	got := gosymbol.Expand(gosymbol.MulOf(gosymbol.N(3), r, r))
	if got.String() != "3*x + 3" {
		t.Errorf("want 3*x + 3, got %s", got)
	}
}

func TestTogether(t *testing.T) {
	x, y := gosymbol.S("x"), gosymbol.S("y")
	num, den := gosymbol.Together(gosymbol.AddOf(gosymbol.PowOf(x, gosymbol.N(-1)), gosymbol.PowOf(y, gosymbol.N(-1))))
	if num.String() != "x + y" {
		t.Errorf("numerator: want x + y, got %s", num)
	}
	if den.String() != "x*y" {
		t.Errorf("denominator: want x*y, got %s", den)
	}
}

func TestPoly(t *testing.T) {
	f := gosymbol.MustParse("x^2*y + 3*x - 2", "x", "y")
	coeffs, ok := gosymbol.Poly(f, "x")
	if !ok {
		t.Fatal("expected a polynomial in x")
	}
	want := []string{"-2", "3", "y"}
	if len(coeffs) != len(want) {
		t.Fatalf("want %d coefficients, got %d", len(want), len(coeffs))
	}
	for i, c := range coeffs {
		if c.String() != want[i] {
			t.Errorf("coefficient %d: want %s, got %s", i, want[i], c)
		}
	}
}

func TestPoly_RejectsTranscendental(t *testing.T) {
	if _, ok := gosymbol.Poly(gosymbol.MustParse("sin(x) + x", "x"), "x"); ok {
		t.Error("sin(x) + x is not a polynomial in x")
	}
	if d := gosymbol.Degree(gosymbol.MustParse("sqrt(x)", "x"), "x"); d != -1 {
		t.Errorf("want -1, got %d", d)
	}
}

func TestFreeSymbols(t *testing.T) {
	syms := gosymbol.FreeSymbols(gosymbol.MustParse("x*sin(y) + pi", "x", "y"))
	if len(syms) != 2 {
		t.Errorf("want 2 free symbols, got %d", len(syms))
	}
	if !gosymbol.Has(gosymbol.MustParse("exp(y)", "y"), "y") {
		t.Error("exp(y) has y")
	}
}

// ============================================================
// Evaluation
// ============================================================

func TestEvalf(t *testing.T) {
	if got := gosymbol.Evalf(gosymbol.F(25, 4)); got.String() != "6.25" {
		t.Errorf("want 6.25, got %s", got)
	}
	if got := gosymbol.Evalf(gosymbol.MulOf(gosymbol.F(-3, 4), gosymbol.S("x"))); got.String() != "-0.75*x" {
		t.Errorf("want -0.75*x, got %s", got)
	}
	f, ok := gosymbol.Float(gosymbol.Evalf(gosymbol.SqrtOf(gosymbol.N(2))))
	if !ok || math.Abs(f-math.Sqrt2) > 1e-12 {
		t.Errorf("want %v, got %v (ok=%v)", math.Sqrt2, f, ok)
	}
}

func TestEvalComplex_NegativeRoot(t *testing.T) {
	z, ok := gosymbol.EvalComplex(gosymbol.SqrtOf(gosymbol.N(-4)))
	if !ok || cmplx.Abs(z-2i) > 1e-12 {
		t.Errorf("want 2i, got %v (ok=%v)", z, ok)
	}
	if _, ok := gosymbol.SqrtOf(gosymbol.N(-4)).Eval(); ok {
		t.Error("real evaluation of sqrt(-4) should fail")
	}
}

func TestConst_Pi(t *testing.T) {
	f, ok := gosymbol.Float(gosymbol.MulOf(gosymbol.N(2), gosymbol.Pi))
	if !ok || math.Abs(f-2*math.Pi) > 1e-12 {
		t.Errorf("want 2*pi, got %v", f)
	}
}

// ============================================================
// Matrix
// ============================================================

func TestDet(t *testing.T) {
	n := gosymbol.N
	if got := gosymbol.Det([][]gosymbol.Expr{{n(1), n(2)}, {n(3), n(4)}}); got.String() != "-2" {
		t.Errorf("want -2, got %s", got)
	}
	x := gosymbol.S("x")
	m := [][]gosymbol.Expr{
		{x, n(1), n(0)},
		{n(0), x, n(1)},
		{n(1), n(0), x},
	}
	if got := gosymbol.Det(m); got.String() != "x^3 + 1" {
		t.Errorf("want x^3 + 1, got %s", got)
	}
}

func TestResultant_EliminatesVariable(t *testing.T) {
	circle := gosymbol.MustParse("x^2 + y^2 - 25", "x", "y")
	diagonal := gosymbol.MustParse("y - x", "x", "y")
	got, err := gosymbol.Resultant(circle, diagonal, "y")
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "2*x^2 - 25" {
		t.Errorf("want 2*x^2 - 25, got %s", got)
	}
}
