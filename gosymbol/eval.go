package gosymbol

import (
	"math"
	"math/cmplx"
)

// ============================================================
// Numeric evaluation
// ============================================================

// Evalf replaces every number and constant in e by a decimal approximation
// and re-simplifies, so numeric sub-expressions collapse to single decimals.
func Evalf(e Expr) Expr {
	switch v := e.(type) {
	case *Num:
		return v.approximate()
	case *Const:
		return NFloat(v.val)
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = Evalf(t)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = Evalf(f)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(Evalf(v.base), Evalf(v.exp))
	case *Func:
		return funcOf(v.name, Evalf(v.arg)).Simplify()
	}
	return e
}

// Float evaluates a closed expression to a float64. ok is false when e has
// free symbols or no real value.
func Float(e Expr) (float64, bool) {
	return evalReal(e, nil)
}

var complexFuncs = map[string]func(complex128) complex128{
	"sin":  cmplx.Sin,
	"cos":  cmplx.Cos,
	"tan":  cmplx.Tan,
	"exp":  cmplx.Exp,
	"ln":   cmplx.Log,
	"asin": cmplx.Asin,
	"acos": cmplx.Acos,
	"atan": cmplx.Atan,
	"sinh": cmplx.Sinh,
	"cosh": cmplx.Cosh,
	"tanh": cmplx.Tanh,
	"abs":  func(z complex128) complex128 { return complex(cmplx.Abs(z), 0) },
}

// EvalComplex evaluates a closed expression over the complex numbers, taking
// principal branches. Square roots of negative numbers are imaginary here,
// where Eval reports no value.
func EvalComplex(e Expr) (complex128, bool) {
	var z complex128
	switch v := e.(type) {
	case *Num:
		z = complex(v.Float64(), 0)
	case *Const:
		z = complex(v.val, 0)
	case *Add:
		for _, t := range v.terms {
			tz, ok := EvalComplex(t)
			if !ok {
				return 0, false
			}
			z += tz
		}
	case *Mul:
		z = 1
		for _, f := range v.factors {
			fz, ok := EvalComplex(f)
			if !ok {
				return 0, false
			}
			z *= fz
		}
	case *Pow:
		b, ok1 := EvalComplex(v.base)
		x, ok2 := EvalComplex(v.exp)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch {
		case b == 0 && real(x) <= 0:
			return 0, false
		case x == 0.5:
			z = cmplx.Sqrt(b)
		case x == -0.5:
			z = 1 / cmplx.Sqrt(b)
		case imag(x) == 0 && imag(b) == 0 && real(x) == math.Trunc(real(x)):
			z = complex(math.Pow(real(b), real(x)), 0)
		default:
			z = cmplx.Pow(b, x)
		}
	case *Func:
		a, ok := EvalComplex(v.arg)
		if !ok {
			return 0, false
		}
		if v.name == "sign" {
			r, ok := Float(v)
			return complex(r, 0), ok
		}
		fn, ok := complexFuncs[v.name]
		if !ok {
			return 0, false
		}
		z = fn(a)
	default:
		return 0, false
	}
	if cmplx.IsNaN(z) || cmplx.IsInf(z) {
		return 0, false
	}
	return z, true
}

// evalReal evaluates e over the reals with the symbols bound in env.
func evalReal(e Expr, env map[string]float64) (float64, bool) {
	var r float64
	switch v := e.(type) {
	case *Num:
		r = v.Float64()
	case *Const:
		r = v.val
	case *Sym:
		val, ok := env[v.name]
		if !ok {
			return 0, false
		}
		r = val
	case *Add:
		for _, t := range v.terms {
			tv, ok := evalReal(t, env)
			if !ok {
				return 0, false
			}
			r += tv
		}
	case *Mul:
		r = 1
		for _, f := range v.factors {
			fv, ok := evalReal(f, env)
			if !ok {
				return 0, false
			}
			r *= fv
		}
	case *Pow:
		b, ok1 := evalReal(v.base, env)
		x, ok2 := evalReal(v.exp, env)
		if !ok1 || !ok2 {
			return 0, false
		}
		r = math.Pow(b, x)
	case *Func:
		a, ok := evalReal(v.arg, env)
		if !ok {
			return 0, false
		}
		fn, ok := realFuncs[v.name]
		if !ok {
			return 0, false
		}
		r = fn(a)
	default:
		return 0, false
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// Magnitude returns |e| for a closed expression, evaluated over the complex
// numbers.
func Magnitude(e Expr) (float64, bool) {
	z, ok := EvalComplex(e)
	if !ok {
		return 0, false
	}
	return cmplx.Abs(z), true
}
