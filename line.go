package tangent

import "github.com/njchilds90/gotangent/gosymbol"

// BuildEquation returns the left-hand side of the tangent line equation
// through p with slope s: x - x0 for a vertical slope, otherwise
// s*x - y - s*x0 + y0, expanded. Decimal mode converts the result to
// decimals.
func BuildEquation(s Slope, p Point, mode Mode) gosymbol.Expr {
	x, y := gosymbol.S(VarX), gosymbol.S(VarY)
	var eq gosymbol.Expr
	if s.IsVertical() {
		eq = gosymbol.Expand(gosymbol.SubOf(x, p.X))
	} else {
		m := s.Value()
		eq = gosymbol.Expand(gosymbol.AddOf(
			gosymbol.MulOf(m, x),
			gosymbol.NegOf(y),
			gosymbol.NegOf(gosymbol.MulOf(m, p.X)),
			p.Y,
		))
	}
	if mode == Decimal {
		return gosymbol.Evalf(eq)
	}
	return eq
}

func newLine(s Slope, p Point, mode Mode) Line {
	eq := BuildEquation(s, p, mode)
	if mode == Decimal {
		s, p = s.evalf(), p.evalf()
	}
	return Line{Slope: s, X: p.X, Y: p.Y, Equation: eq}
}
