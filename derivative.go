package tangent

import (
	"fmt"

	"github.com/njchilds90/gotangent/gosymbol"
)

// Derivative is the implicit derivative dy/dx = -F_x/F_y of a curve. The
// numerator and denominator are kept apart so that evaluating at a point
// where F_y vanishes gives a vertical slope instead of a division by zero.
type Derivative struct {
	Expr gosymbol.Expr
	Num  gosymbol.Expr
	Den  gosymbol.Expr
}

func Differentiate(c Curve) Derivative {
	num := gosymbol.NegOf(gosymbol.Diff(c.expr, VarX))
	den := gosymbol.Diff(c.expr, VarY)
	return Derivative{Expr: gosymbol.QuoOf(num, den), Num: num, Den: den}
}

func (d Derivative) String() string { return d.Expr.String() }
func (d Derivative) LaTeX() string  { return d.Expr.LaTeX() }

// At evaluates the slope at p. A point where both F_x and F_y vanish has no
// tangent direction and yields ErrIndeterminate.
func (d Derivative) At(p Point, tol float64) (Slope, error) {
	num := d.Num.Sub(VarX, p.X).Sub(VarY, p.Y)
	den := d.Den.Sub(VarX, p.X).Sub(VarY, p.Y)
	denZero, err := nearZero(den, tol)
	if err != nil {
		return Slope{}, fmt.Errorf("slope at %s: %w", p, err)
	}
	if !denZero {
		return Finite(gosymbol.QuoOf(num, den)), nil
	}
	numZero, err := nearZero(num, tol)
	if err != nil {
		return Slope{}, fmt.Errorf("slope at %s: %w", p, err)
	}
	if numZero {
		return Slope{}, fmt.Errorf("slope at %s: %w", p, ErrIndeterminate)
	}
	return Vertical(), nil
}

// along substitutes x = a and y = branch into dy/dx.
func (d Derivative) along(a, branch gosymbol.Expr) gosymbol.Expr {
	return d.Expr.Sub(VarX, a).Sub(VarY, branch)
}
