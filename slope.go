package tangent

import (
	"fmt"

	"github.com/njchilds90/gotangent/gosymbol"
)

// Slope is either a finite value or vertical.
type Slope struct {
	value    gosymbol.Expr
	vertical bool
}

func Finite(v gosymbol.Expr) Slope { return Slope{value: v.Simplify()} }
func Vertical() Slope              { return Slope{vertical: true} }

func (s Slope) IsVertical() bool { return s.vertical }

// Value returns the finite slope, or nil when s is vertical.
func (s Slope) Value() gosymbol.Expr { return s.value }

func (s Slope) String() string {
	switch {
	case s.vertical:
		return "vertical"
	case s.value == nil:
		return ""
	}
	return s.value.String()
}

func (s Slope) LaTeX() string {
	switch {
	case s.vertical:
		return "\\infty"
	case s.value == nil:
		return ""
	}
	return s.value.LaTeX()
}

// Equal reports whether two slopes describe the same direction: both
// vertical, or both finite and within tol of each other.
func (s Slope) Equal(o Slope, tol float64) bool {
	if s.vertical || o.vertical {
		return s.vertical == o.vertical
	}
	if s.value == nil || o.value == nil {
		return s.value == nil && o.value == nil
	}
	zero, err := nearZero(gosymbol.SubOf(s.value, o.value), tol)
	return err == nil && zero
}

func (s Slope) evalf() Slope {
	if s.vertical || s.value == nil {
		return s
	}
	return Slope{value: gosymbol.Evalf(s.value)}
}

// secantSlope is the slope of the line through p and q.
func secantSlope(p, q Point, tol float64) (Slope, error) {
	dx := gosymbol.SubOf(q.X, p.X)
	vertical, err := nearZero(dx, tol)
	if err != nil {
		return Slope{}, err
	}
	if vertical {
		return Vertical(), nil
	}
	return Finite(gosymbol.QuoOf(gosymbol.SubOf(q.Y, p.Y), dx)), nil
}

// nearZero reports whether a closed expression is zero, exactly or within
// tol in magnitude.
func nearZero(e gosymbol.Expr, tol float64) (bool, error) {
	if n, ok := e.(*gosymbol.Num); ok && n.IsZero() {
		return true, nil
	}
	m, ok := gosymbol.Magnitude(e)
	if !ok {
		return false, fmt.Errorf("%w: %s", gosymbol.ErrNotNumeric, e)
	}
	return m <= tol, nil
}

// sameValue reports whether two closed expressions agree within tol.
func sameValue(a, b gosymbol.Expr, tol float64) bool {
	if a.Equal(b) {
		return true
	}
	zero, err := nearZero(gosymbol.SubOf(a, b), tol)
	return err == nil && zero
}
