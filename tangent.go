// Package tangent finds the tangent lines to an implicit planar curve
// F(x, y) = 0 through a given point.
//
// Design goals:
//   - Exact answers where exact answers exist (rationals and surds)
//   - Every tangent through an exterior point, vertical ones included
//   - No division by zero: slopes are either finite or vertical
//   - Deterministic output ordering
package tangent

import (
	"fmt"
	"strings"

	"github.com/njchilds90/gotangent/gosymbol"
)

// DefaultThreshold is the tolerance used when a Finder has none set: it
// separates on-curve from exterior points, discards complex roots, matches
// slopes and merges duplicate roots.
const DefaultThreshold = 1e-10

const (
	VarX = "x"
	VarY = "y"

	// param stands for the abscissa of a candidate point of tangency. The
	// curve parser never accepts it.
	param = "a"
)

// ============================================================
// Curve
// ============================================================

// Curve is an implicit curve F(x, y) = 0.
type Curve struct {
	expr gosymbol.Expr
}

func NewCurve(expr gosymbol.Expr) Curve { return Curve{expr: expr.Simplify()} }

// ParseCurve parses F. A curve that does not mention y is read as the graph
// y = fcn, that is F = y - (fcn).
func ParseCurve(s string) (Curve, error) {
	e, err := gosymbol.Parse(s, VarX, VarY)
	if err != nil {
		return Curve{}, parseError("parse curve", err)
	}
	if !gosymbol.Has(e, VarY) {
		e = gosymbol.SubOf(gosymbol.S(VarY), e)
	}
	return NewCurve(e), nil
}

func (c Curve) Expr() gosymbol.Expr { return c.expr }
func (c Curve) String() string      { return c.expr.String() }

// At substitutes p into F.
func (c Curve) At(p Point) gosymbol.Expr {
	return c.expr.Sub(VarX, p.X).Sub(VarY, p.Y)
}

func (c Curve) validate() error {
	if c.expr == nil {
		return validationError("curve", fmt.Errorf("empty curve"))
	}
	for name := range gosymbol.FreeSymbols(c.expr) {
		if name != VarX && name != VarY {
			return validationError("curve", fmt.Errorf("unexpected variable %q", name))
		}
	}
	if !gosymbol.Has(c.expr, VarY) {
		return &Error{Kind: KindComputation, Op: "differentiate", Err: ErrNoDependentVariable}
	}
	return nil
}

// ============================================================
// Point
// ============================================================

// Point is a numeric point. Coordinates may be exact (rationals, surds, pi)
// or decimal.
type Point struct {
	X, Y gosymbol.Expr
}

// Pt returns the point with rational coordinates x and y.
func Pt(x, y int64) Point { return Point{X: gosymbol.N(x), Y: gosymbol.N(y)} }

func ParsePoint(x, y string) (Point, error) {
	px, err := gosymbol.Parse(x)
	if err != nil {
		return Point{}, parseError("parse x", err)
	}
	py, err := gosymbol.Parse(y)
	if err != nil {
		return Point{}, parseError("parse y", err)
	}
	return Point{X: px, Y: py}, nil
}

func (p Point) String() string { return "(" + p.X.String() + ", " + p.Y.String() + ")" }

func (p Point) validate() error {
	if p.X == nil || p.Y == nil {
		return validationError("point", fmt.Errorf("missing coordinate"))
	}
	for _, c := range []gosymbol.Expr{p.X, p.Y} {
		if len(gosymbol.FreeSymbols(c)) > 0 {
			return validationError("point", fmt.Errorf("%w: %s", gosymbol.ErrNotNumeric, c))
		}
	}
	return nil
}

func (p Point) evalf() Point { return Point{X: gosymbol.Evalf(p.X), Y: gosymbol.Evalf(p.Y)} }

// ============================================================
// Mode / Position
// ============================================================

// Mode selects exact or decimal output.
type Mode int

const (
	Exact Mode = iota
	Decimal
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return Exact, nil
	case "decimal":
		return Decimal, nil
	}
	return Exact, validationError("output", ErrInvalidMode)
}

func (m Mode) String() string {
	if m == Decimal {
		return "decimal"
	}
	return "exact"
}

// Position says where a point lies relative to a curve.
type Position int

const (
	Exterior Position = iota
	OnCurve
)

func (p Position) String() string {
	if p == OnCurve {
		return "on curve"
	}
	return "exterior"
}

// ============================================================
// Results
// ============================================================

// Line is one tangent line. X and Y are its point of tangency; Equation is
// the left-hand side of Equation = 0.
type Line struct {
	Slope    Slope
	X, Y     gosymbol.Expr
	Equation gosymbol.Expr
}

func (l Line) Point() Point { return Point{X: l.X, Y: l.Y} }

type Result struct {
	Derivative Derivative
	Position   Position
	Lines      []Line
}
