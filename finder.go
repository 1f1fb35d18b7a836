package tangent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/njchilds90/gotangent/gosymbol"
)

// Finder computes tangent lines. The zero value is ready to use.
type Finder struct {
	// Threshold is the numeric tolerance; zero means DefaultThreshold.
	Threshold float64
	// Trace logs the intermediate candidates at debug level.
	Trace bool
	// Logger receives trace output; nil means slog.Default().
	Logger *slog.Logger
}

func (f *Finder) threshold() float64 {
	if f.Threshold > 0 {
		return f.Threshold
	}
	return DefaultThreshold
}

func (f *Finder) trace(msg string, args ...any) {
	if !f.Trace {
		return
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug(msg, args...)
}

// Find returns dy/dx of c and every tangent line to c through p.
//
// A point on the curve yields exactly one line. An exterior point yields
// zero or more lines, in discovery order; no lines is not an error. When the
// computation fails after the derivative is known, the returned Result
// carries the derivative alongside the error.
func (f *Finder) Find(ctx context.Context, c Curve, p Point, mode Mode) (res *Result, err error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: KindComputation, Op: "find tangents", Err: fmt.Errorf("internal error: %v", r)}
		}
	}()

	tol := f.threshold()
	d := Differentiate(c)
	res = &Result{Derivative: d}
	f.trace("derivative", "curve", c.String(), "dy_dx", d.String())

	pos, err := Classify(c, p, tol)
	if err != nil {
		return res, computationError("classify point", err)
	}
	res.Position = pos
	f.trace("point classified", "point", p.String(), "position", pos.String())

	if pos == OnCurve {
		line, err := f.onCurve(d, p, mode)
		if err != nil {
			return res, computationError("tangent at point", err)
		}
		res.Lines = []Line{line}
		return res, nil
	}
	lines, err := f.exterior(ctx, c, d, p, mode)
	if err != nil {
		return res, computationError("tangents through point", err)
	}
	res.Lines = lines
	return res, nil
}

func computationError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		err = fmt.Errorf("%w: %w", ErrBudgetExceeded, err)
	}
	return &Error{Kind: KindComputation, Op: op, Err: err}
}

func (f *Finder) onCurve(d Derivative, p Point, mode Mode) (Line, error) {
	s, err := d.At(p, f.threshold())
	if err != nil {
		return Line{}, err
	}
	return newLine(s, p, mode), nil
}

// exterior finds the points of tangency (x_i, y_i) whose tangent passes
// through p, verifies each against the secant through p and builds the
// lines.
func (f *Finder) exterior(ctx context.Context, c Curve, d Derivative, p Point, mode Mode) ([]Line, error) {
	tol := f.threshold()
	xs, err := f.tangencyAbscissae(ctx, c, d, p)
	if err != nil {
		return nil, err
	}
	f.trace("tangency candidates", "x", exprStrings(xs))

	var lines []Line
	var accepted []Point
	for _, xi := range xs {
		roots, err := gosymbol.Solve(ctx, c.expr.Sub(VarX, xi), VarY)
		if err != nil {
			return nil, fmt.Errorf("solve curve at x = %s: %w", xi, err)
		}
		for _, yi := range realValues(roots, tol) {
			pt := Point{X: xi, Y: yi}
			if containsPoint(accepted, pt, tol) {
				continue
			}
			s, ok := f.verify(d, pt, p)
			if !ok {
				f.trace("candidate rejected", "point", pt.String())
				continue
			}
			f.trace("candidate accepted", "point", pt.String(), "slope", s.String())
			accepted = append(accepted, pt)
			lines = append(lines, newLine(s, pt, mode))
		}
	}
	return lines, nil
}

// tangencyAbscissae solves for the x coordinates of candidate points of
// tangency. Each explicit branch y = f(a) of the curve gives the condition
// dy/dx(a, f(a)) = (f(a) - y0)/(a - x0). Curves with no closed-form branches
// fall back to a resultant.
func (f *Finder) tangencyAbscissae(ctx context.Context, c Curve, d Derivative, p Point) ([]gosymbol.Expr, error) {
	tol := f.threshold()
	a := gosymbol.S(param)
	branches, err := gosymbol.Solve(ctx, c.expr.Sub(VarX, a), VarY)
	if errors.Is(err, gosymbol.ErrUnsupported) {
		f.trace("no explicit branches, eliminating y", "curve", c.String())
		xs, rerr := f.resultantAbscissae(ctx, c, p)
		if errors.Is(rerr, gosymbol.ErrNotPolynomial) {
			return nil, fmt.Errorf("solve curve for y: %w", err)
		}
		return xs, rerr
	}
	if err != nil {
		return nil, fmt.Errorf("solve curve for y: %w", err)
	}
	f.trace("branches", "y", rootStrings(branches))

	var candidates []gosymbol.Root
	for _, b := range branches {
		if !b.IsReal(tol) {
			continue
		}
		lhs := d.along(a, b.Re)
		rhs := gosymbol.QuoOf(gosymbol.SubOf(b.Re, p.Y), gosymbol.SubOf(a, p.X))
		roots, err := gosymbol.Solve(ctx, gosymbol.SubOf(lhs, rhs), param)
		if err != nil {
			return nil, fmt.Errorf("solve tangency condition on branch y = %s: %w", b.Re, err)
		}
		candidates = append(candidates, roots...)
	}
	return realValues(candidates, tol), nil
}

// resultantAbscissae eliminates y from F = 0 and
// G = F_x*(x - x0) + F_y*(y - y0) = 0, the condition that the tangent at
// (x, y) passes through p.
func (f *Finder) resultantAbscissae(ctx context.Context, c Curve, p Point) ([]gosymbol.Expr, error) {
	fx := gosymbol.Diff(c.expr, VarX)
	fy := gosymbol.Diff(c.expr, VarY)
	g := gosymbol.AddOf(
		gosymbol.MulOf(fx, gosymbol.SubOf(gosymbol.S(VarX), p.X)),
		gosymbol.MulOf(fy, gosymbol.SubOf(gosymbol.S(VarY), p.Y)),
	)
	res, err := gosymbol.Resultant(c.expr, g, VarY)
	if err != nil {
		return nil, err
	}
	f.trace("resultant", "r", res.String())
	roots, err := gosymbol.Solve(ctx, res, VarX)
	if err != nil {
		return nil, fmt.Errorf("solve resultant: %w", err)
	}
	return realValues(roots, f.threshold()), nil
}

// verify checks that the implicit slope at pt matches the secant from pt to
// p, and returns the implicit slope.
func (f *Finder) verify(d Derivative, pt, p Point) (Slope, bool) {
	tol := f.threshold()
	implicit, err := d.At(pt, tol)
	if err != nil {
		return Slope{}, false
	}
	secant, err := secantSlope(pt, p, tol)
	if err != nil {
		return Slope{}, false
	}
	return implicit, implicit.Equal(secant, tol)
}

// realValues keeps the real parts of roots whose imaginary part is within
// tol of zero, dropping values within tol of one already kept.
func realValues(roots []gosymbol.Root, tol float64) []gosymbol.Expr {
	var out []gosymbol.Expr
	for _, r := range roots {
		if !r.IsReal(tol) {
			continue
		}
		dup := false
		for _, o := range out {
			if sameValue(o, r.Re, tol) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r.Re)
		}
	}
	return out
}

func containsPoint(pts []Point, p Point, tol float64) bool {
	for _, q := range pts {
		if sameValue(q.X, p.X, tol) && sameValue(q.Y, p.Y, tol) {
			return true
		}
	}
	return false
}

func exprStrings(es []gosymbol.Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func rootStrings(rs []gosymbol.Root) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
