package tangent

import "fmt"

// Classify reports whether p lies on c: F(p) is zero, exactly or within tol.
func Classify(c Curve, p Point, tol float64) (Position, error) {
	on, err := nearZero(c.At(p), tol)
	if err != nil {
		return Exterior, fmt.Errorf("classify %s: %w", p, err)
	}
	if on {
		return OnCurve, nil
	}
	return Exterior, nil
}
