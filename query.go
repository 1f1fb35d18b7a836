package tangent

import "context"

// Query is a tangent request in its textual form, as it arrives over HTTP,
// MCP or the command line.
type Query struct {
	Fcn    string
	X, Y   string
	Output string
}

// Parse converts the textual fields into their typed forms.
func (q Query) Parse() (Curve, Point, Mode, error) {
	mode, err := ParseMode(q.Output)
	if err != nil {
		return Curve{}, Point{}, mode, err
	}
	c, err := ParseCurve(q.Fcn)
	if err != nil {
		return Curve{}, Point{}, mode, err
	}
	p, err := ParsePoint(q.X, q.Y)
	if err != nil {
		return Curve{}, Point{}, mode, err
	}
	return c, p, mode, nil
}

// FindQuery parses q and runs Find on it.
func (f *Finder) FindQuery(ctx context.Context, q Query) (*Result, error) {
	c, p, mode, err := q.Parse()
	if err != nil {
		return nil, err
	}
	return f.Find(ctx, c, p, mode)
}
