package tangent_test

import (
	"errors"
	"testing"

	tangent "github.com/njchilds90/gotangent"
	"github.com/njchilds90/gotangent/gosymbol"
)

func TestSlopeEqual(t *testing.T) {
	tol := tangent.DefaultThreshold
	cases := []struct {
		name string
		a, b tangent.Slope
		want bool
	}{
		{"both vertical", tangent.Vertical(), tangent.Vertical(), true},
		{"vertical and finite", tangent.Vertical(), tangent.Finite(gosymbol.N(1)), false},
		{"finite and vertical", tangent.Finite(gosymbol.N(0)), tangent.Vertical(), false},
		{"same rational", tangent.Finite(gosymbol.F(1, 2)), tangent.Finite(gosymbol.F(2, 4)), true},
		{"rational and decimal", tangent.Finite(gosymbol.F(3, 4)), tangent.Finite(gosymbol.NFloat(0.75)), true},
		{"within threshold", tangent.Finite(gosymbol.N(1)), tangent.Finite(gosymbol.NFloat(1 + 1e-12)), true},
		{"outside threshold", tangent.Finite(gosymbol.N(1)), tangent.Finite(gosymbol.NFloat(1.001)), false},
		{"surd", tangent.Finite(gosymbol.SqrtOf(gosymbol.N(2))), tangent.Finite(gosymbol.NFloat(1.4142135623730951)), true},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b, tol); got != c.want {
			t.Errorf("%s: want %v, got %v", c.name, c.want, got)
		}
	}
}

func TestSlopeString(t *testing.T) {
	if s := tangent.Vertical().String(); s != "vertical" {
		t.Errorf("want vertical, got %s", s)
	}
	if s := tangent.Vertical().LaTeX(); s != "\\infty" {
		t.Errorf("want \\infty, got %s", s)
	}
	if s := tangent.Finite(gosymbol.F(-6, 8)).String(); s != "-3/4" {
		t.Errorf("want -3/4, got %s", s)
	}
}

func TestBuildEquation(t *testing.T) {
	cases := []struct {
		s    tangent.Slope
		p    tangent.Point
		mode tangent.Mode
		want string
	}{
		{tangent.Finite(gosymbol.F(-3, 4)), tangent.Pt(3, 4), tangent.Exact, "-3*x/4 - y + 25/4"},
		{tangent.Finite(gosymbol.F(-3, 4)), tangent.Pt(3, 4), tangent.Decimal, "-0.75*x - y + 6.25"},
		{tangent.Finite(gosymbol.N(0)), tangent.Pt(0, 5), tangent.Exact, "-y + 5"},
		{tangent.Finite(gosymbol.N(2)), tangent.Pt(1, 1), tangent.Exact, "2*x - y - 1"},
		{tangent.Vertical(), tangent.Pt(5, 0), tangent.Exact, "x - 5"},
		{tangent.Vertical(), tangent.Pt(0, 0), tangent.Exact, "x"},
	}
	for _, c := range cases {
		if got := tangent.BuildEquation(c.s, c.p, c.mode).String(); got != c.want {
			t.Errorf("BuildEquation(%s, %s, %s): want %s, got %s", c.s, c.p, c.mode, c.want, got)
		}
	}
}

func TestClassify(t *testing.T) {
	c := mustCurve(t, "x^2 + y^2 - 25")
	cases := []struct {
		p    tangent.Point
		want tangent.Position
	}{
		{tangent.Pt(3, 4), tangent.OnCurve},
		{tangent.Pt(-5, 0), tangent.OnCurve},
		{tangent.Pt(5, 5), tangent.Exterior},
		{tangent.Pt(0, 0), tangent.Exterior},
	}
	for _, cs := range cases {
		got, err := tangent.Classify(c, cs.p, tangent.DefaultThreshold)
		if err != nil {
			t.Fatalf("Classify(%s): %v", cs.p, err)
		}
		if got != cs.want {
			t.Errorf("Classify(%s): want %s, got %s", cs.p, cs.want, got)
		}
	}
}

func TestClassify_IrrationalPoint(t *testing.T) {
	c := mustCurve(t, "x^2 + y^2 - 1")
	p, err := tangent.ParsePoint("sqrt(2)/2", "sqrt(2)/2")
	if err != nil {
		t.Fatal(err)
	}
	got, err := tangent.Classify(c, p, tangent.DefaultThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if got != tangent.OnCurve {
		t.Errorf("want on curve, got %s", got)
	}
}

func TestDerivativeAt(t *testing.T) {
	d := tangent.Differentiate(mustCurve(t, "x^2 + y^2 - 25"))
	s, err := d.At(tangent.Pt(3, 4), tangent.DefaultThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if s.String() != "-3/4" {
		t.Errorf("want -3/4, got %s", s)
	}
	s, err = d.At(tangent.Pt(5, 0), tangent.DefaultThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsVertical() {
		t.Errorf("want vertical at (5, 0), got %s", s)
	}

	d = tangent.Differentiate(mustCurve(t, "x^2 - y^2"))
	if _, err := d.At(tangent.Pt(0, 0), tangent.DefaultThreshold); !errors.Is(err, tangent.ErrIndeterminate) {
		t.Errorf("want ErrIndeterminate, got %v", err)
	}
}

func TestErrorKind(t *testing.T) {
	err := &tangent.Error{Kind: tangent.KindParse, Op: "parse curve", Err: errors.New("boom")}
	if tangent.KindOf(err) != tangent.KindParse {
		t.Errorf("want parse, got %s", tangent.KindOf(err))
	}
	if tangent.KindOf(errors.New("plain")) != 0 {
		t.Error("plain errors have no kind")
	}
	if tangent.KindValidation.String() != "validation" || tangent.KindComputation.String() != "computation" {
		t.Error("unexpected kind names")
	}
}
