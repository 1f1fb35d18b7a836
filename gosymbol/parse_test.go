package gosymbol_test

import (
	"errors"
	"testing"

	"github.com/njchilds90/gotangent/gosymbol"
)

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"x^2 + y^2 - 25", "x^2 + y^2 - 25"},
		{"x**2 + y**2 - 25", "x^2 + y^2 - 25"},
		{"-x^2", "-x^2"},
		{"2^3^2", "512"},
		{"1/2*x", "x/2"},
		{"0.5*x", "0.5*x"},
		{"sqrt(x)", "sqrt(x)"},
		{"log(x)", "ln(x)"},
		{"(x + 1)*(x - 1)", "(x + 1)*(x - 1)"},
		{"x - -y", "x + y"},
		{"2*pi", "2*pi"},
		{"y - x^(1/3)", "y - x^(1/3)"},
	}
	for _, c := range cases {
		got, err := gosymbol.Parse(c.in, "x", "y")
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", c.in, err)
			continue
		}
		if got.String() != c.want {
			t.Errorf("Parse(%q): want %s, got %s", c.in, c.want, got)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, in := range []string{"-3*x/4 - y + 25/4", "sqrt(2)/2", "-x/y", "2*sqrt(-a^2 + 25)"} {
		e, err := gosymbol.Parse(in, "x", "y", "a")
		if err != nil {
			t.Errorf("Parse(%q): %v", in, err)
			continue
		}
		if e.String() != in {
			t.Errorf("round trip: want %s, got %s", in, e)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"x = 2",
		"2x",
		"foo(x)",
		"z",
		"x +",
		"(x",
		"sin x",
		"x $ y",
		"__import__('os')",
	}
	for _, in := range cases {
		_, err := gosymbol.Parse(in, "x", "y")
		if err == nil {
			t.Errorf("Parse(%q): expected an error", in)
			continue
		}
		var pe *gosymbol.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q): want *ParseError, got %T", in, err)
		}
	}
}

func TestParse_OnlyDeclaredVariables(t *testing.T) {
	if _, err := gosymbol.Parse("x + a", "x", "y"); err == nil {
		t.Error("a is not a declared variable")
	}
	if _, err := gosymbol.Parse("3/4"); err != nil {
		t.Errorf("a number needs no variables: %v", err)
	}
}
