package tangent

// Report is the wire form of a Result, shared by the HTTP API, the MCP tool
// and the CLI's JSON output.
type Report struct {
	DyDx      string       `json:"dy_dx"`
	DyDxLaTeX string       `json:"dy_dx_latex"`
	Lines     []LineReport `json:"lines"`
}

type LineReport struct {
	Slope         string `json:"slope"`
	XValue        string `json:"x_value"`
	YValue        string `json:"y_value"`
	Equation      string `json:"equation"`
	EquationLaTeX string `json:"equation_latex"`
}

func (r *Result) Report() Report {
	rep := Report{
		DyDx:      r.Derivative.String(),
		DyDxLaTeX: r.Derivative.LaTeX(),
		Lines:     make([]LineReport, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		rep.Lines = append(rep.Lines, LineReport{
			Slope:         l.Slope.String(),
			XValue:        l.X.String(),
			YValue:        l.Y.String(),
			Equation:      l.Equation.String(),
			EquationLaTeX: l.Equation.LaTeX(),
		})
	}
	return rep
}
