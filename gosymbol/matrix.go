package gosymbol

import "fmt"

// ============================================================
// Determinants and resultants
// ============================================================

// Det returns the expanded determinant of a square matrix given by rows.
// Cofactor expansion skips zero entries, which keeps sparse matrices such as
// Sylvester matrices cheap.
func Det(rows [][]Expr) Expr {
	n := len(rows)
	for _, r := range rows {
		if len(r) != n {
			panic(fmt.Sprintf("gosymbol: Det requires a square matrix, got a row of %d in %dx%d", len(r), n, n))
		}
	}
	if n == 0 {
		return N(1)
	}
	return cofactorDet(rows)
}

func cofactorDet(rows [][]Expr) Expr {
	switch len(rows) {
	case 1:
		return rows[0][0].Simplify()
	case 2:
		return Expand(SubOf(MulOf(rows[0][0], rows[1][1]), MulOf(rows[0][1], rows[1][0])))
	}
	terms := make([]Expr, 0, len(rows))
	for j, pivot := range rows[0] {
		if n, ok := pivot.(*Num); ok && n.IsZero() {
			continue
		}
		t := MulOf(pivot, cofactorDet(minorOf(rows, j)))
		if j%2 == 1 {
			t = NegOf(t)
		}
		terms = append(terms, t)
	}
	return Expand(AddOf(terms...))
}

// minorOf drops the first row and column col.
func minorOf(rows [][]Expr, col int) [][]Expr {
	minor := make([][]Expr, 0, len(rows)-1)
	for _, r := range rows[1:] {
		m := make([]Expr, 0, len(r)-1)
		m = append(m, r[:col]...)
		m = append(m, r[col+1:]...)
		minor = append(minor, m)
	}
	return minor
}

// Sylvester builds the Sylvester matrix of two polynomials given by their
// coefficients, lowest degree first.
func Sylvester(p, q []Expr) [][]Expr {
	m, n := len(p)-1, len(q)-1
	size := m + n
	rows := make([][]Expr, size)
	for i := range rows {
		rows[i] = make([]Expr, size)
		for j := range rows[i] {
			rows[i][j] = N(0)
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= m; j++ {
			rows[i][i+j] = p[m-j]
		}
	}
	for i := 0; i < m; i++ {
		for j := 0; j <= n; j++ {
			rows[n+i][i+j] = q[n-j]
		}
	}
	return rows
}

// Resultant eliminates varName from the system p = 0, q = 0. The result
// vanishes exactly where the two polynomials share a root in varName.
func Resultant(p, q Expr, varName string) (Expr, error) {
	pc, ok := Poly(p, varName)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotPolynomial, p, varName)
	}
	qc, ok := Poly(q, varName)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotPolynomial, q, varName)
	}
	m, n := len(pc)-1, len(qc)-1
	switch {
	case m == 0:
		return Expand(PowOf(pc[0], N(int64(n)))), nil
	case n == 0:
		return Expand(PowOf(qc[0], N(int64(m)))), nil
	}
	return Det(Sylvester(pc, qc)), nil
}
