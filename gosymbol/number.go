package gosymbol

import "math/big"

// ratPow returns r^e for |e| <= maxExactPower. ok is false for larger
// exponents and for zero raised to a negative power.
func ratPow(r *big.Rat, e int64) (*big.Rat, bool) {
	if e > maxExactPower || e < -maxExactPower {
		return nil, false
	}
	if e < 0 {
		if r.Sign() == 0 {
			return nil, false
		}
		inv, _ := ratPow(r, -e)
		return new(big.Rat).Inv(inv), true
	}
	k := big.NewInt(e)
	num := new(big.Int).Exp(r.Num(), k, nil)
	den := new(big.Int).Exp(r.Denom(), k, nil)
	return new(big.Rat).SetFrac(num, den), true
}

// squarefree writes n = k^2 * s with s squarefree, for n > 0. Trial division
// stops at maxTrialDivisor; a cofactor left over is kept under the root
// unless it is a perfect square.
func squarefree(n *big.Int) (k, s *big.Int) {
	const maxTrialDivisor = 100000
	k = big.NewInt(1)
	s = new(big.Int).Set(n)
	rem := new(big.Int)
	for d := int64(2); d <= maxTrialDivisor; d++ {
		dd := big.NewInt(d * d)
		if dd.Cmp(s) > 0 {
			break
		}
		for {
			q, r := new(big.Int).QuoRem(s, dd, rem)
			if r.Sign() != 0 {
				break
			}
			s = q
			k.Mul(k, big.NewInt(d))
		}
	}
	if root := new(big.Int).Sqrt(s); root.Cmp(big.NewInt(1)) > 0 && new(big.Int).Mul(root, root).Cmp(s) == 0 {
		k.Mul(k, root)
		s = big.NewInt(1)
	}
	return k, s
}

// surdPow evaluates r^(m/2) for rational r > 0 and odd m as
// c * sqrt(s), with s a squarefree integer.
func surdPow(r *big.Rat, exp *Num) Expr {
	m := exp.val.Num().Int64()
	// sqrt(p/q) = sqrt(p*q)/q
	pq := new(big.Int).Mul(r.Num(), r.Denom())
	j, s := squarefree(pq)
	root := new(big.Rat).SetFrac(j, r.Denom())
	if m == 1 && root.Cmp(big.NewRat(1, 1)) == 0 && s.Cmp(r.Num()) == 0 && r.IsInt() {
		return &Pow{base: &Num{val: new(big.Rat).Set(r)}, exp: exp}
	}
	rp, ok := ratPow(root, m)
	if !ok {
		return &Pow{base: &Num{val: new(big.Rat).Set(r)}, exp: exp}
	}
	sr := new(big.Rat).SetInt(s)
	// r^(m/2) = root^m * s^((m-1)/2) * sqrt(s)
	sp, ok := ratPow(sr, (m-1)/2)
	if !ok {
		return &Pow{base: &Num{val: new(big.Rat).Set(r)}, exp: exp}
	}
	coeff := &Num{val: new(big.Rat).Mul(rp, sp)}
	if s.Cmp(big.NewInt(1)) == 0 {
		return coeff
	}
	return MulOf(coeff, &Pow{base: &Num{val: sr}, exp: F(1, 2)})
}
