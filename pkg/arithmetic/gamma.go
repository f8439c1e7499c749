package arithmetic

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ALTree/bigfloat"
)

// maxBernoulliTerms bounds the Stirling series. With the argument shifted above
// prec/2+10 the terms drop below 2^-MaxPrec well before this.
const maxBernoulliTerms = 128

var bernoulli struct {
	mu   sync.Mutex
	row  []*big.Rat // Akiyama-Tanigawa working row
	even []*big.Rat // B_2, B_4, ...
}

// bernoulliEven returns B_{2(i+1)}, extending the cached table on demand.
func bernoulliEven(i int) *big.Rat {
	bernoulli.mu.Lock()
	defer bernoulli.mu.Unlock()

	for len(bernoulli.even) <= i {
		m := len(bernoulli.row)
		bernoulli.row = append(bernoulli.row, big.NewRat(1, int64(m+1)))
		row := bernoulli.row
		for j := m; j >= 1; j-- {
			row[j-1].Sub(row[j-1], row[j])
			row[j-1].Mul(row[j-1], big.NewRat(int64(j), 1))
		}
		if m >= 2 && m%2 == 0 {
			bernoulli.even = append(bernoulli.even, new(big.Rat).Set(row[0]))
		}
	}
	return bernoulli.even[i]
}

// LogGamma returns ln Γ(z) for real z > 0 at the working precision of p.
func LogGamma(p Precision, z *big.Float) (*big.Float, error) {
	if z.Sign() <= 0 || z.IsInf() {
		return nil, fmt.Errorf("%w: log-gamma of %s", ErrDomain, z.Text('g', 10))
	}
	prec := p.Prec
	w := new(big.Float).SetPrec(prec).Set(z)
	one := p.Float(1)
	threshold := p.Float(int(prec/2 + 10))

	// Γ(z) = Γ(z+n) / (z (z+1) ... (z+n-1))
	var shift *big.Float
	for w.Cmp(threshold) < 0 {
		if shift == nil {
			shift = new(big.Float).SetPrec(prec).Set(w)
		} else {
			shift.Mul(shift, w)
		}
		w.Add(w, one)
	}

	lg := stirling(p, w)
	if shift != nil {
		lg.Sub(lg, bigfloat.Log(shift))
	}
	return lg, nil
}

// stirling evaluates the asymptotic series
// (w-1/2) ln w - w + ln(2π)/2 + Σ B_2k / (2k (2k-1) w^(2k-1)).
func stirling(p Precision, w *big.Float) *big.Float {
	prec := p.Prec
	half := p.Float(0.5)

	lg := new(big.Float).SetPrec(prec).Sub(w, half)
	lg.Mul(lg, bigfloat.Log(w))
	lg.Sub(lg, w)

	twoPi := new(big.Float).SetPrec(prec).Mul(p.Pi(), p.Float(2))
	halfLog := bigfloat.Log(twoPi)
	halfLog.Mul(halfLog, half)
	lg.Add(lg, halfLog)

	tol := new(big.Float).SetPrec(prec).SetMantExp(p.Float(1), -int(prec)-4)
	wsq := new(big.Float).SetPrec(prec).Mul(w, w)
	pow := new(big.Float).SetPrec(prec).Set(w)
	term := new(big.Float).SetPrec(prec)
	denom := new(big.Float).SetPrec(prec)
	for i := 0; i < maxBernoulliTerms; i++ {
		k := int64(2 * (i + 1))
		denom.SetInt64(k * (k - 1))
		denom.Mul(denom, pow)
		term.SetRat(bernoulliEven(i))
		term.Quo(term, denom)
		lg.Add(lg, term)
		if term.Sign() == 0 || new(big.Float).Abs(term).Cmp(tol) < 0 {
			break
		}
		pow.Mul(pow, wsq)
	}
	return lg
}

// LogBeta returns ln B(a, b) = ln Γ(a) + ln Γ(b) - ln Γ(a+b)
func LogBeta(p Precision, a, b *big.Float) (*big.Float, error) {
	la, err := LogGamma(p, a)
	if err != nil {
		return nil, err
	}
	lb, err := LogGamma(p, b)
	if err != nil {
		return nil, err
	}
	sum := new(big.Float).SetPrec(p.Prec).Add(a, b)
	lab, err := LogGamma(p, sum)
	if err != nil {
		return nil, err
	}
	la.Add(la, lb)
	return la.Sub(la, lab), nil
}
