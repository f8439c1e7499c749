package arithmetic

import (
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Beta is the Beta(Alpha, Beta) distribution on [0, 1] evaluated at arbitrary precision.
// ln B(a, b) is computed once so repeated CDF calls only pay for the continued fraction.
type Beta struct {
	prec  Precision // extended precision used internally
	out   uint      // precision of returned values
	a, b  *big.Float
	logB  *big.Float
	split *big.Float // (a+1)/(a+b+2), switch point for the symmetry relation
}

// NewBeta returns the Beta(a, b) distribution; a and b must be strictly positive
func NewBeta(p Precision, a, b *big.Float) (*Beta, error) {
	if a.Sign() <= 0 || b.Sign() <= 0 || a.IsInf() || b.IsInf() {
		return nil, fmt.Errorf("%w: beta shape parameters a=%s b=%s must be positive", ErrDomain, a.Text('g', 10), b.Text('g', 10))
	}
	ext := p.extended()
	ae := new(big.Float).SetPrec(ext.Prec).Set(a)
	be := new(big.Float).SetPrec(ext.Prec).Set(b)

	logB, err := LogBeta(ext, ae, be)
	if err != nil {
		return nil, err
	}

	one := ext.Float(1)
	num := new(big.Float).SetPrec(ext.Prec).Add(ae, one)
	den := new(big.Float).SetPrec(ext.Prec).Add(ae, be)
	den.Add(den, ext.Float(2))

	return &Beta{
		prec:  ext,
		out:   p.Prec,
		a:     ae,
		b:     be,
		logB:  logB,
		split: num.Quo(num, den),
	}, nil
}

// CDF returns the regularized incomplete beta function I_x(a, b) for x in [0, 1]
func (d *Beta) CDF(x *big.Float) (*big.Float, error) {
	p := d.prec
	one := p.Float(1)
	switch {
	case x.Sign() < 0 || x.Cmp(one) > 0:
		return nil, fmt.Errorf("%w: incomplete beta at x=%s outside [0, 1]", ErrDomain, x.Text('g', 10))
	case x.Sign() == 0:
		return new(big.Float).SetPrec(d.out), nil
	case x.Cmp(one) == 0:
		return new(big.Float).SetPrec(d.out).SetInt64(1), nil
	}

	xe := new(big.Float).SetPrec(p.Prec).Set(x)
	ye := new(big.Float).SetPrec(p.Prec).Sub(one, xe)

	// front = x^a (1-x)^b / B(a, b)
	front := new(big.Float).SetPrec(p.Prec).Mul(d.a, bigfloat.Log(xe))
	t := new(big.Float).SetPrec(p.Prec).Mul(d.b, bigfloat.Log(ye))
	front.Add(front, t)
	front.Sub(front, d.logB)
	front = bigfloat.Exp(front)

	var res *big.Float
	if xe.Cmp(d.split) < 0 {
		cf, err := continuedFraction(p, d.a, d.b, xe)
		if err != nil {
			return nil, err
		}
		res = front.Mul(front, cf)
		res.Quo(res, d.a)
	} else {
		cf, err := continuedFraction(p, d.b, d.a, ye)
		if err != nil {
			return nil, err
		}
		res = front.Mul(front, cf)
		res.Quo(res, d.b)
		res.Sub(one, res)
	}
	return new(big.Float).SetPrec(d.out).Set(res), nil
}

// RegIncBeta returns I_x(a, b) at the working precision of p
func RegIncBeta(p Precision, x, a, b *big.Float) (*big.Float, error) {
	d, err := NewBeta(p, a, b)
	if err != nil {
		return nil, err
	}
	return d.CDF(x)
}

// continuedFraction evaluates the continued fraction of the incomplete beta
// function with the modified Lentz method. Valid for x < (a+1)/(a+b+2).
func continuedFraction(p Precision, a, b, x *big.Float) (*big.Float, error) {
	prec := p.Prec
	newFloat := func() *big.Float { return new(big.Float).SetPrec(prec) }

	one := p.Float(1)
	tiny := newFloat().SetMantExp(one, -2*int(prec))
	tol := newFloat().SetMantExp(one, -int(prec))

	qab := newFloat().Add(a, b)
	qap := newFloat().Add(a, one)
	qam := newFloat().Sub(a, one)

	c := p.Float(1)
	d := newFloat().Mul(qab, x)
	d.Quo(d, qap)
	d.Sub(one, d)
	if newFloat().Abs(d).Cmp(tiny) < 0 {
		d.Set(tiny)
	}
	d.Quo(one, d)
	h := newFloat().Set(d)

	aa, mf, m2, t, del := newFloat(), newFloat(), newFloat(), newFloat(), newFloat()
	for m := 1; m <= p.MaxIter; m++ {
		mf.SetInt64(int64(m))
		m2.SetInt64(int64(2 * m))

		// even step: m (b-m) x / ((a-1+2m) (a+2m))
		aa.Sub(b, mf)
		aa.Mul(aa, mf)
		aa.Mul(aa, x)
		t.Add(qam, m2)
		aa.Quo(aa, t)
		t.Add(a, m2)
		aa.Quo(aa, t)
		lentzStep(d, c, aa, one, tiny)
		h.Mul(h, d)
		h.Mul(h, c)

		// odd step: -(a+m) (a+b+m) x / ((a+2m) (a+1+2m))
		aa.Add(a, mf)
		t.Add(qab, mf)
		aa.Mul(aa, t)
		aa.Mul(aa, x)
		aa.Neg(aa)
		t.Add(a, m2)
		aa.Quo(aa, t)
		t.Add(qap, m2)
		aa.Quo(aa, t)
		lentzStep(d, c, aa, one, tiny)
		del.Mul(d, c)
		h.Mul(h, del)

		del.Sub(del, one)
		if del.Abs(del).Cmp(tol) < 0 {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: incomplete beta continued fraction after %d terms", ErrNonConvergent, p.MaxIter)
}

// lentzStep updates d := 1/(1 + aa d) and c := 1 + aa/c, keeping both away from zero
func lentzStep(d, c, aa, one, tiny *big.Float) {
	d.Mul(aa, d)
	d.Add(one, d)
	if new(big.Float).Abs(d).Cmp(tiny) < 0 {
		d.Set(tiny)
	}
	c.Quo(aa, c)
	c.Add(one, c)
	if new(big.Float).Abs(c).Cmp(tiny) < 0 {
		c.Set(tiny)
	}
	d.Quo(one, d)
}
