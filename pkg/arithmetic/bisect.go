package arithmetic

import (
	"fmt"
	"math/big"
)

// Func is a scalar function evaluated inside a precision domain
type Func func(x *big.Float) (*big.Float, error)

// Root is the outcome of a bisection
type Root struct {
	// Value is the last midpoint evaluated
	Value *big.Float
	// Iterations counts evaluations of the objective at a midpoint
	Iterations int
}

// Float64 returns the root rounded to the nearest float64
func (r Root) Float64() float64 {
	if r.Value == nil {
		return 0
	}
	f, _ := r.Value.Float64()
	return f
}

// Bisect searches [lo, hi] for m with |g(m) - target| < p.Eps.
//
// The objective is assumed to cross target exactly once on the bracket; this is
// not checked. A midpoint whose value is within Eps of target is returned at once.
// Otherwise the loop runs while the bracket is wider than Eps and returns the last
// midpoint. If p.MaxIter midpoints are evaluated first, that midpoint is returned
// together with ErrNonConvergent.
func Bisect(p Precision, g Func, target, lo, hi *big.Float) (Root, error) {
	a := new(big.Float).SetPrec(p.Prec).Set(lo)
	b := new(big.Float).SetPrec(p.Prec).Set(hi)
	t := new(big.Float).SetPrec(p.Prec).Set(target)
	two := p.Float(2)

	offset := func(x *big.Float) (*big.Float, error) {
		v, err := g(x)
		if err != nil {
			return nil, err
		}
		return new(big.Float).SetPrec(p.Prec).Sub(v, t), nil
	}

	m := p.New().Add(a, b)
	m.Quo(m, two)
	delta := p.New().Sub(b, a)
	delta.Abs(delta)

	// g(a) - target, only evaluated once the first midpoint misses
	var ga *big.Float
	iterations := 0
	for delta.Cmp(p.Eps) > 0 {
		if iterations >= p.MaxIter {
			return Root{Value: m, Iterations: iterations}, fmt.Errorf("%w: bisection on [%s, %s] after %d iterations",
				ErrNonConvergent, a.Text('g', 12), b.Text('g', 12), iterations)
		}
		iterations++

		m = p.New().Add(a, b)
		m.Quo(m, two)
		delta.Sub(b, a)
		delta.Abs(delta)

		gm, err := offset(m)
		if err != nil {
			return Root{Value: m, Iterations: iterations}, err
		}
		if new(big.Float).Abs(gm).Cmp(p.Eps) < 0 {
			return Root{Value: m, Iterations: iterations}, nil
		}

		if ga == nil {
			if ga, err = offset(a); err != nil {
				return Root{Value: m, Iterations: iterations}, err
			}
		}
		if ga.Sign()*gm.Sign() > 0 {
			a = m
			ga = gm
		} else {
			b = m
		}
	}
	return Root{Value: m, Iterations: iterations}, nil
}
