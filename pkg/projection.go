package pkg

import (
	"fmt"
	"math/big"

	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg/arithmetic"
)

// ExpectedMinSquaredProjection returns the expected minimal squared norm among targets
// independent projections of unit vectors of dimension dim onto projDim dimensions.
//
// The squared norm of one projection follows Beta(projDim/2, (dim-projDim)/2), so the
// minimum of targets of them has CDF 1 - (1 - I_x)^targets. Its median, the root of
// (1 - I_x(projDim/2, (dim-projDim)/2))^targets = 1/2, stands in for the expectation.
func (e *Estimator) ExpectedMinSquaredProjection(dim int, projDim *big.Float, targets int) (*big.Float, error) {
	p := e.prec
	if dim < 2 {
		return nil, fmt.Errorf("%w: dimension %d must be at least 2", ErrInvalidParameter, dim)
	}
	if targets < 1 {
		return nil, fmt.Errorf("%w: target count %d must be at least 1", ErrInvalidParameter, targets)
	}
	d := p.Float(dim)
	switch cmp := projDim.Cmp(d); {
	case cmp == 0:
		return p.Float(1), nil
	case cmp > 0 || projDim.Sign() <= 0:
		return nil, fmt.Errorf("%w: projection dimension %s outside (0, %d]", ErrInvalidParameter, projDim.Text('g', 10), dim)
	}

	two := p.Float(2)
	a := p.New().Quo(projDim, two)
	b := p.New().Sub(d, projDim)
	b.Quo(b, two)
	dist, err := arithmetic.NewBeta(p, a, b)
	if err != nil {
		return nil, err
	}

	one := p.Float(1)
	survival := func(x *big.Float) (*big.Float, error) {
		cdf, err := dist.CDF(x)
		if err != nil {
			return nil, err
		}
		return arithmetic.PowInt(p.New().Sub(one, cdf), targets), nil
	}

	root, err := arithmetic.Bisect(p, survival, p.Float(0.5), p.Float(0), one)
	if err != nil {
		return nil, fmt.Errorf("minimum projection dim=%d proj=%s targets=%d: %w", dim, projDim.Text('g', 10), targets, err)
	}
	return root.Value, nil
}
