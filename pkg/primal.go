package pkg

import (
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"

	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg/arithmetic"
)

// Bracket of the blocksize search, as fractions of the dimension
const (
	searchLow  = 0.2
	searchHigh = 0.8
)

// GSAFactor returns the Geometric Series Assumption prediction
//
//	((beta/(2eπ)) (beta π)^(1/beta))^((2beta - dim - 1)/(beta - 1))
//
// for the squared norm of the first vector of the last BKZ-beta block,
// relative to vol^(2/dim).
func (e *Estimator) GSAFactor(beta *big.Float, dim int) (*big.Float, error) {
	p := e.prec
	one := p.Float(1)
	if beta.Cmp(one) <= 0 {
		return nil, fmt.Errorf("%w: blocksize %s must exceed 1", ErrInvalidParameter, beta.Text('g', 10))
	}
	b := p.New().Set(beta)
	pi := p.Pi()

	// beta / (2eπ)
	base := p.New().Quo(b, e.twoEPi)

	// (beta π)^(1/beta)
	root := p.New().Mul(b, pi)
	root = bigfloat.Pow(root, p.New().Quo(one, b))
	base.Mul(base, root)

	// (2beta - dim - 1) / (beta - 1)
	exp := p.New().Mul(b, p.Float(2))
	exp.Sub(exp, p.Float(dim+1))
	exp.Quo(exp, p.New().Sub(b, one))

	return bigfloat.Pow(base, exp), nil
}

// volumeTerm returns vol^(2/dim)
func (e *Estimator) volumeTerm(params Parameters) *big.Float {
	p := e.prec
	exp := p.New().Quo(p.Float(2), p.Float(params.Dimension))
	return bigfloat.Pow(p.Float(params.Volume), exp)
}

// PrimalResidual returns
//
//	sq_min_proj * |t|^2 / GSA(beta, dim) / vol^(2/dim) - 1
//
// where sq_min_proj is the expected minimal squared projection onto beta dimensions.
// The residual is zero at the blocksize where BKZ-beta is expected to just reveal a
// vector as short as the target.
func (e *Estimator) PrimalResidual(params Parameters, beta *big.Float) (*big.Float, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return e.residual(params, e.volumeTerm(params), beta)
}

func (e *Estimator) residual(params Parameters, volTerm, beta *big.Float) (*big.Float, error) {
	p := e.prec
	sq, err := e.ExpectedMinSquaredProjection(params.Dimension, beta, params.TargetCount)
	if err != nil {
		return nil, err
	}
	gsa, err := e.GSAFactor(beta, params.Dimension)
	if err != nil {
		return nil, err
	}
	r := p.New().Mul(sq, p.Float(params.SquaredTargetNorm))
	r.Quo(r, gsa)
	r.Quo(r, volTerm)
	return r.Sub(r, p.Float(1)), nil
}

// Blocksize returns the critical blocksize of params: the zero of the primal residual
// on [0.2 dim, 0.8 dim]. Estimates for dimensions below MinAccurateDimension or
// blocksizes below MinAccurateBlocksize carry warnings but are still returned.
func (e *Estimator) Blocksize(params Parameters) (Estimate, error) {
	if err := params.Validate(); err != nil {
		return Estimate{}, err
	}
	p := e.prec
	dim := p.Float(params.Dimension)
	lo := p.New().Mul(dim, p.Float(searchLow))
	hi := p.New().Mul(dim, p.Float(searchHigh))
	volTerm := e.volumeTerm(params)

	e.logger.Debug("solving primal equation",
		"parameters", params.Name,
		"dimension", params.Dimension,
		"targets", params.TargetCount,
		"precision", p.Prec,
	)

	residual := func(beta *big.Float) (*big.Float, error) {
		return e.residual(params, volTerm, beta)
	}
	root, err := arithmetic.Bisect(p, residual, p.Float(0), lo, hi)
	est := Estimate{
		Parameters: params,
		Blocksize:  root.Value,
		Iterations: root.Iterations,
	}
	if err != nil {
		return est, fmt.Errorf("blocksize of %s: %w", params, err)
	}

	if params.Dimension < MinAccurateDimension {
		est.Warnings = append(est.Warnings, fmt.Sprintf("dimension %d is below %d, the estimate is likely inaccurate",
			params.Dimension, MinAccurateDimension))
	}
	if est.Blocksize.Cmp(p.Float(MinAccurateBlocksize)) < 0 {
		est.Warnings = append(est.Warnings, fmt.Sprintf("blocksize %.2f is below %d, where the GSA model is inaccurate",
			est.BlocksizeFloat64(), MinAccurateBlocksize))
	}
	for _, w := range est.Warnings {
		e.logger.Warn(w, "parameters", params.Name)
	}

	e.logger.Debug("primal equation solved",
		"parameters", params.Name,
		"blocksize", est.Blocksize.Text('f', 6),
		"iterations", est.Iterations,
	)
	return est, nil
}

// Compare solves params once with a single target and once with dimension targets
func (e *Estimator) Compare(params Parameters) (Comparison, error) {
	single, err := e.Blocksize(params.WithTargetCount(1))
	if err != nil {
		return Comparison{}, err
	}
	multi, err := e.Blocksize(params.WithTargetCount(params.Dimension))
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{Single: single, Multi: multi}, nil
}
