package hypercubic

import (
	"context"

	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg"
	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg/arithmetic"
)

type (
	Estimator    = pkg.Estimator
	Estimate     = pkg.Estimate
	Comparison   = pkg.Comparison
	Parameters   = pkg.Parameters
	SweepOptions = pkg.SweepOptions
	SweepRow     = pkg.SweepRow
	Precision    = arithmetic.Precision
)

// NewEstimator creates a silent estimator working with prec bits
func NewEstimator(prec uint) (*Estimator, error) {
	return pkg.NewEstimator(arithmetic.NewPrecision(prec), nil)
}

// Blocksize estimates the BKZ blocksize recovering one of targets equally short
// vectors of squared norm squaredNorm in a lattice of the given dimension and volume
func Blocksize(dimension int, volume, squaredNorm float64, targets int) (Estimate, error) {
	params := pkg.NewParameters("custom", dimension, volume, squaredNorm, targets)
	return pkg.DefaultEstimator().Blocksize(params)
}

// Hypercubic compares the single-target and the dimension-target blocksize of Z^dimension
func Hypercubic(dimension int) (Comparison, error) {
	return pkg.DefaultEstimator().Compare(pkg.HypercubicParameters(dimension, 1))
}

// Preset estimates a registered parameter set with its own target count
func Preset(name string) (Estimate, error) {
	params, err := pkg.GetParameterSet(name)
	if err != nil {
		return Estimate{}, err
	}
	return pkg.DefaultEstimator().Blocksize(params)
}

// Sweep runs the reference sweep of hypercubic lattices, dimensions 200 to 975 step 25
func Sweep(ctx context.Context) ([]SweepRow, error) {
	return pkg.DefaultEstimator().Sweep(ctx, pkg.DefaultSweepOptions())
}
