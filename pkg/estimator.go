package pkg

import (
	"io"
	"log/slog"
	"math/big"

	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg/arithmetic"
)

// Estimator evaluates primal attack blocksizes inside one precision domain
type Estimator struct {
	prec   arithmetic.Precision
	logger *slog.Logger
	twoEPi *big.Float // 2eπ, the GSA normalisation
}

// NewEstimator creates an estimator; a nil logger discards log output
func NewEstimator(prec arithmetic.Precision, logger *slog.Logger) (*Estimator, error) {
	if err := prec.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	twoEPi := prec.New().Mul(prec.E(), prec.Pi())
	twoEPi.Mul(twoEPi, prec.Float(2))
	return &Estimator{prec: prec, logger: logger, twoEPi: twoEPi}, nil
}

// DefaultEstimator returns a silent estimator at the default 100-bit precision
func DefaultEstimator() *Estimator {
	est, _ := NewEstimator(arithmetic.DefaultPrecision(), nil)
	return est
}

// Precision returns the precision domain of e
func (e *Estimator) Precision() arithmetic.Precision {
	return e.prec
}

// Estimate is the critical blocksize of one instance
type Estimate struct {
	Parameters Parameters
	// Blocksize is the root of the primal residual
	Blocksize *big.Float
	// Iterations is the number of residual evaluations performed by the bisection
	Iterations int
	// Warnings lists reasons the estimate may be inaccurate
	Warnings []string
}

// BlocksizeFloat64 returns the blocksize rounded to a float64
func (est Estimate) BlocksizeFloat64() float64 {
	if est.Blocksize == nil {
		return 0
	}
	f, _ := est.Blocksize.Float64()
	return f
}

// Accurate reports whether the estimate lies in the range where the model holds
func (est Estimate) Accurate() bool {
	return len(est.Warnings) == 0
}

// Comparison holds the single-target and the many-target estimate of one lattice
type Comparison struct {
	Single Estimate
	Multi  Estimate
}
