// Package arithmetic provides the arbitrary-precision numerics of the primal attack estimator
package arithmetic

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"
	"github.com/tuneinsight/lattigo/v6/utils/bignum"
)

var (
	// ErrDomain indicates that a function was evaluated outside its domain
	ErrDomain = errors.New("arithmetic: argument outside function domain")

	// ErrNonConvergent indicates that an iterative method hit its iteration cap
	ErrNonConvergent = errors.New("arithmetic: iteration limit reached before convergence")

	// ErrInvalidPrecision indicates an unusable precision configuration
	ErrInvalidPrecision = errors.New("arithmetic: invalid precision")
)

const (
	// DefaultPrec is the working precision in bits
	DefaultPrec uint = 100
	// DefaultGuard is the number of extra bits carried inside special functions
	DefaultGuard uint = 32
	// DefaultEps is the absolute tolerance of the bisection solver
	DefaultEps = 1e-10
	// DefaultMaxIter caps bisection loops and continued fractions
	DefaultMaxIter = 10000

	// MaxPrec bounds the working precision; the log-gamma series is sized for it
	MaxPrec uint = 1024
)

// Precision is the fixed precision domain shared by every value of one solve.
// It is a value type and must not be modified once a solve has started.
type Precision struct {
	// Prec is the working precision in bits
	Prec uint
	// Guard is added to Prec while evaluating special functions
	Guard uint
	// Eps is the absolute tolerance used by Bisect
	Eps *big.Float
	// MaxIter caps the number of iterations of Bisect and of continued fractions
	MaxIter int
}

// NewPrecision returns a precision context with prec bits and default tolerance
func NewPrecision(prec uint) Precision {
	return Precision{
		Prec:    prec,
		Guard:   DefaultGuard,
		Eps:     bignum.NewFloat(DefaultEps, prec),
		MaxIter: DefaultMaxIter,
	}
}

// DefaultPrecision returns the 100-bit context used by the reference estimates
func DefaultPrecision() Precision {
	return NewPrecision(DefaultPrec)
}

// WithEps returns a copy of p with the bisection tolerance set to eps
func (p Precision) WithEps(eps float64) Precision {
	p.Eps = bignum.NewFloat(eps, p.Prec)
	return p
}

// WithMaxIter returns a copy of p with the iteration cap set to n
func (p Precision) WithMaxIter(n int) Precision {
	p.MaxIter = n
	return p
}

// Validate checks that p can drive a solve
func (p Precision) Validate() error {
	if p.Prec < 53 || p.Prec > MaxPrec {
		return fmt.Errorf("%w: working precision %d bits outside [53, %d]", ErrInvalidPrecision, p.Prec, MaxPrec)
	}
	if p.Prec+p.Guard > MaxPrec+256 {
		return fmt.Errorf("%w: %d guard bits is too many", ErrInvalidPrecision, p.Guard)
	}
	if p.Eps == nil || p.Eps.Sign() <= 0 {
		return fmt.Errorf("%w: tolerance must be positive", ErrInvalidPrecision)
	}
	if p.MaxIter <= 0 {
		return fmt.Errorf("%w: iteration cap must be positive, got %d", ErrInvalidPrecision, p.MaxIter)
	}
	return nil
}

// New returns a zero with the working precision
func (p Precision) New() *big.Float {
	return new(big.Float).SetPrec(p.Prec)
}

// Float elevates x into the precision domain.
// Valid types for x are: int, int64, uint, uint64, float64, *big.Int or *big.Float.
func (p Precision) Float(x interface{}) *big.Float {
	return bignum.NewFloat(x, p.Prec)
}

// Pi returns π at the working precision
func (p Precision) Pi() *big.Float {
	return bignum.Pi(p.Prec)
}

// E returns Euler's number at the working precision
func (p Precision) E() *big.Float {
	return bigfloat.Exp(p.Float(1))
}

// extended returns the context used inside special functions
func (p Precision) extended() Precision {
	ext := p
	ext.Prec = p.Prec + p.Guard
	return ext
}

// PowInt returns x^n for n >= 0 by repeated squaring, at the precision of x
func PowInt(x *big.Float, n int) *big.Float {
	prec := x.Prec()
	result := new(big.Float).SetPrec(prec).SetInt64(1)
	base := new(big.Float).SetPrec(prec).Set(x)
	for n > 0 {
		if n&1 == 1 {
			result.Mul(result, base)
		}
		n >>= 1
		if n > 0 {
			base.Mul(base, base)
		}
	}
	return result
}
