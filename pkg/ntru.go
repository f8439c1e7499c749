package pkg

import (
	"fmt"
	"math/big"
)

// FalconQ is the modulus shared by the Falcon parameter sets
const FalconQ = 12289

// falconSigmaFactor scales sqrt(q/2n), the standard deviation of the Falcon key coefficients
const falconSigmaFactor = 1.17

// NTRUParameters returns the primal lattice of an NTRU instance with ring degree n
// and modulus q: dimension 2n and volume q^n. Each of the n rotations of the secret
// (f, g) is a short vector of the same norm, so all n are attacked jointly.
func NTRUParameters(name string, n int, q *big.Int, squaredNorm float64) Parameters {
	vol := new(big.Int).Exp(q, big.NewInt(int64(n)), nil)
	return Parameters{
		Name:              name,
		Dimension:         2 * n,
		Volume:            new(big.Float).SetInt(vol),
		SquaredTargetNorm: big.NewFloat(squaredNorm),
		TargetCount:       n,
	}
}

// hpsSquaredNorm is E[|f|^2] + |g|^2 for NTRU-HPS: f ternary, g of weight q/8-2
func hpsSquaredNorm(n int, q int64) float64 {
	return 2*float64(n-1)/3 + float64(q/8-2)
}

// hrssSquaredNorm is E[|f|^2] + E[|g|^2] for NTRU-HRSS where g = (x-1) g'
func hrssSquaredNorm(n int) float64 {
	ternary := 2 * float64(n-1) / 3
	return ternary + 2*ternary
}

// falconSquaredNorm is E[|(f, g)|^2] = 2n sigma^2 with sigma = 1.17 sqrt(q/2n)
func falconSquaredNorm(q *big.Int) float64 {
	qf, _ := new(big.Float).SetInt(q).Float64()
	return falconSigmaFactor * falconSigmaFactor * qf
}

// FalconParameters returns the Falcon-n key-recovery lattice
func FalconParameters(n int) Parameters {
	q := big.NewInt(FalconQ)
	return NTRUParameters(fmt.Sprintf("falcon%d", n), n, q, falconSquaredNorm(q))
}

// FalconLikeParameters returns a Falcon-shaped instance of degree n whose modulus is the
// largest NTT-friendly prime q < 2^logQ, q = 1 mod 2n
func FalconLikeParameters(n, logQ int) (Parameters, error) {
	if n < 2 || n&(n-1) != 0 {
		return Parameters{}, fmt.Errorf("%w: ring degree %d must be a power of two", ErrInvalidParameter, n)
	}
	gen, err := NewModulusGenerator(n, logQ)
	if err != nil {
		return Parameters{}, err
	}
	q, err := gen.Below()
	if err != nil {
		return Parameters{}, fmt.Errorf("falcon-like degree %d: %w", n, err)
	}
	return NTRUParameters(fmt.Sprintf("falcon-like-%d-q%s", n, q), n, q, falconSquaredNorm(q)), nil
}

func ntruPresets() []Parameters {
	hps := func(n int, q int64) Parameters {
		return NTRUParameters(fmt.Sprintf("ntruhps%d%d", q, n), n, big.NewInt(q), hpsSquaredNorm(n, q))
	}
	return []Parameters{
		hps(509, 2048),
		hps(677, 2048),
		hps(821, 4096),
		NTRUParameters("ntruhrss701", 701, big.NewInt(8192), hrssSquaredNorm(701)),
		FalconParameters(512),
		FalconParameters(1024),
	}
}
