package pkg

import (
	"fmt"
	"math/big"
)

// ModulusGenerator walks the NTT-friendly primes q = 1 mod 2n on either side of 2^logQ.
// Moduli are big integers, so logQ is not bounded by the machine word.
type ModulusGenerator struct {
	LogQ        int
	Step        *big.Int // 2n
	above       *big.Int
	below       *big.Int
	aboveClosed bool
	belowClosed bool
}

// NewModulusGenerator creates a generator for primes of the form 2^logQ +- k*2n + 1
func NewModulusGenerator(n, logQ int) (*ModulusGenerator, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: ring degree %d must be positive", ErrInvalidParameter, n)
	}
	if logQ < 2 {
		return nil, fmt.Errorf("%w: modulus size %d bits must be at least 2", ErrInvalidParameter, logQ)
	}
	one := big.NewInt(1)
	step := big.NewInt(int64(2 * n))
	pow := new(big.Int).Lsh(one, uint(logQ))

	above := new(big.Int).Add(pow, one)
	below := new(big.Int).Sub(pow, step)
	below.Add(below, one)

	return &ModulusGenerator{
		LogQ:        logQ,
		Step:        step,
		above:       above,
		below:       below,
		belowClosed: below.Sign() <= 0,
	}, nil
}

// Below returns the next prime q < 2^logQ, going down, with q >= 2^(logQ-1)
func (g *ModulusGenerator) Below() (*big.Int, error) {
	if g.belowClosed {
		return nil, fmt.Errorf("no NTT-friendly modulus left in [2^%d, 2^%d) for step %s", g.LogQ-1, g.LogQ, g.Step)
	}
	floor := new(big.Int).Lsh(big.NewInt(1), uint(g.LogQ-1))
	for g.below.Cmp(floor) >= 0 {
		candidate := new(big.Int).Set(g.below)
		g.below.Sub(g.below, g.Step)
		if candidate.ProbablyPrime(20) {
			return candidate, nil
		}
	}
	g.belowClosed = true
	return nil, fmt.Errorf("no NTT-friendly modulus left in [2^%d, 2^%d) for step %s", g.LogQ-1, g.LogQ, g.Step)
}

// Above returns the next prime q > 2^logQ, going up, with q < 2^(logQ+1)
func (g *ModulusGenerator) Above() (*big.Int, error) {
	if g.aboveClosed {
		return nil, fmt.Errorf("no NTT-friendly modulus left in (2^%d, 2^%d) for step %s", g.LogQ, g.LogQ+1, g.Step)
	}
	ceil := new(big.Int).Lsh(big.NewInt(1), uint(g.LogQ+1))
	for g.above.Cmp(ceil) < 0 {
		candidate := new(big.Int).Set(g.above)
		g.above.Add(g.above, g.Step)
		if candidate.ProbablyPrime(20) {
			return candidate, nil
		}
	}
	g.aboveClosed = true
	return nil, fmt.Errorf("no NTT-friendly modulus left in (2^%d, 2^%d) for step %s", g.LogQ, g.LogQ+1, g.Step)
}

// BelowN returns the next k moduli below 2^logQ in decreasing order.
// Fewer are returned together with the error when the range runs out.
func (g *ModulusGenerator) BelowN(k int) ([]*big.Int, error) {
	moduli := make([]*big.Int, 0, k)
	for len(moduli) < k {
		q, err := g.Below()
		if err != nil {
			return moduli, err
		}
		moduli = append(moduli, q)
	}
	return moduli, nil
}

// IsNTTFriendly reports whether q is a prime with q = 1 mod 2n
func IsNTTFriendly(n int, q *big.Int) bool {
	if n < 1 || q == nil || q.Sign() <= 0 {
		return false
	}
	r := new(big.Int).Mod(q, big.NewInt(int64(2*n)))
	return r.Cmp(big.NewInt(1)) == 0 && q.ProbablyPrime(20)
}
