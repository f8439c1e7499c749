package internal

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ALTree/bigfloat"

	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg/arithmetic"
)

// ErrMalformedNumber is returned by ParseReal for input it cannot read
var ErrMalformedNumber = errors.New("malformed number")

// ParseReal parses a positive real given in decimal or scientific notation
// ("593", "1.5e30") or as a power "b^e" ("2048^509", "1.17^2"). Integer
// powers of integers are computed exactly before rounding to prec bits.
func ParseReal(s string, prec uint) (*big.Float, error) {
	s = strings.TrimSpace(s)
	base, exp, isPow := strings.Cut(s, "^")
	if !isPow {
		x, err := parseDecimal(s, prec)
		if err != nil {
			return nil, err
		}
		return x, nil
	}

	base, exp = strings.TrimSpace(base), strings.TrimSpace(exp)
	if bi, ok := new(big.Int).SetString(base, 10); ok {
		if ei, ok := new(big.Int).SetString(exp, 10); ok && ei.Sign() >= 0 && ei.IsInt64() {
			if bi.Sign() <= 0 {
				return nil, fmt.Errorf("%w: %q: base must be positive", ErrMalformedNumber, s)
			}
			pow := new(big.Int).Exp(bi, ei, nil)
			return new(big.Float).SetPrec(prec).SetInt(pow), nil
		}
	}

	b, err := parseDecimal(base, prec)
	if err != nil {
		return nil, err
	}
	e, _, err := big.ParseFloat(exp, 10, prec, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: exponent: %v", ErrMalformedNumber, s, err)
	}
	if e.IsInt() && e.Sign() >= 0 {
		if n, acc := e.Int64(); acc == big.Exact {
			return arithmetic.PowInt(b, int(n)), nil
		}
	}
	return bigfloat.Pow(b, e), nil
}

func parseDecimal(s string, prec uint) (*big.Float, error) {
	x, _, err := big.ParseFloat(s, 10, prec, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedNumber, s, err)
	}
	if x.Sign() <= 0 || x.IsInf() {
		return nil, fmt.Errorf("%w: %q: must be positive and finite", ErrMalformedNumber, s)
	}
	return x, nil
}

// FormatFloat renders x with the given number of decimals
func FormatFloat(x *big.Float, decimals int) string {
	if x == nil {
		return "-"
	}
	return x.Text('f', decimals)
}

// FormatMagnitude renders x compactly: plain for moderate values, as 2^k for huge ones
func FormatMagnitude(x *big.Float) string {
	if x == nil {
		return "-"
	}
	if x.MantExp(nil) > 64 {
		// log2 x to two decimals
		l := bigfloat.Log(new(big.Float).SetPrec(64).Set(x))
		l.Quo(l, bigfloat.Log(new(big.Float).SetPrec(64).SetInt64(2)))
		f, _ := l.Float64()
		return fmt.Sprintf("2^%.2f", f)
	}
	return x.Text('g', 8)
}
