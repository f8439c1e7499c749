package arithmetic

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func linear(p Precision, root float64) Func {
	r := p.Float(root)
	return func(x *big.Float) (*big.Float, error) {
		return p.New().Sub(x, r), nil
	}
}

func TestBisectLinear(t *testing.T) {
	p := DefaultPrecision()
	root, err := Bisect(p, linear(p, 7), p.Float(0), p.Float(0), p.Float(10))
	require.NoError(t, err)
	require.InDelta(t, 7.0, root.Float64(), 1e-10)
	require.Greater(t, root.Iterations, 1)
}

func TestBisectIdempotent(t *testing.T) {
	p := DefaultPrecision()
	g := linear(p, 7)
	first, err := Bisect(p, g, p.Float(0), p.Float(0), p.Float(10))
	require.NoError(t, err)

	delta := p.Float(1e-3)
	lo := p.New().Sub(first.Value, delta)
	hi := p.New().Add(first.Value, delta)
	second, err := Bisect(p, g, p.Float(0), lo, hi)
	require.NoError(t, err)
	require.InDelta(t, first.Float64(), second.Float64(), 1e-10)
}

func TestBisectTarget(t *testing.T) {
	p := DefaultPrecision()
	square := func(x *big.Float) (*big.Float, error) {
		return p.New().Mul(x, x), nil
	}
	root, err := Bisect(p, square, p.Float(2), p.Float(0), p.Float(2))
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt2, root.Float64(), 1e-10)
}

func TestBisectDecreasing(t *testing.T) {
	p := DefaultPrecision()
	g := func(x *big.Float) (*big.Float, error) {
		return p.New().Sub(p.Float(3), x), nil
	}
	root, err := Bisect(p, g, p.Float(0), p.Float(-10), p.Float(10))
	require.NoError(t, err)
	require.InDelta(t, 3.0, root.Float64(), 1e-10)
}

func TestBisectValueCheckReturnsFirstMidpoint(t *testing.T) {
	p := DefaultPrecision()
	root, err := Bisect(p, linear(p, 5), p.Float(0), p.Float(0), p.Float(10))
	require.NoError(t, err)
	require.Equal(t, 1, root.Iterations)
	require.Zero(t, root.Value.Cmp(p.Float(5)))
}

func TestBisectNarrowBracket(t *testing.T) {
	p := DefaultPrecision()
	lo, hi := p.Float(1), p.Float(1+1e-12)
	root, err := Bisect(p, linear(p, 100), p.Float(0), lo, hi)
	require.NoError(t, err)
	require.Equal(t, 0, root.Iterations)
	require.InDelta(t, 1.0, root.Float64(), 1e-11)
}

func TestBisectIterationCap(t *testing.T) {
	p := DefaultPrecision().WithEps(1e-25).WithMaxIter(5)
	root, err := Bisect(p, linear(p, math.Pi), p.Float(0), p.Float(0), p.Float(10))
	require.ErrorIs(t, err, ErrNonConvergent)
	require.Equal(t, 5, root.Iterations)
	require.NotNil(t, root.Value)
}

func TestBisectPropagatesErrors(t *testing.T) {
	p := DefaultPrecision()
	boom := errors.New("boom")
	g := func(x *big.Float) (*big.Float, error) { return nil, boom }
	_, err := Bisect(p, g, p.Float(0), p.Float(0), p.Float(1))
	require.ErrorIs(t, err, boom)
}
