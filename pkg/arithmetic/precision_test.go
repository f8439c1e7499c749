package arithmetic

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrecisionValidate(t *testing.T) {
	require.NoError(t, DefaultPrecision().Validate())

	cases := map[string]Precision{
		"too-few-bits":  NewPrecision(32),
		"too-many-bits": NewPrecision(MaxPrec + 1),
		"zero-eps":      DefaultPrecision().WithEps(0),
		"no-iterations": DefaultPrecision().WithMaxIter(0),
	}
	for name, p := range cases {
		p := p
		t.Run(name, func(t *testing.T) {
			err := p.Validate()
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidPrecision), "got %v", err)
		})
	}
}

func TestPrecisionFloat(t *testing.T) {
	p := NewPrecision(160)
	for _, x := range []interface{}{1, int64(2), 0.25, big.NewInt(5), big.NewFloat(6)} {
		f := p.Float(x)
		require.Equal(t, uint(160), f.Prec())
	}
	require.Equal(t, uint(160), p.Pi().Prec())

	e, _ := p.E().Float64()
	require.InDelta(t, 2.718281828459045, e, 1e-15)
}

func TestPowInt(t *testing.T) {
	p := DefaultPrecision()
	got := PowInt(p.Float(1.5), 10)
	require.Zero(t, got.Cmp(p.Float(57.6650390625)), "1.5^10 = %s", got.Text('g', 20))
	require.Zero(t, PowInt(p.Float(7), 0).Cmp(p.Float(1)))
	require.Zero(t, PowInt(p.Float(0), 3).Sign())
}
