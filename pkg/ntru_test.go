package pkg

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNTRUParametersVolume(t *testing.T) {
	params := NTRUParameters("toy", 7, big.NewInt(3), 10)
	require.Equal(t, 14, params.Dimension)
	require.Equal(t, 7, params.TargetCount)

	vol, acc := params.Volume.Int(nil)
	require.Equal(t, big.Exact, acc)
	require.Equal(t, big.NewInt(2187), vol)
}

func TestNTRUVolumeExceedsFloat64(t *testing.T) {
	params, err := GetParameterSet("ntruhps2048509")
	require.NoError(t, err)
	require.Equal(t, 1018, params.Dimension)
	require.Equal(t, 509, params.TargetCount)

	// 2048^509 = 2^5599
	require.Equal(t, 5599, params.Volume.MantExp(nil)-1)
	require.True(t, params.Volume.IsInt())

	norm, _ := params.SquaredTargetNorm.Float64()
	require.InDelta(t, 592.67, norm, 0.01)
}

func TestFalconParameters(t *testing.T) {
	params := FalconParameters(512)
	require.Equal(t, "falcon512", params.Name)
	require.Equal(t, 1024, params.Dimension)

	norm, _ := params.SquaredTargetNorm.Float64()
	require.InDelta(t, 1.17*1.17*12289, norm, 1e-6)
}

func TestIsNTTFriendly(t *testing.T) {
	q := big.NewInt(FalconQ)
	require.True(t, IsNTTFriendly(512, q))
	require.True(t, IsNTTFriendly(1024, q))
	require.False(t, IsNTTFriendly(4096, q))
	require.False(t, IsNTTFriendly(512, big.NewInt(12288)))
	// 1025 = 1 mod 1024 but 1025 = 5^2 * 41
	require.False(t, IsNTTFriendly(512, big.NewInt(1025)))
	require.False(t, IsNTTFriendly(0, q))
	require.False(t, IsNTTFriendly(512, nil))
}

func TestModulusGenerator(t *testing.T) {
	gen, err := NewModulusGenerator(512, 14)
	require.NoError(t, err)

	pow := new(big.Int).Lsh(big.NewInt(1), 14)
	half := new(big.Int).Rsh(pow, 1)
	moduli, err := gen.BelowN(3)
	require.NoError(t, err)
	require.Len(t, moduli, 3)
	found := false
	for i, q := range moduli {
		require.True(t, IsNTTFriendly(512, q), "q = %s", q)
		require.Equal(t, -1, q.Cmp(pow))
		require.GreaterOrEqual(t, q.Cmp(half), 0)
		if i > 0 {
			require.Equal(t, -1, q.Cmp(moduli[i-1]))
		}
		found = found || q.Int64() == FalconQ
	}
	require.True(t, found, "12289 not among %v", moduli)

	up, err := gen.Above()
	require.NoError(t, err)
	require.True(t, IsNTTFriendly(512, up))
	require.Equal(t, 1, up.Cmp(pow))

	_, err = NewModulusGenerator(0, 14)
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewModulusGenerator(512, 1)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestModulusGeneratorExhausted(t *testing.T) {
	// the only candidates in [4, 8) are 1 mod 8: none
	gen, err := NewModulusGenerator(4, 3)
	require.NoError(t, err)
	_, err = gen.Below()
	require.Error(t, err)
	_, err = gen.Below()
	require.Error(t, err)
}

func TestFalconLikeParameters(t *testing.T) {
	params, err := FalconLikeParameters(512, 100)
	require.NoError(t, err)
	require.Equal(t, 1024, params.Dimension)
	require.Equal(t, 512, params.TargetCount)
	require.NoError(t, params.Validate())
	require.Contains(t, params.Name, "falcon-like-512-q")

	_, err = FalconLikeParameters(500, 30)
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = FalconLikeParameters(512, 1)
	require.ErrorIs(t, err, ErrInvalidParameter)
}
